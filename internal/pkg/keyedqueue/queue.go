// Package keyedqueue runs tasks on a fixed set of single-writer workers.
// Tasks submitted under the same key always land on the same worker and run
// one at a time in submission order.
package keyedqueue

import (
	"context"
	"errors"
	"sync"

	"github.com/cespare/xxhash/v2"
)

var ErrClosed = errors.New("keyed queue closed")

type Task func(ctx context.Context) error

type job struct {
	ctx  context.Context
	task Task
	done chan error
}

type Queue struct {
	shards []chan job
	wg     sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

func New(shards, buffer int) *Queue {
	if shards <= 0 {
		shards = 1
	}
	if buffer < 0 {
		buffer = 0
	}

	q := &Queue{shards: make([]chan job, shards)}
	q.wg.Add(shards)
	for i := range q.shards {
		ch := make(chan job, buffer)
		q.shards[i] = ch
		go q.worker(ch)
	}
	return q
}

func (q *Queue) worker(ch <-chan job) {
	defer q.wg.Done()
	for j := range ch {
		if err := j.ctx.Err(); err != nil {
			j.done <- err
			continue
		}
		j.done <- j.task(j.ctx)
	}
}

func (q *Queue) shardFor(key string) chan job {
	return q.shards[xxhash.Sum64String(key)%uint64(len(q.shards))]
}

// Do runs t on the worker owning key and waits for its result. If ctx ends
// before the task starts, the task is skipped and ctx.Err() is returned.
func (q *Queue) Do(ctx context.Context, key string, t Task) error {
	if t == nil {
		return nil
	}

	j := job{ctx: ctx, task: t, done: make(chan error, 1)}

	q.mu.RLock()
	if q.closed {
		q.mu.RUnlock()
		return ErrClosed
	}
	select {
	case q.shardFor(key) <- j:
	case <-ctx.Done():
		q.mu.RUnlock()
		return ctx.Err()
	}
	q.mu.RUnlock()

	select {
	case err := <-j.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting tasks and waits for queued tasks to drain.
func (q *Queue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	for _, ch := range q.shards {
		close(ch)
	}
	q.mu.Unlock()
	q.wg.Wait()
}
