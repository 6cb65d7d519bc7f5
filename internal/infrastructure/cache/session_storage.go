package cache

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const sessionPrefix = "session:"

// SessionStorage implements fiber.Storage on top of redis so cookie sessions
// survive restarts and are shared between instances.
type SessionStorage struct {
	client *redis.Client
	prefix string
}

func NewSessionStorage(r *Redis) (*SessionStorage, error) {
	if !r.Available() {
		return nil, ErrUnavailable
	}
	return &SessionStorage{client: r.client, prefix: sessionPrefix}, nil
}

func (s *SessionStorage) key(k string) string {
	return s.prefix + k
}

func (s *SessionStorage) GetWithContext(ctx context.Context, key string) ([]byte, error) {
	if strings.TrimSpace(key) == "" {
		return nil, nil
	}
	b, err := s.client.Get(ctx, s.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	return b, nil
}

func (s *SessionStorage) Get(key string) ([]byte, error) {
	return s.GetWithContext(context.Background(), key)
}

func (s *SessionStorage) SetWithContext(ctx context.Context, key string, val []byte, exp time.Duration) error {
	if strings.TrimSpace(key) == "" || len(val) == 0 {
		return nil
	}
	if exp < 0 {
		exp = 0
	}
	return s.client.Set(ctx, s.key(key), val, exp).Err()
}

func (s *SessionStorage) Set(key string, val []byte, exp time.Duration) error {
	return s.SetWithContext(context.Background(), key, val, exp)
}

func (s *SessionStorage) DeleteWithContext(ctx context.Context, key string) error {
	if strings.TrimSpace(key) == "" {
		return nil
	}
	return s.client.Del(ctx, s.key(key)).Err()
}

func (s *SessionStorage) Delete(key string) error {
	return s.DeleteWithContext(context.Background(), key)
}

// ResetWithContext removes every session key, leaving the rest of the database alone.
func (s *SessionStorage) ResetWithContext(ctx context.Context) error {
	iter := s.client.Scan(ctx, 0, s.prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

func (s *SessionStorage) Reset() error {
	return s.ResetWithContext(context.Background())
}

// Close is a no-op; the client is owned by Redis.
func (s *SessionStorage) Close() error {
	return nil
}
