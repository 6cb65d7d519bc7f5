package postgres

import (
	"context"
	"fmt"
	"time"

	"cinda/internal/database"
)

const defaultTimeout = 5 * time.Second

// base bounds every repository call by timeout.
type base struct {
	db      database.DB
	timeout time.Duration
}

func newBase(db database.DB, timeout time.Duration) base {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return base{db: db, timeout: timeout}
}

func (b base) ctx(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, b.timeout)
}

// inTx runs fn inside one transaction. It commits when fn returns nil and
// rolls back otherwise, including when fn panics.
func (b base) inTx(ctx context.Context, fn func(q database.Querier) error) error {
	tx, err := b.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback(ctx)
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	committed = true
	return nil
}
