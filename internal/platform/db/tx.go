package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type contextKey string

const txKey contextKey = "db_tx"

// Querier is the subset of pgx shared by *pgxpool.Pool and pgx.Tx.
// Repositories accept whichever the context carries, so the same repository
// code runs standalone reads and transactional writes.
type Querier interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

// TxFromContext returns the transaction stored by Runner.WithTx, or nil.
func TxFromContext(ctx context.Context) pgx.Tx {
	tx, _ := ctx.Value(txKey).(pgx.Tx)
	return tx
}

// Conn resolves the Querier for the current context: the enclosing
// transaction when one is open, the pool otherwise.
func Conn(ctx context.Context, pool *pgxpool.Pool) Querier {
	if tx := TxFromContext(ctx); tx != nil {
		return tx
	}
	return pool
}

// Runner executes functions inside a database transaction. It exists as an
// interface so service tests can substitute a pass-through implementation.
type Runner interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// PoolRunner runs transactions against a pgx pool. AcquireTimeout bounds how
// long a request may wait for a connection; when it elapses the call fails
// fast with ErrUnavailable instead of queueing.
type PoolRunner struct {
	Pool           *pgxpool.Pool
	AcquireTimeout time.Duration
}

func NewRunner(pool *pgxpool.Pool, acquireTimeout time.Duration) *PoolRunner {
	return &PoolRunner{Pool: pool, AcquireTimeout: acquireTimeout}
}

// WithTx begins a transaction, stores it in the context for repositories to
// pick up via Conn, and commits on success. The rollback in the deferred
// path covers errors, panics, and context cancellation alike, so no partial
// write survives any exit.
func (r *PoolRunner) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if r.AcquireTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.AcquireTimeout)
		defer cancel()
	}

	tx, err := r.Pool.Begin(ctx)
	if err != nil {
		return Unavailable(err)
	}
	defer tx.Rollback(ctx)

	if err := fn(context.WithValue(ctx, txKey, tx)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return Unavailable(err)
	}
	return nil
}
