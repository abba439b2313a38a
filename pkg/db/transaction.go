package db

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Tx is a transaction holding its own pooled connection.
// Commit and Rollback return the connection to the pool; Rollback after a
// successful Commit is a no-op, so it is safe to defer.
type Tx struct {
	pgx.Tx
	conn *pgxpool.Conn
}

// Begin acquires a connection (bounded by acquireTimeout) and opens a transaction on it.
func Begin(ctx context.Context, pool *pgxpool.Pool, acquireTimeout time.Duration) (*Tx, error) {
	conn, err := Acquire(ctx, pool, acquireTimeout)
	if err != nil {
		return nil, err
	}

	tx, err := conn.Begin(ctx)
	if err != nil {
		conn.Release()
		return nil, errors.Join(ErrBeginFailed, err)
	}

	return &Tx{Tx: tx, conn: conn}, nil
}

// Commit commits the transaction and releases its connection.
func (t *Tx) Commit(ctx context.Context) error {
	if t.conn == nil {
		return pgx.ErrTxClosed
	}
	defer t.release()

	if err := t.Tx.Commit(ctx); err != nil {
		return errors.Join(ErrCommitFailed, err)
	}
	return nil
}

// Rollback aborts the transaction and releases its connection.
func (t *Tx) Rollback(ctx context.Context) error {
	if t.conn == nil {
		return nil
	}
	defer t.release()

	if err := t.Tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return err
	}
	return nil
}

func (t *Tx) release() {
	t.conn.Release()
	t.conn = nil
}

// WithTx executes fn within a transaction.
// If fn returns an error or panics, the transaction is rolled back; a panic is re-raised.
// Otherwise the transaction is committed.
func WithTx(ctx context.Context, pool *pgxpool.Pool, acquireTimeout time.Duration, fn func(tx pgx.Tx) error) error {
	tx, err := Begin(ctx, pool, acquireTimeout)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(context.WithoutCancel(ctx))
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		_ = tx.Rollback(context.WithoutCancel(ctx))
		return err
	}

	return tx.Commit(ctx)
}
