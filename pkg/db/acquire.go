package db

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Acquire takes a connection from the pool, waiting at most timeout.
// A non-positive timeout waits as long as ctx allows.
// The caller must Release the returned connection.
func Acquire(ctx context.Context, pool *pgxpool.Pool, timeout time.Duration) (*pgxpool.Conn, error) {
	acquireCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		acquireCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	conn, err := pool.Acquire(acquireCtx)
	if err != nil {
		// Only the acquire deadline counts as a timeout; a cancelled parent does not.
		if errors.Is(acquireCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			return nil, errors.Join(ErrAcquireTimeout, err)
		}
		return nil, errors.Join(ErrAcquireFailed, err)
	}
	return conn, nil
}
