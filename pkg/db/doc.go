// Package db provides PostgreSQL helpers built on [github.com/jackc/pgx/v5/pgxpool].
//
// It covers pool setup with startup retries, connection acquisition bounded by
// a timeout, transactions that own their connection, readiness checks and
// schema migrations through [github.com/pressly/goose/v3].
//
// # Configuration
//
// Config is populated from the environment:
//
//	DATABASE_CONN_URL           - PostgreSQL connection URL (required)
//	DATABASE_ACQUIRE_TIMEOUT    - Max wait for a pooled connection (default: 2s)
//	DATABASE_MAX_OPEN_CONNS     - Maximum open connections (default: 10)
//	DATABASE_MIN_CONNS          - Minimum idle connections (default: 0)
//	DATABASE_HEALTHCHECK_PERIOD - Pool health check interval (default: 1m)
//	DATABASE_MAX_CONN_IDLE_TIME - Maximum connection idle time (default: 10m)
//	DATABASE_MAX_CONN_LIFETIME  - Maximum connection lifetime (default: 30m)
//	DATABASE_RETRY_ATTEMPTS     - Connection attempts at startup (default: 3)
//	DATABASE_RETRY_INTERVAL     - Base retry interval (default: 5s)
//	DATABASE_MIGRATIONS_TABLE   - Migrations table name (default: schema_migrations)
//
// # Transactions
//
// Begin returns a *Tx that holds its connection until Commit or Rollback.
// Deferring Rollback right after Begin guarantees the connection is returned
// on every path:
//
//	tx, err := db.Begin(ctx, pool, cfg.AcquireTimeout)
//	if err != nil {
//	    return err
//	}
//	defer tx.Rollback(ctx)
//	// ... statements ...
//	return tx.Commit(ctx)
//
// WithTx wraps the same pattern around a callback.
//
// # Errors
//
// Acquisition failures wrap ErrAcquireTimeout or ErrAcquireFailed, a failed
// BEGIN wraps ErrBeginFailed and a failed COMMIT wraps ErrCommitFailed, so
// callers can tell infrastructure problems from write failures with errors.Is.
package db
