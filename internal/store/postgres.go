package store

import (
	"context"
	"errors"
	"iter"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xxc-git/zero2prod/internal/domain"
	"github.com/xxc-git/zero2prod/pkg/db"
)

const (
	insertSubscriberQuery = `INSERT INTO subscriptions (id, email, name, subscribed_at, status)
VALUES ($1, $2, $3, $4, $5)`
	insertTokenQuery = `INSERT INTO subscription_tokens (subscription_token, subscriber_id)
VALUES ($1, $2)`
	findByTokenQuery   = `SELECT subscriber_id FROM subscription_tokens WHERE subscription_token = $1`
	markConfirmedQuery = `UPDATE subscriptions SET status = $1 WHERE id = $2`
	listConfirmedQuery = `SELECT email FROM subscriptions WHERE status = $1`
)

// Postgres is the PostgreSQL-backed store.
type Postgres struct {
	pool           *pgxpool.Pool
	now            func() time.Time
	acquireTimeout time.Duration
}

// PostgresOption configures a Postgres store.
type PostgresOption func(*Postgres)

// WithAcquireTimeout bounds how long any operation waits for a pooled connection.
func WithAcquireTimeout(d time.Duration) PostgresOption {
	return func(s *Postgres) {
		s.acquireTimeout = d
	}
}

// WithClock overrides the time source used for subscribed_at.
func WithClock(now func() time.Time) PostgresOption {
	return func(s *Postgres) {
		if now != nil {
			s.now = now
		}
	}
}

// NewPostgres creates a store on top of pool.
func NewPostgres(pool *pgxpool.Pool, opts ...PostgresOption) *Postgres {
	s := &Postgres{
		pool:           pool,
		now:            time.Now,
		acquireTimeout: 2 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WithinTx runs fn inside a transaction and commits if fn returns nil.
// Every other exit path, panics included, rolls back.
func (s *Postgres) WithinTx(ctx context.Context, fn func(tx Tx) error) error {
	err := db.WithTx(ctx, s.pool, s.acquireTimeout, func(tx pgx.Tx) error {
		return fn(&pgTx{tx: tx, now: s.now})
	})

	switch {
	case err == nil:
		return nil
	case isConnectivity(err):
		return domain.Fail(StepBegin, domain.ErrInfrastructure, err)
	case errors.Is(err, db.ErrCommitFailed):
		return domain.Fail(StepCommit, domain.ErrPersistence, err)
	default:
		return err
	}
}

// FindSubscriberByToken returns the subscriber id a token belongs to.
// An unknown token yields found=false and a nil error.
func (s *Postgres) FindSubscriberByToken(ctx context.Context, token string) (uuid.UUID, bool, error) {
	conn, err := db.Acquire(ctx, s.pool, s.acquireTimeout)
	if err != nil {
		return uuid.Nil, false, domain.Fail(StepFindToken, domain.ErrInfrastructure, err)
	}
	defer conn.Release()

	var id uuid.UUID
	err = conn.QueryRow(ctx, findByTokenQuery, token).Scan(&id)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return uuid.Nil, false, nil
	case err != nil:
		return uuid.Nil, false, domain.Fail(StepFindToken, domain.ErrUnexpected, err)
	}
	return id, true, nil
}

// MarkConfirmed sets the subscriber status to confirmed.
// Running it on an already confirmed subscriber changes nothing.
func (s *Postgres) MarkConfirmed(ctx context.Context, id uuid.UUID) error {
	conn, err := db.Acquire(ctx, s.pool, s.acquireTimeout)
	if err != nil {
		return domain.Fail(StepMarkConfirmed, domain.ErrInfrastructure, err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, markConfirmedQuery, string(domain.StatusConfirmed), id); err != nil {
		return domain.Fail(StepMarkConfirmed, domain.ErrPersistence, err)
	}
	return nil
}

// ListConfirmedSubscribers streams the stored email of every confirmed
// subscriber. Values are returned exactly as stored and may no longer pass
// validation. Each call runs a fresh query; the connection is held until the
// sequence is exhausted or the caller stops ranging.
func (s *Postgres) ListConfirmedSubscribers(ctx context.Context) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		conn, err := db.Acquire(ctx, s.pool, s.acquireTimeout)
		if err != nil {
			yield("", domain.Fail(StepListConfirmed, domain.ErrInfrastructure, err))
			return
		}
		defer conn.Release()

		rows, err := conn.Query(ctx, listConfirmedQuery, string(domain.StatusConfirmed))
		if err != nil {
			yield("", domain.Fail(StepListConfirmed, domain.ErrInfrastructure, err))
			return
		}
		defer rows.Close()

		for rows.Next() {
			var email string
			if err := rows.Scan(&email); err != nil {
				yield("", domain.Fail(StepListConfirmed, domain.ErrUnexpected, err))
				return
			}
			if !yield(email, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield("", domain.Fail(StepListConfirmed, domain.ErrInfrastructure, err))
		}
	}
}

// Ping reports whether the database answers.
func (s *Postgres) Ping(ctx context.Context) error {
	return db.Healthcheck(s.pool)(ctx)
}

type pgTx struct {
	tx  pgx.Tx
	now func() time.Time
}

func (t *pgTx) InsertPendingSubscriber(ctx context.Context, sub domain.NewSubscriber) (uuid.UUID, error) {
	id := uuid.New()
	_, err := t.tx.Exec(ctx, insertSubscriberQuery,
		id,
		sub.Email.String(),
		sub.Name.String(),
		t.now().UTC(),
		string(domain.StatusPendingConfirmation),
	)
	if err != nil {
		return uuid.Nil, domain.Fail(StepInsert, domain.ErrPersistence, err)
	}
	return id, nil
}

func (t *pgTx) StoreToken(ctx context.Context, subscriberID uuid.UUID, token string) error {
	if _, err := t.tx.Exec(ctx, insertTokenQuery, token, subscriberID); err != nil {
		return domain.Fail(StepStoreToken, domain.ErrPersistence, err)
	}
	return nil
}

func isConnectivity(err error) bool {
	return errors.Is(err, db.ErrAcquireTimeout) ||
		errors.Is(err, db.ErrAcquireFailed) ||
		errors.Is(err, db.ErrBeginFailed)
}
