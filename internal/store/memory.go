package store

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/xxc-git/zero2prod/internal/domain"
)

// ErrDuplicateToken is returned when a token is already assigned.
var ErrDuplicateToken = errors.New("store: duplicate subscription token")

// ErrUnknownSubscriber is returned when a token references a subscriber that does not exist.
var ErrUnknownSubscriber = errors.New("store: unknown subscriber")

// Memory is an in-process store with the same visibility rules as Postgres:
// transactional writes are buffered and applied atomically on commit.
type Memory struct {
	subscribers map[uuid.UUID]domain.Subscriber
	tokens      map[string]uuid.UUID
	now         func() time.Time
	order       []uuid.UUID
	mu          sync.RWMutex
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		subscribers: make(map[uuid.UUID]domain.Subscriber),
		tokens:      make(map[string]uuid.UUID),
		now:         time.Now,
	}
}

// WithinTx runs fn against a buffered transaction and applies its writes if fn returns nil.
func (m *Memory) WithinTx(ctx context.Context, fn func(tx Tx) error) error {
	if err := ctx.Err(); err != nil {
		return domain.Fail(StepBegin, domain.ErrInfrastructure, err)
	}

	tx := &memTx{store: m, tokens: make(map[string]uuid.UUID)}
	if err := fn(tx); err != nil {
		return err
	}
	if err := m.commit(tx); err != nil {
		return domain.Fail(StepCommit, domain.ErrPersistence, err)
	}
	return nil
}

func (m *Memory) commit(tx *memTx) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for token, id := range tx.tokens {
		if _, taken := m.tokens[token]; taken {
			return ErrDuplicateToken
		}
		if _, ok := m.subscribers[id]; !ok && !tx.inserted(id) {
			return fmt.Errorf("%w: %s", ErrUnknownSubscriber, id)
		}
	}

	for _, sub := range tx.subscribers {
		m.subscribers[sub.ID] = sub
		m.order = append(m.order, sub.ID)
	}
	for token, id := range tx.tokens {
		m.tokens[token] = id
	}
	return nil
}

// FindSubscriberByToken returns the subscriber id a token belongs to.
func (m *Memory) FindSubscriberByToken(ctx context.Context, token string) (uuid.UUID, bool, error) {
	if err := ctx.Err(); err != nil {
		return uuid.Nil, false, domain.Fail(StepFindToken, domain.ErrInfrastructure, err)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.tokens[token]
	return id, ok, nil
}

// MarkConfirmed sets the subscriber status to confirmed. Unknown ids are ignored,
// matching an UPDATE that affects no rows.
func (m *Memory) MarkConfirmed(ctx context.Context, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return domain.Fail(StepMarkConfirmed, domain.ErrInfrastructure, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if sub, ok := m.subscribers[id]; ok {
		sub.Status = sub.Status.Confirm()
		m.subscribers[id] = sub
	}
	return nil
}

// ListConfirmedSubscribers yields stored emails of confirmed subscribers in insertion order.
// The sequence works on a snapshot taken when iteration starts.
func (m *Memory) ListConfirmedSubscribers(ctx context.Context) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		if err := ctx.Err(); err != nil {
			yield("", domain.Fail(StepListConfirmed, domain.ErrInfrastructure, err))
			return
		}

		m.mu.RLock()
		emails := make([]string, 0, len(m.order))
		for _, id := range m.order {
			if sub := m.subscribers[id]; sub.Status == domain.StatusConfirmed {
				emails = append(emails, sub.Email)
			}
		}
		m.mu.RUnlock()

		for _, email := range emails {
			if !yield(email, nil) {
				return
			}
		}
	}
}

// Put stores a subscriber record as is, bypassing validation.
// It is meant for seeding fixtures, including rows that no longer parse.
func (m *Memory) Put(sub domain.Subscriber) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if sub.ID == uuid.Nil {
		sub.ID = uuid.New()
	}
	if _, exists := m.subscribers[sub.ID]; !exists {
		m.order = append(m.order, sub.ID)
	}
	m.subscribers[sub.ID] = sub
}

// Subscribers returns a copy of all committed subscribers in insertion order.
func (m *Memory) Subscribers() []domain.Subscriber {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]domain.Subscriber, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.subscribers[id])
	}
	return out
}

// Tokens returns every committed token issued to a subscriber.
func (m *Memory) Tokens(subscriberID uuid.UUID) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []string
	for token, id := range m.tokens {
		if id == subscriberID {
			out = append(out, token)
		}
	}
	return out
}

type memTx struct {
	store       *Memory
	tokens      map[string]uuid.UUID
	subscribers []domain.Subscriber
}

func (t *memTx) InsertPendingSubscriber(ctx context.Context, sub domain.NewSubscriber) (uuid.UUID, error) {
	if err := ctx.Err(); err != nil {
		return uuid.Nil, domain.Fail(StepInsert, domain.ErrPersistence, err)
	}

	id := uuid.New()
	t.subscribers = append(t.subscribers, domain.Subscriber{
		ID:           id,
		Email:        sub.Email.String(),
		Name:         sub.Name.String(),
		SubscribedAt: t.store.now().UTC(),
		Status:       domain.StatusPendingConfirmation,
	})
	return id, nil
}

func (t *memTx) StoreToken(ctx context.Context, subscriberID uuid.UUID, token string) error {
	if err := ctx.Err(); err != nil {
		return domain.Fail(StepStoreToken, domain.ErrPersistence, err)
	}
	if _, taken := t.tokens[token]; taken {
		return domain.Fail(StepStoreToken, domain.ErrPersistence, ErrDuplicateToken)
	}

	t.tokens[token] = subscriberID
	return nil
}

func (t *memTx) inserted(id uuid.UUID) bool {
	for _, sub := range t.subscribers {
		if sub.ID == id {
			return true
		}
	}
	return false
}
