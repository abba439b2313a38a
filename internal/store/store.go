// Package store persists subscribers and their confirmation tokens.
//
// Postgres is the production implementation. Memory implements the same
// contract in process and backs the workflow tests.
package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/xxc-git/zero2prod/internal/domain"
)

// Tx groups the writes of a single subscription attempt.
// Writes become visible to other readers only after the enclosing
// WithinTx callback returns nil and the commit succeeds.
type Tx interface {
	// InsertPendingSubscriber stores a new subscriber with status
	// pending_confirmation and returns its freshly generated id.
	InsertPendingSubscriber(ctx context.Context, sub domain.NewSubscriber) (uuid.UUID, error)

	// StoreToken associates a confirmation token with a subscriber.
	StoreToken(ctx context.Context, subscriberID uuid.UUID, token string) error
}

// Failure steps recorded on errors returned by the stores.
const (
	StepBegin         = "begin"
	StepInsert        = "insert_subscriber"
	StepStoreToken    = "store_token"
	StepCommit        = "commit"
	StepFindToken     = "find_subscriber_by_token"
	StepMarkConfirmed = "mark_confirmed"
	StepListConfirmed = "list_confirmed_subscribers"
)
