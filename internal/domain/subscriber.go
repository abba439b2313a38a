package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// StringView is the read-only view shared by validated values.
type StringView interface {
	String() string
}

var (
	_ StringView = Email{}
	_ StringView = Name{}
)

// Status is the lifecycle state of a subscriber.
// The only transition is StatusPendingConfirmation to StatusConfirmed.
type Status string

const (
	StatusPendingConfirmation Status = "pending_confirmation"
	StatusConfirmed           Status = "confirmed"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	return s == StatusPendingConfirmation || s == StatusConfirmed
}

// Confirm returns the status that follows s after a confirmation.
// Confirming an already confirmed subscriber is a no-op.
func (s Status) Confirm() Status {
	return StatusConfirmed
}

// NewSubscriber is a validated subscription request.
type NewSubscriber struct {
	Email Email
	Name  Name
}

// ParseNewSubscriber validates both fields and reports every violation at once.
func ParseNewSubscriber(name, email string) (NewSubscriber, error) {
	n, nameErr := ParseName(name)
	e, emailErr := ParseEmail(email)
	if err := errors.Join(nameErr, emailErr); err != nil {
		return NewSubscriber{}, err
	}
	return NewSubscriber{Email: e, Name: n}, nil
}

// Subscriber is a stored subscriber record.
type Subscriber struct {
	SubscribedAt time.Time
	Email        string
	Name         string
	Status       Status
	ID           uuid.UUID
}
