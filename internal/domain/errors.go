package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every failure surfaced by a workflow matches exactly one of
// these through errors.Is.
var (
	// ErrValidation indicates malformed input from the caller.
	ErrValidation = errors.New("validation failed")

	// ErrUnknownToken indicates a confirmation token that matches no subscriber.
	ErrUnknownToken = errors.New("unknown subscription token")

	// ErrInfrastructure indicates the store could not be reached or a
	// connection could not be obtained in time.
	ErrInfrastructure = errors.New("infrastructure unavailable")

	// ErrPersistence indicates a write or commit against the store failed.
	ErrPersistence = errors.New("persistence failed")

	// ErrDelivery indicates the email provider rejected a message or was unreachable.
	ErrDelivery = errors.New("email delivery failed")

	// ErrUnexpected covers everything else.
	ErrUnexpected = errors.New("unexpected error")
)

var kinds = []error{
	ErrValidation,
	ErrUnknownToken,
	ErrInfrastructure,
	ErrPersistence,
	ErrDelivery,
}

// StepError records which workflow step failed, the kind of failure and its cause.
type StepError struct {
	Kind error
	Err  error
	Step string
}

// Fail builds a StepError. A nil kind is treated as ErrUnexpected.
func Fail(step string, kind, err error) error {
	if kind == nil {
		kind = ErrUnexpected
	}
	return &StepError{Step: step, Kind: kind, Err: err}
}

func (e *StepError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Step, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.Step, e.Kind, e.Err)
}

func (e *StepError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// KindOf reports the error kind carried by err.
// It returns nil for a nil error and ErrUnexpected when no kind matches.
func KindOf(err error) error {
	if err == nil {
		return nil
	}

	// The outermost StepError decides; its cause may carry kinds of its own.
	var se *StepError
	if errors.As(err, &se) {
		return se.Kind
	}

	for _, kind := range kinds {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return ErrUnexpected
}

// StepOf returns the step recorded on err, or an empty string.
func StepOf(err error) string {
	var se *StepError
	if errors.As(err, &se) {
		return se.Step
	}
	return ""
}

// ValidationError describes why a single input field was rejected.
// The message never includes the rejected value.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Is makes every ValidationError match ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
