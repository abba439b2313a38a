package middlewares

import (
	"fmt"
	"runtime"

	"github.com/xxc-git/zero2prod/internal"
)

// DefaultStackSize caps the stack captured for a recovered panic.
const DefaultStackSize = 4096

// PanicError is returned by Recover in place of a handler that panicked.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// If the panic value is an error, it stays reachable through errors.Is.
func (e *PanicError) Unwrap() error {
	err, _ := e.Value.(error)
	return err
}

// RecoverOption configures Recover.
type RecoverOption func(*recoverConfig)

type recoverConfig struct {
	stackSize int
}

// WithStackSize sets how many bytes of stack to capture. Zero disables
// capture.
func WithStackSize(n int) RecoverOption {
	return func(cfg *recoverConfig) {
		if n >= 0 {
			cfg.stackSize = n
		}
	}
}

// Recover turns a panic in the rest of the chain into a *PanicError, which
// the App's ErrorHandler answers with a bare 500.
func Recover(opts ...RecoverOption) internal.Middleware {
	cfg := &recoverConfig{stackSize: DefaultStackSize}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) (err error) {
			defer func() {
				if v := recover(); v != nil {
					err = newPanicError(v, cfg.stackSize)
				}
			}()

			return next(c)
		}
	}
}

// newPanicError must be called from the deferred function that recovered v,
// so the captured stack is the panicking goroutine's.
func newPanicError(v any, stackSize int) *PanicError {
	pe := &PanicError{Value: v}
	if stackSize > 0 {
		buf := make([]byte, stackSize)
		pe.Stack = buf[:runtime.Stack(buf, false)]
	}
	return pe
}
