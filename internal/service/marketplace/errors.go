package marketplace

import (
	"errors"
	"fmt"

	"CardScout/internal/domain/models"
)

// ErrNotImplemented marks operations a marketplace adapter does not support yet.
// Callers must not retry them.
var ErrNotImplemented = errors.New("not implemented")

// Error is a failed marketplace call.
type Error struct {
	Marketplace models.Marketplace
	Code        string
	Message     string
	Err         error
}

func (e *Error) Error() string {
	if e.Err != nil && !errors.Is(e.Err, ErrNotImplemented) {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(m models.Marketplace, code, message string, err error) *Error {
	return &Error{Marketplace: m, Code: code, Message: message, Err: err}
}

func notImplemented(m models.Marketplace, what string) *Error {
	return newError(m, "NOT_IMPLEMENTED", what+" not yet implemented", ErrNotImplemented)
}
