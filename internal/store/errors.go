package store

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrAlreadyExists = errors.New("record already exists")
	ErrConflict      = errors.New("record modified concurrently")
	// ErrUnavailable marks failures of the database itself as opposed to
	// missing or conflicting records.
	ErrUnavailable = errors.New("storage unavailable")
)

// unavailable wraps a driver error so callers can match ErrUnavailable while
// keeping the underlying cause.
func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrUnavailable, err)
}
