package api

import (
	"errors"
	"fmt"
)

// Sentinel kinds for API errors.
var (
	ErrNotFound         = errors.New("not found")
	ErrMethodNotAllowed = errors.New("method not allowed")
)

// NewKind returns an error of kind carrying msg.
func NewKind(kind error, msg string) error {
	return fmt.Errorf("%w: %s", kind, msg)
}

// WrapKind wraps err under kind with the failing operation.
func WrapKind(op string, kind, err error) error {
	return fmt.Errorf("%s: %w: %w", op, kind, err)
}
