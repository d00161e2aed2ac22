package repository

import (
	"errors"
	"fmt"
)

// Sentinel kinds for report persistence errors.
var (
	ErrWrite         = errors.New("write report")
	ErrInvalidReport = errors.New("invalid report")
)

func wrapKind(op string, kind, err error) error {
	return fmt.Errorf("%s: %w: %w", op, kind, err)
}
