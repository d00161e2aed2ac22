package scheduler

import "errors"

// Sentinel kinds for scheduler errors.
var (
	ErrInvalidRule      = errors.New("invalid schedule rule")
	ErrDuplicateTrigger = errors.New("duplicate trigger")
	ErrInvalidTrigger   = errors.New("invalid trigger")
	ErrTaskPanic        = errors.New("task panicked")
	ErrPollFailed       = errors.New("poll failed")
)
