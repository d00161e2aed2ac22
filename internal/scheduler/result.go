package scheduler

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Task is the callback a trigger runs. Failures are reported in the Result,
// never by panicking.
type Task func(ctx context.Context) Result

// Result is what a task reports back to the loop.
type Result struct {
	// Detail is free-form, e.g. the path of a written report.
	Detail string
	Err    error
}

// OK returns a successful result.
func OK(detail string) Result { return Result{Detail: detail} }

// Fail returns a failed result.
func Fail(err error) Result { return Result{Err: err} }

// Outcome records one firing of a trigger.
type Outcome struct {
	Trigger   string
	RunID     uuid.UUID
	Scheduled time.Time
	Started   time.Time
	Duration  time.Duration
	Result    Result
}

// OK reports whether the firing succeeded.
func (o Outcome) OK() bool { return o.Result.Err == nil }

// Status is "ok" or "failed".
func (o Outcome) Status() string {
	if o.OK() {
		return "ok"
	}
	return "failed"
}
