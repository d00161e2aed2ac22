package scheduler

import (
	"context"
	"time"

	"github.com/dubz-banking/dubz/pkg/logger"
)

// DefaultPollInterval is how often Run polls the registry.
const DefaultPollInterval = 60 * time.Second

// Option applies a configuration option to the Loop.
type Option func(*Loop)

// WithPollInterval sets the interval between polls.
func WithPollInterval(d time.Duration) Option {
	return func(l *Loop) {
		if d > 0 {
			l.interval = d
		}
	}
}

// WithTicks replaces the poll ticker with ticks. Run stops when ticks is closed.
func WithTicks(ticks <-chan time.Time) Option {
	return func(l *Loop) {
		if ticks != nil {
			l.ticks = ticks
		}
	}
}

// WithLogger sets a custom logger for the loop.
func WithLogger(log logger.Logger) Option {
	return func(l *Loop) {
		if log != nil {
			l.log = log
		}
	}
}

// WithOutcomeHook registers fn to observe every firing.
func WithOutcomeHook(fn func(ctx context.Context, o Outcome)) Option {
	return func(l *Loop) {
		if fn != nil {
			l.hooks = append(l.hooks, fn)
		}
	}
}
