package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dubz-banking/dubz/pkg/logger"
	"github.com/dubz-banking/dubz/pkg/metrics"
)

// Loop polls a Registry and runs due triggers one after another.
type Loop struct {
	reg      *Registry
	interval time.Duration
	ticks    <-chan time.Time
	log      logger.Logger
	hooks    []func(ctx context.Context, o Outcome)
}

// NewLoop creates a loop over reg.
func NewLoop(reg *Registry, opts ...Option) *Loop {
	l := &Loop{
		reg:      reg,
		interval: DefaultPollInterval,
		log:      logger.Nop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Interval returns the poll interval.
func (l *Loop) Interval() time.Duration { return l.interval }

// Run polls immediately and then on every tick until ctx is cancelled, in
// which case it returns nil. A failing poll stops the loop with an error
// wrapping ErrPollFailed.
func (l *Loop) Run(ctx context.Context) error {
	ticks := l.ticks
	if ticks == nil {
		ticker := time.NewTicker(l.interval)
		defer ticker.Stop()
		ticks = ticker.C
	}

	l.log.Info(ctx, "scheduler started",
		logger.Int("triggers", l.reg.Len()),
		logger.Duration("poll_interval", l.interval))
	for _, t := range l.reg.Snapshot() {
		l.log.Info(ctx, "trigger registered",
			logger.String("trigger", t.Name),
			logger.String("rule", t.Rule),
			logger.Time("next_run", t.NextRun))
	}

	for {
		if ctx.Err() != nil {
			l.log.Info(ctx, "scheduler stopped")
			return nil
		}
		if _, err := l.Poll(ctx); err != nil {
			metrics.RecordSchedulerPollError()
			metrics.RecordErrorByComponent("scheduler", "poll_failed")
			l.log.Error(ctx, "scheduler crashed", logger.Error(err))
			return err
		}

		select {
		case <-ctx.Done():
			l.log.Info(ctx, "scheduler stopped")
			return nil
		case _, ok := <-ticks:
			if !ok {
				l.log.Info(ctx, "scheduler tick source closed")
				return nil
			}
		}
	}
}

// Poll runs every due trigger in registration order and schedules its next
// run from the time the task finished. Several missed activations of one
// trigger produce a single run. Task failures are contained in the returned
// outcomes; only a broken rule or a panic outside a task returns an error.
func (l *Loop) Poll(ctx context.Context) (outcomes []Outcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: panic: %v", ErrPollFailed, r)
		}
	}()

	now := l.reg.clock.Now()
	metrics.RecordSchedulerPoll(now)

	for _, t := range l.reg.due(now) {
		if ctx.Err() != nil {
			break
		}
		o := l.fire(ctx, t)
		outcomes = append(outcomes, o)

		after := l.reg.clock.Now()
		next := t.rule.Next(after)
		if next.IsZero() {
			return outcomes, fmt.Errorf("%w: trigger %q (%s) has no activation after %s",
				ErrPollFailed, t.name, t.rule, after.Format(time.RFC3339))
		}
		l.reg.complete(t, o, next)
	}
	return outcomes, nil
}

func (l *Loop) fire(ctx context.Context, t *trigger) Outcome {
	o := Outcome{
		Trigger:   t.name,
		RunID:     uuid.New(),
		Scheduled: t.next,
		Started:   l.reg.clock.Now(),
	}

	l.log.Debug(ctx, "trigger firing",
		logger.String("trigger", t.name),
		logger.String("run_id", o.RunID.String()))

	start := time.Now()
	o.Result = runTask(ctx, t.task)
	o.Duration = time.Since(start)

	metrics.RecordTriggerFiring(t.name, o.Status())
	if o.OK() {
		l.log.Info(ctx, "trigger completed",
			logger.String("trigger", t.name),
			logger.String("run_id", o.RunID.String()),
			logger.String("detail", o.Result.Detail),
			logger.Duration("took", o.Duration))
	} else {
		metrics.RecordErrorByComponent("scheduler", "task_failed")
		l.log.Error(ctx, "trigger failed",
			logger.String("trigger", t.name),
			logger.String("run_id", o.RunID.String()),
			logger.Error(o.Result.Err))
	}

	for _, hook := range l.hooks {
		l.runHook(ctx, hook, o)
	}
	return o
}

// runHook calls hook, logging a panic instead of letting it abort the poll.
func (l *Loop) runHook(ctx context.Context, hook func(context.Context, Outcome), o Outcome) {
	defer func() {
		if r := recover(); r != nil {
			metrics.RecordErrorByComponent("scheduler", "hook_panic")
			l.log.Error(ctx, "outcome hook panicked",
				logger.String("trigger", o.Trigger),
				logger.String("run_id", o.RunID.String()),
				logger.Any("panic", r))
		}
	}()
	hook(ctx, o)
}

func runTask(ctx context.Context, task Task) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = Result{Err: fmt.Errorf("%w: %v", ErrTaskPanic, r)}
		}
	}()
	return task(ctx)
}
