// Package service wires report builders, the report store and the scheduler
// into the operations the entry points expose.
package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dubz-banking/dubz/internal/adapters/repository"
	"github.com/dubz-banking/dubz/internal/domain/report"
	"github.com/dubz-banking/dubz/internal/scheduler"
	"github.com/dubz-banking/dubz/pkg/logger"
	"github.com/dubz-banking/dubz/pkg/metrics"
)

// ErrInvalidTriggers is returned when trigger overrides cannot be applied.
var ErrInvalidTriggers = errors.New("invalid trigger configuration")

// Default trigger time of day, local.
const (
	DefaultHour   = 9
	DefaultMinute = 0
)

// DefaultRules returns the default rule per report type: Sundays, the first
// of every month, the first day of each quarter and January 1st.
func DefaultRules() (map[report.Type]scheduler.Rule, error) {
	builders := map[report.Type]func() (scheduler.Rule, error){
		report.Weekly: func() (scheduler.Rule, error) {
			return scheduler.Weekly(time.Sunday, DefaultHour, DefaultMinute)
		},
		report.Monthly: func() (scheduler.Rule, error) {
			return scheduler.Monthly(1, DefaultHour, DefaultMinute)
		},
		report.Quarterly: func() (scheduler.Rule, error) {
			return scheduler.Quarterly(1, DefaultHour, DefaultMinute)
		},
		report.Yearly: func() (scheduler.Rule, error) {
			return scheduler.Yearly(time.January, 1, DefaultHour, DefaultMinute)
		},
	}

	rules := make(map[report.Type]scheduler.Rule, len(builders))
	for t, build := range builders {
		rule, err := build()
		if err != nil {
			return nil, fmt.Errorf("default %s rule: %w", t, err)
		}
		rules[t] = rule
	}
	return rules, nil
}

// TriggerName is the scheduler trigger name for a report type.
func TriggerName(t report.Type) string { return string(t) + "_report" }

// Result is the outcome of generating one report.
type Result struct {
	Type report.Type
	Path string
	Err  error
}

// Service generates and persists reports.
type Service struct {
	store    repository.Store
	clock    scheduler.Clock
	builders map[report.Type]report.Builder
	logger   logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the report store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithClock sets the clock passed to builders as the generation instant.
func WithClock(clock scheduler.Clock) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithBuilder replaces the builder for one report type.
func WithBuilder(t report.Type, b report.Builder) Option {
	return func(s *Service) {
		if b != nil {
			s.builders[t] = b
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service writing to ./reports with the system clock.
func New(opts ...Option) *Service {
	s := &Service{
		clock:    scheduler.SystemClock{},
		builders: make(map[report.Type]report.Builder, len(report.Types())),
		logger:   logger.Nop(),
	}
	for _, t := range report.Types() {
		b, _ := report.BuilderFor(t)
		s.builders[t] = b
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.store == nil {
		s.store = repository.NewFileStore(repository.DefaultRoot, repository.WithClock(s.clock), repository.WithLogger(s.logger))
	}
	return s
}

// Generate builds a report of type t and persists it, returning the path.
func (s *Service) Generate(ctx context.Context, t report.Type) (string, error) {
	b, ok := s.builders[t]
	if !ok {
		return "", fmt.Errorf("generate %q: %w", t, report.ErrUnknownType)
	}

	start := time.Now()
	r, err := b(s.clock.Now())
	if err != nil {
		metrics.RecordReportFailure(t.String(), "build")
		s.logger.Error(ctx, "report build failed", logger.String("report_type", t.String()), logger.Error(err))
		return "", fmt.Errorf("build %s report: %w", t, err)
	}

	path, err := s.store.Save(ctx, r)
	if err != nil {
		metrics.RecordReportFailure(t.String(), "persist")
		s.logger.Error(ctx, "report save failed", logger.String("report_type", t.String()), logger.Error(err))
		return "", fmt.Errorf("save %s report: %w", t, err)
	}

	took := time.Since(start)
	metrics.RecordReportGenerated(t.String(), float64(took.Milliseconds()))
	s.logger.Info(ctx, "report generated",
		logger.String("report_type", t.String()),
		logger.String("path", path),
		logger.Duration("took", took))
	return path, nil
}

// GenerateAll generates every report type in cadence order. A failure of one
// type does not stop the others.
func (s *Service) GenerateAll(ctx context.Context) []Result {
	return s.GenerateTypes(ctx, report.Types())
}

// GenerateTypes generates the given types in order.
func (s *Service) GenerateTypes(ctx context.Context, types []report.Type) []Result {
	out := make([]Result, 0, len(types))
	for _, t := range types {
		path, err := s.Generate(ctx, t)
		out = append(out, Result{Type: t, Path: path, Err: err})
	}
	return out
}

// Task adapts Generate for t into a scheduler task.
func (s *Service) Task(t report.Type) scheduler.Task {
	return func(ctx context.Context) scheduler.Result {
		path, err := s.Generate(ctx, t)
		if err != nil {
			return scheduler.Fail(err)
		}
		return scheduler.OK(path)
	}
}

// RegisterTriggers registers one trigger per report type on reg. overrides
// maps report type names to cron rules replacing the defaults; unknown keys
// are rejected before anything is registered.
func (s *Service) RegisterTriggers(reg *scheduler.Registry, overrides map[string]string) error {
	rules, err := DefaultRules()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidTriggers, err)
	}

	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		t, err := report.ParseType(k)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidTriggers, err)
		}
		spec := strings.TrimSpace(overrides[k])
		if spec == "" {
			continue
		}
		rule, err := scheduler.ParseRule(spec)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidTriggers, t, err)
		}
		rules[t] = rule
	}

	for _, t := range report.Types() {
		if err := reg.Register(TriggerName(t), rules[t], s.Task(t)); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidTriggers, err)
		}
	}
	return nil
}
