// Package scheduler runs named tasks on calendar rules from a single
// sequential polling loop.
package scheduler

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dubz-banking/dubz/pkg/metrics"
)

type trigger struct {
	name string
	rule Rule
	task Task
	next time.Time
	last time.Time
	out  *Outcome
}

// TriggerInfo is a read-only view of a registered trigger.
type TriggerInfo struct {
	Name        string
	Rule        string
	NextRun     time.Time
	LastRun     time.Time
	LastOutcome *Outcome
}

// Registry holds the triggers of one scheduler process. It is built at
// startup and handed to a Loop.
type Registry struct {
	mu       sync.Mutex
	clock    Clock
	triggers []*trigger
	byName   map[string]*trigger
}

// NewRegistry creates an empty registry. A nil clock means SystemClock.
func NewRegistry(clock Clock) *Registry {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Registry{clock: clock, byName: make(map[string]*trigger)}
}

// Clock returns the registry's clock.
func (r *Registry) Clock() Clock { return r.clock }

// Register adds a trigger. Its first run is the rule's first activation
// after the current clock time.
func (r *Registry) Register(name string, rule Rule, task Task) error {
	name = strings.TrimSpace(name)
	switch {
	case name == "":
		return fmt.Errorf("register: %w: empty name", ErrInvalidTrigger)
	case rule == nil:
		return fmt.Errorf("register %q: %w: nil rule", name, ErrInvalidTrigger)
	case task == nil:
		return fmt.Errorf("register %q: %w: nil task", name, ErrInvalidTrigger)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byName[name]; ok {
		return fmt.Errorf("register %q: %w", name, ErrDuplicateTrigger)
	}
	next := rule.Next(r.clock.Now())
	if next.IsZero() {
		return fmt.Errorf("register %q: %w: %s never fires", name, ErrInvalidRule, rule)
	}

	t := &trigger{name: name, rule: rule, task: task, next: next}
	r.triggers = append(r.triggers, t)
	r.byName[name] = t

	metrics.UpdateSchedulerTriggers(len(r.triggers))
	metrics.UpdateSchedulerNextRun(name, next)
	return nil
}

// Len returns the number of registered triggers.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.triggers)
}

// Snapshot returns every trigger in registration order.
func (r *Registry) Snapshot() []TriggerInfo {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]TriggerInfo, 0, len(r.triggers))
	for _, t := range r.triggers {
		info := TriggerInfo{
			Name:    t.name,
			Rule:    t.rule.String(),
			NextRun: t.next,
			LastRun: t.last,
		}
		if t.out != nil {
			o := *t.out
			info.LastOutcome = &o
		}
		out = append(out, info)
	}
	return out
}

// due returns the triggers whose next run is not after now, in
// registration order.
func (r *Registry) due(now time.Time) []*trigger {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*trigger
	for _, t := range r.triggers {
		if !now.Before(t.next) {
			out = append(out, t)
		}
	}
	return out
}

func (r *Registry) complete(t *trigger, o Outcome, next time.Time) {
	r.mu.Lock()
	t.last = o.Started
	t.out = &o
	t.next = next
	r.mu.Unlock()

	metrics.UpdateSchedulerNextRun(t.name, next)
}
