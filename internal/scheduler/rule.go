package scheduler

import (
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// Standard five-field cron syntax plus @descriptors.
var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor) //nolint:gochecknoglobals // immutable parser

// Rule decides when a trigger fires next.
type Rule interface {
	// Next returns the first activation strictly after t, or the zero time
	// when there is none.
	Next(t time.Time) time.Time
	String() string
}

type cronRule struct {
	spec  string
	sched cron.Schedule
}

func (r cronRule) Next(t time.Time) time.Time { return r.sched.Next(t) }
func (r cronRule) String() string             { return r.spec }

// ParseRule parses a cron expression such as "0 9 * * 0" or "@weekly".
// Activations are computed in the location of the time passed to Next.
func ParseRule(spec string) (Rule, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, fmt.Errorf("%w: empty spec", ErrInvalidRule)
	}
	sched, err := parser.Parse(spec)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrInvalidRule, spec, err)
	}
	return cronRule{spec: spec, sched: sched}, nil
}

// Weekly fires every week on day at hour:minute.
func Weekly(day time.Weekday, hour, minute int) (Rule, error) {
	return ParseRule(fmt.Sprintf("%d %d * * %d", minute, hour, int(day)))
}

// Monthly fires on the given day of every month at hour:minute.
func Monthly(day, hour, minute int) (Rule, error) {
	return ParseRule(fmt.Sprintf("%d %d %d * *", minute, hour, day))
}

// Quarterly fires on the given day of January, April, July and October.
func Quarterly(day, hour, minute int) (Rule, error) {
	return ParseRule(fmt.Sprintf("%d %d %d 1,4,7,10 *", minute, hour, day))
}

// Yearly fires once a year on month/day at hour:minute.
func Yearly(month time.Month, day, hour, minute int) (Rule, error) {
	return ParseRule(fmt.Sprintf("%d %d %d %d *", minute, hour, day, int(month)))
}
