package report

import (
	"fmt"
	"time"
)

// Builder produces a report for the generation instant now.
type Builder func(now time.Time) (Report, error)

// BuildWeekly builds the weekly spending and savings report.
func BuildWeekly(now time.Time) (Report, error) { return build(Weekly, now), nil }

// BuildMonthly builds the monthly income and investment report.
func BuildMonthly(now time.Time) (Report, error) { return build(Monthly, now), nil }

// BuildQuarterly builds the quarterly net worth report.
func BuildQuarterly(now time.Time) (Report, error) { return build(Quarterly, now), nil }

// BuildYearly builds the annual summary report.
func BuildYearly(now time.Time) (Report, error) { return build(Yearly, now), nil }

func build(t Type, now time.Time) Report {
	sections := t.Sections()
	data := make(map[string]Section, len(sections))
	for _, name := range sections {
		data[name] = Section{}
	}
	return Report{Type: t, GeneratedAt: now, Data: data}
}

// BuilderFor returns the builder registered for t.
func BuilderFor(t Type) (Builder, error) {
	switch t {
	case Weekly:
		return BuildWeekly, nil
	case Monthly:
		return BuildMonthly, nil
	case Quarterly:
		return BuildQuarterly, nil
	case Yearly:
		return BuildYearly, nil
	}
	return nil, fmt.Errorf("builder for %q: %w", t, ErrUnknownType)
}

// Build runs the builder for t at now.
func Build(t Type, now time.Time) (Report, error) {
	b, err := BuilderFor(t)
	if err != nil {
		return Report{}, err
	}
	return b(now)
}
