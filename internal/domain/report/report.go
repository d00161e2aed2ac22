// Package report contains the financial report record and its builders.
package report

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Error kinds returned by this package.
var (
	// ErrUnknownType is returned when a report type name is not recognised.
	ErrUnknownType = errors.New("unknown report type")
	// ErrDataUnavailable is returned by a builder whose upstream balance or
	// transaction source cannot be read.
	ErrDataUnavailable = errors.New("report data unavailable")
)

// Type identifies a report cadence.
type Type string

// Supported report cadences.
const (
	Weekly    Type = "weekly"
	Monthly   Type = "monthly"
	Quarterly Type = "quarterly"
	Yearly    Type = "yearly"
)

// Types returns every report type in cadence order.
func Types() []Type {
	return []Type{Weekly, Monthly, Quarterly, Yearly}
}

// ParseType maps a name such as "Weekly " onto a Type.
func ParseType(s string) (Type, error) {
	t := Type(strings.ToLower(strings.TrimSpace(s)))
	switch t {
	case Weekly, Monthly, Quarterly, Yearly:
		return t, nil
	}
	return "", fmt.Errorf("parse %q: %w", s, ErrUnknownType)
}

// String implements fmt.Stringer.
func (t Type) String() string { return string(t) }

// Description is the one-line summary shown by the CLI.
func (t Type) Description() string {
	switch t {
	case Weekly:
		return "spending summary and savings updates"
	case Monthly:
		return "income vs expenses and investment changes"
	case Quarterly:
		return "net worth trend and category breakdowns"
	case Yearly:
		return "annual financial summary and analysis"
	default:
		return ""
	}
}

// Sections returns the fixed section names a report of this type carries.
func (t Type) Sections() []string {
	switch t {
	case Weekly:
		return []string{"spending_summary", "savings_updates"}
	case Monthly:
		return []string{"income_vs_expenses", "investment_changes"}
	case Quarterly:
		return []string{"net_worth_trend", "category_breakdowns"}
	case Yearly:
		return []string{"annual_summary", "category_analysis"}
	default:
		return nil
	}
}

// Section is one named block of report data. Sections are empty until real
// aggregation exists.
type Section map[string]any

// Report is a generated financial report. It is built once per firing and
// serialized immediately.
type Report struct {
	Type        Type               `json:"report_type"`
	GeneratedAt time.Time          `json:"generated_at"`
	Data        map[string]Section `json:"data"`
}
