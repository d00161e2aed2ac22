// Package repository persists generated reports.
package repository

import (
	"context"

	"github.com/dubz-banking/dubz/internal/domain/report"
)

// Store persists reports.
type Store interface {
	// Save writes r and returns the absolute path of the written file.
	// A second save of the same type on the same date replaces the first.
	Save(ctx context.Context, r report.Report) (string, error)
}
