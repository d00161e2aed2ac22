package repository

import (
	"time"

	"github.com/dubz-banking/dubz/pkg/logger"
)

// Clock supplies the date used to name report files.
type Clock interface {
	Now() time.Time
}

type clockFunc func() time.Time

func (f clockFunc) Now() time.Time { return f() }

// Option applies a configuration option to the FileStore.
type Option func(*FileStore)

// WithClock sets the clock used to pick the file date.
func WithClock(c Clock) Option {
	return func(s *FileStore) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithLocation sets the location the file date is computed in.
func WithLocation(loc *time.Location) Option {
	return func(s *FileStore) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(s *FileStore) {
		if l != nil {
			s.log = l
		}
	}
}
