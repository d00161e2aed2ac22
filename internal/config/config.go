// Package config defines process configuration structures and loading hooks.
//
// All three processes share one Config; each reads the section it needs.
package config

import (
	"time"
)

// Defaults.
const (
	DefaultAPIAddr         = ":8000"
	DefaultDashboardAddr   = ":8501"
	DefaultAPIBaseURL      = "http://localhost:8000"
	DefaultDashboardOrigin = "http://localhost:8501"
	DefaultHealthTimeout   = 5 * time.Second
	DefaultPollInterval    = 60 * time.Second
	DefaultReportsDir      = "./reports"
	DefaultSchedulerLog    = "scheduler.log"
	DefaultShutdownTimeout = 10 * time.Second
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	API       API       `koanf:"api"`
	Dashboard Dashboard `koanf:"dashboard"`
	Scheduler Scheduler `koanf:"scheduler"`
}

// API configures the liveness API process.
type API struct {
	// Addr configures the HTTP listen address, e.g. ":8000".
	Addr string `koanf:"addr"`

	// AllowedOrigins lists the browser origins granted CORS access.
	AllowedOrigins []string `koanf:"allowed_origins"`

	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// Dashboard configures the dashboard process.
type Dashboard struct {
	Addr string `koanf:"addr"`

	// APIBaseURL is where the dashboard probes /health. API_BASE_URL overrides it.
	APIBaseURL string `koanf:"api_base_url"`

	// HealthTimeout bounds the single health probe made per page render.
	HealthTimeout time.Duration `koanf:"health_timeout"`

	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// Scheduler configures the report scheduler process.
type Scheduler struct {
	ReportsDir   string        `koanf:"reports_dir"`
	LogFile      string        `koanf:"log_file"`
	PollInterval time.Duration `koanf:"poll_interval"`

	// Timezone is an IANA name or "Local".
	Timezone string `koanf:"timezone"`

	// Triggers overrides the cron rule per report type, e.g. weekly: "0 8 * * 0".
	Triggers map[string]string `koanf:"triggers"`

	// MetricsAddr, when set, serves /metrics next to the loop.
	MetricsAddr string `koanf:"metrics_addr"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel: "info",
		API: API{
			Addr:            DefaultAPIAddr,
			ShutdownTimeout: DefaultShutdownTimeout,
		},
		Dashboard: Dashboard{
			Addr:            DefaultDashboardAddr,
			APIBaseURL:      DefaultAPIBaseURL,
			HealthTimeout:   DefaultHealthTimeout,
			ShutdownTimeout: DefaultShutdownTimeout,
		},
		Scheduler: Scheduler{
			ReportsDir:   DefaultReportsDir,
			LogFile:      DefaultSchedulerLog,
			PollInterval: DefaultPollInterval,
			Timezone:     "Local",
		},
	}
}

// Location resolves Scheduler.Timezone.
func (s Scheduler) Location() (*time.Location, error) {
	if s.Timezone == "" || s.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(s.Timezone)
}
