package config

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/dubz-banking/dubz/internal/domain/report"
	"github.com/dubz-banking/dubz/internal/scheduler"
)

// Environment variables read by Load.
const (
	EnvPrefix     = "DUBZ_"
	EnvConfigFile = "DUBZ_CONFIG"
	EnvAPIBaseURL = "API_BASE_URL"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if DUBZ_CONFIG is set
//  3. env (prefix DUBZ_, "__" separates nested keys)
//  4. API_BASE_URL
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv(EnvConfigFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// DUBZ_SCHEDULER__POLL_INTERVAL -> scheduler.poll_interval
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
		if s == "config" {
			return ""
		}
		return strings.ReplaceAll(s, "__", ".")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	apiURL := env.Provider(EnvAPIBaseURL, ".", func(s string) string {
		if s != EnvAPIBaseURL {
			return ""
		}
		return "dashboard.api_base_url"
	})
	if err := k.Load(apiURL, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	// Unmarshal into a copy; comma-separated env values become slices.
	cfg := *base
	conf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
			Result:           &cfg,
			WeaklyTypedInput: true,
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, conf); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}
	if len(cfg.API.AllowedOrigins) == 0 {
		cfg.API.AllowedOrigins = []string{DefaultDashboardOrigin}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports the first invalid setting as ErrInvalidConfig.
func (c *Config) Validate() error {
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return invalid("log_level: unknown level %q", c.LogLevel)
	}
	if c.API.Addr == "" {
		return invalid("api.addr must not be empty")
	}
	for _, o := range c.API.AllowedOrigins {
		if err := checkURL(o); err != nil {
			return invalid("api.allowed_origins: %v", err)
		}
	}
	if c.Dashboard.Addr == "" {
		return invalid("dashboard.addr must not be empty")
	}
	if err := checkURL(c.Dashboard.APIBaseURL); err != nil {
		return invalid("dashboard.api_base_url: %v", err)
	}
	if c.Dashboard.HealthTimeout <= 0 {
		return invalid("dashboard.health_timeout must be positive")
	}
	if c.Scheduler.ReportsDir == "" {
		return invalid("scheduler.reports_dir must not be empty")
	}
	if c.Scheduler.PollInterval <= 0 {
		return invalid("scheduler.poll_interval must be positive")
	}
	if _, err := c.Scheduler.Location(); err != nil {
		return invalid("scheduler.timezone: %v", err)
	}
	for name, spec := range c.Scheduler.Triggers {
		if _, err := report.ParseType(name); err != nil {
			return invalid("scheduler.triggers: %v", err)
		}
		if _, err := scheduler.ParseRule(spec); err != nil {
			return invalid("scheduler.triggers.%s: %v", name, err)
		}
	}
	return nil
}

func checkURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%q is not an http(s) URL", raw)
	}
	return nil
}
