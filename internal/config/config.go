// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() initializer to build a Config with defaults.
// - Load layers defaults, an optional YAML file and HOMESPARK_* env vars.
// - Validation failures wrap ErrInvalidConfig.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8000".
	Addr string `koanf:"addr"`

	// CatalogPath points at the catalog artifact (JSON file or SQLite db).
	CatalogPath string `koanf:"catalog_path"`

	// CatalogSource selects the loader: json or sqlite.
	CatalogSource string `koanf:"catalog_source"`

	// CatalogMaxCost is the dataset-wide cost ceiling used to clamp widened
	// budget ranges.
	CatalogMaxCost int `koanf:"catalog_max_cost"`

	// MinCandidates is the filter survivor count below which the budget
	// range is widened once.
	MinCandidates int `koanf:"min_candidates"`

	// FallbackMargin is the absolute budget widening used by fallback sampling.
	FallbackMargin int `koanf:"fallback_margin"`

	// DefaultMaxResults applies when a request omits max_results.
	DefaultMaxResults int `koanf:"default_max_results"`

	// MaxResultsLimit caps max_results.
	MaxResultsLimit int `koanf:"max_results_limit"`

	// FallbackSeed seeds fallback sampling; 0 uses the clock.
	FallbackSeed int64 `koanf:"fallback_seed"`

	// CORSAllowedOrigins lists origins allowed by CORS.
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins"`

	// RateLimitRequests per RateLimitWindowSec per client IP; 0 disables.
	RateLimitRequests  int `koanf:"rate_limit_requests"`
	RateLimitWindowSec int `koanf:"rate_limit_window_sec"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		LogFormat:          "text",
		Addr:               ":8000",
		CatalogPath:        "data/catalog.json",
		CatalogSource:      "json",
		CatalogMaxCost:     550,
		MinCandidates:      5,
		FallbackMargin:     50,
		DefaultMaxResults:  3,
		MaxResultsLimit:    20,
		FallbackSeed:       0,
		CORSAllowedOrigins: []string{"*"},
		RateLimitRequests:  100,
		RateLimitWindowSec: 60,
	}
}

// RateLimitWindow returns the rate limit window as a duration.
func (c *Config) RateLimitWindow() time.Duration {
	return time.Duration(c.RateLimitWindowSec) * time.Second
}

// Validate checks the configuration for values the service cannot run with.
func (c *Config) Validate() error {
	var problems []string
	if strings.TrimSpace(c.Addr) == "" {
		problems = append(problems, "addr must not be empty")
	}
	if strings.TrimSpace(c.CatalogPath) == "" {
		problems = append(problems, "catalog_path must not be empty")
	}
	switch strings.ToLower(c.CatalogSource) {
	case "json", "sqlite":
	default:
		problems = append(problems, fmt.Sprintf("catalog_source %q must be json or sqlite", c.CatalogSource))
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		problems = append(problems, fmt.Sprintf("log_format %q must be text or json", c.LogFormat))
	}
	if c.CatalogMaxCost <= 0 {
		problems = append(problems, "catalog_max_cost must be positive")
	}
	if c.MinCandidates <= 0 {
		problems = append(problems, "min_candidates must be positive")
	}
	if c.FallbackMargin < 0 {
		problems = append(problems, "fallback_margin must not be negative")
	}
	if c.MaxResultsLimit <= 0 {
		problems = append(problems, "max_results_limit must be positive")
	}
	if c.DefaultMaxResults <= 0 || c.DefaultMaxResults > c.MaxResultsLimit {
		problems = append(problems, "default_max_results must be in [1, max_results_limit]")
	}
	if c.RateLimitRequests < 0 {
		problems = append(problems, "rate_limit_requests must not be negative")
	}
	if c.RateLimitRequests > 0 && c.RateLimitWindowSec <= 0 {
		problems = append(problems, "rate_limit_window_sec must be positive when rate limiting")
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}
