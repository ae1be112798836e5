// Package probe drives a running HomeSpark server end to end: it checks
// health, reads the vocabularies, fires a batch of recommendation requests
// from a worker pool, and verifies every response against the invariants the
// engine guarantees.
package probe

import (
	"io"
	"runtime"
	"time"
)

// Config holds configuration for a probe run.
type Config struct {
	BaseURL  string        // Base URL of the service
	Requests int           // Number of recommendation requests to send
	Workers  int           // Number of concurrent workers
	Timeout  time.Duration // HTTP request timeout
	Seed     int64         // Seed for request generation; 0 uses the clock
	Progress io.Writer     // Progress bar output; nil disables the bar
}

// Defaults for the probe.
const (
	DefaultBaseURL  = "http://localhost:8000"
	DefaultRequests = 100
	DefaultTimeout  = 30 * time.Second
)

// withDefaults fills zero fields.
func (c Config) withDefaults() Config {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Requests <= 0 {
		c.Requests = DefaultRequests
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU() * 2
	}
	if c.Workers > c.Requests {
		c.Workers = c.Requests
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	return c
}

// Report summarizes a probe run.
type Report struct {
	Sent       int
	Succeeded  int
	Failed     int
	Fallbacks  int
	Warnings   int
	Violations []Violation
	StartTime  time.Time
	Duration   time.Duration
}

// OK reports whether every request succeeded and verified.
func (r *Report) OK() bool {
	return r.Failed == 0 && len(r.Violations) == 0
}

// RequestsPerSecond returns the achieved throughput.
func (r *Report) RequestsPerSecond() float64 {
	if r.Duration <= 0 {
		return 0
	}
	return float64(r.Sent) / r.Duration.Seconds()
}
