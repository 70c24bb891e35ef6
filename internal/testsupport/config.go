package testsupport

import (
	"path/filepath"
	"testing"

	"mediaup/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Server.BaseURL = "http://127.0.0.1:0"
	cfg.Server.APIToken = "test"
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")

	for _, opt := range opts {
		opt(&cfg)
	}

	return &cfg
}

// WithBaseURL overrides the media API endpoint on the test config.
func WithBaseURL(url string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Server.BaseURL = url
	}
}

// WithPolling overrides the poll deadline and interval on the test config.
func WithPolling(deadlineSeconds, intervalMS int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Polling.DeadlineSeconds = deadlineSeconds
		cfg.Polling.IntervalMS = intervalMS
	}
}
