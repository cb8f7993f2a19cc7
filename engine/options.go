package engine

import (
	"io"
	"log/slog"
)

// ============================================================================
// ENGINE OPTIONS — Functional options for Execute()
// ============================================================================

// Option configures engine behavior via functional options pattern.
type Option func(*config)

type config struct {
	TopCategories int      // how many bug categories to rank; <= 0 means all
	KPISeverities []string // severities that get their own KPI count
	Logger        *slog.Logger
}

// WithTopCategories sets how many bug categories the category ranking keeps.
func WithTopCategories(n int) Option {
	return func(c *config) {
		c.TopCategories = n
	}
}

// WithKPISeverities sets which severities are counted as headline KPIs.
func WithKPISeverities(severities ...string) Option {
	return func(c *config) {
		c.KPISeverities = severities
	}
}

// WithLogger routes pipeline debug logs to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.Logger = logger
		}
	}
}

// applyOptions creates a config from functional options.
func applyOptions(opts []Option) *config {
	cfg := &config{
		TopCategories: 10,
		KPISeverities: []string{"Critical", "High"},
		Logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}
