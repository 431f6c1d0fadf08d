package engine

import "github.com/spektr-org/stopfrisk/schema"

// ============================================================================
// ENGINE OPTIONS — Functional options for New()
// ============================================================================

// Option configures a Database via functional options pattern.
type Option func(*config)

type config struct {
	Layout schema.Layout
}

// WithLayout sets the field offsets Ingest reads. The layout is used as is;
// callers validate it first (schema.LoadLayout does).
func WithLayout(l schema.Layout) Option {
	return func(c *config) {
		c.Layout = l
	}
}

// applyOptions creates a config from functional options.
func applyOptions(opts []Option) *config {
	cfg := &config{
		Layout: schema.Default(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}
