package testutil

import (
	"net/http/httptest"
	"testing"
	"time"

	"finitefield.org/media-web/internal/catalog"
	"finitefield.org/media-web/internal/dashboard"
	"finitefield.org/media-web/internal/httpserver"
	"finitefield.org/media-web/internal/httpserver/api"
)

// ServerOption customises the HTTP server configuration for tests.
type ServerOption func(*httpserver.Config)

// WithCatalog wires a custom catalog source.
func WithCatalog(src catalog.Source) ServerOption {
	return func(cfg *httpserver.Config) {
		cfg.Catalog = src
	}
}

// WithDashboardService wires a custom dashboard service implementation.
func WithDashboardService(service dashboard.Service) ServerOption {
	return func(cfg *httpserver.Config) {
		cfg.Dashboard = service
	}
}

// WithUpstream wires the metadata proxy backend.
func WithUpstream(upstream api.Upstream) ServerOption {
	return func(cfg *httpserver.Config) {
		cfg.Upstream = upstream
	}
}

// WithRateLimit overrides the per-minute API limit.
func WithRateLimit(perMinute int) ServerOption {
	return func(cfg *httpserver.Config) {
		cfg.RateLimitPerMinute = perMinute
	}
}

// NewServer constructs an httptest server running the full HTTP stack with sensible defaults.
func NewServer(t testing.TB, opts ...ServerOption) *httptest.Server {
	t.Helper()

	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	cfg := httpserver.Config{
		Address:            ":0",
		Dashboard:          dashboard.NewStaticService(clock),
		RateLimitPerMinute: 1000,
		Now:                clock,
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	srv, err := httpserver.New(cfg)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	ts := httptest.NewServer(srv.Handler)
	t.Cleanup(ts.Close)
	return ts
}
