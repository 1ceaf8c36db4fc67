package testutil

import (
	"io/fs"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"finitefield.org/inertia-web/internal/web/httpserver"
)

// ServerOption customises the HTTP server configuration for tests.
type ServerOption func(*httpserver.Config)

// WithAssetVersion pins the Inertia asset version.
func WithAssetVersion(version string) ServerOption {
	return func(cfg *httpserver.Config) {
		cfg.AssetVersion = version
	}
}

// WithContent replaces the embedded markdown documents.
func WithContent(fsys fs.FS) ServerOption {
	return func(cfg *httpserver.Config) {
		cfg.Content = fsys
	}
}

// WithLogger wires a custom logger, typically backed by zaptest/observer.
func WithLogger(logger *zap.Logger) ServerOption {
	return func(cfg *httpserver.Config) {
		cfg.Logger = logger
	}
}

// NewServer constructs an httptest server running the web HTTP stack with sensible defaults.
func NewServer(t testing.TB, opts ...ServerOption) *httptest.Server {
	t.Helper()

	cfg := httpserver.Config{
		Address:      ":0",
		Lang:         "en",
		AssetVersion: "test-version",
		Logger:       zap.NewNop(),
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	srv, err := httpserver.New(cfg)
	if err != nil {
		t.Fatalf("build server: %v", err)
	}
	ts := httptest.NewServer(srv.Handler)
	t.Cleanup(ts.Close)
	return ts
}
