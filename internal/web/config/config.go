package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	defaultAddress         = ":8080"
	defaultEnvironment     = "development"
	defaultLang            = "en"
	defaultLogLevel        = "info"
	defaultReadTimeout     = 10 * time.Second
	defaultWriteTimeout    = 30 * time.Second
	defaultIdleTimeout     = 60 * time.Second
	defaultShutdownTimeout = 10 * time.Second
)

// Config captures runtime configuration for the web server.
type Config struct {
	Server ServerConfig
	Site   SiteConfig
	// LogLevel is a zap level name.
	LogLevel string
}

// ServerConfig configures HTTP server parameters.
type ServerConfig struct {
	Address         string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// SiteConfig holds presentation settings shared by every page.
type SiteConfig struct {
	Environment string
	Lang        string
	// AssetVersion overrides the content hash of the embedded assets when set.
	AssetVersion string
}

// ValidationError is returned when configuration fields are missing or invalid.
type ValidationError struct {
	fields []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed: missing or invalid fields [%s]", strings.Join(e.fields, ", "))
}

// Fields returns a copy of the missing/invalid field list.
func (e *ValidationError) Fields() []string {
	out := make([]string, len(e.fields))
	copy(out, e.fields)
	return out
}

// Option customises Load.
type Option func(*loaderOptions)

type loaderOptions struct {
	envMap       map[string]string
	useSystemEnv bool
}

// WithEnvMap supplies values that take precedence over the process environment.
func WithEnvMap(values map[string]string) Option {
	return func(o *loaderOptions) {
		o.envMap = values
	}
}

// WithoutSystemEnv disables reading from the process environment.
func WithoutSystemEnv() Option {
	return func(o *loaderOptions) {
		o.useSystemEnv = false
	}
}

// Load resolves configuration from the environment, applying defaults.
func Load(opts ...Option) (Config, error) {
	options := loaderOptions{useSystemEnv: true}
	for _, opt := range opts {
		opt(&options)
	}

	lookup := func(key string) (string, bool) {
		if options.envMap != nil {
			if value, ok := options.envMap[key]; ok {
				return value, true
			}
		}
		if options.useSystemEnv {
			if value, ok := os.LookupEnv(key); ok {
				return value, true
			}
		}
		return "", false
	}

	var invalid []string
	duration := func(key string, fallback time.Duration) time.Duration {
		value, ok := lookup(key)
		if !ok || strings.TrimSpace(value) == "" {
			return fallback
		}
		d, err := time.ParseDuration(strings.TrimSpace(value))
		if err != nil || d <= 0 {
			invalid = append(invalid, key)
			return fallback
		}
		return d
	}

	address := stringWithDefault(lookup, "WEB_HTTP_ADDR", "")
	if address == "" {
		if port := stringWithDefault(lookup, "PORT", ""); port != "" {
			address = ":" + strings.TrimPrefix(port, ":")
		} else {
			address = defaultAddress
		}
	}

	cfg := Config{
		Server: ServerConfig{
			Address:         address,
			ReadTimeout:     duration("WEB_READ_TIMEOUT", defaultReadTimeout),
			WriteTimeout:    duration("WEB_WRITE_TIMEOUT", defaultWriteTimeout),
			IdleTimeout:     duration("WEB_IDLE_TIMEOUT", defaultIdleTimeout),
			ShutdownTimeout: duration("WEB_SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
		},
		Site: SiteConfig{
			Environment:  strings.ToLower(stringWithDefault(lookup, "WEB_ENVIRONMENT", defaultEnvironment)),
			Lang:         stringWithDefault(lookup, "WEB_LANG", defaultLang),
			AssetVersion: stringWithDefault(lookup, "WEB_ASSET_VERSION", ""),
		},
		LogLevel: stringWithDefault(lookup, "LOG_LEVEL", defaultLogLevel),
	}

	if len(invalid) > 0 {
		return Config{}, &ValidationError{fields: invalid}
	}
	return cfg, nil
}

func stringWithDefault(lookup func(string) (string, bool), key, fallback string) string {
	if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}
