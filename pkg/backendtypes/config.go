package backendtypes

import (
	"fmt"
	"strings"
	"time"
)

// BackendConfig defines the configuration for the bridge server
type BackendConfig struct {
	Server    ServerConfig    `yaml:"server" toml:"server"`
	Logging   LoggingConfig   `yaml:"logging" toml:"logging"`
	CORS      CORSConfig      `yaml:"cors" toml:"cors"`
	RateLimit RateLimitConfig `yaml:"rate_limit" toml:"rate_limit"`
}

type ServerConfig struct {
	Host            string   `yaml:"host" toml:"host"`
	Port            int      `yaml:"port" toml:"port"`
	Version         string   `yaml:"version" toml:"version"`
	ReadTimeout     Duration `yaml:"read_timeout" toml:"read_timeout"`
	WriteTimeout    Duration `yaml:"write_timeout" toml:"write_timeout"`
	ShutdownTimeout Duration `yaml:"shutdown_timeout" toml:"shutdown_timeout"`
}

// Addr returns the listen address
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type LoggingConfig struct {
	Level string `yaml:"level" toml:"level"` // "info" or "quiet"
}

// Quiet reports whether per-attempt logging is disabled
func (l LoggingConfig) Quiet() bool {
	return strings.EqualFold(strings.TrimSpace(l.Level), "quiet")
}

type CORSConfig struct {
	Enabled        bool     `yaml:"enabled" toml:"enabled"`
	AllowedOrigins []string `yaml:"allowed_origins" toml:"allowed_origins"`
	AllowedMethods []string `yaml:"allowed_methods" toml:"allowed_methods"`
	AllowedHeaders []string `yaml:"allowed_headers" toml:"allowed_headers"`
}

// RateLimitConfig throttles inbound bridge requests. Upstream calls are never throttled.
type RateLimitConfig struct {
	Enabled           bool    `yaml:"enabled" toml:"enabled"`
	RequestsPerSecond float64 `yaml:"requests_per_second" toml:"requests_per_second"`
	Burst             int     `yaml:"burst" toml:"burst"`
}

// Duration is a time.Duration written as a Go duration string ("10s", "1m30s")
// in YAML and TOML files.
type Duration time.Duration

// Std returns the value as a time.Duration
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// String implements fmt.Stringer
func (d Duration) String() string {
	return time.Duration(d).String()
}

// MarshalText implements encoding.TextMarshaler
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	*d = Duration(parsed)
	return nil
}
