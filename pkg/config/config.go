// Package config loads the media kit configuration. Files are YAML or TOML,
// chosen by extension; every field a file leaves out keeps its built-in
// default, so an empty file yields the default pools and timeouts.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/aether-player/media-kit/pkg/backendtypes"
	httpclient "github.com/aether-player/media-kit/pkg/http"
	"github.com/aether-player/media-kit/pkg/media"
	"github.com/aether-player/media-kit/pkg/providers/invidious"
	"github.com/aether-player/media-kit/pkg/providers/itunes"
	"github.com/aether-player/media-kit/pkg/providers/soundcloud"
)

// EnvConfigPath names the environment variable consulted when no path is given
const EnvConfigPath = "AETHER_CONFIG"

// DefaultPort is the bridge port used when the configuration does not set one
const DefaultPort = 7311

// Config is the complete configuration file
type Config struct {
	Server    backendtypes.ServerConfig    `yaml:"server" toml:"server"`
	Logging   backendtypes.LoggingConfig   `yaml:"logging" toml:"logging"`
	CORS      backendtypes.CORSConfig      `yaml:"cors" toml:"cors"`
	RateLimit backendtypes.RateLimitConfig `yaml:"rate_limit" toml:"rate_limit"`

	HTTP       HTTPConfig       `yaml:"http" toml:"http"`
	YouTube    YouTubeConfig    `yaml:"youtube" toml:"youtube"`
	SoundCloud SoundCloudConfig `yaml:"soundcloud" toml:"soundcloud"`
	ITunes     ITunesConfig     `yaml:"itunes" toml:"itunes"`
}

// HTTPConfig configures the shared upstream client
type HTTPConfig struct {
	UserAgent string                `yaml:"user_agent" toml:"user_agent"`
	Timeout   backendtypes.Duration `yaml:"timeout" toml:"timeout"`
}

// YouTubeConfig configures the Invidious mirror pool
type YouTubeConfig struct {
	Instances     []string              `yaml:"instances" toml:"instances"`
	SearchTimeout backendtypes.Duration `yaml:"search_timeout" toml:"search_timeout"`
	ItemTimeout   backendtypes.Duration `yaml:"item_timeout" toml:"item_timeout"`
}

// SoundCloudConfig configures the SoundCloud credential pool
type SoundCloudConfig struct {
	APIBase       string                `yaml:"api_base" toml:"api_base"`
	ClientIDs     []string              `yaml:"client_ids" toml:"client_ids"`
	SearchLimit   int                   `yaml:"search_limit" toml:"search_limit"`
	SearchTimeout backendtypes.Duration `yaml:"search_timeout" toml:"search_timeout"`
	ItemTimeout   backendtypes.Duration `yaml:"item_timeout" toml:"item_timeout"`
	StreamTimeout backendtypes.Duration `yaml:"stream_timeout" toml:"stream_timeout"`
}

// ITunesConfig configures the iTunes search endpoint pool
type ITunesConfig struct {
	Endpoints     []string              `yaml:"endpoints" toml:"endpoints"`
	Country       string                `yaml:"country" toml:"country"`
	SearchLimit   int                   `yaml:"search_limit" toml:"search_limit"`
	SearchTimeout backendtypes.Duration `yaml:"search_timeout" toml:"search_timeout"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Server: backendtypes.ServerConfig{
			Host:            "127.0.0.1",
			Port:            DefaultPort,
			Version:         "1.0.0",
			ReadTimeout:     backendtypes.Duration(30 * time.Second),
			ShutdownTimeout: backendtypes.Duration(15 * time.Second),
		},
		Logging: backendtypes.LoggingConfig{Level: "info"},
		CORS: backendtypes.CORSConfig{
			Enabled:        true,
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type", "X-Request-ID"},
		},
		RateLimit: backendtypes.RateLimitConfig{
			Enabled:           true,
			RequestsPerSecond: 20,
			Burst:             40,
		},
		HTTP: HTTPConfig{
			UserAgent: httpclient.DefaultUserAgent,
			Timeout:   backendtypes.Duration(60 * time.Second),
		},
		YouTube: YouTubeConfig{
			Instances:     append([]string(nil), invidious.DefaultInstances...),
			SearchTimeout: backendtypes.Duration(invidious.DefaultSearchTimeout),
			ItemTimeout:   backendtypes.Duration(invidious.DefaultItemTimeout),
		},
		SoundCloud: SoundCloudConfig{
			APIBase:       soundcloud.DefaultAPIBase,
			ClientIDs:     append([]string(nil), soundcloud.DefaultClientIDs...),
			SearchLimit:   soundcloud.DefaultSearchLimit,
			SearchTimeout: backendtypes.Duration(soundcloud.DefaultSearchTimeout),
			ItemTimeout:   backendtypes.Duration(soundcloud.DefaultItemTimeout),
			StreamTimeout: backendtypes.Duration(soundcloud.DefaultStreamTimeout),
		},
		ITunes: ITunesConfig{
			Endpoints:     append([]string(nil), itunes.DefaultEndpoints...),
			SearchLimit:   itunes.DefaultSearchLimit,
			SearchTimeout: backendtypes.Duration(itunes.DefaultSearchTimeout),
		},
	}
}

// Load reads the file at path over the defaults. An empty path falls back to
// $AETHER_CONFIG; when that is unset too the defaults are returned.
func Load(path string) (*Config, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		path = strings.TrimSpace(os.Getenv(EnvConfigPath))
	}

	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := Parse(data, formatOf(path), cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Format is a configuration file syntax
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

func formatOf(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return FormatTOML
	}
	return FormatYAML
}

// Parse decodes data into cfg. Fields absent from data are left untouched.
func Parse(data []byte, format Format, cfg *Config) error {
	switch format {
	case FormatTOML:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to parse TOML: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to parse YAML: %w", err)
		}
	default:
		return fmt.Errorf("unsupported config format %q", format)
	}
	return nil
}

// Validate checks pools, timeouts and the listen port
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}
	errs = append(errs, checkPool("youtube.instances", c.YouTube.Instances))
	errs = append(errs, checkPool("soundcloud.client_ids", c.SoundCloud.ClientIDs))
	errs = append(errs, checkPool("itunes.endpoints", c.ITunes.Endpoints))

	timeouts := map[string]backendtypes.Duration{
		"youtube.search_timeout":    c.YouTube.SearchTimeout,
		"youtube.item_timeout":      c.YouTube.ItemTimeout,
		"soundcloud.search_timeout": c.SoundCloud.SearchTimeout,
		"soundcloud.item_timeout":   c.SoundCloud.ItemTimeout,
		"soundcloud.stream_timeout": c.SoundCloud.StreamTimeout,
		"itunes.search_timeout":     c.ITunes.SearchTimeout,
	}
	for name, d := range timeouts {
		if d <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive", name))
		}
	}
	if c.SoundCloud.SearchLimit <= 0 {
		errs = append(errs, errors.New("soundcloud.search_limit must be positive"))
	}
	if c.RateLimit.Enabled && (c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.Burst <= 0) {
		errs = append(errs, errors.New("rate_limit needs positive requests_per_second and burst"))
	}

	return errors.Join(errs...)
}

func checkPool(name string, descriptors []string) error {
	if len(descriptors) == 0 {
		return fmt.Errorf("%s must not be empty", name)
	}
	for i, d := range descriptors {
		if strings.TrimSpace(d) == "" {
			return fmt.Errorf("%s[%d] is blank", name, i)
		}
	}
	return nil
}

// Backend returns the bridge server settings
func (c *Config) Backend() backendtypes.BackendConfig {
	return backendtypes.BackendConfig{
		Server:    c.Server,
		Logging:   c.Logging,
		CORS:      c.CORS,
		RateLimit: c.RateLimit,
	}
}

// HTTPClient returns the shared upstream client settings
func (c *Config) HTTPClient() httpclient.HTTPClientConfig {
	return httpclient.HTTPClientConfig{
		UserAgent: c.HTTP.UserAgent,
		Timeout:   c.HTTP.Timeout.Std(),
	}
}

// MediaOptions returns the provider client settings
func (c *Config) MediaOptions() media.Options {
	return media.Options{
		YouTube: invidious.Config{
			Instances:     c.YouTube.Instances,
			SearchTimeout: c.YouTube.SearchTimeout.Std(),
			ItemTimeout:   c.YouTube.ItemTimeout.Std(),
		},
		SoundCloud: soundcloud.Config{
			APIBase:       c.SoundCloud.APIBase,
			ClientIDs:     c.SoundCloud.ClientIDs,
			SearchLimit:   c.SoundCloud.SearchLimit,
			SearchTimeout: c.SoundCloud.SearchTimeout.Std(),
			ItemTimeout:   c.SoundCloud.ItemTimeout.Std(),
			StreamTimeout: c.SoundCloud.StreamTimeout.Std(),
		},
		ITunes: itunes.Config{
			Endpoints:     c.ITunes.Endpoints,
			Country:       c.ITunes.Country,
			SearchLimit:   c.ITunes.SearchLimit,
			SearchTimeout: c.ITunes.SearchTimeout.Std(),
		},
	}
}
