// Package backendtypes defines the configuration and response types of the
// local JSON bridge.
//
// It is separate from the backend package so that configuration loading can
// use these types without importing the server implementation.
//
// # Configuration Types
//
//   - ServerConfig: listen address and timeouts
//   - LoggingConfig: per-attempt logging level
//   - CORSConfig: cross-origin settings for the renderer
//   - RateLimitConfig: inbound throttle
//
// Durations are written as Go duration strings in YAML and TOML:
//
//	server:
//	  port: 7311
//	  read_timeout: 30s
//
// # Response Types
//
// Operation results are returned as envelopes. APIResponse is used only for
// bridge-level errors (missing parameters, throttling, panics) and for the
// health and metrics endpoints.
package backendtypes
