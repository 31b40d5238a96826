// Package middleware provides HTTP middleware for the bridge server: request
// ID tracking, access logging, panic recovery, CORS for the renderer, and an
// inbound rate limit.
package middleware
