// Package common holds what the provider clients share: their injected
// dependencies and the helpers for building upstream URLs.
package common

import (
	"log"
	"strings"

	httpclient "github.com/aether-player/media-kit/pkg/http"
	"github.com/aether-player/media-kit/pkg/types"
)

// Dependencies are the process-wide collaborators injected into every provider client
type Dependencies struct {
	HTTP    *httpclient.HTTPClient
	Logger  *log.Logger
	Metrics types.MetricsCollector
}

// WithDefaults fills unset dependencies: a default HTTP client and the standard logger.
// Metrics stay optional.
func (d Dependencies) WithDefaults() Dependencies {
	if d.HTTP == nil {
		d.HTTP = httpclient.NewHTTPClient(httpclient.HTTPClientConfig{})
	}
	if d.Logger == nil {
		d.Logger = log.Default()
	}
	return d
}

// JoinURL joins a base URL and a path without doubling slashes
func JoinURL(base, path string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}

// Blank reports whether an operation input is empty after trimming
func Blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
