package backendtypes

import "time"

// APIResponse is the wrapper for bridge-level errors and service endpoints.
// Operation results are written as envelopes instead.
type APIResponse struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Error     *APIError   `json:"error,omitempty"`
	RequestID string      `json:"request_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// Bridge error codes
const (
	ErrCodeMissingParameter = "MISSING_PARAMETER"
	ErrCodeRateLimited      = "RATE_LIMITED"
	ErrCodeInternal         = "INTERNAL_ERROR"
	ErrCodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
)

// HealthResponse for health endpoints
type HealthResponse struct {
	Status    string                    `json:"status"`
	Version   string                    `json:"version"`
	Uptime    string                    `json:"uptime"`
	Providers map[string]ProviderHealth `json:"providers,omitempty"`
}

// ProviderHealth describes a provider's configured pool
type ProviderHealth struct {
	Status    string `json:"status"`
	PoolSize  int    `json:"pool_size"`
	Resolved  int64  `json:"resolved"`
	Exhausted int64  `json:"exhausted"`
}
