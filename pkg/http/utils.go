package http

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aether-player/media-kit/pkg/types"
)

// maxBodySize caps how much of an upstream body is read
const maxBodySize = 16 << 20

// APIError represents a non-2xx upstream response
type APIError struct {
	StatusCode int
	Message    string
	RawBody    string
	Timestamp  time.Time
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error %d: %s", e.StatusCode, e.Message)
}

// ErrorCode implements the resolver's error classification
func (e *APIError) ErrorCode() types.ErrorCode {
	return types.ErrCodeStatus
}

// DecodeError reports a 2xx body that is not valid JSON for the target
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to parse JSON response: %v", e.Err)
}

// Unwrap returns the underlying JSON error
func (e *DecodeError) Unwrap() error { return e.Err }

// ErrorCode implements the resolver's error classification
func (e *DecodeError) ErrorCode() types.ErrorCode {
	return types.ErrCodeDecode
}

// ProcessResponse reads the body and converts non-2xx statuses into an APIError
func ProcessResponse(resp *http.Response) ([]byte, error) {
	defer func() { _ = resp.Body.Close() }() //nolint:errcheck // Best effort close

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, ParseAPIError(resp.StatusCode, string(body))
	}

	return body, nil
}

// ProcessJSONResponse processes an HTTP response and unmarshals JSON
func ProcessJSONResponse(resp *http.Response, target interface{}) error {
	body, err := ProcessResponse(resp)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, target); err != nil {
		return &DecodeError{Err: err}
	}

	return nil
}

// ParseAPIError builds an APIError from a status code and body.
// Upstream error bodies are free-form, so the message is a trimmed excerpt.
func ParseAPIError(statusCode int, body string) *APIError {
	message := strings.TrimSpace(body)
	if len(message) > 200 {
		message = message[:200] + "..."
	}
	if message == "" {
		message = http.StatusText(statusCode)
	}

	return &APIError{
		StatusCode: statusCode,
		Message:    message,
		RawBody:    body,
		Timestamp:  time.Now(),
	}
}
