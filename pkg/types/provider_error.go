package types

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ErrorCode categorizes why a single attempt against a descriptor failed
type ErrorCode string

const (
	ErrCodeUnknown     ErrorCode = "unknown"
	ErrCodeNetwork     ErrorCode = "network"
	ErrCodeTimeout     ErrorCode = "timeout"
	ErrCodeStatus      ErrorCode = "status"
	ErrCodeDecode      ErrorCode = "decode"
	ErrCodeUnusable    ErrorCode = "unusable"
	ErrCodeInvalidArgs ErrorCode = "invalid_request"
)

// ErrUnusable marks an upstream call that succeeded at the transport level
// but returned an empty or incomplete payload.
var ErrUnusable = errors.New("unusable payload")

// TransportError is a failed attempt against one descriptor. It is always
// recovered by the resolver and never reaches the UI.
type TransportError struct {
	Code       ErrorCode // Categorized failure
	Descriptor string    // Endpoint or credential that was attempted
	Operation  string    // Resolver name, e.g. "youtube-search"
	StatusCode int       // HTTP status code (0 if not applicable)
	Err        error     // Wrapped original error
}

// Error implements the error interface
func (e *TransportError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("[%s] %s: %v (status=%d, code=%s)", e.Operation, e.Descriptor, e.Err, e.StatusCode, e.Code)
	}
	return fmt.Sprintf("[%s] %s: %v (code=%s)", e.Operation, e.Descriptor, e.Err, e.Code)
}

// Unwrap returns the original error for errors.Is/As
func (e *TransportError) Unwrap() error {
	return e.Err
}

// ErrorCode returns the categorized failure
func (e *TransportError) ErrorCode() ErrorCode {
	return e.Code
}

// NewTransportError creates a new TransportError
func NewTransportError(operation, descriptor string, code ErrorCode, err error) *TransportError {
	return &TransportError{
		Code:       code,
		Descriptor: descriptor,
		Operation:  operation,
		Err:        err,
	}
}

// WithStatusCode sets the status code field and returns the error for chaining
func (e *TransportError) WithStatusCode(statusCode int) *TransportError {
	e.StatusCode = statusCode
	return e
}

// ExhaustionError reports that every descriptor of a pool was attempted
// without a usable payload. It is logged and counted, while the caller only
// ever sees the operation's fixed failure message.
type ExhaustionError struct {
	Operation string
	Attempts  int
	Last      error
}

// Error implements the error interface
func (e *ExhaustionError) Error() string {
	if e.Last == nil {
		return fmt.Sprintf("[%s] all %d descriptors exhausted", e.Operation, e.Attempts)
	}
	return fmt.Sprintf("[%s] all %d descriptors exhausted, last error: %v", e.Operation, e.Attempts, e.Last)
}

// Unwrap returns the last attempt error
func (e *ExhaustionError) Unwrap() error {
	return e.Last
}

// IsUnusable reports whether err marks an unusable payload rather than a transport failure
func IsUnusable(err error) bool {
	return errors.Is(err, ErrUnusable)
}

// ClassifyError maps an attempt error to an ErrorCode. Errors that carry their
// own code (anything with an ErrorCode method) keep it.
func ClassifyError(err error) ErrorCode {
	if err == nil {
		return ""
	}

	var coded interface{ ErrorCode() ErrorCode }
	if errors.As(err, &coded) {
		return coded.ErrorCode()
	}

	if IsUnusable(err) {
		return ErrCodeUnusable
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrCodeTimeout
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return ErrCodeTimeout
		}
		return ErrCodeNetwork
	}

	return ErrCodeUnknown
}
