package types

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"
)

func TestTransportError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *TransportError
		expected string
	}{
		{
			name: "error with status code",
			err: NewTransportError("youtube-search", "https://yewtu.be", ErrCodeStatus,
				errors.New("bad gateway")).WithStatusCode(502),
			expected: "[youtube-search] https://yewtu.be: bad gateway (status=502, code=status)",
		},
		{
			name:     "error without status code",
			err:      NewTransportError("soundcloud-track", "soundcloud#2", ErrCodeUnusable, ErrUnusable),
			expected: "[soundcloud-track] soundcloud#2: unusable payload (code=unusable)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestTransportError_Unwrap(t *testing.T) {
	err := NewTransportError("youtube-video", "https://a", ErrCodeUnusable, fmt.Errorf("null body: %w", ErrUnusable))

	if !errors.Is(err, ErrUnusable) {
		t.Error("errors.Is should find ErrUnusable through TransportError")
	}
	if !IsUnusable(err) {
		t.Error("IsUnusable() = false, want true")
	}
	if IsUnusable(NewTransportError("op", "d", ErrCodeNetwork, errors.New("refused"))) {
		t.Error("IsUnusable() = true for a network error")
	}
}

func TestExhaustionError(t *testing.T) {
	last := NewTransportError("itunes-search", "https://itunes.apple.com", ErrCodeTimeout, context.DeadlineExceeded)
	err := &ExhaustionError{Operation: "itunes-search", Attempts: 1, Last: last}

	want := "[itunes-search] all 1 descriptors exhausted, last error: " + last.Error()
	if got := err.Error(); got != want {
		t.Errorf("Error() = %v, want %v", got, want)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Error("errors.Is should reach the last attempt error")
	}

	empty := &ExhaustionError{Operation: "x", Attempts: 0}
	if got := empty.Error(); got != "[x] all 0 descriptors exhausted" {
		t.Errorf("Error() = %v", got)
	}
}

type codedError struct{ code ErrorCode }

func (e codedError) Error() string        { return string(e.code) }
func (e codedError) ErrorCode() ErrorCode { return e.code }

type timeoutNetError struct{ timeout bool }

func (e timeoutNetError) Error() string   { return "net" }
func (e timeoutNetError) Timeout() bool   { return e.timeout }
func (e timeoutNetError) Temporary() bool { return false }

var _ net.Error = timeoutNetError{}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{"nil", nil, ""},
		{"coded", codedError{ErrCodeDecode}, ErrCodeDecode},
		{"wrapped coded", fmt.Errorf("attempt: %w", codedError{ErrCodeStatus}), ErrCodeStatus},
		{"transport error keeps code", NewTransportError("op", "d", ErrCodeNetwork, context.DeadlineExceeded), ErrCodeNetwork},
		{"unusable", fmt.Errorf("empty: %w", ErrUnusable), ErrCodeUnusable},
		{"deadline", fmt.Errorf("get: %w", context.DeadlineExceeded), ErrCodeTimeout},
		{"net timeout", timeoutNetError{timeout: true}, ErrCodeTimeout},
		{"net failure", &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}, ErrCodeNetwork},
		{"plain", errors.New("boom"), ErrCodeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyError(tt.err); got != tt.want {
				t.Errorf("ClassifyError() = %v, want %v", got, tt.want)
			}
		})
	}
}
