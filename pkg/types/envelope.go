package types

import "encoding/json"

// Envelope is the tagged success/failure result of one resolution.
// On success Data and Instance are set; on failure only Error is set.
type Envelope[T any] struct {
	Success  bool   `json:"success"`
	Data     T      `json:"data,omitempty"`
	Instance string `json:"instance,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Success builds a success envelope served by the given descriptor.
func Success[T any](data T, instance string) Envelope[T] {
	return Envelope[T]{
		Success:  true,
		Data:     data,
		Instance: instance,
	}
}

// Failure builds a failure envelope carrying a fixed human-readable message.
func Failure[T any](message string) Envelope[T] {
	return Envelope[T]{
		Success: false,
		Error:   message,
	}
}

// WithInstance returns a copy of the envelope reporting a different serving descriptor.
// Failure envelopes are returned unchanged.
func (e Envelope[T]) WithInstance(instance string) Envelope[T] {
	if !e.Success {
		return e
	}
	e.Instance = instance
	return e
}

// MarshalJSON emits data only for successful envelopes, including an empty
// but present list, and never for failures.
func (e Envelope[T]) MarshalJSON() ([]byte, error) {
	type wire struct {
		Success  bool        `json:"success"`
		Data     interface{} `json:"data,omitempty"`
		Instance string      `json:"instance,omitempty"`
		Error    string      `json:"error,omitempty"`
	}

	w := wire{
		Success:  e.Success,
		Instance: e.Instance,
		Error:    e.Error,
	}
	if e.Success {
		w.Data = e.Data
	}
	return json.Marshal(w)
}
