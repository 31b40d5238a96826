// Package pool provides immutable, ordered pools of interchangeable upstream
// descriptors: mirror base URLs or opaque API credentials.
// Pool order is attempt priority. A pool never reorders itself, tracks health,
// or remembers which descriptor served the previous request.
package pool

import (
	"fmt"
	"iter"
	"strings"
)

// Pool is an ordered, read-only set of descriptors configured once at startup
type Pool struct {
	name        string
	descriptors []string
}

// New creates a pool from descriptors in priority order.
// Descriptors are trimmed; an empty pool or a blank descriptor is rejected.
func New(name string, descriptors []string) (*Pool, error) {
	if len(descriptors) == 0 {
		return nil, fmt.Errorf("pool %s: no descriptors configured", name)
	}

	cleaned := make([]string, 0, len(descriptors))
	for i, d := range descriptors {
		d = strings.TrimSpace(d)
		if d == "" {
			return nil, fmt.Errorf("pool %s: descriptor %d is blank", name, i)
		}
		cleaned = append(cleaned, d)
	}

	return &Pool{
		name:        name,
		descriptors: cleaned,
	}, nil
}

// MustNew is like New but panics on invalid input. Intended for built-in defaults.
func MustNew(name string, descriptors []string) *Pool {
	p, err := New(name, descriptors)
	if err != nil {
		panic(err)
	}
	return p
}

// Name returns the pool name used in logs
func (p *Pool) Name() string {
	return p.name
}

// Len returns the number of descriptors
func (p *Pool) Len() int {
	if p == nil {
		return 0
	}
	return len(p.descriptors)
}

// Descriptors returns a copy of the descriptors in priority order
func (p *Pool) Descriptors() []string {
	if p == nil {
		return nil
	}
	return append([]string{}, p.descriptors...)
}

// All iterates the descriptors in priority order, always starting from the first
func (p *Pool) All() iter.Seq2[int, string] {
	return func(yield func(int, string) bool) {
		if p == nil {
			return
		}
		for i, d := range p.descriptors {
			if !yield(i, d) {
				return
			}
		}
	}
}

// Label returns a log-safe label for the descriptor at index i.
// Credential pools should be logged by label rather than by value.
func (p *Pool) Label(i int) string {
	return fmt.Sprintf("%s#%d", p.name, i)
}

// IndexOf returns the position of descriptor in the pool, or -1
func (p *Pool) IndexOf(descriptor string) int {
	if p == nil {
		return -1
	}
	for i, d := range p.descriptors {
		if d == descriptor {
			return i
		}
	}
	return -1
}
