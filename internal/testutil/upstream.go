// Package testutil provides shared testing utilities for the media kit:
// scripted upstream servers that stand in for mirrors and metadata APIs and
// record every call they receive.
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
)

// Call is a request received by an Upstream
type Call struct {
	Server string
	Path   string
	Query  url.Values
}

// Recorder collects calls across several upstream servers in arrival order
type Recorder struct {
	mu    sync.Mutex
	calls []Call
}

// Calls returns a copy of the recorded calls
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call{}, r.calls...)
}

// Servers returns the server name of each recorded call in order
func (r *Recorder) Servers() []string {
	calls := r.Calls()
	out := make([]string, len(calls))
	for i, c := range calls {
		out[i] = c.Server
	}
	return out
}

// Paths returns the path of each recorded call in order
func (r *Recorder) Paths() []string {
	calls := r.Calls()
	out := make([]string, len(calls))
	for i, c := range calls {
		out[i] = c.Path
	}
	return out
}

func (r *Recorder) add(c Call) {
	r.mu.Lock()
	r.calls = append(r.calls, c)
	r.mu.Unlock()
}

// Upstream is a scripted HTTP server. Unrouted paths answer 404.
type Upstream struct {
	*httptest.Server
	Name string

	mu       sync.RWMutex
	routes   map[string]http.HandlerFunc
	recorder *Recorder
}

// NewUpstream starts a server that records into rec (a fresh recorder when nil).
// The server is closed when the test finishes.
func NewUpstream(t *testing.T, name string, rec *Recorder) *Upstream {
	t.Helper()
	if rec == nil {
		rec = &Recorder{}
	}

	u := &Upstream{
		Name:     name,
		routes:   make(map[string]http.HandlerFunc),
		recorder: rec,
	}
	u.Server = httptest.NewServer(http.HandlerFunc(u.serve))
	t.Cleanup(u.Close)
	return u
}

// Handle routes an exact path to h
func (u *Upstream) Handle(path string, h http.HandlerFunc) *Upstream {
	u.mu.Lock()
	u.routes[path] = h
	u.mu.Unlock()
	return u
}

// Recorder returns the call recorder
func (u *Upstream) Recorder() *Recorder {
	return u.recorder
}

func (u *Upstream) serve(w http.ResponseWriter, r *http.Request) {
	u.recorder.add(Call{Server: u.Name, Path: r.URL.Path, Query: r.URL.Query()})

	u.mu.RLock()
	h, ok := u.routes[r.URL.Path]
	u.mu.RUnlock()
	if !ok {
		http.NotFound(w, r)
		return
	}
	h(w, r)
}

// JSON answers with status and body encoded as JSON
func JSON(status int, body interface{}) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}
}

// Raw answers with status and a literal body
func Raw(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

// Hang blocks until the client gives up, simulating an unresponsive upstream
func Hang() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}
}

// ByQuery dispatches on the value of a query parameter; unknown values answer 401
func ByQuery(param string, handlers map[string]http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h, ok := handlers[r.URL.Query().Get(param)]
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		h(w, r)
	}
}

// ClosedURL returns the address of a server that is no longer listening
func ClosedURL(t *testing.T) string {
	t.Helper()
	s := httptest.NewServer(http.NotFoundHandler())
	addr := s.URL
	s.Close()
	return addr
}
