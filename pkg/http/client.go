// Package http provides the shared upstream HTTP client used by every provider.
// It issues JSON GET requests, turns non-2xx responses into APIError values,
// and keeps simple request metrics. It never retries: fallback across
// descriptors is the resolver's job.
package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultUserAgent is sent when the configuration does not set one
const DefaultUserAgent = "aether-media-kit/1.0"

// HTTPClient provides a reusable HTTP client for upstream metadata APIs
type HTTPClient struct {
	client       *http.Client
	config       HTTPClientConfig
	metrics      *ClientMetrics
	requestCount int64
	successCount int64
	errorCount   int64
	totalLatency int64 // Nanoseconds
	mu           sync.RWMutex
}

// HTTPClientConfig configures the HTTP client
type HTTPClientConfig struct {
	// Timeout is an outer safety bound; per-attempt timeouts come from the request context
	Timeout             time.Duration     `json:"timeout,omitempty" yaml:"timeout,omitempty"`
	Headers             map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	UserAgent           string            `json:"user_agent,omitempty" yaml:"user_agent,omitempty"`
	MaxIdleConns        int               `json:"max_idle_conns,omitempty" yaml:"max_idle_conns,omitempty"`
	MaxIdleConnsPerHost int               `json:"max_idle_conns_per_host,omitempty" yaml:"max_idle_conns_per_host,omitempty"`
	IdleConnTimeout     time.Duration     `json:"idle_conn_timeout,omitempty" yaml:"idle_conn_timeout,omitempty"`
	Transport           http.RoundTripper `json:"-" yaml:"-"`
}

// ClientMetrics tracks HTTP client performance
type ClientMetrics struct {
	TotalRequests   int64         `json:"total_requests"`
	SuccessfulReqs  int64         `json:"successful_requests"`
	FailedReqs      int64         `json:"failed_requests"`
	AvgLatency      time.Duration `json:"avg_latency"`
	LastRequestTime time.Time     `json:"last_request_time"`
	ResponsesByCode map[int]int64 `json:"responses_by_code"`
}

// NewHTTPClient creates a new HTTP client with common configurations
func NewHTTPClient(config HTTPClientConfig) *HTTPClient {
	if config.Timeout == 0 {
		config.Timeout = 60 * time.Second
	}
	if config.MaxIdleConns == 0 {
		config.MaxIdleConns = 50
	}
	if config.MaxIdleConnsPerHost == 0 {
		config.MaxIdleConnsPerHost = 4
	}
	if config.IdleConnTimeout == 0 {
		config.IdleConnTimeout = 90 * time.Second
	}

	headers := make(map[string]string, len(config.Headers)+2)
	for k, v := range config.Headers {
		headers[k] = v
	}
	if _, ok := headers["Accept"]; !ok {
		headers["Accept"] = "application/json"
	}
	if config.UserAgent != "" {
		headers["User-Agent"] = config.UserAgent
	} else {
		headers["User-Agent"] = DefaultUserAgent
	}
	config.Headers = headers

	transport := config.Transport
	if transport == nil {
		base := http.DefaultTransport.(*http.Transport).Clone()
		base.MaxIdleConns = config.MaxIdleConns
		base.MaxIdleConnsPerHost = config.MaxIdleConnsPerHost
		base.IdleConnTimeout = config.IdleConnTimeout
		transport = base
	}

	return &HTTPClient{
		client: &http.Client{
			Timeout:   config.Timeout,
			Transport: transport,
		},
		config:  config,
		metrics: &ClientMetrics{ResponsesByCode: make(map[int]int64)},
	}
}

// GetJSON issues a GET to rawURL with params merged into its query string and
// decodes a 2xx JSON body into target. A JSON null leaves pointer targets nil.
func (c *HTTPClient) GetJSON(ctx context.Context, rawURL string, params url.Values, target interface{}) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid request URL: %w", err)
	}
	if len(params) > 0 {
		q := u.Query()
		for key, values := range params {
			q.Del(key)
			for _, v := range values {
				q.Add(key, v)
			}
		}
		u.RawQuery = q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.Do(req)
	if err != nil {
		return err
	}
	return ProcessJSONResponse(resp, target)
}

// Do sends the request with the default headers and updates metrics.
// Query strings are stripped from transport error messages so credentials
// passed as parameters never reach the logs.
func (c *HTTPClient) Do(req *http.Request) (*http.Response, error) {
	startTime := time.Now()
	atomic.AddInt64(&c.requestCount, 1)

	for key, value := range c.config.Headers {
		if req.Header.Get(key) == "" {
			req.Header.Set(key, value)
		}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			urlErr.URL = stripQuery(urlErr.URL)
		}
	}

	c.updateMetrics(resp, err, time.Since(startTime))
	return resp, err
}

// updateMetrics updates client metrics after a request
func (c *HTTPClient) updateMetrics(resp *http.Response, err error, latency time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.metrics.LastRequestTime = time.Now()

	if err != nil || resp == nil || resp.StatusCode < 200 || resp.StatusCode > 299 {
		atomic.AddInt64(&c.errorCount, 1)
	} else {
		atomic.AddInt64(&c.successCount, 1)
	}
	if resp != nil {
		c.metrics.ResponsesByCode[resp.StatusCode]++
	}

	atomic.AddInt64(&c.totalLatency, latency.Nanoseconds())
	finished := atomic.LoadInt64(&c.successCount) + atomic.LoadInt64(&c.errorCount)
	c.metrics.AvgLatency = time.Duration(atomic.LoadInt64(&c.totalLatency) / finished)
}

// GetMetrics returns current client metrics
func (c *HTTPClient) GetMetrics() ClientMetrics {
	c.mu.RLock()
	defer c.mu.RUnlock()

	metrics := *c.metrics
	metrics.ResponsesByCode = make(map[int]int64, len(c.metrics.ResponsesByCode))
	for code, n := range c.metrics.ResponsesByCode {
		metrics.ResponsesByCode[code] = n
	}
	metrics.TotalRequests = atomic.LoadInt64(&c.requestCount)
	metrics.SuccessfulReqs = atomic.LoadInt64(&c.successCount)
	metrics.FailedReqs = atomic.LoadInt64(&c.errorCount)

	return metrics
}

// ResetMetrics resets all metrics
func (c *HTTPClient) ResetMetrics() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.metrics = &ClientMetrics{ResponsesByCode: make(map[int]int64)}
	atomic.StoreInt64(&c.requestCount, 0)
	atomic.StoreInt64(&c.successCount, 0)
	atomic.StoreInt64(&c.errorCount, 0)
	atomic.StoreInt64(&c.totalLatency, 0)
}

func stripQuery(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	u.RawQuery = ""
	return u.String()
}
