package types

import "time"

// MetricEventType identifies what happened during a resolution
type MetricEventType string

const (
	MetricEventRequest         MetricEventType = "request"
	MetricEventAttemptFailed   MetricEventType = "attempt_failed"
	MetricEventAttemptUnusable MetricEventType = "attempt_unusable"
	MetricEventResolved        MetricEventType = "resolved"
	MetricEventExhausted       MetricEventType = "exhausted"
	MetricEventEnrichment      MetricEventType = "enrichment"
)

// MetricEvent is emitted by resolvers and provider clients for every step of a resolution
type MetricEvent struct {
	Type          MetricEventType `json:"type"`
	Resolver      string          `json:"resolver"`
	Descriptor    string          `json:"descriptor,omitempty"`
	AttemptNumber int             `json:"attempt_number,omitempty"`
	Latency       time.Duration   `json:"latency,omitempty"`
	ErrorCode     ErrorCode       `json:"error_code,omitempty"`
	ErrorMessage  string          `json:"error_message,omitempty"`
	Timestamp     time.Time       `json:"timestamp"`
}

// MetricFilter selects events for a subscription. Empty fields match everything.
type MetricFilter struct {
	Resolvers  []string
	EventTypes []MetricEventType
}

// Matches reports whether the event passes the filter
func (f MetricFilter) Matches(event MetricEvent) bool {
	if len(f.Resolvers) > 0 && !containsString(f.Resolvers, event.Resolver) {
		return false
	}
	if len(f.EventTypes) > 0 {
		found := false
		for _, t := range f.EventTypes {
			if t == event.Type {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// LatencyMetrics summarizes attempt latencies
type LatencyMetrics struct {
	TotalRequests  int64         `json:"total_requests"`
	TotalLatency   time.Duration `json:"total_latency"`
	AverageLatency time.Duration `json:"average_latency"`
	MinLatency     time.Duration `json:"min_latency"`
	MaxLatency     time.Duration `json:"max_latency"`
	P50Latency     time.Duration `json:"p50_latency"`
	P90Latency     time.Duration `json:"p90_latency"`
	P99Latency     time.Duration `json:"p99_latency"`
	LastUpdated    time.Time     `json:"last_updated"`
}

// DescriptorMetrics counts attempts against a single descriptor of one resolver
type DescriptorMetrics struct {
	Attempts int64 `json:"attempts"`
	Served   int64 `json:"served"`
	Failed   int64 `json:"failed"`
	Unusable int64 `json:"unusable"`
}

// ResolverMetricsSnapshot is a point-in-time copy of one resolver's counters
type ResolverMetricsSnapshot struct {
	Resolver    string                        `json:"resolver"`
	Resolutions int64                         `json:"resolutions"`
	Resolved    int64                         `json:"resolved"`
	Exhausted   int64                         `json:"exhausted"`
	Enrichments int64                         `json:"enrichments"`
	Latency     LatencyMetrics                `json:"latency"`
	Descriptors map[string]*DescriptorMetrics `json:"descriptors"`
	LastUpdated time.Time                     `json:"last_updated"`
}

// MetricsSnapshot is a point-in-time copy of every tracked resolver
type MetricsSnapshot struct {
	TotalResolutions int64                               `json:"total_resolutions"`
	TotalResolved    int64                               `json:"total_resolved"`
	TotalExhausted   int64                               `json:"total_exhausted"`
	Resolvers        map[string]*ResolverMetricsSnapshot `json:"resolvers"`
	Timestamp        time.Time                           `json:"timestamp"`
}
