package types

import "context"

// MetricsCollector receives resolution events and serves aggregated snapshots.
//
// Thread-safety: All methods are safe for concurrent use by multiple goroutines.
//
// Usage patterns:
//  1. Polling: call GetSnapshot() or GetResolverMetrics() periodically
//  2. Streaming: Subscribe() to receive events via a channel
type MetricsCollector interface {
	// RecordEvent records a single event. Recording never blocks on subscribers.
	RecordEvent(ctx context.Context, event MetricEvent) error

	// GetSnapshot returns a point-in-time copy of all metrics.
	GetSnapshot() MetricsSnapshot

	// GetResolverMetrics returns metrics for one resolver, or nil if unknown.
	GetResolverMetrics(resolver string) *ResolverMetricsSnapshot

	// Subscribe creates a subscription receiving every event.
	// The subscriber must keep reading; events are dropped when the buffer is full.
	Subscribe(bufferSize int) MetricsSubscription

	// SubscribeFiltered creates a subscription receiving only matching events.
	SubscribeFiltered(bufferSize int, filter MetricFilter) MetricsSubscription

	// Close releases all subscriptions. Further events are ignored.
	Close() error
}

// MetricsSubscription is a live feed of metric events
type MetricsSubscription interface {
	Events() <-chan MetricEvent
	Unsubscribe()
	ID() string
	OverflowCount() int64
}
