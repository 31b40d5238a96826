package metrics

import (
	"sync"
	"sync/atomic"

	"github.com/aether-player/media-kit/pkg/types"
)

// subscription implements types.MetricsSubscription
type subscription struct {
	id            string
	events        chan types.MetricEvent
	filter        types.MetricFilter
	overflowCount atomic.Int64
	collector     *DefaultMetricsCollector
	closed        atomic.Bool
	mu            sync.Mutex
}

// Events returns the channel for receiving metrics events
func (s *subscription) Events() <-chan types.MetricEvent {
	return s.events
}

// Unsubscribe stops event delivery and closes the channel
func (s *subscription) Unsubscribe() {
	if s.collector != nil {
		s.collector.mu.Lock()
		delete(s.collector.subscriptions, s.id)
		s.collector.mu.Unlock()
	}
	s.shutdown()
}

// ID returns the unique identifier for this subscription
func (s *subscription) ID() string {
	return s.id
}

// OverflowCount returns the number of events dropped due to buffer overflow
func (s *subscription) OverflowCount() int64 {
	return s.overflowCount.Load()
}

// publish sends an event without blocking; a full buffer drops the event
func (s *subscription) publish(event types.MetricEvent) {
	if !s.filter.Matches(event) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed.Load() {
		return
	}

	select {
	case s.events <- event:
	default:
		s.overflowCount.Add(1)
	}
}

func (s *subscription) shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed.CompareAndSwap(false, true) {
		close(s.events)
	}
}
