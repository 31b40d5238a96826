// Package metrics collects resolution metrics: how often each resolver ran,
// which descriptors served or failed, and how long attempts took.
package metrics

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aether-player/media-kit/pkg/types"
)

// DefaultMetricsCollector is the default implementation of types.MetricsCollector.
// It provides thread-safe metrics collection with support for subscriptions.
type DefaultMetricsCollector struct {
	mu sync.RWMutex

	totalResolutions atomic.Int64
	totalResolved    atomic.Int64
	totalExhausted   atomic.Int64

	resolvers map[string]*resolverMetrics

	subscriptions map[string]*subscription
	nextSubID     atomic.Int64

	closed atomic.Bool
}

// resolverMetrics holds per-resolver aggregated metrics
type resolverMetrics struct {
	mu sync.Mutex

	name        string
	resolutions int64
	resolved    int64
	exhausted   int64
	enrichments int64
	descriptors map[string]*types.DescriptorMetrics

	latencyHistogram *Histogram
	lastUpdated      time.Time
}

// NewDefaultMetricsCollector creates an empty collector
func NewDefaultMetricsCollector() *DefaultMetricsCollector {
	return &DefaultMetricsCollector{
		resolvers:     make(map[string]*resolverMetrics),
		subscriptions: make(map[string]*subscription),
	}
}

// RecordEvent updates counters for the event and publishes it to subscribers
func (c *DefaultMetricsCollector) RecordEvent(ctx context.Context, event types.MetricEvent) error {
	if c.closed.Load() {
		return fmt.Errorf("collector is closed")
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	switch event.Type {
	case types.MetricEventRequest:
		c.totalResolutions.Add(1)
	case types.MetricEventResolved:
		c.totalResolved.Add(1)
	case types.MetricEventExhausted:
		c.totalExhausted.Add(1)
	}

	c.resolverFor(event.Resolver).record(event)
	c.publishToSubscriptions(event)

	return nil
}

// GetSnapshot returns a point-in-time copy of all metrics
func (c *DefaultMetricsCollector) GetSnapshot() types.MetricsSnapshot {
	c.mu.RLock()
	resolvers := make([]*resolverMetrics, 0, len(c.resolvers))
	for _, rm := range c.resolvers {
		resolvers = append(resolvers, rm)
	}
	c.mu.RUnlock()

	snapshot := types.MetricsSnapshot{
		TotalResolutions: c.totalResolutions.Load(),
		TotalResolved:    c.totalResolved.Load(),
		TotalExhausted:   c.totalExhausted.Load(),
		Resolvers:        make(map[string]*types.ResolverMetricsSnapshot, len(resolvers)),
		Timestamp:        time.Now(),
	}
	for _, rm := range resolvers {
		snapshot.Resolvers[rm.name] = rm.snapshot()
	}
	return snapshot
}

// GetResolverMetrics returns metrics for one resolver, or nil if it never reported
func (c *DefaultMetricsCollector) GetResolverMetrics(resolver string) *types.ResolverMetricsSnapshot {
	c.mu.RLock()
	rm, ok := c.resolvers[resolver]
	c.mu.RUnlock()
	if !ok {
		return nil
	}
	return rm.snapshot()
}

// Subscribe creates a subscription receiving every event
func (c *DefaultMetricsCollector) Subscribe(bufferSize int) types.MetricsSubscription {
	return c.SubscribeFiltered(bufferSize, types.MetricFilter{})
}

// SubscribeFiltered creates a subscription receiving only events matching filter
func (c *DefaultMetricsCollector) SubscribeFiltered(bufferSize int, filter types.MetricFilter) types.MetricsSubscription {
	if c.closed.Load() {
		sub := &subscription{
			id:     fmt.Sprintf("sub-closed-%d", c.nextSubID.Add(1)),
			events: make(chan types.MetricEvent),
		}
		sub.closed.Store(true)
		close(sub.events)
		return sub
	}

	id := fmt.Sprintf("sub-%d", c.nextSubID.Add(1))
	sub := &subscription{
		id:        id,
		events:    make(chan types.MetricEvent, bufferSize),
		filter:    filter,
		collector: c,
	}

	c.mu.Lock()
	c.subscriptions[id] = sub
	c.mu.Unlock()

	return sub
}

// Close closes all subscriptions; later events are rejected
func (c *DefaultMetricsCollector) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, sub := range c.subscriptions {
		sub.shutdown()
	}
	c.subscriptions = make(map[string]*subscription)

	return nil
}

func (c *DefaultMetricsCollector) resolverFor(name string) *resolverMetrics {
	c.mu.RLock()
	rm, ok := c.resolvers[name]
	c.mu.RUnlock()
	if ok {
		return rm
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if rm, ok = c.resolvers[name]; ok {
		return rm
	}
	rm = &resolverMetrics{
		name:             name,
		descriptors:      make(map[string]*types.DescriptorMetrics),
		latencyHistogram: NewHistogram(1000),
	}
	c.resolvers[name] = rm
	return rm
}

func (c *DefaultMetricsCollector) publishToSubscriptions(event types.MetricEvent) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, sub := range c.subscriptions {
		sub.publish(event)
	}
}

func (rm *resolverMetrics) record(event types.MetricEvent) {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	rm.lastUpdated = event.Timestamp

	switch event.Type {
	case types.MetricEventRequest:
		rm.resolutions++
	case types.MetricEventResolved:
		rm.resolved++
		d := rm.descriptor(event.Descriptor)
		d.Attempts++
		d.Served++
		rm.latencyHistogram.Add(event.Latency)
	case types.MetricEventAttemptFailed:
		d := rm.descriptor(event.Descriptor)
		d.Attempts++
		d.Failed++
		rm.latencyHistogram.Add(event.Latency)
	case types.MetricEventAttemptUnusable:
		d := rm.descriptor(event.Descriptor)
		d.Attempts++
		d.Unusable++
		rm.latencyHistogram.Add(event.Latency)
	case types.MetricEventExhausted:
		rm.exhausted++
	case types.MetricEventEnrichment:
		rm.enrichments++
	}
}

func (rm *resolverMetrics) descriptor(name string) *types.DescriptorMetrics {
	d, ok := rm.descriptors[name]
	if !ok {
		d = &types.DescriptorMetrics{}
		rm.descriptors[name] = d
	}
	return d
}

func (rm *resolverMetrics) snapshot() *types.ResolverMetricsSnapshot {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	descriptors := make(map[string]*types.DescriptorMetrics, len(rm.descriptors))
	for name, d := range rm.descriptors {
		copied := *d
		descriptors[name] = &copied
	}

	return &types.ResolverMetricsSnapshot{
		Resolver:    rm.name,
		Resolutions: rm.resolutions,
		Resolved:    rm.resolved,
		Exhausted:   rm.exhausted,
		Enrichments: rm.enrichments,
		Latency:     rm.latencyHistogram.GetLatencyMetrics(),
		Descriptors: descriptors,
		LastUpdated: rm.lastUpdated,
	}
}
