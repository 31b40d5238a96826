package metrics

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aether-player/media-kit/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(t *testing.T, c *DefaultMetricsCollector, events ...types.MetricEvent) {
	t.Helper()
	for _, e := range events {
		require.NoError(t, c.RecordEvent(context.Background(), e))
	}
}

func TestCollector_FallbackResolution(t *testing.T) {
	c := NewDefaultMetricsCollector()
	defer c.Close()

	record(t, c,
		types.MetricEvent{Type: types.MetricEventRequest, Resolver: "youtube-search"},
		types.MetricEvent{Type: types.MetricEventAttemptFailed, Resolver: "youtube-search", Descriptor: "http://x", Latency: 10 * time.Millisecond},
		types.MetricEvent{Type: types.MetricEventAttemptUnusable, Resolver: "youtube-search", Descriptor: "http://y", Latency: 20 * time.Millisecond},
		types.MetricEvent{Type: types.MetricEventResolved, Resolver: "youtube-search", Descriptor: "http://z", Latency: 30 * time.Millisecond},
	)

	snapshot := c.GetSnapshot()
	assert.Equal(t, int64(1), snapshot.TotalResolutions)
	assert.Equal(t, int64(1), snapshot.TotalResolved)
	assert.Zero(t, snapshot.TotalExhausted)

	rm := c.GetResolverMetrics("youtube-search")
	require.NotNil(t, rm)
	assert.Equal(t, int64(1), rm.Resolutions)
	assert.Equal(t, int64(1), rm.Descriptors["http://x"].Failed)
	assert.Equal(t, int64(1), rm.Descriptors["http://y"].Unusable)
	assert.Equal(t, int64(1), rm.Descriptors["http://z"].Served)
	assert.Equal(t, int64(3), rm.Latency.TotalRequests)
}

func TestCollector_Exhaustion(t *testing.T) {
	c := NewDefaultMetricsCollector()
	defer c.Close()

	record(t, c,
		types.MetricEvent{Type: types.MetricEventRequest, Resolver: "soundcloud-track"},
		types.MetricEvent{Type: types.MetricEventAttemptFailed, Resolver: "soundcloud-track", Descriptor: "soundcloud#0"},
		types.MetricEvent{Type: types.MetricEventExhausted, Resolver: "soundcloud-track"},
	)

	assert.Equal(t, int64(1), c.GetSnapshot().TotalExhausted)
	assert.Equal(t, int64(1), c.GetResolverMetrics("soundcloud-track").Exhausted)
	assert.Nil(t, c.GetResolverMetrics("unknown"))
}

func TestCollector_SnapshotIsCopy(t *testing.T) {
	c := NewDefaultMetricsCollector()
	defer c.Close()

	record(t, c, types.MetricEvent{Type: types.MetricEventResolved, Resolver: "r", Descriptor: "d"})

	rm := c.GetResolverMetrics("r")
	rm.Descriptors["d"].Served = 99

	assert.Equal(t, int64(1), c.GetResolverMetrics("r").Descriptors["d"].Served)
}

func TestCollector_Subscribe(t *testing.T) {
	c := NewDefaultMetricsCollector()
	defer c.Close()

	sub := c.SubscribeFiltered(10, types.MetricFilter{EventTypes: []types.MetricEventType{types.MetricEventResolved}})
	defer sub.Unsubscribe()

	record(t, c,
		types.MetricEvent{Type: types.MetricEventRequest, Resolver: "r"},
		types.MetricEvent{Type: types.MetricEventResolved, Resolver: "r", Descriptor: "d"},
	)

	select {
	case event := <-sub.Events():
		assert.Equal(t, types.MetricEventResolved, event.Type)
		assert.False(t, event.Timestamp.IsZero())
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for event")
	}

	select {
	case event := <-sub.Events():
		t.Fatalf("unexpected event %v", event.Type)
	default:
	}
}

func TestCollector_SubscriptionOverflow(t *testing.T) {
	c := NewDefaultMetricsCollector()
	defer c.Close()

	sub := c.Subscribe(1)
	record(t, c,
		types.MetricEvent{Type: types.MetricEventRequest, Resolver: "r"},
		types.MetricEvent{Type: types.MetricEventRequest, Resolver: "r"},
		types.MetricEvent{Type: types.MetricEventRequest, Resolver: "r"},
	)

	assert.Equal(t, int64(2), sub.OverflowCount())
	sub.Unsubscribe()
	sub.Unsubscribe()

	_, open := <-sub.Events()
	assert.True(t, open, "buffered event should still be readable")
	_, open = <-sub.Events()
	assert.False(t, open)
}

func TestCollector_Close(t *testing.T) {
	c := NewDefaultMetricsCollector()
	sub := c.Subscribe(1)

	require.NoError(t, c.Close())
	require.NoError(t, c.Close())

	_, open := <-sub.Events()
	assert.False(t, open)

	assert.Error(t, c.RecordEvent(context.Background(), types.MetricEvent{Type: types.MetricEventRequest}))

	late := c.Subscribe(1)
	_, open = <-late.Events()
	assert.False(t, open)
}

func TestCollector_CancelledContext(t *testing.T) {
	c := NewDefaultMetricsCollector()
	defer c.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, c.RecordEvent(ctx, types.MetricEvent{Type: types.MetricEventRequest}), context.Canceled)
}

func TestCollector_Concurrent(t *testing.T) {
	c := NewDefaultMetricsCollector()
	defer c.Close()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = c.RecordEvent(context.Background(), types.MetricEvent{Type: types.MetricEventRequest, Resolver: "r"})
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(20), c.GetSnapshot().TotalResolutions)
}
