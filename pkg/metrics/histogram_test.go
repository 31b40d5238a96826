package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewHistogram(t *testing.T) {
	h := NewHistogram(100)
	assert.NotNil(t, h)
	assert.Equal(t, 100, h.capacity)

	h2 := NewHistogram(0)
	assert.Equal(t, 1000, h2.capacity)
}

func TestHistogramAdd(t *testing.T) {
	h := NewHistogram(10)

	h.Add(100 * time.Millisecond)
	h.Add(200 * time.Millisecond)
	h.Add(150 * time.Millisecond)

	m := h.GetLatencyMetrics()
	assert.Equal(t, int64(3), m.TotalRequests)
	assert.Equal(t, 450*time.Millisecond, m.TotalLatency)
	assert.Equal(t, 150*time.Millisecond, m.AverageLatency)
	assert.Equal(t, 100*time.Millisecond, m.MinLatency)
	assert.Equal(t, 200*time.Millisecond, m.MaxLatency)
	assert.Equal(t, 150*time.Millisecond, m.P50Latency)
}

func TestHistogramPercentiles(t *testing.T) {
	h := NewHistogram(1000)
	for i := 1; i <= 100; i++ {
		h.Add(time.Duration(i) * time.Millisecond)
	}

	m := h.GetLatencyMetrics()
	assert.Greater(t, m.P50Latency, 40*time.Millisecond)
	assert.Less(t, m.P50Latency, 60*time.Millisecond)
	assert.Greater(t, m.P90Latency, 85*time.Millisecond)
	assert.Less(t, m.P90Latency, 95*time.Millisecond)
	assert.Greater(t, m.P99Latency, 95*time.Millisecond)
}

func TestHistogramWrapsAround(t *testing.T) {
	h := NewHistogram(3)
	for i := 1; i <= 5; i++ {
		h.Add(time.Duration(i) * time.Second)
	}

	m := h.GetLatencyMetrics()
	assert.Equal(t, int64(5), m.TotalRequests)
	assert.Equal(t, time.Second, m.MinLatency)
	assert.Equal(t, 5*time.Second, m.MaxLatency)
	// Only the last three samples (3s, 4s, 5s) remain for percentiles
	assert.Equal(t, 4*time.Second, m.P50Latency)
}

func TestHistogramEmptyAndReset(t *testing.T) {
	h := NewHistogram(10)
	assert.Zero(t, h.GetLatencyMetrics().TotalRequests)

	h.Add(time.Second)
	h.Reset()
	assert.Zero(t, h.GetLatencyMetrics().TotalRequests)
}
