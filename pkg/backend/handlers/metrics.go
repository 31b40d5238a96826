package handlers

import (
	"net/http"
	"runtime"
	"time"

	httpclient "github.com/aether-player/media-kit/pkg/http"
	"github.com/aether-player/media-kit/pkg/media"
	"github.com/aether-player/media-kit/pkg/types"
)

// MetricsHandler handles metrics endpoints
type MetricsHandler struct {
	service   *media.Service
	startTime time.Time
}

// NewMetricsHandler creates a new metrics handler
func NewMetricsHandler(service *media.Service) *MetricsHandler {
	return &MetricsHandler{
		service:   service,
		startTime: time.Now(),
	}
}

// MetricsResponse combines resolution metrics with upstream HTTP client counters
type MetricsResponse struct {
	Resolution *types.MetricsSnapshot   `json:"resolution,omitempty"`
	Upstream   httpclient.ClientMetrics `json:"upstream"`
	System     SystemMetricsResponse    `json:"system"`
}

// SystemMetricsResponse represents system-level metrics
type SystemMetricsResponse struct {
	Uptime          string `json:"uptime"`
	Goroutines      int    `json:"goroutines"`
	MemoryAllocated uint64 `json:"memory_allocated_bytes"`
	NumGC           uint32 `json:"num_gc"`
}

// GetMetrics handles GET /metrics. Descriptors of credential pools appear
// only by label, as recorded by the resolvers.
func (h *MetricsHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	deps := h.service.Dependencies()

	var response MetricsResponse
	if deps.Metrics != nil {
		snapshot := deps.Metrics.GetSnapshot()
		response.Resolution = &snapshot
	}
	if deps.HTTP != nil {
		response.Upstream = deps.HTTP.GetMetrics()
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	response.System = SystemMetricsResponse{
		Uptime:          time.Since(h.startTime).Round(time.Second).String(),
		Goroutines:      runtime.NumGoroutine(),
		MemoryAllocated: m.Alloc,
		NumGC:           m.NumGC,
	}

	SendSuccess(w, r, response)
}
