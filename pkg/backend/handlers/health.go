package handlers

import (
	"net/http"
	"time"

	"github.com/aether-player/media-kit/pkg/backendtypes"
	"github.com/aether-player/media-kit/pkg/media"
	"github.com/aether-player/media-kit/pkg/types"
)

type HealthHandler struct {
	service   *media.Service
	version   string
	startTime time.Time
}

func NewHealthHandler(service *media.Service, version string) *HealthHandler {
	return &HealthHandler{
		service:   service,
		version:   version,
		startTime: time.Now(),
	}
}

// Health returns liveness, version, uptime and a per-provider summary.
// Pools are never probed; resolved/exhausted counts come from metrics.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	var snapshot types.MetricsSnapshot
	if collector := h.service.Dependencies().Metrics; collector != nil {
		snapshot = collector.GetSnapshot()
	}

	providers := map[string]backendtypes.ProviderHealth{
		"youtube": providerHealth(snapshot, len(h.service.YouTube().Instances()),
			"youtube-search", "youtube-video"),
		"soundcloud": providerHealth(snapshot, h.service.SoundCloud().Credentials().Len(),
			"soundcloud-search", "soundcloud-track", "soundcloud-url"),
		"itunes": providerHealth(snapshot, len(h.service.ITunes().Endpoints()),
			"itunes-search"),
	}

	SendSuccess(w, r, backendtypes.HealthResponse{
		Status:    "healthy",
		Version:   h.version,
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Providers: providers,
	})
}

// Version returns version information
func (h *HealthHandler) Version(w http.ResponseWriter, r *http.Request) {
	SendSuccess(w, r, map[string]string{
		"version": h.version,
	})
}

func providerHealth(snapshot types.MetricsSnapshot, poolSize int, resolvers ...string) backendtypes.ProviderHealth {
	health := backendtypes.ProviderHealth{Status: "configured", PoolSize: poolSize}
	for _, name := range resolvers {
		if rm, ok := snapshot.Resolvers[name]; ok {
			health.Resolved += rm.Resolved
			health.Exhausted += rm.Exhausted
		}
	}
	switch {
	case health.Resolved > 0:
		health.Status = "ok"
	case health.Exhausted > 0:
		health.Status = "degraded"
	}
	return health
}
