package handlers

import (
	"net/http"

	"github.com/aether-player/media-kit/pkg/media"
	"github.com/aether-player/media-kit/pkg/types"
)

// MediaHandler serves the media operations
type MediaHandler struct {
	service *media.Service
}

// NewMediaHandler creates a media handler over service
func NewMediaHandler(service *media.Service) *MediaHandler {
	return &MediaHandler{service: service}
}

// SearchVideos handles GET /api/youtube/search?q=
func (h *MediaHandler) SearchVideos(w http.ResponseWriter, r *http.Request) {
	query, ok := RequireQuery(w, r, "q")
	if !ok {
		return
	}
	SendResult(w, h.service.SearchVideos(r.Context(), query))
}

// GetVideo handles GET /api/youtube/videos/{id}
func (h *MediaHandler) GetVideo(w http.ResponseWriter, r *http.Request) {
	SendResult(w, h.service.GetVideo(r.Context(), r.PathValue("id")))
}

// SearchTracks handles GET /api/soundcloud/search?q=
func (h *MediaHandler) SearchTracks(w http.ResponseWriter, r *http.Request) {
	query, ok := RequireQuery(w, r, "q")
	if !ok {
		return
	}
	SendResult(w, h.redact(h.service.SearchTracks(r.Context(), query)))
}

// GetTrack handles GET /api/soundcloud/tracks/{id}
func (h *MediaHandler) GetTrack(w http.ResponseWriter, r *http.Request) {
	SendResult(w, h.redactTrack(h.service.GetTrack(r.Context(), r.PathValue("id"))))
}

// ResolveTrack handles GET /api/soundcloud/resolve?url=
func (h *MediaHandler) ResolveTrack(w http.ResponseWriter, r *http.Request) {
	link, ok := RequireQuery(w, r, "url")
	if !ok {
		return
	}
	SendResult(w, h.redactTrack(h.service.GetTrackFromURL(r.Context(), link)))
}

// SearchITunes handles GET /api/itunes/search?q=
func (h *MediaHandler) SearchITunes(w http.ResponseWriter, r *http.Request) {
	query, ok := RequireQuery(w, r, "q")
	if !ok {
		return
	}
	SendResult(w, h.service.SearchITunes(r.Context(), query))
}

// SearchAll handles GET /api/search?q=
func (h *MediaHandler) SearchAll(w http.ResponseWriter, r *http.Request) {
	query, ok := RequireQuery(w, r, "q")
	if !ok {
		return
	}
	SendResult(w, h.service.Redacted(h.service.SearchAll(r.Context(), query)))
}

func (h *MediaHandler) redact(env types.Envelope[[]types.TrackItem]) types.Envelope[[]types.TrackItem] {
	return media.RedactCredential(h.service.SoundCloud().Credentials(), env)
}

func (h *MediaHandler) redactTrack(env types.Envelope[*types.Track]) types.Envelope[*types.Track] {
	return media.RedactCredential(h.service.SoundCloud().Credentials(), env)
}
