package soundcloud

import "github.com/aether-player/media-kit/pkg/types"

// searchResponse is the /search/tracks envelope. A missing collection decodes to nil.
type searchResponse struct {
	Collection []types.TrackItem `json:"collection"`
	TotalCount int               `json:"total_results,omitempty"`
	NextHref   string            `json:"next_href,omitempty"`
}

// resolveResponse is the subset of /resolve needed to locate the track
type resolveResponse struct {
	ID   int64  `json:"id"`
	Kind string `json:"kind"`
}

// streamResponse is returned by a transcoding URL
type streamResponse struct {
	URL string `json:"url"`
}
