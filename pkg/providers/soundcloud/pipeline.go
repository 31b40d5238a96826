package soundcloud

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/aether-player/media-kit/pkg/types"
)

// resolveID turns a public link into a track id. No id means the attempt failed.
func (c *Client) resolveID(ctx context.Context, clientID, publicURL string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.ItemTimeout)
	defer cancel()

	params := url.Values{
		"url":       {publicURL},
		"client_id": {clientID},
	}
	var resp *resolveResponse
	if err := c.deps.HTTP.GetJSON(ctx, c.apiBase+"/resolve", params, &resp); err != nil {
		return "", err
	}
	if resp == nil || resp.ID == 0 {
		return "", fmt.Errorf("resolve returned no id: %w", types.ErrUnusable)
	}

	c.deps.Logger.Printf("[soundcloud] resolved to track id %d", resp.ID)
	return strconv.FormatInt(resp.ID, 10), nil
}

// fetchTrack loads full track metadata. Decoding never sets StreamURL;
// that is the enrichment step's job.
func (c *Client) fetchTrack(ctx context.Context, clientID, trackID string) (*types.Track, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.ItemTimeout)
	defer cancel()

	params := url.Values{"client_id": {clientID}}
	var track *types.Track
	if err := c.deps.HTTP.GetJSON(ctx, c.apiBase+"/tracks/"+url.PathEscape(trackID), params, &track); err != nil {
		return nil, err
	}
	return track, nil
}

// enrich attaches the direct stream URL of the progressive transcoding.
// It uses the credential that served the track and never falls back to
// another one; any failure just leaves StreamURL nil.
func (c *Client) enrich(ctx context.Context, clientID string, track *types.Track) {
	if track == nil {
		return
	}
	start := time.Now()

	streamURL, err := c.materialize(ctx, clientID, track)
	event := types.MetricEvent{
		Type:      types.MetricEventEnrichment,
		Resolver:  "soundcloud-stream",
		Latency:   time.Since(start),
		Timestamp: time.Now(),
	}
	if err != nil {
		c.deps.Logger.Printf("[soundcloud] stream url unavailable for track %d: %v", track.ID, err)
		event.ErrorCode = types.ClassifyError(err)
		event.ErrorMessage = err.Error()
	} else {
		track.StreamURL = &streamURL
	}

	if c.deps.Metrics != nil {
		_ = c.deps.Metrics.RecordEvent(context.WithoutCancel(ctx), event)
	}
}

// materialize selects the progressive transcoding and asks its endpoint for the stream location
func (c *Client) materialize(ctx context.Context, clientID string, track *types.Track) (string, error) {
	transcoding := track.ProgressiveTranscoding()
	if transcoding == nil {
		return "", fmt.Errorf("no %s transcoding: %w", types.ProtocolProgressive, types.ErrUnusable)
	}
	if transcoding.URL == "" {
		return "", fmt.Errorf("%s transcoding has no url: %w", types.ProtocolProgressive, types.ErrUnusable)
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.StreamTimeout)
	defer cancel()

	var resp *streamResponse
	params := url.Values{"client_id": {clientID}}
	if err := c.deps.HTTP.GetJSON(ctx, transcoding.URL, params, &resp); err != nil {
		return "", err
	}
	if resp == nil || resp.URL == "" {
		return "", fmt.Errorf("stream endpoint returned no url: %w", types.ErrUnusable)
	}
	return resp.URL, nil
}
