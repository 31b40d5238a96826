// Package soundcloud implements the track provider client. Every operation
// walks a pool of public client ids in fixed order. Track lookups add a
// best-effort enrichment step that turns the progressive transcoding into a
// direct stream URL without ever failing the lookup itself.
package soundcloud

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/aether-player/media-kit/pkg/pool"
	"github.com/aether-player/media-kit/pkg/providers/common"
	"github.com/aether-player/media-kit/pkg/resolver"
	"github.com/aether-player/media-kit/pkg/types"
)

const (
	SearchFailureMessage = "Could not perform search."
	TrackFailureMessage  = "Could not retrieve track information."
	URLFailureMessage    = "Could not retrieve track by link."

	DefaultAPIBase       = "https://api-v2.soundcloud.com"
	DefaultSearchLimit   = 15
	DefaultSearchTimeout = 10 * time.Second
	DefaultItemTimeout   = 15 * time.Second
	DefaultStreamTimeout = 10 * time.Second
)

// DefaultClientIDs are the built-in public client ids in attempt order
var DefaultClientIDs = []string{
	"YUKXoArFcqrlQn9tfNHvvyfnDISj04zk",
	"iZIs9mchVcX5lhVRyQGGAYlNPVldzAoX",
	"fDoItMDbsbZz8dY16ZzARCZmzgHBPotA",
	"a3e059563d7fd3372b49b37f00a00bcf",
	"ghKDhOLRourkeyzWu92cHFyJxNIuWyaP",
	"px0SDWermclW4QKDyhQZGhPRdp0zXkkJ",
}

// Config configures the SoundCloud client
type Config struct {
	APIBase       string
	ClientIDs     []string
	SearchLimit   int
	SearchTimeout time.Duration
	ItemTimeout   time.Duration
	StreamTimeout time.Duration
}

// Client searches and looks up tracks with credential fallback
type Client struct {
	apiBase string
	cfg     Config
	deps    common.Dependencies

	search *resolver.Resolver[[]types.TrackItem]
	track  *resolver.Resolver[*types.Track]
	byURL  *resolver.Resolver[*types.Track]
}

// NewClient creates a client; unset config fields take the built-in defaults
func NewClient(cfg Config, deps common.Dependencies) (*Client, error) {
	if cfg.APIBase == "" {
		cfg.APIBase = DefaultAPIBase
	}
	if len(cfg.ClientIDs) == 0 {
		cfg.ClientIDs = DefaultClientIDs
	}
	if cfg.SearchLimit <= 0 {
		cfg.SearchLimit = DefaultSearchLimit
	}
	if cfg.SearchTimeout <= 0 {
		cfg.SearchTimeout = DefaultSearchTimeout
	}
	if cfg.ItemTimeout <= 0 {
		cfg.ItemTimeout = DefaultItemTimeout
	}
	if cfg.StreamTimeout <= 0 {
		cfg.StreamTimeout = DefaultStreamTimeout
	}
	deps = deps.WithDefaults()

	credentials, err := pool.New("soundcloud", cfg.ClientIDs)
	if err != nil {
		return nil, fmt.Errorf("soundcloud: %w", err)
	}

	return &Client{
		apiBase: strings.TrimRight(cfg.APIBase, "/"),
		cfg:     cfg,
		deps:    deps,
		search: resolver.New("soundcloud-search", credentials, resolver.Options[[]types.TrackItem]{
			FailureMessage:    SearchFailureMessage,
			Timeout:           cfg.SearchTimeout,
			Usable:            resolver.Present[types.TrackItem],
			RedactDescriptors: true,
			Logger:            deps.Logger,
			Metrics:           deps.Metrics,
		}),
		track: resolver.New("soundcloud-track", credentials, resolver.Options[*types.Track]{
			FailureMessage:    TrackFailureMessage,
			Timeout:           cfg.ItemTimeout,
			Usable:            resolver.NonNil[types.Track],
			RedactDescriptors: true,
			Logger:            deps.Logger,
			Metrics:           deps.Metrics,
		}),
		// Each step of a link resolution applies its own timeout.
		byURL: resolver.New("soundcloud-url", credentials, resolver.Options[*types.Track]{
			FailureMessage:    URLFailureMessage,
			Usable:            resolver.NonNil[types.Track],
			RedactDescriptors: true,
			Logger:            deps.Logger,
			Metrics:           deps.Metrics,
		}),
	}, nil
}

// Credentials returns the credential pool
func (c *Client) Credentials() *pool.Pool {
	return c.track.Pool()
}

// LongestWalk is the time an operation may take when every credential times
// out. A link lookup spends up to two item timeouts per credential, and a
// served track adds the stream step.
func (c *Client) LongestWalk() time.Duration {
	perCredential := max(c.cfg.SearchTimeout, 2*c.cfg.ItemTimeout)
	return time.Duration(len(c.cfg.ClientIDs))*perCredential + c.cfg.StreamTimeout
}

// SearchTracks searches for at most SearchLimit tracks
func (c *Client) SearchTracks(ctx context.Context, query string) types.Envelope[[]types.TrackItem] {
	if common.Blank(query) {
		return types.Failure[[]types.TrackItem](SearchFailureMessage)
	}
	c.deps.Logger.Printf("[soundcloud] searching tracks for %q", query)

	return c.search.Resolve(ctx, func(ctx context.Context, clientID string) ([]types.TrackItem, error) {
		params := url.Values{
			"q":         {query},
			"client_id": {clientID},
			"limit":     {strconv.Itoa(c.cfg.SearchLimit)},
		}
		var resp searchResponse
		if err := c.deps.HTTP.GetJSON(ctx, c.apiBase+"/search/tracks", params, &resp); err != nil {
			return nil, err
		}
		c.deps.Logger.Printf("[soundcloud] found %d results", len(resp.Collection))
		return resp.Collection, nil
	})
}

// GetTrack fetches a track by id, then tries to attach its direct stream URL
func (c *Client) GetTrack(ctx context.Context, trackID string) types.Envelope[*types.Track] {
	trackID = strings.TrimSpace(trackID)
	if trackID == "" {
		return types.Failure[*types.Track](TrackFailureMessage)
	}
	c.deps.Logger.Printf("[soundcloud] getting track info for %s", trackID)

	env := c.track.Resolve(ctx, func(ctx context.Context, clientID string) (*types.Track, error) {
		return c.fetchTrack(ctx, clientID, trackID)
	})
	if env.Success {
		c.enrich(ctx, env.Instance, env.Data)
	}
	return env
}

// GetTrackFromURL resolves a public track link with one credential at a time:
// resolve the link to an id, then fetch that track with the same credential.
// A link that does not resolve moves on to the next credential.
func (c *Client) GetTrackFromURL(ctx context.Context, publicURL string) types.Envelope[*types.Track] {
	publicURL = strings.TrimSpace(publicURL)
	if publicURL == "" {
		return types.Failure[*types.Track](URLFailureMessage)
	}
	c.deps.Logger.Printf("[soundcloud] getting track from url %s", publicURL)

	env := c.byURL.Resolve(ctx, func(ctx context.Context, clientID string) (*types.Track, error) {
		trackID, err := c.resolveID(ctx, clientID, publicURL)
		if err != nil {
			return nil, err
		}
		return c.fetchTrack(ctx, clientID, trackID)
	})
	if env.Success {
		c.enrich(ctx, env.Instance, env.Data)
	}
	return env
}
