// Package invidious implements the video provider client. Searches and video
// lookups are served by whichever Invidious mirror in the configured pool
// answers first with a usable payload.
package invidious

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/aether-player/media-kit/pkg/pool"
	"github.com/aether-player/media-kit/pkg/providers/common"
	"github.com/aether-player/media-kit/pkg/resolver"
	"github.com/aether-player/media-kit/pkg/types"
)

const (
	// SearchFailureMessage is reported when no mirror returned search results
	SearchFailureMessage = "All video servers unavailable. Try again later."
	// VideoFailureMessage is reported when no mirror returned the video
	VideoFailureMessage = "Could not retrieve item information."

	DefaultSearchTimeout = 10 * time.Second
	DefaultItemTimeout   = 15 * time.Second

	searchPath = "/api/v1/search"
	videosPath = "/api/v1/videos/"
)

// DefaultInstances are the built-in mirrors, most reliable first
var DefaultInstances = []string{
	"https://invidious.fdn.fr",
	"https://yewtu.be",
	"https://inv.riverside.rocks",
	"https://invidious.osi.kr",
	"https://vid.puffyan.us",
	"https://invidious.namazso.eu",
	"https://inv.bp.projectsegfau.lt",
	"https://y.com.sb",
	"https://invidious.privacyredirect.com",
	"https://invidious.snopyta.org",
	"https://yt.artemislena.eu",
	"https://invidious.slipfox.xyz",
	"https://inv.us.projectsegfau.lt",
}

// Config configures the Invidious client
type Config struct {
	Instances     []string
	SearchTimeout time.Duration
	ItemTimeout   time.Duration
}

// Client searches and looks up videos across a pool of mirrors
type Client struct {
	cfg    Config
	deps   common.Dependencies
	search *resolver.Resolver[[]types.Video]
	video  *resolver.Resolver[*types.VideoDetail]
}

// NewClient creates a client; unset config fields take the built-in defaults
func NewClient(cfg Config, deps common.Dependencies) (*Client, error) {
	if len(cfg.Instances) == 0 {
		cfg.Instances = DefaultInstances
	}
	if cfg.SearchTimeout <= 0 {
		cfg.SearchTimeout = DefaultSearchTimeout
	}
	if cfg.ItemTimeout <= 0 {
		cfg.ItemTimeout = DefaultItemTimeout
	}
	deps = deps.WithDefaults()

	instances, err := pool.New("invidious", cfg.Instances)
	if err != nil {
		return nil, fmt.Errorf("invidious: %w", err)
	}

	return &Client{
		cfg:  cfg,
		deps: deps,
		search: resolver.New("youtube-search", instances, resolver.Options[[]types.Video]{
			FailureMessage: SearchFailureMessage,
			Timeout:        cfg.SearchTimeout,
			Usable:         resolver.NonEmpty[types.Video],
			Logger:         deps.Logger,
			Metrics:        deps.Metrics,
		}),
		video: resolver.New("youtube-video", instances, resolver.Options[*types.VideoDetail]{
			FailureMessage: VideoFailureMessage,
			Timeout:        cfg.ItemTimeout,
			Usable:         resolver.NonNil[types.VideoDetail],
			Logger:         deps.Logger,
			Metrics:        deps.Metrics,
		}),
	}, nil
}

// Instances returns the mirror pool in priority order
func (c *Client) Instances() []string {
	return c.search.Pool().Descriptors()
}

// LongestWalk is the time an operation may take when every mirror times out
func (c *Client) LongestWalk() time.Duration {
	return time.Duration(len(c.cfg.Instances)) * max(c.cfg.SearchTimeout, c.cfg.ItemTimeout)
}

// SearchVideos searches for videos, reporting which mirror answered
func (c *Client) SearchVideos(ctx context.Context, query string) types.Envelope[[]types.Video] {
	if common.Blank(query) {
		return types.Failure[[]types.Video](SearchFailureMessage)
	}
	c.deps.Logger.Printf("[invidious] searching videos for %q", query)

	params := url.Values{
		"q":    {query},
		"type": {"video"},
	}
	return c.search.Resolve(ctx, func(ctx context.Context, instance string) ([]types.Video, error) {
		var videos []types.Video
		if err := c.deps.HTTP.GetJSON(ctx, common.JoinURL(instance, searchPath), params, &videos); err != nil {
			return nil, err
		}
		return videos, nil
	})
}

// GetVideo fetches the full video object by id
func (c *Client) GetVideo(ctx context.Context, videoID string) types.Envelope[*types.VideoDetail] {
	videoID = strings.TrimSpace(videoID)
	if videoID == "" {
		return types.Failure[*types.VideoDetail](VideoFailureMessage)
	}
	c.deps.Logger.Printf("[invidious] getting video info for %s", videoID)

	path := videosPath + url.PathEscape(videoID)
	return c.video.Resolve(ctx, func(ctx context.Context, instance string) (*types.VideoDetail, error) {
		var detail *types.VideoDetail
		if err := c.deps.HTTP.GetJSON(ctx, common.JoinURL(instance, path), nil, &detail); err != nil {
			return nil, err
		}
		return detail, nil
	})
}
