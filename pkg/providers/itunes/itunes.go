// Package itunes implements the iTunes Search API client used for the
// catalogue search exposed to the player next to video and track search.
package itunes

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/aether-player/media-kit/pkg/pool"
	"github.com/aether-player/media-kit/pkg/providers/common"
	"github.com/aether-player/media-kit/pkg/resolver"
	"github.com/aether-player/media-kit/pkg/types"
)

const (
	SearchFailureMessage = "Could not perform iTunes search."

	DefaultSearchTimeout = 10 * time.Second
	DefaultSearchLimit   = 25
)

// DefaultEndpoints is the public search endpoint
var DefaultEndpoints = []string{"https://itunes.apple.com"}

// Config configures the iTunes client
type Config struct {
	Endpoints     []string
	Country       string
	SearchLimit   int
	SearchTimeout time.Duration
}

type searchResponse struct {
	ResultCount int                `json:"resultCount"`
	Results     []types.ITunesItem `json:"results"`
}

// Client searches the iTunes catalogue
type Client struct {
	cfg    Config
	deps   common.Dependencies
	search *resolver.Resolver[[]types.ITunesItem]
}

// NewClient creates a client; unset config fields take the built-in defaults
func NewClient(cfg Config, deps common.Dependencies) (*Client, error) {
	if len(cfg.Endpoints) == 0 {
		cfg.Endpoints = DefaultEndpoints
	}
	if cfg.SearchLimit <= 0 {
		cfg.SearchLimit = DefaultSearchLimit
	}
	if cfg.SearchTimeout <= 0 {
		cfg.SearchTimeout = DefaultSearchTimeout
	}
	deps = deps.WithDefaults()

	endpoints, err := pool.New("itunes", cfg.Endpoints)
	if err != nil {
		return nil, fmt.Errorf("itunes: %w", err)
	}

	return &Client{
		cfg:  cfg,
		deps: deps,
		search: resolver.New("itunes-search", endpoints, resolver.Options[[]types.ITunesItem]{
			FailureMessage: SearchFailureMessage,
			Timeout:        cfg.SearchTimeout,
			Usable:         resolver.NonEmpty[types.ITunesItem],
			Logger:         deps.Logger,
			Metrics:        deps.Metrics,
		}),
	}, nil
}

// Endpoints returns the endpoint pool in priority order
func (c *Client) Endpoints() []string {
	return c.search.Pool().Descriptors()
}

// LongestWalk is the time a search may take when every endpoint times out
func (c *Client) LongestWalk() time.Duration {
	return time.Duration(len(c.cfg.Endpoints)) * c.cfg.SearchTimeout
}

// Search looks up songs matching query
func (c *Client) Search(ctx context.Context, query string) types.Envelope[[]types.ITunesItem] {
	if common.Blank(query) {
		return types.Failure[[]types.ITunesItem](SearchFailureMessage)
	}
	c.deps.Logger.Printf("[itunes] searching for %q", query)

	params := url.Values{
		"term":   {query},
		"media":  {"music"},
		"entity": {"song"},
		"limit":  {strconv.Itoa(c.cfg.SearchLimit)},
	}
	if c.cfg.Country != "" {
		params.Set("country", c.cfg.Country)
	}

	return c.search.Resolve(ctx, func(ctx context.Context, endpoint string) ([]types.ITunesItem, error) {
		var resp searchResponse
		if err := c.deps.HTTP.GetJSON(ctx, common.JoinURL(endpoint, "/search"), params, &resp); err != nil {
			return nil, err
		}
		return resp.Results, nil
	})
}
