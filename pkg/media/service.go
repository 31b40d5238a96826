// Package media binds the provider clients into the single service the
// player talks to. Every operation returns an envelope; none of them return
// errors, since an exhausted pool is reported as a failure envelope.
package media

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/aether-player/media-kit/pkg/pool"
	"github.com/aether-player/media-kit/pkg/providers/common"
	"github.com/aether-player/media-kit/pkg/providers/invidious"
	"github.com/aether-player/media-kit/pkg/providers/itunes"
	"github.com/aether-player/media-kit/pkg/providers/soundcloud"
	"github.com/aether-player/media-kit/pkg/types"
)

// Options configures every provider client of a Service
type Options struct {
	YouTube    invidious.Config
	SoundCloud soundcloud.Config
	ITunes     itunes.Config
}

// AggregateResult holds one envelope per provider for a combined search
type AggregateResult struct {
	YouTube    types.Envelope[[]types.Video]      `json:"youtube"`
	SoundCloud types.Envelope[[]types.TrackItem]  `json:"soundcloud"`
	ITunes     types.Envelope[[]types.ITunesItem] `json:"itunes"`
}

// Service exposes the media operations of all providers
type Service struct {
	youtube    *invidious.Client
	soundcloud *soundcloud.Client
	itunes     *itunes.Client
	deps       common.Dependencies
}

// NewService builds the provider clients from opts. All clients share deps,
// so they share one HTTP connection pool and one metrics collector.
func NewService(opts Options, deps common.Dependencies) (*Service, error) {
	deps = deps.WithDefaults()

	yt, err := invidious.NewClient(opts.YouTube, deps)
	if err != nil {
		return nil, fmt.Errorf("failed to create youtube client: %w", err)
	}
	sc, err := soundcloud.NewClient(opts.SoundCloud, deps)
	if err != nil {
		return nil, fmt.Errorf("failed to create soundcloud client: %w", err)
	}
	it, err := itunes.NewClient(opts.ITunes, deps)
	if err != nil {
		return nil, fmt.Errorf("failed to create itunes client: %w", err)
	}

	return &Service{
		youtube:    yt,
		soundcloud: sc,
		itunes:     it,
		deps:       deps,
	}, nil
}

// Dependencies returns the shared collaborators of the provider clients
func (s *Service) Dependencies() common.Dependencies {
	return s.deps
}

// YouTube returns the video provider client
func (s *Service) YouTube() *invidious.Client { return s.youtube }

// SoundCloud returns the track provider client
func (s *Service) SoundCloud() *soundcloud.Client { return s.soundcloud }

// ITunes returns the catalogue provider client
func (s *Service) ITunes() *itunes.Client { return s.itunes }

// LongestWalk is the longest any single operation can run before it returns
// its envelope. SearchAll walks the three pools concurrently, so it is bounded
// by the slowest of them.
func (s *Service) LongestWalk() time.Duration {
	return max(s.youtube.LongestWalk(), s.soundcloud.LongestWalk(), s.itunes.LongestWalk())
}

// SearchVideos searches the video mirrors
func (s *Service) SearchVideos(ctx context.Context, query string) types.Envelope[[]types.Video] {
	return s.youtube.SearchVideos(ctx, query)
}

// GetVideo fetches one video by id
func (s *Service) GetVideo(ctx context.Context, videoID string) types.Envelope[*types.VideoDetail] {
	return s.youtube.GetVideo(ctx, videoID)
}

// SearchTracks searches SoundCloud tracks
func (s *Service) SearchTracks(ctx context.Context, query string) types.Envelope[[]types.TrackItem] {
	return s.soundcloud.SearchTracks(ctx, query)
}

// GetTrack fetches one track by id with its stream URL when available
func (s *Service) GetTrack(ctx context.Context, trackID string) types.Envelope[*types.Track] {
	return s.soundcloud.GetTrack(ctx, trackID)
}

// GetTrackFromURL fetches the track behind a public SoundCloud link
func (s *Service) GetTrackFromURL(ctx context.Context, publicURL string) types.Envelope[*types.Track] {
	return s.soundcloud.GetTrackFromURL(ctx, publicURL)
}

// SearchITunes searches the iTunes catalogue
func (s *Service) SearchITunes(ctx context.Context, query string) types.Envelope[[]types.ITunesItem] {
	return s.itunes.Search(ctx, query)
}

// SearchAll runs the three searches concurrently. Each provider walks its own
// pool in order; a provider that exhausts does not affect the others.
func (s *Service) SearchAll(ctx context.Context, query string) AggregateResult {
	var result AggregateResult

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		result.YouTube = s.youtube.SearchVideos(ctx, query)
		return nil
	})
	g.Go(func() error {
		result.SoundCloud = s.soundcloud.SearchTracks(ctx, query)
		return nil
	})
	g.Go(func() error {
		result.ITunes = s.itunes.Search(ctx, query)
		return nil
	})
	_ = g.Wait()

	return result
}

// RedactCredential replaces the serving credential of a successful envelope
// with its pool position, e.g. "credential#2". Client ids never leave the process.
func RedactCredential[T any](credentials *pool.Pool, env types.Envelope[T]) types.Envelope[T] {
	if !env.Success {
		return env
	}
	label := "credential"
	if i := credentials.IndexOf(env.Instance); i >= 0 {
		label += "#" + strconv.Itoa(i)
	}
	return env.WithInstance(label)
}

// Redacted returns a copy of the result with the SoundCloud credential redacted
func (s *Service) Redacted(result AggregateResult) AggregateResult {
	result.SoundCloud = RedactCredential(s.soundcloud.Credentials(), result.SoundCloud)
	return result
}
