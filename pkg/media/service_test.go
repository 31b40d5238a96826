package media

import (
	"context"
	"io"
	"log"
	"net/http"
	"testing"

	"github.com/aether-player/media-kit/internal/testutil"
	"github.com/aether-player/media-kit/pkg/metrics"
	"github.com/aether-player/media-kit/pkg/pool"
	"github.com/aether-player/media-kit/pkg/providers/common"
	"github.com/aether-player/media-kit/pkg/providers/invidious"
	"github.com/aether-player/media-kit/pkg/providers/itunes"
	"github.com/aether-player/media-kit/pkg/providers/soundcloud"
	"github.com/aether-player/media-kit/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	service   *Service
	mirror    *testutil.Upstream
	api       *testutil.Upstream
	catalogue *testutil.Upstream
	collector *metrics.DefaultMetricsCollector
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		mirror:    testutil.NewUpstream(t, "mirror", nil),
		api:       testutil.NewUpstream(t, "api", nil),
		catalogue: testutil.NewUpstream(t, "catalogue", nil),
		collector: metrics.NewDefaultMetricsCollector(),
	}
	t.Cleanup(func() { _ = f.collector.Close() })

	svc, err := NewService(Options{
		YouTube:    invidious.Config{Instances: []string{testutil.ClosedURL(t), f.mirror.URL}},
		SoundCloud: soundcloud.Config{APIBase: f.api.URL, ClientIDs: []string{"a", "b"}},
		ITunes:     itunes.Config{Endpoints: []string{f.catalogue.URL}},
	}, common.Dependencies{Logger: log.New(io.Discard, "", 0), Metrics: f.collector})
	require.NoError(t, err)
	f.service = svc
	return f
}

func TestNewService_RejectsBadPools(t *testing.T) {
	deps := common.Dependencies{Logger: log.New(io.Discard, "", 0)}

	_, err := NewService(Options{YouTube: invidious.Config{Instances: []string{""}}}, deps)
	assert.ErrorContains(t, err, "youtube")

	_, err = NewService(Options{SoundCloud: soundcloud.Config{ClientIDs: []string{" "}}}, deps)
	assert.ErrorContains(t, err, "soundcloud")

	_, err = NewService(Options{ITunes: itunes.Config{Endpoints: []string{""}}}, deps)
	assert.ErrorContains(t, err, "itunes")
}

func TestNewService_Defaults(t *testing.T) {
	svc, err := NewService(Options{}, common.Dependencies{})
	require.NoError(t, err)

	assert.Equal(t, invidious.DefaultInstances, svc.YouTube().Instances())
	assert.Equal(t, soundcloud.DefaultClientIDs, svc.SoundCloud().Credentials().Descriptors())
	assert.NotNil(t, svc.Dependencies().HTTP)
	assert.NotNil(t, svc.Dependencies().Logger)
}

func TestSearchAll(t *testing.T) {
	f := newFixture(t)
	f.mirror.Handle("/api/v1/search", testutil.Raw(http.StatusOK, `[{"videoId":"v1","title":"Video"}]`))
	f.api.Handle("/search/tracks", testutil.ByQuery("client_id", map[string]http.HandlerFunc{
		"b": testutil.Raw(http.StatusOK, `{"collection":[{"id":9,"title":"Track"}]}`),
	}))
	f.catalogue.Handle("/search", testutil.Raw(http.StatusOK, `{"results":[]}`))

	result := f.service.SearchAll(context.Background(), "query")

	require.True(t, result.YouTube.Success)
	assert.Equal(t, f.mirror.URL, result.YouTube.Instance)
	assert.Equal(t, "v1", result.YouTube.Data[0].VideoID)

	require.True(t, result.SoundCloud.Success)
	assert.Equal(t, "b", result.SoundCloud.Instance)
	assert.Equal(t, int64(9), result.SoundCloud.Data[0].ID)

	assert.False(t, result.ITunes.Success)
	assert.Equal(t, itunes.SearchFailureMessage, result.ITunes.Error)

	snapshot := f.collector.GetSnapshot()
	assert.Equal(t, int64(3), snapshot.TotalResolutions)
	assert.Equal(t, int64(2), snapshot.TotalResolved)
	assert.Equal(t, int64(1), snapshot.TotalExhausted)
}

func TestSearchAll_AllExhausted(t *testing.T) {
	f := newFixture(t)

	result := f.service.SearchAll(context.Background(), "query")

	assert.Equal(t, invidious.SearchFailureMessage, result.YouTube.Error)
	assert.Equal(t, soundcloud.SearchFailureMessage, result.SoundCloud.Error)
	assert.Equal(t, itunes.SearchFailureMessage, result.ITunes.Error)
}

func TestForwardedOperations(t *testing.T) {
	f := newFixture(t)
	f.mirror.Handle("/api/v1/videos/v1", testutil.Raw(http.StatusOK, `{"videoId":"v1","title":"Video"}`))
	f.api.Handle("/tracks/5", testutil.Raw(http.StatusOK, `{"id":5,"title":"Five"}`))
	f.api.Handle("/resolve", testutil.Raw(http.StatusOK, `{"id":5}`))
	f.catalogue.Handle("/search", testutil.Raw(http.StatusOK, `{"results":[{"trackId":1}]}`))
	ctx := context.Background()

	video := f.service.GetVideo(ctx, "v1")
	require.True(t, video.Success)
	assert.Equal(t, "Video", video.Data.Title)

	track := f.service.GetTrack(ctx, "5")
	require.True(t, track.Success)
	assert.Equal(t, "a", track.Instance)
	assert.Nil(t, track.Data.StreamURL)

	linked := f.service.GetTrackFromURL(ctx, "https://soundcloud.com/x/five")
	require.True(t, linked.Success)
	assert.Equal(t, "Five", linked.Data.Title)

	items := f.service.SearchITunes(ctx, "x")
	require.True(t, items.Success)

	assert.False(t, f.service.SearchVideos(ctx, "").Success)
	assert.False(t, f.service.SearchTracks(ctx, "").Success)
}

func TestRedactCredential(t *testing.T) {
	creds := pool.MustNew("soundcloud", []string{"a", "b"})

	assert.Equal(t, "credential#1", RedactCredential(creds, types.Success(1, "b")).Instance)
	assert.Equal(t, "credential", RedactCredential(creds, types.Success(1, "unknown")).Instance)
	assert.Equal(t, types.Failure[int]("x"), RedactCredential(creds, types.Failure[int]("x")))
}

func TestRedacted(t *testing.T) {
	f := newFixture(t)
	f.api.Handle("/search/tracks", testutil.Raw(http.StatusOK, `{"collection":[]}`))

	result := f.service.Redacted(f.service.SearchAll(context.Background(), "q"))

	assert.Equal(t, "credential#0", result.SoundCloud.Instance)
	assert.False(t, result.YouTube.Success)
}
