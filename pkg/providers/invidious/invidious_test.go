package invidious

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"testing"
	"time"

	"github.com/aether-player/media-kit/internal/testutil"
	"github.com/aether-player/media-kit/pkg/metrics"
	"github.com/aether-player/media-kit/pkg/providers/common"
	"github.com/aether-player/media-kit/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, cfg Config) *Client {
	t.Helper()
	client, err := NewClient(cfg, common.Dependencies{Logger: log.New(io.Discard, "", 0)})
	require.NoError(t, err)
	return client
}

func TestNewClient_Defaults(t *testing.T) {
	client := newTestClient(t, Config{})
	instances := client.Instances()

	require.Len(t, instances, 13)
	assert.Equal(t, "https://invidious.fdn.fr", instances[0])
	assert.Equal(t, "https://inv.us.projectsegfau.lt", instances[12])
}

func TestNewClient_RejectsBlankInstance(t *testing.T) {
	_, err := NewClient(Config{Instances: []string{"https://a", " "}}, common.Dependencies{})
	assert.Error(t, err)
}

func TestSearchVideos_FallsBackPastDeadAndEmptyMirrors(t *testing.T) {
	rec := &testutil.Recorder{}
	empty := testutil.NewUpstream(t, "empty", rec).
		Handle(searchPath, testutil.Raw(http.StatusOK, `[]`))
	good := testutil.NewUpstream(t, "good", rec).
		Handle(searchPath, testutil.Raw(http.StatusOK, `[{"videoId":"v1","title":"Test"}]`))
	unused := testutil.NewUpstream(t, "unused", rec).
		Handle(searchPath, testutil.Raw(http.StatusOK, `[{"videoId":"v2"}]`))

	client := newTestClient(t, Config{
		Instances: []string{testutil.ClosedURL(t), empty.URL, good.URL, unused.URL},
	})

	env := client.SearchVideos(context.Background(), "test")

	require.True(t, env.Success)
	assert.Equal(t, good.URL, env.Instance)
	require.Len(t, env.Data, 1)
	assert.Equal(t, "v1", env.Data[0].VideoID)
	assert.Equal(t, []string{"empty", "good"}, rec.Servers())

	query := rec.Calls()[1].Query
	assert.Equal(t, "test", query.Get("q"))
	assert.Equal(t, "video", query.Get("type"))
}

func TestSearchVideos_ConnectionRefusedScenario(t *testing.T) {
	y := testutil.NewUpstream(t, "y", nil).
		Handle(searchPath, testutil.Raw(http.StatusOK, `[{"id":"v1"}]`))

	client := newTestClient(t, Config{Instances: []string{testutil.ClosedURL(t), y.URL}})
	env := client.SearchVideos(context.Background(), "test")

	require.True(t, env.Success)
	assert.Equal(t, y.URL, env.Instance)
	assert.Empty(t, env.Error)

	raw, err := json.Marshal(env)
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":true,"data":[{"id":"v1"}],"instance":"`+y.URL+`"}`, string(raw))
}

func TestSearchVideos_ReturnsMirrorItemsWhole(t *testing.T) {
	body := `[{"type":"video","videoId":"v1","title":"T","authorThumbnails":[{"url":"a","width":32}],"viewCountText":"1K","lengthSeconds":61}]`
	up := testutil.NewUpstream(t, "up", nil).Handle(searchPath, testutil.Raw(http.StatusOK, body))

	client := newTestClient(t, Config{Instances: []string{up.URL}})
	env := client.SearchVideos(context.Background(), "test")

	require.True(t, env.Success)
	assert.Equal(t, 61, env.Data[0].LengthSeconds)
	raw, err := json.Marshal(env.Data)
	require.NoError(t, err)
	assert.JSONEq(t, body, string(raw))
}

func TestSearchVideos_AllMirrorsFail(t *testing.T) {
	rec := &testutil.Recorder{}
	down := testutil.NewUpstream(t, "down", rec).
		Handle(searchPath, testutil.Raw(http.StatusBadGateway, "bad gateway"))
	garbage := testutil.NewUpstream(t, "garbage", rec).
		Handle(searchPath, testutil.Raw(http.StatusOK, "<html>blocked</html>"))
	empty := testutil.NewUpstream(t, "empty", rec).
		Handle(searchPath, testutil.Raw(http.StatusOK, "[]"))

	client := newTestClient(t, Config{Instances: []string{down.URL, garbage.URL, empty.URL}})
	env := client.SearchVideos(context.Background(), "test")

	assert.False(t, env.Success)
	assert.Equal(t, SearchFailureMessage, env.Error)
	assert.Equal(t, []string{"down", "garbage", "empty"}, rec.Servers())
}

func TestSearchVideos_SlowMirrorTimesOut(t *testing.T) {
	rec := &testutil.Recorder{}
	slow := testutil.NewUpstream(t, "slow", rec).Handle(searchPath, testutil.Hang())
	fast := testutil.NewUpstream(t, "fast", rec).
		Handle(searchPath, testutil.Raw(http.StatusOK, `[{"videoId":"v1"}]`))

	client := newTestClient(t, Config{
		Instances:     []string{slow.URL, fast.URL},
		SearchTimeout: 100 * time.Millisecond,
	})

	start := time.Now()
	env := client.SearchVideos(context.Background(), "test")

	require.True(t, env.Success)
	assert.Equal(t, fast.URL, env.Instance)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestSearchVideos_BlankQuery(t *testing.T) {
	rec := &testutil.Recorder{}
	up := testutil.NewUpstream(t, "up", rec)

	client := newTestClient(t, Config{Instances: []string{up.URL}})
	env := client.SearchVideos(context.Background(), "   ")

	assert.False(t, env.Success)
	assert.Equal(t, SearchFailureMessage, env.Error)
	assert.Empty(t, rec.Calls())
}

func TestGetVideo(t *testing.T) {
	rec := &testutil.Recorder{}
	nullBody := testutil.NewUpstream(t, "null", rec).
		Handle(videosPath+"abc123", testutil.Raw(http.StatusOK, "null"))
	missing := testutil.NewUpstream(t, "missing", rec)
	body := `{"videoId":"abc123","title":"A video","lengthSeconds":212,"hlsUrl":"https://good/hls.m3u8",` +
		`"formatStreams":[{"url":"https://good/stream","itag":"18","fps":30}],"recommendedVideos":[{"videoId":"next"}],"isFamilyFriendly":true}`
	good := testutil.NewUpstream(t, "good", rec).
		Handle(videosPath+"abc123", testutil.Raw(http.StatusOK, body))

	collector := metrics.NewDefaultMetricsCollector()
	defer collector.Close()

	client, err := NewClient(Config{Instances: []string{nullBody.URL, missing.URL, good.URL}},
		common.Dependencies{Logger: log.New(io.Discard, "", 0), Metrics: collector})
	require.NoError(t, err)

	env := client.GetVideo(context.Background(), "abc123")

	require.True(t, env.Success)
	assert.Equal(t, good.URL, env.Instance)
	assert.Equal(t, "A video", env.Data.Title)
	assert.Equal(t, 212, env.Data.LengthSeconds)
	assert.Equal(t, "https://good/hls.m3u8", env.Data.HLSURL)
	require.Len(t, env.Data.FormatStreams, 1)
	assert.Equal(t, []string{"null", "missing", "good"}, rec.Servers())

	raw, err := json.Marshal(env.Data)
	require.NoError(t, err)
	assert.JSONEq(t, body, string(raw))

	rm := collector.GetResolverMetrics("youtube-video")
	require.NotNil(t, rm)
	assert.Equal(t, int64(1), rm.Descriptors[nullBody.URL].Unusable)
	assert.Equal(t, int64(1), rm.Descriptors[missing.URL].Failed)
	assert.Equal(t, int64(1), rm.Descriptors[good.URL].Served)
}

func TestGetVideo_EscapesID(t *testing.T) {
	rec := &testutil.Recorder{}
	up := testutil.NewUpstream(t, "up", rec)

	client := newTestClient(t, Config{Instances: []string{up.URL}})
	env := client.GetVideo(context.Background(), "a b/c")

	assert.False(t, env.Success)
	assert.Equal(t, VideoFailureMessage, env.Error)
	require.Len(t, rec.Calls(), 1)
	assert.Equal(t, videosPath+"a b/c", rec.Calls()[0].Path)
}

func TestGetVideo_Exhausted(t *testing.T) {
	client := newTestClient(t, Config{Instances: []string{testutil.ClosedURL(t), testutil.ClosedURL(t)}})
	env := client.GetVideo(context.Background(), "abc")

	assert.Equal(t, types.Envelope[*types.VideoDetail]{Error: VideoFailureMessage}, env)
}
