package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/aether-player/media-kit/pkg/media"
	"github.com/aether-player/media-kit/pkg/types"
)

// renderer prints results for a terminal. Colors are dropped automatically
// when the output is not a terminal.
type renderer struct {
	w io.Writer

	heading lipgloss.Style
	title   lipgloss.Style
	muted   lipgloss.Style
	success lipgloss.Style
	danger  lipgloss.Style
	accent  lipgloss.Style
}

func newRenderer(w io.Writer) *renderer {
	r := lipgloss.NewRenderer(w)
	return &renderer{
		w:       w,
		heading: r.NewStyle().Bold(true).Foreground(lipgloss.Color("#7aa2f7")),
		title:   r.NewStyle().Bold(true),
		muted:   r.NewStyle().Foreground(lipgloss.Color("#737aa2")),
		success: r.NewStyle().Foreground(lipgloss.Color("#9ece6a")),
		danger:  r.NewStyle().Foreground(lipgloss.Color("#f7768e")).Bold(true),
		accent:  r.NewStyle().Foreground(lipgloss.Color("#bb9af7")),
	}
}

func (r *renderer) render(value interface{}) {
	switch v := value.(type) {
	case types.Envelope[[]types.Video]:
		r.section("YouTube", v.Success, v.Instance, v.Error, func() { r.videos(v.Data) })
	case types.Envelope[*types.VideoDetail]:
		r.section("YouTube", v.Success, v.Instance, v.Error, func() { r.video(v.Data) })
	case types.Envelope[[]types.TrackItem]:
		r.section("SoundCloud", v.Success, v.Instance, v.Error, func() { r.tracks(v.Data) })
	case types.Envelope[*types.Track]:
		r.section("SoundCloud", v.Success, v.Instance, v.Error, func() { r.track(v.Data) })
	case types.Envelope[[]types.ITunesItem]:
		r.section("iTunes", v.Success, v.Instance, v.Error, func() { r.items(v.Data) })
	case media.AggregateResult:
		r.render(v.YouTube)
		fmt.Fprintln(r.w)
		r.render(v.SoundCloud)
		fmt.Fprintln(r.w)
		r.render(v.ITunes)
	default:
		fmt.Fprintf(r.w, "%v\n", v)
	}
}

func (r *renderer) section(name string, ok bool, instance, errMsg string, body func()) {
	if !ok {
		fmt.Fprintf(r.w, "%s %s\n", r.heading.Render(name), r.danger.Render(errMsg))
		return
	}
	fmt.Fprintf(r.w, "%s %s\n", r.heading.Render(name), r.muted.Render("via "+instance))
	body()
}

func (r *renderer) videos(videos []types.Video) {
	if len(videos) == 0 {
		fmt.Fprintln(r.w, r.muted.Render("  no results"))
		return
	}
	for _, v := range videos {
		fmt.Fprintf(r.w, "  %s %s\n", r.title.Render(v.Title), r.muted.Render(join(v.Author, clock(int64(v.LengthSeconds)))))
		fmt.Fprintf(r.w, "    %s\n", r.accent.Render(v.VideoID))
	}
}

func (r *renderer) video(v *types.VideoDetail) {
	fmt.Fprintf(r.w, "  %s %s\n", r.title.Render(v.Title), r.muted.Render(join(v.Author, clock(int64(v.LengthSeconds)))))
	if v.HLSURL != "" {
		fmt.Fprintf(r.w, "  hls  %s\n", r.accent.Render(v.HLSURL))
	}
	fmt.Fprintf(r.w, "  %s\n", r.muted.Render(fmt.Sprintf("%d muxed, %d adaptive formats", len(v.FormatStreams), len(v.AdaptiveFormats))))
}

func (r *renderer) tracks(tracks []types.TrackItem) {
	if len(tracks) == 0 {
		fmt.Fprintln(r.w, r.muted.Render("  no results"))
		return
	}
	for _, t := range tracks {
		fmt.Fprintf(r.w, "  %s %s\n", r.title.Render(t.Title), r.muted.Render(join(uploader(t.TrackView), clock(t.Duration/1000))))
		fmt.Fprintf(r.w, "    %s\n", r.accent.Render(fmt.Sprintf("%d", t.ID)))
	}
}

func (r *renderer) track(t *types.Track) {
	fmt.Fprintf(r.w, "  %s %s\n", r.title.Render(t.Title), r.muted.Render(join(uploader(t.TrackView), clock(t.Duration/1000))))
	if t.StreamURL != nil {
		fmt.Fprintf(r.w, "  stream  %s\n", r.success.Render(*t.StreamURL))
	} else {
		fmt.Fprintf(r.w, "  %s\n", r.muted.Render("no direct stream"))
	}
}

func (r *renderer) items(items []types.ITunesItem) {
	if len(items) == 0 {
		fmt.Fprintln(r.w, r.muted.Render("  no results"))
		return
	}
	for _, it := range items {
		fmt.Fprintf(r.w, "  %s %s\n", r.title.Render(it.TrackName), r.muted.Render(join(it.ArtistName, it.CollectionName, clock(it.TrackTimeMillis/1000))))
		if it.PreviewURL != "" {
			fmt.Fprintf(r.w, "    %s\n", r.accent.Render(it.PreviewURL))
		}
	}
}

func uploader(t types.TrackView) string {
	if t.User == nil {
		return ""
	}
	return t.User.Username
}

// clock formats seconds as m:ss or h:mm:ss; zero yields ""
func clock(seconds int64) string {
	if seconds <= 0 {
		return ""
	}
	h, m, s := seconds/3600, seconds/60%60, seconds%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

func join(parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " · ")
}
