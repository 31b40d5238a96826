package types

import (
	"bytes"
	"encoding/json"
	"errors"
)

// Upstream objects are kept byte for byte as the provider sent them. Each
// type embeds a small view with the fields this module reads; the view is
// decoded leniently and never replaces the original object on output.

// keep decodes data into view and returns a private copy of data.
// Type mismatches only leave the affected view fields empty.
func keep(data []byte, view any) (json.RawMessage, error) {
	if err := json.Unmarshal(data, view); err != nil {
		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &typeErr) {
			return nil, err
		}
	}
	return bytes.Clone(data), nil
}

// emit returns the kept object, or the view for values built in code
func emit(raw json.RawMessage, view any) ([]byte, error) {
	if raw != nil {
		return raw, nil
	}
	return json.Marshal(view)
}

// VideoView is the part of an Invidious video object this module reads
type VideoView struct {
	VideoID       string `json:"videoId"`
	Title         string `json:"title"`
	Author        string `json:"author,omitempty"`
	LengthSeconds int    `json:"lengthSeconds,omitempty"`
}

// Video is a single Invidious search result
type Video struct {
	VideoView
	raw json.RawMessage
}

func (v *Video) UnmarshalJSON(data []byte) error {
	var err error
	v.raw, err = keep(data, &v.VideoView)
	return err
}

func (v Video) MarshalJSON() ([]byte, error) {
	return emit(v.raw, v.VideoView)
}

// FormatStream is a muxed or adaptive stream offered by an Invidious instance
type FormatStream struct {
	URL     string `json:"url"`
	Itag    string `json:"itag,omitempty"`
	Type    string `json:"type,omitempty"`
	Quality string `json:"quality,omitempty"`
}

// VideoDetailView is the part of an Invidious video detail this module reads
type VideoDetailView struct {
	VideoView
	HLSURL          string         `json:"hlsUrl,omitempty"`
	FormatStreams   []FormatStream `json:"formatStreams,omitempty"`
	AdaptiveFormats []FormatStream `json:"adaptiveFormats,omitempty"`
}

// VideoDetail is the full Invidious video object
type VideoDetail struct {
	VideoDetailView
	raw json.RawMessage
}

func (v *VideoDetail) UnmarshalJSON(data []byte) error {
	var err error
	v.raw, err = keep(data, &v.VideoDetailView)
	return err
}

func (v VideoDetail) MarshalJSON() ([]byte, error) {
	return emit(v.raw, v.VideoDetailView)
}

// TranscodingFormat describes how a transcoding is delivered
type TranscodingFormat struct {
	Protocol string `json:"protocol"`
	MimeType string `json:"mime_type,omitempty"`
}

// Transcoding is one encoded representation of a SoundCloud track.
// Its URL points at an API endpoint that yields the direct stream location.
type Transcoding struct {
	URL    string             `json:"url"`
	Format *TranscodingFormat `json:"format,omitempty"`
}

// TrackMedia groups the transcodings of a track
type TrackMedia struct {
	Transcodings []Transcoding `json:"transcodings"`
}

// TrackUser is the uploader of a track
type TrackUser struct {
	Username string `json:"username"`
}

// TrackView is the part of a SoundCloud track object this module reads
type TrackView struct {
	ID       int64       `json:"id"`
	Title    string      `json:"title"`
	Duration int64       `json:"duration,omitempty"`
	User     *TrackUser  `json:"user,omitempty"`
	Media    *TrackMedia `json:"media,omitempty"`
}

// TrackItem is a SoundCloud track as listed by search
type TrackItem struct {
	TrackView
	raw json.RawMessage
}

func (t *TrackItem) UnmarshalJSON(data []byte) error {
	var err error
	t.raw, err = keep(data, &t.TrackView)
	return err
}

func (t TrackItem) MarshalJSON() ([]byte, error) {
	return emit(t.raw, t.TrackView)
}

// Track is a looked-up SoundCloud track. StreamURL is filled by the
// enrichment step only; any stream_url sent upstream is replaced, and the
// field is serialized as null when no direct stream could be materialized.
type Track struct {
	TrackItem
	StreamURL *string
}

func (t Track) MarshalJSON() ([]byte, error) {
	streamURL, err := json.Marshal(t.StreamURL)
	if err != nil {
		return nil, err
	}

	fields := map[string]json.RawMessage{}
	if t.raw == nil || json.Unmarshal(t.raw, &fields) != nil || fields == nil {
		view, err := json.Marshal(t.TrackView)
		if err != nil {
			return nil, err
		}
		fields = map[string]json.RawMessage{}
		if err := json.Unmarshal(view, &fields); err != nil {
			return nil, err
		}
	}
	fields["stream_url"] = streamURL
	return json.Marshal(fields)
}

// ProgressiveTranscoding returns the first transcoding delivered over the
// progressive protocol, or nil when the track has none.
func (t *Track) ProgressiveTranscoding() *Transcoding {
	if t == nil || t.Media == nil {
		return nil
	}
	for i := range t.Media.Transcodings {
		tc := &t.Media.Transcodings[i]
		if tc.Format != nil && tc.Format.Protocol == ProtocolProgressive {
			return tc
		}
	}
	return nil
}

// ProtocolProgressive is the transcoding protocol convertible to a direct stream URL
const ProtocolProgressive = "progressive"

// ITunesView is the part of an iTunes Search API result this module reads
type ITunesView struct {
	TrackID         int64  `json:"trackId"`
	TrackName       string `json:"trackName"`
	ArtistName      string `json:"artistName"`
	CollectionName  string `json:"collectionName,omitempty"`
	PreviewURL      string `json:"previewUrl,omitempty"`
	TrackTimeMillis int64  `json:"trackTimeMillis,omitempty"`
}

// ITunesItem is a single iTunes Search API result
type ITunesItem struct {
	ITunesView
	raw json.RawMessage
}

func (it *ITunesItem) UnmarshalJSON(data []byte) error {
	var err error
	it.raw, err = keep(data, &it.ITunesView)
	return err
}

func (it ITunesItem) MarshalJSON() ([]byte, error) {
	return emit(it.raw, it.ITunesView)
}
