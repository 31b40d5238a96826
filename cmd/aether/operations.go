package main

import (
	"context"

	"github.com/aether-player/media-kit/pkg/media"
)

// outcome is the printable result of one operation. ok is false when the
// operation reported failure; for a combined search, when every provider did.
type outcome struct {
	value interface{}
	ok    bool
}

type operation func(ctx context.Context, s *media.Service, arg string) outcome

var operations = map[string]operation{
	"youtube-search": func(ctx context.Context, s *media.Service, q string) outcome {
		env := s.SearchVideos(ctx, q)
		return outcome{env, env.Success}
	},
	"youtube-video": func(ctx context.Context, s *media.Service, id string) outcome {
		env := s.GetVideo(ctx, id)
		return outcome{env, env.Success}
	},
	"soundcloud-search": func(ctx context.Context, s *media.Service, q string) outcome {
		env := media.RedactCredential(s.SoundCloud().Credentials(), s.SearchTracks(ctx, q))
		return outcome{env, env.Success}
	},
	"soundcloud-track": func(ctx context.Context, s *media.Service, id string) outcome {
		env := media.RedactCredential(s.SoundCloud().Credentials(), s.GetTrack(ctx, id))
		return outcome{env, env.Success}
	},
	"soundcloud-resolve": func(ctx context.Context, s *media.Service, link string) outcome {
		env := media.RedactCredential(s.SoundCloud().Credentials(), s.GetTrackFromURL(ctx, link))
		return outcome{env, env.Success}
	},
	"itunes-search": func(ctx context.Context, s *media.Service, q string) outcome {
		env := s.SearchITunes(ctx, q)
		return outcome{env, env.Success}
	},
	"search": func(ctx context.Context, s *media.Service, q string) outcome {
		result := s.Redacted(s.SearchAll(ctx, q))
		ok := result.YouTube.Success || result.SoundCloud.Success || result.ITunes.Success
		return outcome{result, ok}
	},
}
