// Package backend provides the local JSON bridge that exposes the media
// operations to the player over HTTP on localhost.
//
// # Architecture
//
//   - handlers: media endpoints plus /health and /metrics
//   - middleware: request IDs, access logging, panic recovery, CORS and an inbound rate limit
//
// Media endpoints answer 200 with the operation's envelope, including failure
// envelopes. SoundCloud credentials are reported by pool position only.
//
// # Example
//
//	cfg, _ := config.Load("")
//	service, _ := media.NewService(cfg.MediaOptions(), deps)
//	server := backend.NewServer(cfg.Backend(), service, nil)
//	server.Start()
package backend
