// Command aether runs the media kit: either the local JSON bridge for the
// player, or a single media operation printed to the terminal.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/aether-player/media-kit/pkg/backend"
	"github.com/aether-player/media-kit/pkg/config"
	httpclient "github.com/aether-player/media-kit/pkg/http"
	"github.com/aether-player/media-kit/pkg/media"
	"github.com/aether-player/media-kit/pkg/metrics"
	"github.com/aether-player/media-kit/pkg/providers/common"
)

const (
	exitOK      = 0
	exitStartup = 1
	exitUsage   = 2
	exitFailed  = 3
)

const usage = `usage: aether [-config path] [-json] [-verbose] <command> [argument]

commands:
  serve                    run the local JSON bridge
  youtube-search QUERY     search videos
  youtube-video ID         video details
  soundcloud-search QUERY  search tracks
  soundcloud-track ID      track details with stream url
  soundcloud-resolve URL   track behind a public link
  itunes-search QUERY      search the iTunes catalogue
  search QUERY             search every provider
`

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	cancel()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("aether", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { fmt.Fprint(stderr, usage) }
	configPath := fs.String("config", "", "config file (.yaml or .toml); defaults to $"+config.EnvConfigPath)
	jsonOut := fs.Bool("json", false, "print the raw result envelope as JSON")
	verbose := fs.Bool("verbose", false, "trace every resolution attempt on stderr")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	command := fs.Arg(0)
	if command == "" {
		fs.Usage()
		return exitUsage
	}
	op, known := operations[command]
	if command == "serve" {
		if fs.NArg() != 1 {
			fmt.Fprintln(stderr, "aether: serve takes no arguments")
			return exitUsage
		}
	} else {
		if !known {
			fmt.Fprintf(stderr, "aether: unknown command %q\n", command)
			fs.Usage()
			return exitUsage
		}
		if fs.NArg() != 2 {
			fmt.Fprintf(stderr, "aether: %s takes exactly one argument\n", command)
			return exitUsage
		}
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "aether: %v\n", err)
		return exitStartup
	}

	logger := log.New(stderr, "", log.LstdFlags)
	if cfg.Logging.Quiet() {
		logger = log.New(io.Discard, "", 0)
	}

	collector := metrics.NewDefaultMetricsCollector()
	defer collector.Close()

	service, err := media.NewService(cfg.MediaOptions(), common.Dependencies{
		HTTP:    httpclient.NewHTTPClient(cfg.HTTPClient()),
		Logger:  logger,
		Metrics: collector,
	})
	if err != nil {
		fmt.Fprintf(stderr, "aether: %v\n", err)
		return exitStartup
	}

	if command == "serve" {
		server := backend.NewServer(cfg.Backend(), service, logger)
		if err := server.ListenAndServeWithGracefulShutdown(ctx.Done()); err != nil {
			fmt.Fprintf(stderr, "aether: %v\n", err)
			return exitStartup
		}
		return exitOK
	}

	var stopTrace func()
	if *verbose {
		stopTrace = traceResolution(collector, stderr)
	}
	result := op(ctx, service, fs.Arg(1))
	if stopTrace != nil {
		stopTrace()
	}

	if *jsonOut {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result.value); err != nil {
			fmt.Fprintf(stderr, "aether: %v\n", err)
			return exitStartup
		}
		return exitOK
	}

	newRenderer(stdout).render(result.value)
	if !result.ok {
		return exitFailed
	}
	return exitOK
}
