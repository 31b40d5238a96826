package backend

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/aether-player/media-kit/pkg/backend/handlers"
	"github.com/aether-player/media-kit/pkg/backend/middleware"
	"github.com/aether-player/media-kit/pkg/backendtypes"
	"github.com/aether-player/media-kit/pkg/media"
)

// Server is the local JSON bridge in front of a media.Service
type Server struct {
	config     backendtypes.BackendConfig
	httpServer *http.Server
	service    *media.Service
	mux        *http.ServeMux
	limiter    *rate.Limiter
	logger     *log.Logger

	mu     sync.Mutex
	closed bool
}

// NewServer creates a bridge server. A nil logger uses the standard logger.
func NewServer(config backendtypes.BackendConfig, service *media.Service, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		config:  config,
		service: service,
		mux:     http.NewServeMux(),
		limiter: middleware.NewLimiter(config.RateLimit),
		logger:  logger,
	}

	s.setupRoutes()

	return s
}

// setupRoutes registers all HTTP routes with their corresponding handlers
func (s *Server) setupRoutes() {
	healthHandler := handlers.NewHealthHandler(s.service, s.config.Server.Version)
	metricsHandler := handlers.NewMetricsHandler(s.service)
	mediaHandler := handlers.NewMediaHandler(s.service)

	s.mux.HandleFunc("GET /health", healthHandler.Health)
	s.mux.HandleFunc("GET /version", healthHandler.Version)
	s.mux.HandleFunc("GET /metrics", metricsHandler.GetMetrics)

	s.mux.HandleFunc("GET /api/youtube/search", mediaHandler.SearchVideos)
	s.mux.HandleFunc("GET /api/youtube/videos/{id}", mediaHandler.GetVideo)
	s.mux.HandleFunc("GET /api/soundcloud/search", mediaHandler.SearchTracks)
	s.mux.HandleFunc("GET /api/soundcloud/tracks/{id}", mediaHandler.GetTrack)
	s.mux.HandleFunc("GET /api/soundcloud/resolve", mediaHandler.ResolveTrack)
	s.mux.HandleFunc("GET /api/itunes/search", mediaHandler.SearchITunes)
	s.mux.HandleFunc("GET /api/search", mediaHandler.SearchAll)
}

// Handler returns the routed handler wrapped in the middleware chain
func (s *Server) Handler() http.Handler {
	return s.applyMiddleware(s.mux)
}

// Start listens on the configured address and serves until Shutdown
func (s *Server) Start() error {
	addr := s.config.Server.Addr()
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return s.Serve(listener)
}

// Serve serves the bridge on an existing listener
func (s *Server) Serve(listener net.Listener) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		_ = listener.Close()
		return http.ErrServerClosed
	}
	srv := &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  s.config.Server.ReadTimeout.Std(),
		WriteTimeout: s.writeTimeout(),
		ErrorLog:     s.logger,
	}
	s.httpServer = srv
	s.mu.Unlock()

	s.logger.Printf("Starting bridge on %s (version: %s)", listener.Addr(), s.config.Server.Version)
	s.logger.Printf("Pools: %d video mirror(s), %d track credential(s), %d catalogue endpoint(s)",
		len(s.service.YouTube().Instances()),
		s.service.SoundCloud().Credentials().Len(),
		len(s.service.ITunes().Endpoints()),
	)

	return srv.Serve(listener)
}

// writeTimeoutMargin covers encoding and writing the envelope after the walk
const writeTimeoutMargin = 5 * time.Second

// writeTimeout returns the configured write timeout, raised when it would cut
// off the longest pool walk before its envelope is written. Zero means none.
func (s *Server) writeTimeout() time.Duration {
	configured := s.config.Server.WriteTimeout.Std()
	if configured <= 0 {
		return 0
	}
	needed := s.service.LongestWalk() + writeTimeoutMargin
	if configured < needed {
		s.logger.Printf("Write timeout %s is shorter than the longest resolution; using %s", configured, needed)
		return needed
	}
	return configured
}

// Shutdown gracefully shuts down the server. A server shut down before it
// started serving refuses to start.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Println("Shutting down bridge...")

	s.mu.Lock()
	s.closed = true
	srv := s.httpServer
	s.mu.Unlock()

	if srv != nil {
		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown HTTP server: %w", err)
		}
	}

	s.logger.Println("Bridge shutdown complete")
	return nil
}

// applyMiddleware builds the middleware chain and applies it to the handler
// Middleware is applied in reverse order (last applied runs first)
func (s *Server) applyMiddleware(h http.Handler) http.Handler {
	// Execution order: Recovery -> RequestID -> Logging -> CORS -> RateLimit -> Handler

	if s.limiter != nil {
		h = middleware.RateLimit(s.limiter)(h)
	}

	if s.config.CORS.Enabled {
		h = middleware.CORS(middleware.CORSConfig{
			AllowedOrigins: s.config.CORS.AllowedOrigins,
			AllowedMethods: s.config.CORS.AllowedMethods,
			AllowedHeaders: s.config.CORS.AllowedHeaders,
		})(h)
	}

	h = middleware.Logging(s.logger)(h)

	h = middleware.RequestID(h)

	// outermost
	h = middleware.Recovery(s.logger)(h)

	return h
}

// Service returns the media service behind the bridge
func (s *Server) Service() *media.Service {
	return s.service
}

// GetConfig returns the server configuration
func (s *Server) GetConfig() backendtypes.BackendConfig {
	return s.config
}

// ListenAndServeWithGracefulShutdown starts the server and shuts it down when
// shutdownSignal is closed
func (s *Server) ListenAndServeWithGracefulShutdown(shutdownSignal <-chan struct{}) error {
	errChan := make(chan error, 1)
	go func() {
		if err := s.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return err
	case <-shutdownSignal:
		timeout := s.config.Server.ShutdownTimeout.Std()
		if timeout == 0 {
			timeout = 30 * time.Second
		}

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		return s.Shutdown(ctx)
	}
}
