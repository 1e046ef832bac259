package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"sea-game/internal/leaderboard"
)

// ServerConfig wires the API server.
type ServerConfig struct {
	Engine     EngineInterface
	Scores     leaderboard.Store
	Renderer   FrameRenderer
	RateLimit  RateLimitConfig
	Origins    []string
	MaxWS      int
	MaxWSPerIP int

	// BroadcastInterval is the websocket state push period.
	BroadcastInterval time.Duration

	Log zerolog.Logger
}

// Server is the HTTP API server with WebSocket support.
// It combines the HTTP router with WebSocket hub for real-time updates.
type Server struct {
	router      *chi.Mux
	wsHub       *WebSocketHub
	rateLimiter *IPRateLimiter
	interval    time.Duration
	log         zerolog.Logger

	mu     sync.Mutex
	http   *http.Server
	cancel context.CancelFunc
}

// NewServer creates a new API server.
//
// IMPORTANT: The hub and broadcast loop do NOT start until Start() is called.
// This enables testing by allowing the server to be constructed without
// opening network listeners. Use Router() with httptest instead.
func NewServer(cfg ServerConfig) *Server {
	if cfg.BroadcastInterval <= 0 {
		cfg.BroadcastInterval = 33 * time.Millisecond
	}
	s := &Server{
		rateLimiter: NewIPRateLimiter(cfg.RateLimit),
		interval:    cfg.BroadcastInterval,
		log:         cfg.Log.With().Str("component", "server").Logger(),
	}
	s.wsHub = NewWebSocketHub(cfg.Engine, HubConfig{
		MaxTotal: cfg.MaxWS,
		MaxPerIP: cfg.MaxWSPerIP,
		Origins:  NewOriginPolicy(cfg.Origins),
		Log:      cfg.Log,
	})

	s.router = NewRouter(RouterConfig{
		Engine:      cfg.Engine,
		Scores:      cfg.Scores,
		Renderer:    cfg.Renderer,
		RateLimiter: s.rateLimiter,
		CORSOrigins: cfg.Origins,
		Log:         cfg.Log,
	})
	s.router.Get("/ws", s.wsHub.HandleWebSocket)

	return s
}

// Start starts the hub and serves HTTP on addr. It blocks until the
// listener fails or Shutdown is called; a clean shutdown returns nil.
func (s *Server) Start(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Serve is Start on an existing listener.
func (s *Server) Serve(ln net.Listener) error {
	ctx, cancel := context.WithCancel(context.Background())
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	s.mu.Lock()
	s.cancel = cancel
	s.http = srv
	s.mu.Unlock()

	go s.wsHub.Run()
	s.wsHub.StartBroadcastLoop(ctx, s.interval)

	s.log.Info().Str("addr", ln.Addr().String()).Msg("🌐 API server starting")

	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Router returns the HTTP handler for use with httptest.
func (s *Server) Router() http.Handler {
	return s.router
}

// Hub exposes the websocket hub.
func (s *Server) Hub() *WebSocketHub {
	return s.wsHub
}

// Shutdown drains HTTP, closes websockets and stops background workers.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	cancel, srv := s.cancel, s.http
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	s.wsHub.Stop()
	s.rateLimiter.Stop()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}
