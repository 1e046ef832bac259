package api

import (
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"sea-game/internal/leaderboard"
	"sea-game/internal/mission"
)

// EngineInterface defines the mission engine methods used by the API.
// This interface enables mocking for tests without spinning up the tick loop.
// Keep this minimal - only include methods the API layer actually calls.
type EngineInterface interface {
	// Snapshot returns the latest published mission state
	Snapshot() mission.State
	// SetInput replaces the held keys
	SetInput(in mission.Input)
	// TriggerAction latches a one-shot action for the next tick
	TriggerAction(a mission.Action)
	// Launch commits a handle and starts the countdown
	Launch(handle string) (mission.State, error)
	// Reset starts a fresh attempt
	Reset() mission.State
	// SetLeaderboard copies the latest board into the state
	SetLeaderboard(records []leaderboard.Record)
}

// FrameRenderer draws a mission state as PNG.
type FrameRenderer interface {
	EncodePNG(w io.Writer, s mission.State) error
}

// RouterConfig contains all dependencies needed to construct the HTTP router.
// This struct is designed for dependency injection and testability.
//
// Example usage in tests:
//
//	cfg := api.RouterConfig{
//	    Engine: mockEngine,
//	    Scores: leaderboard.NewMemoryStore(),
//	    RateLimitConfig: &api.RateLimitConfig{
//	        RequestsPerSecond: 1000, // High limit for tests
//	        Burst:             1000,
//	    },
//	}
//	router := api.NewRouter(cfg)
//	ts := httptest.NewServer(router)
type RouterConfig struct {
	// Engine is the mission engine (required)
	Engine EngineInterface

	// Scores is the leaderboard backend (required)
	Scores leaderboard.Store

	// Renderer draws /api/frame.png. The route answers 404 when nil.
	Renderer FrameRenderer

	// RateLimiter is an optional pre-configured rate limiter.
	// If nil, a new one will be created using RateLimitConfig.
	RateLimiter *IPRateLimiter

	// RateLimitConfig is optional configuration for the rate limiter.
	// Only used if RateLimiter is nil. If both are nil, uses DefaultRateLimitConfig.
	RateLimitConfig *RateLimitConfig

	// CORSOrigins lists extra browser origins; localhost is always allowed.
	CORSOrigins []string

	// Log receives one line per request unless DisableLogging is set.
	Log zerolog.Logger

	// DisableLogging disables the request logger middleware (useful for benchmarks).
	DisableLogging bool
}

// routerHandlers holds the handler functions for the router.
type routerHandlers struct {
	engine   EngineInterface
	scores   leaderboard.Store
	renderer FrameRenderer
	log      zerolog.Logger
}

// NewRouter constructs the HTTP router with all middleware and routes.
//
// IMPORTANT: This function is PURE apart from the rate limiter it may
// create: no network listeners are opened and no engine goroutines start.
// This makes it safe to use in tests with httptest.NewServer.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Middleware - Order matters!
	r.Use(middleware.RequestID)
	r.Use(requestMetrics)
	if !cfg.DisableLogging {
		r.Use(requestLogger(cfg.Log))
	}
	r.Use(middleware.Recoverer)

	// Rate limiting (BEFORE CORS to reject early and save CPU)
	rateLimiter := cfg.RateLimiter
	if rateLimiter == nil {
		rateLimitCfg := DefaultRateLimitConfig
		if cfg.RateLimitConfig != nil {
			rateLimitCfg = *cfg.RateLimitConfig
		}
		rateLimiter = NewIPRateLimiter(rateLimitCfg)
	}
	r.Use(rateLimiter.Middleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: NewOriginPolicy(cfg.CORSOrigins).corsPatterns(),
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         300,
	}))

	h := &routerHandlers{
		engine:   cfg.Engine,
		scores:   cfg.Scores,
		renderer: cfg.Renderer,
		log:      cfg.Log.With().Str("component", "api").Logger(),
	}

	r.Route("/api", func(r chi.Router) {
		// Mission
		r.Get("/state", h.handleGetState)
		r.Post("/mission/launch", h.handleLaunch)
		r.Post("/mission/reset", h.handleReset)
		r.Post("/input", h.handleInput)
		r.Post("/action", h.handleAction)
		r.Get("/frame.png", h.handleFrame)

		// Leaderboard
		r.Get("/leaderboard", h.handleGetLeaderboard)
		r.Post("/leaderboard", h.handleSubmitScore)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]string{"status": "ok"})
	})

	return r
}

// requestMetrics records latency per route pattern so label cardinality
// stays bounded by the route table.
func requestMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		endpoint := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				endpoint = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		RecordRequest(r.Method, endpoint, status, time.Since(start))
	})
}

func requestLogger(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			log.Debug().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Int("bytes", ww.BytesWritten()).
				Dur("took", time.Since(start)).
				Str("request_id", middleware.GetReqID(r.Context())).
				Msg("request")
		})
	}
}
