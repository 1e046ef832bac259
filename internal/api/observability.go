package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/pprof"
	"os"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"sea-game/internal/mission"
)

// Metrics with bounded cardinality (no per-handle labels to prevent DoS)
var (
	// Mission engine metrics
	tickDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "mission_tick_duration_seconds",
		Help:    "Time spent in one engine tick",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025},
	})

	renderDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "mission_render_duration_seconds",
		Help:    "Time spent rendering a debug frame",
		Buckets: []float64{0.005, 0.01, 0.02, 0.05, 0.1, 0.25},
	})

	suitCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "mission_suit_count",
		Help: "Pursuers currently on the beach",
	})

	threatLevel = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "mission_threat_level",
		Help: "Current threat level",
	})

	missionDay = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "mission_day",
		Help: "Current in-world day",
	})

	// Bounded: timeout, focus, integrity, delivered
	missionOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mission_outcomes_total",
		Help: "Finished missions by outcome",
	}, []string{"outcome"})

	// Bounded: the five action names
	actionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mission_actions_total",
		Help: "Actions delivered to the core",
	}, []string{"action"})

	// Event log metrics
	eventLogTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "event_log_total",
		Help: "Total events accepted by the event log",
	})

	eventLogDropped = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "event_log_dropped",
		Help: "Events dropped due to rate limiting or buffer full",
	})

	// DoS detection metrics - use ONLY bounded label values
	connectionRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "connection_rejected_total",
		Help: "Connections rejected by rate limiter or origin check",
	}, []string{"reason"}) // Bounded: "rate_limit", "origin", "ws_total_limit", "ws_ip_limit"

	// HTTP metrics with bounded labels
	requestLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "endpoint"}) // endpoint is the route pattern, not the full URL

	requestTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total HTTP requests",
	}, []string{"method", "endpoint", "status"})

	// WebSocket metrics
	wsConnectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "websocket_connections_active",
		Help: "Currently active WebSocket connections",
	})

	wsMessagesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "websocket_messages_total",
		Help: "WebSocket messages by direction",
	}, []string{"direction"}) // Bounded: "out", "in"
)

// ObservabilityConfig configures the debug server
type ObservabilityConfig struct {
	Enabled       bool
	ListenAddr    string // should stay on loopback
	BasicAuthUser string // Optional basic auth
	BasicAuthPass string
	Log           zerolog.Logger
}

// DebugServer serves pprof, metrics and a health probe on a private address.
type DebugServer struct {
	srv *http.Server
	log zerolog.Logger
}

// StartDebugServer starts the internal observability server. It returns a
// nil server when disabled.
func StartDebugServer(cfg ObservabilityConfig) (*DebugServer, error) {
	log := cfg.Log.With().Str("component", "debug").Logger()
	if !cfg.Enabled {
		log.Info().Msg("📊 Debug server disabled")
		return nil, nil
	}

	// pprof on a public interface is a DoS vector
	if !isLoopback(cfg.ListenAddr) && os.Getenv("ALLOW_DEBUG_EXTERNAL") != "true" {
		log.Warn().Str("requested", cfg.ListenAddr).Msg("⚠️ Debug server forced to localhost for security")
		cfg.ListenAddr = "127.0.0.1:6060"
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	var handler http.Handler = mux
	if cfg.BasicAuthUser != "" {
		handler = basicAuthMiddleware(cfg.BasicAuthUser, cfg.BasicAuthPass, mux)
	}

	ln, err := net.Listen("tcp", cfg.ListenAddr)
	if err != nil {
		return nil, err
	}

	d := &DebugServer{
		srv: &http.Server{Handler: handler, ReadHeaderTimeout: 5 * time.Second},
		log: log,
	}
	go func() {
		log.Info().Str("addr", ln.Addr().String()).Msg("📊 Debug server listening (pprof, /metrics, /health)")
		if err := d.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("⚠️ Debug server error")
		}
	}()
	return d, nil
}

// Shutdown stops the debug server. Safe on a nil receiver.
func (d *DebugServer) Shutdown(ctx context.Context) error {
	if d == nil {
		return nil
	}
	return d.srv.Shutdown(ctx)
}

func isLoopback(addr string) bool {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return false
	}
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

// basicAuthMiddleware adds basic authentication to the handler
func basicAuthMiddleware(user, pass string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, p, ok := r.BasicAuth()
		if !ok || u != user || p != pass {
			w.Header().Set("WWW-Authenticate", `Basic realm="debug"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RecordTick records tick timing and the mission gauges.
func RecordTick(duration time.Duration, s mission.State) {
	tickDuration.Observe(duration.Seconds())
	suitCount.Set(float64(len(s.Suits)))
	threatLevel.Set(s.ThreatLevel)
	missionDay.Set(float64(s.DayIndex))
}

// RecordRender records render timing for metrics
func RecordRender(duration time.Duration) {
	renderDuration.Observe(duration.Seconds())
}

// RecordAction counts an action delivered to the core.
func RecordAction(a mission.Action) {
	actionsTotal.WithLabelValues(string(a)).Inc()
}

// RecordOutcome counts a finished mission.
func RecordOutcome(o mission.Outcome) {
	if o == mission.OutcomeNone {
		return
	}
	missionOutcomes.WithLabelValues(string(o)).Inc()
}

// UpdateEventLogStats mirrors the event log counters.
func UpdateEventLogStats(total, dropped uint64) {
	eventLogTotal.Set(float64(total))
	eventLogDropped.Set(float64(dropped))
}

// RecordConnectionRejected increments the rejection counter
// reason must be one of: "rate_limit", "origin", "ws_total_limit", "ws_ip_limit"
func RecordConnectionRejected(reason string) {
	connectionRejected.WithLabelValues(reason).Inc()
}

// RecordRequest records HTTP request metrics
func RecordRequest(method, endpoint string, status int, duration time.Duration) {
	requestLatency.WithLabelValues(method, endpoint).Observe(duration.Seconds())
	requestTotal.WithLabelValues(method, endpoint, strconv.Itoa(status)).Inc()
}

// UpdateWSConnections updates WebSocket connection count
func UpdateWSConnections(count int) {
	wsConnectionsActive.Set(float64(count))
}

func incrementWSMessages(direction string) {
	wsMessagesTotal.WithLabelValues(direction).Inc()
}
