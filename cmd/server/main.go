package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"sea-game/internal/api"
	"sea-game/internal/config"
	"sea-game/internal/game"
	"sea-game/internal/leaderboard"
	"sea-game/internal/logging"
	"sea-game/internal/mission"
	"sea-game/internal/render"
)

const (
	shutdownTimeout = 10 * time.Second
	storeTimeout    = 5 * time.Second
	statsInterval   = 5 * time.Second
)

func main() {
	// Load .env file from parent directory, then the working directory
	envErr := godotenv.Load("../.env")
	if envErr != nil {
		envErr = godotenv.Load(".env")
	}

	appConfig, err := config.Load(".", "./config")
	if err != nil {
		bootLog := logging.New("info", true)
		bootLog.Fatal().Err(err).Msg("❌ Invalid configuration")
	}
	log := logging.New(appConfig.Log.Level, appConfig.Log.Pretty)
	if envErr != nil {
		log.Info().Msg("💡 No .env file found, using environment variables only")
	}

	log.Info().Msg("🌊 ================================")
	log.Info().Msg("🌊  SEA GAME - MISSION SERVER")
	log.Info().Msg("🌊 ================================")
	log.Info().
		Int("tick_rate", appConfig.Sim.TickRate).
		Float64("max_delta_ms", appConfig.Sim.MaxDeltaMs).
		Uint64("seed", appConfig.Sim.Seed).
		Str("leaderboard", appConfig.Leaderboard.Driver).
		Msg("🎮 Config loaded")

	scores, err := leaderboard.Open(leaderboard.Config{
		Driver:    appConfig.Leaderboard.Driver,
		DSN:       appConfig.Leaderboard.DSN,
		RemoteURL: appConfig.Leaderboard.RemoteURL,
		CachePath: appConfig.Leaderboard.CachePath,
	}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Leaderboard unavailable")
	}

	var engine *game.Engine
	engine = game.NewEngine(game.Config{
		TickRate:   appConfig.Sim.TickRate,
		MaxDeltaMs: appConfig.Sim.MaxDeltaMs,
		Seed:       appConfig.Sim.Seed,
		Log:        log,
		Hooks: game.Hooks{
			OnTick:   api.RecordTick,
			OnAction: api.RecordAction,
			OnMissionEnd: func(s mission.State) {
				api.RecordOutcome(s.Outcome)
				if s.Phase == mission.PhaseWon {
					// Off the tick goroutine; the store may be remote
					go submitRun(log, scores, engine, s)
				}
			},
		},
	})
	refreshLeaderboard(log, scores, engine)

	if path := appConfig.EventLog.Path; path != "" {
		if err := engine.StartEventLog(path); err != nil {
			log.Warn().Err(err).Msg("⚠️ Event log disabled")
		}
	}

	debug, err := api.StartDebugServer(api.ObservabilityConfig{
		Enabled:       appConfig.Debug.Enabled,
		ListenAddr:    appConfig.Debug.ListenAddr,
		BasicAuthUser: os.Getenv("DEBUG_USER"),
		BasicAuthPass: os.Getenv("DEBUG_PASS"),
		Log:           log,
	})
	if err != nil {
		log.Warn().Err(err).Msg("⚠️ Debug server disabled")
	}

	broadcast := time.Second * time.Duration(appConfig.Sim.BroadcastEvery) / time.Duration(appConfig.Sim.TickRate)
	server := api.NewServer(api.ServerConfig{
		Engine:   engine,
		Scores:   scores,
		Renderer: render.New(0, 0),
		RateLimit: api.RateLimitConfig{
			RequestsPerSecond: appConfig.Limits.RequestsPerSecond,
			Burst:             appConfig.Limits.Burst,
		},
		Origins:           appConfig.Server.CORSOrigins,
		MaxWS:             appConfig.Limits.MaxWSConns,
		MaxWSPerIP:        appConfig.Limits.MaxWSConnsPerIP,
		BroadcastInterval: broadcast,
		Log:               log,
	})

	engine.Start()

	stopStats := make(chan struct{})
	go exportEventStats(engine, stopStats)

	addr := ":" + strconv.Itoa(appConfig.Server.Port)
	go func() {
		if err := server.Start(addr); err != nil {
			log.Fatal().Err(err).Str("addr", addr).Msg("❌ Server failed")
		}
	}()
	log.Info().Msgf("🎮 State: http://localhost%s/api/state", addr)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("🛑 Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("API server shutdown")
	}
	engine.Stop()
	close(stopStats)
	engine.StopEventLog()
	if err := debug.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Debug server shutdown")
	}
	if err := scores.Close(); err != nil {
		log.Error().Err(err).Msg("Leaderboard close")
	}
	log.Info().Msg("👋 Goodbye")
}

func submitRun(log zerolog.Logger, scores leaderboard.Store, engine *game.Engine, s mission.State) {
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	rec, err := scores.Submit(ctx, leaderboard.Submission{
		Username:   s.Profile.Handle,
		DurationMs: s.ScoreMs,
		DayCount:   s.DayIndex,
	})
	if err != nil {
		log.Error().Err(err).Str("handle", s.Profile.Handle).Msg("⚠️ Score submit failed")
		return
	}
	log.Info().
		Str("handle", rec.Username).
		Float64("duration_ms", rec.DurationMs).
		Int("days", rec.DayCount).
		Msg("🏆 Score recorded")

	top, err := scores.Top(ctx, leaderboard.TopN)
	if err != nil {
		log.Warn().Err(err).Msg("⚠️ Leaderboard refresh failed")
		return
	}
	engine.SetLeaderboard(top)
}

func refreshLeaderboard(log zerolog.Logger, scores leaderboard.Store, engine *game.Engine) {
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	top, err := scores.Top(ctx, leaderboard.TopN)
	if err != nil {
		log.Warn().Err(err).Msg("⚠️ Leaderboard fetch failed")
		return
	}
	engine.SetLeaderboard(top)
	log.Info().Int("records", len(top)).Msg("🏆 Leaderboard loaded")
}

func exportEventStats(engine *game.Engine, stop <-chan struct{}) {
	ticker := time.NewTicker(statsInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			stats := engine.EventLogStats()
			api.UpdateEventLogStats(stats.Total, stats.Dropped)
		}
	}
}
