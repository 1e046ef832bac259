// Package config provides centralized configuration management.
// This is the SINGLE SOURCE OF TRUTH for server, simulation and storage
// settings.
//
// Values come from, in increasing priority: the defaults below, an optional
// sea-game.json next to the binary, and SEA_GAME_* environment variables
// (e.g. SEA_GAME_SIM_TICKRATE). PORT is honoured as an alias for the server
// port.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	EnvPrefix  = "SEA_GAME"
	ConfigName = "sea-game"
)

// =============================================================================
// SERVER CONFIGURATION
// =============================================================================

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port        int
	CORSOrigins []string // exact origins; any http://localhost port is always allowed
}

// DefaultServer returns the default server configuration.
func DefaultServer() ServerConfig {
	return ServerConfig{
		Port:        3000,
		CORSOrigins: []string{"http://localhost:5173", "http://localhost:3000"},
	}
}

// =============================================================================
// SIMULATION CONFIGURATION
// =============================================================================

// SimConfig controls the host loop around the mission core.
type SimConfig struct {
	TickRate       int     // Simulation ticks per second
	MaxDeltaMs     float64 // Longest frame fed to the core; longer gaps are clamped
	Seed           uint64  // 0 picks a time-based seed per mission
	BroadcastEvery int     // Push state to websocket clients every N ticks
}

// DefaultSim returns the default simulation configuration.
func DefaultSim() SimConfig {
	return SimConfig{
		TickRate:       60,
		MaxDeltaMs:     250, // a backgrounded host must not skip whole days
		Seed:           0,
		BroadcastEvery: 2,
	}
}

// =============================================================================
// LEADERBOARD CONFIGURATION
// =============================================================================

// LeaderboardConfig selects the score store.
type LeaderboardConfig struct {
	Driver    string // sqlite | postgres | memory | remote
	DSN       string // SQLite path or Postgres DSN
	RemoteURL string // base URL when Driver is remote
	CachePath string // offline cache for the remote driver
}

// DefaultLeaderboard returns the default leaderboard configuration.
func DefaultLeaderboard() LeaderboardConfig {
	return LeaderboardConfig{
		Driver:    "sqlite",
		DSN:       "sea-game.db",
		CachePath: "leaderboard-cache.json",
	}
}

// =============================================================================
// RESOURCE LIMITS
// =============================================================================

// ResourceLimits controls DoS protection.
type ResourceLimits struct {
	RequestsPerSecond float64 // Per-IP API rate
	Burst             int     // Per-IP API burst
	MaxWSConnsPerIP   int
	MaxWSConns        int
}

// DefaultLimits returns the default resource limits.
func DefaultLimits() ResourceLimits {
	return ResourceLimits{
		RequestsPerSecond: 30,
		Burst:             60,
		MaxWSConnsPerIP:   5,
		MaxWSConns:        500,
	}
}

// =============================================================================
// OBSERVABILITY
// =============================================================================

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string // trace | debug | info | warn | error
	Pretty bool   // console writer instead of JSON
}

// DebugConfig controls the localhost pprof/metrics server.
type DebugConfig struct {
	Enabled    bool
	ListenAddr string
}

// EventLogConfig controls the JSONL mission event log.
type EventLogConfig struct {
	Path string // empty disables the file
}

func defaultLog() LogConfig           { return LogConfig{Level: "info", Pretty: true} }
func defaultDebug() DebugConfig       { return DebugConfig{Enabled: true, ListenAddr: "127.0.0.1:6060"} }
func defaultEventLog() EventLogConfig { return EventLogConfig{Path: "data/events.jsonl"} }

// =============================================================================
// COMPLETE APP CONFIGURATION
// =============================================================================

// AppConfig holds the complete application configuration.
type AppConfig struct {
	Server      ServerConfig
	Sim         SimConfig
	Leaderboard LeaderboardConfig
	Limits      ResourceLimits
	Log         LogConfig
	Debug       DebugConfig
	EventLog    EventLogConfig
}

// Default returns the configuration with no file and no environment.
func Default() AppConfig {
	return AppConfig{
		Server:      DefaultServer(),
		Sim:         DefaultSim(),
		Leaderboard: DefaultLeaderboard(),
		Limits:      DefaultLimits(),
		Log:         defaultLog(),
		Debug:       defaultDebug(),
		EventLog:    defaultEventLog(),
	}
}

// Load reads the optional sea-game.json from dirs and applies environment
// overrides. A missing file is fine; a malformed one is an error.
func Load(dirs ...string) (AppConfig, error) {
	v := newViper()
	for _, dir := range dirs {
		v.AddConfigPath(dir)
	}
	if len(dirs) > 0 {
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return AppConfig{}, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	cfg := AppConfig{
		Server: ServerConfig{
			Port:        v.GetInt("server.port"),
			CORSOrigins: splitList(v.Get("server.corsOrigins")),
		},
		Sim: SimConfig{
			TickRate:       v.GetInt("sim.tickRate"),
			MaxDeltaMs:     v.GetFloat64("sim.maxDeltaMs"),
			Seed:           v.GetUint64("sim.seed"),
			BroadcastEvery: v.GetInt("sim.broadcastEvery"),
		},
		Leaderboard: LeaderboardConfig{
			Driver:    strings.ToLower(v.GetString("leaderboard.driver")),
			DSN:       v.GetString("leaderboard.dsn"),
			RemoteURL: v.GetString("leaderboard.remoteUrl"),
			CachePath: v.GetString("leaderboard.cachePath"),
		},
		Limits: ResourceLimits{
			RequestsPerSecond: v.GetFloat64("limits.requestsPerSecond"),
			Burst:             v.GetInt("limits.burst"),
			MaxWSConnsPerIP:   v.GetInt("limits.maxWsConnsPerIp"),
			MaxWSConns:        v.GetInt("limits.maxWsConns"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Pretty: v.GetBool("log.pretty"),
		},
		Debug: DebugConfig{
			Enabled:    v.GetBool("debug.enabled"),
			ListenAddr: v.GetString("debug.listenAddr"),
		},
		EventLog: EventLogConfig{
			Path: v.GetString("eventLog.path"),
		},
	}
	return cfg, cfg.Validate()
}

// Validate rejects settings the engine cannot run with.
func (c AppConfig) Validate() error {
	switch {
	case c.Server.Port <= 0 || c.Server.Port > 65535:
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	case c.Sim.TickRate <= 0 || c.Sim.TickRate > 1000:
		return fmt.Errorf("sim.tickRate %d out of range", c.Sim.TickRate)
	case c.Sim.MaxDeltaMs <= 0:
		return fmt.Errorf("sim.maxDeltaMs must be positive")
	case c.Sim.BroadcastEvery <= 0:
		return fmt.Errorf("sim.broadcastEvery must be positive")
	}
	switch c.Leaderboard.Driver {
	case "sqlite", "postgres", "memory":
	case "remote":
		if c.Leaderboard.RemoteURL == "" {
			return fmt.Errorf("leaderboard.remoteUrl is required for the remote driver")
		}
	default:
		return fmt.Errorf("unknown leaderboard.driver %q", c.Leaderboard.Driver)
	}
	return nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func newViper() *viper.Viper {
	v := viper.New()
	d := Default()

	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.corsOrigins", strings.Join(d.Server.CORSOrigins, ","))

	v.SetDefault("sim.tickRate", d.Sim.TickRate)
	v.SetDefault("sim.maxDeltaMs", d.Sim.MaxDeltaMs)
	v.SetDefault("sim.seed", d.Sim.Seed)
	v.SetDefault("sim.broadcastEvery", d.Sim.BroadcastEvery)

	v.SetDefault("leaderboard.driver", d.Leaderboard.Driver)
	v.SetDefault("leaderboard.dsn", d.Leaderboard.DSN)
	v.SetDefault("leaderboard.remoteUrl", d.Leaderboard.RemoteURL)
	v.SetDefault("leaderboard.cachePath", d.Leaderboard.CachePath)

	v.SetDefault("limits.requestsPerSecond", d.Limits.RequestsPerSecond)
	v.SetDefault("limits.burst", d.Limits.Burst)
	v.SetDefault("limits.maxWsConnsPerIp", d.Limits.MaxWSConnsPerIP)
	v.SetDefault("limits.maxWsConns", d.Limits.MaxWSConns)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.pretty", d.Log.Pretty)
	v.SetDefault("debug.enabled", d.Debug.Enabled)
	v.SetDefault("debug.listenAddr", d.Debug.ListenAddr)
	v.SetDefault("eventLog.path", d.EventLog.Path)

	v.SetConfigName(ConfigName)
	v.SetConfigType("json")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("server.port", EnvPrefix+"_SERVER_PORT", "PORT")
	return v
}

// splitList accepts a JSON array or a comma separated string.
func splitList(raw any) []string {
	var parts []string
	switch val := raw.(type) {
	case string:
		parts = strings.Split(val, ",")
	case []any:
		for _, p := range val {
			parts = append(parts, fmt.Sprint(p))
		}
	case []string:
		parts = val
	}
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
