package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultValues(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
	assert.Equal(t, 60, cfg.Sim.TickRate)
	assert.Equal(t, 250.0, cfg.Sim.MaxDeltaMs)
	assert.Equal(t, 2, cfg.Sim.BroadcastEvery)
	assert.Equal(t, "sqlite", cfg.Leaderboard.Driver)
}

func TestLoad_WithConfigFile(t *testing.T) {
	dir := t.TempDir()
	file := `{
		"server": { "port": 8081, "corsOrigins": ["https://sea.example", " https://b.example "] },
		"sim": { "tickRate": 30, "seed": 99 },
		"leaderboard": { "driver": "MEMORY" },
		"log": { "level": "debug", "pretty": false }
	}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sea-game.json"), []byte(file), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, 8081, cfg.Server.Port)
	assert.Equal(t, []string{"https://sea.example", "https://b.example"}, cfg.Server.CORSOrigins)
	assert.Equal(t, 30, cfg.Sim.TickRate)
	assert.Equal(t, uint64(99), cfg.Sim.Seed)
	assert.Equal(t, 250.0, cfg.Sim.MaxDeltaMs, "unset keys keep defaults")
	assert.Equal(t, "memory", cfg.Leaderboard.Driver)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.False(t, cfg.Log.Pretty)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SEA_GAME_SIM_TICKRATE", "120")
	t.Setenv("SEA_GAME_SERVER_CORSORIGINS", "https://a.example, https://b.example")
	t.Setenv("SEA_GAME_LEADERBOARD_DRIVER", "remote")
	t.Setenv("SEA_GAME_LEADERBOARD_REMOTEURL", "https://board.example")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 120, cfg.Sim.TickRate)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "remote", cfg.Leaderboard.Driver)
	assert.Equal(t, "https://board.example", cfg.Leaderboard.RemoteURL)
}

func TestLoad_PortAlias(t *testing.T) {
	t.Setenv("PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
}

func TestLoad_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sea-game.json"), []byte(`{"server":`), 0644))

	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*AppConfig)
	}{
		{"bad port", func(c *AppConfig) { c.Server.Port = 0 }},
		{"bad tick rate", func(c *AppConfig) { c.Sim.TickRate = 0 }},
		{"bad delta clamp", func(c *AppConfig) { c.Sim.MaxDeltaMs = -1 }},
		{"bad broadcast", func(c *AppConfig) { c.Sim.BroadcastEvery = 0 }},
		{"unknown driver", func(c *AppConfig) { c.Leaderboard.Driver = "mongo" }},
		{"remote without url", func(c *AppConfig) { c.Leaderboard.Driver = "remote" }},
	}

	require.NoError(t, Default().Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
