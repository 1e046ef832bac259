package leaderboard

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// Store persists leaderboard records.
type Store interface {
	// Top returns up to n records, fastest first.
	Top(ctx context.Context, n int) ([]Record, error)
	// Submit validates and stores a run.
	Submit(ctx context.Context, sub Submission) (Record, error)
	Close() error
}

// Ranker is implemented by stores that can place a record on the full board.
type Ranker interface {
	// Rank returns the 1-based position of a record id, or 0 if unknown.
	Rank(id string) int
}

// Drivers accepted by Open.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
	DriverRemote   = "remote"

	DefaultSQLitePath = "sea-game.db"
)

// Config selects and locates a backend.
type Config struct {
	Driver    string
	DSN       string // SQLite path or Postgres DSN
	RemoteURL string // base URL for DriverRemote
	CachePath string // offline cache for DriverRemote
}

// Open builds the configured store. A Postgres store that cannot connect
// falls back to a local SQLite file so the board keeps working offline.
func Open(cfg Config, log zerolog.Logger) (Store, error) {
	switch cfg.Driver {
	case DriverMemory:
		return NewMemoryStore(), nil
	case DriverRemote:
		if cfg.RemoteURL == "" {
			return nil, fmt.Errorf("remote leaderboard needs a URL")
		}
		return NewClient(cfg.RemoteURL, NewLocalCache(cfg.CachePath), log), nil
	case DriverPostgres:
		store, err := OpenPostgres(cfg.DSN, log)
		if err == nil {
			return store, nil
		}
		log.Error().Err(err).Msg("Failed to connect to Postgres, trying SQLite")
		return OpenSQLite(DefaultSQLitePath, log)
	case DriverSQLite, "":
		path := cfg.DSN
		if path == "" {
			path = DefaultSQLitePath
		}
		return OpenSQLite(path, log)
	default:
		return nil, fmt.Errorf("unknown leaderboard driver %q", cfg.Driver)
	}
}

var (
	_ Store = (*GormStore)(nil)
	_ Store = (*MemoryStore)(nil)
	_ Store = (*Client)(nil)
)
