package leaderboard

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// scoreRow is the persisted shape of a Record.
type scoreRow struct {
	ID         uint      `gorm:"primaryKey;autoIncrement"`
	Username   string    `gorm:"size:32;not null"`
	DurationMs float64   `gorm:"not null;index"`
	DayCount   int       `gorm:"not null"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

func (scoreRow) TableName() string { return "scores" }

func (r scoreRow) record() Record {
	return Record{
		ID:         strconv.FormatUint(uint64(r.ID), 10),
		Username:   r.Username,
		DurationMs: r.DurationMs,
		DayCount:   r.DayCount,
		CreatedAt:  r.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// GormStore keeps the board in a SQL database.
type GormStore struct {
	db  *gorm.DB
	log zerolog.Logger
}

// OpenSQLite opens (or creates) a SQLite board. ":memory:" gives a private
// in-memory database.
func OpenSQLite(path string, log zerolog.Logger) (*GormStore, error) {
	dsn := path
	if path == ":memory:" {
		dsn = "file::memory:"
	}
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("access sql interface: %w", err)
	}
	// One connection keeps an in-memory database alive and serialises writes.
	sqlDB.SetMaxOpenConns(1)

	log.Info().Str("path", path).Msg("Using SQLite leaderboard")
	return newGormStore(db, log)
}

// OpenPostgres connects to a Postgres board.
func OpenPostgres(dsn string, log zerolog.Logger) (*GormStore, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("access sql interface: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	sqlDB.SetMaxOpenConns(10)

	log.Info().Msg("Connected to Postgres leaderboard")
	return newGormStore(db, log)
}

func newGormStore(db *gorm.DB, log zerolog.Logger) (*GormStore, error) {
	if err := db.AutoMigrate(&scoreRow{}); err != nil {
		return nil, fmt.Errorf("migrate scores: %w", err)
	}
	return &GormStore{db: db, log: log}, nil
}

func (s *GormStore) Top(ctx context.Context, n int) ([]Record, error) {
	if n <= 0 || n > TopN {
		n = TopN
	}
	var rows []scoreRow
	err := s.db.WithContext(ctx).
		Order("duration_ms ASC").Order("id ASC").
		Limit(n).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("query scores: %w", err)
	}
	out := make([]Record, len(rows))
	for i, r := range rows {
		out[i] = r.record()
	}
	return out, nil
}

func (s *GormStore) Submit(ctx context.Context, sub Submission) (Record, error) {
	sub, err := sub.Normalize()
	if err != nil {
		return Record{}, err
	}
	row := scoreRow{Username: sub.Username, DurationMs: sub.DurationMs, DayCount: sub.DayCount}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return Record{}, fmt.Errorf("insert score: %w", err)
	}
	s.log.Debug().Str("username", row.Username).Float64("durationMs", row.DurationMs).Msg("Score recorded")
	return row.record(), nil
}

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
