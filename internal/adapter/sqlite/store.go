// Package sqlite implements the local flashcard collection on a single SQLite
// file, with audio media kept as plain files in a directory next to it.
package sqlite

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // database/sql driver "sqlite3"
	"github.com/pressly/goose/v3"

	"github.com/heartmarshall/burnki/internal/config"
	"github.com/heartmarshall/burnki/migrations"
)

const driverName = "sqlite3"

// Store is the SQLite-backed collection. It implements the reconciler's
// collection contract and the sync cursor accessors.
type Store struct {
	db       *sqlx.DB
	mediaDir string
	log      *slog.Logger
	now      func() time.Time
}

// Open opens (creating if needed) the SQLite database at cfg.SQLitePath,
// applies pending migrations and prepares the media directory.
func Open(ctx context.Context, cfg config.StoreConfig, logger *slog.Logger) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000&_journal_mode=WAL", cfg.SQLitePath)

	db, err := sqlx.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", cfg.SQLitePath, err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	s := &Store{
		db:       db,
		mediaDir: cfg.MediaDir,
		log:      logger.With("adapter", "sqlite"),
		now:      func() time.Time { return time.Now().UTC() },
	}

	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}

	// Single writer connection; transactions travel in the context.
	db.SetMaxOpenConns(1)

	if err := os.MkdirAll(cfg.MediaDir, 0o755); err != nil {
		db.Close()
		return nil, fmt.Errorf("create media dir %s: %w", cfg.MediaDir, err)
	}

	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	provider, err := goose.NewProvider(goose.DialectSQLite3, s.db.DB, migrations.SQLite())
	if err != nil {
		return fmt.Errorf("goose new provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	for _, r := range results {
		s.log.InfoContext(ctx, "migration applied",
			slog.Int64("version", r.Source.Version),
			slog.Duration("duration", r.Duration),
		)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
