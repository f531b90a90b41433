package config

import (
	"fmt"
	"strings"
)

// MaxBatchSize bounds the number of ids per bulk lookup request.
const MaxBatchSize = 500

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
// A missing API token is not a config error: the sync entry points report it.
func (c *Config) Validate() error {
	if err := c.WaniKani.validate(); err != nil {
		return fmt.Errorf("wanikani: %w", err)
	}
	if err := c.Sync.validate(); err != nil {
		return fmt.Errorf("sync: %w", err)
	}
	if err := c.Store.validate(); err != nil {
		return fmt.Errorf("store: %w", err)
	}
	return nil
}

func (w *WaniKaniConfig) validate() error {
	if !strings.HasPrefix(w.BaseURL, "http://") && !strings.HasPrefix(w.BaseURL, "https://") {
		return fmt.Errorf("base_url must be an http(s) URL (got %q)", w.BaseURL)
	}
	w.BaseURL = strings.TrimRight(w.BaseURL, "/")
	if w.BatchSize <= 0 || w.BatchSize > MaxBatchSize {
		return fmt.Errorf("batch_size must be in 1..%d (got %d)", MaxBatchSize, w.BatchSize)
	}
	if w.RateLimitThreshold < 0 {
		return fmt.Errorf("rate_limit_threshold must be >= 0 (got %d)", w.RateLimitThreshold)
	}
	if w.Timeout <= 0 {
		return fmt.Errorf("timeout must be > 0 (got %s)", w.Timeout)
	}
	return nil
}

func (s *SyncConfig) validate() error {
	if strings.TrimSpace(s.DeckName) == "" {
		return fmt.Errorf("deck_name must not be empty")
	}
	if strings.TrimSpace(s.NoteTypeName) == "" {
		return fmt.Errorf("note_type_name must not be empty")
	}
	if s.WatchInterval <= 0 {
		return fmt.Errorf("watch_interval must be > 0 (got %s)", s.WatchInterval)
	}
	return nil
}

func (s *StoreConfig) validate() error {
	switch s.Driver {
	case DriverSQLite:
		if s.SQLitePath == "" {
			return fmt.Errorf("sqlite_path is required for the sqlite driver")
		}
		if s.MediaDir == "" {
			return fmt.Errorf("media_dir is required for the sqlite driver")
		}
	case DriverPostgres:
		if s.DSN == "" {
			return fmt.Errorf("dsn is required for the postgres driver")
		}
	default:
		return fmt.Errorf("driver must be %q or %q (got %q)", DriverSQLite, DriverPostgres, s.Driver)
	}
	return nil
}
