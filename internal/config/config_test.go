package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

// noFiles points both file lookups at nothing so tests read ENV + defaults.
func noFiles(t *testing.T) {
	t.Helper()
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("DOTENV_PATH", "")
}

const validYAML = `
wanikani:
  api_token: "yaml-token"
  base_url: "https://wk.example.com/v2/"
  timeout: "10s"
  batch_size: 100

sync:
  download_audio: false
  auto_sync_on_startup: false
  deck_name: "Burned"
  watch_interval: "1h"

store:
  driver: "postgres"
  dsn: "postgres://u:p@localhost:5432/burnki"
  max_conns: 8

log:
  level: "debug"
  format: "json"

notify:
  telegram_token: "bot-token"
  telegram_chat_id: 42
`

func TestLoad_ValidYAML(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CONFIG_PATH", writeFile(t, dir, "burnki.yaml", validYAML))
	t.Setenv("DOTENV_PATH", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// WaniKani
	if cfg.WaniKani.APIToken != "yaml-token" {
		t.Errorf("wanikani.api_token = %q", cfg.WaniKani.APIToken)
	}
	if cfg.WaniKani.BaseURL != "https://wk.example.com/v2" {
		t.Errorf("wanikani.base_url = %q, want trailing slash trimmed", cfg.WaniKani.BaseURL)
	}
	if cfg.WaniKani.Timeout != 10*time.Second {
		t.Errorf("wanikani.timeout = %v, want 10s", cfg.WaniKani.Timeout)
	}
	if cfg.WaniKani.BatchSize != 100 {
		t.Errorf("wanikani.batch_size = %d, want 100", cfg.WaniKani.BatchSize)
	}
	if cfg.WaniKani.Revision != "20170710" {
		t.Errorf("wanikani.revision = %q, want default", cfg.WaniKani.Revision)
	}

	// Sync
	if cfg.Sync.DownloadAudio {
		t.Error("sync.download_audio = true, want false")
	}
	if cfg.Sync.AutoSyncOnStartup {
		t.Error("sync.auto_sync_on_startup = true, want false")
	}
	if cfg.Sync.DeckName != "Burned" {
		t.Errorf("sync.deck_name = %q", cfg.Sync.DeckName)
	}
	if cfg.Sync.NoteTypeName != "Burnki" {
		t.Errorf("sync.note_type_name = %q, want default", cfg.Sync.NoteTypeName)
	}

	// Store
	if cfg.Store.Driver != DriverPostgres {
		t.Errorf("store.driver = %q", cfg.Store.Driver)
	}
	if cfg.Store.MaxConns != 8 {
		t.Errorf("store.max_conns = %d, want 8", cfg.Store.MaxConns)
	}

	// Log
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("log = %+v", cfg.Log)
	}

	// Notify
	if !cfg.Notify.TelegramEnabled() {
		t.Error("notify.TelegramEnabled() = false, want true")
	}
}

func TestLoad_ENVOverridesYAML(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CONFIG_PATH", writeFile(t, dir, "burnki.yaml", validYAML))
	t.Setenv("DOTENV_PATH", "")
	t.Setenv("WANIKANI_API_TOKEN", "env-token")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.WaniKani.APIToken != "env-token" {
		t.Errorf("wanikani.api_token = %q, want env-token", cfg.WaniKani.APIToken)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("log.level = %q, want warn", cfg.Log.Level)
	}
}

func TestLoad_SyncTogglesDefaultTrueWhenOmitted(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CONFIG_PATH", writeFile(t, dir, "burnki.yaml", "sync:\n  deck_name: \"Burned\"\n"))
	t.Setenv("DOTENV_PATH", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.Sync.DownloadAudio || !cfg.Sync.AutoSyncOnStartup {
		t.Errorf("sync toggles = %+v, want both true", cfg.Sync)
	}
}

func TestLoad_SyncTogglesFalseFromENV(t *testing.T) {
	noFiles(t)
	t.Setenv("SYNC_DOWNLOAD_AUDIO", "false")
	t.Setenv("SYNC_AUTO_SYNC_ON_STARTUP", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Sync.DownloadAudio || cfg.Sync.AutoSyncOnStartup {
		t.Errorf("sync toggles = %+v, want both false", cfg.Sync)
	}
}

func TestLoad_NoFile_Defaults(t *testing.T) {
	noFiles(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.WaniKani.BaseURL != "https://api.wanikani.com/v2" {
		t.Errorf("wanikani.base_url = %q", cfg.WaniKani.BaseURL)
	}
	if cfg.WaniKani.Timeout != 30*time.Second {
		t.Errorf("wanikani.timeout = %v, want 30s", cfg.WaniKani.Timeout)
	}
	if cfg.WaniKani.BatchSize != 500 {
		t.Errorf("wanikani.batch_size = %d, want 500", cfg.WaniKani.BatchSize)
	}
	if cfg.WaniKani.RateLimitThreshold != 5 {
		t.Errorf("wanikani.rate_limit_threshold = %d, want 5", cfg.WaniKani.RateLimitThreshold)
	}
	if !cfg.Sync.DownloadAudio || !cfg.Sync.AutoSyncOnStartup {
		t.Errorf("sync toggles = %+v, want both true", cfg.Sync)
	}
	if cfg.Sync.DeckName != "Burnki" || cfg.Sync.NoteTypeName != "Burnki" {
		t.Errorf("sync names = %q/%q", cfg.Sync.DeckName, cfg.Sync.NoteTypeName)
	}
	if cfg.Store.Driver != DriverSQLite {
		t.Errorf("store.driver = %q, want sqlite", cfg.Store.Driver)
	}
	if cfg.WaniKani.APIToken != "" {
		t.Errorf("wanikani.api_token = %q, want empty", cfg.WaniKani.APIToken)
	}
	if cfg.Notify.TelegramEnabled() {
		t.Error("notify.TelegramEnabled() = true, want false")
	}
}

func TestLoad_Dotenv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("DOTENV_PATH", writeFile(t, dir, ".env", "WANIKANI_API_TOKEN=dotenv-token\n"))
	// Registered with t.Setenv so the value godotenv writes is restored after the test.
	t.Setenv("WANIKANI_API_TOKEN", "")
	os.Unsetenv("WANIKANI_API_TOKEN")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.WaniKani.APIToken != "dotenv-token" {
		t.Errorf("wanikani.api_token = %q, want dotenv-token", cfg.WaniKani.APIToken)
	}
}

func TestLoad_DotenvDoesNotOverrideEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("DOTENV_PATH", writeFile(t, dir, ".env", "WANIKANI_API_TOKEN=dotenv-token\n"))
	t.Setenv("WANIKANI_API_TOKEN", "real-token")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.WaniKani.APIToken != "real-token" {
		t.Errorf("wanikani.api_token = %q, want real-token", cfg.WaniKani.APIToken)
	}
}

func TestLoad_ExplicitPathNotFound(t *testing.T) {
	t.Setenv("CONFIG_PATH", "/nonexistent/burnki.yaml")
	t.Setenv("DOTENV_PATH", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing explicit config path")
	}
}

func TestLoad_ExplicitDotenvNotFound(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("DOTENV_PATH", "/nonexistent/.env")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing explicit dotenv path")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CONFIG_PATH", writeFile(t, dir, "burnki.yaml", "wanikani: [unterminated"))
	t.Setenv("DOTENV_PATH", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}

func TestLoad_InvalidDriver(t *testing.T) {
	noFiles(t)
	t.Setenv("STORE_DRIVER", "mysql")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for unknown driver")
	}
	if !strings.Contains(err.Error(), "driver") {
		t.Errorf("error = %v, want mention of driver", err)
	}
}

func validConfig() Config {
	return Config{
		WaniKani: WaniKaniConfig{
			BaseURL:            "https://api.wanikani.com/v2",
			Revision:           "20170710",
			Timeout:            30 * time.Second,
			BatchSize:          500,
			RateLimitThreshold: 5,
		},
		Sync: SyncConfig{
			DownloadAudio: true,
			DeckName:      "Burnki",
			NoteTypeName:  "Burnki",
			WatchInterval: time.Hour,
		},
		Store: StoreConfig{
			Driver:     DriverSQLite,
			SQLitePath: "burnki.db",
			MediaDir:   "media",
		},
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"batch size boundary", func(c *Config) { c.WaniKani.BatchSize = 1 }, ""},
		{"batch size zero", func(c *Config) { c.WaniKani.BatchSize = 0 }, "batch_size"},
		{"batch size too large", func(c *Config) { c.WaniKani.BatchSize = 501 }, "batch_size"},
		{"bad base url", func(c *Config) { c.WaniKani.BaseURL = "ftp://x" }, "base_url"},
		{"negative threshold", func(c *Config) { c.WaniKani.RateLimitThreshold = -1 }, "rate_limit_threshold"},
		{"zero timeout", func(c *Config) { c.WaniKani.Timeout = 0 }, "timeout"},
		{"empty deck", func(c *Config) { c.Sync.DeckName = "  " }, "deck_name"},
		{"empty note type", func(c *Config) { c.Sync.NoteTypeName = "" }, "note_type_name"},
		{"zero watch interval", func(c *Config) { c.Sync.WatchInterval = 0 }, "watch_interval"},
		{"sqlite without path", func(c *Config) { c.Store.SQLitePath = "" }, "sqlite_path"},
		{"sqlite without media", func(c *Config) { c.Store.MediaDir = "" }, "media_dir"},
		{"postgres without dsn", func(c *Config) { c.Store.Driver = DriverPostgres }, "dsn"},
		{"postgres with dsn", func(c *Config) {
			c.Store.Driver = DriverPostgres
			c.Store.DSN = "postgres://localhost/burnki"
		}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want to contain %q", err, tt.wantErr)
			}
		})
	}
}
