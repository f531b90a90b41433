package config

import "time"

// Config is the root application configuration.
type Config struct {
	WaniKani WaniKaniConfig `yaml:"wanikani"`
	Sync     SyncConfig     `yaml:"sync"`
	Store    StoreConfig    `yaml:"store"`
	Log      LogConfig      `yaml:"log"`
	Notify   NotifyConfig   `yaml:"notify"`
}

// WaniKaniConfig holds remote API settings.
type WaniKaniConfig struct {
	APIToken           string        `yaml:"api_token"            env:"WANIKANI_API_TOKEN"`
	BaseURL            string        `yaml:"base_url"             env:"WANIKANI_BASE_URL"             env-default:"https://api.wanikani.com/v2"`
	Revision           string        `yaml:"revision"             env:"WANIKANI_REVISION"             env-default:"20170710"`
	Timeout            time.Duration `yaml:"timeout"              env:"WANIKANI_TIMEOUT"              env-default:"30s"`
	BatchSize          int           `yaml:"batch_size"           env:"WANIKANI_BATCH_SIZE"           env-default:"500"`
	RateLimitThreshold int           `yaml:"rate_limit_threshold" env:"WANIKANI_RATE_LIMIT_THRESHOLD" env-default:"5"`
}

// SyncConfig holds sync behaviour toggles.
// The bool toggles default to true through Defaults, not env-default,
// so an explicit false in YAML or ENV is kept.
type SyncConfig struct {
	DownloadAudio     bool          `yaml:"download_audio"       env:"SYNC_DOWNLOAD_AUDIO"`
	AutoSyncOnStartup bool          `yaml:"auto_sync_on_startup" env:"SYNC_AUTO_SYNC_ON_STARTUP"`
	DeckName          string        `yaml:"deck_name"            env:"SYNC_DECK_NAME"             env-default:"Burnki"`
	NoteTypeName      string        `yaml:"note_type_name"       env:"SYNC_NOTE_TYPE_NAME"        env-default:"Burnki"`
	WatchInterval     time.Duration `yaml:"watch_interval"       env:"SYNC_WATCH_INTERVAL"        env-default:"6h"`
}

// Defaults returns a Config seeded with the values env-default tags cannot
// express.
func Defaults() Config {
	return Config{
		Sync: SyncConfig{
			DownloadAudio:     true,
			AutoSyncOnStartup: true,
		},
	}
}

// Store drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// StoreConfig selects and configures the local collection store.
type StoreConfig struct {
	Driver          string        `yaml:"driver"             env:"STORE_DRIVER"             env-default:"sqlite"`
	SQLitePath      string        `yaml:"sqlite_path"        env:"STORE_SQLITE_PATH"        env-default:"burnki.db"`
	MediaDir        string        `yaml:"media_dir"          env:"STORE_MEDIA_DIR"          env-default:"burnki.media"`
	DSN             string        `yaml:"dsn"                env:"STORE_DSN"`
	MaxConns        int32         `yaml:"max_conns"          env:"STORE_MAX_CONNS"          env-default:"4"`
	MinConns        int32         `yaml:"min_conns"          env:"STORE_MIN_CONNS"          env-default:"1"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"STORE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"STORE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level      string `yaml:"level"        env:"LOG_LEVEL"        env-default:"info"`
	Format     string `yaml:"format"       env:"LOG_FORMAT"       env-default:"text"`
	File       string `yaml:"file"         env:"LOG_FILE"`
	MaxSizeMB  int    `yaml:"max_size_mb"  env:"LOG_MAX_SIZE_MB"  env-default:"10"`
	MaxBackups int    `yaml:"max_backups"  env:"LOG_MAX_BACKUPS"  env-default:"3"`
	MaxAgeDays int    `yaml:"max_age_days" env:"LOG_MAX_AGE_DAYS" env-default:"28"`
}

// NotifyConfig holds optional notification channels.
type NotifyConfig struct {
	TelegramToken  string `yaml:"telegram_token"   env:"NOTIFY_TELEGRAM_TOKEN"`
	TelegramChatID int64  `yaml:"telegram_chat_id" env:"NOTIFY_TELEGRAM_CHAT_ID"`
}

// TelegramEnabled reports whether both Telegram credentials are present.
func (c NotifyConfig) TelegramEnabled() bool {
	return c.TelegramToken != "" && c.TelegramChatID != 0
}
