package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var (
	ErrMissingEnvironmentVariables = errors.New("missing required environment variables")
	ErrInvalidConfig               = errors.New("invalid config")
)

// Storage drivers.
const (
	StorageDriverPostgres = "postgres"
	StorageDriverFile     = "file"
)

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env              string  `mapstructure:"env"`      // current application environment (local, dev, production etc)
	TelegramAPIToken string  `mapstructure:"-"`        // Telegram API token loaded from environment
	Content          Content `mapstructure:"content"`  // study corpus location
	Study            Study   `mapstructure:"study"`    // session sizing
	Storage          Storage `mapstructure:"storage"`  // profile persistence
	DB               DB      `mapstructure:"database"` // database configuration section
	Sync             Sync    `mapstructure:"sync"`     // remote sync endpoint
	Log              Log     `mapstructure:"log"`      // log output
	Metrics          Metrics `mapstructure:"metrics"`  // metrics endpoint
}

// Content locates the chapter manifest and chapter documents.
type Content struct {
	Dir      string `mapstructure:"dir"`      // directory with chapter documents
	Manifest string `mapstructure:"manifest"` // manifest file name inside Dir
}

// Study configures session building.
type Study struct {
	SessionSize    int `mapstructure:"session_size"`     // questions per study session
	MaxNewConcepts int `mapstructure:"max_new_concepts"` // cap of unstarted concepts per session
	ExamSize       int `mapstructure:"exam_size"`        // default exam length
}

// Storage selects the profile persistence backend.
type Storage struct {
	Driver  string `mapstructure:"driver"`   // postgres or file
	FileDir string `mapstructure:"file_dir"` // profile directory for the file driver
}

// DB contains database-related configuration parameters.
type DB struct {
	URL             string        `mapstructure:"-"`                 // database connection string loaded from environment
	MaxConnections  int           `mapstructure:"max_connections"`   // maximum number of open connections in the pool
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"` // maximum lifetime of a single connection
}

// Sync configures the remote sync endpoint. An empty URL disables syncing.
type Sync struct {
	URL      string        `mapstructure:"url"`
	Timeout  time.Duration `mapstructure:"timeout"`
	Schedule string        `mapstructure:"schedule"` // cron spec of periodic pushes
}

// Log configures log output. An empty File logs to the console only.
type Log struct {
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// Metrics configures the Prometheus endpoint. An empty Addr disables it.
type Metrics struct {
	Addr string `mapstructure:"addr"`
}

// DSN returns the database connection string if it is configured.
func (db DB) DSN() (string, error) {
	if db.URL == "" {
		return "", ErrMissingEnvironmentVariables
	}
	return db.URL, nil
}

// Load reads configuration from config files and environment variables.
func Load() (*Config, error) {
	return load("./config")
}

func load(configPath string) (*Config, error) {
	// A missing .env file is fine: variables may come from the environment.
	_ = godotenv.Load()

	// Initialize Viper instance and base config options.
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)

	// Set default values for configuration keys.
	v.SetDefault("env", "local")
	v.SetDefault("content.dir", "assets/content")
	v.SetDefault("content.manifest", "chapters.json")
	v.SetDefault("study.session_size", 10)
	v.SetDefault("study.max_new_concepts", 5)
	v.SetDefault("study.exam_size", 50)
	v.SetDefault("storage.driver", StorageDriverPostgres)
	v.SetDefault("storage.file_dir", "data/profiles")
	v.SetDefault("database.max_connections", 20)
	v.SetDefault("database.max_conn_lifetime", "30s")
	v.SetDefault("sync.url", "")
	v.SetDefault("sync.timeout", "10s")
	v.SetDefault("sync.schedule", "*/15 * * * *")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 5)
	v.SetDefault("log.max_age_days", 30)
	v.SetDefault("metrics.addr", ":9090")

	// Configure environment variable handling and key mapping.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // map nested keys to ENV style names
	v.AutomaticEnv()

	// Bind explicit environment variables to configuration keys.
	_ = v.BindEnv("telegram_api_token", "TELEGRAM_API_TOKEN")
	_ = v.BindEnv("database_url", "DATABASE_URL")
	_ = v.BindEnv("env", "APP_ENV")
	_ = v.BindEnv("sync.url", "SYNC_URL")

	// Try to read configuration file if present.
	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	// Unmarshal configuration into strongly typed struct.
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	// Load sensitive values from environment variables.
	cfg.TelegramAPIToken = v.GetString("telegram_api_token")
	if cfg.TelegramAPIToken == "" {
		return nil, ErrMissingEnvironmentVariables
	}

	cfg.DB.URL = v.GetString("database_url")

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case StorageDriverPostgres:
		if c.DB.URL == "" {
			return ErrMissingEnvironmentVariables
		}
	case StorageDriverFile:
		if c.Storage.FileDir == "" {
			return fmt.Errorf("%w: storage.file_dir is empty", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown storage driver %q", ErrInvalidConfig, c.Storage.Driver)
	}

	if c.Study.SessionSize <= 0 {
		return fmt.Errorf("%w: study.session_size must be positive", ErrInvalidConfig)
	}
	if c.Study.MaxNewConcepts < 0 {
		return fmt.Errorf("%w: study.max_new_concepts must not be negative", ErrInvalidConfig)
	}
	if c.Study.ExamSize <= 0 {
		return fmt.Errorf("%w: study.exam_size must be positive", ErrInvalidConfig)
	}
	if c.Sync.URL != "" && c.Sync.Timeout <= 0 {
		return fmt.Errorf("%w: sync.timeout must be positive", ErrInvalidConfig)
	}

	return nil
}
