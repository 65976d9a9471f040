package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sadopc/efficia/internal/store"
	"github.com/spf13/viper"
)

// Config holds the complete application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	API      APIConfig      `mapstructure:"api"`
	Tracker  TrackerConfig  `mapstructure:"tracker"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// ServerConfig defines the REST listener
type ServerConfig struct {
	BindAddress     string        `mapstructure:"bind_address"`
	Port            int           `mapstructure:"port"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
	BodyLimit       string        `mapstructure:"body_limit"`
	RateLimit       float64       `mapstructure:"rate_limit"` // requests per second, 0 disables
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DatabaseConfig defines where samples are persisted
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// APIConfig defines listing limits
type APIConfig struct {
	DefaultLimit int `mapstructure:"default_limit"`
	MaxLimit     int `mapstructure:"max_limit"`
}

// TrackerConfig defines the foreground window poller
type TrackerConfig struct {
	APIURL         string        `mapstructure:"api_url"`
	Interval       time.Duration `mapstructure:"interval"`
	IdleThreshold  time.Duration `mapstructure:"idle_threshold"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// LoggingConfig defines logging behavior
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json, text or auto
}

// Addr returns the listen address for the REST server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.BindAddress, s.Port)
}

// DefaultPath returns ~/.config/efficia/config.yaml
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(dir, "efficia", "config.yaml")
}

// Load loads configuration from file and environment variables. A missing
// file is not an error.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("EFFICIA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.bind_address", "127.0.0.1")
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.body_limit", "64K")
	v.SetDefault("server.rate_limit", 0)
	v.SetDefault("server.shutdown_timeout", "10s")

	dbPath, err := store.DefaultDBPath()
	if err != nil {
		dbPath = "efficia.db"
	}
	v.SetDefault("database.path", dbPath)

	v.SetDefault("api.default_limit", 100)
	v.SetDefault("api.max_limit", 1000)

	v.SetDefault("tracker.api_url", "http://127.0.0.1:8000")
	v.SetDefault("tracker.interval", "5s")
	v.SetDefault("tracker.idle_threshold", "60s")
	v.SetDefault("tracker.request_timeout", "3s")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "auto")
}

func validate(cfg *Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", cfg.Server.Port)
	}
	if cfg.Database.Path == "" {
		return fmt.Errorf("database path is required")
	}
	if cfg.API.DefaultLimit <= 0 {
		return fmt.Errorf("api.default_limit must be positive")
	}
	if cfg.API.MaxLimit < cfg.API.DefaultLimit {
		return fmt.Errorf("api.max_limit (%d) is below api.default_limit (%d)", cfg.API.MaxLimit, cfg.API.DefaultLimit)
	}
	if cfg.Tracker.Interval < time.Second {
		return fmt.Errorf("tracker.interval must be at least 1s, got %s", cfg.Tracker.Interval)
	}
	if u, err := url.Parse(cfg.Tracker.APIURL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid tracker.api_url %q", cfg.Tracker.APIURL)
	}

	switch cfg.Logging.Format {
	case "json", "text", "auto":
	default:
		return fmt.Errorf("unknown logging format %q", cfg.Logging.Format)
	}
	return nil
}
