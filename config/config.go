package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Log      LogConfig      `yaml:"log"`
	Outlets  []OutletConfig `yaml:"outlets"`
	Client   ClientConfig   `yaml:"client"`
	Tracker  TrackerConfig  `yaml:"tracker"`
}

// ServerConfig holds the server-related configuration.
type ServerConfig struct {
	Port               int           `yaml:"port"`
	RateLimitPerSec    float64       `yaml:"rate_limit_per_sec"`
	RateLimitBurst     int           `yaml:"rate_limit_burst"`
	CacheTTLSeconds    int           `yaml:"cache_ttl_seconds"`
	CacheTTL           time.Duration `yaml:"-"` // Ignored by YAML parser
	CORSAllowedOrigins []string      `yaml:"cors_allowed_origins"`
	Timezone           string        `yaml:"timezone"`
}

// DatabaseConfig holds the database connection configuration.
type DatabaseConfig struct {
	Driver                 string `yaml:"driver"` // postgres or sqlite
	DSN                    string `yaml:"dsn"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
}

// RedisConfig configures the wash-request status cache. An empty Addr disables it.
type RedisConfig struct {
	Addr             string        `yaml:"addr"`
	Password         string        `yaml:"password"`
	DB               int           `yaml:"db"`
	StatusTTLSeconds int           `yaml:"status_ttl_seconds"`
	StatusTTL        time.Duration `yaml:"-"`
}

// LogConfig selects the zap logger flavour.
type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// OutletConfig seeds an outlet and its tariff at startup.
type OutletConfig struct {
	ID      string           `yaml:"id"`
	Name    string           `yaml:"name"`
	Address string           `yaml:"address"`
	Prices  map[string]int64 `yaml:"prices"` // wash type -> amount
}

// ClientConfig holds the settings for the REST client used by the booking CLI.
type ClientConfig struct {
	BaseURL        string        `yaml:"base_url"`
	TimeoutSeconds int           `yaml:"timeout_seconds"`
	Timeout        time.Duration `yaml:"-"`
	HTTPProxy      string        `yaml:"http_proxy"`
	RequestsPerSec float64       `yaml:"requests_per_sec"`
}

// TrackerConfig holds the wash-request status poller settings.
type TrackerConfig struct {
	IntervalSeconds int              `yaml:"interval_seconds"`
	Interval        time.Duration    `yaml:"-"`
	WorkerPool      WorkerPoolConfig `yaml:"worker_pool"`
}

// WorkerPoolConfig holds the configuration for the tracker worker pool.
type WorkerPoolConfig struct {
	Size int `yaml:"size"`
}

// Load reads the configuration from the given path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	cfg.ApplyDefaults()
	return &cfg, nil
}

// ApplyDefaults fills in zero values and derives the duration fields.
func (cfg *Config) ApplyDefaults() {
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.RateLimitPerSec <= 0 {
		cfg.Server.RateLimitPerSec = 10
	}
	if cfg.Server.RateLimitBurst <= 0 {
		cfg.Server.RateLimitBurst = 5
	}
	if cfg.Server.CacheTTLSeconds <= 0 {
		cfg.Server.CacheTTLSeconds = 300
	}
	cfg.Server.CacheTTL = time.Duration(cfg.Server.CacheTTLSeconds) * time.Second
	if cfg.Server.Timezone == "" {
		cfg.Server.Timezone = "UTC"
	}

	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "postgres"
	}

	if cfg.Redis.StatusTTLSeconds <= 0 {
		cfg.Redis.StatusTTLSeconds = 15
	}
	cfg.Redis.StatusTTL = time.Duration(cfg.Redis.StatusTTLSeconds) * time.Second

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	if cfg.Client.BaseURL == "" {
		cfg.Client.BaseURL = "http://localhost:8080"
	}
	if cfg.Client.TimeoutSeconds <= 0 {
		cfg.Client.TimeoutSeconds = 30
	}
	cfg.Client.Timeout = time.Duration(cfg.Client.TimeoutSeconds) * time.Second
	if cfg.Client.RequestsPerSec <= 0 {
		cfg.Client.RequestsPerSec = 5
	}

	if cfg.Tracker.IntervalSeconds <= 0 {
		cfg.Tracker.IntervalSeconds = 30
	}
	cfg.Tracker.Interval = time.Duration(cfg.Tracker.IntervalSeconds) * time.Second

	if cfg.Tracker.WorkerPool.Size <= 0 {
		log.Printf("tracker.worker_pool.size is not set or invalid; defaulting to 1")
		cfg.Tracker.WorkerPool.Size = 1
	}
}
