package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the full application configuration. Values come from defaults,
// then an optional YAML file, then .env files, then the process environment.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Store  StoreConfig  `yaml:"store"`
	Redis  RedisConfig  `yaml:"redis"`
	Kafka  KafkaConfig  `yaml:"kafka"`
	Client ClientConfig `yaml:"client"`
	Draft  DraftConfig  `yaml:"draft"`
	Stats  StatsConfig  `yaml:"stats"`
	Log    LogConfig    `yaml:"log"`
}

// ServerConfig captures HTTP server level configuration.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	Seed            bool          `yaml:"seed"`
}

// StoreConfig selects the country store backend.
type StoreConfig struct {
	Driver       string `yaml:"driver"` // memory, sqlite or postgres
	DSN          string `yaml:"dsn"`
	MaxOpenConns int    `yaml:"max_open_conns"`
}

// RedisConfig configures the optional Redis connection. An empty URL disables it.
type RedisConfig struct {
	URL          string        `yaml:"url"`
	PoolSize     int           `yaml:"pool_size"`
	MinIdleConns int           `yaml:"min_idle_conns"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	DraftPrefix  string        `yaml:"draft_prefix"`
}

// KafkaConfig configures the audit event publisher. No brokers disables it.
type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

// ClientConfig is used by countryctl to reach the API.
type ClientConfig struct {
	BaseURL string `yaml:"base_url"`
}

// DraftConfig configures the add-form draft cache.
type DraftConfig struct {
	Dir      string        `yaml:"dir"`
	Debounce time.Duration `yaml:"debounce"`
}

// StatsConfig configures the statistics poller.
type StatsConfig struct {
	PollInterval time.Duration `yaml:"poll_interval"`
}

// LogConfig configures the slog handler.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // json or text
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ShutdownTimeout: 10 * time.Second,
			Seed:            true,
		},
		Store: StoreConfig{
			Driver:       "memory",
			MaxOpenConns: 10,
		},
		Redis: RedisConfig{
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
			DraftPrefix:  "countries:",
		},
		Kafka: KafkaConfig{
			Topic: "countries.audit",
		},
		Client: ClientConfig{
			BaseURL: "http://localhost:8080",
		},
		Draft: DraftConfig{
			Dir:      defaultDraftDir(),
			Debounce: 2 * time.Second,
		},
		Stats: StatsConfig{
			PollInterval: 30 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// FromEnv builds a Config from defaults and environment variables only.
func FromEnv() Config {
	cfg := Default()
	applyEnv(&cfg)
	return cfg
}

// Load reads the YAML file at path (if non-empty), then any .env files, then
// the environment. Missing .env files are ignored.
func Load(path string, envFiles ...string) (Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load env file %s: %w", f, err)
		}
	}

	applyEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail late at startup.
func (c Config) Validate() error {
	switch c.Store.Driver {
	case "memory":
	case "sqlite", "postgres":
		if c.Store.DSN == "" {
			return fmt.Errorf("store driver %q requires a dsn", c.Store.Driver)
		}
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}
	if c.Draft.Debounce <= 0 {
		return errors.New("draft debounce must be positive")
	}
	if c.Stats.PollInterval <= 0 {
		return errors.New("stats poll interval must be positive")
	}
	return nil
}

func applyEnv(cfg *Config) {
	setString(&cfg.Server.Addr, "COUNTRIES_ADDR")
	setBool(&cfg.Server.Seed, "COUNTRIES_SEED")
	setString(&cfg.Store.Driver, "COUNTRIES_STORE_DRIVER")
	setString(&cfg.Store.DSN, "COUNTRIES_STORE_DSN")
	setString(&cfg.Redis.URL, "REDIS_URL")
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		cfg.Kafka.Brokers = splitList(v)
	}
	setString(&cfg.Kafka.Topic, "KAFKA_TOPIC")
	setString(&cfg.Client.BaseURL, "COUNTRIES_API_URL")
	setString(&cfg.Draft.Dir, "COUNTRIES_DRAFT_DIR")
	setDuration(&cfg.Stats.PollInterval, "COUNTRIES_STATS_POLL_INTERVAL")
	setString(&cfg.Log.Level, "LOG_LEVEL")
	setString(&cfg.Log.Format, "LOG_FORMAT")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func defaultDraftDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return dir + string(os.PathSeparator) + "countryctl"
	}
	return ".countryctl"
}
