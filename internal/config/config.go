package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/pfrederiksen/webutils/internal/logger"
	"github.com/pfrederiksen/webutils/internal/storage"
)

// EnvPrefix prefixes every environment variable read by Load
const EnvPrefix = "WEBUTILS_"

// Session backends
const (
	SessionMemory = "memory"
	SessionRedis  = "redis"
)

// Config holds all webutils settings
type Config struct {
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL"`

	// Location is the page address query parameters are read from
	Location string `yaml:"location" env:"LOCATION"`

	HTTP    HTTPConfig    `yaml:"http" envPrefix:"HTTP_"`
	Storage StorageConfig `yaml:"storage" envPrefix:"STORAGE_"`
	Redis   RedisConfig   `yaml:"redis" envPrefix:"REDIS_"`
}

// HTTPConfig configures the JSON request client
type HTTPConfig struct {
	BaseURL string        `yaml:"base_url" env:"BASE_URL"`
	Timeout time.Duration `yaml:"timeout" env:"TIMEOUT"`
}

// StorageConfig selects and configures storage backends
type StorageConfig struct {
	Strategy       string        `yaml:"strategy" env:"STRATEGY"`
	SessionBackend string        `yaml:"session_backend" env:"SESSION_BACKEND"`
	SessionID      string        `yaml:"session_id" env:"SESSION_ID"`
	SessionTTL     time.Duration `yaml:"session_ttl" env:"SESSION_TTL"`

	// CookieURL scopes cookie storage; empty uses Location like a browser page
	CookieURL string `yaml:"cookie_url" env:"COOKIE_URL"`
	DataDir   string `yaml:"data_dir" env:"DATA_DIR"`
}

// RedisConfig holds Redis connection settings for the redis session backend
type RedisConfig struct {
	Addr     string `yaml:"addr" env:"ADDR"`
	Password string `yaml:"password" env:"PASSWORD"`
	DB       int    `yaml:"db" env:"DB"`
}

// Default returns the built-in settings
func Default() *Config {
	return &Config{
		LogLevel: "info",
		Location: "http://localhost/",
		HTTP: HTTPConfig{
			Timeout: 30 * time.Second,
		},
		Storage: StorageConfig{
			Strategy:       string(storage.StrategySession),
			SessionBackend: SessionMemory,
			SessionTTL:     storage.DefaultSessionTTL,
			DataDir:        storage.DefaultDataDir,
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
		},
	}
}

// Options controls where Load looks for settings
type Options struct {
	// ConfigFile is a YAML file; empty skips it
	ConfigFile string

	// EnvFile is a dotenv file; a missing file is ignored
	EnvFile string
}

// Load builds a Config from defaults, files and the environment
func Load(opts Options) (*Config, error) {
	cfg := Default()

	if opts.ConfigFile != "" {
		if err := cfg.loadYAML(opts.ConfigFile); err != nil {
			return nil, err
		}
	}

	if opts.EnvFile != "" {
		if err := godotenv.Load(opts.EnvFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("loading env file: %w", err)
		}
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if cfg.Storage.SessionID == "" {
		cfg.Storage.SessionID = uuid.NewString()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c *Config) loadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

// CookieOrigin is the URL cookie storage is scoped to
func (c *Config) CookieOrigin() string {
	if c.Storage.CookieURL != "" {
		return c.Storage.CookieURL
	}
	return c.Location
}

// Validate checks that the settings are usable
func (c *Config) Validate() error {
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return err
	}

	if c.HTTP.BaseURL != "" {
		if err := requireAbsoluteURL("http base url", c.HTTP.BaseURL); err != nil {
			return err
		}
	}
	if c.HTTP.Timeout < 0 {
		return fmt.Errorf("http timeout must not be negative: %s", c.HTTP.Timeout)
	}

	if _, err := storage.ParseStrategy(c.Storage.Strategy); err != nil {
		return err
	}
	switch strings.ToLower(c.Storage.SessionBackend) {
	case SessionMemory, SessionRedis:
	default:
		return fmt.Errorf("invalid session backend: %s (must be memory or redis)", c.Storage.SessionBackend)
	}
	if c.Storage.SessionTTL <= 0 {
		return fmt.Errorf("session ttl must be positive: %s", c.Storage.SessionTTL)
	}
	if err := requireAbsoluteURL("cookie url", c.CookieOrigin()); err != nil {
		return err
	}
	if c.Storage.DataDir == "" {
		return errors.New("data dir is required")
	}

	if strings.EqualFold(c.Storage.SessionBackend, SessionRedis) && c.Redis.Addr == "" {
		return errors.New("redis address is required for the redis session backend")
	}
	if c.Redis.DB < 0 {
		return fmt.Errorf("invalid redis db: %d", c.Redis.DB)
	}

	return nil
}

func requireAbsoluteURL(name, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", name, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return fmt.Errorf("invalid %s: %q (must be an absolute http or https url)", name, raw)
	}
	return nil
}
