package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(Options{})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
	if cfg.Storage.Strategy != "session" {
		t.Errorf("Strategy = %q, want session", cfg.Storage.Strategy)
	}
	if cfg.Storage.SessionBackend != SessionMemory {
		t.Errorf("SessionBackend = %q, want memory", cfg.Storage.SessionBackend)
	}
	if cfg.Storage.SessionID == "" {
		t.Error("SessionID should be generated")
	}
	if cfg.HTTP.Timeout != 30*time.Second {
		t.Errorf("Timeout = %s, want 30s", cfg.HTTP.Timeout)
	}
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "webutils.yaml", `
log_level: debug
location: https://shop.example.com/items?id=7
http:
  base_url: https://api.example.com/
  timeout: 5s
storage:
  strategy: cookie
  session_id: fixed-session
  session_ttl: 1h
redis:
  addr: cache:6379
  db: 2
`)

	cfg, err := Load(Options{ConfigFile: path})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	if cfg.Location != "https://shop.example.com/items?id=7" {
		t.Errorf("Location = %q", cfg.Location)
	}
	if cfg.HTTP.BaseURL != "https://api.example.com/" {
		t.Errorf("BaseURL = %q", cfg.HTTP.BaseURL)
	}
	if cfg.HTTP.Timeout != 5*time.Second {
		t.Errorf("Timeout = %s, want 5s", cfg.HTTP.Timeout)
	}
	if cfg.Storage.Strategy != "cookie" {
		t.Errorf("Strategy = %q, want cookie", cfg.Storage.Strategy)
	}
	if cfg.Storage.SessionID != "fixed-session" {
		t.Errorf("SessionID = %q, want fixed-session", cfg.Storage.SessionID)
	}
	if cfg.Storage.SessionTTL != time.Hour {
		t.Errorf("SessionTTL = %s, want 1h", cfg.Storage.SessionTTL)
	}
	if cfg.Redis.Addr != "cache:6379" || cfg.Redis.DB != 2 {
		t.Errorf("Redis = %+v", cfg.Redis)
	}
	// Cookies follow the page when no cookie url is set
	if cfg.CookieOrigin() != "https://shop.example.com/items?id=7" {
		t.Errorf("CookieOrigin() = %q, want the location", cfg.CookieOrigin())
	}
}

func TestEnvironmentOverridesFile(t *testing.T) {
	path := writeFile(t, "webutils.yaml", "log_level: debug\nstorage:\n  strategy: cookie\n")

	t.Setenv("WEBUTILS_LOG_LEVEL", "warn")
	t.Setenv("WEBUTILS_STORAGE_STRATEGY", "local")
	t.Setenv("WEBUTILS_HTTP_TIMEOUT", "2s")
	t.Setenv("WEBUTILS_REDIS_DB", "4")

	cfg, err := Load(Options{ConfigFile: path})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, want warn", cfg.LogLevel)
	}
	if cfg.Storage.Strategy != "local" {
		t.Errorf("Strategy = %q, want local", cfg.Storage.Strategy)
	}
	if cfg.HTTP.Timeout != 2*time.Second {
		t.Errorf("Timeout = %s, want 2s", cfg.HTTP.Timeout)
	}
	if cfg.Redis.DB != 4 {
		t.Errorf("Redis.DB = %d, want 4", cfg.Redis.DB)
	}
}

func TestLoadEnvFile(t *testing.T) {
	// Registered so t.Setenv restores the variable after godotenv sets it
	t.Setenv("WEBUTILS_STORAGE_SESSION_ID", "")
	os.Unsetenv("WEBUTILS_STORAGE_SESSION_ID")

	path := writeFile(t, ".env", "WEBUTILS_STORAGE_SESSION_ID=from-dotenv\n")

	cfg, err := Load(Options{EnvFile: path})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Storage.SessionID != "from-dotenv" {
		t.Errorf("SessionID = %q, want from-dotenv", cfg.Storage.SessionID)
	}
}

func TestLoadMissingEnvFileIgnored(t *testing.T) {
	if _, err := Load(Options{EnvFile: filepath.Join(t.TempDir(), ".env")}); err != nil {
		t.Errorf("Load() with a missing env file error = %v", err)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "bad yaml",
			yaml:    "storage: [not, a, map]",
			wantErr: "parsing config file",
		},
		{
			name:    "bad duration in environment",
			env:     map[string]string{"WEBUTILS_HTTP_TIMEOUT": "soon"},
			wantErr: "failed to parse environment",
		},
		{
			name:    "unknown strategy",
			env:     map[string]string{"WEBUTILS_STORAGE_STRATEGY": "indexeddb"},
			wantErr: "unknown storage strategy",
		},
		{
			name:    "unknown log level",
			yaml:    "log_level: loud",
			wantErr: "invalid log level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			opts := Options{}
			if tt.yaml != "" {
				opts.ConfigFile = writeFile(t, "webutils.yaml", tt.yaml)
			}

			_, err := Load(opts)
			if err == nil {
				t.Fatalf("Load() should fail")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Load() error = %v, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadMissingConfigFile(t *testing.T) {
	_, err := Load(Options{ConfigFile: filepath.Join(t.TempDir(), "nope.yaml")})
	if err == nil || !strings.Contains(err.Error(), "reading config file") {
		t.Errorf("Load() error = %v, want a read error", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"redis backend", func(c *Config) { c.Storage.SessionBackend = SessionRedis }, false},
		{"redis backend without address", func(c *Config) {
			c.Storage.SessionBackend = SessionRedis
			c.Redis.Addr = ""
		}, true},
		{"unknown session backend", func(c *Config) { c.Storage.SessionBackend = "memcached" }, true},
		{"relative base url", func(c *Config) { c.HTTP.BaseURL = "/api" }, true},
		{"ftp cookie url", func(c *Config) { c.Storage.CookieURL = "ftp://files.example.com/" }, true},
		{"relative location without cookie url", func(c *Config) { c.Location = "/items" }, true},
		{"relative location with cookie url", func(c *Config) {
			c.Location = "/items"
			c.Storage.CookieURL = "https://shop.test/"
		}, false},
		{"negative timeout", func(c *Config) { c.HTTP.Timeout = -time.Second }, true},
		{"zero session ttl", func(c *Config) { c.Storage.SessionTTL = 0 }, true},
		{"empty data dir", func(c *Config) { c.Storage.DataDir = "" }, true},
		{"negative redis db", func(c *Config) { c.Redis.DB = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCookieOrigin(t *testing.T) {
	cfg := Default()
	cfg.Location = "https://shop.test/cart"
	if got := cfg.CookieOrigin(); got != "https://shop.test/cart" {
		t.Errorf("CookieOrigin() = %q, want the location", got)
	}

	cfg.Storage.CookieURL = "https://cookies.test/"
	if got := cfg.CookieOrigin(); got != "https://cookies.test/" {
		t.Errorf("CookieOrigin() = %q, want the explicit cookie url", got)
	}
}
