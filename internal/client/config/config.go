package config

import (
	"time"

	"github.com/dmitrijs2005/varta/internal/client/backoff"
)

// Store backends.
const (
	StoreSQLite = "sqlite"
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

// DefaultRequestTimeout bounds every single attempt.
const DefaultRequestTimeout = 30 * time.Second

// Config holds runtime settings for the Varta client.
type Config struct {
	UserServiceURL    string
	ContentServiceURL string

	// RequestTimeout applies per attempt, not per call.
	RequestTimeout time.Duration
	MaxRetries     int
	BaseDelay      time.Duration

	StoreBackend string
	SQLiteDSN    string
	RedisAddr    string
	// Namespace prefixes persisted keys: <ns>_token, <ns>_user.
	Namespace string

	LogLevel    string
	MetricsAddr string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.UserServiceURL = "http://localhost:8080/api/users"
	c.ContentServiceURL = "http://localhost:8080/api/content"
	c.RequestTimeout = DefaultRequestTimeout
	c.MaxRetries = backoff.DefaultMaxRetries
	c.BaseDelay = backoff.DefaultBaseDelay
	c.StoreBackend = StoreSQLite
	c.SQLiteDSN = "varta.db"
	c.RedisAddr = "127.0.0.1:6379"
	c.Namespace = "varta"
	c.LogLevel = "info"
	c.MetricsAddr = ""
}

// Backoff is the retry policy described by c.
func (c *Config) Backoff() backoff.Policy {
	return backoff.Policy{MaxRetries: c.MaxRetries, BaseDelay: c.BaseDelay}
}

// LoadConfig constructs a Config, applies defaults, then overlays the JSON
// file (if any), VARTA_* environment variables and command-line flags.
// Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
