package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/varta/internal/flagx"
	"github.com/dmitrijs2005/varta/internal/timex"
)

// JsonConfig is the on-disk shape of Config. Zero fields leave the current
// value untouched.
type JsonConfig struct {
	UserServiceURL    string         `json:"user_service_url"`
	ContentServiceURL string         `json:"content_service_url"`
	RequestTimeout    timex.Duration `json:"request_timeout"`
	MaxRetries        int            `json:"max_retries"`
	BaseDelay         timex.Duration `json:"base_delay"`
	StoreBackend      string         `json:"store"`
	SQLiteDSN         string         `json:"sqlite_dsn"`
	RedisAddr         string         `json:"redis_addr"`
	Namespace         string         `json:"namespace"`
	LogLevel          string         `json:"log_level"`
	MetricsAddr       string         `json:"metrics_addr"`
}

// parseJson overlays cfg with the file named by -c/-config. It panics on read
// or decode errors; an absent flag loads nothing.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.ConfigFileFlag()
	if jsonConfigFile == "" {
		return
	}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	jc.apply(cfg)
}

func (jc *JsonConfig) apply(cfg *Config) {
	setString(&cfg.UserServiceURL, jc.UserServiceURL)
	setString(&cfg.ContentServiceURL, jc.ContentServiceURL)
	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.MaxRetries > 0 {
		cfg.MaxRetries = jc.MaxRetries
	}
	if jc.BaseDelay.Duration > 0 {
		cfg.BaseDelay = jc.BaseDelay.Duration
	}
	setString(&cfg.StoreBackend, jc.StoreBackend)
	setString(&cfg.SQLiteDSN, jc.SQLiteDSN)
	setString(&cfg.RedisAddr, jc.RedisAddr)
	setString(&cfg.Namespace, jc.Namespace)
	setString(&cfg.LogLevel, jc.LogLevel)
	setString(&cfg.MetricsAddr, jc.MetricsAddr)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
