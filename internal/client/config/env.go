package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// envFile is loaded, when present, before the environment is read. Variables
// already set in the process win over the file.
var envFile = ".env"

// parseEnv overlays cfg with VARTA_* variables. Malformed numbers and
// durations panic, like malformed JSON does.
func parseEnv(cfg *Config) {
	if _, err := os.Stat(envFile); err == nil {
		if err := godotenv.Load(envFile); err != nil {
			panic(err)
		}
	}

	envString(&cfg.UserServiceURL, "VARTA_USER_SERVICE_URL")
	envString(&cfg.ContentServiceURL, "VARTA_CONTENT_SERVICE_URL")
	envDuration(&cfg.RequestTimeout, "VARTA_REQUEST_TIMEOUT")
	envInt(&cfg.MaxRetries, "VARTA_MAX_RETRIES")
	envDuration(&cfg.BaseDelay, "VARTA_BASE_DELAY")
	envString(&cfg.StoreBackend, "VARTA_STORE")
	envString(&cfg.SQLiteDSN, "VARTA_SQLITE_DSN")
	envString(&cfg.RedisAddr, "VARTA_REDIS_ADDR")
	envString(&cfg.Namespace, "VARTA_NAMESPACE")
	envString(&cfg.LogLevel, "VARTA_LOG_LEVEL")
	envString(&cfg.MetricsAddr, "VARTA_METRICS_ADDR")
}

func envString(dst *string, name string) {
	if v, ok := os.LookupEnv(name); ok && v != "" {
		*dst = v
	}
}

func envInt(dst *int, name string) {
	v, ok := os.LookupEnv(name)
	if !ok || v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		panic(fmt.Errorf("%s: %w", name, err))
	}
	*dst = n
}

func envDuration(dst *time.Duration, name string) {
	v, ok := os.LookupEnv(name)
	if !ok || v == "" {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		panic(fmt.Errorf("%s: %w", name, err))
	}
	*dst = d
}
