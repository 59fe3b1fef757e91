package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/varta/internal/flagx"
)

var knownFlags = []string{
	"-user-url", "-content-url", "-timeout", "-retries", "-base-delay",
	"-store", "-db", "-redis", "-namespace", "-log-level", "-metrics",
}

// parseFlags populates cfg from the flags listed in knownFlags; other
// arguments are filtered out so they cannot break parsing. Parse errors panic.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], knownFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.UserServiceURL, "user-url", cfg.UserServiceURL, "identity service base URL")
	fs.StringVar(&cfg.ContentServiceURL, "content-url", cfg.ContentServiceURL, "content service base URL")
	fs.DurationVar(&cfg.RequestTimeout, "timeout", cfg.RequestTimeout, "per-attempt request timeout")
	fs.IntVar(&cfg.MaxRetries, "retries", cfg.MaxRetries, "attempts for idempotent calls")
	fs.DurationVar(&cfg.BaseDelay, "base-delay", cfg.BaseDelay, "delay after the first failed attempt")
	fs.StringVar(&cfg.StoreBackend, "store", cfg.StoreBackend, "credential store backend: sqlite, memory, redis")
	fs.StringVar(&cfg.SQLiteDSN, "db", cfg.SQLiteDSN, "SQLite database file")
	fs.StringVar(&cfg.RedisAddr, "redis", cfg.RedisAddr, "redis address")
	fs.StringVar(&cfg.Namespace, "namespace", cfg.Namespace, "prefix of persisted credential keys")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.MetricsAddr, "metrics", cfg.MetricsAddr, "address serving /metrics")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
