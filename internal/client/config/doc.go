// Package config loads runtime configuration for the Varta client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config.
//  3. Environment variables VARTA_*, including those from a ./.env file.
//  4. Command-line flags, which override everything else.
//
// Supported flags
//
//	-user-url string      base URL of the identity service
//	-content-url string   base URL of the content service
//	-timeout duration     per-attempt request timeout
//	-retries int          attempts for idempotent calls
//	-base-delay duration  delay after the first failed attempt
//	-store string         sqlite | memory | redis
//	-db string            SQLite file
//	-redis string         redis address
//	-namespace string     prefix of persisted credential keys
//	-log-level string     debug | info | warn | error
//	-metrics string       address serving /metrics (empty disables)
//
// # JSON schema
//
// Durations accept strings like "1s" or integer nanoseconds:
//
//	{
//	  "user_service_url": "http://localhost:8080/api/users",
//	  "content_service_url": "http://localhost:8080/api/content",
//	  "request_timeout": "30s",
//	  "max_retries": 3,
//	  "base_delay": "1s",
//	  "store": "sqlite",
//	  "sqlite_dsn": "varta.db",
//	  "redis_addr": "127.0.0.1:6379",
//	  "namespace": "varta",
//	  "log_level": "info",
//	  "metrics_addr": ""
//	}
package config
