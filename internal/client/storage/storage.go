// Package storage opens the key/value backend selected by configuration.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/varta/internal/client/config"
	"github.com/dmitrijs2005/varta/internal/client/repositories/metadata"
	"github.com/redis/go-redis/v9"
)

var ErrUnknownBackend = errors.New("unknown store backend")

// Backend is an opened repository plus the function releasing it.
type Backend struct {
	Repository metadata.Repository
	Close      func() error
}

// Open builds the repository named by cfg.StoreBackend.
func Open(ctx context.Context, cfg *config.Config) (*Backend, error) {
	switch cfg.StoreBackend {
	case config.StoreMemory:
		return &Backend{
			Repository: metadata.NewMemoryRepository(),
			Close:      func() error { return nil },
		}, nil

	case config.StoreSQLite:
		db, err := InitDatabase(ctx, cfg.SQLiteDSN)
		if err != nil {
			return nil, fmt.Errorf("error initializing database: %w", err)
		}
		return &Backend{Repository: metadata.NewSQLiteRepository(db), Close: db.Close}, nil

	case config.StoreRedis:
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, fmt.Errorf("redis unavailable: %w", err)
		}
		return &Backend{Repository: metadata.NewRedisRepository(rdb, cfg.Namespace), Close: rdb.Close}, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.StoreBackend)
	}
}
