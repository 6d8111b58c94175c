// Package db selects and opens the session store named by configuration.
package db

import (
	"context"
	"fmt"

	"github.com/pharmalink/pharmalink/internal/core/ports"
	"github.com/pharmalink/pharmalink/internal/infrastructure/config"
	"github.com/pharmalink/pharmalink/internal/infrastructure/db/file"
	"github.com/pharmalink/pharmalink/internal/infrastructure/db/memory"
	redisstore "github.com/pharmalink/pharmalink/internal/infrastructure/db/redis"
)

// OpenSessionStore returns the configured store and a function releasing
// whatever connection it holds.
func OpenSessionStore(ctx context.Context, cfg *config.Config) (ports.SessionStore, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Session.Store {
	case config.StoreFile:
		return file.NewSessionStore(cfg.Session.File), noop, nil
	case config.StoreMemory:
		return memory.NewSessionStore(), noop, nil
	case config.StoreRedis:
		client, err := redisstore.Connect(ctx, redisstore.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("open session store: %w", err)
		}
		return redisstore.NewSessionStore(client, cfg.RedisPrefix(), cfg.Session.TTL), client.Close, nil
	default:
		return nil, nil, fmt.Errorf("open session store: unknown backend %q", cfg.Session.Store)
	}
}
