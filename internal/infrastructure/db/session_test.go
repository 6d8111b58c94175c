package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pharmalink/pharmalink/internal/infrastructure/config"
	"github.com/pharmalink/pharmalink/internal/infrastructure/db/file"
	"github.com/pharmalink/pharmalink/internal/infrastructure/db/memory"
	redisstore "github.com/pharmalink/pharmalink/internal/infrastructure/db/redis"
)

func TestOpenSessionStore(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	tests := []struct {
		name  string
		cfg   config.Config
		check func(t *testing.T, s any)
	}{
		{
			name: "file",
			cfg:  config.Config{Session: config.SessionConfig{Store: config.StoreFile, File: filepath.Join(t.TempDir(), "s.json")}},
			check: func(t *testing.T, s any) {
				assert.IsType(t, &file.SessionStore{}, s)
			},
		},
		{
			name:  "memory",
			cfg:   config.Config{Session: config.SessionConfig{Store: config.StoreMemory}},
			check: func(t *testing.T, s any) { assert.IsType(t, &memory.SessionStore{}, s) },
		},
		{
			name: "redis",
			cfg: config.Config{
				Session: config.SessionConfig{Store: config.StoreRedis, Profile: "default"},
				Redis:   config.RedisConfig{Addr: mr.Addr()},
			},
			check: func(t *testing.T, s any) { assert.IsType(t, &redisstore.SessionStore{}, s) },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			store, closeFn, err := OpenSessionStore(ctx, &cfg)
			require.NoError(t, err)
			tt.check(t, store)
			assert.NoError(t, closeFn())
		})
	}
}

func TestOpenSessionStore_Errors(t *testing.T) {
	ctx := context.Background()

	_, _, err := OpenSessionStore(ctx, &config.Config{Session: config.SessionConfig{Store: "etcd"}})
	require.Error(t, err)

	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()
	_, _, err = OpenSessionStore(ctx, &config.Config{
		Session: config.SessionConfig{Store: config.StoreRedis},
		Redis:   config.RedisConfig{Addr: addr},
	})
	require.Error(t, err)
}
