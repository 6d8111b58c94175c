package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStore(t *testing.T, ttl time.Duration) (*SessionStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)

	client, err := Connect(context.Background(), Config{Addr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return NewSessionStore(client, "pharmalink:test:", ttl), mr
}

func TestSessionStore_SaveLoadRemove(t *testing.T) {
	ctx := context.Background()
	store, mr := setupStore(t, 0)

	err := store.Save(ctx, map[string]string{
		"currentUser": `{"id":1,"name":"John Patient","role":"patient"}`,
		"accessToken": "tok1",
	})
	require.NoError(t, err)

	got, err := mr.Get("pharmalink:test:accessToken")
	require.NoError(t, err)
	assert.Equal(t, "tok1", got)

	values, err := store.Load(ctx, "currentUser", "accessToken", "missing")
	require.NoError(t, err)
	assert.Equal(t, "tok1", values["accessToken"])
	assert.Contains(t, values["currentUser"], "John Patient")
	assert.NotContains(t, values, "missing")

	require.NoError(t, store.Remove(ctx, "currentUser", "accessToken"))
	values, err = store.Load(ctx, "currentUser", "accessToken")
	require.NoError(t, err)
	assert.Empty(t, values)
	assert.False(t, mr.Exists("pharmalink:test:currentUser"))
}

func TestSessionStore_TTL(t *testing.T) {
	ctx := context.Background()
	store, mr := setupStore(t, time.Hour)

	require.NoError(t, store.Save(ctx, map[string]string{"accessToken": "tok1"}))
	assert.Equal(t, time.Hour, mr.TTL("pharmalink:test:accessToken"))

	mr.FastForward(2 * time.Hour)
	values, err := store.Load(ctx, "accessToken")
	require.NoError(t, err)
	assert.Empty(t, values)
}

func TestSessionStore_PrefixIsolation(t *testing.T) {
	ctx := context.Background()
	store, mr := setupStore(t, 0)
	require.NoError(t, mr.Set("pharmalink:other:accessToken", "someone-else"))

	values, err := store.Load(ctx, "accessToken")
	require.NoError(t, err)
	assert.Empty(t, values)
}

func TestSessionStore_EmptyCalls(t *testing.T) {
	ctx := context.Background()
	store, _ := setupStore(t, 0)

	values, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, values)
	assert.NoError(t, store.Save(ctx, nil))
	assert.NoError(t, store.Remove(ctx))
}

func TestConnect_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := Connect(context.Background(), Config{Addr: addr, Timeout: 200 * time.Millisecond})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis ping")
}

func TestSessionStore_LoadFailsWhenServerDown(t *testing.T) {
	store, mr := setupStore(t, 0)
	mr.Close()

	_, err := store.Load(context.Background(), "accessToken")
	require.Error(t, err)
}

func TestConnect_URL(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	client, err := Connect(ctx, Config{Addr: "redis://" + mr.Addr() + "/2"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	store := NewSessionStore(client, "pharmalink:url:", 0)
	require.NoError(t, store.Save(ctx, map[string]string{"accessToken": "tok1"}))

	mr.Select(2)
	got, err := mr.Get("pharmalink:url:accessToken")
	require.NoError(t, err)
	assert.Equal(t, "tok1", got)

	_, err = Connect(ctx, Config{Addr: "redis://" + mr.Addr() + "/not-a-db"})
	require.Error(t, err)
}
