package file

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionStore_RoundTripAcrossInstances(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "default.session.json")

	first := NewSessionStore(path)
	require.NoError(t, first.Save(ctx, map[string]string{
		"currentUser": `{"id":1,"role":"patient"}`,
		"accessToken": "tok1",
	}))

	second := NewSessionStore(path)
	values, err := second.Load(ctx, "currentUser", "accessToken")
	require.NoError(t, err)
	assert.Equal(t, "tok1", values["accessToken"])
	assert.Equal(t, `{"id":1,"role":"patient"}`, values["currentUser"])
	assert.Equal(t, path, second.Path())
}

func TestSessionStore_MissingFileIsEmpty(t *testing.T) {
	store := NewSessionStore(filepath.Join(t.TempDir(), "none.json"))

	values, err := store.Load(context.Background(), "currentUser")
	require.NoError(t, err)
	assert.Empty(t, values)
	assert.NoError(t, store.Remove(context.Background(), "currentUser"))
}

func TestSessionStore_RemoveDeletesEmptyDocument(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "s.json")
	store := NewSessionStore(path)

	require.NoError(t, store.Save(ctx, map[string]string{"currentUser": "{}", "accessToken": "t", "theme": "dark"}))
	require.NoError(t, store.Remove(ctx, "currentUser", "accessToken"))

	values, err := store.Load(ctx, "theme", "accessToken")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"theme": "dark"}, values)

	require.NoError(t, store.Remove(ctx, "theme"))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "empty session file should be removed")
}

func TestSessionStore_FilePermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("POSIX permissions only")
	}
	path := filepath.Join(t.TempDir(), "s.json")
	require.NoError(t, NewSessionStore(path).Save(context.Background(), map[string]string{"accessToken": "t"}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestSessionStore_CorruptFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "s.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))
	store := NewSessionStore(path)

	_, err := store.Load(ctx, "currentUser")
	require.ErrorIs(t, err, errCorrupt)

	require.NoError(t, store.Remove(ctx, "currentUser", "accessToken"))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "corrupt file should be removed")

	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))
	require.NoError(t, store.Save(ctx, map[string]string{"accessToken": "tok1"}))

	values, err := store.Load(ctx, "currentUser", "accessToken")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"accessToken": "tok1"}, values)
}
