package auth

import (
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giantswarm/linkedin-mcp/internal/storage"
)

func TestTokenWatcher_InvalidatesOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "token.json")
	record := storage.NewFileRecord(path)
	store := NewTokenStore(record)

	_, err := store.AccessToken()
	require.ErrorIs(t, err, ErrNotAuthenticated)

	changed := make(chan struct{}, 4)
	w := NewTokenWatcher(store, path, func() { changed <- struct{}{} })
	w.debounce = 20 * time.Millisecond
	require.NoError(t, w.Start())
	t.Cleanup(w.Stop)

	data, err := json.Marshal(NewTokenRecord("fresh", 3600, time.Now()))
	require.NoError(t, err)
	require.NoError(t, record.Set(data))

	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not report the token change")
	}

	token, err := store.AccessToken()
	require.NoError(t, err)
	assert.Equal(t, "fresh", token)
}

func TestTokenWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "token.json")
	store := NewTokenStore(storage.NewFileRecord(path))

	changed := make(chan struct{}, 1)
	w := NewTokenWatcher(store, path, func() { changed <- struct{}{} })
	w.debounce = 20 * time.Millisecond
	require.NoError(t, w.Start())
	t.Cleanup(w.Stop)

	require.NoError(t, storage.NewFileRecord(filepath.Join(dir, "credentials.json")).Set([]byte("{}")))

	select {
	case <-changed:
		t.Fatal("unrelated file triggered invalidation")
	case <-time.After(300 * time.Millisecond):
	}
}

func TestTokenWatcher_StartStopIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	w := NewTokenWatcher(NewTokenStore(storage.NewFileRecord(path)), path, nil)

	require.NoError(t, w.Start())
	require.NoError(t, w.Start())
	w.Stop()
	w.Stop()
}
