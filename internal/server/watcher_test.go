package server

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirWatcher_TracksCreateAndRemove(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "existing.mp4")
	require.NoError(t, os.WriteFile(existing, []byte("x"), 0o644))

	registry := NewRegistry(nil)
	w, err := NewDirWatcher(dir, registry, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	_, ok := registry.Lookup("existing")
	assert.True(t, ok)

	added := filepath.Join(dir, "added.mkv")
	require.NoError(t, os.WriteFile(added, []byte("x"), 0o644))
	assert.Eventually(t, func() bool {
		_, ok := registry.Lookup("added")
		return ok
	}, 2*time.Second, 20*time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("x"), 0o644))

	require.NoError(t, os.Remove(existing))
	assert.Eventually(t, func() bool {
		_, ok := registry.Lookup("existing")
		return !ok
	}, 2*time.Second, 20*time.Millisecond)

	_, ok = registry.Lookup("readme")
	assert.False(t, ok)
}
