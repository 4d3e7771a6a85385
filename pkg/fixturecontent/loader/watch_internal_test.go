package loader

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchCreated_LogsFailure(t *testing.T) {
	var buf bytes.Buffer
	previous := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	defer slog.SetDefault(previous)

	dir := filepath.Join(t.TempDir(), "content")
	require.NoError(t, os.MkdirAll(dir, 0o755))

	watcher, err := fsnotify.NewWatcher()
	require.NoError(t, err)
	require.NoError(t, watcher.Close())

	watchCreated(watcher, dir)

	assert.Contains(t, buf.String(), "Unable to watch new fixture path")
	assert.Contains(t, buf.String(), dir)
}

func TestWatchCreated_AddsDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "content")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "home"), 0o755))

	watcher, err := fsnotify.NewWatcher()
	require.NoError(t, err)
	defer watcher.Close()

	watchCreated(watcher, dir)

	assert.ElementsMatch(t, []string{dir, filepath.Join(dir, "home")}, watcher.WatchList())
}
