package loader_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendant/fixture-content/pkg/fixturecontent"
	"github.com/tendant/fixture-content/pkg/fixturecontent/loader"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestSerializedLoader(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "master", "sitecore", "content", "Home.item"), homeItem)
	writeFile(t, filepath.Join(dir, "master", "sitecore", "content", "Broken.item"), "not an item")
	writeFile(t, filepath.Join(dir, "master", "README.txt"), "ignored")

	l := loader.NewSerializedLoader(dir)
	assert.Equal(t, dir, l.Source())

	items, err := l.LoadItems(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, homeID, items[0].ID)
}

func TestSerializedLoader_MissingDirectory(t *testing.T) {
	l := loader.NewSerializedLoader(filepath.Join(t.TempDir(), "missing"))
	_, err := l.LoadItems(context.Background())

	assert.ErrorIs(t, err, fixturecontent.ErrSourceNotFound)
	var loadErr *fixturecontent.LoadError
	assert.ErrorAs(t, err, &loadErr)
}

func TestSerializedLoader_Cancelled(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "Home.item"), homeItem)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := loader.NewSerializedLoader(dir).LoadItems(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
