package loader_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendant/fixture-content/pkg/fixturecontent"
	"github.com/tendant/fixture-content/pkg/fixturecontent/loader"
)

func TestSplitSources(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "s3://bucket/c.zip"}, loader.SplitSources(" a ||b| s3://bucket/c.zip|"))
	assert.Empty(t, loader.SplitSources(""))
}

func TestFromSources(t *testing.T) {
	dir := t.TempDir()
	pkg := writePackage(t, map[string]string{homeEntry + "/en/1/xml": homeEnXML})
	fetcher := loader.NewS3Fetcher(new(mockDownloadClient))

	loaders, err := loader.FromSources(dir+"|"+pkg+"|s3://fixtures/core.zip", loader.WithS3Fetcher(fetcher))
	require.NoError(t, err)
	require.Len(t, loaders, 3)

	assert.IsType(t, &loader.SerializedLoader{}, loaders[0])
	assert.IsType(t, &loader.PackageLoader{}, loaders[1])
	assert.IsType(t, &loader.PackageLoader{}, loaders[2])
	assert.Equal(t, dir, loaders[0].Source())
	assert.Equal(t, pkg, loaders[1].Source())
	assert.Equal(t, "s3://fixtures/core.zip", loaders[2].Source())
}

func TestFromSources_Errors(t *testing.T) {
	dir := t.TempDir()
	textFile := filepath.Join(dir, "notes.txt")
	writeFile(t, textFile, "x")

	tests := []struct {
		name    string
		sources string
		want    error
	}{
		{"missing directory", filepath.Join(dir, "missing"), fixturecontent.ErrSourceNotFound},
		{"unsupported file", textFile, fixturecontent.ErrUnsupportedSource},
		{"s3 without key", "s3://bucket", fixturecontent.ErrUnsupportedSource},
		{"s3 not a package", "s3://bucket/items.txt", fixturecontent.ErrUnsupportedSource},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loaders, err := loader.FromSources(tt.sources)
			assert.Nil(t, loaders)
			assert.ErrorIs(t, err, tt.want)
			var loadErr *fixturecontent.LoadError
			require.ErrorAs(t, err, &loadErr)
			assert.NotEmpty(t, loadErr.Source)
		})
	}
}

func TestFromLocation(t *testing.T) {
	dir := t.TempDir()
	l, err := loader.FromLocation(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, l.Source())
}

func TestDirectories(t *testing.T) {
	dir := t.TempDir()
	pkg := writePackage(t, map[string]string{homeEntry + "/en/1/xml": homeEnXML})

	dirs := loader.Directories(dir + "|" + pkg + "|s3://bucket/a.zip|" + filepath.Join(dir, "missing"))
	assert.Equal(t, []string{dir}, dirs)
}
