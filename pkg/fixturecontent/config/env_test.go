package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendant/fixture-content/pkg/fixturecontent"
)

func TestWithEnv(t *testing.T) {
	t.Setenv("FIXTURE_FIXTURE_SOURCES", "/data/a|/data/b")
	t.Setenv("FIXTURE_DATABASE_NAME", "web")
	t.Setenv("FIXTURE_DEFAULT_LANGUAGE", "da")
	t.Setenv("FIXTURE_S3_REGION", "eu-west-1")
	t.Setenv("FIXTURE_S3_ENDPOINT", "http://localhost:9000")
	t.Setenv("FIXTURE_S3_USE_PATH_STYLE", "true")

	cfg, err := Load(WithEnv("FIXTURE_"))
	require.NoError(t, err)

	assert.Equal(t, "/data/a|/data/b", cfg.Sources)
	assert.Equal(t, "web", cfg.DatabaseName)
	assert.Equal(t, "da", cfg.DefaultLanguage)
	assert.Equal(t, "eu-west-1", cfg.S3.Region)
	assert.Equal(t, "http://localhost:9000", cfg.S3.Endpoint)
	assert.True(t, cfg.S3.UsePathStyle)
}

func TestWithEnv_InvalidBool(t *testing.T) {
	t.Setenv("S3_USE_PATH_STYLE", "maybe")

	_, err := Load(WithEnv(""))
	assert.Error(t, err)
}

func TestWithEnv_OptionsOverride(t *testing.T) {
	t.Setenv("DATABASE_NAME", "web")

	cfg, err := Load(WithEnv(""), WithDatabaseName("core"))
	require.NoError(t, err)
	assert.Equal(t, "core", cfg.DatabaseName)
}

const rootItem = `----item----
id: {11111111-1111-1111-1111-111111111111}
name: sitecore
parent: {00000000-0000-0000-0000-000000000000}
template: {C6576836-910C-4A3D-BA03-C277DBD3B827}

----version----
language: en
version: 1
revision: 2b0d2c1e-0b8e-4d53-9d4c-6c1e6e3f1a11

`

func TestBuildProvider(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sitecore.item"), []byte(rootItem), 0o644))

	cfg, err := Load(WithSources(dir), WithDatabaseName("web"))
	require.NoError(t, err)

	provider, err := cfg.BuildProvider(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, provider.Len())

	def := provider.GetItemDefinition(fixturecontent.RootID, nil)
	require.NotNil(t, def)
	assert.Equal(t, "sitecore", def.Name)
	assert.Equal(t, "/sitecore", provider.GetItemPath(def, nil))
}

func TestBuildProvider_MissingSource(t *testing.T) {
	cfg, err := Load(WithSources(filepath.Join(t.TempDir(), "missing")))
	require.NoError(t, err)

	_, err = cfg.BuildProvider(context.Background())
	assert.ErrorIs(t, err, fixturecontent.ErrSourceNotFound)
}
