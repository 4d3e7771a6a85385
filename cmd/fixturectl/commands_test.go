package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendant/fixture-content/pkg/fixturecontent"
)

const (
	rootItem = `----item----
id: {11111111-1111-1111-1111-111111111111}
name: sitecore
parent: {00000000-0000-0000-0000-000000000000}

----version----
language: en
version: 1

`
	templateItem = `----item----
id: {76036F5E-CBCE-46D1-AF0A-4143F9B557AA}
name: Sample Item
parent: {11111111-1111-1111-1111-111111111111}
template: {AB86861A-6030-46C5-B394-E8F99E8B87DB}

`
	homeItem = `----item----
id: {110D559F-DEA5-42EA-9C1C-8A5DF7E70EF9}
name: Home
parent: {11111111-1111-1111-1111-111111111111}
template: {76036F5E-CBCE-46D1-AF0A-4143F9B557AA}

----version----
language: en
version: 1

----field----
field: {75577384-3C97-45DA-A847-81B00500E250}
name: Title
key: title
content-length: 7

Welcome
`
)

func fixtureDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range map[string]string{
		"sitecore.item":      rootItem,
		"sitecore/Home.item": homeItem,
		"templates/Sample Item.item": templateItem,
	} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	sourcesFlag, databaseFlag, languageFlag, verboseFlag = "", "", "", false
	fieldsLanguage, fieldsVersion, treeDepth = fixturecontent.DefaultLanguage, 1, 0

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}

func TestTreeCmd(t *testing.T) {
	out, err := execute(t, "tree", "--sources", fixtureDir(t))
	require.NoError(t, err)

	assert.Contains(t, out, "sitecore  {11111111-1111-1111-1111-111111111111}\n")
	assert.Contains(t, out, "  Home  {110D559F-DEA5-42EA-9C1C-8A5DF7E70EF9}\n")
	assert.Contains(t, out, "  Sample Item  {76036F5E-CBCE-46D1-AF0A-4143F9B557AA}\n")
}

func TestTreeCmd_Depth(t *testing.T) {
	out, err := execute(t, "tree", "--sources", fixtureDir(t), "--depth", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "sitecore")
	assert.NotContains(t, out, "Home")
}

func TestItemCmd(t *testing.T) {
	out, err := execute(t, "item", "/sitecore/home", "--sources", fixtureDir(t))
	require.NoError(t, err)

	assert.Contains(t, out, "Name:     Home")
	assert.Contains(t, out, "Path:     /sitecore/Home")
	assert.Contains(t, out, "en #1")
}

func TestItemCmd_NotFound(t *testing.T) {
	_, err := execute(t, "item", "/sitecore/missing", "--sources", fixtureDir(t))
	assert.ErrorIs(t, err, fixturecontent.ErrItemNotFound)
}

func TestItemCmd_RequiresExactlyOneArg(t *testing.T) {
	_, err := execute(t, "item")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestChildrenCmd(t *testing.T) {
	dir := fixtureDir(t)

	out, err := execute(t, "children", "{11111111-1111-1111-1111-111111111111}", "--sources", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Home")

	out, err = execute(t, "children", "/sitecore/Home", "--sources", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "No children found for: /sitecore/Home")
}

func TestFieldsCmd(t *testing.T) {
	out, err := execute(t, "fields", "/sitecore/Home", "--sources", fixtureDir(t))
	require.NoError(t, err)
	assert.Contains(t, out, `{75577384-3C97-45DA-A847-81B00500E250} = "Welcome"`)
}

func TestTemplatesCmd(t *testing.T) {
	out, err := execute(t, "templates", "--sources", fixtureDir(t))
	require.NoError(t, err)
	assert.Contains(t, out, "/sitecore/Sample Item")
	assert.Contains(t, out, "Total: 1 templates")
}

func TestMissingSource(t *testing.T) {
	_, err := execute(t, "tree", "--sources", filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, fixturecontent.ErrSourceNotFound)
}
