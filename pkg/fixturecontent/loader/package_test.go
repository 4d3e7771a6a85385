package loader_test

import (
	"archive/zip"
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendant/fixture-content/pkg/fixturecontent"
	"github.com/tendant/fixture-content/pkg/fixturecontent/loader"
)

func zipBytes(t *testing.T, entries map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range entries {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func packageBytes(t *testing.T, entries map[string]string) []byte {
	t.Helper()
	inner := zipBytes(t, entries)
	return zipBytes(t, map[string]string{
		"installer/version": "1",
		"package.zip":       string(inner),
	})
}

const homeEnXML = `<item name="Home" key="home" id="{110D559F-DEA5-42EA-9C1C-8A5DF7E70EF9}" tid="{76036F5E-CBCE-46D1-AF0A-4143F9B557AA}" mid="{00000000-0000-0000-0000-000000000000}" template="sample item" parentid="{0DE95AE4-41AB-4D01-9EB0-67441B7C2450}" language="en" version="1">
  <fields>
    <field tfid="{75577384-3C97-45DA-A847-81B00500E250}" key="title" type="Single-Line Text"><content>Welcome</content></field>
    <field tfid="{BA3F86A2-4A1C-4D78-B63D-91C2779C1B5E}" key="__sortorder" type="text"></field>
  </fields>
</item>`

const homeDaXML = `<item name="Home" key="home" id="{110D559F-DEA5-42EA-9C1C-8A5DF7E70EF9}" tid="{76036F5E-CBCE-46D1-AF0A-4143F9B557AA}" parentid="{0DE95AE4-41AB-4D01-9EB0-67441B7C2450}" language="da" version="2">
  <fields>
    <field tfid="{75577384-3C97-45DA-A847-81B00500E250}" key="title"><content>Velkommen</content></field>
  </fields>
</item>`

const homeEntry = "items/master/sitecore/content/Home/{110D559F-DEA5-42EA-9C1C-8A5DF7E70EF9}"

func writePackage(t *testing.T, entries map[string]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixtures.zip")
	writeFile(t, path, string(packageBytes(t, entries)))
	return path
}

func TestPackageLoader(t *testing.T) {
	path := writePackage(t, map[string]string{
		homeEntry + "/en/1/xml": homeEnXML,
		homeEntry + "/da/2/xml": homeDaXML,
		homeEntry + "/en/1/link": "ignored",
		"items/master/broken/{AAAAAAAA-0000-0000-0000-000000000001}/en/1/xml": "<item",
		"items/master/empty/{AAAAAAAA-0000-0000-0000-000000000002}/en/1/xml":  "",
	})

	l := loader.NewPackageLoader(path)
	assert.Equal(t, path, l.Source())

	items, err := l.LoadItems(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)

	home := items[0]
	assert.Equal(t, homeID, home.ID)
	assert.Equal(t, "Home", home.Name)
	assert.Equal(t, contentID, home.ParentID)
	assert.Equal(t, templateID, home.TemplateID)
	assert.Equal(t, "sample item", home.TemplateName)
	assert.Equal(t, "master", home.DatabaseName)
	assert.Equal(t, "/sitecore/content/Home", home.Path)

	require.Len(t, home.Versions, 2)
	byLanguage := map[string]fixturecontent.VersionRecord{}
	for _, v := range home.Versions {
		byLanguage[v.Language] = v
	}

	en := byLanguage["en"]
	assert.Equal(t, "1", en.Number)
	require.Len(t, en.Fields, 2)
	for _, f := range en.Fields {
		switch f.FieldID {
		case titleID:
			assert.True(t, f.IsSet)
			assert.Equal(t, "Welcome", f.Value)
		case sortID:
			assert.False(t, f.IsSet)
		default:
			t.Fatalf("unexpected field %s", f.FieldID)
		}
	}

	da := byLanguage["da"]
	assert.Equal(t, "2", da.Number)
	require.Len(t, da.Fields, 1)
	assert.Equal(t, "Velkommen", da.Fields[0].Value)
}

func TestPackageLoader_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := loader.NewPackageLoader(filepath.Join(t.TempDir(), "missing.zip")).LoadItems(context.Background())
		assert.ErrorIs(t, err, fixturecontent.ErrSourceNotFound)
	})

	t.Run("not a zip", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.zip")
		writeFile(t, path, "plain text")
		_, err := loader.NewPackageLoader(path).LoadItems(context.Background())
		assert.ErrorIs(t, err, fixturecontent.ErrMalformedRecord)
	})

	t.Run("no inner package", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "outer.zip")
		writeFile(t, path, string(zipBytes(t, map[string]string{"readme": "x"})))
		_, err := loader.NewPackageLoader(path).LoadItems(context.Background())
		assert.ErrorIs(t, err, fixturecontent.ErrMalformedRecord)
	})
}
