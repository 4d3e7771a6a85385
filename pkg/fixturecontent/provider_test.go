package fixturecontent_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tendant/fixture-content/pkg/fixturecontent"
	"github.com/tendant/fixture-content/pkg/fixturecontent/store/memory"
)

type mockLoader struct {
	mock.Mock
}

func (m *mockLoader) Source() string {
	return m.Called().String(0)
}

func (m *mockLoader) LoadItems(ctx context.Context) ([]*fixturecontent.ItemRecord, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*fixturecontent.ItemRecord), args.Error(1)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("connection reset") }

var homeID = fixturecontent.MustParseID("{110D559F-DEA5-42EA-9C1C-8A5DF7E70EF9}")

func homeRecord(name string) *fixturecontent.ItemRecord {
	return &fixturecontent.ItemRecord{
		ID:       fixturecontent.FormatID(homeID, false),
		Name:     name,
		ParentID: fixturecontent.FormatID(fixturecontent.RootID, false),
		Versions: []fixturecontent.VersionRecord{{Language: "en", Number: "1"}},
	}
}

func newProvider(t *testing.T, loaders ...fixturecontent.Loader) *fixturecontent.Provider {
	t.Helper()
	p, err := fixturecontent.New(context.Background(),
		fixturecontent.WithStore(memory.New(memory.Config{DatabaseName: "master"})),
		fixturecontent.WithLoaders(loaders...),
	)
	require.NoError(t, err)
	return p
}

func TestNew_RequiresStore(t *testing.T) {
	p, err := fixturecontent.New(context.Background())
	assert.Nil(t, p)
	assert.ErrorIs(t, err, fixturecontent.ErrStoreRequired)
}

func TestProvider_LoadsInPriorityOrder(t *testing.T) {
	first := new(mockLoader)
	first.On("Source").Return("first")
	first.On("LoadItems", mock.Anything).Return([]*fixturecontent.ItemRecord{homeRecord("Home")}, nil)
	second := new(mockLoader)
	second.On("Source").Return("second")
	second.On("LoadItems", mock.Anything).Return([]*fixturecontent.ItemRecord{homeRecord("Shadowed")}, nil)

	p := newProvider(t, first, second)

	def := p.GetItemDefinition(homeID, nil)
	require.NotNil(t, def)
	assert.Equal(t, "Home", def.Name)
	first.AssertExpectations(t)
	second.AssertExpectations(t)

	t.Run("Reload", func(t *testing.T) {
		require.True(t, p.CreateItem(fixturecontent.NewID(), "runtime", fixturecontent.NullID, def, nil))
		assert.Equal(t, 2, p.Len())

		p.Reload(context.Background())
		assert.Equal(t, 1, p.Len())
		first.AssertNumberOfCalls(t, "LoadItems", 2)
	})
}

func TestProvider_GetItemVersionsCollection(t *testing.T) {
	bare := homeRecord("Bare")
	bare.Versions = nil
	emptyID := fixturecontent.NewID()
	empty := &fixturecontent.ItemRecord{
		ID:       fixturecontent.FormatID(emptyID, false),
		Name:     "Empty",
		Versions: []fixturecontent.VersionRecord{},
	}

	l := new(mockLoader)
	l.On("Source").Return("fixtures")
	l.On("LoadItems", mock.Anything).Return([]*fixturecontent.ItemRecord{bare, empty}, nil)
	p := newProvider(t, l)

	assert.Nil(t, p.GetItemVersions(p.GetItemDefinition(homeID, nil), nil))

	versions := p.GetItemVersions(p.GetItemDefinition(emptyID, nil), nil)
	require.NotNil(t, versions)
	assert.Equal(t, 0, versions.Len())
}

func TestProvider_ItemCalls(t *testing.T) {
	p := newProvider(t)
	cc := &fixturecontent.CallContext{Database: "master"}

	require.True(t, p.CreateItem(fixturecontent.RootID, "sitecore", fixturecontent.NullID, nil, cc))
	root := p.GetItemDefinition(p.GetRootID(cc), cc)
	require.NotNil(t, root)

	childID := fixturecontent.NewID()
	require.True(t, p.CreateItem(childID, "content", fixturecontent.NullID, root, cc))
	child := p.GetItemDefinition(childID, cc)

	assert.Equal(t, []fixturecontent.ID{childID}, p.GetChildIDs(root, cc).IDs())
	assert.Equal(t, fixturecontent.RootID, p.GetParentID(child, cc))
	assert.True(t, p.GetParentID(root, cc).IsNull())
	assert.Equal(t, "/sitecore/content", p.GetItemPath(child, cc))
	assert.Equal(t, childID, p.ResolvePath("/sitecore/content", cc))

	versions := p.GetItemVersions(child, cc)
	require.NotNil(t, versions)
	assert.Equal(t, 1, versions.Len())
	assert.Equal(t, 2, p.AddVersion(child, versions.URIs()[0], cc))

	fieldID := fixturecontent.NewID()
	require.True(t, p.SaveItem(child, &fixturecontent.ItemChanges{FieldChanges: []fixturecontent.FieldChange{
		{FieldID: fieldID, Language: "en", Number: 2, Value: "hello"},
	}}, cc))
	value, ok := p.GetItemFields(child, fixturecontent.VersionURI{Language: "en", Number: 2}, cc).Get(fieldID)
	require.True(t, ok)
	assert.Equal(t, "hello", *value)

	assert.True(t, p.DeleteItem(root, cc))
	assert.Nil(t, p.GetItemDefinition(childID, cc))

	t.Run("NilDefinitions", func(t *testing.T) {
		assert.Nil(t, p.GetItemVersions(nil, cc))
		assert.Nil(t, p.GetItemFields(nil, fixturecontent.VersionURI{}, cc))
		assert.Equal(t, 0, p.GetChildIDs(nil, cc).Len())
		assert.False(t, p.MoveItem(nil, root, cc))
		assert.False(t, p.DeleteItem(nil, cc))
		assert.False(t, p.SaveItem(nil, nil, cc))
		assert.Equal(t, -1, p.AddVersion(nil, fixturecontent.VersionURI{}, cc))
	})
}

func TestProvider_TemplateItemIDs(t *testing.T) {
	p := newProvider(t)
	templateID := fixturecontent.NewID()
	require.True(t, p.CreateItem(templateID, "Page", fixturecontent.TemplateTemplateID, nil, nil))
	homeID := fixturecontent.NewID()
	require.True(t, p.CreateItem(homeID, "Home", templateID, nil, nil))

	assert.Equal(t, []fixturecontent.ID{templateID}, p.GetTemplateItemIDs(nil).IDs())
	assert.Equal(t, []fixturecontent.ID{homeID}, p.GetItemIDsByTemplate(templateID, nil).IDs())
}

func TestProvider_Blobs(t *testing.T) {
	p := newProvider(t)
	blobID := fixturecontent.NewID()

	assert.False(t, p.BlobStreamExists(blobID, nil))
	assert.Nil(t, p.GetBlobStream(blobID, nil))

	require.True(t, p.SetBlobStream(strings.NewReader("PNG..."), blobID, nil))
	assert.True(t, p.BlobStreamExists(blobID, nil))

	rc := p.GetBlobStream(blobID, nil)
	require.NotNil(t, rc)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "PNG...", string(data))

	assert.False(t, p.SetBlobStream(failingReader{}, fixturecontent.NewID(), nil))
	assert.False(t, p.SetBlobStream(nil, fixturecontent.NewID(), nil))
}
