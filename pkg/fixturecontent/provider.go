package fixturecontent

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"sync"
)

// CallContext is passed by the host with every data-provider call. The
// provider accepts it for call-shape compatibility; a nil value is allowed.
type CallContext struct {
	Database string
}

// IDList is the host's ordered identifier collection.
type IDList struct {
	ids []ID
}

// NewIDList builds a list from ids.
func NewIDList(ids ...ID) *IDList {
	return &IDList{ids: append([]ID(nil), ids...)}
}

// IDs returns the identifiers in order.
func (l *IDList) IDs() []ID { return l.ids }

// Len returns the number of identifiers.
func (l *IDList) Len() int { return len(l.ids) }

// VersionURIList is the host's version collection.
type VersionURIList struct {
	uris []VersionURI
}

// URIs returns the versions in order. A nil list has none.
func (l *VersionURIList) URIs() []VersionURI {
	if l == nil {
		return nil
	}
	return l.uris
}

// Len returns the number of versions.
func (l *VersionURIList) Len() int { return len(l.URIs()) }

// Provider adapts the host's data-provider calls onto a ContentStore.
type Provider struct {
	mu      sync.Mutex
	store   ContentStore
	loaders []Loader
}

// Option represents a functional option for configuring the provider
type Option func(*Provider)

// WithStore sets the content store
func WithStore(store ContentStore) Option {
	return func(p *Provider) {
		p.store = store
	}
}

// WithLoaders appends fixture loaders, in priority order
func WithLoaders(loaders ...Loader) Option {
	return func(p *Provider) {
		p.loaders = append(p.loaders, loaders...)
	}
}

// New creates a provider and bulk-loads the store from its loaders.
func New(ctx context.Context, options ...Option) (*Provider, error) {
	p := &Provider{}
	for _, option := range options {
		option(p)
	}
	if p.store == nil {
		return nil, ErrStoreRequired
	}
	if len(p.loaders) > 0 {
		p.store.BulkLoad(ctx, p.loaders)
	}
	return p, nil
}

// Reload clears the store and loads every configured source again. Items
// created at runtime are lost.
func (p *Provider) Reload(ctx context.Context) {
	p.Do(func(p *Provider) {
		p.store.BulkLoad(ctx, p.loaders)
		slog.Info("Fixture data reloaded", "items", p.store.Len())
	})
}

// Do runs fn while holding the provider's lock. Hosts that call from several
// goroutines route every call through Do.
func (p *Provider) Do(fn func(*Provider)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fn(p)
}

// Len returns the number of items in the store.
func (p *Provider) Len() int {
	return p.store.Len()
}

// GetItemDefinition returns the definition of itemID or nil.
func (p *Provider) GetItemDefinition(itemID ID, cc *CallContext) *ItemDefinition {
	return p.store.GetItemDefinition(itemID)
}

// GetItemVersions returns all versions of the item, or nil when the item is
// absent or has no versions collection.
func (p *Provider) GetItemVersions(def *ItemDefinition, cc *CallContext) *VersionURIList {
	if def == nil {
		return nil
	}
	uris, ok := p.store.GetVersions(def.ID)
	if !ok {
		return nil
	}
	return &VersionURIList{uris: uris}
}

// GetItemFields returns the field values for one version of the item.
func (p *Provider) GetItemFields(def *ItemDefinition, uri VersionURI, cc *CallContext) *FieldList {
	if def == nil {
		return nil
	}
	return p.store.GetFields(def.ID, uri)
}

// GetChildIDs returns the ids of the item's children.
func (p *Provider) GetChildIDs(def *ItemDefinition, cc *CallContext) *IDList {
	if def == nil {
		return NewIDList()
	}
	return &IDList{ids: p.store.GetChildren(def.ID)}
}

// GetParentID returns the item's parent id, or NullID when there is none.
func (p *Provider) GetParentID(def *ItemDefinition, cc *CallContext) ID {
	if def == nil {
		return NullID
	}
	parentID, _ := p.store.GetParent(def.ID)
	return parentID
}

// GetItemPath returns the item's materialized path, or "" when absent.
func (p *Provider) GetItemPath(def *ItemDefinition, cc *CallContext) string {
	if def == nil {
		return ""
	}
	path, _ := p.store.GetItemPath(def.ID)
	return path
}

// ResolvePath returns the id of the item at path, or NullID.
func (p *Provider) ResolvePath(path string, cc *CallContext) ID {
	id, _ := p.store.ResolvePath(path)
	return id
}

// CreateItem creates itemID under parent, or at root level when parent is
// nil.
func (p *Provider) CreateItem(itemID ID, itemName string, templateID ID, parent *ItemDefinition, cc *CallContext) bool {
	parentID := NullID
	if parent != nil {
		parentID = parent.ID
	}
	return p.store.CreateItem(itemID, itemName, templateID, parentID)
}

// MoveItem moves the item below destination.
func (p *Provider) MoveItem(def *ItemDefinition, destination *ItemDefinition, cc *CallContext) bool {
	if def == nil || destination == nil {
		return false
	}
	return p.store.MoveItem(def.ID, destination.ID)
}

// AddVersion adds a version based on baseVersion and returns its number, or
// -1 when the item is absent.
func (p *Provider) AddVersion(def *ItemDefinition, baseVersion VersionURI, cc *CallContext) int {
	if def == nil {
		return -1
	}
	return p.store.AddVersion(def.ID, baseVersion)
}

// DeleteItem removes the item and its descendants.
func (p *Provider) DeleteItem(def *ItemDefinition, cc *CallContext) bool {
	if def == nil {
		return false
	}
	return p.store.DeleteItem(def.ID)
}

// SaveItem applies changes to the item.
func (p *Provider) SaveItem(def *ItemDefinition, changes *ItemChanges, cc *CallContext) bool {
	if def == nil {
		return false
	}
	if changes == nil {
		changes = &ItemChanges{}
	}
	return p.store.SaveItem(def.ID, *changes)
}

// GetTemplateItemIDs returns the ids of all template items.
func (p *Provider) GetTemplateItemIDs(cc *CallContext) *IDList {
	return &IDList{ids: p.store.ListByTemplate(TemplateTemplateID)}
}

// GetItemIDsByTemplate returns the ids of items based on templateID.
func (p *Provider) GetItemIDsByTemplate(templateID ID, cc *CallContext) *IDList {
	return &IDList{ids: p.store.ListByTemplate(templateID)}
}

// GetRootID returns the host's root item id.
func (p *Provider) GetRootID(cc *CallContext) ID {
	return RootID
}

// BlobStreamExists reports whether blob data is stored under blobID.
func (p *Provider) BlobStreamExists(blobID ID, cc *CallContext) bool {
	return p.store.BlobExists(blobID)
}

// GetBlobStream returns a reader over the blob, or nil when it is absent.
func (p *Provider) GetBlobStream(blobID ID, cc *CallContext) io.ReadCloser {
	data, ok := p.store.GetBlob(blobID)
	if !ok {
		return nil
	}
	return io.NopCloser(bytes.NewReader(data))
}

// SetBlobStream reads r to the end and stores the bytes under blobID. It
// reports false when r fails.
func (p *Provider) SetBlobStream(r io.Reader, blobID ID, cc *CallContext) bool {
	if r == nil {
		return false
	}
	data, err := io.ReadAll(r)
	if err != nil {
		slog.Error("Failed to read blob stream", "blob_id", blobID, "error", err)
		return false
	}
	p.store.SetBlob(blobID, data)
	return true
}
