package fixturecontent

import "context"

// Loader produces item records from one fixture source.
type Loader interface {
	// Source returns the location the loader reads from.
	Source() string

	// LoadItems reads every record the source holds. Malformed entries are
	// skipped and logged; an error is returned only when the source as a
	// whole cannot be read.
	LoadItems(ctx context.Context) ([]*ItemRecord, error)
}

// ContentStore holds the item tree, versions, field values and blobs.
//
// Operations report failure through their return values rather than errors:
// false, nil or -1 when the target item is absent. Implementations are not
// required to be safe for concurrent use.
type ContentStore interface {
	// Loading
	BulkLoad(ctx context.Context, loaders []Loader)
	AddItem(record *ItemRecord) bool
	Len() int

	// Reads
	GetItemDefinition(id ID) *ItemDefinition
	GetVersions(id ID) ([]VersionURI, bool)
	GetFields(id ID, uri VersionURI) *FieldList
	GetChildren(parentID ID) []ID
	GetParent(id ID) (ID, bool)
	GetItemPath(id ID) (string, bool)
	ResolvePath(path string) (ID, bool)
	ListByTemplate(templateID ID) []ID

	// Writes
	CreateItem(id ID, name string, templateID ID, parentID ID) bool
	MoveItem(id, destinationID ID) bool
	AddVersion(id ID, base VersionURI) int
	DeleteItem(id ID) bool
	SaveItem(id ID, changes ItemChanges) bool

	// Blobs
	BlobExists(blobID ID) bool
	GetBlob(blobID ID) ([]byte, bool)
	SetBlob(blobID ID, data []byte)
}
