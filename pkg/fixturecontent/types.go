package fixturecontent

// LanguageInvariant is the placeholder language that stands for the store's
// configured default language.
const LanguageInvariant = ""

// DefaultLanguage is used when no default language is configured.
const DefaultLanguage = "en"

// Item is a node in the content tree.
type Item struct {
	ID           ID
	Name         string
	ParentID     ID
	TemplateID   ID
	BranchID     ID
	MasterID     ID
	TemplateName string
	DatabaseName string
	// Path is derived from the parent chain and recomputed on move.
	Path         string
	SharedFields []*Field
	// Versions is nil when the item has no versions collection at all, which
	// is distinct from an empty collection.
	Versions []*Version
}

// Version is a language and number scoped set of field values.
type Version struct {
	Language string
	Number   int
	// Revision is an opaque staleness token for the host.
	Revision string
	Fields   []*Field
}

// Field is a shared or versioned field value.
type Field struct {
	FieldID ID
	Name    string
	Key     string
	// Value is nil when the field is not set. An empty string is set-to-empty.
	Value *string
	// Persisted marks values that came from fixture data or were copied from
	// an existing version rather than written at runtime.
	Persisted bool
}

// FindVersion returns the version matching language and number.
func (it *Item) FindVersion(language string, number int) *Version {
	for _, v := range it.Versions {
		if v.Language == language && v.Number == number {
			return v
		}
	}
	return nil
}

// FindSharedField returns the shared field with the given field id.
func (it *Item) FindSharedField(fieldID ID) *Field {
	for _, f := range it.SharedFields {
		if f.FieldID == fieldID {
			return f
		}
	}
	return nil
}

// FindField returns the field with the given field id.
func (v *Version) FindField(fieldID ID) *Field {
	for _, f := range v.Fields {
		if f.FieldID == fieldID {
			return f
		}
	}
	return nil
}

// setField appends f, or overwrites the value of the field that already uses
// f's key. Keys are unique within a collection.
func setField(fields []*Field, f *Field) []*Field {
	for _, existing := range fields {
		if existing.Key == f.Key {
			existing.Value = f.Value
			return fields
		}
	}
	return append(fields, f)
}

// AddField adds f to the version, replacing the value of a field with the
// same key.
func (v *Version) AddField(f *Field) {
	v.Fields = setField(v.Fields, f)
}

// AddSharedField adds f to the item's shared fields, replacing the value of a
// field with the same key.
func (it *Item) AddSharedField(f *Field) {
	it.SharedFields = setField(it.SharedFields, f)
}

// RemoveField removes the field with the given field id.
func (v *Version) RemoveField(fieldID ID) {
	v.Fields = removeField(v.Fields, func(f *Field) bool { return f.FieldID == fieldID })
}

// RemoveSharedField removes the shared field with the given field id.
func (it *Item) RemoveSharedField(fieldID ID) {
	it.SharedFields = removeField(it.SharedFields, func(f *Field) bool { return f.FieldID == fieldID })
}

func removeField(fields []*Field, match func(*Field) bool) []*Field {
	for i, f := range fields {
		if match(f) {
			return append(fields[:i:i], fields[i+1:]...)
		}
	}
	return fields
}

// ItemRecord is the canonical shape every fixture loader produces. Identifiers
// and version numbers are kept in their textual form; the store parses them
// when the record is added.
type ItemRecord struct {
	ID           string
	Name         string
	ParentID     string
	TemplateID   string
	MasterID     string
	BranchID     string
	TemplateName string
	DatabaseName string
	Path         string
	SharedFields []FieldRecord
	Versions     []VersionRecord
}

// VersionRecord is a version as read from a fixture source.
type VersionRecord struct {
	Language string
	Number   string
	Revision string
	Fields   []FieldRecord
}

// FieldRecord is a field value as read from a fixture source.
type FieldRecord struct {
	FieldID string
	Name    string
	Key     string
	Value   string
	IsSet   bool
}

// ItemDefinition identifies an item in host calls.
type ItemDefinition struct {
	ID         ID
	Name       string
	TemplateID ID
	BranchID   ID
	ParentID   ID
}

// VersionURI addresses one version of an item. A Number of zero or less means
// no version.
type VersionURI struct {
	Language string
	Number   int
}

// FieldDefinition describes a field template. It is supplied with a field
// change when the host knows it.
type FieldDefinition struct {
	Name        string
	Key         string
	Shared      bool
	Unversioned bool
}

// FieldChange is a single field write or removal.
type FieldChange struct {
	FieldID    ID
	Language   string
	Number     int
	Remove     bool
	Value      string
	Definition *FieldDefinition
}

// ItemChanges is the changeset applied by SaveItem. Nil property pointers
// leave the current value unchanged.
type ItemChanges struct {
	Name         *string
	TemplateID   *ID
	BranchID     *ID
	FieldChanges []FieldChange
}

// HasPropertiesChanged reports whether any item property is set.
func (c *ItemChanges) HasPropertiesChanged() bool {
	return c.Name != nil || c.TemplateID != nil || c.BranchID != nil
}

// FieldEntry is one field value in a FieldList.
type FieldEntry struct {
	FieldID ID
	Value   *string
}

// FieldList is an ordered list of field values keyed by field template id.
// Versioned entries follow shared entries; lookups are last-write-wins.
type FieldList struct {
	entries []FieldEntry
}

// Add appends a value.
func (l *FieldList) Add(fieldID ID, value *string) {
	l.entries = append(l.entries, FieldEntry{FieldID: fieldID, Value: value})
}

// Get returns the last value added for fieldID.
func (l *FieldList) Get(fieldID ID) (*string, bool) {
	for i := len(l.entries) - 1; i >= 0; i-- {
		if l.entries[i].FieldID == fieldID {
			return l.entries[i].Value, true
		}
	}
	return nil, false
}

// Entries returns the entries in insertion order.
func (l *FieldList) Entries() []FieldEntry {
	return l.entries
}

// Len returns the number of entries.
func (l *FieldList) Len() int {
	return len(l.entries)
}

// Map collapses the list into a map, later entries overriding earlier ones.
// Unset values are omitted.
func (l *FieldList) Map() map[ID]string {
	m := make(map[ID]string, len(l.entries))
	for _, e := range l.entries {
		if e.Value == nil {
			delete(m, e.FieldID)
			continue
		}
		m[e.FieldID] = *e.Value
	}
	return m
}
