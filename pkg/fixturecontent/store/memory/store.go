// Package memory implements fixturecontent.ContentStore on in-process maps.
//
// The identifier table is the only owner of item data. The parent relation
// holds identifier pairs and every read resolves items through the table, so
// a change made through one access path is visible through the other.
//
// A Store performs no locking; callers serialise access.
package memory

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/tendant/fixture-content/pkg/fixturecontent"
)

// Config carries the host context the store needs.
type Config struct {
	// DatabaseName is recorded on items created at runtime.
	DatabaseName string
	// DefaultLanguage replaces the invariant language in version lookups.
	DefaultLanguage string
}

// childEntry is one (parent, child) pair of the parent relation.
type childEntry struct {
	parent fixturecontent.ID
	child  fixturecontent.ID
}

// Store is an in-memory content store.
type Store struct {
	cfg      Config
	items    map[fixturecontent.ID]*fixturecontent.Item
	children []childEntry
	blobs    map[fixturecontent.ID][]byte
}

var _ fixturecontent.ContentStore = (*Store)(nil)

// New creates an empty store.
func New(cfg Config) *Store {
	if cfg.DefaultLanguage == "" {
		cfg.DefaultLanguage = fixturecontent.DefaultLanguage
	}
	return &Store{
		cfg:   cfg,
		items: make(map[fixturecontent.ID]*fixturecontent.Item),
		blobs: make(map[fixturecontent.ID][]byte),
	}
}

// BulkLoad clears the item table and the parent relation, then adds every
// record of every loader in order. The first loader to supply an id wins.
// Blobs are kept.
func (s *Store) BulkLoad(ctx context.Context, loaders []fixturecontent.Loader) {
	s.items = make(map[fixturecontent.ID]*fixturecontent.Item)
	s.children = nil

	for _, l := range loaders {
		if err := ctx.Err(); err != nil {
			slog.Warn("Fixture load interrupted", "source", l.Source(), "error", err)
			return
		}
		records, err := l.LoadItems(ctx)
		if err != nil {
			slog.Error("Failed to load fixture source", "source", l.Source(), "error", err)
			continue
		}
		added := 0
		for _, record := range records {
			if s.AddItem(record) {
				added++
			}
		}
		slog.Info("Fixture source loaded", "source", l.Source(), "records", len(records), "added", added)
	}

	for _, e := range s.children {
		if item := s.items[e.child]; item != nil && item.Path == "" {
			item.Path = s.computePath(item.ID)
		}
	}
}

// AddItem inserts a loader record. It reports false when the record's id is
// malformed or already present.
func (s *Store) AddItem(record *fixturecontent.ItemRecord) bool {
	if record == nil {
		return false
	}
	id, ok := fixturecontent.ParseID(record.ID)
	if !ok || id.IsNull() {
		slog.Warn("Skipping fixture record with malformed id", "id", record.ID, "name", record.Name)
		return false
	}
	if _, exists := s.items[id]; exists {
		slog.Debug("Skipping duplicate fixture record", "id", record.ID, "name", record.Name)
		return false
	}

	item := &fixturecontent.Item{
		ID:           id,
		Name:         record.Name,
		ParentID:     parseOptionalID(record.ParentID),
		TemplateID:   parseOptionalID(record.TemplateID),
		BranchID:     parseOptionalID(record.BranchID),
		MasterID:     parseOptionalID(record.MasterID),
		TemplateName: record.TemplateName,
		DatabaseName: record.DatabaseName,
		Path:         record.Path,
		SharedFields: convertFields(id, record.SharedFields),
	}
	if record.Versions != nil {
		item.Versions = make([]*fixturecontent.Version, 0, len(record.Versions))
		for _, vr := range record.Versions {
			number, err := strconv.Atoi(strings.TrimSpace(vr.Number))
			if err != nil || number <= 0 {
				slog.Warn("Skipping fixture version with invalid number", "item_id", id, "language", vr.Language, "version", vr.Number)
				continue
			}
			if item.FindVersion(vr.Language, number) != nil {
				slog.Warn("Skipping duplicate fixture version", "item_id", id, "language", vr.Language, "version", number)
				continue
			}
			item.Versions = append(item.Versions, &fixturecontent.Version{
				Language: vr.Language,
				Number:   number,
				Revision: vr.Revision,
				Fields:   convertFields(id, vr.Fields),
			})
		}
	}

	s.insert(item)
	return true
}

// Len returns the number of items.
func (s *Store) Len() int {
	return len(s.items)
}

func (s *Store) insert(item *fixturecontent.Item) {
	s.items[item.ID] = item
	s.children = append(s.children, childEntry{parent: item.ParentID, child: item.ID})
}

// language substitutes the default language for the invariant one.
func (s *Store) language(lang string) string {
	if lang == fixturecontent.LanguageInvariant {
		return s.cfg.DefaultLanguage
	}
	return lang
}

// computePath walks the parent chain. Missing parents end the walk, which
// makes orphans root level.
func (s *Store) computePath(id fixturecontent.ID) string {
	var names []string
	seen := make(map[fixturecontent.ID]bool)
	for cur := s.items[id]; cur != nil && !seen[cur.ID]; cur = s.items[cur.ParentID] {
		seen[cur.ID] = true
		names = append(names, cur.Name)
	}
	var b strings.Builder
	for i := len(names) - 1; i >= 0; i-- {
		b.WriteString("/")
		b.WriteString(names[i])
	}
	return b.String()
}

func (s *Store) itemPath(id fixturecontent.ID) string {
	item, ok := s.items[id]
	if !ok {
		return ""
	}
	if item.Path == "" {
		item.Path = s.computePath(id)
	}
	return item.Path
}

func parseOptionalID(text string) fixturecontent.ID {
	id, ok := fixturecontent.ParseID(text)
	if !ok {
		return fixturecontent.NullID
	}
	return id
}

func convertFields(itemID fixturecontent.ID, records []fixturecontent.FieldRecord) []*fixturecontent.Field {
	fields := make([]*fixturecontent.Field, 0, len(records))
	keys := make(map[string]bool, len(records))
	for _, fr := range records {
		fieldID, ok := fixturecontent.ParseID(fr.FieldID)
		if !ok || fieldID.IsNull() {
			slog.Warn("Skipping fixture field with malformed id", "item_id", itemID, "field_id", fr.FieldID, "key", fr.Key)
			continue
		}
		key := fieldKey(fieldID, fr.Key)
		if keys[key] {
			slog.Warn("Skipping fixture field with duplicate key", "item_id", itemID, "key", key)
			continue
		}
		keys[key] = true
		field := &fixturecontent.Field{
			FieldID:   fieldID,
			Name:      fr.Name,
			Key:       key,
			Persisted: true,
		}
		if fr.IsSet {
			value := fr.Value
			field.Value = &value
		}
		fields = append(fields, field)
	}
	return fields
}

// fieldKey falls back to the bare lower-case field id when no key is known.
func fieldKey(fieldID fixturecontent.ID, key string) string {
	if key != "" {
		return key
	}
	return strings.ToLower(fixturecontent.FormatID(fieldID, true))
}
