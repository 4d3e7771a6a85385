package memory

import (
	"log/slog"
	"strings"

	"github.com/tendant/fixture-content/pkg/fixturecontent"
)

// CreateItem adds an item under parentID, or at root level when parentID is
// null, and gives it a blank first version in the default language. It
// reports false when id is taken or the parent is absent.
func (s *Store) CreateItem(id fixturecontent.ID, name string, templateID fixturecontent.ID, parentID fixturecontent.ID) bool {
	if id.IsNull() {
		return false
	}
	if _, exists := s.items[id]; exists {
		return false
	}
	path := "/" + name
	if !parentID.IsNull() {
		if _, ok := s.items[parentID]; !ok {
			return false
		}
		path = s.itemPath(parentID) + "/" + name
	}

	s.insert(&fixturecontent.Item{
		ID:           id,
		Name:         name,
		TemplateID:   templateID,
		ParentID:     parentID,
		DatabaseName: s.cfg.DatabaseName,
		Path:         path,
	})

	// The host expects a new item to have a version already.
	s.AddVersion(id, fixturecontent.VersionURI{Language: fixturecontent.LanguageInvariant})
	return true
}

// MoveItem re-parents the item under destinationID and recomputes the paths
// of the item and its descendants. It reports false when either item is
// absent or the destination lies inside the moved subtree.
func (s *Store) MoveItem(id, destinationID fixturecontent.ID) bool {
	item, ok := s.items[id]
	if !ok {
		return false
	}
	if _, ok := s.items[destinationID]; !ok {
		return false
	}
	if s.isInSubtree(destinationID, id) {
		slog.Warn("Refusing to move item into its own subtree", "item_id", id, "destination_id", destinationID)
		return false
	}

	s.removeEntries(func(e childEntry) bool { return e.parent == item.ParentID && e.child == id })
	s.children = append(s.children, childEntry{parent: destinationID, child: id})
	item.ParentID = destinationID
	item.Path = s.itemPath(destinationID) + "/" + item.Name
	s.refreshDescendantPaths(id)
	return true
}

// AddVersion adds a version and returns its number, or -1 when the item is
// absent.
//
// With base.Number > 0 the newest version in base's language is copied to
// number+1. Otherwise, or when the language has no versions yet, a blank
// version 1 is created. An existing version 1 in that language is kept as
// it is and its number returned.
func (s *Store) AddVersion(id fixturecontent.ID, base fixturecontent.VersionURI) int {
	item, ok := s.items[id]
	if !ok {
		return -1
	}
	lang := s.language(base.Language)

	if base.Number > 0 {
		var source *fixturecontent.Version
		for _, v := range item.Versions {
			if v.Language == lang && (source == nil || v.Number > source.Number) {
				source = v
			}
		}
		if source != nil && source.Number > 0 {
			version := &fixturecontent.Version{
				Language: source.Language,
				Number:   source.Number + 1,
				Revision: newRevision(),
				Fields:   make([]*fixturecontent.Field, 0, len(source.Fields)),
			}
			for _, f := range source.Fields {
				version.Fields = append(version.Fields, copyField(f))
			}
			item.Versions = append(item.Versions, version)
			return version.Number
		}
	}

	if item.FindVersion(lang, 1) != nil {
		return 1
	}
	item.Versions = append(item.Versions, &fixturecontent.Version{
		Language: lang,
		Number:   1,
		Revision: newRevision(),
	})
	return 1
}

// DeleteItem removes the item and all of its descendants.
func (s *Store) DeleteItem(id fixturecontent.ID) bool {
	if _, ok := s.items[id]; !ok {
		return false
	}
	s.deleteItem(id, make(map[fixturecontent.ID]bool))
	return true
}

func (s *Store) deleteItem(id fixturecontent.ID, visiting map[fixturecontent.ID]bool) {
	visiting[id] = true
	// Children are looked up again for every level; deleting a child
	// rewrites the relation.
	for _, child := range s.GetChildren(id) {
		if visiting[child] {
			continue
		}
		if _, ok := s.items[child]; ok {
			s.deleteItem(child, visiting)
		}
	}
	delete(s.items, id)
	s.removeEntries(func(e childEntry) bool { return e.child == id })
}

// SaveItem applies a changeset. It reports false only when the item is
// absent; field changes that match nothing are dropped.
func (s *Store) SaveItem(id fixturecontent.ID, changes fixturecontent.ItemChanges) bool {
	item, ok := s.items[id]
	if !ok {
		return false
	}

	if changes.HasPropertiesChanged() {
		if changes.Name != nil {
			item.Name = *changes.Name
		}
		if changes.TemplateID != nil {
			item.TemplateID = *changes.TemplateID
		}
		if changes.BranchID != nil {
			item.BranchID = *changes.BranchID
		}
	}

	for _, change := range changes.FieldChanges {
		s.applyFieldChange(item, change)
	}
	return true
}

func (s *Store) applyFieldChange(item *fixturecontent.Item, change fixturecontent.FieldChange) {
	shared := item.FindSharedField(change.FieldID)
	version := item.FindVersion(s.language(change.Language), change.Number)
	var versioned *fixturecontent.Field
	if version != nil {
		versioned = version.FindField(change.FieldID)
	}

	if change.Remove {
		switch {
		case shared != nil:
			item.RemoveSharedField(change.FieldID)
		case versioned != nil:
			version.RemoveField(change.FieldID)
		}
		return
	}

	value := change.Value
	switch {
	case shared != nil:
		shared.Value = &value
	case versioned != nil:
		versioned.Value = &value
	case change.Definition != nil && (change.Definition.Shared || change.Definition.Unversioned):
		item.AddSharedField(newField(change, &value))
	case version != nil:
		version.AddField(newField(change, &value))
	default:
		slog.Warn("Dropping field change with no matching field or version",
			"item_id", item.ID, "field_id", change.FieldID, "language", change.Language, "version", change.Number)
	}
}

func newField(change fixturecontent.FieldChange, value *string) *fixturecontent.Field {
	f := &fixturecontent.Field{FieldID: change.FieldID, Value: value}
	if change.Definition != nil {
		f.Name = change.Definition.Name
		f.Key = change.Definition.Key
	}
	f.Key = fieldKey(change.FieldID, f.Key)
	return f
}

func copyField(f *fixturecontent.Field) *fixturecontent.Field {
	c := &fixturecontent.Field{
		FieldID:   f.FieldID,
		Name:      f.Name,
		Key:       f.Key,
		Persisted: true,
	}
	if f.Value != nil {
		v := *f.Value
		c.Value = &v
	}
	return c
}

func (s *Store) removeEntries(match func(childEntry) bool) {
	kept := s.children[:0]
	for _, e := range s.children {
		if !match(e) {
			kept = append(kept, e)
		}
	}
	s.children = kept
}

// isInSubtree reports whether id is root or one of its descendants, by
// walking up from id.
func (s *Store) isInSubtree(id, root fixturecontent.ID) bool {
	seen := make(map[fixturecontent.ID]bool)
	for cur := id; !cur.IsNull() && !seen[cur]; {
		if cur == root {
			return true
		}
		seen[cur] = true
		item, ok := s.items[cur]
		if !ok {
			return false
		}
		cur = item.ParentID
	}
	return false
}

func (s *Store) refreshDescendantPaths(id fixturecontent.ID) {
	queue := []fixturecontent.ID{id}
	seen := map[fixturecontent.ID]bool{id: true}
	for len(queue) > 0 {
		parent := s.items[queue[0]]
		queue = queue[1:]
		for _, child := range s.GetChildren(parent.ID) {
			item, ok := s.items[child]
			if !ok || seen[child] {
				continue
			}
			seen[child] = true
			item.Path = parent.Path + "/" + item.Name
			queue = append(queue, child)
		}
	}
}

func newRevision() string {
	return strings.ToLower(fixturecontent.FormatID(fixturecontent.NewID(), true))
}
