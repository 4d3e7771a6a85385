package memory

import (
	"strings"

	"github.com/tendant/fixture-content/pkg/fixturecontent"
)

// GetItemDefinition returns the item's definition, or nil when it is absent.
func (s *Store) GetItemDefinition(id fixturecontent.ID) *fixturecontent.ItemDefinition {
	item, ok := s.items[id]
	if !ok {
		return nil
	}
	return &fixturecontent.ItemDefinition{
		ID:         item.ID,
		Name:       item.Name,
		TemplateID: item.TemplateID,
		BranchID:   item.BranchID,
		ParentID:   item.ParentID,
	}
}

// GetVersions lists every version of the item. It reports false when the
// item is absent or has no versions collection.
func (s *Store) GetVersions(id fixturecontent.ID) ([]fixturecontent.VersionURI, bool) {
	item, ok := s.items[id]
	if !ok || item.Versions == nil {
		return nil, false
	}
	uris := make([]fixturecontent.VersionURI, 0, len(item.Versions))
	for _, v := range item.Versions {
		uris = append(uris, fixturecontent.VersionURI{Language: v.Language, Number: v.Number})
	}
	return uris, true
}

// GetFields returns the shared fields followed by the fields of the version
// addressed by uri, or nil when the item is absent.
func (s *Store) GetFields(id fixturecontent.ID, uri fixturecontent.VersionURI) *fixturecontent.FieldList {
	item, ok := s.items[id]
	if !ok {
		return nil
	}
	fields := &fixturecontent.FieldList{}
	for _, f := range item.SharedFields {
		fields.Add(f.FieldID, f.Value)
	}
	if v := item.FindVersion(s.language(uri.Language), uri.Number); v != nil {
		for _, f := range v.Fields {
			fields.Add(f.FieldID, f.Value)
		}
	}
	return fields
}

// GetChildren returns the children of parentID in relation order.
func (s *Store) GetChildren(parentID fixturecontent.ID) []fixturecontent.ID {
	if parentID.IsNull() {
		return nil
	}
	var ids []fixturecontent.ID
	for _, e := range s.children {
		if e.parent == parentID {
			ids = append(ids, e.child)
		}
	}
	return ids
}

// GetParent returns the stored parent id of the item.
func (s *Store) GetParent(id fixturecontent.ID) (fixturecontent.ID, bool) {
	item, ok := s.items[id]
	if !ok || item.ParentID.IsNull() {
		return fixturecontent.NullID, false
	}
	return item.ParentID, true
}

// GetItemPath returns the materialized path of the item.
func (s *Store) GetItemPath(id fixturecontent.ID) (string, bool) {
	if _, ok := s.items[id]; !ok {
		return "", false
	}
	return s.itemPath(id), true
}

// ResolvePath finds the item whose path matches, ignoring case and a
// trailing slash.
func (s *Store) ResolvePath(path string) (fixturecontent.ID, bool) {
	path = strings.TrimRight(strings.TrimSpace(path), "/")
	if path == "" {
		return fixturecontent.NullID, false
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	for _, e := range s.children {
		if strings.EqualFold(s.itemPath(e.child), path) {
			return e.child, true
		}
	}
	return fixturecontent.NullID, false
}

// ListByTemplate returns every item using templateID, in relation order.
func (s *Store) ListByTemplate(templateID fixturecontent.ID) []fixturecontent.ID {
	var ids []fixturecontent.ID
	for _, e := range s.children {
		if item, ok := s.items[e.child]; ok && item.TemplateID == templateID {
			ids = append(ids, item.ID)
		}
	}
	return ids
}
