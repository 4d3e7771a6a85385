package api

import (
	"log/slog"

	"github.com/tendant/fixture-content/pkg/fixturecontent"
)

// ItemResponse is the response body for an item
type ItemResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	TemplateID string `json:"template_id"`
	BranchID   string `json:"branch_id,omitempty"`
	ParentID   string `json:"parent_id,omitempty"`
	Path       string `json:"path"`
}

// ItemListResponse is the response body for a list of item ids
type ItemListResponse struct {
	IDs []string `json:"ids"`
}

// VersionResponse is the response body for a version
type VersionResponse struct {
	Language string `json:"language"`
	Number   int    `json:"number"`
}

// FieldsResponse is the response body for the fields of one version
type FieldsResponse struct {
	ItemID   string            `json:"item_id"`
	Language string            `json:"language"`
	Version  int               `json:"version"`
	Fields   map[string]string `json:"fields"`
}

// CreateItemRequest is the request body for creating an item
type CreateItemRequest struct {
	ID         string `json:"id,omitempty"` // generated when empty
	Name       string `json:"name"`
	TemplateID string `json:"template_id"`
	ParentID   string `json:"parent_id,omitempty"` // root level when empty
}

// MoveItemRequest is the request body for moving an item
type MoveItemRequest struct {
	DestinationID string `json:"destination_id"`
}

// AddVersionRequest is the request body for adding a version. Number 0
// creates a blank version 1.
type AddVersionRequest struct {
	Language string `json:"language"`
	Number   int    `json:"number"`
}

// FieldChangeRequest describes a single field change
type FieldChangeRequest struct {
	FieldID     string  `json:"field_id"`
	Language    string  `json:"language"`
	Version     int     `json:"version"`
	Value       string  `json:"value"`
	Remove      bool    `json:"remove"`
	Name        string  `json:"name,omitempty"`
	Key         string  `json:"key,omitempty"`
	Shared      bool    `json:"shared,omitempty"`
	Unversioned bool    `json:"unversioned,omitempty"`
}

// SaveItemRequest is the request body for saving item changes
type SaveItemRequest struct {
	Name       *string              `json:"name,omitempty"`
	TemplateID *string              `json:"template_id,omitempty"`
	BranchID   *string              `json:"branch_id,omitempty"`
	Fields     []FieldChangeRequest `json:"fields,omitempty"`
}

func idStrings(ids []fixturecontent.ID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}

func optionalID(id fixturecontent.ID) string {
	if id.IsNull() {
		return ""
	}
	return id.String()
}

// toChanges converts the request into a changeset. Malformed property ids
// fail the request; field changes with malformed ids are skipped.
func (req SaveItemRequest) toChanges() (*fixturecontent.ItemChanges, error) {
	changes := &fixturecontent.ItemChanges{Name: req.Name}
	if req.TemplateID != nil {
		id, err := parseRequestID(*req.TemplateID)
		if err != nil {
			return nil, err
		}
		changes.TemplateID = &id
	}
	if req.BranchID != nil {
		id, err := parseRequestID(*req.BranchID)
		if err != nil {
			return nil, err
		}
		changes.BranchID = &id
	}
	for _, f := range req.Fields {
		fieldID, err := parseRequestID(f.FieldID)
		if err != nil || fieldID.IsNull() {
			slog.Warn("Skipping field change with malformed id", "field_id", f.FieldID)
			continue
		}
		change := fixturecontent.FieldChange{
			FieldID:  fieldID,
			Language: f.Language,
			Number:   f.Version,
			Remove:   f.Remove,
			Value:    f.Value,
		}
		if f.Name != "" || f.Key != "" || f.Shared || f.Unversioned {
			change.Definition = &fixturecontent.FieldDefinition{
				Name:        f.Name,
				Key:         f.Key,
				Shared:      f.Shared,
				Unversioned: f.Unversioned,
			}
		}
		changes.FieldChanges = append(changes.FieldChanges, change)
	}
	return changes, nil
}

// parseRequestID accepts an empty string as the null id.
func parseRequestID(text string) (fixturecontent.ID, error) {
	var id fixturecontent.ID
	if err := id.UnmarshalText([]byte(text)); err != nil {
		return fixturecontent.NullID, err
	}
	return id, nil
}
