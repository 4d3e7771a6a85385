// Package api exposes a fixture provider over HTTP.
//
// Every handler runs its provider calls inside Provider.Do, so one provider
// can serve concurrent requests.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/tendant/fixture-content/pkg/fixturecontent"
)

// ItemHandler handles HTTP requests for fixture items
type ItemHandler struct {
	provider        *fixturecontent.Provider
	defaultLanguage string
}

// HandlerOption configures an ItemHandler
type HandlerOption func(*ItemHandler)

// WithDefaultLanguage sets the language used when a request names none
func WithDefaultLanguage(language string) HandlerOption {
	return func(h *ItemHandler) {
		if language != "" {
			h.defaultLanguage = language
		}
	}
}

// NewItemHandler creates a new item handler
func NewItemHandler(provider *fixturecontent.Provider, opts ...HandlerOption) *ItemHandler {
	h := &ItemHandler{
		provider:        provider,
		defaultLanguage: fixturecontent.DefaultLanguage,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Routes returns the routes for items, paths, templates and blobs
func (h *ItemHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Route("/items", func(r chi.Router) {
		r.Post("/", h.CreateItem)
		r.Get("/{id}", h.GetItem)
		r.Put("/{id}", h.SaveItem)
		r.Delete("/{id}", h.DeleteItem)
		r.Get("/{id}/children", h.GetChildren)
		r.Get("/{id}/parent", h.GetParent)
		r.Post("/{id}/move", h.MoveItem)
		r.Get("/{id}/versions", h.GetVersions)
		r.Post("/{id}/versions", h.AddVersion)
		r.Get("/{id}/fields", h.GetFields)
	})

	r.Get("/paths", h.ResolvePath)
	r.Get("/templates", h.GetTemplates)
	r.Get("/templates/{id}/items", h.GetTemplateItems)

	r.Get("/blobs/{id}", h.GetBlob)
	r.Head("/blobs/{id}", h.HeadBlob)
	r.Put("/blobs/{id}", h.PutBlob)

	return r
}

// urlID parses the {id} URL parameter, writing 400 when it is malformed.
func urlID(w http.ResponseWriter, r *http.Request) (fixturecontent.ID, bool) {
	raw := chi.URLParam(r, "id")
	id, ok := fixturecontent.ParseID(raw)
	if !ok || id.IsNull() {
		slog.Warn("Invalid item ID", "id", raw)
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return fixturecontent.NullID, false
	}
	return id, true
}

func (h *ItemHandler) itemResponse(p *fixturecontent.Provider, def *fixturecontent.ItemDefinition) ItemResponse {
	return ItemResponse{
		ID:         def.ID.String(),
		Name:       def.Name,
		TemplateID: optionalID(def.TemplateID),
		BranchID:   optionalID(def.BranchID),
		ParentID:   optionalID(p.GetParentID(def, nil)),
		Path:       p.GetItemPath(def, nil),
	}
}

// GetItem returns an item definition
func (h *ItemHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}

	var resp *ItemResponse
	h.provider.Do(func(p *fixturecontent.Provider) {
		if def := p.GetItemDefinition(id, nil); def != nil {
			item := h.itemResponse(p, def)
			resp = &item
		}
	})
	if resp == nil {
		http.Error(w, fixturecontent.ErrItemNotFound.Error(), http.StatusNotFound)
		return
	}

	render.JSON(w, r, resp)
}

// GetChildren returns the ids of an item's children
func (h *ItemHandler) GetChildren(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}

	var children *fixturecontent.IDList
	h.provider.Do(func(p *fixturecontent.Provider) {
		if def := p.GetItemDefinition(id, nil); def != nil {
			children = p.GetChildIDs(def, nil)
		}
	})
	if children == nil {
		http.Error(w, fixturecontent.ErrItemNotFound.Error(), http.StatusNotFound)
		return
	}

	render.JSON(w, r, ItemListResponse{IDs: idStrings(children.IDs())})
}

// GetParent returns the parent item. Root-level items have no parent.
func (h *ItemHandler) GetParent(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}

	var (
		resp  *ItemResponse
		found bool
	)
	h.provider.Do(func(p *fixturecontent.Provider) {
		def := p.GetItemDefinition(id, nil)
		if def == nil {
			return
		}
		found = true
		if parent := p.GetItemDefinition(p.GetParentID(def, nil), nil); parent != nil {
			item := h.itemResponse(p, parent)
			resp = &item
		}
	})
	if !found {
		http.Error(w, fixturecontent.ErrItemNotFound.Error(), http.StatusNotFound)
		return
	}
	if resp == nil {
		http.Error(w, fixturecontent.ErrParentNotFound.Error(), http.StatusNotFound)
		return
	}

	render.JSON(w, r, resp)
}

// GetVersions returns the versions of an item
func (h *ItemHandler) GetVersions(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}

	var (
		versions *fixturecontent.VersionURIList
		found    bool
	)
	h.provider.Do(func(p *fixturecontent.Provider) {
		if def := p.GetItemDefinition(id, nil); def != nil {
			found = true
			versions = p.GetItemVersions(def, nil)
		}
	})
	if !found {
		http.Error(w, fixturecontent.ErrItemNotFound.Error(), http.StatusNotFound)
		return
	}

	resp := make([]VersionResponse, 0, versions.Len())
	for _, uri := range versions.URIs() {
		resp = append(resp, VersionResponse{Language: uri.Language, Number: uri.Number})
	}
	render.JSON(w, r, resp)
}

// GetFields returns the field values of one version. Without a version
// parameter the newest version in the language is used.
func (h *ItemHandler) GetFields(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}

	language := r.URL.Query().Get("language")
	if language == "" {
		language = h.defaultLanguage
	}
	number := 0
	if raw := r.URL.Query().Get("version"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			http.Error(w, "Invalid version", http.StatusBadRequest)
			return
		}
		number = n
	}

	var fields *fixturecontent.FieldList
	h.provider.Do(func(p *fixturecontent.Provider) {
		def := p.GetItemDefinition(id, nil)
		if def == nil {
			return
		}
		if number == 0 {
			for _, uri := range p.GetItemVersions(def, nil).URIs() {
				if uri.Language == language && uri.Number > number {
					number = uri.Number
				}
			}
		}
		fields = p.GetItemFields(def, fixturecontent.VersionURI{Language: language, Number: number}, nil)
	})
	if fields == nil {
		http.Error(w, fixturecontent.ErrItemNotFound.Error(), http.StatusNotFound)
		return
	}

	resp := FieldsResponse{
		ItemID:   id.String(),
		Language: language,
		Version:  number,
		Fields:   make(map[string]string, fields.Len()),
	}
	for fieldID, value := range fields.Map() {
		resp.Fields[fieldID.String()] = value
	}
	render.JSON(w, r, resp)
}

// CreateItem creates a new item
func (h *ItemHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var req CreateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		http.Error(w, "Name is required", http.StatusBadRequest)
		return
	}

	id, err := parseRequestID(req.ID)
	if err != nil {
		http.Error(w, "Invalid item ID", http.StatusBadRequest)
		return
	}
	if id.IsNull() {
		id = fixturecontent.NewID()
	}
	templateID, err := parseRequestID(req.TemplateID)
	if err != nil {
		http.Error(w, "Invalid template ID", http.StatusBadRequest)
		return
	}
	parentID, err := parseRequestID(req.ParentID)
	if err != nil {
		http.Error(w, "Invalid parent ID", http.StatusBadRequest)
		return
	}

	var (
		resp      ItemResponse
		createErr error
	)
	h.provider.Do(func(p *fixturecontent.Provider) {
		if p.GetItemDefinition(id, nil) != nil {
			createErr = fixturecontent.ErrItemExists
			return
		}
		var parent *fixturecontent.ItemDefinition
		if !parentID.IsNull() {
			if parent = p.GetItemDefinition(parentID, nil); parent == nil {
				createErr = fixturecontent.ErrParentNotFound
				return
			}
		}
		if !p.CreateItem(id, req.Name, templateID, parent, nil) {
			createErr = errors.New("item could not be created")
			return
		}
		resp = h.itemResponse(p, p.GetItemDefinition(id, nil))
	})
	if createErr != nil {
		err := &fixturecontent.ItemError{ItemID: id, Op: "create", Err: createErr}
		slog.Error("Failed to create item", "error", err)
		http.Error(w, err.Error(), statusFor(createErr))
		return
	}

	slog.Info("Item created", "item_id", id.String(), "path", resp.Path)
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, resp)
}

// MoveItem moves an item below a new parent
func (h *ItemHandler) MoveItem(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	var req MoveItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	destinationID, err := parseRequestID(req.DestinationID)
	if err != nil || destinationID.IsNull() {
		http.Error(w, "Invalid destination ID", http.StatusBadRequest)
		return
	}

	var (
		resp    ItemResponse
		moveErr error
	)
	h.provider.Do(func(p *fixturecontent.Provider) {
		def := p.GetItemDefinition(id, nil)
		if def == nil {
			moveErr = fixturecontent.ErrItemNotFound
			return
		}
		destination := p.GetItemDefinition(destinationID, nil)
		if destination == nil {
			moveErr = fixturecontent.ErrParentNotFound
			return
		}
		if !p.MoveItem(def, destination, nil) {
			moveErr = errInvalidMove
			return
		}
		resp = h.itemResponse(p, def)
	})
	if moveErr != nil {
		http.Error(w, (&fixturecontent.ItemError{ItemID: id, Op: "move", Err: moveErr}).Error(), statusFor(moveErr))
		return
	}

	slog.Info("Item moved", "item_id", id.String(), "path", resp.Path)
	render.JSON(w, r, resp)
}

// AddVersion adds a version to an item
func (h *ItemHandler) AddVersion(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	var req AddVersionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	number := -1
	var language string
	h.provider.Do(func(p *fixturecontent.Provider) {
		def := p.GetItemDefinition(id, nil)
		if def == nil {
			return
		}
		number = p.AddVersion(def, fixturecontent.VersionURI{Language: req.Language, Number: req.Number}, nil)
		language = req.Language
		if language == fixturecontent.LanguageInvariant {
			language = h.defaultLanguage
		}
	})
	if number < 0 {
		http.Error(w, fixturecontent.ErrItemNotFound.Error(), http.StatusNotFound)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, VersionResponse{Language: language, Number: number})
}

// SaveItem applies a changeset to an item
func (h *ItemHandler) SaveItem(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	var req SaveItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	changes, err := req.toChanges()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var saved bool
	h.provider.Do(func(p *fixturecontent.Provider) {
		saved = p.SaveItem(p.GetItemDefinition(id, nil), changes, nil)
	})
	if !saved {
		http.Error(w, fixturecontent.ErrItemNotFound.Error(), http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteItem deletes an item and its descendants
func (h *ItemHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}

	var deleted bool
	h.provider.Do(func(p *fixturecontent.Provider) {
		deleted = p.DeleteItem(p.GetItemDefinition(id, nil), nil)
	})
	if !deleted {
		http.Error(w, fixturecontent.ErrItemNotFound.Error(), http.StatusNotFound)
		return
	}

	slog.Info("Item deleted", "item_id", id.String())
	w.WriteHeader(http.StatusNoContent)
}

// ResolvePath returns the item at the path given by the path query parameter
func (h *ItemHandler) ResolvePath(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		http.Error(w, "Path is required", http.StatusBadRequest)
		return
	}

	var resp *ItemResponse
	h.provider.Do(func(p *fixturecontent.Provider) {
		if def := p.GetItemDefinition(p.ResolvePath(path, nil), nil); def != nil {
			item := h.itemResponse(p, def)
			resp = &item
		}
	})
	if resp == nil {
		http.Error(w, fixturecontent.ErrItemNotFound.Error(), http.StatusNotFound)
		return
	}

	render.JSON(w, r, resp)
}

// GetTemplates returns the ids of all template items
func (h *ItemHandler) GetTemplates(w http.ResponseWriter, r *http.Request) {
	var ids *fixturecontent.IDList
	h.provider.Do(func(p *fixturecontent.Provider) {
		ids = p.GetTemplateItemIDs(nil)
	})
	render.JSON(w, r, ItemListResponse{IDs: idStrings(ids.IDs())})
}

// GetTemplateItems returns the ids of items based on a template
func (h *ItemHandler) GetTemplateItems(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}

	var ids *fixturecontent.IDList
	h.provider.Do(func(p *fixturecontent.Provider) {
		ids = p.GetItemIDsByTemplate(id, nil)
	})
	render.JSON(w, r, ItemListResponse{IDs: idStrings(ids.IDs())})
}

var errInvalidMove = errors.New("destination is inside the moved subtree")

func statusFor(err error) int {
	switch {
	case errors.Is(err, fixturecontent.ErrItemNotFound),
		errors.Is(err, fixturecontent.ErrParentNotFound),
		errors.Is(err, fixturecontent.ErrBlobNotFound):
		return http.StatusNotFound
	case errors.Is(err, fixturecontent.ErrItemExists), errors.Is(err, errInvalidMove):
		return http.StatusConflict
	case errors.Is(err, fixturecontent.ErrMalformedID):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
