package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/tendant/fixture-content/pkg/fixturecontent"
)

// Handler exposes read-only fixture tools over MCP
type Handler struct {
	provider *fixturecontent.Provider
}

// NewHandler creates a new instance of Handler
func NewHandler(provider *fixturecontent.Provider) *Handler {
	return &Handler{provider: provider}
}

func stringProperty(description string) map[string]any {
	return map[string]any{"type": "string", "description": description}
}

// RegisterTools registers the fixture tools with the MCP server
func (h *Handler) RegisterTools(s *server.MCPServer) {
	s.AddTool(mcp.Tool{
		Name:        "get_item",
		Description: "Returns the definition and path of a fixture item",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]any{"id": stringProperty("Item ID")},
			Required:   []string{"id"},
		},
	}, h.handleGetItem)

	s.AddTool(mcp.Tool{
		Name:        "get_children",
		Description: "Lists the children of a fixture item",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]any{"id": stringProperty("Parent item ID")},
			Required:   []string{"id"},
		},
	}, h.handleGetChildren)

	s.AddTool(mcp.Tool{
		Name:        "get_fields",
		Description: "Returns the field values of one item version",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"id":       stringProperty("Item ID"),
				"language": stringProperty("Version language (default: en)"),
				"version":  stringProperty("Version number (default: 1)"),
			},
			Required: []string{"id"},
		},
	}, h.handleGetFields)

	s.AddTool(mcp.Tool{
		Name:        "resolve_path",
		Description: "Finds the fixture item at a path such as /sitecore/content/Home",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]any{"path": stringProperty("Item path")},
			Required:   []string{"path"},
		},
	}, h.handleResolvePath)
}

type itemResult struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	TemplateID string `json:"template_id"`
	ParentID   string `json:"parent_id"`
	Path       string `json:"path"`
}

func stringArgument(request mcp.CallToolRequest, name string) string {
	if val, ok := request.GetArguments()[name]; ok && val != nil {
		if s, ok := val.(string); ok {
			return s
		}
	}
	return ""
}

func idArgument(request mcp.CallToolRequest) (fixturecontent.ID, *mcp.CallToolResult) {
	raw := stringArgument(request, "id")
	id, ok := fixturecontent.ParseID(raw)
	if !ok || id.IsNull() {
		return fixturecontent.NullID, mcp.NewToolResultError(fmt.Sprintf("invalid item id %q", raw))
	}
	return id, nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (h *Handler) item(p *fixturecontent.Provider, id fixturecontent.ID) *itemResult {
	def := p.GetItemDefinition(id, nil)
	if def == nil {
		return nil
	}
	return &itemResult{
		ID:         def.ID.String(),
		Name:       def.Name,
		TemplateID: def.TemplateID.String(),
		ParentID:   p.GetParentID(def, nil).String(),
		Path:       p.GetItemPath(def, nil),
	}
}

func (h *Handler) handleGetItem(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, errResult := idArgument(request)
	if errResult != nil {
		return errResult, nil
	}

	var item *itemResult
	h.provider.Do(func(p *fixturecontent.Provider) {
		item = h.item(p, id)
	})
	if item == nil {
		return mcp.NewToolResultError(fixturecontent.ErrItemNotFound.Error()), nil
	}
	return jsonResult(item)
}

func (h *Handler) handleGetChildren(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, errResult := idArgument(request)
	if errResult != nil {
		return errResult, nil
	}

	var (
		children []*itemResult
		found    bool
	)
	h.provider.Do(func(p *fixturecontent.Provider) {
		def := p.GetItemDefinition(id, nil)
		if def == nil {
			return
		}
		found = true
		for _, childID := range p.GetChildIDs(def, nil).IDs() {
			if child := h.item(p, childID); child != nil {
				children = append(children, child)
			}
		}
	})
	if !found {
		return mcp.NewToolResultError(fixturecontent.ErrItemNotFound.Error()), nil
	}
	if children == nil {
		children = []*itemResult{}
	}
	return jsonResult(children)
}

func (h *Handler) handleGetFields(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, errResult := idArgument(request)
	if errResult != nil {
		return errResult, nil
	}
	language := stringArgument(request, "language")
	if language == "" {
		language = fixturecontent.DefaultLanguage
	}
	number := 1
	if raw := stringArgument(request, "version"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return mcp.NewToolResultError(fmt.Sprintf("invalid version %q", raw)), nil
		}
		number = n
	}

	var fields *fixturecontent.FieldList
	h.provider.Do(func(p *fixturecontent.Provider) {
		fields = p.GetItemFields(p.GetItemDefinition(id, nil), fixturecontent.VersionURI{Language: language, Number: number}, nil)
	})
	if fields == nil {
		return mcp.NewToolResultError(fixturecontent.ErrItemNotFound.Error()), nil
	}

	values := make(map[string]string, fields.Len())
	for fieldID, value := range fields.Map() {
		values[fieldID.String()] = value
	}
	return jsonResult(values)
}

func (h *Handler) handleResolvePath(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path := stringArgument(request, "path")
	if path == "" {
		return mcp.NewToolResultError("path is required"), nil
	}

	var item *itemResult
	h.provider.Do(func(p *fixturecontent.Provider) {
		item = h.item(p, p.ResolvePath(path, nil))
	})
	if item == nil {
		return mcp.NewToolResultError(fmt.Sprintf("no item at %s", path)), nil
	}
	return jsonResult(item)
}
