package domlocate

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hazyhaar/domtrail/kit"
)

// RegisterMCP registers domtrail_locate and domtrail_session on an MCP server.
func (s *Service) RegisterMCP(srv *mcp.Server) {
	kit.RegisterMCPTool(srv, &mcp.Tool{
		Name: "domtrail_locate",
		Description: "Compute robust locators (attribute XPath, positional XPath, CSS) " +
			"for one element of an HTML document.",
		InputSchema: inputSchema(map[string]any{
			"html":   map[string]any{"type": "string", "description": "HTML document"},
			"target": map[string]any{"type": "string", "description": "XPath or CSS selector matching exactly one element"},
			"detach": map[string]any{"type": "boolean", "description": "Compute as if the target had been removed from the page"},
			"anchor": map[string]any{"type": "string", "description": "Node qualifying a detached target (default: its parent)"},
			"attributes": map[string]any{
				"type":        "array",
				"description": "Attribute preferences; each entry is a list of names combined with AND",
				"items":       map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			},
			"id_exclusion": map[string]any{"type": "string", "description": "Regular expression of unstable ids"},
			"verify":       map[string]any{"type": "boolean", "description": "Resolve the locator back on the document"},
			"session_id":   map[string]any{"type": "string", "description": "Recording session the call belongs to"},
		}, []string{"html", "target"}),
	}, s.LocateEndpoint(), decodeLocate)

	kit.RegisterMCPTool(srv, &mcp.Tool{
		Name:        "domtrail_session",
		Description: "Generate a recording session id (UUID v4).",
		InputSchema: inputSchema(map[string]any{}, nil),
	}, s.SessionEndpoint(), kit.DecodeJSON(func() *struct{} { return &struct{}{} }))
}

var decodeLocateJSON = kit.DecodeJSON(func() *LocateRequest { return &LocateRequest{} })

// decodeLocate also carries the request session id into the context.
func decodeLocate(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
	res, err := decodeLocateJSON(req)
	if err != nil {
		return nil, err
	}
	if id := res.Request.(*LocateRequest).SessionID; id != "" {
		res.EnrichCtx = func(ctx context.Context) context.Context {
			return kit.WithSessionID(ctx, id)
		}
	}
	return res, nil
}

func inputSchema(properties map[string]any, required []string) map[string]any {
	s := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}
