package server

import "github.com/modelcontextprotocol/go-sdk/mcp"

// Tool names.
const (
	ToolGenerate        = "cutlist_generate"
	ToolComponents      = "cutlist_components"
	ToolPreprocess      = "drawing_preprocess"
	ToolDimensions      = "drawing_dimensions"
	ToolSectionsOverlay = "drawing_sections_overlay"
)

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

var pathProperty = map[string]any{
	"type":        "string",
	"description": "Absolute path to the drawing (PNG, JPEG, GIF, BMP, TIFF, WebP or PDF)",
}

// ToolDefinitions returns all available tools.
func ToolDefinitions() []*mcp.Tool {
	return []*mcp.Tool{
		// Pipeline
		{
			Name:        ToolGenerate,
			Description: "Generate a cutting list from a kitchen cabinet layout drawing. Returns the components, a markdown table, per-section analysis and an overall confidence score.",
			InputSchema: inputSchema(map[string]any{
				"path": pathProperty,
			}, []string{"path"}),
		},
		{
			Name:        ToolComponents,
			Description: "Calculate the board components for cabinet sections whose sizes are already known. Missing depth defaults to 560mm, type to straight and shelves to 1.",
			InputSchema: inputSchema(map[string]any{
				"sections": map[string]any{
					"type":        "array",
					"description": "Cabinet sections from left to right",
					"items": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"index":        map[string]any{"type": "integer", "description": "1-based position in the run (default: position in this list)"},
							"width_mm":     map[string]any{"type": "integer", "description": "Cabinet width in mm"},
							"depth_mm":     map[string]any{"type": "integer", "description": "Cabinet depth in mm"},
							"cabinet_type": map[string]any{"type": "string", "enum": []string{"straight", "corner", "filler", "drawer", "tall"}},
							"shelves":      map[string]any{"type": "integer", "description": "Number of shelves, 0 to 10"},
							"drawers":      map[string]any{"type": "integer", "description": "Number of drawers (drawer units only), 0 to 10"},
						},
						"required": []string{"width_mm"},
					},
				},
				"end_panels": map[string]any{
					"type":        "boolean",
					"description": "Add left and right end panels. Default true",
					"default":     true,
				},
			}, []string{"sections"}),
		},

		// Stages
		{
			Name:        ToolPreprocess,
			Description: "Decode, resize, deskew and enhance a drawing, and report its quality checks (resolution, blank page, contrast, edge density).",
			InputSchema: inputSchema(map[string]any{
				"path": pathProperty,
			}, []string{"path"}),
		},
		{
			Name:        ToolDimensions,
			Description: "Read the individual cabinet widths from the bottom dimension line of a drawing, with the source and confidence of the reading.",
			InputSchema: inputSchema(map[string]any{
				"path": pathProperty,
			}, []string{"path"}),
		},
		{
			Name:        ToolSectionsOverlay,
			Description: "Draw the detected cabinet section boundaries on the normalized drawing and return it as base64-encoded PNG. Use this to check how the widths map onto the drawing.",
			InputSchema: inputSchema(map[string]any{
				"path": pathProperty,
				"widths": map[string]any{
					"type":        "array",
					"items":       map[string]any{"type": "integer"},
					"description": "Optional cabinet widths in mm from left to right. Extracted from the drawing when omitted",
				},
			}, []string{"path"}),
		},
	}
}
