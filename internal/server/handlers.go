package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/ironsheep/cutlist-mcp/internal/cutlist"
	"github.com/ironsheep/cutlist-mcp/internal/extract"
	"github.com/ironsheep/cutlist-mcp/internal/imaging"
	"github.com/ironsheep/cutlist-mcp/internal/preprocess"
	"github.com/ironsheep/cutlist-mcp/internal/rules"
	"github.com/ironsheep/cutlist-mcp/internal/section"
)

// toolHandler wraps executeTool in MCP's result format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Errors become a result with IsError set.
func (s *Server) toolHandler(name string) mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result, err := s.executeTool(ctx, name, req.Params.Arguments)
		if err != nil {
			s.logger.Warn("tool failed", zap.String("tool", name), zap.Error(err))
			var res mcp.CallToolResult
			res.SetError(err)
			return &res, nil
		}

		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			var res mcp.CallToolResult
			res.SetError(fmt.Errorf("marshal: %w", err))
			return &res, nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
		}, nil
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (any, error) {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}
	switch name {
	case ToolGenerate:
		return s.handleGenerate(ctx, args)
	case ToolComponents:
		return s.handleComponents(args)
	case ToolPreprocess:
		return s.handlePreprocess(args)
	case ToolDimensions:
		return s.handleDimensions(ctx, args)
	case ToolSectionsOverlay:
		return s.handleSectionsOverlay(ctx, args)
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

type pathArgs struct {
	Path string `json:"path"`
}

func decodeArgs(args json.RawMessage, v any) error {
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

// readDrawing loads the file named by the path argument.
func readDrawing(path string) ([]byte, error) {
	if path == "" {
		return nil, errors.New("path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read drawing: %w", err)
	}
	return data, nil
}

// normalize reads and preprocesses the drawing at path.
func (s *Server) normalize(path string) (*preprocess.NormalizedImage, error) {
	data, err := readDrawing(path)
	if err != nil {
		return nil, err
	}
	img, _, err := s.pipeline.Normalize(data)
	return img, err
}

// === Pipeline Handlers ===

func (s *Server) handleGenerate(ctx context.Context, args json.RawMessage) (any, error) {
	var a pathArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	data, err := readDrawing(a.Path)
	if err != nil {
		return nil, err
	}
	return s.pipeline.Run(ctx, data), nil
}

type sectionArgs struct {
	Index       int    `json:"index"`
	WidthMM     int    `json:"width_mm"`
	DepthMM     int    `json:"depth_mm"`
	CabinetType string `json:"cabinet_type"`
	Shelves     *int   `json:"shelves"`
	Drawers     int    `json:"drawers"`
}

type componentsArgs struct {
	Sections  []sectionArgs `json:"sections"`
	EndPanels *bool         `json:"end_panels"`
}

type componentsResult struct {
	Components    []rules.Component `json:"components"`
	TableMarkdown string            `json:"table_markdown"`
	Summary       cutlist.Summary   `json:"summary"`
}

func (s *Server) handleComponents(args json.RawMessage) (any, error) {
	var a componentsArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if len(a.Sections) == 0 {
		return nil, errors.New("at least one section is required")
	}

	var components []rules.Component
	for i, sa := range a.Sections {
		sec, err := sa.section(i + 1)
		if err != nil {
			return nil, err
		}
		components = append(components, rules.CalculateComponents(sec)...)
	}
	if a.EndPanels == nil || *a.EndPanels {
		components = rules.AddEndPanels(components, len(a.Sections))
	}

	return &componentsResult{
		Components:    components,
		TableMarkdown: cutlist.MarkdownTable(components),
		Summary:       cutlist.Summarize(components, len(a.Sections)),
	}, nil
}

// section converts tool arguments into a section, filling in defaults.
func (a sectionArgs) section(position int) (section.Section, error) {
	if a.WidthMM <= 0 {
		return section.Section{}, fmt.Errorf("section %d: width_mm must be positive", position)
	}
	if a.Shelves != nil && (*a.Shelves < 0 || *a.Shelves > section.MaxShelves) {
		return section.Section{}, fmt.Errorf("section %d: shelves must be between 0 and %d", position, section.MaxShelves)
	}
	if a.Drawers < 0 || a.Drawers > section.MaxDrawers {
		return section.Section{}, fmt.Errorf("section %d: drawers must be between 0 and %d", position, section.MaxDrawers)
	}

	s := section.Section{
		Index:   a.Index,
		WidthMM: a.WidthMM,
		Analysis: section.Analysis{
			DepthMM:     a.DepthMM,
			CabinetType: section.TypeStraight,
			Shelves:     section.DefaultShelves,
			Drawers:     a.Drawers,
		},
	}
	if s.Index == 0 {
		s.Index = position
	}
	if a.CabinetType != "" {
		t, ok := section.ParseCabinetType(strings.ToLower(a.CabinetType))
		if !ok {
			return section.Section{}, fmt.Errorf("section %d: unknown cabinet_type %q", position, a.CabinetType)
		}
		s.CabinetType = t
	}
	if a.Shelves != nil {
		s.Shelves = *a.Shelves
	}
	return s, nil
}

// === Stage Handlers ===

func (s *Server) handlePreprocess(args json.RawMessage) (any, error) {
	var a pathArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	img, err := s.normalize(a.Path)
	if err != nil {
		return nil, err
	}
	return img.Metadata, nil
}

func (s *Server) handleDimensions(ctx context.Context, args json.RawMessage) (any, error) {
	var a pathArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	img, err := s.normalize(a.Path)
	if err != nil {
		return nil, err
	}
	return s.pipeline.ExtractDimensions(ctx, img), nil
}

// sourceInput tags widths supplied by the caller.
const sourceInput extract.Source = "input"

type overlayArgs struct {
	Path   string `json:"path"`
	Widths []int  `json:"widths"`
}

type overlayResult struct {
	Dimensions *extract.Result     `json:"dimensions"`
	Sections   []section.Section   `json:"sections"`
	Image      *imaging.CropResult `json:"image"`
}

func (s *Server) handleSectionsOverlay(ctx context.Context, args json.RawMessage) (any, error) {
	var a overlayArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	img, err := s.normalize(a.Path)
	if err != nil {
		return nil, err
	}

	var dims *extract.Result
	if len(a.Widths) > 0 {
		total := 0
		for _, w := range a.Widths {
			if w <= 0 {
				return nil, fmt.Errorf("widths must be positive, got %d", w)
			}
			total += w
		}
		dims = &extract.Result{Widths: a.Widths, TotalWidth: total, Confidence: extract.ConfidenceHigh, Source: sourceInput}
	} else {
		dims = s.pipeline.ExtractDimensions(ctx, img)
	}

	sections := s.pipeline.DetectSections(img, dims)
	bands := make([]imaging.Band, len(sections))
	for i, sec := range sections {
		bands[i] = imaging.Band{
			X1:    sec.CropBox.X1,
			X2:    sec.CropBox.X2,
			Label: fmt.Sprintf("#%d %dmm", sec.Index, sec.WidthMM),
		}
	}

	encoded, err := imaging.EncodeResult(imaging.OverlayBands(img.Image(), bands))
	if err != nil {
		return nil, err
	}
	if sections == nil {
		sections = []section.Section{}
	}
	return &overlayResult{Dimensions: dims, Sections: sections, Image: encoded}, nil
}
