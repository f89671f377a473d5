package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap/zaptest"

	"github.com/ironsheep/cutlist-mcp/internal/cutlist"
)

var testImpl = &mcp.Implementation{Name: "cutlist-test", Version: "0.1.0"}

// createTestDrawingFile writes a white drawing with a dark frame and returns
// its path.
func createTestDrawingFile(t *testing.T, width, height int) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := color.RGBA{255, 255, 255, 255}
			if y < 3 || y >= height-3 {
				c = color.RGBA{0, 0, 0, 255}
			}
			img.Set(x, y, c)
		}
	}

	path := filepath.Join(t.TempDir(), "drawing.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create file: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return path
}

func newSession(t *testing.T) *mcp.ClientSession {
	t.Helper()
	logger := zaptest.NewLogger(t)
	s := New(cutlist.New(cutlist.Config{}, nil, nil, logger), "test", logger)

	serverT, clientT := mcp.NewInMemoryTransports()
	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = s.Serve(ctx, serverT) }()

	client := mcp.NewClient(testImpl, nil)
	session, err := client.Connect(ctx, clientT, nil)
	if err != nil {
		cancel()
		t.Fatalf("client connect: %v", err)
	}
	t.Cleanup(func() {
		session.Close()
		cancel()
	})
	return session
}

func callTool(t *testing.T, session *mcp.ClientSession, name string, args any) *mcp.CallToolResult {
	t.Helper()
	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	if err != nil {
		t.Fatalf("CallTool(%s): %v", name, err)
	}
	return result
}

// callToolJSON calls a tool that must succeed and decodes its JSON text.
func callToolJSON(t *testing.T, session *mcp.ClientSession, name string, args any, v any) {
	t.Helper()
	result := callTool(t, session, name, args)
	text := resultText(t, result)
	if result.IsError {
		t.Fatalf("CallTool(%s) tool error: %s", name, text)
	}
	if err := json.Unmarshal([]byte(text), v); err != nil {
		t.Fatalf("CallTool(%s): unmarshal: %v\n%s", name, err, text)
	}
}

// resultText returns the text of the first content item of a tool result.
func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("tool result has no content")
	}
	tc, ok := result.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("expected TextContent, got %T", result.Content[0])
	}
	return tc.Text
}

func TestListTools(t *testing.T) {
	session := newSession(t)

	res, err := session.ListTools(context.Background(), nil)
	if err != nil {
		t.Fatalf("ListTools: %v", err)
	}

	want := map[string]bool{}
	for _, tool := range ToolDefinitions() {
		want[tool.Name] = true
	}
	if len(res.Tools) != len(want) {
		t.Errorf("got %d tools, want %d", len(res.Tools), len(want))
	}
	for _, tool := range res.Tools {
		if !want[tool.Name] {
			t.Errorf("unexpected tool %q", tool.Name)
		}
		if tool.Description == "" {
			t.Errorf("tool %q has no description", tool.Name)
		}
	}
}

func TestTool_Generate(t *testing.T) {
	session := newSession(t)
	path := createTestDrawingFile(t, 1205, 600)

	var res struct {
		Success       bool   `json:"success"`
		Method        string `json:"method"`
		TableMarkdown string `json:"table_markdown"`
		Summary       struct {
			TotalCabinets int `json:"total_cabinets"`
		} `json:"summary"`
	}
	callToolJSON(t, session, ToolGenerate, map[string]any{"path": path}, &res)

	if !res.Success || res.Method != cutlist.MethodDimensionDriven {
		t.Fatalf("got success=%v method=%q", res.Success, res.Method)
	}
	if res.Summary.TotalCabinets != 5 {
		t.Errorf("cabinets: got %d, want 5", res.Summary.TotalCabinets)
	}
	if !strings.HasPrefix(res.TableMarkdown, "| Component Type |") {
		t.Errorf("unexpected markdown: %.60s", res.TableMarkdown)
	}
}

func TestTool_GenerateUndecodable(t *testing.T) {
	session := newSession(t)
	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("not a drawing"), 0o644); err != nil {
		t.Fatal(err)
	}

	var res struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
		Method  string `json:"method"`
	}
	callToolJSON(t, session, ToolGenerate, map[string]any{"path": path}, &res)

	if res.Success || res.Method != cutlist.MethodFailed || res.Error == "" {
		t.Errorf("expected failure result, got %+v", res)
	}
}

func TestTool_Errors(t *testing.T) {
	session := newSession(t)

	tests := []struct {
		name    string
		tool    string
		args    map[string]any
		wantErr string
	}{
		{"missing path", ToolGenerate, map[string]any{}, "path is required"},
		{"missing file", ToolPreprocess, map[string]any{"path": "/nonexistent/drawing.png"}, "failed to read drawing"},
		{"no sections", ToolComponents, map[string]any{"sections": []any{}}, "at least one section"},
		{"bad width", ToolComponents, map[string]any{"sections": []any{map[string]any{"width_mm": 0}}}, "width_mm must be positive"},
		{"bad type", ToolComponents, map[string]any{"sections": []any{map[string]any{"width_mm": 600, "cabinet_type": "pantry"}}}, "unknown cabinet_type"},
		{"too many shelves", ToolComponents, map[string]any{"sections": []any{map[string]any{"width_mm": 600, "shelves": 300000}}}, "shelves must be between 0 and 10"},
		{"negative shelves", ToolComponents, map[string]any{"sections": []any{map[string]any{"width_mm": 600, "shelves": -1}}}, "shelves must be between 0 and 10"},
		{"too many drawers", ToolComponents, map[string]any{"sections": []any{map[string]any{"width_mm": 600, "cabinet_type": "drawer", "drawers": 60}}}, "drawers must be between 0 and 10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := callTool(t, session, tt.tool, tt.args)
			if !result.IsError {
				t.Fatal("expected tool error")
			}
			if msg := resultText(t, result); !strings.Contains(msg, tt.wantErr) {
				t.Errorf("error %q does not contain %q", msg, tt.wantErr)
			}
		})
	}
}

func TestTool_Components(t *testing.T) {
	session := newSession(t)

	var res struct {
		Components []struct {
			ComponentType string `json:"component_type"`
			PartName      string `json:"part_name"`
			Width         int    `json:"width"`
		} `json:"components"`
		TableMarkdown string `json:"table_markdown"`
		Summary       struct {
			TotalCabinets   int     `json:"total_cabinets"`
			TotalComponents int     `json:"total_components"`
			TotalAreaM2     float64 `json:"total_area_m2"`
		} `json:"summary"`
	}
	callToolJSON(t, session, ToolComponents, map[string]any{
		"sections": []any{
			map[string]any{"width_mm": 900},
			map[string]any{"width_mm": 60, "cabinet_type": "filler"},
		},
	}, &res)

	// Straight cabinet (5 rows), filler (1 row) and only a left end panel.
	if len(res.Components) != 7 {
		t.Fatalf("got %d components, want 7", len(res.Components))
	}
	if res.Components[0].PartName != "Side Panel (Section 1)" || res.Components[0].Width != 560 {
		t.Errorf("first component: %+v", res.Components[0])
	}
	last := res.Components[len(res.Components)-1]
	if last.PartName != "End Panel (Left)" {
		t.Errorf("last component: %+v", last)
	}
	if res.Summary.TotalCabinets != 2 || res.Summary.TotalComponents != 7 {
		t.Errorf("summary: %+v", res.Summary)
	}
}

func TestTool_ComponentsWithoutEndPanels(t *testing.T) {
	session := newSession(t)

	var res struct {
		Components []json.RawMessage `json:"components"`
	}
	callToolJSON(t, session, ToolComponents, map[string]any{
		"sections":   []any{map[string]any{"width_mm": 600, "depth_mm": 580, "shelves": 0}},
		"end_panels": false,
	}, &res)

	// Gable, base, back, brace.
	if len(res.Components) != 4 {
		t.Errorf("got %d components, want 4", len(res.Components))
	}
}

func TestTool_Preprocess(t *testing.T) {
	session := newSession(t)
	path := createTestDrawingFile(t, 640, 480)

	var meta struct {
		Format        string `json:"format"`
		ProcessedSize struct {
			Width  int `json:"width"`
			Height int `json:"height"`
		} `json:"processed_size"`
		Validation struct {
			Warnings []string `json:"warnings"`
		} `json:"validation"`
	}
	callToolJSON(t, session, ToolPreprocess, map[string]any{"path": path}, &meta)

	if meta.Format != "png" {
		t.Errorf("format: got %q", meta.Format)
	}
	if meta.ProcessedSize.Width != 640 || meta.ProcessedSize.Height != 480 {
		t.Errorf("size: got %+v", meta.ProcessedSize)
	}
	if len(meta.Validation.Warnings) == 0 {
		t.Error("expected a low resolution warning")
	}
}

func TestTool_Dimensions(t *testing.T) {
	session := newSession(t)
	path := createTestDrawingFile(t, 400, 300)

	var res struct {
		Widths     []int  `json:"cabinet_widths"`
		TotalWidth int    `json:"total_width"`
		Confidence string `json:"confidence"`
		Source     string `json:"source"`
	}
	callToolJSON(t, session, ToolDimensions, map[string]any{"path": path}, &res)

	// No model and no OCR configured.
	if res.Source != "default" || res.Confidence != "default" || res.TotalWidth != 2410 {
		t.Errorf("got %+v", res)
	}
}

func TestTool_SectionsOverlay(t *testing.T) {
	session := newSession(t)
	path := createTestDrawingFile(t, 300, 200)

	var res struct {
		Sections []struct {
			Index   int `json:"index"`
			CropBox struct {
				X1 int `json:"x1"`
				X2 int `json:"x2"`
			} `json:"crop_box"`
		} `json:"sections"`
		Image struct {
			Width       int    `json:"width"`
			Height      int    `json:"height"`
			ImageBase64 string `json:"image_base64"`
		} `json:"image"`
	}
	callToolJSON(t, session, ToolSectionsOverlay, map[string]any{
		"path":   path,
		"widths": []int{1000, 500},
	}, &res)

	if len(res.Sections) != 2 {
		t.Fatalf("got %d sections, want 2", len(res.Sections))
	}
	if res.Sections[0].CropBox.X2 != 200 || res.Sections[1].CropBox.X1 != 200 {
		t.Errorf("boxes: %+v", res.Sections)
	}
	if res.Image.Width != 300 || res.Image.Height != 200 {
		t.Errorf("overlay size: %dx%d", res.Image.Width, res.Image.Height)
	}

	data, err := base64.StdEncoding.DecodeString(res.Image.ImageBase64)
	if err != nil {
		t.Fatalf("decode base64: %v", err)
	}
	img, err := png.Decode(strings.NewReader(string(data)))
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	// Boundary lines are red.
	r, g, b, _ := img.At(200, 100).RGBA()
	if r>>8 != 255 || g>>8 != 0 || b>>8 != 0 {
		t.Errorf("pixel on boundary: got %d,%d,%d, want red", r>>8, g>>8, b>>8)
	}
}
