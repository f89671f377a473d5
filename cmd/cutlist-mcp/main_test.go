package main

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func writeDrawing(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 1205, 600))
	for y := 0; y < 600; y++ {
		for x := 0; x < 1205; x++ {
			img.Set(x, y, color.White)
		}
	}
	path := filepath.Join(t.TempDir(), "layout.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRun_Version(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run(context.Background(), []string{"--version"}, &stdout, &stderr); code != 0 {
		t.Fatalf("exit code %d", code)
	}
	if !strings.HasPrefix(stdout.String(), "cutlist-mcp dev") {
		t.Errorf("got %q", stdout.String())
	}
}

func TestRun_Help(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run(context.Background(), []string{"-h"}, &stdout, &stderr); code != 0 {
		t.Fatalf("exit code %d", code)
	}
	if !strings.Contains(stdout.String(), "generate <file>") {
		t.Errorf("help does not mention generate:\n%s", stdout.String())
	}
}

func TestParseArgs(t *testing.T) {
	tests := []struct {
		args    []string
		want    options
		wantErr bool
	}{
		{[]string{"generate", "a.png"}, options{format: "json", positional: []string{"generate", "a.png"}}, false},
		{[]string{"generate", "a.png", "--format", "yaml"}, options{format: "yaml", positional: []string{"generate", "a.png"}}, false},
		{[]string{"--config=c.yaml", "generate", "--format=markdown", "a.png"}, options{configFile: "c.yaml", format: "markdown", positional: []string{"generate", "a.png"}}, false},
		{[]string{"--format"}, options{}, true},
		{[]string{"--verbose"}, options{}, true},
	}

	for _, tt := range tests {
		got, err := parseArgs(tt.args)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseArgs(%v): err = %v", tt.args, err)
			continue
		}
		if err == nil && !reflect.DeepEqual(*got, tt.want) {
			t.Errorf("parseArgs(%v) = %+v, want %+v", tt.args, *got, tt.want)
		}
	}
}

func TestRun_GenerateFormats(t *testing.T) {
	t.Setenv("CUTLIST_LOG_LEVEL", "error")
	t.Setenv("CUTLIST_VISION_URL", "")
	t.Setenv("CUTLIST_OCR_ENABLED", "false")
	path := writeDrawing(t)

	t.Run("json", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		if code := run(context.Background(), []string{"generate", path}, &stdout, &stderr); code != 0 {
			t.Fatalf("exit code %d, stderr: %s", code, stderr.String())
		}
		var res struct {
			Success bool `json:"success"`
		}
		if err := json.Unmarshal(stdout.Bytes(), &res); err != nil || !res.Success {
			t.Errorf("bad JSON output (%v): %.200s", err, stdout.String())
		}
	})

	t.Run("yaml", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		if code := run(context.Background(), []string{"generate", path, "--format", "yaml"}, &stdout, &stderr); code != 0 {
			t.Fatalf("exit code %d, stderr: %s", code, stderr.String())
		}
		var res map[string]any
		if err := yaml.Unmarshal(stdout.Bytes(), &res); err != nil {
			t.Fatalf("bad YAML output: %v", err)
		}
		if res["success"] != true || res["method"] != "dimension_driven_hybrid" {
			t.Errorf("got success=%v method=%v", res["success"], res["method"])
		}
	})

	t.Run("markdown", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		if code := run(context.Background(), []string{"generate", path, "--format=markdown"}, &stdout, &stderr); code != 0 {
			t.Fatalf("exit code %d, stderr: %s", code, stderr.String())
		}
		if !strings.HasPrefix(stdout.String(), "| Component Type | Part Name |") {
			t.Errorf("got %.100s", stdout.String())
		}
	})
}

func TestRun_GenerateErrors(t *testing.T) {
	t.Setenv("CUTLIST_LOG_LEVEL", "error")

	var stdout, stderr bytes.Buffer
	if code := run(context.Background(), []string{"generate"}, &stdout, &stderr); code != 2 {
		t.Errorf("missing file: exit code %d, want 2", code)
	}

	stderr.Reset()
	if code := run(context.Background(), []string{"generate", "/nonexistent.png"}, &stdout, &stderr); code != 1 {
		t.Errorf("unreadable file: exit code %d, want 1", code)
	}

	junk := filepath.Join(t.TempDir(), "junk.png")
	if err := os.WriteFile(junk, []byte("junk"), 0o644); err != nil {
		t.Fatal(err)
	}
	stdout.Reset()
	if code := run(context.Background(), []string{"generate", junk}, &stdout, &stderr); code != 1 {
		t.Errorf("undecodable file: exit code %d, want 1", code)
	}
	if !strings.Contains(stdout.String(), `"success": false`) {
		t.Errorf("expected failure result on stdout, got %.200s", stdout.String())
	}

	if code := run(context.Background(), []string{"generate", writeDrawing(t), "--format", "xml"}, &stdout, &stderr); code != 2 {
		t.Errorf("unknown format: exit code %d, want 2", code)
	}
	if code := run(context.Background(), []string{"frobnicate"}, &stdout, &stderr); code != 2 {
		t.Errorf("unknown command: exit code %d, want 2", code)
	}
}
