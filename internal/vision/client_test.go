package vision

import (
	"context"
	"encoding/json"
	"errors"
	"image"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"
)

func newTestImage() image.Image {
	return image.NewRGBA(image.Rect(0, 0, 8, 8))
}

func TestClient_Query(t *testing.T) {
	var got ChatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("path: got %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("method: got %s", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"model":"m","choices":[{"index":0,"message":{"role":"assistant","content":"{\"cabinet_widths\":[900]}"},"finish_reason":"stop"}],"usage":{"total_tokens":12}}`))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL + "/", Model: "test-model", MaxTokens: 50}, zaptest.NewLogger(t))

	reply, err := c.Query(context.Background(), newTestImage(), "read the widths")
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if reply != `{"cabinet_widths":[900]}` {
		t.Errorf("reply: got %q", reply)
	}

	if got.Model != "test-model" || got.MaxTokens != 50 {
		t.Errorf("request: model=%q max_tokens=%d", got.Model, got.MaxTokens)
	}
	if got.Temperature < 0.09 || got.Temperature > 0.11 {
		t.Errorf("temperature: got %f, want 0.1", got.Temperature)
	}
	if len(got.Messages) != 1 || len(got.Messages[0].Content) != 2 {
		t.Fatalf("unexpected message layout: %+v", got.Messages)
	}
	parts := got.Messages[0].Content
	if parts[0].Type != "image_url" || parts[0].ImageURL == nil ||
		!strings.HasPrefix(parts[0].ImageURL.URL, "data:image/png;base64,") {
		t.Errorf("first part should be a PNG data URL, got %+v", parts[0])
	}
	if parts[1].Type != "text" || parts[1].Text != "read the widths" {
		t.Errorf("second part should carry the prompt, got %+v", parts[1])
	}
}

func TestClient_Query_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL}, zaptest.NewLogger(t))

	_, err := c.Query(context.Background(), newTestImage(), "prompt")
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "503") || !strings.Contains(err.Error(), "model overloaded") {
		t.Errorf("error should carry status and body, got: %v", err)
	}
}

func TestClient_Query_NoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL}, nil)

	if _, err := c.Query(context.Background(), newTestImage(), "prompt"); err == nil {
		t.Error("expected an error for an empty choice list")
	}
}

func TestClient_Query_BadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL}, nil)

	if _, err := c.Query(context.Background(), newTestImage(), "prompt"); err == nil {
		t.Error("expected a decode error")
	}
}

func TestClient_Query_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL}, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.Query(ctx, newTestImage(), "prompt")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected context.DeadlineExceeded, got: %v", err)
	}
}

func TestClient_Available(t *testing.T) {
	if NewClient(Config{}, nil).Available() {
		t.Error("client without a base URL should be unavailable")
	}
	if !NewClient(Config{BaseURL: "http://localhost:8000"}, nil).Available() {
		t.Error("client with a base URL should be available")
	}

	_, err := NewClient(Config{}, nil).Query(context.Background(), newTestImage(), "prompt")
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got: %v", err)
	}
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient(Config{BaseURL: "http://x"}, nil)

	if c.cfg.Model != DefaultModel {
		t.Errorf("Model: got %q", c.cfg.Model)
	}
	if c.cfg.Timeout != DefaultTimeout {
		t.Errorf("Timeout: got %v", c.cfg.Timeout)
	}
	if c.cfg.MaxTokens != DefaultMaxTokens {
		t.Errorf("MaxTokens: got %d", c.cfg.MaxTokens)
	}
}

func TestUnavailable(t *testing.T) {
	var m Model = Unavailable{}

	if m.Available() {
		t.Error("Unavailable reports itself available")
	}
	if _, err := m.Query(context.Background(), newTestImage(), "prompt"); !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got: %v", err)
	}
}
