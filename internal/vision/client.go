package vision

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ironsheep/cutlist-mcp/internal/imaging"
)

// Defaults applied by NewClient to zero Config fields.
const (
	DefaultModel     = "Qwen/Qwen2-VL-2B-Instruct"
	DefaultTimeout   = 120 * time.Second
	DefaultMaxTokens = 1000

	temperature = 0.1
)

// Config configures a Client.
type Config struct {
	// BaseURL is the server root, e.g. "http://localhost:8000". Empty makes
	// the client unavailable.
	BaseURL string
	// Model is the model name sent with each request.
	Model string
	// Timeout bounds one HTTP round trip.
	Timeout time.Duration
	// MaxTokens caps the length of the reply.
	MaxTokens int
}

// Client queries an OpenAI compatible /v1/chat/completions endpoint.
type Client struct {
	cfg    Config
	http   *http.Client
	logger *zap.Logger
}

// ChatRequest is an OpenAI chat completions request.
type ChatRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float32       `json:"temperature"`
}

// ChatMessage is one message made of text and image parts.
type ChatMessage struct {
	Role    string        `json:"role"`
	Content []ContentPart `json:"content"`
}

// ContentPart is either a "text" or an "image_url" part.
type ContentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
}

// ImageURL carries an image, here always as a base64 data URL.
type ImageURL struct {
	URL string `json:"url"`
}

// ChatResponse is the subset of a chat completions response the client reads.
type ChatResponse struct {
	Model   string       `json:"model"`
	Choices []ChatChoice `json:"choices"`
	Usage   ChatUsage    `json:"usage"`
}

// ChatChoice is one completion choice.
type ChatChoice struct {
	Index        int          `json:"index"`
	Message      ReplyMessage `json:"message"`
	FinishReason string       `json:"finish_reason"`
}

// ReplyMessage is the assistant message of a choice.
type ReplyMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatUsage reports token counts.
type ChatUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// NewClient creates a client for the server at cfg.BaseURL.
//
// Zero fields take DefaultModel, DefaultTimeout and DefaultMaxTokens. A nil
// logger disables logging.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

// Available reports whether a server URL is configured.
func (c *Client) Available() bool {
	return c.cfg.BaseURL != ""
}

// Query sends img as a PNG data URL together with prompt and returns the
// content of the first choice.
func (c *Client) Query(ctx context.Context, img image.Image, prompt string) (string, error) {
	if !c.Available() {
		return "", ErrUnavailable
	}

	data, err := imaging.EncodePNG(img)
	if err != nil {
		return "", err
	}

	req := ChatRequest{
		Model: c.cfg.Model,
		Messages: []ChatMessage{{
			Role: "user",
			Content: []ContentPart{
				{Type: "image_url", ImageURL: &ImageURL{URL: "data:image/png;base64," + base64.StdEncoding.EncodeToString(data)}},
				{Type: "text", Text: prompt},
			},
		}},
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: temperature,
	}

	resp, err := c.send(ctx, req)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("vision model returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// send posts one chat completions request.
func (c *Client) send(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	reqJSON, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/v1/chat/completions", bytes.NewReader(reqJSON))
	if err != nil {
		return nil, fmt.Errorf("create http request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	c.logger.Debug("sending vision request",
		zap.String("url", c.cfg.BaseURL),
		zap.String("model", c.cfg.Model),
		zap.Int("payload_size", len(reqJSON)))

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	duration := time.Since(start)

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Error("vision HTTP error",
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(body)),
			zap.Duration("duration", duration))
		return nil, fmt.Errorf("vision server returned status %d: %s", resp.StatusCode, string(body))
	}

	var chatResp ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return nil, fmt.Errorf("decode vision response: %w", err)
	}

	c.logger.Debug("vision response received",
		zap.Duration("duration", duration),
		zap.Int("tokens", chatResp.Usage.TotalTokens),
		zap.Int("choices", len(chatResp.Choices)))

	return &chatResp, nil
}
