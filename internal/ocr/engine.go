//go:build cgo && linux

package ocr

import (
	"fmt"
	"image"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/ironsheep/cutlist-mcp/internal/imaging"
)

// Engine runs Tesseract on in-memory images.
type Engine struct{}

// NewEngine returns a Tesseract backed engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Enabled reports whether text recognition was compiled in.
func (e *Engine) Enabled() bool {
	return true
}

// RecognizeText performs OCR on an image and returns the recognized text.
//
// Parameters:
//   - img: The image to read. It is encoded to PNG and handed to Tesseract
//     from memory, so no temporary file is written.
//   - cfg: Language and page segmentation mode. Zero fields fall back to
//     DefaultConfig.
//
// Returns the text with surrounding whitespace trimmed, or an error if
// Tesseract cannot be initialized for the language or fails to read the image.
func (e *Engine) RecognizeText(img image.Image, cfg Config) (string, error) {
	cfg = cfg.withDefaults()

	data, err := imaging.EncodePNG(img)
	if err != nil {
		return "", err
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(cfg.Language); err != nil {
		return "", fmt.Errorf("failed to set language: %w", err)
	}
	if err := client.SetPageSegMode(gosseract.PageSegMode(cfg.PageSegMode)); err != nil {
		return "", fmt.Errorf("failed to set page segmentation mode: %w", err)
	}
	if err := client.SetImageFromBytes(data); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR failed: %w", err)
	}
	return strings.TrimSpace(text), nil
}
