//go:build !cgo || !linux

package ocr

import "image"

// Engine is the stand-in used when OCR support is not compiled in.
type Engine struct{}

// NewEngine returns an engine whose RecognizeText always fails.
func NewEngine() *Engine {
	return &Engine{}
}

// Enabled reports whether text recognition was compiled in.
func (e *Engine) Enabled() bool {
	return false
}

// RecognizeText returns ErrNotEnabled.
func (e *Engine) RecognizeText(img image.Image, cfg Config) (string, error) {
	return "", ErrNotEnabled
}
