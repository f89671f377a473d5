// Package vision talks to a vision-language model that answers free-text
// prompts about an image.
//
// The pipeline only ever needs one capability from the model: given an image
// and an instruction, return the model's text reply. Model is that capability.
// Client implements it against an OpenAI compatible chat completions server
// (vLLM, llama.cpp server, Ollama). Unavailable stands in when no server is
// configured so callers check Available once instead of nil checks everywhere.
package vision

import (
	"context"
	"errors"
	"image"
)

// ErrUnavailable is returned by Query on a model that is not configured.
var ErrUnavailable = errors.New("vision model not available")

// Model answers a text prompt about an image.
type Model interface {
	// Available reports whether Query can be called at all.
	Available() bool
	// Query sends the image and prompt and returns the model's text reply.
	Query(ctx context.Context, img image.Image, prompt string) (string, error)
}

// Unavailable is the Model used when no vision server is configured.
type Unavailable struct{}

// Available always returns false.
func (Unavailable) Available() bool { return false }

// Query always returns ErrUnavailable.
func (Unavailable) Query(context.Context, image.Image, string) (string, error) {
	return "", ErrUnavailable
}
