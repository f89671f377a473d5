package ocr

import "errors"

// ErrNotEnabled is returned when text recognition is requested from a binary
// built without cgo or for a platform other than Linux.
var ErrNotEnabled = errors.New("OCR support not enabled; rebuild on Linux with CGO_ENABLED=1")

// PageSegMode selects how Tesseract analyzes the page layout.
type PageSegMode int

// Page segmentation modes, numbered as in Tesseract.
const (
	PSMAuto         PageSegMode = 3  // Fully automatic page segmentation
	PSMSingleColumn PageSegMode = 4  // A single column of text of variable sizes
	PSMSingleBlock  PageSegMode = 6  // A single uniform block of text
	PSMSingleLine   PageSegMode = 7  // A single text line
	PSMSparseText   PageSegMode = 11 // As much text as possible in no particular order
)

// Config controls one recognition call.
type Config struct {
	// Language is a Tesseract language code such as "eng".
	Language string
	// PageSegMode selects the layout analysis.
	PageSegMode PageSegMode
}

// DefaultConfig returns English text with single block segmentation.
func DefaultConfig() Config {
	return Config{Language: "eng", PageSegMode: PSMSingleBlock}
}

func (c Config) withDefaults() Config {
	if c.Language == "" {
		c.Language = "eng"
	}
	if c.PageSegMode == 0 {
		c.PageSegMode = PSMSingleBlock
	}
	return c
}
