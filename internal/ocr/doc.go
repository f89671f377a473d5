// Package ocr recognizes printed text in drawing crops using Tesseract.
//
// The engine wraps Tesseract through gosseract/v2 and is compiled in on Linux
// whenever cgo is enabled, which is the default for native builds. gosseract
// links against the Tesseract and Leptonica development libraries.
//
// Builds with CGO_ENABLED=0 or for other platforms get a stub whose
// Engine.RecognizeText always returns ErrNotEnabled; callers fall back to
// whatever they do when text cannot be read.
//
// # Prerequisites
//
// Tesseract must be installed on the build and target system:
//   - Ubuntu/Debian: apt-get install libtesseract-dev tesseract-ocr-eng
//   - macOS: brew install tesseract
//
// # Supported Languages
//
// The default language is English ("eng"). Other languages use their
// Tesseract codes ("deu", "fra", ...) and need their language data installed.
//
// # Page Segmentation
//
// Config.PageSegMode selects Tesseract's layout analysis. Dimension lines are
// read with PSMSingleBlock, which treats the crop as one uniform block of text.
//
// # Thread Safety
//
// A Tesseract client is not safe for concurrent use, so RecognizeText creates
// a client per call. An Engine may be shared between goroutines.
package ocr
