package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"io"
	"sort"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
	_ "golang.org/x/image/webp" // Register WebP format decoder
)

// ErrNoPageImage is returned when a PDF has no raster image on its first page.
var ErrNoPageImage = errors.New("pdf has no raster image on page 1")

// pdfMagic is the signature every PDF file starts with.
var pdfMagic = []byte("%PDF-")

// ImageInfo contains metadata about a decoded drawing.
type ImageInfo struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// Format is the detected container format: "png", "jpeg", "gif", "bmp",
	// "tiff", "webp" or "pdf". For PDFs the page image is decoded and the
	// format still reports "pdf".
	Format string `json:"format"`

	// SizeBytes is the size of the raw input in bytes.
	SizeBytes int `json:"size_bytes"`
}

// IsPDF reports whether data starts with the PDF file signature.
func IsPDF(data []byte) bool {
	return bytes.HasPrefix(data, pdfMagic)
}

// Decode decodes raw drawing bytes into a raster image.
//
// Parameters:
//   - data: Raw file contents. Raster formats are detected from their magic
//     bytes; data starting with "%PDF-" is treated as a PDF and the largest
//     raster image of its first page is decoded instead.
//
// Returns:
//   - image.Image: The decoded image.
//   - *ImageInfo: Dimensions and detected format.
//   - error: Non-nil if the bytes are empty, not a supported format, or a PDF
//     without a page image.
func Decode(data []byte) (image.Image, *ImageInfo, error) {
	if len(data) == 0 {
		return nil, nil, errors.New("empty image data")
	}

	if IsPDF(data) {
		img, err := DecodePDF(data)
		if err != nil {
			return nil, nil, err
		}
		b := img.Bounds()
		return img, &ImageInfo{Width: b.Dx(), Height: b.Dy(), Format: "pdf", SizeBytes: len(data)}, nil
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode image: %w", err)
	}

	b := img.Bounds()
	return img, &ImageInfo{Width: b.Dx(), Height: b.Dy(), Format: format, SizeBytes: len(data)}, nil
}

// DecodePDF extracts and decodes the largest raster image on the first page of
// a PDF.
//
// Scanned and photographed drawings saved as PDF carry the drawing as one image
// XObject per page, so the largest image of page 1 is the drawing itself. Vector
// only PDFs have no such image and return ErrNoPageImage.
func DecodePDF(data []byte) (image.Image, error) {
	conf := model.NewDefaultConfiguration()
	pages, err := api.ExtractImagesRaw(bytes.NewReader(data), []string{"1"}, conf)
	if err != nil {
		return nil, fmt.Errorf("pdfcpu extract images: %w", err)
	}

	var candidates []model.Image
	for _, page := range pages {
		for _, img := range page {
			candidates = append(candidates, img)
		}
	}
	if len(candidates) == 0 {
		return nil, ErrNoPageImage
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].Width*candidates[i].Height > candidates[j].Width*candidates[j].Height
	})

	for _, c := range candidates {
		raw, err := io.ReadAll(c)
		if err != nil {
			continue
		}
		img, _, err := image.Decode(bytes.NewReader(raw))
		if err == nil {
			return img, nil
		}
	}

	return nil, fmt.Errorf("%w: no decodable image stream", ErrNoPageImage)
}
