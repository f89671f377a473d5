package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"

	"github.com/disintegration/imaging"
)

// CropResult contains a cropped image encoded for transport.
type CropResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// ClampRect intersects r with the image bounds.
func ClampRect(img image.Image, r image.Rectangle) image.Rectangle {
	return r.Canon().Intersect(img.Bounds())
}

// CropRect extracts a rectangular region into a new image whose bounds start
// at (0,0).
//
// The region is clamped to the image bounds first. An empty intersection
// yields an empty image rather than an error; callers check Bounds().Empty().
func CropRect(img image.Image, r image.Rectangle) *image.NRGBA {
	r = ClampRect(img, r)
	if r.Empty() {
		return image.NewNRGBA(image.Rect(0, 0, 0, 0))
	}
	return imaging.Crop(img, r)
}

// CropBottom extracts the bottom part of an image starting at row
// floor(height*fromFraction).
func CropBottom(img image.Image, fromFraction float64) *image.NRGBA {
	b := img.Bounds()
	y := b.Min.Y + int(float64(b.Dy())*fromFraction)
	return CropRect(img, image.Rect(b.Min.X, y, b.Max.X, b.Max.Y))
}

// EncodePNG encodes an image as PNG bytes.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}

// EncodeResult encodes an image as a base64 PNG CropResult.
func EncodeResult(img image.Image) (*CropResult, error) {
	data, err := EncodePNG(img)
	if err != nil {
		return nil, err
	}
	return &CropResult{
		Width:       img.Bounds().Dx(),
		Height:      img.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(data),
		MimeType:    "image/png",
	}, nil
}
