//go:build cgo && linux

package ocr

import (
	"image"
	"image/color"
	"image/draw"
	"strings"
	"testing"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// createImageWithText renders text with basicfont and scales it up so
// Tesseract has enough pixels per glyph.
func createImageWithText(t *testing.T, text string, scale int) *image.RGBA {
	t.Helper()

	width := len(text)*7 + 40
	height := 40

	small := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(small, small.Bounds(), image.White, image.Point{}, draw.Src)
	d := &font.Drawer{
		Dst:  small,
		Src:  image.NewUniform(color.Black),
		Face: basicfont.Face7x13,
		Dot:  fixed.Point26_6{X: fixed.I(20), Y: fixed.I(25)},
	}
	d.DrawString(text)

	img := image.NewRGBA(image.Rect(0, 0, width*scale, height*scale))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := small.At(x, y)
			for dy := 0; dy < scale; dy++ {
				for dx := 0; dx < scale; dx++ {
					img.Set(x*scale+dx, y*scale+dy, c)
				}
			}
		}
	}
	return img
}

func TestRecognizeText_Digits(t *testing.T) {
	img := createImageWithText(t, "900 700 600", 4)

	text, err := NewEngine().RecognizeText(img, DefaultConfig())
	if err != nil {
		if strings.Contains(err.Error(), "tesseract") || strings.Contains(err.Error(), "language") {
			t.Skip("Tesseract not available")
		}
		t.Fatalf("RecognizeText failed: %v", err)
	}

	// Low resolution bitmap fonts are not always read perfectly.
	if !strings.Contains(text, "900") && !strings.Contains(text, "700") && !strings.Contains(text, "600") {
		t.Logf("OCR did not recognize the digits, got %q", text)
	}
}

func TestRecognizeText_InvalidLanguage(t *testing.T) {
	img := createImageWithText(t, "123", 2)

	_, err := NewEngine().RecognizeText(img, Config{Language: "invalid_lang_xyz", PageSegMode: PSMSingleBlock})
	if err == nil {
		t.Error("expected an error for an unknown language")
	}
}

func TestEnabled(t *testing.T) {
	if !NewEngine().Enabled() {
		t.Error("cgo engine reports OCR as disabled")
	}
}
