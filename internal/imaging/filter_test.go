package imaging

import (
	"image"
	"image/color"
	"testing"
)

func TestFitWithin(t *testing.T) {
	tests := []struct {
		name         string
		w, h         int
		maxW, maxH   int
		wantW, wantH int
		wantResized  bool
	}{
		{"within limits", 800, 600, 4000, 4000, 800, 600, false},
		{"exactly at limit", 4000, 4000, 4000, 4000, 4000, 4000, false},
		{"too wide", 800, 200, 400, 400, 400, 100, true},
		{"too tall", 300, 800, 400, 400, 150, 400, true},
		{"both too large", 1000, 800, 500, 500, 500, 400, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := image.NewRGBA(image.Rect(0, 0, tt.w, tt.h))

			out, resized := FitWithin(img, tt.maxW, tt.maxH)

			if resized != tt.wantResized {
				t.Errorf("resized: got %v, want %v", resized, tt.wantResized)
			}
			if out.Bounds().Dx() != tt.wantW || out.Bounds().Dy() != tt.wantH {
				t.Errorf("size: got %dx%d, want %dx%d", out.Bounds().Dx(), out.Bounds().Dy(), tt.wantW, tt.wantH)
			}
		})
	}
}

func TestFitWithin_AveragesPixels(t *testing.T) {
	// Alternating black and white columns average to mid grey.
	img := image.NewRGBA(image.Rect(0, 0, 200, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 200; x++ {
			if x%2 == 0 {
				img.Set(x, y, color.White)
			} else {
				img.Set(x, y, color.Black)
			}
		}
	}

	out, resized := FitWithin(img, 100, 100)
	if !resized {
		t.Fatal("expected the image to be downscaled")
	}
	b := out.Bounds()
	if b.Dx() != 100 || b.Dy() != 5 {
		t.Fatalf("size: got %dx%d, want 100x5", b.Dx(), b.Dy())
	}

	r, _, _, _ := out.At(b.Min.X+50, b.Min.Y+2).RGBA()
	if v := int(r >> 8); v < 100 || v > 155 {
		t.Errorf("averaged value %d, want close to 128", v)
	}
}

func TestSharpen_UniformUnchanged(t *testing.T) {
	img := createInMemoryImage(10, 10, color.RGBA{100, 150, 200, 255})

	out := Sharpen(img)

	c := out.RGBAAt(5, 5)
	if c.R != 100 || c.G != 150 || c.B != 200 || c.A != 255 {
		t.Errorf("interior pixel changed: %v", c)
	}
}

func TestSharpen_IncreasesLocalContrast(t *testing.T) {
	// A grey dot on a lighter background becomes darker after sharpening.
	img := createInMemoryImage(9, 9, color.RGBA{200, 200, 200, 255})
	img.Set(4, 4, color.RGBA{150, 150, 150, 255})

	out := Sharpen(img)

	if got := out.RGBAAt(4, 4).R; got >= 150 {
		t.Errorf("centre: got %d, want below 150", got)
	}
	if got := out.RGBAAt(3, 4).R; got <= 200 {
		t.Errorf("neighbour: got %d, want above 200", got)
	}
}
