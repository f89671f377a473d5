package imaging

import (
	"image"
	"image/color"
	"testing"
)

func TestGrayscale_KnownColors(t *testing.T) {
	tests := []struct {
		name  string
		color color.Color
		want  uint8
	}{
		{"white", color.White, 255},
		{"black", color.Black, 0},
		{"red", color.RGBA{255, 0, 0, 255}, 76},
		{"green", color.RGBA{0, 255, 0, 255}, 150},
		{"blue", color.RGBA{0, 0, 255, 255}, 29},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := Grayscale(createInMemoryImage(4, 4, tt.color))
			got := g.GrayAt(2, 2).Y
			if absInt(int(got)-int(tt.want)) > 1 {
				t.Errorf("got %d, want %d (±1)", got, tt.want)
			}
		})
	}
}

func TestGrayscale_GrayInputIsCopied(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 10, 10))
	for i := range src.Pix {
		src.Pix[i] = uint8(i)
	}
	sub := src.SubImage(image.Rect(5, 5, 10, 10)).(*image.Gray)

	out := Grayscale(sub)

	if out.Bounds() != image.Rect(0, 0, 5, 5) {
		t.Fatalf("bounds: got %v", out.Bounds())
	}
	if got, want := out.GrayAt(0, 0).Y, src.GrayAt(5, 5).Y; got != want {
		t.Errorf("origin pixel: got %d, want %d", got, want)
	}

	out.Pix[0] = 0
	if src.GrayAt(5, 5).Y == 0 {
		t.Error("output shares memory with the input")
	}
}

func TestGrayscale_ColorSubImage(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 20, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 20; x++ {
			if x < 10 {
				src.Set(x, y, color.White)
			} else {
				src.Set(x, y, color.RGBA{255, 0, 0, 255})
			}
		}
	}
	sub := src.SubImage(image.Rect(8, 2, 14, 6))

	var g image.Image = Grayscale(sub)
	gray, ok := g.(*image.Gray)
	if !ok {
		t.Fatalf("expected *image.Gray, got %T", g)
	}
	if gray.Bounds() != image.Rect(0, 0, 6, 4) {
		t.Fatalf("bounds: got %v", gray.Bounds())
	}
	if got := gray.GrayAt(0, 0).Y; got != 255 {
		t.Errorf("white pixel: got %d", got)
	}
	if got := gray.GrayAt(5, 3).Y; absInt(int(got)-76) > 1 {
		t.Errorf("red pixel: got %d, want 76 (±1)", got)
	}
}

func TestLab_RoundTrip(t *testing.T) {
	colors := []color.NRGBA{
		{255, 255, 255, 255},
		{0, 0, 0, 255},
		{200, 30, 30, 255},
		{40, 160, 90, 255},
		{128, 128, 128, 255},
		{250, 240, 230, 128},
	}

	for _, c := range colors {
		src := image.NewNRGBA(image.Rect(0, 0, 3, 3))
		for i := 0; i < len(src.Pix); i += 4 {
			src.Pix[i], src.Pix[i+1], src.Pix[i+2], src.Pix[i+3] = c.R, c.G, c.B, c.A
		}
		lab := ToLab(src)
		back := lab.ToNRGBA()
		got := back.NRGBAAt(1, 1)

		if absInt(int(got.R)-int(c.R)) > 3 || absInt(int(got.G)-int(c.G)) > 3 || absInt(int(got.B)-int(c.B)) > 3 {
			t.Errorf("round trip of %v: got %v", c, got)
		}
		if got.A != c.A {
			t.Errorf("alpha of %v: got %d", c, got.A)
		}
	}
}

func TestToLab_LuminanceOrdering(t *testing.T) {
	dark := ToLab(createInMemoryImage(1, 1, color.RGBA{30, 30, 30, 255}))
	light := ToLab(createInMemoryImage(1, 1, color.RGBA{220, 220, 220, 255}))

	if dark.L[0] >= light.L[0] {
		t.Errorf("L should grow with brightness: dark=%d light=%d", dark.L[0], light.L[0])
	}
	if light := ToLab(createInMemoryImage(1, 1, color.White)); light.L[0] != 255 {
		t.Errorf("white L: got %d, want 255", light.L[0])
	}
}

func TestClampByte(t *testing.T) {
	tests := []struct {
		in   float64
		want uint8
	}{
		{-10, 0},
		{0, 0},
		{127.4, 127},
		{127.5, 128},
		{254.6, 255},
		{300, 255},
	}

	for _, tt := range tests {
		if got := clampByte(tt.in); got != tt.want {
			t.Errorf("clampByte(%f) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
