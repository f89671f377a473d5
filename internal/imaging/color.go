package imaging

import (
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/effect"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// Grayscale converts an image to 8-bit luminance using ITU-R BT.601 weights
// (0.299*R + 0.587*G + 0.114*B).
func Grayscale(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok {
		w, h := g.Rect.Dx(), g.Rect.Dy()
		out := image.NewGray(image.Rect(0, 0, w, h))
		for y := 0; y < h; y++ {
			src := g.PixOffset(g.Rect.Min.X, g.Rect.Min.Y+y)
			copy(out.Pix[y*out.Stride:y*out.Stride+w], g.Pix[src:src+w])
		}
		return out
	}
	// bild returns RGBA with R = G = B; keep one channel.
	rgba := effect.GrayscaleWithWeights(img, 0.299, 0.587, 0.114)
	w, h := rgba.Rect.Dx(), rgba.Rect.Dy()
	out := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		src := rgba.Pix[rgba.PixOffset(rgba.Rect.Min.X, rgba.Rect.Min.Y+y):]
		dst := out.Pix[y*out.Stride : y*out.Stride+w]
		for x := range dst {
			dst[x] = src[x*4]
		}
	}
	return out
}

// LabImage holds an image split into CIE L*a*b* planes.
//
// L is quantized to 0-255 so histogram based operations can work on it
// directly; a and b keep full precision so recombining after an L-only
// operation leaves chroma untouched.
type LabImage struct {
	Width  int
	Height int
	L      []uint8
	A      []float64
	B      []float64
	Alpha  []uint8
}

// ToLab converts an image to L*a*b* planes (D65 white point).
//
// # Color Conversion
//
// Each pixel is converted from sRGB with go-colorful's Lab(), which returns
// L in [0,1]. L is scaled to 0-255 and rounded, matching the 8-bit L channel
// layout used by common image libraries.
func ToLab(img image.Image) *LabImage {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	lab := &LabImage{
		Width:  w,
		Height: h,
		L:      make([]uint8, w*h),
		A:      make([]float64, w*h),
		B:      make([]float64, w*h),
		Alpha:  make([]uint8, w*h),
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			nc := color.NRGBAModel.Convert(img.At(x+b.Min.X, y+b.Min.Y)).(color.NRGBA)
			c := colorful.Color{
				R: float64(nc.R) / 255.0,
				G: float64(nc.G) / 255.0,
				B: float64(nc.B) / 255.0,
			}
			l, a, bb := c.Lab()
			i := y*w + x
			lab.L[i] = clampByte(l * 255.0)
			lab.A[i] = a
			lab.B[i] = bb
			lab.Alpha[i] = nc.A
		}
	}

	return lab
}

// ToNRGBA recombines the planes into an sRGB image, clamping out-of-gamut
// colors.
func (lab *LabImage) ToNRGBA() *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, lab.Width, lab.Height))
	for y := 0; y < lab.Height; y++ {
		for x := 0; x < lab.Width; x++ {
			i := y*lab.Width + x
			c := colorful.Lab(float64(lab.L[i])/255.0, lab.A[i], lab.B[i]).Clamped()
			r, g, b := c.RGB255()
			o := y*out.Stride + x*4
			out.Pix[o] = r
			out.Pix[o+1] = g
			out.Pix[o+2] = b
			out.Pix[o+3] = lab.Alpha[i]
		}
	}
	return out
}

// clampByte rounds v and clamps it to [0,255].
func clampByte(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}
