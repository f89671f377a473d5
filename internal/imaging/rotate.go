package imaging

import (
	"image"
	"image/draw"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// Rotate rotates img about its centre by angleDeg degrees, keeping the
// original canvas size.
//
// Positive angles rotate counter-clockwise as seen on screen. Pixels are
// resampled with a cubic (Catmull-Rom) kernel. Areas uncovered by the
// rotation are filled by replicating the nearest border pixel, so the
// corners of a scanned page stay paper-coloured instead of turning black.
//
// # Implementation
//
// x/image/draw only samples inside the source bounds, so the source is first
// padded by replicating its edge rows and columns far enough to cover every
// destination pixel, then transformed with the affine matrix
//
//	| cos  sin  (1-cos)*cx - sin*cy |
//	| -sin cos  sin*cx + (1-cos)*cy |
//
// adjusted for the padding offset.
func Rotate(img image.Image, angleDeg float64) *image.RGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	if w == 0 || h == 0 {
		return dst
	}

	rad := angleDeg * math.Pi / 180.0
	cos, sin := math.Cos(rad), math.Sin(rad)

	// Half extents of the rotated canvas in source space; the padding must
	// reach past them plus the cubic kernel's support.
	ex := math.Abs(cos)*float64(w)/2 + math.Abs(sin)*float64(h)/2
	ey := math.Abs(sin)*float64(w)/2 + math.Abs(cos)*float64(h)/2
	pad := int(math.Ceil(math.Max(0, math.Max(ex-float64(w)/2, ey-float64(h)/2)))) + 4
	padded := replicatePad(img, pad)

	cx, cy := float64(w/2), float64(h/2)
	a02 := (1-cos)*cx - sin*cy
	a12 := sin*cx + (1-cos)*cy

	p := float64(pad)
	s2d := f64.Aff3{
		cos, sin, a02 - (cos*p + sin*p),
		-sin, cos, a12 - (-sin*p + cos*p),
	}

	xdraw.CatmullRom.Transform(dst, s2d, padded, padded.Bounds(), draw.Src, nil)
	return dst
}

// replicatePad returns a copy of img with pad pixels added on every side,
// filled with the nearest edge pixel.
func replicatePad(img image.Image, pad int) *image.RGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	src := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(src, src.Bounds(), img, b.Min, draw.Src)

	out := image.NewRGBA(image.Rect(0, 0, w+2*pad, h+2*pad))
	for y := 0; y < h+2*pad; y++ {
		sy := clamp(y-pad, 0, h-1)
		for x := 0; x < w+2*pad; x++ {
			sx := clamp(x-pad, 0, w-1)
			so := sy*src.Stride + sx*4
			do := y*out.Stride + x*4
			copy(out.Pix[do:do+4], src.Pix[so:so+4])
		}
	}
	return out
}
