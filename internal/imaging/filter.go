package imaging

import (
	"image"

	"github.com/anthonynsimon/bild/convolution"
	"github.com/disintegration/imaging"
)

// sharpenKernel is the 3x3 sharpening kernel: centre 9, neighbours -1.
// The weights sum to 1, so flat regions keep their intensity.
var sharpenKernel = [9]float64{
	-1, -1, -1,
	-1, 9, -1,
	-1, -1, -1,
}

// FitWithin downscales img so that it fits within maxWidth x maxHeight while
// preserving the aspect ratio.
//
// The image is returned unchanged (ok == false) when neither dimension exceeds
// its ceiling. Otherwise both sides are scaled by
// min(maxWidth/width, maxHeight/height) and truncated, and the pixels are
// resampled with a box filter, which averages the source area covered by each
// destination pixel.
func FitWithin(img image.Image, maxWidth, maxHeight int) (image.Image, bool) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxWidth && h <= maxHeight {
		return img, false
	}

	scale := float64(maxWidth) / float64(w)
	if s := float64(maxHeight) / float64(h); s < scale {
		scale = s
	}
	newW := int(float64(w) * scale)
	newH := int(float64(h) * scale)
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}

	return imaging.Resize(img, newW, newH, imaging.Box), true
}

// Sharpen convolves img with the fixed 3x3 sharpening kernel.
//
// Border pixels replicate the nearest edge value and results are clamped to
// 0-255 per channel. The alpha channel is preserved.
func Sharpen(img image.Image) *image.RGBA {
	k := convolution.NewKernel(3, 3)
	copy(k.Matrix, sharpenKernel[:])
	return convolution.Convolve(img, k, &convolution.Options{Bias: 0, Wrap: false, KeepAlpha: true})
}
