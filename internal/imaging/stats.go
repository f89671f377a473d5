package imaging

import (
	"image"
	"math"
)

// IntensityStats holds first and second order statistics of a luminance image.
type IntensityStats struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
}

// Intensity computes the mean and population standard deviation of the pixel
// values of a grayscale image. An empty image yields zero stats.
func Intensity(gray *image.Gray) IntensityStats {
	b := gray.Bounds()
	w, h := b.Dx(), b.Dy()
	n := w * h
	if n == 0 {
		return IntensityStats{}
	}

	var sum, sumSq float64
	for y := 0; y < h; y++ {
		row := gray.Pix[gray.PixOffset(b.Min.X, b.Min.Y+y):]
		for x := 0; x < w; x++ {
			v := float64(row[x])
			sum += v
			sumSq += v * v
		}
	}

	mean := sum / float64(n)
	variance := sumSq/float64(n) - mean*mean
	if variance < 0 {
		variance = 0
	}
	return IntensityStats{Mean: mean, StdDev: math.Sqrt(variance)}
}
