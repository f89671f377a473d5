package preprocess

import (
	"image"
	"math"
	"sort"

	"github.com/ironsheep/cutlist-mcp/internal/detection"
	"github.com/ironsheep/cutlist-mcp/internal/imaging"
)

// Deskew parameters.
const (
	cannyLow       = 50
	cannyHigh      = 150
	houghThreshold = 200
	skewLines      = 50
	skewWindow     = 5.0
	skewTolerance  = 0.5
)

// DetectSkew estimates how far img is rotated from the page axes, in degrees,
// counter-clockwise positive. ok is false when no usable line was found.
func DetectSkew(img image.Image) (angle float64, ok bool) {
	edges := imaging.Canny(imaging.Grayscale(img), cannyLow, cannyHigh)
	return SkewAngle(detection.HoughLines(edges, houghThreshold), skewLines)
}

// SkewAngle returns the median skew of the strongest maxLines lines.
//
// Each line contributes θ−90°. Near-horizontal lines (within 5° of 0) are used
// as is. Lines within 5° of 90° are vertical lines whose normal wrapped past
// 180°; they are shifted by −90° so both families measure the same rotation.
// Other lines are ignored.
func SkewAngle(lines []detection.HoughLine, maxLines int) (float64, bool) {
	if len(lines) > maxLines {
		lines = lines[:maxLines]
	}

	var angles []float64
	for _, l := range lines {
		a := l.ThetaDegrees - 90
		switch {
		case math.Abs(a) < skewWindow:
			angles = append(angles, a)
		case math.Abs(a-90) < skewWindow:
			angles = append(angles, a-90)
		}
	}
	if len(angles) == 0 {
		return 0, false
	}
	return median(angles), true
}

// median returns the middle value, averaging the two middle values of an
// even-length slice. The input is sorted in place.
func median(v []float64) float64 {
	sort.Float64s(v)
	n := len(v)
	if n%2 == 1 {
		return v[n/2]
	}
	return (v[n/2-1] + v[n/2]) / 2
}
