package imaging

import (
	"image"
	"math"
)

// EdgeMap is a binary edge image produced by Canny.
//
// Pix is row-major with Width*Height entries; true marks an edge pixel.
type EdgeMap struct {
	Width  int
	Height int
	Pix    []bool
}

// At reports whether (x, y) is an edge pixel. Out-of-range points are not edges.
func (e *EdgeMap) At(x, y int) bool {
	if x < 0 || y < 0 || x >= e.Width || y >= e.Height {
		return false
	}
	return e.Pix[y*e.Width+x]
}

// Count returns the number of edge pixels.
func (e *EdgeMap) Count() int {
	n := 0
	for _, v := range e.Pix {
		if v {
			n++
		}
	}
	return n
}

// Density returns the fraction of pixels flagged as edges, or 0 for an empty map.
func (e *EdgeMap) Density() float64 {
	if len(e.Pix) == 0 {
		return 0
	}
	return float64(e.Count()) / float64(len(e.Pix))
}

// Canny performs Canny edge detection on a grayscale image.
//
// Parameters:
//   - gray: Source luminance image.
//   - thresholdLow: Low hysteresis threshold on the gradient magnitude
//     (0-255 intensity scale). Typical value: 50.
//   - thresholdHigh: High hysteresis threshold. Typical value: 150.
//
// # Algorithm
//
//  1. Gaussian blur: 5x5 kernel to reduce noise
//
//  2. Gradient computation: Sobel operators for X and Y gradients
//     magnitude = sqrt(Gx² + Gy²)
//     direction = atan2(Gy, Gx), quantized to 4 sectors
//
//  3. Non-maximum suppression: Thin edges to 1-pixel width by keeping only
//     local maxima in the gradient direction
//
//  4. Hysteresis thresholding:
//     - Pixels above thresholdHigh are strong edges (always kept)
//     - Pixels between thresholdLow and thresholdHigh are weak edges
//     (kept only if 8-connected, directly or through other weak edges,
//     to a strong edge)
//     - Pixels below thresholdLow are discarded
func Canny(gray *image.Gray, thresholdLow, thresholdHigh float64) *EdgeMap {
	b := gray.Bounds()
	width, height := b.Dx(), b.Dy()
	edges := &EdgeMap{Width: width, Height: height, Pix: make([]bool, width*height)}
	if width < 3 || height < 3 {
		return edges
	}

	src := make([]float32, width*height)
	for y := 0; y < height; y++ {
		row := gray.Pix[gray.PixOffset(b.Min.X, b.Min.Y+y):]
		for x := 0; x < width; x++ {
			src[y*width+x] = float32(row[x])
		}
	}

	blurred := gaussianBlur(src, width, height)

	magnitude := make([]float32, width*height)
	sector := make([]uint8, width*height)
	for y := 0; y < height; y++ {
		ym, yp := clamp(y-1, 0, height-1), clamp(y+1, 0, height-1)
		for x := 0; x < width; x++ {
			xm, xp := clamp(x-1, 0, width-1), clamp(x+1, 0, width-1)

			tl, tc, tr := blurred[ym*width+xm], blurred[ym*width+x], blurred[ym*width+xp]
			ml, mr := blurred[y*width+xm], blurred[y*width+xp]
			bl, bc, br := blurred[yp*width+xm], blurred[yp*width+x], blurred[yp*width+xp]

			gx := float64((tr + 2*mr + br) - (tl + 2*ml + bl))
			gy := float64((bl + 2*bc + br) - (tl + 2*tc + tr))

			i := y*width + x
			magnitude[i] = float32(math.Sqrt(gx*gx + gy*gy))
			sector[i] = gradientSector(math.Atan2(gy, gx))
		}
	}

	// Non-maximum suppression
	suppressed := make([]float32, width*height)
	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			i := y*width + x
			mag := magnitude[i]
			if mag == 0 {
				continue
			}

			var n1, n2 float32
			switch sector[i] {
			case 0: // horizontal gradient: compare left/right
				n1, n2 = magnitude[i-1], magnitude[i+1]
			case 1: // 45°
				n1, n2 = magnitude[i-width+1], magnitude[i+width-1]
			case 2: // vertical gradient: compare up/down
				n1, n2 = magnitude[i-width], magnitude[i+width]
			default: // 135°
				n1, n2 = magnitude[i-width-1], magnitude[i+width+1]
			}

			// Strict on one side so a tie across a symmetric step keeps one pixel.
			if mag > n1 && mag >= n2 {
				suppressed[i] = mag
			}
		}
	}

	// Double threshold and edge tracking by hysteresis
	low, high := float32(thresholdLow), float32(thresholdHigh)
	stack := make([]int, 0, 1024)
	for i, v := range suppressed {
		if v >= high && !edges.Pix[i] {
			edges.Pix[i] = true
			stack = append(stack, i)
		}
		for len(stack) > 0 {
			p := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			px, py := p%width, p/width
			for ky := -1; ky <= 1; ky++ {
				for kx := -1; kx <= 1; kx++ {
					nx, ny := px+kx, py+ky
					if nx < 0 || ny < 0 || nx >= width || ny >= height {
						continue
					}
					n := ny*width + nx
					if !edges.Pix[n] && suppressed[n] >= low {
						edges.Pix[n] = true
						stack = append(stack, n)
					}
				}
			}
		}
	}

	return edges
}

// gradientSector quantizes a gradient angle (radians) into 4 sectors:
// 0 = horizontal, 1 = 45°, 2 = vertical, 3 = 135°.
func gradientSector(angle float64) uint8 {
	if angle < 0 {
		angle += math.Pi
	}
	switch {
	case angle < math.Pi/8 || angle >= 7*math.Pi/8:
		return 0
	case angle < 3*math.Pi/8:
		return 1
	case angle < 5*math.Pi/8:
		return 2
	default:
		return 3
	}
}

// gaussianBlur applies a 5x5 Gaussian blur to reduce noise before edge detection.
//
// Uses a standard 5x5 Gaussian kernel with sigma ≈ 1.4:
//
//	1  4  7  4  1
//	4 16 26 16  4
//	7 26 41 26  7
//	4 16 26 16  4
//	1  4  7  4  1
//
// Total kernel sum = 273, used for normalization.
// Border pixels use clamped (replicated) edge values.
func gaussianBlur(img []float32, width, height int) []float32 {
	kernel := [5][5]float32{
		{1, 4, 7, 4, 1},
		{4, 16, 26, 16, 4},
		{7, 26, 41, 26, 7},
		{4, 16, 26, 16, 4},
		{1, 4, 7, 4, 1},
	}
	const kernelSum = 273.0

	result := make([]float32, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var sum float32
			for ky := -2; ky <= 2; ky++ {
				py := clamp(y+ky, 0, height-1)
				for kx := -2; kx <= 2; kx++ {
					px := clamp(x+kx, 0, width-1)
					sum += img[py*width+px] * kernel[ky+2][kx+2]
				}
			}
			result[y*width+x] = sum / kernelSum
		}
	}
	return result
}

// clamp constrains an integer value to the range [min, max].
// Used for boundary handling in convolution operations.
func clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
