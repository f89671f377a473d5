package imaging

import "math"

// CLAHE applies contrast-limited adaptive histogram equalization to an 8-bit
// plane stored row-major with the given width and height.
//
// Parameters:
//   - plane: Pixel values, len(plane) == width*height. Not modified.
//   - tilesX, tilesY: Tile grid size (8x8 is the usual choice).
//   - clipLimit: Histogram clip limit relative to a uniform histogram
//     (2.0 clips every bin at twice the average bin height).
//
// # Algorithm
//
//  1. Split the plane into a tilesX x tilesY grid. Edge tiles absorb the
//     remainder when the size is not divisible by the grid.
//  2. Build one histogram per tile, clip each bin at
//     max(1, clipLimit*tilePixels/256) and redistribute the clipped excess
//     evenly over all bins (the residue goes to evenly spaced bins).
//  3. Turn each clipped histogram into a lookup table from its cumulative
//     distribution, scaled to 0-255.
//  4. Map every pixel by bilinear interpolation between the lookup tables of
//     the four nearest tile centres, which removes tile boundary artifacts.
func CLAHE(plane []uint8, width, height, tilesX, tilesY int, clipLimit float64) []uint8 {
	out := make([]uint8, len(plane))
	if width <= 0 || height <= 0 {
		return out
	}
	if tilesX > width {
		tilesX = width
	}
	if tilesY > height {
		tilesY = height
	}
	if tilesX < 1 {
		tilesX = 1
	}
	if tilesY < 1 {
		tilesY = 1
	}

	tileW := int(math.Ceil(float64(width) / float64(tilesX)))
	tileH := int(math.Ceil(float64(height) / float64(tilesY)))
	// Rounding the tile size up can leave trailing grid cells empty.
	tilesX = (width + tileW - 1) / tileW
	tilesY = (height + tileH - 1) / tileH

	luts := make([][256]uint8, tilesX*tilesY)
	for ty := 0; ty < tilesY; ty++ {
		for tx := 0; tx < tilesX; tx++ {
			x0, y0 := tx*tileW, ty*tileH
			x1, y1 := minInt(x0+tileW, width), minInt(y0+tileH, height)
			luts[ty*tilesX+tx] = tileLUT(plane, width, x0, y0, x1, y1, clipLimit)
		}
	}

	for y := 0; y < height; y++ {
		fy := (float64(y)+0.5)/float64(tileH) - 0.5
		ty1 := int(math.Floor(fy))
		ya := fy - float64(ty1)
		ty2 := ty1 + 1
		if ty1 < 0 {
			ty1, ya = 0, 0
		}
		if ty2 > tilesY-1 {
			ty2 = tilesY - 1
		}
		if ty1 > tilesY-1 {
			ty1 = tilesY - 1
		}

		for x := 0; x < width; x++ {
			fx := (float64(x)+0.5)/float64(tileW) - 0.5
			tx1 := int(math.Floor(fx))
			xa := fx - float64(tx1)
			tx2 := tx1 + 1
			if tx1 < 0 {
				tx1, xa = 0, 0
			}
			if tx2 > tilesX-1 {
				tx2 = tilesX - 1
			}
			if tx1 > tilesX-1 {
				tx1 = tilesX - 1
			}

			v := plane[y*width+x]
			tl := float64(luts[ty1*tilesX+tx1][v])
			tr := float64(luts[ty1*tilesX+tx2][v])
			bl := float64(luts[ty2*tilesX+tx1][v])
			br := float64(luts[ty2*tilesX+tx2][v])

			top := tl*(1-xa) + tr*xa
			bottom := bl*(1-xa) + br*xa
			out[y*width+x] = clampByte(top*(1-ya) + bottom*ya)
		}
	}

	return out
}

// tileLUT builds the clipped equalization lookup table for one tile.
func tileLUT(plane []uint8, width, x0, y0, x1, y1 int, clipLimit float64) [256]uint8 {
	var hist [256]int
	for y := y0; y < y1; y++ {
		row := plane[y*width : y*width+x1]
		for x := x0; x < x1; x++ {
			hist[row[x]]++
		}
	}

	var lut [256]uint8
	pixels := (x1 - x0) * (y1 - y0)
	if x1 <= x0 || y1 <= y0 {
		for i := range lut {
			lut[i] = uint8(i)
		}
		return lut
	}

	if clipLimit > 0 {
		limit := int(clipLimit * float64(pixels) / 256.0)
		if limit < 1 {
			limit = 1
		}

		excess := 0
		for i := range hist {
			if hist[i] > limit {
				excess += hist[i] - limit
				hist[i] = limit
			}
		}

		bonus := excess / 256
		residual := excess - bonus*256
		for i := range hist {
			hist[i] += bonus
		}
		if residual > 0 {
			step := 256 / residual
			if step < 1 {
				step = 1
			}
			for i := 0; i < 256 && residual > 0; i += step {
				hist[i]++
				residual--
			}
		}
	}

	scale := 255.0 / float64(pixels)
	sum := 0
	for i := range hist {
		sum += hist[i]
		lut[i] = clampByte(float64(sum) * scale)
	}
	return lut
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
