package imaging

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Band is a labelled vertical strip of an image, given in pixel columns.
type Band struct {
	X1    int
	X2    int
	Label string
}

var (
	bandLineColor  = color.RGBA{255, 0, 0, 255}
	bandLabelColor = color.RGBA{255, 255, 255, 255}
	bandLabelBg    = color.RGBA{0, 0, 0, 180}
)

// OverlayBands draws the boundaries of each band as red vertical lines and
// writes its label in the top-left corner of the band.
//
// Lines are 2 px wide. Labels use the 7x13 basicfont face on a dark
// background box so they stay legible on white paper and dark photos.
// Bands outside the image are clipped.
func OverlayBands(img image.Image, bands []Band) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)

	for _, band := range bands {
		for _, x := range []int{band.X1, band.X2 - 1} {
			line := image.Rect(x-1, 0, x+1, out.Bounds().Dy()).Intersect(out.Bounds())
			draw.Draw(out, line, image.NewUniform(bandLineColor), image.Point{}, draw.Src)
		}
		if band.Label != "" {
			drawText(out, band.X1+4, 4, band.Label)
		}
	}

	return out
}

// drawText renders text with its top-left corner at (x, y).
func drawText(img *image.RGBA, x, y int, text string) {
	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(bandLabelColor),
		Face: face,
	}
	width := d.MeasureString(text).Ceil()
	height := face.Metrics().Height.Ceil()

	bg := image.Rect(x-2, y-2, x+width+2, y+height+2).Intersect(img.Bounds())
	draw.Draw(img, bg, image.NewUniform(bandLabelBg), image.Point{}, draw.Over)

	d.Dot = fixed.P(x, y+face.Metrics().Ascent.Ceil())
	d.DrawString(text)
}
