package section

import (
	"math"

	"go.uber.org/zap"

	"github.com/ironsheep/cutlist-mcp/internal/extract"
	"github.com/ironsheep/cutlist-mcp/internal/imaging"
	"github.com/ironsheep/cutlist-mcp/internal/preprocess"
)

// MinWidthPx is the narrowest band kept by Detect.
const MinWidthPx = 20

// Detector maps extracted widths onto the drawing.
type Detector struct {
	logger *zap.Logger
}

// NewDetector creates a Detector. A nil logger disables logging.
func NewDetector(logger *zap.Logger) *Detector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Detector{logger: logger}
}

// Detect cuts the drawing into one full-height band per width.
//
// The scale is the image width divided by the sum of the widths, so the bands
// tile the image from the left edge. Each band spans round(width*scale)
// pixels, clamped to the image's right edge, and the next band starts where
// the unclamped span ended. Bands narrower than MinWidthPx or lying outside
// the image are dropped with a warning; the survivors keep their original
// 1-based index. WidthPx is the clamped band width, so the bands never cover
// more than the image.
func (d *Detector) Detect(img *preprocess.NormalizedImage, dims *extract.Result) []Section {
	if dims == nil || len(dims.Widths) == 0 {
		return nil
	}
	total := 0
	for _, w := range dims.Widths {
		total += w
	}
	if total <= 0 {
		return nil
	}

	imgW, imgH := img.Width(), img.Height()
	scale := float64(imgW) / float64(total)
	d.logger.Info("detecting sections",
		zap.Int("count", len(dims.Widths)),
		zap.Float64("scale_px_per_mm", scale))

	sections := make([]Section, 0, len(dims.Widths))
	x := 0
	for i, w := range dims.Widths {
		span := int(math.Round(float64(w) * scale))
		x2 := x + span
		if x2 > imgW {
			x2 = imgW
		}
		box := CropBox{X1: x, Y1: 0, X2: x2, Y2: imgH}
		x += span

		if span < MinWidthPx || box.X2 <= box.X1 || imgH == 0 {
			d.logger.Warn("dropping section",
				zap.Int("index", i+1),
				zap.Int("width_mm", w),
				zap.Int("width_px", span))
			continue
		}

		sections = append(sections, Section{
			Index:   i + 1,
			WidthMM: w,
			WidthPx: box.X2 - box.X1,
			CropBox: box,
			Scale:   scale,
			image:   imaging.CropRect(img.Image(), box.Rect().Add(img.Image().Bounds().Min)),
		})
	}
	return sections
}
