package preprocess

import (
	"image"

	"github.com/ironsheep/cutlist-mcp/internal/imaging"
)

// Quality thresholds.
const (
	minWidth       = 800
	minHeight      = 600
	blankMean      = 250
	minContrast    = 20
	minEdgeDensity = 0.01
)

// Warning messages emitted by Validate.
const (
	WarnLowResolution = "Low resolution (<800x600)"
	WarnBlank         = "Image appears mostly blank"
	WarnLowContrast   = "Very low contrast"
	WarnFewEdges      = "Very few edges - may not be a technical drawing"
)

// QualityMetrics are the raw measurements behind a QualityReport.
type QualityMetrics struct {
	Width         int     `json:"width" yaml:"width"`
	Height        int     `json:"height" yaml:"height"`
	MeanIntensity float64 `json:"mean_intensity" yaml:"mean_intensity"`
	Contrast      float64 `json:"contrast" yaml:"contrast"`
	EdgeDensity   float64 `json:"edge_density" yaml:"edge_density"`
}

// QualityReport says whether an image looks like a usable drawing.
//
// Valid is true when Warnings is empty. It is advisory: later stages run on
// invalid images too.
type QualityReport struct {
	Valid    bool           `json:"valid" yaml:"valid"`
	Warnings []string       `json:"warnings" yaml:"warnings"`
	Metrics  QualityMetrics `json:"metrics" yaml:"metrics"`
}

// Validate measures img and collects quality warnings.
func Validate(img image.Image) QualityReport {
	b := img.Bounds()
	gray := imaging.Grayscale(img)
	stats := imaging.Intensity(gray)
	density := imaging.Canny(gray, cannyLow, cannyHigh).Density()

	m := QualityMetrics{
		Width:         b.Dx(),
		Height:        b.Dy(),
		MeanIntensity: stats.Mean,
		Contrast:      stats.StdDev,
		EdgeDensity:   density,
	}

	warnings := []string{}
	if m.Width < minWidth || m.Height < minHeight {
		warnings = append(warnings, WarnLowResolution)
	}
	if m.MeanIntensity > blankMean {
		warnings = append(warnings, WarnBlank)
	}
	if m.Contrast < minContrast {
		warnings = append(warnings, WarnLowContrast)
	}
	if m.EdgeDensity < minEdgeDensity {
		warnings = append(warnings, WarnFewEdges)
	}

	return QualityReport{
		Valid:    len(warnings) == 0,
		Warnings: warnings,
		Metrics:  m,
	}
}
