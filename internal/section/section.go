package section

import (
	"image"
)

// CabinetType classifies a cabinet for the manufacturing rules.
type CabinetType string

const (
	TypeStraight CabinetType = "straight"
	TypeCorner   CabinetType = "corner"
	TypeFiller   CabinetType = "filler"
	TypeDrawer   CabinetType = "drawer"
	TypeTall     CabinetType = "tall"
)

// ParseCabinetType returns the type named by s, or false when s is not one of
// the known types.
func ParseCabinetType(s string) (CabinetType, bool) {
	switch t := CabinetType(s); t {
	case TypeStraight, TypeCorner, TypeFiller, TypeDrawer, TypeTall:
		return t, true
	default:
		return "", false
	}
}

// Confidence grades an Analysis.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
	ConfidenceFailed Confidence = "failed"
)

// Defaults applied when a value is missing or out of range.
const (
	DefaultDepthMM = 560
	DefaultShelves = 1
	DefaultDrawers = 0
	DefaultDoors   = 1
)

// Accepted depth range in millimetres.
const (
	MinDepthMM = 200
	MaxDepthMM = 2000
)

// Largest accepted counts per cabinet. Ten drawers in a 720 mm carcass still
// leave 51 mm faces.
const (
	MaxShelves = 10
	MaxDrawers = 10
	MaxDoors   = 4
)

// CropBox is a section's pixel band; X2 and Y2 are exclusive.
type CropBox struct {
	X1 int `json:"x1" yaml:"x1"`
	Y1 int `json:"y1" yaml:"y1"`
	X2 int `json:"x2" yaml:"x2"`
	Y2 int `json:"y2" yaml:"y2"`
}

// Rect returns the box as an image.Rectangle.
func (b CropBox) Rect() image.Rectangle {
	return image.Rect(b.X1, b.Y1, b.X2, b.Y2)
}

// Analysis is what an Analyzer learned about one section.
type Analysis struct {
	DepthMM     int         `json:"depth_mm" yaml:"depth_mm"`
	CabinetType CabinetType `json:"cabinet_type" yaml:"cabinet_type"`
	Shelves     int         `json:"shelves" yaml:"shelves"`
	Drawers     int         `json:"drawers" yaml:"drawers"`
	Doors       int         `json:"doors" yaml:"doors"`
	Confidence  Confidence  `json:"confidence" yaml:"confidence"`
}

// Section is one cabinet's band of the drawing.
//
// The geometry is fixed by Detector. Analysis is zero until the pipeline
// stores an Analyzer's result in it.
type Section struct {
	Index   int     `json:"index" yaml:"index"`
	WidthMM int     `json:"width_mm" yaml:"width_mm"`
	WidthPx int     `json:"width_px" yaml:"width_px"`
	CropBox CropBox `json:"crop_box" yaml:"crop_box"`
	Scale   float64 `json:"scale_px_per_mm" yaml:"scale_px_per_mm"`
	Analysis

	image image.Image
}

// Image returns the cropped band, or nil for sections built without one.
func (s *Section) Image() image.Image { return s.image }

// WithImage returns a copy of s carrying img as its band, for sections built
// outside Detector.
func (s Section) WithImage(img image.Image) Section {
	s.image = img
	return s
}

// InferType guesses a cabinet type from its size alone.
func InferType(widthMM, depthMM int) CabinetType {
	switch {
	case widthMM < 200:
		return TypeFiller
	case depthMM > 1200:
		return TypeTall
	case depthMM > 700:
		return TypeCorner
	default:
		return TypeStraight
	}
}
