package cutlist

import (
	"strconv"
	"strings"

	"github.com/ironsheep/cutlist-mcp/internal/extract"
	"github.com/ironsheep/cutlist-mcp/internal/preprocess"
	"github.com/ironsheep/cutlist-mcp/internal/rules"
	"github.com/ironsheep/cutlist-mcp/internal/section"
)

// Method tags.
const (
	MethodDimensionDriven = "dimension_driven_hybrid"
	MethodFailed          = "failed"
)

// Failure messages for the two empty-stage cases.
const (
	ErrMsgNoDimensions = "Failed to extract dimensions"
	ErrMsgNoSections   = "Failed to detect sections"
)

// Result is the outcome of one pipeline run.
type Result struct {
	RunID               string               `json:"run_id" yaml:"run_id"`
	Success             bool                 `json:"success" yaml:"success"`
	Error               string               `json:"error,omitempty" yaml:"error,omitempty"`
	Method              string               `json:"method" yaml:"method"`
	Confidence          float64              `json:"confidence" yaml:"confidence"`
	Preprocessing       *preprocess.Metadata `json:"preprocessing,omitempty" yaml:"preprocessing,omitempty"`
	DimensionExtraction *extract.Result      `json:"dimension_extraction,omitempty" yaml:"dimension_extraction,omitempty"`
	Sections            []SectionSummary     `json:"sections" yaml:"sections"`
	Components          []rules.Component    `json:"components" yaml:"components"`
	TableMarkdown       string               `json:"table_markdown" yaml:"table_markdown"`
	TableData           [][]string           `json:"table_data" yaml:"table_data"`
	Summary             Summary              `json:"summary" yaml:"summary"`
}

// Summary totals a cutting list.
type Summary struct {
	TotalCabinets   int     `json:"total_cabinets" yaml:"total_cabinets"`
	TotalComponents int     `json:"total_components" yaml:"total_components"`
	TotalPieces     int     `json:"total_pieces" yaml:"total_pieces"`
	TotalAreaM2     float64 `json:"total_area_m2" yaml:"total_area_m2"`
}

// SectionSummary is the reported view of one analyzed section.
type SectionSummary struct {
	Index       int                 `json:"index" yaml:"index"`
	WidthMM     int                 `json:"width_mm" yaml:"width_mm"`
	DepthMM     int                 `json:"depth_mm" yaml:"depth_mm"`
	CabinetType section.CabinetType `json:"cabinet_type" yaml:"cabinet_type"`
	Shelves     int                 `json:"shelves" yaml:"shelves"`
	Drawers     int                 `json:"drawers" yaml:"drawers"`
	Doors       int                 `json:"doors" yaml:"doors"`
	Confidence  section.Confidence  `json:"confidence" yaml:"confidence"`
	CropBox     section.CropBox     `json:"crop_box" yaml:"crop_box"`
}

func summarizeSection(s section.Section) SectionSummary {
	return SectionSummary{
		Index:       s.Index,
		WidthMM:     s.WidthMM,
		DepthMM:     s.DepthMM,
		CabinetType: s.CabinetType,
		Shelves:     s.Shelves,
		Drawers:     s.Drawers,
		Doors:       s.Doors,
		Confidence:  s.Confidence,
		CropBox:     s.CropBox,
	}
}

// Failure builds the uniform result for a run that could not finish.
func Failure(runID, msg string) *Result {
	return &Result{
		RunID:      runID,
		Success:    false,
		Error:      msg,
		Method:     MethodFailed,
		Sections:   []SectionSummary{},
		Components: []rules.Component{},
		TableData:  [][]string{},
	}
}

// Summarize totals components for cabinets sections.
func Summarize(components []rules.Component, cabinets int) Summary {
	s := Summary{TotalCabinets: cabinets, TotalComponents: len(components)}
	area := 0
	for _, c := range components {
		s.TotalPieces += c.Quantity
		area += c.AreaMM2()
	}
	s.TotalAreaM2 = float64(area) / 1e6
	return s
}

// Confidence scores per tag.
var (
	dimensionScores = map[extract.Confidence]float64{
		extract.ConfidenceHigh:    0.9,
		extract.ConfidenceMedium:  0.7,
		extract.ConfidenceLow:     0.5,
		extract.ConfidenceDefault: 0.7,
		"failed":                  0.0,
	}
	sectionScores = map[section.Confidence]float64{
		section.ConfidenceHigh:   0.9,
		section.ConfidenceMedium: 0.7,
		section.ConfidenceLow:    0.5,
		section.ConfidenceFailed: 0.3,
	}
)

const (
	unknownScore    = 0.7
	noSectionsScore = 0.5
	dimensionWeight = 0.4
	sectionWeight   = 0.6
)

// OverallConfidence weighs the dimension confidence against the mean section
// confidence, 40/60.
func OverallConfidence(dim extract.Confidence, sections []section.Section) float64 {
	dimScore, ok := dimensionScores[dim]
	if !ok {
		dimScore = unknownScore
	}

	secScore := noSectionsScore
	if len(sections) > 0 {
		sum := 0.0
		for _, s := range sections {
			v, ok := sectionScores[s.Confidence]
			if !ok {
				v = unknownScore
			}
			sum += v
		}
		secScore = sum / float64(len(sections))
	}
	return dimScore*dimensionWeight + secScore*sectionWeight
}

// TableHeader is the first row of every cutting list table.
var TableHeader = []string{
	"Component Type", "Part Name", "Unit Width (mm)", "Width (mm)",
	"Height (mm)", "Depth (mm)", "Qty", "Thickness (mm)", "Edge Banding",
}

func cell(v *int) string {
	if v == nil {
		return "N/A"
	}
	return strconv.Itoa(*v)
}

func row(c rules.Component) []string {
	return []string{
		string(c.ComponentType),
		c.PartName,
		cell(c.UnitWidth),
		strconv.Itoa(c.Width),
		cell(c.Height),
		cell(c.Depth),
		strconv.Itoa(c.Quantity),
		strconv.Itoa(c.Thickness),
		c.EdgeBanding,
	}
}

// TableRows returns the header followed by one row per component.
func TableRows(components []rules.Component) [][]string {
	rows := make([][]string, 0, len(components)+1)
	rows = append(rows, append([]string(nil), TableHeader...))
	for _, c := range components {
		rows = append(rows, row(c))
	}
	return rows
}

// MarkdownTable renders components as a left-aligned markdown table.
func MarkdownTable(components []rules.Component) string {
	var b strings.Builder
	writeRow := func(cells []string) {
		b.WriteString("| ")
		b.WriteString(strings.Join(cells, " | "))
		b.WriteString(" |")
	}

	writeRow(TableHeader)
	b.WriteString("\n|")
	for range TableHeader {
		b.WriteString(":---|")
	}
	for _, c := range components {
		b.WriteByte('\n')
		writeRow(row(c))
	}
	return b.String()
}
