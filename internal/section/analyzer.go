package section

import (
	"context"
	"fmt"
	"regexp"
	"strconv"

	"go.uber.org/zap"

	"github.com/ironsheep/cutlist-mcp/internal/detection"
	"github.com/ironsheep/cutlist-mcp/internal/imaging"
	"github.com/ironsheep/cutlist-mcp/internal/vision"
)

// Analyzer works out depth, type and features of one section.
//
// Analyze never fails; an Analysis that could not be determined carries
// ConfidenceFailed or falls back to heuristics.
type Analyzer interface {
	Analyze(ctx context.Context, s *Section) Analysis
}

// NewAnalyzer returns a ModelAnalyzer when model is available and a
// HeuristicAnalyzer otherwise. The choice is made once here.
func NewAnalyzer(model vision.Model, logger *zap.Logger) Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	heuristic := NewHeuristicAnalyzer(logger)
	if model == nil || !model.Available() {
		logger.Info("vision model not available, analyzing sections heuristically")
		return heuristic
	}
	return &ModelAnalyzer{model: model, fallback: heuristic, logger: logger}
}

// depthPattern finds a 3 or 4 digit millimetre value in free text.
var depthPattern = regexp.MustCompile(`(\d{3,4})\s*mm`)

// ModelAnalyzer asks the vision model about each section and falls back to
// HeuristicAnalyzer when the model gives nothing usable.
type ModelAnalyzer struct {
	model    vision.Model
	fallback *HeuristicAnalyzer
	logger   *zap.Logger
}

// Analyze implements Analyzer.
func (a *ModelAnalyzer) Analyze(ctx context.Context, s *Section) Analysis {
	res := a.query(ctx, s)
	if res.Confidence == ConfidenceFailed {
		a.logger.Warn("model analysis failed, using heuristics", zap.Int("index", s.Index))
		return a.fallback.Analyze(ctx, s)
	}
	return res
}

func (a *ModelAnalyzer) query(ctx context.Context, s *Section) Analysis {
	failed := Analysis{Confidence: ConfidenceFailed}
	if s.image == nil {
		return failed
	}

	reply, err := a.model.Query(ctx, s.image, SectionPrompt(s.WidthMM, s.Index))
	if err != nil {
		a.logger.Warn("model section query failed", zap.Int("index", s.Index), zap.Error(err))
		return failed
	}

	if obj, ok := vision.ParseObject(reply); ok {
		return a.fromObject(s, obj)
	}

	m := depthPattern.FindStringSubmatch(reply)
	if m == nil {
		a.logger.Warn("no depth in model reply", zap.Int("index", s.Index))
		return failed
	}
	depth, _ := strconv.Atoi(m[1])
	depth = a.checkDepth(s.Index, depth, true)
	return Analysis{
		DepthMM:     depth,
		CabinetType: InferType(s.WidthMM, depth),
		Shelves:     DefaultShelves,
		Drawers:     DefaultDrawers,
		Doors:       DefaultDoors,
		Confidence:  ConfidenceMedium,
	}
}

func (a *ModelAnalyzer) fromObject(s *Section, obj map[string]any) Analysis {
	depth, ok := vision.IntField(obj, "depth_mm")
	depth = a.checkDepth(s.Index, depth, ok)

	name, _ := vision.StringField(obj, "cabinet_type")
	cabinetType, ok := ParseCabinetType(name)
	if !ok {
		cabinetType = InferType(s.WidthMM, depth)
	}

	conf := ConfidenceMedium
	if c, ok := vision.StringField(obj, "confidence"); ok {
		switch Confidence(c) {
		case ConfidenceHigh, ConfidenceMedium, ConfidenceLow:
			conf = Confidence(c)
		}
	}

	res := Analysis{
		DepthMM:     depth,
		CabinetType: cabinetType,
		Shelves:     a.count(s.Index, obj, "shelves", DefaultShelves, MaxShelves),
		Drawers:     a.count(s.Index, obj, "drawers", DefaultDrawers, MaxDrawers),
		Doors:       a.count(s.Index, obj, "doors", DefaultDoors, MaxDoors),
		Confidence:  conf,
	}
	a.logger.Debug("model analysis",
		zap.Int("index", s.Index),
		zap.Int("depth_mm", res.DepthMM),
		zap.String("cabinet_type", string(res.CabinetType)))
	return res
}

// checkDepth replaces a missing or out-of-range depth with DefaultDepthMM.
func (a *ModelAnalyzer) checkDepth(index, depth int, present bool) int {
	if present && depth >= MinDepthMM && depth <= MaxDepthMM {
		return depth
	}
	a.logger.Warn("invalid depth, using default",
		zap.Int("index", index),
		zap.Int("depth_mm", depth),
		zap.Int("default_mm", DefaultDepthMM))
	return DefaultDepthMM
}

// count reads an integer field in [0, limit], returning def when it is absent
// or out of range.
func (a *ModelAnalyzer) count(index int, obj map[string]any, key string, def, limit int) int {
	n, ok := vision.IntField(obj, key)
	if !ok {
		return def
	}
	if n < 0 || n > limit {
		a.logger.Warn("invalid count, using default",
			zap.Int("index", index),
			zap.String("field", key),
			zap.Int("value", n),
			zap.Int("default", def))
		return def
	}
	return n
}

// Line detection parameters for shelf counting.
const (
	cannyLow          = 50
	cannyHigh         = 150
	segmentThreshold  = 50
	segmentMinLength  = 30
	segmentMaxGap     = 10
	horizontalMaxTilt = 10.0
	maxLineShelves    = 3
)

// Width limits for heuristic typing, in millimetres.
const (
	fillerMaxWidth = 200
	cornerMinWidth = 1000
	cornerDepthMM  = 900
)

// HeuristicAnalyzer classifies a section from its width and counts shelves
// from the horizontal lines in its band.
type HeuristicAnalyzer struct {
	logger *zap.Logger
}

// NewHeuristicAnalyzer creates a HeuristicAnalyzer. A nil logger disables
// logging.
func NewHeuristicAnalyzer(logger *zap.Logger) *HeuristicAnalyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HeuristicAnalyzer{logger: logger}
}

// Analyze implements Analyzer.
func (h *HeuristicAnalyzer) Analyze(ctx context.Context, s *Section) Analysis {
	res := Analysis{
		DepthMM:     DefaultDepthMM,
		CabinetType: TypeStraight,
		Shelves:     DefaultShelves,
		Drawers:     DefaultDrawers,
		Doors:       DefaultDoors,
		Confidence:  ConfidenceLow,
	}
	switch {
	case s.WidthMM < fillerMaxWidth:
		res.CabinetType = TypeFiller
	case s.WidthMM > cornerMinWidth:
		res.CabinetType = TypeCorner
		res.DepthMM = cornerDepthMM
	}

	if s.image != nil && !s.image.Bounds().Empty() {
		edges := imaging.Canny(imaging.Grayscale(s.image), cannyLow, cannyHigh)
		segments := detection.DetectSegments(edges, detection.SegmentOptions{
			Threshold: segmentThreshold,
			MinLength: segmentMinLength,
			MaxGap:    segmentMaxGap,
		})
		// Each shelf is drawn as a top and bottom edge.
		res.Shelves = shelvesFromLines(detection.CountNearHorizontal(segments, horizontalMaxTilt))
	}

	h.logger.Debug("heuristic analysis",
		zap.Int("index", s.Index),
		zap.String("cabinet_type", string(res.CabinetType)),
		zap.Int("shelves", res.Shelves))
	return res
}

func shelvesFromLines(horizontal int) int {
	n := horizontal / 2
	if n > maxLineShelves {
		n = maxLineShelves
	}
	if n < 1 {
		n = 1
	}
	return n
}

// SectionPrompt builds the per-section instruction for the vision model.
func SectionPrompt(widthMM, index int) string {
	return fmt.Sprintf(sectionPromptTemplate, widthMM, index)
}

const sectionPromptTemplate = `You are analyzing ONE cabinet section cut from a kitchen layout drawing.

**THIS SECTION**:
- Width: %dmm (already known)
- Position: section #%d in the layout

**YOUR TASK**: Extract the DEPTH dimension and the features of THIS SECTION ONLY.

**WHAT TO EXTRACT**:
1. **Depth**: the front-to-back dimension in mm
2. **Cabinet type**:
   - "straight" = normal straight cabinet
   - "corner" = L-shaped, usually depth > 700mm
   - "filler" = narrow panel, width < 200mm
   - "drawer" = drawer divisions are visible
   - "tall" = tall unit, depth > 1200mm
3. **Features**:
   - Number of shelves (horizontal lines inside the cabinet)
   - Number of drawers
   - Number of doors

**LOOK CAREFULLY** at the dimension labels and internal lines of this section.

**OUTPUT FORMAT**: Return ONLY this JSON:
{"depth_mm": 560, "cabinet_type": "straight", "shelves": 1, "drawers": 0, "doors": 1, "confidence": "high"}

Analyze now:`
