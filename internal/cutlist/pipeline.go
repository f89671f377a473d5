package cutlist

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ironsheep/cutlist-mcp/internal/extract"
	"github.com/ironsheep/cutlist-mcp/internal/preprocess"
	"github.com/ironsheep/cutlist-mcp/internal/rules"
	"github.com/ironsheep/cutlist-mcp/internal/section"
	"github.com/ironsheep/cutlist-mcp/internal/vision"
)

// DefaultWorkers is the number of sections analyzed at the same time.
const DefaultWorkers = 4

// Config configures a Pipeline.
type Config struct {
	Preprocess preprocess.Config
	// Workers bounds concurrent section analysis. Non-positive means
	// DefaultWorkers.
	Workers int
	// OCRLanguage is passed to the text recognizer, "eng" when empty.
	OCRLanguage string
}

// Pipeline wires the stages together. It is safe for concurrent use.
type Pipeline struct {
	preprocessor *preprocess.Preprocessor
	extractor    *extract.Extractor
	detector     *section.Detector
	analyzer     section.Analyzer
	workers      int
	logger       *zap.Logger
}

// Option customizes a Pipeline.
type Option func(*Pipeline)

// WithAnalyzer replaces the analyzer chosen from the model.
func WithAnalyzer(a section.Analyzer) Option {
	return func(p *Pipeline) { p.analyzer = a }
}

// New creates a Pipeline around an injected vision model and optional text
// recognizer. The model is never closed by the pipeline; a nil model is
// treated as unavailable and a nil recognizer disables the OCR tier.
func New(cfg Config, model vision.Model, ocr extract.TextRecognizer, logger *zap.Logger, opts ...Option) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	if model == nil {
		model = vision.Unavailable{}
	}
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}

	extractOpts := []extract.Option{}
	if ocr != nil {
		extractOpts = append(extractOpts, extract.WithTextRecognizer(ocr))
	}
	if cfg.OCRLanguage != "" {
		extractOpts = append(extractOpts, extract.WithOCRLanguage(cfg.OCRLanguage))
	}

	p := &Pipeline{
		preprocessor: preprocess.New(cfg.Preprocess, logger.Named("preprocess")),
		extractor:    extract.New(model, logger.Named("extract"), extractOpts...),
		detector:     section.NewDetector(logger.Named("section")),
		analyzer:     section.NewAnalyzer(model, logger.Named("analyze")),
		workers:      cfg.Workers,
		logger:       logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Normalize runs the preprocessing stage alone.
func (p *Pipeline) Normalize(data []byte) (*preprocess.NormalizedImage, *preprocess.Metadata, error) {
	return p.preprocessor.Process(data)
}

// ExtractDimensions runs the dimension extraction stage alone.
func (p *Pipeline) ExtractDimensions(ctx context.Context, img *preprocess.NormalizedImage) *extract.Result {
	return p.extractor.Extract(ctx, img)
}

// DetectSections runs the section detection stage alone.
func (p *Pipeline) DetectSections(img *preprocess.NormalizedImage, dims *extract.Result) []section.Section {
	return p.detector.Detect(img, dims)
}

func newRunID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Run turns drawing bytes into a cutting list.
func (p *Pipeline) Run(ctx context.Context, data []byte) (res *Result) {
	runID := newRunID()
	logger := p.logger.With(zap.String("run_id", runID))

	defer func() {
		if r := recover(); r != nil {
			logger.Error("pipeline panicked", zap.Any("panic", r))
			res = Failure(runID, fmt.Sprintf("internal error: %v", r))
		}
	}()

	logger.Info("starting cutting list generation", zap.Int("bytes", len(data)))

	img, meta, err := p.preprocessor.Process(data)
	if err != nil {
		logger.Error("preprocessing failed", zap.Error(err))
		return Failure(runID, err.Error())
	}
	if !meta.Validation.Valid {
		for _, w := range meta.Validation.Warnings {
			logger.Warn("image validation", zap.String("warning", w))
		}
	}
	if err := ctx.Err(); err != nil {
		return Failure(runID, err.Error())
	}

	dims := p.extractor.Extract(ctx, img)
	if err := ctx.Err(); err != nil {
		return Failure(runID, err.Error())
	}
	if len(dims.Widths) == 0 {
		logger.Error("no cabinet widths found")
		return Failure(runID, ErrMsgNoDimensions)
	}
	logger.Info("found cabinet widths",
		zap.Ints("widths", dims.Widths),
		zap.String("source", string(dims.Source)))

	sections := p.detector.Detect(img, dims)
	if len(sections) == 0 {
		logger.Error("no sections detected")
		return Failure(runID, ErrMsgNoSections)
	}

	if err := p.analyze(ctx, sections); err != nil {
		logger.Error("section analysis failed", zap.Error(err))
		return Failure(runID, err.Error())
	}

	var components []rules.Component
	for _, s := range sections {
		components = append(components, rules.CalculateComponents(s)...)
	}
	components = rules.AddEndPanels(components, len(sections))

	summaries := make([]SectionSummary, len(sections))
	for i, s := range sections {
		summaries[i] = summarizeSection(s)
	}

	res = &Result{
		RunID:               runID,
		Success:             true,
		Method:              MethodDimensionDriven,
		Confidence:          OverallConfidence(dims.Confidence, sections),
		Preprocessing:       meta,
		DimensionExtraction: dims,
		Sections:            summaries,
		Components:          components,
		TableMarkdown:       MarkdownTable(components),
		TableData:           TableRows(components),
		Summary:             Summarize(components, len(sections)),
	}
	logger.Info("cutting list complete",
		zap.Int("cabinets", res.Summary.TotalCabinets),
		zap.Int("components", res.Summary.TotalComponents),
		zap.Int("pieces", res.Summary.TotalPieces),
		zap.Float64("area_m2", res.Summary.TotalAreaM2),
		zap.Float64("confidence", res.Confidence))
	return res
}

// analyze fills in the Analysis of every section using at most p.workers
// goroutines. Each goroutine writes only its own element.
func (p *Pipeline) analyze(ctx context.Context, sections []section.Section) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	for i := range sections {
		s := &sections[i]
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("analyzing section %d: panic: %v", s.Index, r)
				}
			}()
			if err := gctx.Err(); err != nil {
				return err
			}
			s.Analysis = p.analyzer.Analyze(gctx, s)
			p.logger.Debug("section analyzed",
				zap.Int("index", s.Index),
				zap.String("cabinet_type", string(s.CabinetType)),
				zap.Int("depth_mm", s.DepthMM))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}
