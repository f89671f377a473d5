package extract

import (
	"context"
	"image"
	"strings"

	"go.uber.org/zap"

	"github.com/ironsheep/cutlist-mcp/internal/imaging"
	"github.com/ironsheep/cutlist-mcp/internal/ocr"
	"github.com/ironsheep/cutlist-mcp/internal/preprocess"
	"github.com/ironsheep/cutlist-mcp/internal/vision"
)

// Confidence grades how far the extracted widths can be trusted.
type Confidence string

const (
	ConfidenceHigh    Confidence = "high"
	ConfidenceMedium  Confidence = "medium"
	ConfidenceLow     Confidence = "low"
	ConfidenceDefault Confidence = "default"
)

// Source names the tier that produced a Result.
type Source string

const (
	SourceModelJSON Source = "model_json"
	SourceModelText Source = "model_text"
	SourceOCR       Source = "ocr"
	SourceDefault   Source = "default"
)

// Width ranges accepted from each tier, in millimetres.
const (
	minModelWidth = 50
	maxModelWidth = 5000

	minTextWidth = 50
	maxTextWidth = 3000

	minCabinetWidth = 100
	maxCabinetWidth = 2000
	maxFillerWidth  = 200
)

// ocrRegionStart is the fraction of the image height where the OCR crop starts.
const ocrRegionStart = 0.8

// DefaultWidths is the layout assumed when no tier finds any widths.
var DefaultWidths = []int{900, 700, 600, 150, 60}

// Result is the outcome of dimension extraction.
type Result struct {
	Widths     []int      `json:"cabinet_widths" yaml:"cabinet_widths"`
	TotalWidth int        `json:"total_width" yaml:"total_width"`
	Confidence Confidence `json:"confidence" yaml:"confidence"`
	Source     Source     `json:"source" yaml:"source"`
}

func newResult(widths []int, conf Confidence, src Source) *Result {
	total := 0
	for _, w := range widths {
		total += w
	}
	return &Result{Widths: widths, TotalWidth: total, Confidence: conf, Source: src}
}

// TextRecognizer runs OCR on an image. *ocr.Engine implements it.
type TextRecognizer interface {
	RecognizeText(img image.Image, cfg ocr.Config) (string, error)
}

// Extractor finds cabinet widths in a normalized drawing.
type Extractor struct {
	model    vision.Model
	ocr      TextRecognizer
	language string
	logger   *zap.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithTextRecognizer enables the OCR tier.
func WithTextRecognizer(r TextRecognizer) Option {
	return func(e *Extractor) { e.ocr = r }
}

// WithOCRLanguage sets the Tesseract language used by the OCR tier.
func WithOCRLanguage(lang string) Option {
	return func(e *Extractor) { e.language = lang }
}

// New creates an Extractor. A nil model is treated as unavailable.
func New(model vision.Model, logger *zap.Logger, opts ...Option) *Extractor {
	if model == nil {
		model = vision.Unavailable{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Extractor{model: model, language: "eng", logger: logger}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract returns the cabinet widths from left to right.
//
// The result is never nil. When every tier fails the default layout is
// returned with ConfidenceDefault.
func (e *Extractor) Extract(ctx context.Context, img *preprocess.NormalizedImage) *Result {
	if e.model.Available() {
		if res := e.fromModel(ctx, img.Image()); res != nil {
			return res
		}
	} else {
		e.logger.Info("vision model not available, skipping model extraction")
	}

	if res := e.fromOCR(img.Image()); res != nil {
		return res
	}

	e.logger.Warn("all extraction methods failed, using default widths",
		zap.Ints("widths", DefaultWidths))
	return newResult(append([]int(nil), DefaultWidths...), ConfidenceDefault, SourceDefault)
}

func (e *Extractor) fromModel(ctx context.Context, img image.Image) *Result {
	reply, err := e.model.Query(ctx, img, DimensionPrompt)
	if err != nil {
		e.logger.Warn("model dimension query failed", zap.Error(err))
		return nil
	}

	if obj, ok := vision.ParseObject(reply); ok {
		widths := modelWidths(obj["cabinet_widths"])
		if len(widths) > 0 {
			conf := ConfidenceMedium
			if s, ok := vision.StringField(obj, "confidence"); ok {
				conf = normalizeConfidence(s)
			}
			e.logger.Info("extracted widths from model JSON",
				zap.Ints("widths", widths), zap.String("confidence", string(conf)))
			return newResult(widths, conf, SourceModelJSON)
		}
	}

	e.logger.Warn("model reply had no usable JSON, salvaging numbers from text")
	widths := salvageWidths(reply)
	if len(widths) == 0 {
		return nil
	}
	e.logger.Info("salvaged widths from model text", zap.Ints("widths", widths))
	return newResult(widths, ConfidenceMedium, SourceModelText)
}

func (e *Extractor) fromOCR(img image.Image) *Result {
	if e.ocr == nil {
		return nil
	}

	region := imaging.CropBottom(img, ocrRegionStart)
	if region.Bounds().Empty() {
		return nil
	}
	text, err := e.ocr.RecognizeText(region, ocr.Config{Language: e.language, PageSegMode: ocr.PSMSingleBlock})
	if err != nil {
		e.logger.Warn("OCR extraction failed", zap.Error(err))
		return nil
	}

	widths := ocrWidths(text)
	if len(widths) == 0 {
		e.logger.Warn("OCR found no plausible widths", zap.String("text", text))
		return nil
	}
	e.logger.Info("extracted widths with OCR", zap.Ints("widths", widths))
	return newResult(widths, ConfidenceLow, SourceOCR)
}

// modelWidths keeps the integer entries of a JSON width list that fall in the
// accepted range.
func modelWidths(v any) []int {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	var widths []int
	for _, item := range list {
		w, ok := vision.Int(item)
		if !ok || w < minModelWidth || w > maxModelWidth {
			continue
		}
		widths = append(widths, w)
	}
	return widths
}

func normalizeConfidence(s string) Confidence {
	switch c := Confidence(strings.ToLower(strings.TrimSpace(s))); c {
	case ConfidenceHigh, ConfidenceMedium, ConfidenceLow:
		return c
	default:
		return ConfidenceMedium
	}
}
