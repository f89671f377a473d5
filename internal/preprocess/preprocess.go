package preprocess

import (
	"fmt"
	"image"

	"go.uber.org/zap"

	"github.com/ironsheep/cutlist-mcp/internal/imaging"
)

// Default working size ceiling.
const (
	DefaultMaxWidth  = 4000
	DefaultMaxHeight = 4000
)

// Enhancement parameters.
const (
	claheTiles     = 8
	claheClipLimit = 2.0
)

// DecodeError reports bytes that are not a supported image.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode image: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Size is an image size in pixels.
type Size struct {
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// Metadata describes what Process did to an image.
type Metadata struct {
	Format        string        `json:"format" yaml:"format"`
	OriginalSize  Size          `json:"original_size" yaml:"original_size"`
	ProcessedSize Size          `json:"processed_size" yaml:"processed_size"`
	Resized       bool          `json:"resized" yaml:"resized"`
	RotationAngle float64       `json:"rotation_angle" yaml:"rotation_angle"`
	Validation    QualityReport `json:"validation" yaml:"validation"`
}

// NormalizedImage is the decoded, deskewed and enhanced drawing.
//
// It is never modified after Process returns; stages that need a different
// image derive a new one.
type NormalizedImage struct {
	img      image.Image
	Metadata Metadata
}

// NewNormalizedImage wraps an already normalized image, for callers that
// skip preprocessing such as tests and tools working on prepared crops.
func NewNormalizedImage(img image.Image, meta Metadata) *NormalizedImage {
	return &NormalizedImage{img: img, Metadata: meta}
}

// Image returns the normalized raster.
func (n *NormalizedImage) Image() image.Image { return n.img }

// Width returns the image width in pixels.
func (n *NormalizedImage) Width() int { return n.img.Bounds().Dx() }

// Height returns the image height in pixels.
func (n *NormalizedImage) Height() int { return n.img.Bounds().Dy() }

// Config bounds the working image size.
type Config struct {
	MaxWidth  int
	MaxHeight int
}

// Preprocessor turns raw drawing bytes into a NormalizedImage.
type Preprocessor struct {
	cfg    Config
	logger *zap.Logger
}

// New creates a Preprocessor. Non-positive sizes take the defaults and a nil
// logger disables logging.
func New(cfg Config, logger *zap.Logger) *Preprocessor {
	if cfg.MaxWidth <= 0 {
		cfg.MaxWidth = DefaultMaxWidth
	}
	if cfg.MaxHeight <= 0 {
		cfg.MaxHeight = DefaultMaxHeight
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Preprocessor{cfg: cfg, logger: logger}
}

// Process decodes, resizes, deskews, enhances and validates a drawing.
//
// Returns:
//   - *NormalizedImage: The processed image, carrying the same Metadata.
//   - *Metadata: Sizes, the rotation applied and the quality report.
//   - error: A *DecodeError when data is not a supported image; nil otherwise.
func (p *Preprocessor) Process(data []byte) (*NormalizedImage, *Metadata, error) {
	p.logger.Info("starting image preprocessing", zap.Int("bytes", len(data)))

	img, info, err := imaging.Decode(data)
	if err != nil {
		return nil, nil, &DecodeError{Err: err}
	}

	meta := Metadata{
		Format:       info.Format,
		OriginalSize: Size{Width: info.Width, Height: info.Height},
	}

	img, meta.Resized = imaging.FitWithin(img, p.cfg.MaxWidth, p.cfg.MaxHeight)
	if meta.Resized {
		p.logger.Info("resized image",
			zap.Int("from_width", info.Width),
			zap.Int("from_height", info.Height),
			zap.Int("to_width", img.Bounds().Dx()),
			zap.Int("to_height", img.Bounds().Dy()))
	}

	img, meta.RotationAngle = p.deskew(img)
	img = Enhance(img)

	meta.Validation = Validate(img)
	meta.ProcessedSize = Size{Width: img.Bounds().Dx(), Height: img.Bounds().Dy()}

	p.logger.Info("preprocessing complete",
		zap.Int("width", meta.ProcessedSize.Width),
		zap.Int("height", meta.ProcessedSize.Height),
		zap.Float64("rotation", meta.RotationAngle),
		zap.Bool("valid", meta.Validation.Valid))

	return &NormalizedImage{img: img, Metadata: meta}, &meta, nil
}

// deskew rotates img by its dominant skew angle when that exceeds the
// tolerance and returns the angle applied (0 when unrotated).
func (p *Preprocessor) deskew(img image.Image) (image.Image, float64) {
	angle, ok := DetectSkew(img)
	if !ok {
		p.logger.Debug("no lines detected for deskew")
		return img, 0
	}
	if angle > -skewTolerance && angle < skewTolerance {
		return img, 0
	}

	p.logger.Info("deskewing", zap.Float64("angle", angle))
	return imaging.Rotate(img, angle), angle
}

// Enhance boosts local contrast on the lightness channel only and sharpens
// the result.
func Enhance(img image.Image) image.Image {
	lab := imaging.ToLab(img)
	lab.L = imaging.CLAHE(lab.L, lab.Width, lab.Height, claheTiles, claheTiles, claheClipLimit)
	return imaging.Sharpen(lab.ToNRGBA())
}
