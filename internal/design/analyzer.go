package design

import (
	"context"
	"fmt"
	"image"

	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/atelier/internal/colour"
	imageloader "github.com/jmylchreest/atelier/internal/image"
	"github.com/jmylchreest/atelier/internal/palette"
)

// Analyzer turns a design image into Attributes. It holds no per-request
// state and is safe for concurrent use when its collaborators are.
type Analyzer struct {
	loader    imageloader.Loader
	extractor colour.Extractor
	count     int
	traits    TraitClassifier
	logger    hclog.Logger
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithColourCount sets how many dominant colours are extracted.
func WithColourCount(n int) Option {
	return func(a *Analyzer) {
		a.count = n
	}
}

// WithTraitClassifier replaces the static trait classifier.
func WithTraitClassifier(c TraitClassifier) Option {
	return func(a *Analyzer) {
		a.traits = c
	}
}

// WithLogger sets the logger.
func WithLogger(l hclog.Logger) Option {
	return func(a *Analyzer) {
		a.logger = l
	}
}

// NewAnalyzer creates an Analyzer that loads images with loader and
// extracts colours with extractor.
func NewAnalyzer(loader imageloader.Loader, extractor colour.Extractor, opts ...Option) *Analyzer {
	a := &Analyzer{
		loader:    loader,
		extractor: extractor,
		count:     colour.DefaultColourCount,
		traits:    NewStaticClassifier(),
		logger:    hclog.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze loads the image at ref and extracts its attributes.
func (a *Analyzer) Analyze(ctx context.Context, ref string) (*Attributes, error) {
	img, err := a.load(ctx, ref)
	if err != nil {
		return nil, err
	}
	return a.AnalyzeImage(ctx, img)
}

// AnalyzeImage extracts attributes from an already decoded image.
func (a *Analyzer) AnalyzeImage(ctx context.Context, img image.Image) (*Attributes, error) {
	analysis, err := a.analyzeColors(img)
	if err != nil {
		return nil, err
	}

	traits, err := a.traits.ClassifyTraits(ctx, img)
	if err != nil {
		a.logger.Warn("trait classification failed, using defaults", "error", err)
		traits = DefaultTraits
	}

	return &Attributes{
		Colors:       analysis.DominantColors,
		ColorPalette: analysis.ColorPalette,
		Pattern:      traits.Pattern,
		Style:        traits.Style,
		GarmentType:  traits.GarmentType,
	}, nil
}

// ColorAnalysis loads the image at ref and returns its dominant colours and
// palette descriptor.
func (a *Analyzer) ColorAnalysis(ctx context.Context, ref string) (*ColorAnalysis, error) {
	img, err := a.load(ctx, ref)
	if err != nil {
		return nil, err
	}
	return a.analyzeColors(img)
}

func (a *Analyzer) load(ctx context.Context, ref string) (image.Image, error) {
	a.logger.Debug("loading design image", "ref", ref)
	img, err := a.loader.Load(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("failed to load design image: %w", err)
	}
	bounds := img.Bounds()
	a.logger.Debug("design image loaded", "width", bounds.Dx(), "height", bounds.Dy())
	return img, nil
}

func (a *Analyzer) analyzeColors(img image.Image) (*ColorAnalysis, error) {
	p, err := a.extractor.Extract(img, a.count)
	if err != nil {
		return nil, fmt.Errorf("failed to extract colours: %w", err)
	}

	colors := colour.Colors(p)
	descriptor, err := palette.Classify(colors)
	if err != nil {
		return nil, fmt.Errorf("failed to classify palette: %w", err)
	}

	a.logger.Debug("palette classified",
		"colours", len(colors),
		"primary", descriptor.PrimaryColor,
		"harmony", descriptor.Harmony,
		"temperature", descriptor.Temperature)

	return &ColorAnalysis{
		DominantColors: colors,
		ColorPalette:   descriptor,
	}, nil
}
