package colour

import (
	"fmt"
	"image"
	"image/color"

	"github.com/EdlinOrg/prominentcolor"
)

// ProminentExtractor extracts colours with the prominentcolor library. It
// crops to the centre of the image and masks plain backgrounds, which suits
// photographed garments better than flat sketches.
type ProminentExtractor struct {
	arguments int
	size      uint
}

// NewProminentExtractor creates a ProminentExtractor with library defaults.
func NewProminentExtractor() *ProminentExtractor {
	return &ProminentExtractor{
		arguments: prominentcolor.ArgumentDefault,
		size:      prominentcolor.DefaultSize,
	}
}

// Extract implements Extractor.
func (e *ProminentExtractor) Extract(img image.Image, count int) (*Palette, error) {
	if img == nil {
		return nil, fmt.Errorf("image cannot be nil")
	}
	if err := validateCount(count); err != nil {
		return nil, err
	}

	items, err := prominentcolor.KmeansWithAll(count, img, e.arguments, e.size, prominentcolor.GetDefaultMasks())
	if err != nil {
		// Masks can remove every pixel of a flat sketch; retry unmasked.
		items, err = prominentcolor.KmeansWithAll(count, img, e.arguments, e.size, nil)
		if err != nil {
			return nil, fmt.Errorf("prominent colour extraction failed: %w", err)
		}
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("no prominent colours found in image")
	}

	total := 0
	for _, item := range items {
		total += item.Cnt
	}

	colors := make([]color.Color, len(items))
	weights := make([]float64, len(items))
	for i, item := range items {
		colors[i] = color.RGBA{
			R: uint8(item.Color.R),
			G: uint8(item.Color.G),
			B: uint8(item.Color.B),
			A: 255,
		}
		if total > 0 {
			weights[i] = float64(item.Cnt) / float64(total)
		}
	}

	return NewPaletteWithWeights(colors, weights), nil
}
