package colour

import (
	"encoding/json"
	"fmt"
	"image/color"
	"sort"
)

// Palette represents a collection of colors extracted from an image.
// Weights, when present, hold the relative share of sampled pixels each
// colour represents and sum to 1.0.
type Palette struct {
	Colors  []color.Color
	Weights []float64
}

// NewPalette creates a new Palette with the given colors and no weights.
func NewPalette(colors []color.Color) *Palette {
	return &Palette{
		Colors: colors,
	}
}

// NewPaletteWithWeights creates a new Palette with per-colour weights.
func NewPaletteWithWeights(colors []color.Color, weights []float64) *Palette {
	return &Palette{
		Colors:  colors,
		Weights: weights,
	}
}

// Len returns the number of colors in the palette.
func (p *Palette) Len() int {
	return len(p.Colors)
}

// Dominant returns the palette colours ordered by descending weight.
// Equal weights keep their extraction order. A palette without weights is
// returned in its original order.
func (p *Palette) Dominant() []color.Color {
	out := make([]color.Color, len(p.Colors))
	copy(out, p.Colors)
	if len(p.Weights) != len(p.Colors) {
		return out
	}

	idx := make([]int, len(p.Colors))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return p.Weights[idx[a]] > p.Weights[idx[b]]
	})
	for i, j := range idx {
		out[i] = p.Colors[j]
	}
	return out
}

// RGB represents a color in RGB format.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// String returns the RGB color as a string in the format "rgb(r, g, b)".
func (rgb RGB) String() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", rgb.R, rgb.G, rgb.B)
}

// Hex returns the RGB color as a hex string (e.g., "#1a2b3c").
func (rgb RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", rgb.R, rgb.G, rgb.B)
}

// ToRGB converts a color.Color to RGB.
func ToRGB(c color.Color) RGB {
	r, g, b, _ := c.RGBA()
	// RGBA returns values in the range [0, 65535], convert to [0, 255]
	return RGB{
		R: uint8(r >> 8),
		G: uint8(g >> 8),
		B: uint8(b >> 8),
	}
}

// ToHex converts the palette colors to hex strings.
func (p *Palette) ToHex() []string {
	hexColors := make([]string, len(p.Colors))
	for i, c := range p.Colors {
		hexColors[i] = ToRGB(c).Hex()
	}
	return hexColors
}

// PaletteJSON represents the palette in JSON format.
type PaletteJSON struct {
	Count  int     `json:"count"`
	Colors []Color `json:"colors"`
}

// ToJSON converts the palette, in dominant order, to JSON.
func (p *Palette) ToJSON() ([]byte, error) {
	colors := Colors(p)
	return json.MarshalIndent(PaletteJSON{Count: len(colors), Colors: colors}, "", "  ")
}

// String returns a human-readable string representation of the palette.
func (p *Palette) String() string {
	if len(p.Colors) == 0 {
		return "Empty palette"
	}

	result := fmt.Sprintf("Palette with %d colors:\n", len(p.Colors))
	for i, c := range Colors(p) {
		result += fmt.Sprintf("  %2d: %s (%s) %s\n", i+1, c.Hex, c.RGB.String(), c.HSL.String())
	}
	return result
}
