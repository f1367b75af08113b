package colour

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// HSL holds hue in degrees [0,360) and saturation/lightness as percentages
// [0,100], rounded to whole numbers.
type HSL struct {
	H float64 `json:"h"`
	S float64 `json:"s"`
	L float64 `json:"l"`
}

// String returns the HSL color as "hsl(h, s%, l%)".
func (h HSL) String() string {
	return fmt.Sprintf("hsl(%g, %g%%, %g%%)", h.H, h.S, h.L)
}

// Color is a dominant colour of a design in the three notations the
// classifier and scorer consume.
type Color struct {
	RGB RGB    `json:"rgb"`
	Hex string `json:"hex"`
	HSL HSL    `json:"hsl"`
}

// NewColor derives the hex and HSL notations of an RGB value.
func NewColor(rgb RGB) Color {
	return Color{
		RGB: rgb,
		Hex: rgb.Hex(),
		HSL: rgbToHSL(rgb),
	}
}

// ParseHex parses "#rrggbb" (or "rrggbb", "#rgb") into a Color.
func ParseHex(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, fmt.Errorf("invalid hex colour %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return NewColor(RGB{R: r, G: g, B: b}), nil
}

// Colors converts a palette to Colors in dominant order.
func Colors(p *Palette) []Color {
	if p == nil {
		return nil
	}
	dominant := p.Dominant()
	out := make([]Color, len(dominant))
	for i, c := range dominant {
		out[i] = NewColor(ToRGB(c))
	}
	return out
}

// rgbToHSL converts RGB to rounded HSL. A hue that rounds up to 360 wraps
// to 0 so hues stay in [0,360).
func rgbToHSL(rgb RGB) HSL {
	c := colorful.Color{
		R: float64(rgb.R) / 255.0,
		G: float64(rgb.G) / 255.0,
		B: float64(rgb.B) / 255.0,
	}
	h, s, l := c.Hsl()

	hue := math.Round(h)
	if hue >= 360 {
		hue -= 360
	}
	return HSL{
		H: hue,
		S: math.Round(s * 100),
		L: math.Round(l * 100),
	}
}

// RGBToColor converts an RGB value to a color.Color (RGBA).
func RGBToColor(rgb RGB) color.Color {
	return color.RGBA{R: rgb.R, G: rgb.G, B: rgb.B, A: 255}
}
