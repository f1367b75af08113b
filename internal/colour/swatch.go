package colour

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// ANSI escape codes for 24-bit terminal colours.
const (
	ansiReset    = "\033[0m"
	ansiFgPrefix = "\033[38;2;"
	ansiBgPrefix = "\033[48;2;"
	ansiSuffix   = "m"
	swatchWidth  = 8
)

// Swatch returns a solid block of width cells in colour c.
func Swatch(c RGB, width int) string {
	if width <= 0 {
		width = swatchWidth
	}
	return background(c) + strings.Repeat(" ", width) + ansiReset
}

// SwatchWithText returns a swatch with text centred on it, in black or white
// depending on which reads better against c.
func SwatchWithText(c RGB, text string, width int) string {
	if width <= 0 {
		width = swatchWidth
	}

	fg := RGB{R: 255, G: 255, B: 255}
	if Luminance(c) > 0.5 {
		fg = RGB{}
	}

	display := text
	if len(text) > width {
		display = text[:width]
	} else if len(text) < width {
		left := (width - len(text)) / 2
		display = strings.Repeat(" ", left) + text + strings.Repeat(" ", width-len(text)-left)
	}

	return background(c) + foreground(fg) + display + ansiReset
}

// Luminance is the relative luminance of c in [0,1].
func Luminance(c RGB) float64 {
	r, g, b := colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}.LinearRgb()
	return 0.2126*r + 0.7152*g + 0.0722*b
}

func background(c RGB) string {
	return fmt.Sprintf("%s%d;%d;%d%s", ansiBgPrefix, c.R, c.G, c.B, ansiSuffix)
}

func foreground(c RGB) string {
	return fmt.Sprintf("%s%d;%d;%d%s", ansiFgPrefix, c.R, c.G, c.B, ansiSuffix)
}
