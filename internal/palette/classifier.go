// Package palette derives qualitative descriptors (temperature, brightness,
// saturation, harmony) from a design's dominant colours.
package palette

import (
	"errors"
	"fmt"
	"math"

	"github.com/jmylchreest/atelier/internal/colour"
)

// ErrInvalidInput is returned when a palette cannot be classified.
var ErrInvalidInput = errors.New("invalid input")

// Temperature is the warm/cool balance of a palette.
type Temperature string

const (
	Warm Temperature = "warm"
	Cool Temperature = "cool"
)

// Brightness is the overall lightness of a palette.
type Brightness string

const (
	Light Brightness = "light"
	Dark  Brightness = "dark"
)

// Saturation is the overall colourfulness of a palette.
type Saturation string

const (
	Saturated Saturation = "saturated"
	Muted     Saturation = "muted"
)

// Harmony describes how the hues of a palette relate to each other.
type Harmony string

const (
	Monochromatic Harmony = "monochromatic"
	Analogous     Harmony = "analogous"
	Complementary Harmony = "complementary"
	Varied        Harmony = "varied"
)

// Thresholds used by Classify. Hues are in degrees, the rest in percent.
const (
	warmHueMax = 60.0
	warmHueMin = 300.0

	lightnessMidpoint  = 50.0
	saturationMidpoint = 50.0

	monochromaticRange = 30.0
	analogousRange     = 90.0

	complementaryMin = 165.0
	complementaryMax = 195.0
)

// Descriptor is the qualitative summary of a set of dominant colours.
type Descriptor struct {
	Temperature  Temperature `json:"temperature"`
	Brightness   Brightness  `json:"brightness"`
	Saturation   Saturation  `json:"saturation"`
	Harmony      Harmony     `json:"harmony"`
	PrimaryColor string      `json:"primaryColor"`
}

// Classify derives a Descriptor from colours ordered by dominance.
// colors[0] is the primary colour.
func Classify(colors []colour.Color) (Descriptor, error) {
	if len(colors) == 0 {
		return Descriptor{}, fmt.Errorf("%w: cannot classify an empty colour set", ErrInvalidInput)
	}

	return Descriptor{
		Temperature:  temperature(colors),
		Brightness:   brightness(colors),
		Saturation:   saturation(colors),
		Harmony:      harmony(colors),
		PrimaryColor: colors[0].Hex,
	}, nil
}

// IsWarmHue reports whether a hue falls in the red-orange-yellow or magenta
// arcs of the wheel.
func IsWarmHue(h float64) bool {
	return h <= warmHueMax || h >= warmHueMin
}

// temperature is warm only with a strict warm majority; ties are cool.
func temperature(colors []colour.Color) Temperature {
	warm := 0
	for _, c := range colors {
		if IsWarmHue(c.HSL.H) {
			warm++
		}
	}
	if warm > len(colors)-warm {
		return Warm
	}
	return Cool
}

func brightness(colors []colour.Color) Brightness {
	sum := 0.0
	for _, c := range colors {
		sum += c.HSL.L
	}
	if sum/float64(len(colors)) > lightnessMidpoint {
		return Light
	}
	return Dark
}

func saturation(colors []colour.Color) Saturation {
	sum := 0.0
	for _, c := range colors {
		sum += c.HSL.S
	}
	if sum/float64(len(colors)) > saturationMidpoint {
		return Saturated
	}
	return Muted
}

// harmony checks the linear hue range before scanning for a complementary
// pair, so a narrow palette never reports complementary. The range does not
// wrap around 360.
func harmony(colors []colour.Color) Harmony {
	minHue, maxHue := math.Inf(1), math.Inf(-1)
	for _, c := range colors {
		minHue = math.Min(minHue, c.HSL.H)
		maxHue = math.Max(maxHue, c.HSL.H)
	}

	hueRange := maxHue - minHue
	switch {
	case hueRange < monochromaticRange:
		return Monochromatic
	case hueRange < analogousRange:
		return Analogous
	case hasComplementaryPair(colors):
		return Complementary
	default:
		return Varied
	}
}

func hasComplementaryPair(colors []colour.Color) bool {
	for i := range colors {
		for j := i + 1; j < len(colors); j++ {
			diff := math.Abs(colors[i].HSL.H - colors[j].HSL.H)
			if diff > complementaryMin && diff < complementaryMax {
				return true
			}
		}
	}
	return false
}
