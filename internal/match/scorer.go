// Package match scores catalog products against a design's attributes and
// ranks them.
//
// Colour, pattern and style similarity are string heuristics over fixed
// synonym tables. The colour score in particular is not a perceptual colour
// distance: it only checks whether the product's colour text names the
// design's primary colour.
package match

import (
	"math"
	"strings"

	"github.com/jmylchreest/atelier/internal/catalog"
	"github.com/jmylchreest/atelier/internal/design"
)

// Sub-score values.
const (
	colorExact   = 90
	colorPartial = 70
	colorDefault = 50

	textMissing  = 50
	textEqual    = 100
	textCategory = 90
	textNoMatch  = 30
)

// Weights of the overall score.
const (
	colorWeight   = 0.4
	patternWeight = 0.3
	styleWeight   = 0.3
)

// Score holds per-axis and overall similarity, each in [0,100].
type Score struct {
	Overall int `json:"overall"`
	Color   int `json:"color"`
	Pattern int `json:"pattern"`
	Style   int `json:"style"`
}

// entry is a canonical key with its synonyms.
type entry struct {
	key      string
	synonyms []string
}

// colorNames maps canonical hex values to colour-name synonyms. Order is
// significant: the first matching entry wins.
var colorNames = []entry{
	{"#ff0000", []string{"red", "crimson", "scarlet"}},
	{"#00ff00", []string{"green", "lime", "emerald"}},
	{"#0000ff", []string{"blue", "navy", "azure"}},
	{"#ffff00", []string{"yellow", "gold", "mustard"}},
	{"#ff00ff", []string{"purple", "magenta", "fuchsia"}},
	{"#00ffff", []string{"cyan", "turquoise", "aqua"}},
	{"#000000", []string{"black", "onyx", "ebony"}},
	{"#ffffff", []string{"white", "ivory", "snow"}},
	{"#c0c0c0", []string{"gray", "silver", "slate"}},
	{"#ffa500", []string{"orange", "amber", "tangerine"}},
}

var patternCategories = []entry{
	{"solid", []string{"solid", "plain", "block"}},
	{"striped", []string{"striped", "stripes", "pinstripe", "lines"}},
	{"floral", []string{"floral", "flower", "botanical", "roses"}},
	{"plaid", []string{"plaid", "tartan", "check", "gingham"}},
	{"polka dot", []string{"polka dot", "dots", "spotted"}},
	{"geometric", []string{"geometric", "shapes", "triangles", "squares"}},
}

var styleCategories = []entry{
	{"casual", []string{"casual", "everyday", "relaxed", "laid-back"}},
	{"formal", []string{"formal", "business", "professional", "elegant"}},
	{"athletic", []string{"athletic", "sporty", "active", "workout"}},
	{"bohemian", []string{"bohemian", "boho", "hippie", "free-spirited"}},
	{"vintage", []string{"vintage", "retro", "classic", "old-school"}},
	{"minimalist", []string{"minimalist", "simple", "clean", "basic"}},
}

// ScoreProduct computes the similarity between a design and a product.
func ScoreProduct(attrs design.Attributes, product catalog.Product) Score {
	c := ColorScore(attrs.PrimaryHex(), product.Attributes.Color)
	p := PatternScore(attrs.Pattern, product.Attributes.Pattern)
	s := StyleScore(attrs.Style, product.Attributes.Style)
	return Score{
		Overall: Overall(c, p, s),
		Color:   c,
		Pattern: p,
		Style:   s,
	}
}

// Overall combines sub-scores with the fixed 0.4/0.3/0.3 weights.
func Overall(color, pattern, style int) int {
	v := colorWeight*float64(color) + patternWeight*float64(pattern) + styleWeight*float64(style)
	return clamp(int(math.Round(v)))
}

// ColorScore rates how well a product's colour text names primaryHex:
// 90 when it contains a synonym of the primary's table entry, 70 when it
// contains any known colour name, 50 otherwise.
func ColorScore(primaryHex, productColor string) int {
	primary := strings.ToLower(strings.TrimSpace(primaryHex))
	text := strings.ToLower(productColor)

	if primary != "" {
		for _, e := range colorNames {
			if !strings.Contains(primary, e.key) && !strings.Contains(e.key, primary) {
				continue
			}
			if containsAny(text, e.synonyms) {
				return colorExact
			}
		}
	}

	for _, e := range colorNames {
		if containsAny(text, e.synonyms) {
			return colorPartial
		}
	}

	return colorDefault
}

// PatternScore compares two pattern descriptions.
func PatternScore(designPattern, productPattern string) int {
	return textScore(designPattern, productPattern, patternCategories)
}

// StyleScore compares two style descriptions.
func StyleScore(designStyle, productStyle string) int {
	return textScore(designStyle, productStyle, styleCategories)
}

// textScore is 50 when either side is missing, 100 when equal ignoring
// case, 90 when both mention a synonym of the same category and 30
// otherwise.
func textScore(a, b string, categories []entry) int {
	if a == "" || b == "" {
		return textMissing
	}

	a, b = strings.ToLower(a), strings.ToLower(b)
	if a == b {
		return textEqual
	}

	for _, c := range categories {
		if containsAny(a, c.synonyms) && containsAny(b, c.synonyms) {
			return textCategory
		}
	}

	return textNoMatch
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func clamp(v int) int {
	return max(0, min(100, v))
}
