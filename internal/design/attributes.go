// Package design extracts matchable attributes from an outfit design image.
package design

import (
	"github.com/jmylchreest/atelier/internal/colour"
	"github.com/jmylchreest/atelier/internal/palette"
)

// Attributes is the result of analysing one design. It is a value; callers
// never update it in place.
type Attributes struct {
	Colors       []colour.Color     `json:"colors"`
	ColorPalette palette.Descriptor `json:"colorPalette"`
	Pattern      string             `json:"pattern"`
	Style        string             `json:"style"`
	GarmentType  string             `json:"garmentType"`
}

// PrimaryHex returns the hex of the most dominant colour, falling back to
// the palette descriptor's primary colour when no colours are present.
func (a Attributes) PrimaryHex() string {
	if len(a.Colors) > 0 {
		return a.Colors[0].Hex
	}
	return a.ColorPalette.PrimaryColor
}

// ColorAnalysis is the colour-only view of a design.
type ColorAnalysis struct {
	DominantColors []colour.Color     `json:"dominantColors"`
	ColorPalette   palette.Descriptor `json:"colorPalette"`
}
