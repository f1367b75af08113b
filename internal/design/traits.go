package design

import (
	"context"
	"image"
)

// Traits are the non-colour attributes of a design.
type Traits struct {
	Pattern     string `json:"pattern"`
	Style       string `json:"style"`
	GarmentType string `json:"garmentType"`
}

// DefaultTraits are reported when no trait classifier is configured.
var DefaultTraits = Traits{
	Pattern:     "solid",
	Style:       "casual",
	GarmentType: "dress",
}

// TraitClassifier guesses pattern, style and garment type for a design.
type TraitClassifier interface {
	ClassifyTraits(ctx context.Context, img image.Image) (Traits, error)
}

// StaticClassifier always returns the same traits.
type StaticClassifier struct {
	Traits Traits
}

// NewStaticClassifier returns a classifier reporting DefaultTraits.
func NewStaticClassifier() *StaticClassifier {
	return &StaticClassifier{Traits: DefaultTraits}
}

// ClassifyTraits implements TraitClassifier.
func (s *StaticClassifier) ClassifyTraits(context.Context, image.Image) (Traits, error) {
	return s.Traits, nil
}
