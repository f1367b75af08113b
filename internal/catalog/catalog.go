// Package catalog defines retail products and the providers that supply
// them to the matcher.
package catalog

import (
	"context"
	"strings"

	"github.com/samber/lo"
)

// ProductAttributes are the free-text descriptors a retailer publishes.
type ProductAttributes struct {
	Style    string   `json:"style,omitempty" yaml:"style,omitempty" bson:"style,omitempty"`
	Color    string   `json:"color,omitempty" yaml:"color,omitempty" bson:"color,omitempty"`
	Pattern  string   `json:"pattern,omitempty" yaml:"pattern,omitempty" bson:"pattern,omitempty"`
	Material string   `json:"material,omitempty" yaml:"material,omitempty" bson:"material,omitempty"`
	Size     []string `json:"size,omitempty" yaml:"size,omitempty" bson:"size,omitempty"`
}

// Product is a catalog item. The matcher only reads it.
type Product struct {
	ID          string            `json:"id" yaml:"id" bson:"id"`
	RetailerID  string            `json:"retailerId" yaml:"retailerId" bson:"retailerId"`
	Name        string            `json:"name" yaml:"name" bson:"name"`
	Description string            `json:"description,omitempty" yaml:"description,omitempty" bson:"description,omitempty"`
	Price       float64           `json:"price" yaml:"price" bson:"price"`
	Images      []string          `json:"images,omitempty" yaml:"images,omitempty" bson:"images,omitempty"`
	URL         string            `json:"url,omitempty" yaml:"url,omitempty" bson:"url,omitempty"`
	Attributes  ProductAttributes `json:"attributes" yaml:"attributes" bson:"attributes"`
}

// Criteria narrows the product search space. A nil PriceRange and empty
// Retailers/Styles mean no filtering on that field.
type Criteria struct {
	// PriceRange is a price ceiling (inclusive).
	PriceRange *float64 `json:"priceRange,omitempty"`
	Retailers  []string `json:"retailers,omitempty"`
	// Styles is only honoured by providers, as an upstream narrowing hint.
	Styles []string `json:"styles,omitempty"`
}

// WithinPrice reports whether p satisfies the price ceiling.
func (c Criteria) WithinPrice(p Product) bool {
	return c.PriceRange == nil || p.Price <= *c.PriceRange
}

// AllowsRetailer reports whether p's retailer is in the allow-list.
func (c Criteria) AllowsRetailer(p Product) bool {
	return len(c.Retailers) == 0 || lo.Contains(c.Retailers, p.RetailerID)
}

// AllowsStyle reports whether p's style is one of Styles, ignoring case.
func (c Criteria) AllowsStyle(p Product) bool {
	if len(c.Styles) == 0 {
		return true
	}
	return lo.ContainsBy(c.Styles, func(s string) bool {
		return strings.EqualFold(s, p.Attributes.Style)
	})
}

// Provider supplies candidate products for a set of criteria. Providers may
// pre-filter; the matcher re-applies price and retailer filters.
type Provider interface {
	Products(ctx context.Context, criteria Criteria) ([]Product, error)
}

// Filter applies every criteria field to products, preserving order.
func Filter(products []Product, criteria Criteria) []Product {
	return lo.Filter(products, func(p Product, _ int) bool {
		return criteria.WithinPrice(p) && criteria.AllowsRetailer(p) && criteria.AllowsStyle(p)
	})
}

// Static is a Provider over a fixed in-memory product list.
type Static struct {
	products []Product
}

// NewStatic returns a provider serving a copy of products.
func NewStatic(products []Product) *Static {
	return &Static{products: append([]Product(nil), products...)}
}

// Products implements Provider.
func (s *Static) Products(_ context.Context, criteria Criteria) ([]Product, error) {
	return Filter(s.products, criteria), nil
}
