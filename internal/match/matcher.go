package match

import (
	"slices"

	"github.com/samber/lo"

	"github.com/jmylchreest/atelier/internal/catalog"
	"github.com/jmylchreest/atelier/internal/design"
)

// Result pairs a product with its scores.
type Result struct {
	Product catalog.Product `json:"product"`
	Scores  Score           `json:"scores"`
}

// FindMatches filters products by the price ceiling and retailer allow-list
// in criteria, scores the survivors and returns them by descending overall
// score. Ties keep catalog order. Styles in criteria are not applied here.
func FindMatches(attrs design.Attributes, criteria catalog.Criteria, products []catalog.Product) []Result {
	candidates := lo.Filter(products, func(p catalog.Product, _ int) bool {
		return criteria.WithinPrice(p) && criteria.AllowsRetailer(p)
	})

	results := lo.Map(candidates, func(p catalog.Product, _ int) Result {
		return Result{Product: p, Scores: ScoreProduct(attrs, p)}
	})

	slices.SortStableFunc(results, func(a, b Result) int {
		return b.Scores.Overall - a.Scores.Overall
	})

	return results
}
