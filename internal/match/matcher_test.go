package match

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/jmylchreest/atelier/internal/catalog"
	"github.com/jmylchreest/atelier/internal/colour"
	"github.com/jmylchreest/atelier/internal/design"
)

func ceiling(v float64) *float64 { return &v }

func testCatalog() []catalog.Product {
	product := func(id, retailer string, price float64, style, color, pattern string) catalog.Product {
		return catalog.Product{
			ID:         id,
			RetailerID: retailer,
			Name:       id,
			Price:      price,
			Attributes: catalog.ProductAttributes{Style: style, Color: color, Pattern: pattern},
		}
	}
	return []catalog.Product{
		product("p1", "r1", 79.99, "casual", "blue", "floral"),
		product("p2", "r2", 129.99, "formal", "black", "solid"),
		product("p3", "r1", 24.99, "casual", "white", "striped"),
		product("p4", "r3", 199.99, "formal", "red", "solid"),
		product("p5", "r2", 59.99, "casual", "blue", "solid"),
		product("p6", "r3", 45.99, "casual", "white", "polka dot"),
		product("p7", "r1", 49.99, "casual", "red", "plaid"),
	}
}

func redSolidCasual() design.Attributes {
	return design.Attributes{
		Colors:  []colour.Color{colour.NewColor(colour.RGB{R: 255})},
		Pattern: "solid",
		Style:   "casual",
	}
}

func resultIDs(results []Result) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.Product.ID
	}
	return out
}

func TestFindMatchesRanking(t *testing.T) {
	results := FindMatches(redSolidCasual(), catalog.Criteria{}, testCatalog())

	// p5: 70/100/100 = 88; p4: 90/100/30 = 75; p7: 90/30/100 = 75;
	// p2: 70/100/30 = 67; p1, p3, p6: 70/30/100 = 67. Ties keep catalog order.
	want := []string{"p5", "p4", "p7", "p1", "p2", "p3", "p6"}
	if diff := cmp.Diff(want, resultIDs(results)); diff != "" {
		t.Errorf("FindMatches() order mismatch (-want +got):\n%s", diff)
	}

	for i := 1; i < len(results); i++ {
		if results[i-1].Scores.Overall < results[i].Scores.Overall {
			t.Fatalf("results not sorted at %d: %d < %d", i, results[i-1].Scores.Overall, results[i].Scores.Overall)
		}
	}
}

func TestFindMatchesFilters(t *testing.T) {
	tests := []struct {
		name     string
		criteria catalog.Criteria
		want     []string
	}{
		{
			name:     "price ceiling",
			criteria: catalog.Criteria{PriceRange: ceiling(50)},
			want:     []string{"p7", "p3", "p6"},
		},
		{
			name:     "retailer allow-list",
			criteria: catalog.Criteria{Retailers: []string{"r3"}},
			want:     []string{"p4", "p6"},
		},
		{
			name:     "both",
			criteria: catalog.Criteria{PriceRange: ceiling(100), Retailers: []string{"r1", "r2"}},
			want:     []string{"p5", "p7", "p1", "p3"},
		},
		{
			name:     "styles are ignored by the matcher",
			criteria: catalog.Criteria{Styles: []string{"formal"}, Retailers: []string{"r1"}},
			want:     []string{"p7", "p1", "p3"},
		},
		{
			name:     "nothing affordable",
			criteria: catalog.Criteria{PriceRange: ceiling(1)},
			want:     []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results := FindMatches(redSolidCasual(), tt.criteria, testCatalog())
			if diff := cmp.Diff(tt.want, resultIDs(results)); diff != "" {
				t.Errorf("FindMatches() mismatch (-want +got):\n%s", diff)
			}
			for _, r := range results {
				if tt.criteria.PriceRange != nil && r.Product.Price > *tt.criteria.PriceRange {
					t.Errorf("product %s exceeds price ceiling", r.Product.ID)
				}
			}
		})
	}
}

func TestFindMatchesStable(t *testing.T) {
	attrs := redSolidCasual()
	products := testCatalog()

	first := resultIDs(FindMatches(attrs, catalog.Criteria{}, products))
	for i := 0; i < 20; i++ {
		again := resultIDs(FindMatches(attrs, catalog.Criteria{}, products))
		if diff := cmp.Diff(first, again); diff != "" {
			t.Fatalf("order changed between calls (-first +again):\n%s", diff)
		}
	}

	// The input catalog is not reordered.
	if diff := cmp.Diff([]string{"p1", "p2", "p3", "p4", "p5", "p6", "p7"}, func() []string {
		ids := make([]string, len(products))
		for i, p := range products {
			ids[i] = p.ID
		}
		return ids
	}()); diff != "" {
		t.Errorf("catalog mutated (-want +got):\n%s", diff)
	}
}

func TestFindMatchesEmptyCatalog(t *testing.T) {
	if got := FindMatches(redSolidCasual(), catalog.Criteria{}, nil); len(got) != 0 {
		t.Errorf("expected no results, got %d", len(got))
	}
}
