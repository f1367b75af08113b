package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/jmylchreest/atelier/internal/catalog"
	"github.com/jmylchreest/atelier/internal/match"
)

func TestNewTable(t *testing.T) {
	table := NewTable([]string{"PRODUCT", "PRICE", "OVERALL"})

	if table == nil {
		t.Fatal("NewTable returned nil")
	}
	if len(table.headers) != 3 {
		t.Errorf("Expected 3 headers, got %d", len(table.headers))
	}
	if table.padding != 2 {
		t.Errorf("Expected padding of 2, got %d", table.padding)
	}
}

func TestTableAddRow(t *testing.T) {
	table := NewTable([]string{"PRODUCT", "PRICE"})

	table.AddRow([]string{"p1", "79.99"})
	if len(table.rows) != 1 {
		t.Errorf("Expected 1 row, got %d", len(table.rows))
	}

	// Short rows are padded.
	table.AddRow([]string{"p2"})
	if len(table.rows[1]) != 2 || table.rows[1][1] != "" {
		t.Errorf("Expected padded row, got %q", table.rows[1])
	}

	// Long rows are truncated.
	table.AddRow([]string{"p3", "24.99", "extra"})
	if len(table.rows[2]) != 2 {
		t.Errorf("Expected row to be truncated to 2 columns, got %d", len(table.rows[2]))
	}
}

func TestTableRender(t *testing.T) {
	table := NewTable([]string{"PRODUCT", "RETAILER", "NAME"})
	table.AddRow([]string{"p1", "r1", "Floral Summer Dress"})
	table.AddRow([]string{"p2", "r2", "Black Blazer"})

	output := table.Render()

	for _, want := range []string{"PRODUCT", "RETAILER", "NAME", "p1", "Floral Summer Dress", "Black Blazer"} {
		if !strings.Contains(output, want) {
			t.Errorf("Output should contain %q", want)
		}
	}

	lines := strings.Split(output, "\n")
	if len(lines) < 4 {
		t.Fatalf("Expected at least 4 lines, got %d", len(lines))
	}
	if !strings.Contains(lines[1], "---") {
		t.Errorf("Expected separator line with dashes, got: %q", lines[1])
	}
	if len(lines[1]) != len(lines[0]) {
		t.Errorf("Separator length (%d) should match header length (%d)", len(lines[1]), len(lines[0]))
	}
}

func TestTableRenderEmpty(t *testing.T) {
	table := &Table{padding: 2}
	if output := table.Render(); output != "" {
		t.Errorf("Expected empty string for empty table, got: %q", output)
	}

	output := NewTable([]string{"PRODUCT", "PRICE"}).Render()
	if !strings.Contains(output, "PRODUCT") {
		t.Error("Output should contain headers even without rows")
	}
}

func TestTableAlignRight(t *testing.T) {
	table := NewTable([]string{"PRODUCT", "PRICE"})
	table.SetColumnAlignRight(1)
	table.AddRow([]string{"p1", "5.00"})
	table.AddRow([]string{"p2", "129.99"})

	lines := strings.Split(table.Render(), "\n")

	want := []string{
		"PRODUCT   PRICE",
		"-------  ------",
		"p1         5.00",
		"p2       129.99",
	}
	for i, w := range want {
		if lines[i] != w {
			t.Errorf("line %d = %q, want %q", i, lines[i], w)
		}
	}
}

func TestTableWrapping(t *testing.T) {
	table := NewTable([]string{"ID", "NAME"})
	table.SetColumnMaxWidth(1, 10)
	table.AddRow([]string{"p1", "Floral Summer Dress"})

	lines := strings.Split(strings.TrimSpace(table.Render()), "\n")
	if len(lines) != 5 {
		t.Fatalf("Expected header, separator and 3 wrapped lines, got %d: %q", len(lines), lines)
	}
	if lines[2] != "p1  Floral" || strings.TrimSpace(lines[3]) != "Summer" || strings.TrimSpace(lines[4]) != "Dress" {
		t.Errorf("unexpected wrapping: %q", lines[2:])
	}
}

func TestPadding(t *testing.T) {
	tests := []struct {
		input string
		width int
		right string
		left  string
	}{
		{"test", 10, "test      ", "      test"},
		{"hello", 5, "hello", "hello"},
		{"world", 3, "world", "world"},
		{"", 3, "   ", "   "},
	}

	for _, tt := range tests {
		if got := padRight(tt.input, tt.width); got != tt.right {
			t.Errorf("padRight(%q, %d) = %q, want %q", tt.input, tt.width, got, tt.right)
		}
		if got := padLeft(tt.input, tt.width); got != tt.left {
			t.Errorf("padLeft(%q, %d) = %q, want %q", tt.input, tt.width, got, tt.left)
		}
	}
}

func sampleResults() []match.Result {
	return []match.Result{
		{
			Product: catalog.Product{ID: "p4", RetailerID: "r3", Name: "Red Evening Gown", Price: 199.99},
			Scores:  match.Score{Overall: 75, Color: 90, Pattern: 100, Style: 30},
		},
		{
			Product: catalog.Product{ID: "p1", RetailerID: "r1", Name: "Floral Summer Dress", Price: 79.99},
			Scores:  match.Score{Overall: 67, Color: 70, Pattern: 30, Style: 100},
		},
	}
}

func TestWriteMatchesTable(t *testing.T) {
	var buf bytes.Buffer
	if err := writeMatches(&buf, sampleResults(), "table"); err != nil {
		t.Fatalf("writeMatches() error = %v", err)
	}

	lines := strings.Split(buf.String(), "\n")
	if !strings.HasPrefix(lines[0], "#  PRODUCT") {
		t.Errorf("unexpected header: %q", lines[0])
	}
	if !strings.Contains(lines[2], "p4") || !strings.Contains(lines[2], "199.99") || !strings.Contains(lines[2], "Red Evening Gown") {
		t.Errorf("unexpected first row: %q", lines[2])
	}
	if !strings.HasPrefix(lines[3], "2  p1") {
		t.Errorf("unexpected second row: %q", lines[3])
	}
}

func TestWriteMatchesJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := writeMatches(&buf, sampleResults(), "json"); err != nil {
		t.Fatalf("writeMatches() error = %v", err)
	}

	var decoded []match.Result
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if len(decoded) != 2 || decoded[0].Product.ID != "p4" || decoded[0].Scores.Overall != 75 {
		t.Errorf("unexpected decoded results: %+v", decoded)
	}
}

func TestWriteMatchesEmptyAndInvalid(t *testing.T) {
	var buf bytes.Buffer
	if err := writeMatches(&buf, nil, "table"); err != nil {
		t.Fatalf("writeMatches() error = %v", err)
	}
	if !strings.Contains(buf.String(), "No matching products") {
		t.Errorf("unexpected output for no results: %q", buf.String())
	}

	if err := writeMatches(&buf, nil, "xml"); err == nil {
		t.Error("writeMatches() expected error for unknown format")
	}
}

func TestDefaultMatchFormat(t *testing.T) {
	if got := defaultMatchFormat(&bytes.Buffer{}); got != "json" {
		t.Errorf("defaultMatchFormat(buffer) = %s, want json", got)
	}
}
