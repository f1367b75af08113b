package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/jmylchreest/atelier/internal/catalog"
	"github.com/jmylchreest/atelier/internal/config"
	"github.com/jmylchreest/atelier/internal/design"
	"github.com/jmylchreest/atelier/internal/match"
	"github.com/jmylchreest/atelier/internal/service"
)

type matchOptions struct {
	extraction     extractionOptions
	attributesPath string
	catalogPath    string
	maxPrice       float64
	retailers      []string
	styles         []string
	format         string
}

func newMatchCmd(global *globalOptions) *cobra.Command {
	opts := &matchOptions{}

	cmd := &cobra.Command{
		Use:   "match [image]",
		Short: "Rank catalog products against a design",
		Long: `Rank catalog products by how well they match a design.

The design is either an image (analysed on the fly) or a JSON attributes file
produced by 'atelier analyze'. Products come from the catalog file given with
--catalog, or from the catalog configured in the config file.

Each product is scored on colour, pattern and style (0-100) and the overall
score weights them 0.4, 0.3 and 0.3. Results are printed best first.

Examples:
  # Match a design image against a YAML catalog
  atelier match design.png --catalog catalog.yaml

  # Reuse analysed attributes, under 100, from two retailers
  atelier match --attributes attributes.json --catalog catalog.yaml \
    --max-price 100 --retailer r1 --retailer r2

  # Machine-readable output
  atelier match design.png --catalog catalog.yaml --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMatch(cmd, global, opts, args)
		},
	}

	fs := cmd.Flags()
	opts.extraction.register(fs, true)
	fs.StringVar(&opts.attributesPath, "attributes", "", "design attributes JSON file (instead of an image)")
	fs.StringVar(&opts.catalogPath, "catalog", "", "catalog file (YAML or JSON)")
	fs.Float64Var(&opts.maxPrice, "max-price", 0, "only include products at or below this price")
	fs.StringArrayVar(&opts.retailers, "retailer", nil, "only include products from this retailer (repeatable)")
	fs.StringArrayVar(&opts.styles, "style", nil, "ask the catalog for products of this style (repeatable)")
	fs.StringVarP(&opts.format, "format", "f", "", "output format (table, json; default: table on a terminal, json otherwise)")

	return cmd
}

func runMatch(cmd *cobra.Command, global *globalOptions, opts *matchOptions, args []string) error {
	if len(args) == 0 && opts.attributesPath == "" {
		return fmt.Errorf("either an image or --attributes is required")
	}

	cfg, err := global.loadConfig()
	if err != nil {
		return err
	}
	opts.extraction.apply(cmd.Flags(), cfg)
	if opts.catalogPath != "" {
		cfg.Catalog.Source = config.CatalogSourceFile
		cfg.Catalog.Path = opts.catalogPath
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	req := service.MatchRequest{
		Criteria: catalog.Criteria{
			Retailers: opts.retailers,
			Styles:    opts.styles,
		},
	}
	if cmd.Flags().Changed("max-price") {
		ceiling := opts.maxPrice
		req.Criteria.PriceRange = &ceiling
	}
	if len(args) == 1 {
		req.ImageRef = args[0]
	}
	if opts.attributesPath != "" {
		attrs, err := loadAttributes(opts.attributesPath)
		if err != nil {
			return err
		}
		req.Attributes = attrs
	}

	ctx := cmd.Context()
	logger := global.logger(cmd.ErrOrStderr())

	svc, release, err := newService(ctx, cfg, false, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := release(ctx); err != nil {
			logger.Warn("failed to release resources", "error", err)
		}
	}()

	results, err := svc.FindMatches(ctx, req)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	format := opts.format
	if format == "" {
		format = defaultMatchFormat(out)
	}
	return writeMatches(out, results, format)
}

func loadAttributes(path string) (*design.Attributes, error) {
	data, err := os.ReadFile(path) // #nosec G304 - User-specified attributes file, intended to be read
	if err != nil {
		return nil, fmt.Errorf("failed to read attributes file: %w", err)
	}
	var attrs design.Attributes
	if err := json.Unmarshal(data, &attrs); err != nil {
		return nil, fmt.Errorf("failed to parse attributes file: %w", err)
	}
	return &attrs, nil
}

// defaultMatchFormat is table for a terminal and json for pipes and files.
func defaultMatchFormat(w io.Writer) string {
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return "table"
	}
	return "json"
}

func writeMatches(w io.Writer, results []match.Result, format string) error {
	switch format {
	case "json":
		return writeJSON(w, results)
	case "table":
		if len(results) == 0 {
			_, err := fmt.Fprintln(w, "No matching products.")
			return err
		}
		_, err := io.WriteString(w, matchTable(results).Render())
		return err
	default:
		return fmt.Errorf("unsupported format: %s (supported: table, json)", format)
	}
}

func matchTable(results []match.Result) *Table {
	table := NewTable([]string{"#", "PRODUCT", "RETAILER", "PRICE", "OVERALL", "COLOUR", "PATTERN", "STYLE", "NAME"})
	table.SetColumnMaxWidth(8, 40)
	for _, col := range []int{0, 3, 4, 5, 6, 7} {
		table.SetColumnAlignRight(col)
	}

	for i, r := range results {
		table.AddRow([]string{
			strconv.Itoa(i + 1),
			r.Product.ID,
			r.Product.RetailerID,
			strconv.FormatFloat(r.Product.Price, 'f', 2, 64),
			strconv.Itoa(r.Scores.Overall),
			strconv.Itoa(r.Scores.Color),
			strconv.Itoa(r.Scores.Pattern),
			strconv.Itoa(r.Scores.Style),
			r.Product.Name,
		})
	}
	return table
}
