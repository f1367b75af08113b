package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/atelier/internal/colour"
	"github.com/jmylchreest/atelier/internal/design"
	imageloader "github.com/jmylchreest/atelier/internal/image"
	"github.com/jmylchreest/atelier/internal/palette"
)

type paletteOptions struct {
	extraction extractionOptions
	format     string
	preview    bool
}

func newPaletteCmd(global *globalOptions) *cobra.Command {
	opts := &paletteOptions{}

	cmd := &cobra.Command{
		Use:   "palette <image>",
		Short: "Extract the dominant colours of a design",
		Long: `Extract the dominant colours of a design image and describe its palette.

The palette command analyses an image (a local file or an HTTP(S) URL) and
prints its dominant colours in descending order of prominence, followed by
the palette's temperature, brightness, saturation and harmony.

Supported image formats: JPEG, PNG, GIF, WebP

Examples:
  # Extract 5 colours (default) from a design
  atelier palette design.png

  # Extract 8 colours with the prominentcolor algorithm
  atelier palette -c 8 -a prominent design.jpg

  # Show colour swatches in the terminal (requires 24-bit colour)
  atelier palette --preview design.png

  # Output as JSON
  atelier palette --format json https://example.com/design.webp`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPalette(cmd, global, opts, args[0])
		},
	}

	opts.extraction.register(cmd.Flags(), false)
	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "output format (text, json)")
	cmd.Flags().BoolVar(&opts.preview, "preview", false, "show colour swatches in text output")

	return cmd
}

func runPalette(cmd *cobra.Command, global *globalOptions, opts *paletteOptions, ref string) error {
	if err := imageloader.ValidateImageRef(ref); err != nil {
		return fmt.Errorf("invalid image: %w", err)
	}

	extractorConfig := opts.extraction.config()
	if err := extractorConfig.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	cfg, err := global.loadConfig()
	if err != nil {
		return err
	}
	logger := global.logger(cmd.ErrOrStderr())

	extractor, err := colour.NewExtractor(extractorConfig.Algorithm)
	if err != nil {
		return fmt.Errorf("failed to create extractor: %w", err)
	}

	analyzer := design.NewAnalyzer(newLoader(cfg, false), extractor,
		design.WithColourCount(extractorConfig.ColorCount),
		design.WithLogger(logger))

	analysis, err := analyzer.ColorAnalysis(cmd.Context(), ref)
	if err != nil {
		return err
	}

	return writePalette(cmd.OutOrStdout(), analysis, opts.format, opts.preview)
}

func writePalette(w io.Writer, analysis *design.ColorAnalysis, format string, preview bool) error {
	switch format {
	case "json":
		return writeJSON(w, analysis)
	case "text", "":
		_, err := io.WriteString(w, formatPaletteText(analysis, preview))
		return err
	default:
		return fmt.Errorf("unsupported format: %s (supported: text, json)", format)
	}
}

// formatPaletteText renders one colour per line and a descriptor summary.
// With preview set each line is prefixed by an ANSI swatch of the colour.
func formatPaletteText(analysis *design.ColorAnalysis, preview bool) string {
	var b strings.Builder
	for i, c := range analysis.DominantColors {
		if preview {
			b.WriteString(colour.SwatchWithText(c.RGB, strconv.Itoa(i+1), 6))
			b.WriteString(" ")
		} else {
			fmt.Fprintf(&b, "%2d", i+1)
		}
		fmt.Fprintf(&b, "  %s  %-20s %s\n", c.Hex, c.RGB.String(), c.HSL.String())
	}
	b.WriteString("\n")
	b.WriteString(formatDescriptor(analysis.ColorPalette))
	return b.String()
}

func formatDescriptor(d palette.Descriptor) string {
	return fmt.Sprintf("primary: %s  temperature: %s  brightness: %s  saturation: %s  harmony: %s\n",
		d.PrimaryColor, d.Temperature, d.Brightness, d.Saturation, d.Harmony)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
