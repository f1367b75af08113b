package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	imageloader "github.com/jmylchreest/atelier/internal/image"
)

func newAnalyzeCmd(global *globalOptions) *cobra.Command {
	opts := &extractionOptions{}

	cmd := &cobra.Command{
		Use:   "analyze <image>",
		Short: "Extract matchable attributes from a design",
		Long: `Analyse a design image and print its attributes as JSON: dominant colours,
palette descriptor, pattern, style and garment type.

Pattern, style and garment type come from the trait classifier. The static
classifier always reports a solid casual dress; the genai classifier asks a
Gemini model (requires GOOGLE_API_KEY or genai.api_key).

Examples:
  atelier analyze design.png
  atelier analyze --classifier genai https://example.com/design.jpg > attributes.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref := args[0]
			if err := imageloader.ValidateImageRef(ref); err != nil {
				return fmt.Errorf("invalid image: %w", err)
			}

			cfg, err := global.loadConfig()
			if err != nil {
				return err
			}
			opts.apply(cmd.Flags(), cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}

			analyzer, err := newAnalyzer(cmd.Context(), cfg, false, global.logger(cmd.ErrOrStderr()))
			if err != nil {
				return err
			}

			attrs, err := analyzer.Analyze(cmd.Context(), ref)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), attrs)
		},
	}

	opts.register(cmd.Flags(), true)

	return cmd
}
