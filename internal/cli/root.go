// Package cli provides the command-line interface for atelier.
package cli

import (
	"fmt"
	"io"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/atelier/internal/config"
	"github.com/jmylchreest/atelier/internal/version"
)

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	verbose    bool
	configPath string
}

// NewRootCmd builds the atelier command tree.
func NewRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "atelier",
		Short: "Match outfit designs to retail products",
		Long: `atelier analyses an outfit design image, derives its dominant colours and
palette characteristics, and ranks catalog products by how well they match
the design's colour, pattern and style.

Run it once from the command line, or start the HTTP API with 'atelier serve'.`,
		Version:      version.Short(),
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default: ./atelier.yaml or /etc/atelier/atelier.yaml)")

	rootCmd.SetVersionTemplate(version.String() + "\n")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newPaletteCmd(opts))
	rootCmd.AddCommand(newAnalyzeCmd(opts))
	rootCmd.AddCommand(newMatchCmd(opts))
	rootCmd.AddCommand(newServeCmd(opts))

	return rootCmd
}

// loadConfig reads the config file and environment for a command.
func (o *globalOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// logger returns a CLI logger that is silent unless --verbose is set.
func (o *globalOptions) logger(stderr io.Writer) hclog.Logger {
	if o.verbose {
		return hclog.New(&hclog.LoggerOptions{
			Name:   "atelier",
			Output: stderr,
			Level:  hclog.Debug,
		})
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:   "atelier",
		Output: io.Discard,
		Level:  hclog.Off,
	})
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print detailed version information including build date, commit hash, and Go version.`,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}
