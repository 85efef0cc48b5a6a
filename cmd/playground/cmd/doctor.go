package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/openplayground/catalog/internal/output"
	"github.com/openplayground/catalog/internal/preflight"
)

func newDoctorCmd(g *globalOptions) *cobra.Command {
	var (
		verbose    bool
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the configuration, catalog and store",
		Long: `Run diagnostics to ensure playground can operate correctly.

Checks:
  - Catalog file exists and parses
  - Bookmark/theme store opens and accepts writes
  - Disk space at the store location (10MB minimum)
  - File descriptor limits (256 recommended)
  - Log directory is writable

The command exits non-zero when a required check fails.`,
		Example: `  playground doctor
  playground doctor --verbose
  playground doctor --json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(g)
			if err != nil {
				return err
			}

			checker := preflight.New(
				preflight.WithOutput(cmd.OutOrStdout()),
				preflight.WithVerbose(verbose),
			)
			results := checker.RunAll(cmd.Context(), cfg)

			if jsonOutput {
				if err := output.New(cmd.OutOrStdout()).JSON(results); err != nil {
					return err
				}
			} else {
				checker.PrintResults(results)
			}

			if checker.HasCriticalFailures(results) {
				return errors.New("preflight checks failed")
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show detailed diagnostic info")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}
