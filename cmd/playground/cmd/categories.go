package cmd

import (
	"github.com/spf13/cobra"

	"github.com/openplayground/catalog/internal/output"
)

func newCategoriesCmd(g *globalOptions) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "categories",
		Short: "List categories with project counts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(g, false)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			cats := a.holder.Current().Catalog.Categories()
			out := output.New(cmd.OutOrStdout())
			if jsonOutput {
				return out.JSON(cats)
			}
			out.Categories(cats)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}
