package cmd

import (
	"github.com/spf13/cobra"

	"github.com/openplayground/catalog/internal/theme"
	"github.com/openplayground/catalog/internal/ui"
)

func newBrowseCmd(g *globalOptions) *cobra.Command {
	var (
		plain   bool
		noColor bool
	)

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse the catalog interactively",
		Long: `Open the search-as-you-type catalog browser.

Keys:
  type          search titles, categories and descriptions
  left/right    previous / next page
  tab           next category (shift+tab: previous)
  ctrl+s        cycle sort order
  up/down       move the selection
  ctrl+b        bookmark the selected project
  ctrl+t        toggle light/dark theme
  enter         show the selected project's link
  esc           clear the search, or quit when it is empty

When stdout is not a terminal the first page is printed as plain text.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(g, false)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			deps := ui.BrowserDeps{
				Searcher:    a.searcher,
				Theme:       theme.New(a.kv),
				DefaultSort: a.defaultSort(),
			}
			cfg := ui.NewConfig(cmd.OutOrStdout(),
				ui.WithForcePlain(plain),
				ui.WithNoColor(noColor),
			)
			return ui.RunBrowser(cmd.Context(), deps, cfg)
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "Print the first page as plain text")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colors")

	return cmd
}
