package cmd

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/openplayground/catalog/internal/output"
	"github.com/openplayground/catalog/internal/shell"
	"github.com/openplayground/catalog/internal/telemetry"
	"github.com/openplayground/catalog/internal/ui"
)

// searchOptions holds CLI flags for search.
type searchOptions struct {
	category   string
	sort       string
	page       int
	jsonOutput bool
}

func newSearchCmd(g *globalOptions) *cobra.Command {
	var opts searchOptions

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search the catalog",
		Long: `Search project titles, categories and descriptions.

Matching is a case-insensitive substring match. Without a query every
project is listed, one page at a time.`,
		Example: `  playground search weather
  playground search game --category games --sort az
  playground search --page 2
  playground search "todo list" --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd.Context(), cmd, g, strings.Join(args, " "), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.category, "category", "c", "", "Filter by category key (see 'playground categories')")
	cmd.Flags().StringVarP(&opts.sort, "sort", "s", "", "Sort: default, az, za, newest, relevance")
	cmd.Flags().IntVarP(&opts.page, "page", "p", 1, "Page number")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output the rendered view as JSON")

	return cmd
}

func runSearch(ctx context.Context, cmd *cobra.Command, g *globalOptions, query string, opts searchOptions) error {
	a, err := openApp(g, false)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	state, err := shell.ParseState(query, opts.category, opts.sort, strconv.Itoa(opts.page), a.defaultSort())
	if err != nil {
		return err
	}

	slog.Info("search_started", slog.String("query", query), slog.String("category", state.Category))
	view, err := a.searcher.Search(ctx, state, telemetry.SourceCLI)
	if err != nil {
		return err
	}

	if opts.jsonOutput {
		return output.New(cmd.OutOrStdout()).JSON(view)
	}
	return ui.NewPlainRenderer(cmd.OutOrStdout()).Render(view)
}
