package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openplayground/catalog/internal/bookmarks"
	perrors "github.com/openplayground/catalog/internal/errors"
	"github.com/openplayground/catalog/internal/output"
)

func newBookmarkCmd(g *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "bookmark",
		Aliases: []string{"bookmarks"},
		Short:   "Manage bookmarked projects",
		Long: `Bookmarks are shared by every playground surface: the terminal browser,
the HTTP API and the MCP server all read the same store.`,
	}

	cmd.AddCommand(newBookmarkListCmd(g))
	cmd.AddCommand(newBookmarkToggleCmd(g))

	return cmd
}

func newBookmarkListCmd(g *globalOptions) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List bookmarked projects",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(g, false)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			list, err := a.searcher.Bookmarks(cmd.Context()).List()
			if err != nil {
				return err
			}
			out := output.New(cmd.OutOrStdout())
			if jsonOutput {
				if list == nil {
					list = []bookmarks.Bookmark{}
				}
				return out.JSON(list)
			}
			out.Bookmarks(list)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

func newBookmarkToggleCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "toggle <id>",
		Short:   "Add or remove a bookmark",
		Example: `  playground bookmark toggle "Weather App"`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(g, false)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			id := args[0]
			if _, ok := a.holder.Lookup(id); !ok {
				return perrors.New(perrors.ErrCodeProjectNotFound, fmt.Sprintf("no project with id %q", id), nil).
					WithSuggestion("Run 'playground search --json' to see project ids.")
			}

			added, err := a.searcher.Bookmarks(cmd.Context()).Toggle(id)
			if err != nil {
				return err
			}
			output.New(cmd.OutOrStdout()).Successf("%s: %s", bookmarks.Message(added), id)
			return nil
		},
	}
}
