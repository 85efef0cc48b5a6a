package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/openplayground/catalog/internal/mcp"
)

func newMCPCmd(g *globalOptions) *cobra.Command {
	var noWatch bool

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Run the MCP server on stdio",
		Long: `Run a Model Context Protocol server on stdin/stdout.

Tools: search_projects, list_categories, toggle_bookmark, list_bookmarks.
Resources: catalog://projects, catalog://stats.

stdout carries JSON-RPC only; logs go to ~/.openplayground/logs/server.log.`,
		Example: `  # Claude Desktop / editor configuration
  {"command": "playground", "args": ["mcp", "--catalog", "/path/to/projects.json"]}`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMCP(cmd.Context(), g, noWatch)
		},
	}

	cmd.Flags().BoolVar(&noWatch, "no-watch", false, "Do not reload the catalog on change")

	return cmd
}

func runMCP(ctx context.Context, g *globalOptions, noWatch bool) error {
	a, err := openApp(g, true)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	srv, err := mcp.NewServer(a.searcher, a.defaultSort())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	eg, gctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		// The client closing stdin ends the session, and the watcher with it.
		defer cancel()
		return srv.Serve(gctx)
	})
	if a.cfg.Catalog.Watch && !noWatch {
		eg.Go(func() error {
			return watchCatalog(gctx, a)
		})
	}
	return eg.Wait()
}
