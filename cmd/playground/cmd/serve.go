package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	httpapi "github.com/openplayground/catalog/internal/http"
	"github.com/openplayground/catalog/internal/output"
	"github.com/openplayground/catalog/internal/watcher"
)

// serveOptions holds CLI flags for serve.
type serveOptions struct {
	host    string
	port    int
	noWatch bool
}

func newServeCmd(g *globalOptions) *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the catalog over HTTP",
		Long: `Serve the catalog JSON API, Prometheus metrics and a health check.

The catalog file is watched and reloaded on change unless catalog.watch is
false or --no-watch is given. A catalog that fails to parse is logged and
the previous one keeps serving.`,
		Example: `  playground serve
  playground serve --port 9000
  curl 'http://127.0.0.1:8787/api/v1/projects?q=game&sort=az'`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), cmd, g, opts)
		},
	}

	cmd.Flags().StringVar(&opts.host, "host", "", "Listen host (overrides server.host)")
	cmd.Flags().IntVar(&opts.port, "port", 0, "Listen port (overrides server.port)")
	cmd.Flags().BoolVar(&opts.noWatch, "no-watch", false, "Do not reload the catalog on change")

	return cmd
}

func runServe(ctx context.Context, cmd *cobra.Command, g *globalOptions, opts serveOptions) error {
	a, err := openApp(g, false)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	cfg := a.cfg
	if opts.host != "" {
		cfg.Server.Host = opts.host
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port = opts.port
	}

	srv, err := httpapi.NewServer(a.searcher, &httpapi.Config{
		Host:        cfg.Server.Host,
		Port:        cfg.Server.Port,
		RateLimit:   cfg.Server.RateLimit,
		Burst:       cfg.Server.Burst,
		DefaultSort: a.defaultSort(),
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := output.New(cmd.OutOrStdout())
	out.Statusf("🚀", "Serving %d projects on http://%s", a.holder.Current().Catalog.Len(), srv.Addr())
	out.Field("Catalog", a.holder.Path())
	out.Field("Storage", cfg.Storage.Path)

	eg, gctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return srv.Run(gctx)
	})
	if cfg.Catalog.Watch && !opts.noWatch {
		eg.Go(func() error {
			return watchCatalog(gctx, a)
		})
	}
	return eg.Wait()
}

// watchCatalog reloads the catalog whenever its file changes until ctx is
// done.
func watchCatalog(ctx context.Context, a *app) error {
	w := watcher.New(watcher.Options{DebounceWindow: a.cfg.WatchDebounceDuration()})
	return w.Run(ctx, a.holder.Path(), func(ctx context.Context, ev watcher.FileEvent) error {
		slog.Info("catalog_changed",
			slog.String("path", ev.Path),
			slog.String("operation", ev.Operation.String()))
		return a.holder.Reload(ctx)
	})
}
