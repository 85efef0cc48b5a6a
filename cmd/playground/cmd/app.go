package cmd

import (
	"errors"
	"log/slog"
	"path/filepath"

	"github.com/openplayground/catalog/internal/config"
	perrors "github.com/openplayground/catalog/internal/errors"
	"github.com/openplayground/catalog/internal/live"
	"github.com/openplayground/catalog/internal/logging"
	"github.com/openplayground/catalog/internal/shell"
	"github.com/openplayground/catalog/internal/store"
	"github.com/openplayground/catalog/internal/telemetry"
)

// app is the wiring shared by the commands that read the catalog.
type app struct {
	cfg      *config.Config
	holder   *live.Holder
	kv       store.KV
	metrics  *telemetry.QueryMetrics
	searcher *live.Searcher

	closeLog func()
}

// loadConfig resolves the configuration for opts. --catalog wins over
// every config layer.
func loadConfig(opts *globalOptions) (*config.Config, error) {
	dir, err := filepath.Abs(opts.configDir)
	if err != nil {
		return nil, perrors.ConfigError("failed to resolve config directory", err)
	}
	cfg, err := config.Load(dir)
	if err != nil {
		return nil, perrors.ConfigError("failed to load configuration", err).
			WithSuggestion("Run 'playground config show' to inspect the merged configuration.")
	}
	if opts.catalog != "" {
		path, err := filepath.Abs(opts.catalog)
		if err != nil {
			return nil, perrors.ConfigError("failed to resolve catalog path", err)
		}
		cfg.Catalog.Path = path
	}
	return cfg, nil
}

// openApp loads the configuration, the catalog and the store. With stdio
// set, logs never reach stdout or stderr.
func openApp(opts *globalOptions, stdio bool) (*app, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg}
	if err := a.setupLogging(opts.debug, stdio); err != nil {
		return nil, err
	}

	holder, err := live.Load(cfg.Catalog.Path)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	a.holder = holder

	kv, err := store.Open(cfg.Storage.Backend, cfg.Storage.Path)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	a.kv = kv

	if cfg.Telemetry.Enabled {
		a.metrics = telemetry.New(telemetry.Config{
			RecentCapacity: cfg.Telemetry.BufferSize,
			TopN:           cfg.Telemetry.TopQueries,
		})
	}

	a.searcher = &live.Searcher{
		Holder:   holder,
		KV:       kv,
		Metrics:  a.metrics,
		PageSize: cfg.Browse.PageSize,
	}

	slog.Info("catalog_opened",
		slog.String("path", cfg.Catalog.Path),
		slog.Int("projects", holder.Current().Catalog.Len()),
		slog.String("storage", cfg.Storage.Backend))
	return a, nil
}

func (a *app) setupLogging(debug, stdio bool) error {
	prev := slog.Default()

	var (
		cleanup func()
		err     error
	)
	switch {
	case stdio:
		level := a.cfg.Server.LogLevel
		if debug {
			level = "debug"
		}
		cleanup, err = logging.SetupStdioMode(level)
	case debug:
		cleanup, err = logging.SetupDefault(logging.DebugConfig())
	default:
		lc := logging.DefaultConfig()
		lc.Level = a.cfg.Server.LogLevel
		cleanup, err = logging.SetupDefault(lc)
	}
	if err != nil {
		return perrors.ConfigError("failed to set up logging", err)
	}

	a.closeLog = func() {
		slog.SetDefault(prev)
		cleanup()
	}
	return nil
}

// defaultSort returns the validated browse.default_sort.
func (a *app) defaultSort() shell.Sort {
	s, err := shell.ParseSort(a.cfg.Browse.DefaultSort)
	if err != nil {
		return shell.SortDefault
	}
	return s
}

// Close releases the catalog, the store and the log file.
func (a *app) Close() error {
	var errs []error
	if a.holder != nil {
		errs = append(errs, a.holder.Close())
	}
	if a.kv != nil {
		errs = append(errs, a.kv.Close())
	}
	if a.closeLog != nil {
		a.closeLog()
		a.closeLog = nil
	}
	return errors.Join(errs...)
}
