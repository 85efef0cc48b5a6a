package live

import (
	"context"
	"log/slog"
	"time"

	"github.com/openplayground/catalog/internal/bookmarks"
	"github.com/openplayground/catalog/internal/shell"
	"github.com/openplayground/catalog/internal/store"
	"github.com/openplayground/catalog/internal/telemetry"
)

// Searcher renders the active catalog for one surface, flagging bookmarks
// from kv and recording each search in metrics. KV and Metrics may be nil.
type Searcher struct {
	Holder   *Holder
	KV       store.KV
	Metrics  *telemetry.QueryMetrics
	PageSize int
}

// Bookmarks returns a bookmark store bound to ctx.
func (s *Searcher) Bookmarks(ctx context.Context) *bookmarks.KVStore {
	return bookmarks.New(ctx, s.KV, s.Holder.Lookup)
}

// Search renders state. It is safe for concurrent use: every call gets its
// own engine fork.
func (s *Searcher) Search(ctx context.Context, state shell.State, source telemetry.Source) (shell.View, error) {
	start := time.Now()

	var marks shell.Bookmarks
	if s.KV != nil {
		snap, err := s.Bookmarks(ctx).Set()
		if err != nil {
			return shell.View{}, err
		}
		marks = snap
	}

	view := s.Holder.Current().Renderer(marks, s.PageSize).Render(ctx, state)
	elapsed := time.Since(start)

	if s.Metrics != nil {
		s.Metrics.Record(telemetry.QueryEvent{
			Query:       state.Query,
			Category:    view.State.Category,
			Sort:        string(view.State.Sort),
			Source:      source,
			ResultCount: view.TotalItems,
			Latency:     elapsed,
		})
	}

	slog.Debug("search_completed",
		slog.String("query", state.Query),
		slog.String("category", view.State.Category),
		slog.String("sort", string(view.State.Sort)),
		slog.Int("page", view.State.Page),
		slog.Int("results", view.TotalItems),
		slog.String("source", string(source)),
		slog.Duration("duration", elapsed))
	return view, nil
}
