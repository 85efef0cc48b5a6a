// Package live holds the catalog currently being served and swaps it when
// the catalog file changes.
package live

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/openplayground/catalog/internal/catalog"
	perrors "github.com/openplayground/catalog/internal/errors"
	"github.com/openplayground/catalog/internal/relevance"
	"github.com/openplayground/catalog/internal/shell"
	"github.com/openplayground/catalog/internal/visibility"
)

// Catalog is one loaded generation: the records, the engine index over
// them and the relevance ranker. It is read-only once built.
type Catalog struct {
	Catalog  *catalog.Catalog
	Engine   *visibility.Engine
	Ranker   *relevance.Ranker
	LoadedAt time.Time
}

// Build indexes c for searching and ranking.
func Build(c *catalog.Catalog) (*Catalog, error) {
	rk, err := relevance.New(c.Projects())
	if err != nil {
		return nil, perrors.New(perrors.ErrCodeRankingFailed, "failed to build relevance index", err)
	}
	return &Catalog{
		Catalog:  c,
		Engine:   visibility.FromCatalog(c),
		Ranker:   rk,
		LoadedAt: time.Now(),
	}, nil
}

// Renderer returns a renderer with its own engine fork, suitable for one
// request or one goroutine.
func (c *Catalog) Renderer(bm shell.Bookmarks, pageSize int) *shell.Renderer {
	opts := []shell.Option{shell.WithRanker(c.Ranker), shell.WithPageSize(pageSize)}
	if bm != nil {
		opts = append(opts, shell.WithBookmarks(bm))
	}
	return shell.NewRenderer(c.Engine.Fork(), opts...)
}

// Close releases the ranker index.
func (c *Catalog) Close() error {
	if c.Ranker == nil {
		return nil
	}
	return c.Ranker.Close()
}

// ErrClosed is returned by Reload after Close.
var ErrClosed = errors.New("catalog holder is closed")

// Holder owns the active Catalog. Readers call Current; Reload replaces it
// atomically. Current never returns nil, even after Close.
type Holder struct {
	path  string
	retry perrors.RetryConfig

	current atomic.Pointer[Catalog]
	reload  sync.Mutex

	swapMu sync.Mutex
	closed bool
}

// Load reads the catalog at path and returns a holder serving it.
func Load(path string) (*Holder, error) {
	c, err := catalog.Load(path)
	if err != nil {
		return nil, err
	}
	gen, err := Build(c)
	if err != nil {
		return nil, err
	}
	h := &Holder{path: path, retry: perrors.DefaultRetryConfig()}
	h.current.Store(gen)
	return h, nil
}

// Path returns the catalog file path.
func (h *Holder) Path() string {
	return h.path
}

// Current returns the active catalog generation.
func (h *Holder) Current() *Catalog {
	return h.current.Load()
}

// Lookup finds a project in the active catalog.
func (h *Holder) Lookup(id string) (*catalog.Project, bool) {
	return h.Current().Catalog.Get(id)
}

// Reload re-reads the catalog file, retrying while an editor may still be
// writing it. On failure the previous catalog stays active.
func (h *Holder) Reload(ctx context.Context) error {
	h.reload.Lock()
	defer h.reload.Unlock()

	if h.isClosed() {
		return ErrClosed
	}

	start := time.Now()
	c, err := perrors.RetryWithResult(ctx, h.retry, func() (*catalog.Catalog, error) {
		return catalog.Load(h.path)
	})
	if err != nil {
		slog.Warn("catalog_reload_failed",
			append([]any{slog.String("path", h.path)}, perrors.FormatForLog(err)...)...)
		return fmt.Errorf("reload %s: %w", h.path, err)
	}

	gen, err := Build(c)
	if err != nil {
		return err
	}

	h.swapMu.Lock()
	if h.closed {
		h.swapMu.Unlock()
		_ = gen.Close()
		return ErrClosed
	}
	old := h.current.Swap(gen)
	h.swapMu.Unlock()
	// Requests still holding old fall back to catalog order once its
	// ranker is closed.
	_ = old.Close()

	slog.Info("catalog_reloaded",
		slog.String("path", h.path),
		slog.Int("projects", c.Len()),
		slog.Duration("duration", time.Since(start)))
	return nil
}

// Close releases the ranker of the active catalog. The generation stays
// readable so late requests still see the last catalog, ranked in catalog
// order. Close is idempotent.
func (h *Holder) Close() error {
	h.swapMu.Lock()
	h.closed = true
	gen := h.current.Load()
	h.swapMu.Unlock()
	return gen.Close()
}

func (h *Holder) isClosed() bool {
	h.swapMu.Lock()
	defer h.swapMu.Unlock()
	return h.closed
}
