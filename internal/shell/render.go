package shell

import (
	"context"
	"strings"

	"github.com/openplayground/catalog/internal/catalog"
	"github.com/openplayground/catalog/internal/visibility"
)

// Bookmarks is the bookmark lookup the renderer needs.
type Bookmarks interface {
	IsBookmarked(id string) bool
}

// Card is one rendered project.
type Card struct {
	Project    *catalog.Project   `json:"project"`
	Bookmarked bool               `json:"bookmarked"`
	Matched    []visibility.Field `json:"matched,omitempty"`
}

// View is the output of one render pass.
type View struct {
	State      State      `json:"state"`
	TotalItems int        `json:"total_items"`
	PageSize   int        `json:"page_size"`
	Cards      []Card     `json:"cards"`
	Pagination Pagination `json:"pagination"`
}

// Empty reports whether nothing matched; the browser shows its empty state.
func (v View) Empty() bool {
	return len(v.Cards) == 0
}

// Renderer turns a State into a View. It owns its engine's query, so a
// Renderer must not be shared between goroutines; give each one its own
// engine via visibility.Engine.Fork.
type Renderer struct {
	engine    *visibility.Engine
	bookmarks Bookmarks
	ranker    Ranker
	pageSize  int
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithBookmarks injects the bookmark lookup used to flag cards.
func WithBookmarks(b Bookmarks) Option {
	return func(r *Renderer) { r.bookmarks = b }
}

// WithRanker enables SortRelevance ordering.
func WithRanker(rk Ranker) Option {
	return func(r *Renderer) { r.ranker = rk }
}

// WithPageSize overrides DefaultPageSize. Non-positive values are ignored.
func WithPageSize(n int) Option {
	return func(r *Renderer) {
		if n > 0 {
			r.pageSize = n
		}
	}
}

// NewRenderer creates a renderer over engine.
func NewRenderer(engine *visibility.Engine, opts ...Option) *Renderer {
	r := &Renderer{engine: engine, pageSize: DefaultPageSize}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// PageSize returns the configured page size.
func (r *Renderer) PageSize() int {
	return r.pageSize
}

// Render computes the visible page for state. The returned view carries
// the effective state, with the page clamped into range.
func (r *Renderer) Render(ctx context.Context, state State) View {
	r.engine.SetSearchQuery(state.Query)
	items := r.engine.FilteredProjects()

	if state.categoryActive() {
		kept := items[:0]
		for _, p := range items {
			if strings.EqualFold(p.Category, state.Category) {
				kept = append(kept, p)
			}
		}
		items = kept
	}

	sort := state.Sort
	if sort == "" {
		sort = SortDefault
	}
	items = r.applySort(ctx, items, sort, r.engine.Query())

	total := TotalPages(len(items), r.pageSize)
	page := ClampPage(state.Page, total)

	effective := state
	effective.Sort = sort
	effective.Page = page
	if effective.Category == "" {
		effective.Category = catalog.AllCategory
	}

	view := View{
		State:      effective,
		TotalItems: len(items),
		PageSize:   r.pageSize,
		Cards:      []Card{},
		Pagination: BuildPagination(page, total),
	}

	start := (page - 1) * r.pageSize
	end := min(start+r.pageSize, len(items))
	for _, p := range items[min(start, end):end] {
		view.Cards = append(view.Cards, Card{
			Project:    p,
			Bookmarked: r.bookmarks != nil && r.bookmarks.IsBookmarked(p.ID),
			Matched:    r.engine.MatchedFields(p),
		})
	}
	return view
}
