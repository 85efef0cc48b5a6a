package shell

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/openplayground/catalog/internal/catalog"
	perrors "github.com/openplayground/catalog/internal/errors"
)

// Sort selects the order of the rendered list.
type Sort string

const (
	// SortDefault keeps catalog order.
	SortDefault Sort = "default"
	// SortAZ orders titles ascending by locale collation.
	SortAZ Sort = "az"
	// SortZA orders titles descending by locale collation.
	SortZA Sort = "za"
	// SortNewest reverses catalog order; later entries are newer.
	SortNewest Sort = "newest"
	// SortRelevance orders by search score when a query is active.
	SortRelevance Sort = "relevance"
)

// Sorts lists every sort in the order the browser cycles through them.
var Sorts = []Sort{SortDefault, SortAZ, SortZA, SortNewest, SortRelevance}

// ParseSort validates a sort key. Empty input means SortDefault.
func ParseSort(s string) (Sort, error) {
	key := Sort(strings.ToLower(strings.TrimSpace(s)))
	if key == "" {
		return SortDefault, nil
	}
	if slices.Contains(Sorts, key) {
		return key, nil
	}
	return "", perrors.New(perrors.ErrCodeInvalidSort, "unknown sort \""+s+"\"", nil).
		WithSuggestion("Use one of: default, az, za, newest, relevance.")
}

// Next returns the sort after s in Sorts, wrapping around.
func (s Sort) Next() Sort {
	i := slices.Index(Sorts, s)
	return Sorts[(i+1)%len(Sorts)]
}

// Ranker orders the visible projects by relevance to query. It must return
// a permutation of visible.
type Ranker interface {
	Rank(ctx context.Context, query string, visible []*catalog.Project) ([]*catalog.Project, error)
}

// applySort orders items in place (or returns a new slice for relevance).
func (r *Renderer) applySort(ctx context.Context, items []*catalog.Project, s Sort, query string) []*catalog.Project {
	switch s {
	case SortAZ, SortZA:
		col := collate.New(language.English)
		slices.SortStableFunc(items, func(a, b *catalog.Project) int {
			if s == SortZA {
				return col.CompareString(b.Title, a.Title)
			}
			return col.CompareString(a.Title, b.Title)
		})
	case SortNewest:
		slices.Reverse(items)
	case SortRelevance:
		if r.ranker == nil || query == "" {
			return items
		}
		ranked, err := r.ranker.Rank(ctx, query, items)
		if err != nil {
			slog.Warn("relevance_rank_failed",
				slog.String("query", query),
				slog.String("error", err.Error()))
			return items
		}
		return ranked
	}
	return items
}
