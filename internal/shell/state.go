// Package shell renders the catalog browser: it layers category filtering,
// sorting, pagination and bookmark flags over the visibility engine.
//
// UI state is an explicit State value passed to Renderer.Render. The
// transition helpers mirror the browser's event handlers: changing the
// query, category or sort returns to page 1.
package shell

import (
	"strings"

	"github.com/openplayground/catalog/internal/catalog"
)

// DefaultPageSize is the number of cards per page.
const DefaultPageSize = 9

// State is everything the user can change in the browser.
type State struct {
	Query    string `json:"query"`
	Category string `json:"category"`
	Sort     Sort   `json:"sort"`
	Page     int    `json:"page"`
}

// NewState returns the initial state: no query, all categories, page 1.
func NewState(sort Sort) State {
	if sort == "" {
		sort = SortDefault
	}
	return State{Category: catalog.AllCategory, Sort: sort, Page: 1}
}

// WithQuery sets the search text and returns to page 1.
func (s State) WithQuery(q string) State {
	s.Query = q
	s.Page = 1
	return s
}

// ClearSearch empties the search text. The page is kept and clamped on
// the next render.
func (s State) ClearSearch() State {
	s.Query = ""
	return s
}

// WithCategory sets the category filter and returns to page 1.
func (s State) WithCategory(c string) State {
	s.Category = strings.ToLower(strings.TrimSpace(c))
	s.Page = 1
	return s
}

// WithSort sets the sort and returns to page 1.
func (s State) WithSort(sort Sort) State {
	s.Sort = sort
	s.Page = 1
	return s
}

// WithPage jumps to page n. Out-of-range pages are clamped when rendered.
func (s State) WithPage(n int) State {
	s.Page = n
	return s
}

// NextPage and PrevPage move by one page.
func (s State) NextPage() State { return s.WithPage(s.Page + 1) }
func (s State) PrevPage() State { return s.WithPage(s.Page - 1) }

// categoryActive reports whether the category filter applies.
func (s State) categoryActive() bool {
	return s.Category != "" && !strings.EqualFold(s.Category, catalog.AllCategory)
}

// ParseState builds a State from raw request values. An empty sort falls
// back to def; an empty category means all.
func ParseState(query, category, sort, page string, def Sort) (State, error) {
	st := NewState(def)
	if strings.TrimSpace(sort) != "" {
		s, err := ParseSort(sort)
		if err != nil {
			return State{}, err
		}
		st.Sort = s
	}
	n, err := ParsePage(page)
	if err != nil {
		return State{}, err
	}
	if strings.TrimSpace(category) != "" {
		st = st.WithCategory(category)
	}
	st.Query = query
	st.Page = n
	return st, nil
}
