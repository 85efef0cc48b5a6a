// Package visibility decides which catalog projects match the active search
// query.
//
// An Engine is built once per catalog. SetSearchQuery stores the query and
// FilteredProjects recomputes the visible subset on demand: a project is
// visible when the query is a substring of its title, category or
// description, compared case-insensitively. The result keeps catalog order.
// Sorting, category filtering and pagination belong to callers.
//
// An Engine is not safe for concurrent use. Concurrent callers take their
// own Engine with Fork, which shares the prebuilt index.
package visibility

import (
	"strings"

	"github.com/openplayground/catalog/internal/catalog"
)

// Field names a searchable project field.
type Field string

const (
	FieldTitle       Field = "title"
	FieldCategory    Field = "category"
	FieldDescription Field = "description"
)

// entry is the normalized search text of one project.
type entry struct {
	project     *catalog.Project
	title       string
	category    string
	description string
}

// index is immutable after construction and shared between forks.
type index struct {
	entries []entry
	pos     map[*catalog.Project]int
}

// Engine holds the search query for one consumer.
type Engine struct {
	idx   *index
	query string
}

// New builds an engine over projects, which must not change afterwards.
func New(projects []*catalog.Project) *Engine {
	idx := &index{
		entries: make([]entry, len(projects)),
		pos:     make(map[*catalog.Project]int, len(projects)),
	}
	for i, p := range projects {
		idx.entries[i] = entry{
			project:     p,
			title:       normalize(p.Title),
			category:    normalize(p.Category),
			description: normalize(p.Description),
		}
		idx.pos[p] = i
	}
	return &Engine{idx: idx}
}

// FromCatalog builds an engine over every project in c.
func FromCatalog(c *catalog.Catalog) *Engine {
	return New(c.Projects())
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// SetSearchQuery replaces the active query. Whitespace-only input clears it.
func (e *Engine) SetSearchQuery(query string) {
	e.query = normalize(query)
}

// Query returns the normalized active query.
func (e *Engine) Query() string {
	return e.query
}

// FilteredProjects returns the projects matching the active query, in
// catalog order. An empty query matches everything. The returned slice is
// freshly allocated; its elements point into the catalog.
func (e *Engine) FilteredProjects() []*catalog.Project {
	out := make([]*catalog.Project, 0, len(e.idx.entries))
	for i := range e.idx.entries {
		if e.idx.entries[i].matches(e.query) {
			out = append(out, e.idx.entries[i].project)
		}
	}
	return out
}

func (en *entry) matches(q string) bool {
	if q == "" {
		return true
	}
	return strings.Contains(en.title, q) ||
		strings.Contains(en.category, q) ||
		strings.Contains(en.description, q)
}

// MatchedFields reports which fields of p contain the active query.
// It returns nil for projects outside the catalog and for an empty query.
func (e *Engine) MatchedFields(p *catalog.Project) []Field {
	i, ok := e.idx.pos[p]
	if !ok || e.query == "" {
		return nil
	}
	en := &e.idx.entries[i]
	var fields []Field
	if strings.Contains(en.title, e.query) {
		fields = append(fields, FieldTitle)
	}
	if strings.Contains(en.category, e.query) {
		fields = append(fields, FieldCategory)
	}
	if strings.Contains(en.description, e.query) {
		fields = append(fields, FieldDescription)
	}
	return fields
}

// Fork returns an engine with an empty query that shares e's index.
func (e *Engine) Fork() *Engine {
	return &Engine{idx: e.idx}
}

// Len returns the catalog size.
func (e *Engine) Len() int {
	return len(e.idx.entries)
}
