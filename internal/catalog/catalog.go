package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	perrors "github.com/openplayground/catalog/internal/errors"
)

// AllCategory is the category key that disables category filtering.
const AllCategory = "all"

// Catalog is an ordered, immutable set of projects.
type Catalog struct {
	projects []*Project
	byID     map[string]*Project
}

// New builds a catalog from decoded entries, preserving their order.
// Entries without a title are rejected. A later entry repeating an earlier
// id is logged and skipped, so ids stay unique.
func New(entries []Project) (*Catalog, error) {
	c := &Catalog{
		projects: make([]*Project, 0, len(entries)),
		byID:     make(map[string]*Project, len(entries)),
	}
	for i := range entries {
		p := entries[i]
		p.normalize()
		if p.Title == "" {
			return nil, perrors.New(perrors.ErrCodeInvalidInput,
				fmt.Sprintf("catalog entry %d has no title", i), nil).
				WithDetail("index", fmt.Sprint(i))
		}
		if _, dup := c.byID[p.ID]; dup {
			slog.Warn("catalog_duplicate_id_skipped",
				slog.String("id", p.ID),
				slog.Int("index", i),
				slog.String("error_code", perrors.ErrCodeDuplicateID))
			continue
		}
		c.projects = append(c.projects, &p)
		c.byID[p.ID] = &p
	}
	return c, nil
}

// Parse decodes a projects.json document.
func Parse(r io.Reader) (*Catalog, error) {
	var entries []Project
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return nil, perrors.New(perrors.ErrCodeCatalogCorrupt, "Unable to load projects", err).
			WithSuggestion("projects.json must be a JSON array of project objects.")
	}
	return New(entries)
}

// Load reads and parses the catalog file at path.
func Load(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, perrors.CatalogLoadError(path, err)
	}
	defer func() { _ = f.Close() }()

	c, err := Parse(f)
	if err != nil {
		var e *perrors.Error
		if errors.As(err, &e) {
			e.WithDetail("path", path)
		}
		return nil, err
	}
	return c, nil
}

// Projects returns the records in catalog order. Callers must not modify
// the slice or the records.
func (c *Catalog) Projects() []*Project {
	return c.projects
}

// Len returns the number of projects.
func (c *Catalog) Len() int {
	return len(c.projects)
}

// Get looks up a project by id.
func (c *Catalog) Get(id string) (*Project, bool) {
	p, ok := c.byID[id]
	return p, ok
}

// CategoryCount is one filter button: a category key, its label and the
// number of projects in it.
type CategoryCount struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

// CategoryLabel renders a category key for display, e.g. "utility" as "Utility".
func CategoryLabel(key string) string {
	// Casers are stateful; one per call.
	return cases.Title(language.English, cases.NoLower).String(key)
}

// Categories counts projects per lowercased category. The first entry is
// always "all" with the catalog size; the rest follow in order of first
// appearance.
func (c *Catalog) Categories() []CategoryCount {
	counts := map[string]int{}
	var order []string
	for _, p := range c.projects {
		key := p.CategoryKey()
		if _, seen := counts[key]; !seen {
			order = append(order, key)
		}
		counts[key]++
	}

	out := make([]CategoryCount, 0, len(order)+1)
	out = append(out, CategoryCount{
		Key:   AllCategory,
		Label: fmt.Sprintf("All (%d)", len(c.projects)),
		Count: len(c.projects),
	})
	for _, key := range order {
		out = append(out, CategoryCount{
			Key:   key,
			Label: fmt.Sprintf("%s (%d)", CategoryLabel(key), counts[key]),
			Count: counts[key],
		})
	}
	return out
}
