package visibility

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openplayground/catalog/internal/catalog"
)

func projects(ps ...catalog.Project) []*catalog.Project {
	out := make([]*catalog.Project, len(ps))
	for i := range ps {
		p := ps[i]
		out[i] = &p
	}
	return out
}

func ids(ps []*catalog.Project) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.ID)
	}
	return out
}

func sampleCatalog() []*catalog.Project {
	return projects(
		catalog.Project{ID: "A", Title: "Alpha Tracker", Category: "tools", Description: "x"},
		catalog.Project{ID: "B", Title: "Beta Game", Category: "games", Description: "y"},
		catalog.Project{ID: "C", Title: "React Todo", Category: "productivity", Description: "Built with REACT hooks"},
		catalog.Project{ID: "D", Title: "Weather App", Category: "utility", Description: "shows forecasts"},
		catalog.Project{ID: "E", Title: "Memory Game", Category: "games", Description: "flip cards (a+b)*"},
	)
}

func TestFilteredProjects_GameScenario(t *testing.T) {
	// Given: the two-project catalog
	e := New(projects(
		catalog.Project{ID: "A", Title: "Alpha Tracker", Category: "tools", Description: "x"},
		catalog.Project{ID: "B", Title: "Beta Game", Category: "games", Description: "y"},
	))

	// When: searching for "game"
	e.SetSearchQuery("game")

	// Then: only B is visible
	assert.Equal(t, []string{"B"}, ids(e.FilteredProjects()))
}

func TestFilteredProjects_SubstringAcrossFields(t *testing.T) {
	e := New(projects(catalog.Project{ID: "W", Title: "Weather App", Category: "utility", Description: "shows forecasts"}))

	e.SetSearchQuery("cast")
	assert.Equal(t, []string{"W"}, ids(e.FilteredProjects()))
	assert.Equal(t, []Field{FieldDescription}, e.MatchedFields(e.FilteredProjects()[0]))

	e.SetSearchQuery("xyz")
	assert.Empty(t, e.FilteredProjects())
}

func TestFilteredProjects_EmptyAndWhitespaceMatchAll(t *testing.T) {
	cat := sampleCatalog()
	e := New(cat)

	for _, q := range []string{"", "   ", "\t\n"} {
		e.SetSearchQuery(q)
		assert.Len(t, e.FilteredProjects(), len(cat), "query %q", q)
		assert.Empty(t, e.Query())
	}
}

func TestFilteredProjects_CaseInsensitive(t *testing.T) {
	e := New(sampleCatalog())

	e.SetSearchQuery("REACT")
	upper := e.FilteredProjects()
	e.SetSearchQuery("react")
	lower := e.FilteredProjects()

	if diff := cmp.Diff(ids(lower), ids(upper)); diff != "" {
		t.Errorf("case sensitivity leak (-lower +upper):\n%s", diff)
	}
	assert.Equal(t, []string{"C"}, ids(lower))
}

func TestFilteredProjects_TrimsQuery(t *testing.T) {
	e := New(sampleCatalog())
	e.SetSearchQuery("  Game  ")

	assert.Equal(t, "game", e.Query())
	assert.Equal(t, []string{"B", "E"}, ids(e.FilteredProjects()))
}

// position returns the catalog position of p, or -1.
func position(e *Engine, p *catalog.Project) int {
	if i, ok := e.idx.pos[p]; ok {
		return i
	}
	return -1
}

func TestFilteredProjects_SubsetInCatalogOrder(t *testing.T) {
	cat := sampleCatalog()
	e := New(cat)
	queries := []string{"", "a", "e", "game", "tools", "s", "zzz", "(a+b)*", "."}

	for _, q := range queries {
		t.Run(fmt.Sprintf("q=%q", q), func(t *testing.T) {
			e.SetSearchQuery(q)
			got := e.FilteredProjects()

			// Every result is a catalog pointer, unique, and in increasing position.
			last := -1
			seen := map[*catalog.Project]bool{}
			for _, p := range got {
				pos := position(e, p)
				require.GreaterOrEqual(t, pos, 0)
				assert.Same(t, cat[pos], p)
				assert.Greater(t, pos, last)
				assert.False(t, seen[p])
				seen[p] = true
				last = pos
			}
		})
	}
}

func TestFilteredProjects_Idempotent(t *testing.T) {
	e := New(sampleCatalog())
	e.SetSearchQuery("g")

	first := e.FilteredProjects()
	second := e.FilteredProjects()

	assert.Equal(t, ids(first), ids(second))
}

func TestFilteredProjects_MetacharactersAreLiteral(t *testing.T) {
	e := New(sampleCatalog())

	e.SetSearchQuery("(a+b)*")
	assert.Equal(t, []string{"E"}, ids(e.FilteredProjects()))

	e.SetSearchQuery(".*")
	assert.Empty(t, e.FilteredProjects())
}

func TestFilteredProjects_EmptyCatalog(t *testing.T) {
	e := New(nil)
	e.SetSearchQuery("anything")

	assert.Empty(t, e.FilteredProjects())
	assert.Equal(t, 0, e.Len())
}

func TestMatchedFields(t *testing.T) {
	cat := sampleCatalog()
	e := New(cat)

	e.SetSearchQuery("game")
	assert.Equal(t, []Field{FieldTitle, FieldCategory}, e.MatchedFields(cat[1]))
	assert.Nil(t, e.MatchedFields(cat[0]))
	assert.Nil(t, e.MatchedFields(&catalog.Project{Title: "Game"}))

	e.SetSearchQuery("")
	assert.Nil(t, e.MatchedFields(cat[1]))
}

func TestFork_SharesIndexWithIndependentQuery(t *testing.T) {
	e := New(sampleCatalog())
	e.SetSearchQuery("game")

	f := e.Fork()

	assert.Empty(t, f.Query())
	assert.Len(t, f.FilteredProjects(), 5)
	assert.Len(t, e.FilteredProjects(), 2)
	assert.Same(t, e.idx, f.idx)
}

func TestFork_ConcurrentReaders(t *testing.T) {
	base := New(sampleCatalog())
	queries := []string{"game", "react", "", "tools", "weather"}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(q string) {
			defer wg.Done()
			e := base.Fork()
			e.SetSearchQuery(q)
			for _, p := range e.FilteredProjects() {
				text := strings.ToLower(p.Title + "\x00" + p.Category + "\x00" + p.Description)
				assert.Contains(t, text, q)
			}
		}(queries[i%len(queries)])
	}
	wg.Wait()
}

func TestFromCatalog(t *testing.T) {
	c, err := catalog.New([]catalog.Project{{Title: "Beta Game", Category: "games"}})
	require.NoError(t, err)

	e := FromCatalog(c)
	e.SetSearchQuery("beta")

	assert.Equal(t, []string{"Beta Game"}, ids(e.FilteredProjects()))
}
