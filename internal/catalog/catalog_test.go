package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	perrors "github.com/openplayground/catalog/internal/errors"
)

const sampleJSON = `[
  {"title": "Weather App", "category": "utility", "description": "shows forecasts", "link": "./projects/weather/index.html", "icon": "ri-sun-line", "tech": ["HTML", "JS"]},
  {"title": "Beta Game", "category": "Games", "description": "y", "github": "https://github.com/x/beta"},
  {"id": "clock", "title": "Digital Clock", "category": "utility", "description": "tick tock"}
]`

func TestParse_PreservesOrderAndDerivesIDs(t *testing.T) {
	// Given: a catalog document with and without explicit ids
	// When: parsing
	c, err := Parse(strings.NewReader(sampleJSON))

	// Then: order is kept and missing ids come from titles
	require.NoError(t, err)
	var ids []string
	for _, p := range c.Projects() {
		ids = append(ids, p.ID)
	}
	if diff := cmp.Diff([]string{"Weather App", "Beta Game", "clock"}, ids); diff != "" {
		t.Errorf("ids mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 3, c.Len())
	assert.Equal(t, []string{"HTML", "JS"}, c.Projects()[0].Tech)
	assert.NotNil(t, c.Projects()[1].Tech)
}

func TestParse_EmptyArrayIsValid(t *testing.T) {
	c, err := Parse(strings.NewReader("[]"))
	require.NoError(t, err)
	assert.Equal(t, 0, c.Len())
	assert.Len(t, c.Categories(), 1)
}

func TestParse_CorruptJSON(t *testing.T) {
	_, err := Parse(strings.NewReader(`{"title":`))
	require.Error(t, err)
	assert.Equal(t, perrors.ErrCodeCatalogCorrupt, perrors.GetCode(err))
}

func TestNew_SkipsLaterDuplicateIDs(t *testing.T) {
	// Given: two entries deriving the same id from their title
	c, err := New([]Project{
		{Title: "Clock", Category: "utility"},
		{Title: "Timer", Category: "utility"},
		{Title: "Clock", Category: "games"},
	})

	// Then: the catalog loads with the first entry for that id
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())
	p, ok := c.Get("Clock")
	require.True(t, ok)
	assert.Equal(t, "utility", p.Category)
	assert.Equal(t, "Timer", c.Projects()[1].Title)
}

func TestNew_RejectsMissingTitle(t *testing.T) {
	_, err := New([]Project{{ID: "x", Title: "  "}})
	require.Error(t, err)
	assert.Equal(t, perrors.ErrCodeInvalidInput, perrors.GetCode(err))
}

func TestGet(t *testing.T) {
	c, err := Parse(strings.NewReader(sampleJSON))
	require.NoError(t, err)

	p, ok := c.Get("clock")
	require.True(t, ok)
	assert.Equal(t, "Digital Clock", p.Title)
	assert.Same(t, c.Projects()[2], p)

	_, ok = c.Get("missing")
	assert.False(t, ok)
}

func TestCategories_CountsCaseInsensitively(t *testing.T) {
	c, err := Parse(strings.NewReader(sampleJSON))
	require.NoError(t, err)

	want := []CategoryCount{
		{Key: "all", Label: "All (3)", Count: 3},
		{Key: "utility", Label: "Utility (2)", Count: 2},
		{Key: "games", Label: "Games (1)", Count: 1},
	}
	if diff := cmp.Diff(want, c.Categories()); diff != "" {
		t.Errorf("categories mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))

	require.Error(t, err)
	assert.Equal(t, perrors.ErrCodeCatalogNotFound, perrors.GetCode(err))
	assert.Contains(t, perrors.FormatForCLI(err), "Unable to load projects")
}

func TestLoad_CorruptFileCarriesPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "projects.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))

	_, err := Load(path)

	var e *perrors.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, path, e.Details["path"])
}

func TestCategoryLabel(t *testing.T) {
	assert.Equal(t, "Utility", CategoryLabel("utility"))
	assert.Equal(t, "Data Viz", CategoryLabel("data viz"))
}
