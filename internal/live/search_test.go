package live

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openplayground/catalog/internal/shell"
	"github.com/openplayground/catalog/internal/store"
	"github.com/openplayground/catalog/internal/telemetry"
)

func newSearcher(t *testing.T) *Searcher {
	t.Helper()
	path := filepath.Join(t.TempDir(), "projects.json")
	writeCatalog(t, path, twoProjects)
	h, err := Load(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = h.Close() })

	kv, err := store.OpenSQLite("")
	require.NoError(t, err)
	t.Cleanup(func() { _ = kv.Close() })

	return &Searcher{Holder: h, KV: kv, Metrics: telemetry.New(telemetry.DefaultConfig()), PageSize: 9}
}

func TestSearcher_FlagsBookmarksAndRecordsTelemetry(t *testing.T) {
	// Given: a searcher with Beta Game bookmarked
	s := newSearcher(t)
	ctx := context.Background()
	added, err := s.Bookmarks(ctx).Toggle("Beta Game")
	require.NoError(t, err)
	require.True(t, added)

	// When: searching for "game"
	view, err := s.Search(ctx, shell.NewState(shell.SortDefault).WithQuery("game"), telemetry.SourceHTTP)
	require.NoError(t, err)

	// Then: one bookmarked card comes back and the search is counted
	require.Len(t, view.Cards, 1)
	assert.Equal(t, "Beta Game", view.Cards[0].Project.Title)
	assert.True(t, view.Cards[0].Bookmarked)

	snap := s.Metrics.Snapshot()
	assert.Equal(t, int64(1), snap.TotalQueries)
	assert.Equal(t, int64(1), snap.Sources[telemetry.SourceHTTP])
}

func TestSearcher_ZeroResultsAreTracked(t *testing.T) {
	s := newSearcher(t)

	view, err := s.Search(context.Background(), shell.NewState(shell.SortDefault).WithQuery("xyz"), telemetry.SourceCLI)

	require.NoError(t, err)
	assert.True(t, view.Empty())
	snap := s.Metrics.Snapshot()
	require.Len(t, snap.ZeroResultQueries, 1)
	assert.Equal(t, "xyz", snap.ZeroResultQueries[0].Query)
}

func TestSearcher_WithoutStoreOrMetrics(t *testing.T) {
	s := newSearcher(t)
	s.KV = nil
	s.Metrics = nil

	view, err := s.Search(context.Background(), shell.NewState(shell.SortDefault), telemetry.SourceCLI)

	require.NoError(t, err)
	assert.Len(t, view.Cards, 2)
	assert.False(t, view.Cards[0].Bookmarked)
}
