package relevance

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openplayground/catalog/internal/catalog"
)

func fixture(t *testing.T) ([]*catalog.Project, *Ranker) {
	t.Helper()
	c, err := catalog.New([]catalog.Project{
		{Title: "Weather App", Category: "utility", Description: "shows forecasts for any city"},
		{Title: "Snake", Category: "games", Description: "classic arcade game"},
		{Title: "Game of Life", Category: "simulation", Description: "cellular automaton"},
		{Title: "Tic Tac Toe", Category: "games", Description: "two players"},
		{Title: "Todo List", Category: "productivity", Description: "tasks with local storage"},
	})
	require.NoError(t, err)

	r, err := New(c.Projects())
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })
	return c.Projects(), r
}

func titles(ps []*catalog.Project) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Title
	}
	return out
}

func TestRank_TitleOutranksDescription(t *testing.T) {
	// Given: "game" in one title and one description
	projects, r := fixture(t)

	// When: ranking the whole catalog
	ranked, err := r.Rank(context.Background(), "game", projects)

	// Then: the title hit leads and the rest follow
	require.NoError(t, err)
	assert.Equal(t, "Game of Life", ranked[0].Title)
	assert.ElementsMatch(t, titles(projects), titles(ranked))
}

func TestRank_IsPermutationWithUnscoredInOrder(t *testing.T) {
	projects, r := fixture(t)

	ranked, err := r.Rank(context.Background(), "forecasts", projects)

	require.NoError(t, err)
	require.Len(t, ranked, len(projects))
	assert.Equal(t, "Weather App", ranked[0].Title)
	assert.Equal(t, []string{"Snake", "Game of Life", "Tic Tac Toe", "Todo List"}, titles(ranked[1:]))
}

func TestRank_PrefixOfLastWordScores(t *testing.T) {
	projects, r := fixture(t)

	ranked, err := r.Rank(context.Background(), "weat", projects)

	require.NoError(t, err)
	assert.Equal(t, "Weather App", ranked[0].Title)
}

func TestRank_OnlyReordersGivenSubset(t *testing.T) {
	projects, r := fixture(t)
	subset := []*catalog.Project{projects[3], projects[1]}

	ranked, err := r.Rank(context.Background(), "game", subset)

	require.NoError(t, err)
	assert.Len(t, ranked, 2)
	assert.Equal(t, "Snake", ranked[0].Title)
	assert.Equal(t, "Tic Tac Toe", ranked[1].Title)
	assert.Equal(t, "Tic Tac Toe", subset[0].Title, "input slice untouched")
}

func TestScores_EmptyQuery(t *testing.T) {
	_, r := fixture(t)

	scores, err := r.Scores(context.Background(), "   ")

	require.NoError(t, err)
	assert.Empty(t, scores)
}

func TestRank_AfterClose(t *testing.T) {
	projects, r := fixture(t)
	require.NoError(t, r.Close())
	require.NoError(t, r.Close())

	_, err := r.Rank(context.Background(), "game", projects)
	assert.Error(t, err)
}
