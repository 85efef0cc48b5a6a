package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openplayground/catalog/internal/catalog"
	"github.com/openplayground/catalog/internal/live"
	"github.com/openplayground/catalog/internal/shell"
	"github.com/openplayground/catalog/internal/store"
	"github.com/openplayground/catalog/internal/telemetry"
)

const testProjects = `[
  {"title": "Alpha Tracker", "category": "tools", "description": "track habits", "tech": ["Go"]},
  {"title": "Beta Game", "category": "games", "description": "a puzzle game", "link": "https://example.com/beta"},
  {"title": "Castle", "category": "games", "description": "build a castle"}
]`

func newTestServer(t *testing.T) *Server {
	t.Helper()
	path := filepath.Join(t.TempDir(), "projects.json")
	require.NoError(t, os.WriteFile(path, []byte(testProjects), 0o644))

	holder, err := live.Load(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = holder.Close() })

	kv, err := store.OpenSQLite("")
	require.NoError(t, err)
	t.Cleanup(func() { _ = kv.Close() })

	srv, err := NewServer(&live.Searcher{
		Holder:   holder,
		KV:       kv,
		Metrics:  telemetry.New(telemetry.DefaultConfig()),
		PageSize: shell.DefaultPageSize,
	}, shell.SortDefault)
	require.NoError(t, err)
	return srv
}

func requireMCPCode(t *testing.T, err error, code int) {
	t.Helper()
	var me *MCPError
	require.True(t, errors.As(err, &me), "expected MCPError, got %v", err)
	assert.Equal(t, code, me.Code)
}

func TestNewServer_Validation(t *testing.T) {
	_, err := NewServer(nil, "")
	assert.Error(t, err)

	_, err = NewServer(&live.Searcher{}, "")
	assert.Error(t, err)
}

func TestServer_ListTools(t *testing.T) {
	srv := newTestServer(t)

	names := []string{}
	for _, tool := range srv.ListTools() {
		names = append(names, tool.Name)
		assert.NotEmpty(t, tool.Description)
	}

	assert.Equal(t, []string{"search_projects", "list_categories", "toggle_bookmark", "list_bookmarks"}, names)
}

func TestCallTool_SearchProjects(t *testing.T) {
	srv := newTestServer(t)

	// When: searching for text found only in a description
	out, err := srv.CallTool(context.Background(), ToolSearchProjects, map[string]any{"query": "castle"})

	// Then: the markdown lists the one match and where it matched
	require.NoError(t, err)
	assert.Contains(t, out, "## Projects matching \"castle\"")
	assert.Contains(t, out, "Found 1 project (page 1 of 1")
	assert.Contains(t, out, "### 1. Castle")
	assert.Contains(t, out, "Matched in: title, description")
}

func TestCallTool_SearchProjects_CategoryAndSort(t *testing.T) {
	srv := newTestServer(t)

	out, err := srv.search(context.Background(), SearchInput{Category: "games", Sort: "za"})

	require.NoError(t, err)
	require.Len(t, out.Projects, 2)
	assert.Equal(t, "Castle", out.Projects[0].Title)
	assert.Equal(t, "Beta Game", out.Projects[1].Title)
	assert.Equal(t, "za", out.Sort)
}

func TestCallTool_SearchProjects_NoResults(t *testing.T) {
	srv := newTestServer(t)

	out, err := srv.CallTool(context.Background(), ToolSearchProjects, map[string]any{"query": "xyz"})

	require.NoError(t, err)
	assert.Equal(t, `No projects found for "xyz"`, out)
}

func TestCallTool_SearchProjects_InvalidParams(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	_, err := srv.CallTool(ctx, ToolSearchProjects, map[string]any{"sort": "shuffle"})
	requireMCPCode(t, err, ErrCodeInvalidParams)

	_, err = srv.CallTool(ctx, ToolSearchProjects, map[string]any{"page": -1})
	requireMCPCode(t, err, ErrCodeInvalidParams)

	_, err = srv.CallTool(ctx, ToolSearchProjects, map[string]any{"page": "two"})
	requireMCPCode(t, err, ErrCodeInvalidParams)
}

func TestCallTool_ListCategories(t *testing.T) {
	srv := newTestServer(t)

	out, err := srv.CallTool(context.Background(), ToolListCategories, nil)

	require.NoError(t, err)
	assert.Contains(t, out, "- `all` All (3)")
	assert.Contains(t, out, "- `games` Games (2)")
}

func TestCallTool_BookmarkRoundTrip(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	// Given: no bookmarks
	out, err := srv.CallTool(ctx, ToolListBookmarks, nil)
	require.NoError(t, err)
	assert.Equal(t, "No bookmarks yet.", out)

	// When: a project is toggled
	out, err = srv.CallTool(ctx, ToolToggleBookmark, map[string]any{"id": "Beta Game"})
	require.NoError(t, err)
	assert.Equal(t, "Added to bookmarks", out)

	// Then: it is listed and flagged in search results
	out, err = srv.CallTool(ctx, ToolListBookmarks, nil)
	require.NoError(t, err)
	assert.Contains(t, out, "- Beta Game (games)")

	res, err := srv.search(ctx, SearchInput{Query: "beta"})
	require.NoError(t, err)
	require.Len(t, res.Projects, 1)
	assert.True(t, res.Projects[0].Bookmarked)

	out, err = srv.CallTool(ctx, ToolToggleBookmark, map[string]any{"id": "Beta Game"})
	require.NoError(t, err)
	assert.Equal(t, "Removed from bookmarks", out)
}

func TestCallTool_ToggleBookmark_Errors(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	_, err := srv.CallTool(ctx, ToolToggleBookmark, map[string]any{"id": "Nope"})
	requireMCPCode(t, err, ErrCodeNotFound)

	_, err = srv.CallTool(ctx, ToolToggleBookmark, nil)
	requireMCPCode(t, err, ErrCodeInvalidParams)
}

func TestCallTool_UnknownTool(t *testing.T) {
	srv := newTestServer(t)

	_, err := srv.CallTool(context.Background(), "nonexistent_tool", nil)

	requireMCPCode(t, err, ErrCodeMethodNotFound)
}

func TestServer_ConcurrentSearches(t *testing.T) {
	srv := newTestServer(t)

	var wg sync.WaitGroup
	for _, q := range []string{"game", "track", "castle", "", "xyz"} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 20; i++ {
				_, err := srv.CallTool(context.Background(), ToolSearchProjects, map[string]any{"query": q})
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()
}

func connect(t *testing.T, srv *Server) *mcp.ClientSession {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())

	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.serveWithTransport(ctx, serverTransport)
	}()

	client := mcp.NewClient(&mcp.Implementation{Name: "client", Version: "v0.0.1"}, nil)
	session, err := client.Connect(context.Background(), clientTransport, nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		cancel()
		select {
		case err := <-serveErr:
			assert.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Error("server did not stop after cancel")
		}
		_ = session.Close()
	})
	return session
}

func TestProtocol_SearchTool(t *testing.T) {
	session := connect(t, newTestServer(t))

	res, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      ToolSearchProjects,
		Arguments: map[string]any{"query": "game"},
	})

	require.NoError(t, err)
	require.False(t, res.IsError)
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	assert.Contains(t, text.Text, "Beta Game")
}

func TestProtocol_ListTools(t *testing.T) {
	session := connect(t, newTestServer(t))

	res, err := session.ListTools(context.Background(), nil)

	require.NoError(t, err)
	assert.Len(t, res.Tools, 4)
}

func TestProtocol_ProjectsResource(t *testing.T) {
	session := connect(t, newTestServer(t))

	res, err := session.ReadResource(context.Background(), &mcp.ReadResourceParams{URI: ProjectsURI})

	require.NoError(t, err)
	require.Len(t, res.Contents, 1)
	var projects []catalog.Project
	require.NoError(t, json.Unmarshal([]byte(res.Contents[0].Text), &projects))
	require.Len(t, projects, 3)
	assert.Equal(t, "Alpha Tracker", projects[0].ID)
}
