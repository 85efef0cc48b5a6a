package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/openplayground/catalog/internal/bookmarks"
	"github.com/openplayground/catalog/internal/live"
	"github.com/openplayground/catalog/internal/shell"
	"github.com/openplayground/catalog/internal/telemetry"
	"github.com/openplayground/catalog/pkg/version"
)

// Server name reported to clients.
const serverName = "openplayground-catalog"

// Resource URIs.
const (
	ProjectsURI = "catalog://projects"
	StatsURI    = "catalog://stats"
)

// Tool names.
const (
	ToolSearchProjects = "search_projects"
	ToolListCategories = "list_categories"
	ToolToggleBookmark = "toggle_bookmark"
	ToolListBookmarks  = "list_bookmarks"
)

// ToolInfo contains information about a registered tool.
type ToolInfo struct {
	Name        string
	Description string
}

var tools = []ToolInfo{
	{
		Name:        ToolSearchProjects,
		Description: "Search the project catalog. Matches the query as a case-insensitive substring of title, category or description, then filters by category, sorts and pages the results (9 per page).",
	},
	{
		Name:        ToolListCategories,
		Description: "List catalog categories with project counts. Use a category key as the category argument of search_projects.",
	},
	{
		Name:        ToolToggleBookmark,
		Description: "Bookmark a project, or remove the bookmark if it is already set. Returns the new state.",
	},
	{
		Name:        ToolListBookmarks,
		Description: "List bookmarked projects in the order they were added.",
	},
}

// Server is the MCP server over the live catalog.
type Server struct {
	mcp         *mcp.Server
	searcher    *live.Searcher
	defaultSort shell.Sort
	logger      *slog.Logger
}

// NewServer creates a new MCP server. The searcher must carry a store for
// the bookmark tools.
func NewServer(searcher *live.Searcher, defaultSort shell.Sort) (*Server, error) {
	if searcher == nil || searcher.Holder == nil {
		return nil, errors.New("searcher with a catalog holder is required")
	}
	if searcher.KV == nil {
		return nil, errors.New("searcher store is required")
	}
	if defaultSort == "" {
		defaultSort = shell.SortDefault
	}

	s := &Server{
		searcher:    searcher,
		defaultSort: defaultSort,
		logger:      slog.Default(),
	}
	s.mcp = mcp.NewServer(
		&mcp.Implementation{Name: serverName, Version: version.Version},
		nil,
	)

	s.registerTools()
	s.registerResources()
	return s, nil
}

// MCPServer returns the underlying MCP server instance.
func (s *Server) MCPServer() *mcp.Server {
	return s.mcp
}

// ListTools returns all registered tools.
func (s *Server) ListTools() []ToolInfo {
	return append([]ToolInfo(nil), tools...)
}

func description(name string) string {
	for _, t := range tools {
		if t.Name == name {
			return t.Description
		}
	}
	return ""
}

func (s *Server) registerTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{Name: ToolSearchProjects, Description: description(ToolSearchProjects)}, s.mcpSearchHandler)
	mcp.AddTool(s.mcp, &mcp.Tool{Name: ToolListCategories, Description: description(ToolListCategories)}, s.mcpListCategoriesHandler)
	mcp.AddTool(s.mcp, &mcp.Tool{Name: ToolToggleBookmark, Description: description(ToolToggleBookmark)}, s.mcpToggleBookmarkHandler)
	mcp.AddTool(s.mcp, &mcp.Tool{Name: ToolListBookmarks, Description: description(ToolListBookmarks)}, s.mcpListBookmarksHandler)
	s.logger.Debug("mcp_tools_registered", slog.Int("count", len(tools)))
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{Content: []mcp.Content{&mcp.TextContent{Text: text}}}
}

// search runs one search_projects call.
func (s *Server) search(ctx context.Context, in SearchInput) (SearchOutput, error) {
	if in.Page < 0 {
		return SearchOutput{}, NewInvalidParamsError("page must be a positive integer")
	}
	page := ""
	if in.Page > 0 {
		page = fmt.Sprint(in.Page)
	}
	state, err := shell.ParseState(in.Query, in.Category, in.Sort, page, s.defaultSort)
	if err != nil {
		return SearchOutput{}, MapError(err)
	}

	requestID := uuid.NewString()
	start := time.Now()
	s.logger.Info("search_started",
		slog.String("request_id", requestID),
		slog.String("query", in.Query))

	view, err := s.searcher.Search(ctx, state, telemetry.SourceMCP)
	if err != nil {
		s.logger.Error("search_failed",
			slog.String("request_id", requestID),
			slog.String("error", err.Error()))
		return SearchOutput{}, MapError(err)
	}

	s.logger.Info("search_completed",
		slog.String("request_id", requestID),
		slog.Duration("duration", time.Since(start)),
		slog.Int("result_count", view.TotalItems))
	return toSearchOutput(view), nil
}

func (s *Server) listCategories() ListCategoriesOutput {
	return ListCategoriesOutput{Categories: s.searcher.Holder.Current().Catalog.Categories()}
}

func (s *Server) toggleBookmark(ctx context.Context, in ToggleBookmarkInput) (ToggleBookmarkOutput, error) {
	if in.ID == "" {
		return ToggleBookmarkOutput{}, NewInvalidParamsError("id parameter is required")
	}
	if _, ok := s.searcher.Holder.Lookup(in.ID); !ok {
		return ToggleBookmarkOutput{}, NewNotFoundError(in.ID)
	}
	added, err := s.searcher.Bookmarks(ctx).Toggle(in.ID)
	if err != nil {
		return ToggleBookmarkOutput{}, MapError(err)
	}
	return ToggleBookmarkOutput{ID: in.ID, Bookmarked: added, Message: bookmarks.Message(added)}, nil
}

func (s *Server) listBookmarks(ctx context.Context) (ListBookmarksOutput, error) {
	list, err := s.searcher.Bookmarks(ctx).List()
	if err != nil {
		return ListBookmarksOutput{}, MapError(err)
	}
	return toBookmarksOutput(list), nil
}

func (s *Server) mcpSearchHandler(ctx context.Context, _ *mcp.CallToolRequest, in SearchInput) (
	*mcp.CallToolResult,
	SearchOutput,
	error,
) {
	out, err := s.search(ctx, in)
	if err != nil {
		return nil, SearchOutput{}, err
	}
	return textResult(FormatSearchResults(out)), out, nil
}

func (s *Server) mcpListCategoriesHandler(_ context.Context, _ *mcp.CallToolRequest, _ ListCategoriesInput) (
	*mcp.CallToolResult,
	ListCategoriesOutput,
	error,
) {
	out := s.listCategories()
	return textResult(FormatCategories(out)), out, nil
}

func (s *Server) mcpToggleBookmarkHandler(ctx context.Context, _ *mcp.CallToolRequest, in ToggleBookmarkInput) (
	*mcp.CallToolResult,
	ToggleBookmarkOutput,
	error,
) {
	out, err := s.toggleBookmark(ctx, in)
	if err != nil {
		return nil, ToggleBookmarkOutput{}, err
	}
	return textResult(out.Message), out, nil
}

func (s *Server) mcpListBookmarksHandler(ctx context.Context, _ *mcp.CallToolRequest, _ ListBookmarksInput) (
	*mcp.CallToolResult,
	ListBookmarksOutput,
	error,
) {
	out, err := s.listBookmarks(ctx)
	if err != nil {
		return nil, ListBookmarksOutput{}, err
	}
	return textResult(FormatBookmarks(out)), out, nil
}

// CallTool invokes a tool by name with JSON-style arguments and returns
// its markdown rendering. It bypasses the protocol layer.
func (s *Server) CallTool(ctx context.Context, name string, args map[string]any) (string, error) {
	switch name {
	case ToolSearchProjects:
		var in SearchInput
		if err := decodeArgs(args, &in); err != nil {
			return "", err
		}
		out, err := s.search(ctx, in)
		if err != nil {
			return "", err
		}
		return FormatSearchResults(out), nil
	case ToolListCategories:
		return FormatCategories(s.listCategories()), nil
	case ToolToggleBookmark:
		var in ToggleBookmarkInput
		if err := decodeArgs(args, &in); err != nil {
			return "", err
		}
		out, err := s.toggleBookmark(ctx, in)
		if err != nil {
			return "", err
		}
		return out.Message, nil
	case ToolListBookmarks:
		out, err := s.listBookmarks(ctx)
		if err != nil {
			return "", err
		}
		return FormatBookmarks(out), nil
	default:
		return "", NewMethodNotFoundError(name)
	}
}

func decodeArgs(args map[string]any, v any) error {
	if len(args) == 0 {
		return nil
	}
	data, err := json.Marshal(args)
	if err != nil {
		return NewInvalidParamsError(err.Error())
	}
	if err := json.Unmarshal(data, v); err != nil {
		return NewInvalidParamsError(fmt.Sprintf("invalid arguments: %v", err))
	}
	return nil
}

// Serve runs the server on stdio until ctx is done or the client
// disconnects.
func (s *Server) Serve(ctx context.Context) error {
	return s.serveWithTransport(ctx, &mcp.StdioTransport{})
}

func (s *Server) serveWithTransport(ctx context.Context, t mcp.Transport) error {
	s.logger.Info("mcp_server_started")
	err := s.mcp.Run(ctx, t)
	if err != nil && !errors.Is(err, context.Canceled) {
		s.logger.Error("mcp_server_stopped", slog.String("error", err.Error()))
		return err
	}
	s.logger.Info("mcp_server_stopped")
	return nil
}
