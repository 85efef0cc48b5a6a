package mcp

import (
	"time"

	"github.com/openplayground/catalog/internal/bookmarks"
	"github.com/openplayground/catalog/internal/catalog"
	"github.com/openplayground/catalog/internal/shell"
)

// SearchInput defines the input schema for the search_projects tool.
type SearchInput struct {
	Query    string `json:"query,omitempty" jsonschema:"case-insensitive text matched against title, category and description; empty lists everything"`
	Category string `json:"category,omitempty" jsonschema:"category key to filter by, or all"`
	Sort     string `json:"sort,omitempty" jsonschema:"one of default, az, za, newest, relevance"`
	Page     int    `json:"page,omitempty" jsonschema:"1-based page number, default 1"`
}

// SearchOutput defines the output schema for the search_projects tool.
type SearchOutput struct {
	Query      string          `json:"query"`
	Category   string          `json:"category"`
	Sort       string          `json:"sort"`
	Page       int             `json:"page"`
	TotalPages int             `json:"total_pages"`
	Total      int             `json:"total"`
	Projects   []ProjectOutput `json:"projects"`
}

// ProjectOutput is one project in tool output.
type ProjectOutput struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Link        string   `json:"link,omitempty"`
	Tech        []string `json:"tech,omitempty"`
	Bookmarked  bool     `json:"bookmarked"`
	Matched     []string `json:"matched,omitempty" jsonschema:"fields the query matched in"`
}

// ListCategoriesInput defines the input schema for list_categories (no parameters).
type ListCategoriesInput struct{}

// ListCategoriesOutput defines the output schema for list_categories.
type ListCategoriesOutput struct {
	Categories []catalog.CategoryCount `json:"categories"`
}

// ToggleBookmarkInput defines the input schema for toggle_bookmark.
type ToggleBookmarkInput struct {
	ID string `json:"id" jsonschema:"project id (its title unless the catalog sets one)"`
}

// ToggleBookmarkOutput defines the output schema for toggle_bookmark.
type ToggleBookmarkOutput struct {
	ID         string `json:"id"`
	Bookmarked bool   `json:"bookmarked"`
	Message    string `json:"message"`
}

// ListBookmarksInput defines the input schema for list_bookmarks (no parameters).
type ListBookmarksInput struct{}

// ListBookmarksOutput defines the output schema for list_bookmarks.
type ListBookmarksOutput struct {
	Bookmarks []BookmarkOutput `json:"bookmarks"`
}

// BookmarkOutput is one bookmark in tool output.
type BookmarkOutput struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Category string `json:"category,omitempty"`
	AddedAt  string `json:"added_at" jsonschema:"RFC 3339 timestamp"`
}

func toBookmarksOutput(list []bookmarks.Bookmark) ListBookmarksOutput {
	out := ListBookmarksOutput{Bookmarks: make([]BookmarkOutput, 0, len(list))}
	for _, b := range list {
		out.Bookmarks = append(out.Bookmarks, BookmarkOutput{
			ID:       b.ID,
			Title:    b.Title,
			Category: b.Category,
			AddedAt:  b.AddedAt.Format(time.RFC3339),
		})
	}
	return out
}

func toSearchOutput(view shell.View) SearchOutput {
	out := SearchOutput{
		Query:      view.State.Query,
		Category:   view.State.Category,
		Sort:       string(view.State.Sort),
		Page:       view.State.Page,
		TotalPages: view.Pagination.TotalPages,
		Total:      view.TotalItems,
		Projects:   make([]ProjectOutput, 0, len(view.Cards)),
	}
	for _, c := range view.Cards {
		po := ProjectOutput{
			ID:          c.Project.ID,
			Title:       c.Project.Title,
			Category:    c.Project.Category,
			Description: c.Project.Description,
			Link:        c.Project.Link,
			Tech:        c.Project.Tech,
			Bookmarked:  c.Bookmarked,
		}
		for _, f := range c.Matched {
			po.Matched = append(po.Matched, string(f))
		}
		out.Projects = append(out.Projects, po)
	}
	return out
}
