package mcp

import (
	"fmt"
	"strings"
)

// FormatSearchResults renders search output as markdown.
func FormatSearchResults(out SearchOutput) string {
	if out.Total == 0 {
		if strings.TrimSpace(out.Query) == "" {
			return "No projects in this category."
		}
		return fmt.Sprintf("No projects found for \"%s\"", out.Query)
	}

	var sb strings.Builder
	if out.Query != "" {
		fmt.Fprintf(&sb, "## Projects matching \"%s\"\n\n", out.Query)
	} else {
		sb.WriteString("## Projects\n\n")
	}
	fmt.Fprintf(&sb, "Found %d project", out.Total)
	if out.Total != 1 {
		sb.WriteString("s")
	}
	fmt.Fprintf(&sb, " (page %d of %d, sort: %s, category: %s)\n\n", out.Page, out.TotalPages, out.Sort, out.Category)

	for i, p := range out.Projects {
		formatProject(&sb, i+1, p)
	}
	return sb.String()
}

func formatProject(sb *strings.Builder, n int, p ProjectOutput) {
	mark := ""
	if p.Bookmarked {
		mark = " ★"
	}
	fmt.Fprintf(sb, "### %d. %s%s\n", n, p.Title, mark)
	fmt.Fprintf(sb, "**Category:** %s", p.Category)
	if len(p.Tech) > 0 {
		fmt.Fprintf(sb, " | **Tech:** %s", strings.Join(p.Tech, ", "))
	}
	sb.WriteString("\n\n")
	if p.Description != "" {
		sb.WriteString(p.Description)
		sb.WriteString("\n\n")
	}
	if p.Link != "" {
		fmt.Fprintf(sb, "Link: %s\n\n", p.Link)
	}
	if len(p.Matched) > 0 {
		fmt.Fprintf(sb, "*Matched in: %s*\n\n", strings.Join(p.Matched, ", "))
	}
}

// FormatCategories renders the category list as markdown.
func FormatCategories(out ListCategoriesOutput) string {
	var sb strings.Builder
	sb.WriteString("## Categories\n\n")
	for _, c := range out.Categories {
		fmt.Fprintf(&sb, "- `%s` %s\n", c.Key, c.Label)
	}
	return sb.String()
}

// FormatBookmarks renders the bookmark list as markdown.
func FormatBookmarks(out ListBookmarksOutput) string {
	if len(out.Bookmarks) == 0 {
		return "No bookmarks yet."
	}
	var sb strings.Builder
	sb.WriteString("## Bookmarks\n\n")
	for _, b := range out.Bookmarks {
		fmt.Fprintf(&sb, "- %s", b.Title)
		if b.Category != "" {
			fmt.Fprintf(&sb, " (%s)", b.Category)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
