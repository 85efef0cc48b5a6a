package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/openplayground/catalog/internal/shell"
)

// PlainRenderer writes a rendered view as plain text.
type PlainRenderer struct {
	out io.Writer
}

// NewPlainRenderer creates a plain text renderer.
func NewPlainRenderer(out io.Writer) *PlainRenderer {
	return &PlainRenderer{out: out}
}

// Render writes view.
func (r *PlainRenderer) Render(view shell.View) error {
	_, err := io.WriteString(r.out, FormatPlain(view))
	return err
}

// FormatPlain renders view as text: a summary line, one block per card,
// then the pagination strip.
func FormatPlain(view shell.View) string {
	var sb strings.Builder

	st := view.State
	fmt.Fprintf(&sb, "%d project", view.TotalItems)
	if view.TotalItems != 1 {
		sb.WriteString("s")
	}
	if st.Query != "" {
		fmt.Fprintf(&sb, " matching %q", st.Query)
	}
	fmt.Fprintf(&sb, " (category: %s, sort: %s)\n", st.Category, st.Sort)

	if view.Empty() {
		sb.WriteString("\n" + EmptyMessage + "\n")
		return sb.String()
	}
	sb.WriteString("\n")

	offset := (st.Page - 1) * view.PageSize
	for i, c := range view.Cards {
		mark := ""
		if c.Bookmarked {
			mark = " ★"
		}
		fmt.Fprintf(&sb, "%3d. %s%s [%s]\n", offset+i+1, c.Project.Title, mark, c.Project.Category)
		if c.Project.Description != "" {
			fmt.Fprintf(&sb, "     %s\n", c.Project.Description)
		}
		if c.Project.Link != "" {
			fmt.Fprintf(&sb, "     %s\n", c.Project.Link)
		}
	}

	if view.Pagination.Visible() {
		fmt.Fprintf(&sb, "\n%s\n", view.Pagination.String())
	}
	return sb.String()
}
