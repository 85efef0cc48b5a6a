// Package output writes short, human-readable status lines for CLI
// commands.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/openplayground/catalog/internal/bookmarks"
	"github.com/openplayground/catalog/internal/catalog"
)

// Writer formats CLI output.
type Writer struct {
	out io.Writer
}

// New creates a Writer on out.
func New(out io.Writer) *Writer {
	return &Writer{out: out}
}

// Status prints a message with an optional leading icon.
func (w *Writer) Status(icon, msg string) {
	if icon != "" {
		_, _ = fmt.Fprintf(w.out, "%s %s\n", icon, msg)
	} else {
		_, _ = fmt.Fprintf(w.out, "   %s\n", msg)
	}
}

// Statusf is Status with formatting.
func (w *Writer) Statusf(icon, format string, args ...any) {
	w.Status(icon, fmt.Sprintf(format, args...))
}

// Success prints a success line.
func (w *Writer) Success(msg string) {
	w.Status("✅", msg)
}

// Successf is Success with formatting.
func (w *Writer) Successf(format string, args ...any) {
	w.Success(fmt.Sprintf(format, args...))
}

// Warning prints a warning line.
func (w *Writer) Warning(msg string) {
	w.Status("⚠️ ", msg)
}

// Warningf is Warning with formatting.
func (w *Writer) Warningf(format string, args ...any) {
	w.Warning(fmt.Sprintf(format, args...))
}

// Error prints an error line.
func (w *Writer) Error(msg string) {
	w.Status("❌", msg)
}

// Code prints content indented between blank lines.
func (w *Writer) Code(content string) {
	_, _ = fmt.Fprintln(w.out)
	for _, line := range strings.Split(strings.TrimRight(content, "\n"), "\n") {
		_, _ = fmt.Fprintf(w.out, "  %s\n", line)
	}
	_, _ = fmt.Fprintln(w.out)
}

// Newline prints an empty line.
func (w *Writer) Newline() {
	_, _ = fmt.Fprintln(w.out)
}

// Field prints an aligned "label: value" line.
func (w *Writer) Field(label string, value any) {
	_, _ = fmt.Fprintf(w.out, "  %-10s %v\n", label+":", value)
}

// JSON prints v as indented JSON.
func (w *Writer) JSON(v any) error {
	enc := json.NewEncoder(w.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Categories prints one line per category, keys aligned.
func (w *Writer) Categories(cats []catalog.CategoryCount) {
	width := 0
	for _, c := range cats {
		width = max(width, len(c.Key))
	}
	for _, c := range cats {
		_, _ = fmt.Fprintf(w.out, "%-*s  %s\n", width, c.Key, c.Label)
	}
}

// Bookmarks prints the bookmark list, or a note when it is empty.
func (w *Writer) Bookmarks(list []bookmarks.Bookmark) {
	if len(list) == 0 {
		w.Status("", "No bookmarks yet.")
		return
	}
	for i, b := range list {
		line := fmt.Sprintf("%2d. %s", i+1, b.Title)
		if b.Category != "" {
			line += " [" + b.Category + "]"
		}
		if b.ID != b.Title {
			line += " (" + b.ID + ")"
		}
		_, _ = fmt.Fprintln(w.out, line)
	}
}
