package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/openplayground/catalog/internal/theme"
)

// Palette is the set of colors for one theme.
type Palette struct {
	Accent   string
	Text     string
	Muted    string
	Border   string
	Bookmark string
	Error    string
}

// Palettes for the two themes. Hex colors degrade to the nearest ANSI color
// on limited terminals.
var (
	LightPalette = Palette{
		Accent:   "#4F46E5",
		Text:     "#1F2937",
		Muted:    "#6B7280",
		Border:   "#D1D5DB",
		Bookmark: "#D97706",
		Error:    "#DC2626",
	}
	DarkPalette = Palette{
		Accent:   "#A5B4FC",
		Text:     "#F3F4F6",
		Muted:    "#9CA3AF",
		Border:   "#374151",
		Bookmark: "#FBBF24",
		Error:    "#F87171",
	}
)

// PaletteFor returns the palette of t.
func PaletteFor(t theme.Theme) Palette {
	if t == theme.Dark {
		return DarkPalette
	}
	return LightPalette
}

// Styles holds the browser's lipgloss styles.
type Styles struct {
	Header    lipgloss.Style
	Title     lipgloss.Style
	Selected  lipgloss.Style
	Category  lipgloss.Style
	Active    lipgloss.Style
	Dim       lipgloss.Style
	Bookmark  lipgloss.Style
	Toast     lipgloss.Style
	Error     lipgloss.Style
	Panel     lipgloss.Style
	Paginator lipgloss.Style
}

// NewStyles builds styles from a palette.
func NewStyles(p Palette) Styles {
	return Styles{
		Header:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(p.Accent)),
		Title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(p.Text)),
		Selected: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(p.Accent)),
		Category: lipgloss.NewStyle().Foreground(lipgloss.Color(p.Muted)),
		Active:   lipgloss.NewStyle().Bold(true).Underline(true).Foreground(lipgloss.Color(p.Accent)),
		Dim:      lipgloss.NewStyle().Foreground(lipgloss.Color(p.Muted)),
		Bookmark: lipgloss.NewStyle().Foreground(lipgloss.Color(p.Bookmark)),
		Toast:    lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color(p.Bookmark)),
		Error:    lipgloss.NewStyle().Foreground(lipgloss.Color(p.Error)),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(p.Border)).
			Padding(0, 1),
		Paginator: lipgloss.NewStyle().Foreground(lipgloss.Color(p.Text)),
	}
}

// NoColorStyles returns unstyled components for plain mode.
func NoColorStyles() Styles {
	plain := lipgloss.NewStyle()
	return Styles{
		Header:    plain,
		Title:     plain,
		Selected:  plain,
		Category:  plain,
		Active:    plain,
		Dim:       plain,
		Bookmark:  plain,
		Toast:     plain,
		Error:     plain,
		Panel:     plain.Border(lipgloss.NormalBorder()),
		Paginator: plain,
	}
}

// StylesFor returns styles for t, or unstyled ones when noColor is set.
func StylesFor(t theme.Theme, noColor bool) Styles {
	if noColor {
		return NoColorStyles()
	}
	return NewStyles(PaletteFor(t))
}
