package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/openplayground/catalog/internal/bookmarks"
	"github.com/openplayground/catalog/internal/catalog"
	perrors "github.com/openplayground/catalog/internal/errors"
	"github.com/openplayground/catalog/internal/live"
	"github.com/openplayground/catalog/internal/shell"
	"github.com/openplayground/catalog/internal/telemetry"
	"github.com/openplayground/catalog/internal/theme"
)

// toastDuration is how long a bookmark or theme notice stays visible.
const toastDuration = 2 * time.Second

// BrowserDeps are the collaborators the browser drives.
type BrowserDeps struct {
	Searcher    *live.Searcher
	Theme       *theme.Preference
	DefaultSort shell.Sort
}

type toastExpiredMsg struct{ id int }

// browserModel is the bubbletea model for the catalog browser.
type browserModel struct {
	ctx  context.Context
	deps BrowserDeps

	input      textinput.Model
	state      shell.State
	view       shell.View
	categories []catalog.CategoryCount
	selected   int

	theme   theme.Theme
	noColor bool
	styles  Styles

	toast   string
	toastID int
	err     error

	width    int
	quitting bool
}

// newBrowserModel loads the theme and renders the first page.
func newBrowserModel(ctx context.Context, deps BrowserDeps, noColor bool) (*browserModel, error) {
	if deps.Searcher == nil {
		return nil, errors.New("searcher is required")
	}

	ti := textinput.New()
	ti.Placeholder = "Search projects..."
	ti.Prompt = "/ "
	ti.CharLimit = 120
	ti.Focus()

	m := &browserModel{
		ctx:     ctx,
		deps:    deps,
		input:   ti,
		state:   shell.NewState(deps.DefaultSort),
		theme:   theme.Default,
		noColor: noColor,
		width:   80,
	}

	if deps.Theme != nil {
		t, err := deps.Theme.Get(ctx)
		if err != nil {
			slog.Warn("theme_load_failed", slog.String("error", err.Error()))
		}
		m.theme = t
	}
	m.styles = StylesFor(m.theme, noColor)
	m.categories = deps.Searcher.Holder.Current().Catalog.Categories()
	m.refresh()
	return m, nil
}

// Init implements tea.Model.
func (m *browserModel) Init() tea.Cmd {
	return textinput.Blink
}

// refresh re-renders the current state.
func (m *browserModel) refresh() {
	view, err := m.deps.Searcher.Search(m.ctx, m.state, telemetry.SourceTUI)
	if err != nil {
		m.err = err
		return
	}
	m.err = nil
	m.view = view
	m.state = view.State
	if m.selected >= len(view.Cards) {
		m.selected = max(0, len(view.Cards)-1)
	}
}

func (m *browserModel) showToast(msg string) tea.Cmd {
	m.toast = msg
	m.toastID++
	id := m.toastID
	return tea.Tick(toastDuration, func(time.Time) tea.Msg { return toastExpiredMsg{id: id} })
}

// cycleCategory moves the category filter by step through the category list.
func (m *browserModel) cycleCategory(step int) {
	if len(m.categories) == 0 {
		return
	}
	i := 0
	for j, c := range m.categories {
		if c.Key == m.state.Category {
			i = j
			break
		}
	}
	i = (i + step + len(m.categories)) % len(m.categories)
	m.state = m.state.WithCategory(m.categories[i].Key)
	m.selected = 0
	m.refresh()
}

func (m *browserModel) toggleBookmark() tea.Cmd {
	if len(m.view.Cards) == 0 || m.deps.Searcher.KV == nil {
		return nil
	}
	card := m.view.Cards[m.selected]
	added, err := m.deps.Searcher.Bookmarks(m.ctx).Toggle(card.Project.ID)
	if err != nil {
		m.err = err
		return nil
	}
	m.refresh()
	return m.showToast(bookmarks.Message(added))
}

func (m *browserModel) toggleTheme() tea.Cmd {
	next := m.theme.Opposite()
	if m.deps.Theme != nil {
		t, err := m.deps.Theme.Toggle(m.ctx)
		if err != nil {
			m.err = err
			return nil
		}
		next = t
	}
	m.theme = next
	m.styles = StylesFor(next, m.noColor)
	return m.showToast(fmt.Sprintf("Theme: %s", next))
}

// Update implements tea.Model.
func (m *browserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "esc":
			if m.input.Value() == "" {
				m.quitting = true
				return m, tea.Quit
			}
			m.input.SetValue("")
			m.state = m.state.ClearSearch()
			m.refresh()
			return m, nil
		case "left":
			m.state = m.state.PrevPage()
			m.selected = 0
			m.refresh()
			return m, nil
		case "right":
			m.state = m.state.NextPage()
			m.selected = 0
			m.refresh()
			return m, nil
		case "tab":
			m.cycleCategory(1)
			return m, nil
		case "shift+tab":
			m.cycleCategory(-1)
			return m, nil
		case "ctrl+s":
			m.state = m.state.WithSort(m.state.Sort.Next())
			m.selected = 0
			m.refresh()
			return m, nil
		case "up":
			if m.selected > 0 {
				m.selected--
			}
			return m, nil
		case "down":
			if m.selected < len(m.view.Cards)-1 {
				m.selected++
			}
			return m, nil
		case "ctrl+b":
			return m, m.toggleBookmark()
		case "ctrl+t":
			return m, m.toggleTheme()
		case "enter":
			if len(m.view.Cards) > 0 {
				if link := m.view.Cards[m.selected].Project.Link; link != "" {
					return m, m.showToast(link)
				}
			}
			return m, nil
		}

		var cmd tea.Cmd
		before := m.input.Value()
		m.input, cmd = m.input.Update(msg)
		if after := m.input.Value(); after != before {
			m.state = m.state.WithQuery(after)
			m.selected = 0
			m.refresh()
		}
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case toastExpiredMsg:
		if msg.id == m.toastID {
			m.toast = ""
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m *browserModel) View() string {
	if m.quitting {
		return ""
	}

	var sections []string
	sections = append(sections, m.renderHeader())
	sections = append(sections, m.input.View())
	sections = append(sections, m.renderCategories())
	sections = append(sections, "")
	sections = append(sections, m.renderCards())
	if m.view.Pagination.Visible() {
		sections = append(sections, "", m.styles.Paginator.Render(m.view.Pagination.String()))
	}

	content := strings.Join(sections, "\n")
	panel := m.styles.Panel.Width(max(m.width-4, 40)).Render(content)

	footer := []string{panel}
	if m.err != nil {
		footer = append(footer, m.styles.Error.Render(strings.TrimSpace(perrors.FormatForUser(m.err, false))))
	}
	if m.toast != "" {
		footer = append(footer, m.styles.Toast.Render(m.toast))
	}
	footer = append(footer, m.styles.Dim.Render("←/→ page • tab category • ctrl+s sort • ↑/↓ select • ctrl+b bookmark • ctrl+t theme • esc quit"))
	return strings.Join(footer, "\n")
}

func (m *browserModel) renderHeader() string {
	return m.styles.Header.Render("Open Playground") +
		m.styles.Dim.Render(fmt.Sprintf("  %d of %d • sort: %s • theme: %s",
			m.view.TotalItems, m.deps.Searcher.Holder.Current().Catalog.Len(), m.state.Sort, m.theme))
}

func (m *browserModel) renderCategories() string {
	parts := make([]string, 0, len(m.categories))
	for _, c := range m.categories {
		if c.Key == m.state.Category {
			parts = append(parts, m.styles.Active.Render(c.Label))
		} else {
			parts = append(parts, m.styles.Category.Render(c.Label))
		}
	}
	return strings.Join(parts, "  ")
}

func (m *browserModel) renderCards() string {
	if m.view.Empty() {
		return m.styles.Dim.Render(EmptyMessage)
	}

	lines := make([]string, 0, 2*len(m.view.Cards))
	for i, c := range m.view.Cards {
		cursor := "  "
		title := m.styles.Title.Render(c.Project.Title)
		if i == m.selected {
			cursor = m.styles.Selected.Render("> ")
			title = m.styles.Selected.Render(c.Project.Title)
		}
		mark := ""
		if c.Bookmarked {
			mark = " " + m.styles.Bookmark.Render("★")
		}
		lines = append(lines, cursor+title+mark+" "+m.styles.Category.Render("["+c.Project.Category+"]"))
		if c.Project.Description != "" {
			lines = append(lines, "    "+m.styles.Dim.Render(c.Project.Description))
		}
	}
	return strings.Join(lines, "\n")
}

// RunBrowser runs the interactive browser until the user quits or ctx is
// done. Non-interactive output gets a plain listing of the first page.
func RunBrowser(ctx context.Context, deps BrowserDeps, cfg Config) error {
	if !cfg.Interactive() {
		view, err := deps.Searcher.Search(ctx, shell.NewState(deps.DefaultSort), telemetry.SourceCLI)
		if err != nil {
			return err
		}
		return NewPlainRenderer(cfg.Output).Render(view)
	}

	m, err := newBrowserModel(ctx, deps, cfg.ColorDisabled())
	if err != nil {
		return err
	}

	p := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithOutput(cfg.Output),
		tea.WithAltScreen(),
	)
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("browser: %w", err)
	}
	return nil
}
