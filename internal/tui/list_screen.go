package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/blackwell-systems/catalogctl/internal/model"
	"github.com/blackwell-systems/catalogctl/internal/store"
	"github.com/blackwell-systems/catalogctl/internal/view"
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	xansi "github.com/charmbracelet/x/ansi"
)

// column renders one table column of a list screen.
type column[T any] struct {
	title string
	width int
	value func(T) string
}

type listScreen[T model.Entity] struct {
	list    *view.List[T]
	alerts  *store.Store
	cols    []column[T]
	title   string
	cursor  int
	search  textinput.Model
	finding bool // search prompt open (books only)

	activeCmd string
}

func newListScreen[T model.Entity](d Deps, src view.ListSource[T], cols []column[T], title string) *listScreen[T] {
	if title == "" {
		title = capitalize(src.Kind.Plural())
	}
	ti := textinput.New()
	ti.Placeholder = "title contains…"
	ti.Prompt = "/ "
	ti.CharLimit = 100
	ti.Width = 40
	ti.Cursor.SetMode(cursor.CursorStatic)
	return &listScreen[T]{
		list:   view.NewList(d.Env, src),
		alerts: d.Env.Store,
		cols:   cols,
		title:  title,
		search: ti,
	}
}

func (s *listScreen[T]) Init() tea.Cmd { return s.list.Mount() }
func (s *listScreen[T]) Close()        { s.list.Unmount() }

func (s *listScreen[T]) selected() (T, bool) {
	var zero T
	items := s.list.Items()
	if s.cursor < 0 || s.cursor >= len(items) {
		return zero, false
	}
	return items[s.cursor], true
}

func (s *listScreen[T]) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case clearActiveCmdMsg:
		s.activeCmd = ""
		return nil
	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	cmd := s.list.Update(msg)
	s.clampCursor()
	return cmd
}

func (s *listScreen[T]) handleKey(msg tea.KeyMsg) tea.Cmd {
	kind := s.list.Kind()

	if s.finding {
		switch msg.String() {
		case "enter":
			s.finding = false
			return view.Navigate(searchRoute(strings.TrimSpace(s.search.Value())))
		case "esc":
			s.finding = false
			s.search.Blur()
			return nil
		}
		var cmd tea.Cmd
		s.search, cmd = s.search.Update(msg)
		return cmd
	}

	if s.list.State() == view.ListConfirmPending {
		switch {
		case key.Matches(msg, keys.Confirm):
			return s.list.ConfirmDelete()
		case key.Matches(msg, keys.Cancel):
			s.list.CancelDelete()
		}
		return nil
	}

	switch {
	case key.Matches(msg, keys.Quit):
		return quit
	case key.Matches(msg, keys.Back):
		return view.Navigate("/")
	case key.Matches(msg, keys.Up):
		if s.cursor > 0 {
			s.cursor--
		}
	case key.Matches(msg, keys.Down):
		if s.cursor < len(s.list.Items())-1 {
			s.cursor++
		}
	case key.Matches(msg, keys.PrevPage):
		s.cursor = 0
		s.activeCmd = "prev"
		return tea.Batch(s.list.PrevPage(), highlightCmd())
	case key.Matches(msg, keys.NextPage):
		s.cursor = 0
		s.activeCmd = "next"
		return tea.Batch(s.list.NextPage(), highlightCmd())
	case key.Matches(msg, keys.Reload):
		return s.list.Reload()
	case key.Matches(msg, keys.New):
		return view.Navigate(newRoute(kind))
	case key.Matches(msg, keys.Dismiss):
		s.alerts.DismissAlert()
	case key.Matches(msg, keys.Search):
		if kind == model.KindBook {
			s.finding = true
			s.search.SetValue("")
			return s.search.Focus()
		}
	case key.Matches(msg, keys.Select):
		if it, ok := s.selected(); ok {
			return view.Navigate(detailRoute(kind, it.EntityID()))
		}
	case key.Matches(msg, keys.Edit):
		if it, ok := s.selected(); ok {
			return view.Navigate(editRoute(kind, it.EntityID()))
		}
	case key.Matches(msg, keys.Delete):
		if it, ok := s.selected(); ok {
			s.list.RequestDelete(it.EntityID())
		}
	}
	return nil
}

func (s *listScreen[T]) clampCursor() {
	if n := len(s.list.Items()); s.cursor >= n {
		s.cursor = max(n-1, 0)
	}
}

func (s *listScreen[T]) View(width, height int) string {
	var b strings.Builder
	b.WriteString(StyleHeader.Render(s.title))
	if s.list.State() == view.ListLoaded || s.list.State() == view.ListConfirmPending {
		b.WriteString(StyleHelp.Render(fmt.Sprintf("  %d total", s.list.TotalCount())))
	}
	b.WriteString("\n\n")

	switch s.list.State() {
	case view.ListIdle, view.ListLoading:
		if len(s.list.Items()) == 0 {
			b.WriteString(StyleHelp.Render("Loading…"))
			b.WriteString("\n")
			break
		}
		s.renderTable(&b)
	case view.ListFailed:
		b.WriteString(StyleError.Render(s.list.Err()))
		b.WriteString("\n")
		b.WriteString(StyleHelp.Render("Press r to retry."))
		b.WriteString("\n")
	default:
		if len(s.list.Items()) == 0 {
			b.WriteString(StyleHelp.Render(fmt.Sprintf("No %s found.", s.list.Kind().Plural())))
			b.WriteString("\n")
			break
		}
		s.renderTable(&b)
	}

	if bar := s.renderPagination(); bar != "" {
		b.WriteString("\n")
		b.WriteString(bar)
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch {
	case s.list.State() == view.ListConfirmPending:
		b.WriteString(StyleHighlight.Render(fmt.Sprintf("  Delete %s #%d? ", s.list.Kind().Singular(), s.list.PendingDelete())))
		b.WriteString(StyleHelp.Render("y/N"))
	case s.finding:
		b.WriteString(s.search.View())
	default:
		b.WriteString(renderFooterBar(s.shortcuts(), s.activeCmd))
	}
	return StyleBorder.Padding(0, 2, 0, 1).Render(b.String())
}

func (s *listScreen[T]) shortcuts() []shortcutEntry {
	sc := []shortcutEntry{
		{Label: "↑↓ move"},
		{Key: "prev", Label: "← prev"},
		{Key: "next", Label: "→ next"},
		{Label: "enter open"},
		{Label: "n new"},
		{Label: "e edit"},
		{Label: "d delete"},
	}
	if s.list.Kind() == model.KindBook {
		sc = append(sc, shortcutEntry{Label: "/ search"})
	}
	return append(sc, shortcutEntry{Label: "esc back"})
}

func (s *listScreen[T]) renderTable(b *strings.Builder) {
	var head strings.Builder
	head.WriteString("  ")
	for _, c := range s.cols {
		head.WriteString(cell(c.title, c.width))
	}
	b.WriteString(StyleHelp.Render(head.String()))
	b.WriteString("\n")

	for i, it := range s.list.Items() {
		var row strings.Builder
		for _, c := range s.cols {
			row.WriteString(cell(c.value(it), c.width))
		}
		if i == s.cursor {
			b.WriteString(StyleHighlight.Render("› " + row.String()))
		} else {
			b.WriteString("  " + StyleNormal.Render(row.String()))
		}
		b.WriteString("\n")
	}
}

// renderPagination renders "‹ 1 … 4 5 [6] 7 … 12 ›".
func (s *listScreen[T]) renderPagination() string {
	window := view.PageWindow(s.list.Page(), s.list.TotalPages())
	if window == nil {
		return ""
	}
	parts := make([]string, 0, len(window)+2)
	parts = append(parts, StyleHelp.Render("‹"))
	for _, p := range window {
		switch {
		case p == view.Ellipsis:
			parts = append(parts, StyleHelp.Render("…"))
		case p == s.list.Page():
			parts = append(parts, StyleHighlight.Render("["+strconv.Itoa(p)+"]"))
		default:
			parts = append(parts, strconv.Itoa(p))
		}
	}
	parts = append(parts, StyleHelp.Render("›"))
	return "  " + strings.Join(parts, " ")
}

// cell truncates and pads s to exactly width display columns plus a gap.
func cell(s string, width int) string {
	s = xansi.Truncate(s, width, "…")
	if pad := width - xansi.StringWidth(s); pad > 0 {
		s += strings.Repeat(" ", pad)
	}
	return s + "  "
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
