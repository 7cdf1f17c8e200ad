package tui

import (
	"fmt"
	"io"

	"github.com/blackwell-systems/catalogctl/internal/model"
	"github.com/blackwell-systems/catalogctl/internal/tui/delegate"
	"github.com/blackwell-systems/catalogctl/internal/view"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// menuItem is an entry of the home menu.
type menuItem struct {
	Route       string
	Label       string
	Description string
	Kind        model.Kind // set for entries that show a total
}

// FilterValue implements list.Item
func (m menuItem) FilterValue() string {
	return m.Label + " " + m.Description
}

var menuItems = []menuItem{
	{Route: "/authors", Label: "Authors", Description: "Browse authors", Kind: model.KindAuthor},
	{Route: "/genres", Label: "Genres", Description: "Browse genres", Kind: model.KindGenre},
	{Route: "/books", Label: "Books", Description: "Browse and search books", Kind: model.KindBook},
	{Route: "/authors/new", Label: "New Author", Description: "Register an author"},
	{Route: "/genres/new", Label: "New Genre", Description: "Register a genre"},
	{Route: "/books/new", Label: "New Book", Description: "Add a book to the catalog"},
	{Route: "", Label: "Quit", Description: "Exit catalogctl"},
}

type homeScreen struct {
	home *view.Home
	list list.Model
}

func newHomeScreen(d Deps) *homeScreen {
	h := &homeScreen{home: view.NewHome(d.Env, view.Counts(d.Catalog))}

	items := make([]list.Item, len(menuItems))
	for i, it := range menuItems {
		items[i] = it
	}
	l := list.New(items, delegate.New(h.renderItem), 60, len(menuItems)+4)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowPagination(false)
	l.Styles.HelpStyle = StyleHelp
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Select}
	}
	h.list = l
	return h
}

func (h *homeScreen) Init() tea.Cmd { return h.home.Mount() }
func (h *homeScreen) Close()        { h.home.Unmount() }

func (h *homeScreen) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit), msg.String() == "esc":
			return quit
		case key.Matches(msg, keys.Select):
			if item, ok := h.list.SelectedItem().(menuItem); ok {
				if item.Route == "" {
					return quit
				}
				return view.Navigate(item.Route)
			}
			return nil
		}

	case tea.WindowSizeMsg:
		h.list.SetSize(max(msg.Width-16, 40), max(msg.Height-12, len(menuItems)+2))
		return nil
	}

	if cmd := h.home.Update(msg); cmd != nil {
		return cmd
	}
	var cmd tea.Cmd
	h.list, cmd = h.list.Update(msg)
	return cmd
}

func (h *homeScreen) View(width, height int) string {
	title := StyleHeader.Render("Book Catalog")
	return StyleBorder.Padding(0, 2, 0, 1).Render(lipgloss.JoinVertical(lipgloss.Left, title, "", h.list.View()))
}

// renderItem renders one menu entry with its live total when known.
func (h *homeScreen) renderItem(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(menuItem)
	if !ok {
		return
	}
	desc := it.Description
	if it.Kind != "" && h.home.Loaded() {
		if n := h.home.Count(it.Kind); n == view.Unknown {
			desc += " (—)"
		} else {
			desc += fmt.Sprintf(" (%d)", n)
		}
	}
	display := fmt.Sprintf("%-14s %s", it.Label, StyleHelp.Render(desc))
	delegate.Row(w, m, index, display, StyleHighlight, StyleNormal)
}
