// Package tui is the interactive catalog shell: a bubbletea program that maps
// routes to screens and renders the shared alert banner and loading spinner.
package tui

import (
	"fmt"
	"strings"

	"github.com/blackwell-systems/catalogctl/internal/model"
	"github.com/blackwell-systems/catalogctl/internal/service"
	"github.com/blackwell-systems/catalogctl/internal/store"
	"github.com/blackwell-systems/catalogctl/internal/view"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Deps is everything the shell needs from the session.
type Deps struct {
	Env     view.Env
	Catalog *service.Catalog
	Version string
}

// screen is one routed page of the shell.
type screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) tea.Cmd
	View(width, height int) string
	// Close unmounts the underlying view; late results are dropped.
	Close()
}

// storeChangedMsg is sent when the store changes outside the event loop
// (alert expiry). It only triggers a redraw.
type storeChangedMsg struct{}

// Model is the orchestrator that owns the current screen and switches
// screens on view.NavigateMsg.
type Model struct {
	deps    Deps
	route   Route
	screen  screen
	spinner spinner.Model
	width   int
	height  int
}

// New creates the shell positioned at start ("/" for the home menu).
func New(deps Deps, start string) Model {
	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = lipgloss.NewStyle().Foreground(ColorYellow)
	m := Model{deps: deps, spinner: sp}
	m.route = ParseRoute(start)
	m.screen = m.build(m.route)
	return m
}

// Route returns the current route.
func (m Model) Route() Route { return m.route }

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.screen.Init())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, m.screen.Update(msg)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.screen.Close()
			return m, tea.Quit
		}
		return m, m.screen.Update(msg)

	case view.NavigateMsg:
		return m.navigate(msg.Route)

	case quitMsg:
		m.screen.Close()
		return m, tea.Quit

	case storeChangedMsg:
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	default:
		return m, m.screen.Update(msg)
	}
}

func (m Model) navigate(path string) (tea.Model, tea.Cmd) {
	m.screen.Close()
	m.route = ParseRoute(path)
	m.screen = m.build(m.route)
	initCmd := m.screen.Init()
	if m.width > 0 {
		sizeCmd := m.screen.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height})
		return m, tea.Batch(initCmd, sizeCmd)
	}
	return m, initCmd
}

func (m Model) build(r Route) screen {
	d, c := m.deps, m.deps.Catalog
	switch r.Page {
	case PageHome:
		return newHomeScreen(d)
	case PageList:
		switch r.Kind {
		case model.KindAuthor:
			return newListScreen(d, view.AuthorList(c), authorColumns, "")
		case model.KindGenre:
			return newListScreen(d, view.GenreList(c), genreColumns, "")
		default:
			return newListScreen(d, view.BookList(c, r.Filter), bookColumns, bookListTitle(r.Filter))
		}
	case PageDetail:
		switch r.Kind {
		case model.KindAuthor:
			return newDetailScreen(d, view.AuthorDetail(c), r.ID, authorSections)
		case model.KindGenre:
			return newDetailScreen(d, view.GenreDetail(c), r.ID, genreSections)
		default:
			return newDetailScreen(d, view.BookDetail(c), r.ID, bookSections)
		}
	case PageNew, PageEdit:
		switch r.Kind {
		case model.KindAuthor:
			return newFormScreen(d, view.AuthorForm(c), r.ID, authorFormSpec)
		case model.KindGenre:
			return newFormScreen(d, view.GenreForm(c), r.ID, genreFormSpec)
		default:
			return newFormScreen(d, view.BookForm(c), r.ID, bookFormSpec)
		}
	}
	return newNotFoundScreen(r.Path)
}

func (m Model) View() string {
	s := m.deps.Env.Store

	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("86")).
		Render("catalogctl")
	crumb := StyleHelp.Render("  " + m.route.Path)
	if n := s.InFlight(); n > 0 {
		crumb += "  " + m.spinner.View()
		if n > 1 {
			crumb += StyleHelp.Render(fmt.Sprintf(" %d requests", n))
		}
	}

	var b strings.Builder
	b.WriteString(header + crumb)
	b.WriteString("\n")
	if a := s.Alert(); a.Visible {
		b.WriteString(renderAlert(a))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	// Outer padding and the header lines.
	w, h := m.width-8, m.height-8
	b.WriteString(m.screen.View(w, h))
	return lipgloss.NewStyle().Padding(1, 4).Render(b.String())
}

func renderAlert(a store.Alert) string {
	switch a.Severity {
	case store.SeverityError:
		return alertStyle(ColorRed).Render("✗ " + a.Message)
	case store.SeverityWarning:
		return alertStyle(ColorYellow).Render("! " + a.Message)
	default:
		return alertStyle(ColorGreen).Render("✓ " + a.Message)
	}
}

// quitMsg asks the shell to exit.
type quitMsg struct{}

func quit() tea.Msg { return quitMsg{} }

// notFoundScreen is shown for unknown routes.
type notFoundScreen struct {
	path string
}

func newNotFoundScreen(path string) *notFoundScreen { return &notFoundScreen{path: path} }

func (s *notFoundScreen) Init() tea.Cmd { return nil }
func (s *notFoundScreen) Close()        {}

func (s *notFoundScreen) Update(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, keys.Quit):
			return quit
		case key.Matches(msg, keys.Back), key.Matches(msg, keys.Select):
			return view.Navigate("/")
		}
	}
	return nil
}

func (s *notFoundScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString(StyleHeader.Render("Page not found"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("Nothing lives at %s.", StyleHighlight.Render(s.path)))
	b.WriteString("\n\n")
	b.WriteString(renderFooterBar([]shortcutEntry{{Label: "enter home"}, {Label: "q quit"}}, ""))
	return StyleBorder.Padding(0, 2).Render(b.String())
}
