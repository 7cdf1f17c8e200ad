package tui

import (
	"fmt"
	"strings"

	"github.com/blackwell-systems/catalogctl/internal/model"
	"github.com/blackwell-systems/catalogctl/internal/store"
	"github.com/blackwell-systems/catalogctl/internal/view"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type field struct {
	label string
	value string
}

type link struct {
	label string
	route string
}

// sections is the rendered content of a detail page.
type sections struct {
	title      string
	fields     []field
	linksTitle string
	links      []link
}

type detailScreen[D any] struct {
	detail *view.Detail[D]
	alerts *store.Store
	render func(D) sections
	cursor int
}

func newDetailScreen[D any](d Deps, src view.DetailSource[D], id int, render func(D) sections) *detailScreen[D] {
	return &detailScreen[D]{
		detail: view.NewDetail(d.Env, src, id),
		alerts: d.Env.Store,
		render: render,
	}
}

func (s *detailScreen[D]) Init() tea.Cmd { return s.detail.Mount() }
func (s *detailScreen[D]) Close()        { s.detail.Unmount() }

func (s *detailScreen[D]) Update(msg tea.Msg) tea.Cmd {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return s.detail.Update(msg)
	}
	kind := s.detail.Kind()

	if s.detail.State() == view.DetailConfirmPending {
		switch {
		case key.Matches(km, keys.Confirm):
			return s.detail.ConfirmDelete()
		case key.Matches(km, keys.Cancel):
			s.detail.CancelDelete()
		}
		return nil
	}

	switch {
	case key.Matches(km, keys.Quit):
		return quit
	case key.Matches(km, keys.Back):
		return view.Navigate(view.ListRoute(kind))
	case key.Matches(km, keys.Dismiss):
		s.alerts.DismissAlert()
	}
	if s.detail.State() != view.DetailLoaded {
		return nil
	}

	links := s.render(s.detail.Data()).links
	switch {
	case key.Matches(km, keys.Up):
		if s.cursor > 0 {
			s.cursor--
		}
	case key.Matches(km, keys.Down):
		if s.cursor < len(links)-1 {
			s.cursor++
		}
	case key.Matches(km, keys.Select):
		if s.cursor < len(links) {
			return view.Navigate(links[s.cursor].route)
		}
	case key.Matches(km, keys.Edit):
		return view.Navigate(editRoute(kind, s.detail.ID()))
	case key.Matches(km, keys.Delete):
		s.detail.RequestDelete()
	}
	return nil
}

func (s *detailScreen[D]) View(width, height int) string {
	var b strings.Builder
	kind := s.detail.Kind()

	switch s.detail.State() {
	case view.DetailLoading:
		b.WriteString(StyleHelp.Render(fmt.Sprintf("Loading %s #%d…", kind.Singular(), s.detail.ID())))
		b.WriteString("\n")
	case view.DetailNotFound:
		b.WriteString(StyleHeader.Render(capitalize(kind.Singular()) + " not found"))
		b.WriteString("\n\n")
		b.WriteString(StyleHelp.Render(fmt.Sprintf("There is no %s with id %d.", kind.Singular(), s.detail.ID())))
		b.WriteString("\n")
	case view.DetailFailed:
		b.WriteString(StyleError.Render(s.detail.Err()))
		b.WriteString("\n")
	default:
		s.renderSections(&b, s.render(s.detail.Data()))
	}
	b.WriteString("\n")

	switch s.detail.State() {
	case view.DetailConfirmPending:
		b.WriteString(StyleHighlight.Render(fmt.Sprintf("  Delete this %s? ", kind.Singular())))
		b.WriteString(StyleHelp.Render("y/N"))
	case view.DetailRedirecting:
		b.WriteString(StyleHelp.Render("  Returning to the list…"))
	default:
		b.WriteString(renderFooterBar([]shortcutEntry{
			{Label: "↑↓ move"},
			{Label: "enter open"},
			{Label: "e edit"},
			{Label: "d delete"},
			{Label: "esc back"},
		}, ""))
	}
	return StyleBorder.Padding(0, 2, 0, 1).Render(b.String())
}

func (s *detailScreen[D]) renderSections(b *strings.Builder, sec sections) {
	label := lipgloss.NewStyle().
		Foreground(ColorGray).
		Width(12).
		Align(lipgloss.Right).
		PaddingRight(1)

	b.WriteString(StyleHeader.Render(sec.title))
	b.WriteString("\n\n")
	for _, f := range sec.fields {
		value := f.value
		if value == "" {
			value = StyleHelp.Render("—")
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, label.Render(f.label), lipgloss.NewStyle().Width(60).Render(value)))
		b.WriteString("\n")
	}

	if sec.linksTitle == "" {
		return
	}
	b.WriteString("\n")
	b.WriteString(StyleHeader.Render(sec.linksTitle))
	b.WriteString("\n")
	if len(sec.links) == 0 {
		b.WriteString(StyleHelp.Render("  none"))
		b.WriteString("\n")
	}
	for i, l := range sec.links {
		if i == s.cursor {
			b.WriteString(StyleHighlight.Render("› " + l.label))
		} else {
			b.WriteString("  " + StyleRelation.Render(l.label))
		}
		b.WriteString("\n")
	}
}

func bookLinks(books []model.BookSummary) []link {
	links := make([]link, len(books))
	for i, bk := range books {
		links[i] = link{label: fmt.Sprintf("%s (%d)", bk.Title, bk.Year), route: detailRoute(model.KindBook, bk.ID)}
	}
	return links
}
