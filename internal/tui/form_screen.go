package tui

import (
	"fmt"
	"strings"

	"github.com/blackwell-systems/catalogctl/internal/service"
	"github.com/blackwell-systems/catalogctl/internal/store"
	"github.com/blackwell-systems/catalogctl/internal/view"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// formSpec maps a request type onto editable fields and back.
type formSpec[R service.Request] struct {
	build func(req R, ch view.Choices) fieldSet
	// read returns an error for input that cannot be parsed at all (a
	// non-numeric year). Missing values are left to R.Validate.
	read func(fs fieldSet) (R, error)
}

type formScreen[R service.Request] struct {
	form   *view.Form[R]
	alerts *store.Store
	spec   formSpec[R]
	fields fieldSet
	focus  int
}

func newFormScreen[R service.Request](d Deps, src view.FormSource[R], id int, spec formSpec[R]) *formScreen[R] {
	return &formScreen[R]{
		form:   view.NewForm(d.Env, src, id),
		alerts: d.Env.Store,
		spec:   spec,
	}
}

func (s *formScreen[R]) Init() tea.Cmd {
	cmd := s.form.Mount()
	return tea.Batch(cmd, s.ensureFields())
}

func (s *formScreen[R]) Close() { s.form.Unmount() }

// ensureFields builds the inputs the first time the form becomes Ready.
// Later Ready transitions (a failed save) keep what the user typed.
func (s *formScreen[R]) ensureFields() tea.Cmd {
	if s.fields != nil || s.form.State() != view.FormReady {
		return nil
	}
	s.fields = s.spec.build(s.form.Request(), s.form.Choices())
	s.focus = 0
	if len(s.fields) == 0 {
		return nil
	}
	return s.fields[0].Focus()
}

func (s *formScreen[R]) Update(msg tea.Msg) tea.Cmd {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		cmd := s.form.Update(msg)
		return tea.Batch(cmd, s.ensureFields())
	}

	// Text fields consume q and backspace, so only esc leaves a form.
	if km.String() == "esc" {
		return view.Navigate(view.ListRoute(s.form.Kind()))
	}
	if km.String() == "ctrl+x" {
		s.alerts.DismissAlert()
		return nil
	}
	if s.form.State() != view.FormReady || len(s.fields) == 0 {
		return nil
	}

	switch {
	case key.Matches(km, keys.NextField):
		return s.move(1)
	case key.Matches(km, keys.PrevField):
		return s.move(-1)
	case key.Matches(km, keys.Submit):
		return s.submit()
	}
	return s.fields[s.focus].Update(km)
}

func (s *formScreen[R]) move(delta int) tea.Cmd {
	s.fields[s.focus].Blur()
	s.focus = (s.focus + delta + len(s.fields)) % len(s.fields)
	return s.fields[s.focus].Focus()
}

func (s *formScreen[R]) submit() tea.Cmd {
	req, err := s.spec.read(s.fields)
	if err != nil {
		s.alerts.ShowAlert(err.Error(), store.SeverityWarning)
		return nil
	}
	return s.form.Submit(req)
}

func (s *formScreen[R]) title() string {
	name := s.form.Kind().Singular()
	if s.form.Editing() {
		return fmt.Sprintf("Edit %s #%d", name, s.form.ID())
	}
	return "New " + name
}

func (s *formScreen[R]) View(width, height int) string {
	var b strings.Builder
	b.WriteString(StyleHeader.Render(s.title()))
	b.WriteString("\n\n")

	switch s.form.State() {
	case view.FormLoading:
		b.WriteString(StyleHelp.Render("Loading…"))
		b.WriteString("\n")
	case view.FormFailed:
		b.WriteString(StyleError.Render(s.form.Err()))
		b.WriteString("\n")
	default:
		label := lipgloss.NewStyle().Width(12).Align(lipgloss.Right).PaddingRight(1)
		for i, f := range s.fields {
			l := label.Foreground(ColorGray).Render(f.Label())
			if i == s.focus {
				l = label.Foreground(ColorYellow).Bold(true).Render(f.Label())
			}
			b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, l, f.View(i == s.focus)))
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")

	switch s.form.State() {
	case view.FormSaving:
		b.WriteString(StyleHelp.Render("  Saving…"))
	case view.FormRedirecting:
		b.WriteString(StyleHelp.Render("  Saved. Returning to the list…"))
	case view.FormReady:
		b.WriteString(renderFooterBar([]shortcutEntry{
			{Label: "tab next"},
			{Label: "←→ choose"},
			{Label: "space toggle"},
			{Label: "enter save"},
			{Label: "esc cancel"},
		}, ""))
	default:
		b.WriteString(renderFooterBar([]shortcutEntry{{Label: "esc back"}}, ""))
	}
	return StyleBorder.Padding(0, 2, 0, 1).Render(b.String())
}
