package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// formField is one editable row of a form screen.
type formField interface {
	Name() string
	Label() string
	Focus() tea.Cmd
	Blur()
	Update(msg tea.KeyMsg) tea.Cmd
	View(focused bool) string
}

// option is a selectable relation (an author or a genre).
type option struct {
	id    int
	label string
}

// textField wraps a single-line text input.
type textField struct {
	name  string
	label string
	input textinput.Model
}

func newTextField(name, label, value, placeholder string, limit int) *textField {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = placeholder
	ti.CharLimit = limit
	ti.Width = 50
	ti.Cursor.SetMode(cursor.CursorStatic)
	ti.SetValue(value)
	return &textField{name: name, label: label, input: ti}
}

func (f *textField) Name() string   { return f.name }
func (f *textField) Label() string  { return f.label }
func (f *textField) Focus() tea.Cmd { return f.input.Focus() }
func (f *textField) Blur()          { f.input.Blur() }
func (f *textField) Value() string  { return strings.TrimSpace(f.input.Value()) }

func (f *textField) Update(msg tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)
	return cmd
}

func (f *textField) View(focused bool) string { return f.input.View() }

// pickField chooses exactly one option with left/right. Index -1 is "none".
type pickField struct {
	name    string
	label   string
	options []option
	index   int
}

func newPickField(name, label string, options []option, selected int) *pickField {
	f := &pickField{name: name, label: label, options: options, index: -1}
	for i, o := range options {
		if o.id == selected {
			f.index = i
		}
	}
	return f
}

func (f *pickField) Name() string   { return f.name }
func (f *pickField) Label() string  { return f.label }
func (f *pickField) Focus() tea.Cmd { return nil }
func (f *pickField) Blur()          {}

// Selected returns the chosen option id, or 0.
func (f *pickField) Selected() int {
	if f.index < 0 || f.index >= len(f.options) {
		return 0
	}
	return f.options[f.index].id
}

func (f *pickField) Update(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, keys.Left):
		if f.index > 0 {
			f.index--
		}
	case key.Matches(msg, keys.Right):
		if f.index < len(f.options)-1 {
			f.index++
		}
	}
	return nil
}

func (f *pickField) View(focused bool) string {
	if len(f.options) == 0 {
		return StyleHelp.Render("no choices available")
	}
	label := StyleHelp.Render("select…")
	if f.index >= 0 {
		label = StyleRelation.Render(f.options[f.index].label)
	}
	if !focused {
		return label
	}
	return StyleHelp.Render("‹ ") + label + StyleHelp.Render(" ›")
}

// multiField toggles any number of options: left/right move, space toggles.
type multiField struct {
	name     string
	label    string
	options  []option
	cursor   int
	selected map[int]bool
}

func newMultiField(name, label string, options []option, selected []int) *multiField {
	f := &multiField{name: name, label: label, options: options, selected: make(map[int]bool, len(selected))}
	for _, id := range selected {
		f.selected[id] = true
	}
	return f
}

func (f *multiField) Name() string   { return f.name }
func (f *multiField) Label() string  { return f.label }
func (f *multiField) Focus() tea.Cmd { return nil }
func (f *multiField) Blur()          {}

// Selected returns the toggled ids in option order.
func (f *multiField) Selected() []int {
	var ids []int
	for _, o := range f.options {
		if f.selected[o.id] {
			ids = append(ids, o.id)
		}
	}
	return ids
}

func (f *multiField) Update(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, keys.Left):
		if f.cursor > 0 {
			f.cursor--
		}
	case key.Matches(msg, keys.Right):
		if f.cursor < len(f.options)-1 {
			f.cursor++
		}
	case key.Matches(msg, keys.Toggle):
		if f.cursor < len(f.options) {
			id := f.options[f.cursor].id
			f.selected[id] = !f.selected[id]
		}
	}
	return nil
}

func (f *multiField) View(focused bool) string {
	if len(f.options) == 0 {
		return StyleHelp.Render("no choices available")
	}
	parts := make([]string, len(f.options))
	for i, o := range f.options {
		mark := "[ ]"
		if f.selected[o.id] {
			mark = "[x]"
		}
		s := mark + " " + o.label
		switch {
		case focused && i == f.cursor:
			s = StyleHighlight.Render(s)
		case f.selected[o.id]:
			s = StyleRelation.Render(s)
		default:
			s = StyleHelp.Render(s)
		}
		parts[i] = s
	}
	return lipgloss.NewStyle().Width(60).Render(strings.Join(parts, "  "))
}

// fieldSet looks fields up by name when a form is read back.
type fieldSet []formField

func (fs fieldSet) text(name string) string {
	for _, f := range fs {
		if t, ok := f.(*textField); ok && t.name == name {
			return t.Value()
		}
	}
	return ""
}

// optional returns nil for a blank text field.
func (fs fieldSet) optional(name string) *string {
	v := fs.text(name)
	if v == "" {
		return nil
	}
	return &v
}

func (fs fieldSet) pick(name string) int {
	for _, f := range fs {
		if p, ok := f.(*pickField); ok && p.name == name {
			return p.Selected()
		}
	}
	return 0
}

func (fs fieldSet) multi(name string) []int {
	for _, f := range fs {
		if m, ok := f.(*multiField); ok && m.name == name {
			return m.Selected()
		}
	}
	return nil
}
