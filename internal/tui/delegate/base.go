// Package delegate provides the one-line list delegate used by the shell menus.
package delegate

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// RenderFunc renders one list item. It receives the writer, list model, item
// index, and the item itself.
type RenderFunc func(w io.Writer, m list.Model, index int, item list.Item)

// Base is a one-line delegate that only customizes rendering.
type Base struct {
	renderFn RenderFunc
}

// New creates a delegate with height 1 and no spacing.
func New(renderFn RenderFunc) Base {
	return Base{renderFn: renderFn}
}

// Height implements list.ItemDelegate
func (d Base) Height() int { return 1 }

// Spacing implements list.ItemDelegate
func (d Base) Spacing() int { return 0 }

// Update implements list.ItemDelegate
func (d Base) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

// Render implements list.ItemDelegate
func (d Base) Render(w io.Writer, m list.Model, index int, item list.Item) {
	if d.renderFn != nil {
		d.renderFn(w, m, index, item)
	}
}

// Row writes text behind a "› " marker when index is the list cursor, and
// indented to the same column otherwise.
func Row(w io.Writer, m list.Model, index int, text string, selected, normal lipgloss.Style) {
	if index == m.Index() {
		_, _ = fmt.Fprint(w, selected.Render("› "+text))
		return
	}
	_, _ = fmt.Fprint(w, "  "+normal.Render(text))
}
