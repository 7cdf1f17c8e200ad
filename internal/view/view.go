// Package view implements the list, detail and form state machines shared by
// every entity. Views are driven by the bubbletea event loop: operations
// return a tea.Cmd that performs network work off the loop and reports back
// with a message, which the view applies in Update.
package view

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/blackwell-systems/catalogctl/internal/model"
	"github.com/blackwell-systems/catalogctl/internal/store"
	tea "github.com/charmbracelet/bubbletea"
)

// DefaultRedirectDelay is how long a success alert stays on screen before the
// view navigates away.
const DefaultRedirectDelay = 2 * time.Second

// DefaultPageSize is the list page size when none is configured.
const DefaultPageSize = 10

// Env is what every view needs from the session.
type Env struct {
	Store         *store.Store
	PageSize      int
	RedirectDelay time.Duration
}

func (e Env) pageSize() int {
	if e.PageSize < 1 {
		return DefaultPageSize
	}
	return e.PageSize
}

func (e Env) redirectDelay() time.Duration {
	if e.RedirectDelay < 0 {
		return 0
	}
	if e.RedirectDelay == 0 {
		return DefaultRedirectDelay
	}
	return e.RedirectDelay
}

// NavigateMsg asks the shell to switch to Route.
type NavigateMsg struct {
	Route string
}

// Navigate returns a command emitting NavigateMsg.
func Navigate(route string) tea.Cmd {
	return func() tea.Msg { return NavigateMsg{Route: route} }
}

// ListRoute returns the list route for kind ("/authors").
func ListRoute(kind model.Kind) string {
	return "/" + kind.Plural()
}

var nextViewID atomic.Uint64

// lifecycle tracks mount state and the context cancelled on unmount.
type lifecycle struct {
	id      uint64
	ctx     context.Context
	cancel  context.CancelFunc
	mounted bool
}

func newLifecycle() lifecycle {
	return lifecycle{id: nextViewID.Add(1), ctx: context.Background(), cancel: func() {}}
}

func (l *lifecycle) mount() {
	l.ctx, l.cancel = context.WithCancel(context.Background())
	l.mounted = true
}

func (l *lifecycle) unmount() {
	l.mounted = false
	l.cancel()
}

// owns reports whether a message addressed to view id should be applied.
func (l *lifecycle) owns(id uint64) bool {
	return l.mounted && id == l.id
}

// redirectDueMsg fires when the redirect delay of a view elapses.
type redirectDueMsg struct {
	view  uint64
	route string
}

func redirectAfter(view uint64, d time.Duration, route string) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return redirectDueMsg{view: view, route: route}
	})
}

// track registers fn's duration in the store's loading set.
func track(s *store.Store, fn func()) {
	tok := s.BeginLoad()
	defer s.EndLoad(tok)
	fn()
}
