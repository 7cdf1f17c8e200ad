package view

import (
	"context"
	"fmt"
	"strings"

	"github.com/blackwell-systems/catalogctl/internal/model"
	"github.com/blackwell-systems/catalogctl/internal/service"
	"github.com/blackwell-systems/catalogctl/internal/store"
	tea "github.com/charmbracelet/bubbletea"
)

// ListState is the state of a List view.
type ListState int

const (
	ListIdle ListState = iota
	ListLoading
	ListLoaded
	ListFailed
	ListConfirmPending
)

func (s ListState) String() string {
	return [...]string{"idle", "loading", "loaded", "failed", "confirm-pending"}[s]
}

// ListSource configures a List for one entity listing.
type ListSource[T model.Entity] struct {
	Kind   model.Kind
	Scope  string // cache scope for filtered listings
	Fetch  func(ctx context.Context, page, size int) (model.Page[T], error)
	Delete func(ctx context.Context, id int) error // nil when rows cannot be deleted here
}

type pageLoadedMsg[T model.Entity] struct {
	view uint64
	seq  uint64
	page int
	res  model.Page[T]
	err  error
}

type deleteDoneMsg struct {
	view uint64
	id   int
	err  error
}

// List is the paginated list state machine.
type List[T model.Entity] struct {
	lc  lifecycle
	env Env
	src ListSource[T]

	state      ListState
	page       int
	size       int
	items      []T
	totalPages int
	totalCount int
	errMsg     string

	seq      uint64 // tag of the most recently initiated fetch
	pending  int    // ID awaiting delete confirmation
	deleting bool
}

// NewList creates an unmounted list starting at page 1.
func NewList[T model.Entity](env Env, src ListSource[T]) *List[T] {
	return &List[T]{
		lc:   newLifecycle(),
		env:  env,
		src:  src,
		page: 1,
		size: env.pageSize(),
	}
}

func (l *List[T]) Kind() model.Kind   { return l.src.Kind }
func (l *List[T]) State() ListState   { return l.state }
func (l *List[T]) Items() []T         { return l.items }
func (l *List[T]) Page() int          { return l.page }
func (l *List[T]) PageSize() int      { return l.size }
func (l *List[T]) TotalPages() int    { return l.totalPages }
func (l *List[T]) TotalCount() int    { return l.totalCount }
func (l *List[T]) Err() string        { return l.errMsg }
func (l *List[T]) PendingDelete() int { return l.pending }
func (l *List[T]) Deleting() bool     { return l.deleting }
func (l *List[T]) Deletable() bool    { return l.src.Delete != nil }

// Mount starts the view and loads the current page.
func (l *List[T]) Mount() tea.Cmd {
	l.lc.mount()
	return l.load(l.page)
}

// Unmount stops the view. In-flight results are dropped when they arrive.
func (l *List[T]) Unmount() {
	l.lc.unmount()
	l.state = ListIdle
}

// SetPage switches to page n (clamped to [1, totalPages] when known).
func (l *List[T]) SetPage(n int) tea.Cmd {
	if n < 1 {
		n = 1
	}
	if l.totalPages > 0 && n > l.totalPages {
		n = l.totalPages
	}
	if n == l.page && l.state == ListLoaded {
		return nil
	}
	return l.load(n)
}

// NextPage moves one page forward.
func (l *List[T]) NextPage() tea.Cmd { return l.SetPage(l.page + 1) }

// PrevPage moves one page back.
func (l *List[T]) PrevPage() tea.Cmd { return l.SetPage(l.page - 1) }

// Reload drops the cached copy of the current page and fetches it again.
func (l *List[T]) Reload() tea.Cmd {
	l.env.Store.Invalidate(l.src.Kind, l.page)
	return l.load(l.page)
}

// RequestDelete asks for confirmation before deleting id.
func (l *List[T]) RequestDelete(id int) bool {
	if l.src.Delete == nil || l.state != ListLoaded || l.deleting {
		return false
	}
	l.pending = id
	l.state = ListConfirmPending
	return true
}

// CancelDelete abandons the pending delete.
func (l *List[T]) CancelDelete() {
	if l.state == ListConfirmPending {
		l.state = ListLoaded
		l.pending = 0
	}
}

// ConfirmDelete deletes the pending row.
func (l *List[T]) ConfirmDelete() tea.Cmd {
	if l.state != ListConfirmPending {
		return nil
	}
	id, view, ctx := l.pending, l.lc.id, l.lc.ctx
	l.state = ListLoaded
	l.pending = 0
	l.deleting = true

	s, kind, del := l.env.Store, l.src.Kind, l.src.Delete
	return func() tea.Msg {
		var err error
		track(s, func() { err = del(ctx, id) })
		if err == nil {
			s.Invalidate(kind)
		}
		return deleteDoneMsg{view: view, id: id, err: err}
	}
}

// Update applies messages addressed to this view.
func (l *List[T]) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case pageLoadedMsg[T]:
		if !l.lc.owns(msg.view) || msg.seq != l.seq {
			return nil
		}
		return l.applyPage(msg)

	case deleteDoneMsg:
		if !l.lc.owns(msg.view) {
			return nil
		}
		l.deleting = false
		if msg.err != nil {
			l.env.Store.ShowAlert(service.UserMessage(l.src.Kind, service.OpDelete, msg.err), store.SeverityError)
			return nil
		}
		l.env.Store.ShowAlert(deletedMessage(l.src.Kind), store.SeveritySuccess)
		return l.load(l.pageAfterDelete())
	}
	return nil
}

// pageAfterDelete steps back when the deleted row was the only one on the
// last page, so the view never lands on an empty trailing page.
func (l *List[T]) pageAfterDelete() int {
	if l.page > 1 && len(l.items) <= 1 && l.page >= l.totalPages {
		return l.page - 1
	}
	return l.page
}

func (l *List[T]) applyPage(msg pageLoadedMsg[T]) tea.Cmd {
	if msg.err != nil {
		l.state = ListFailed
		l.items = nil
		l.errMsg = service.UserMessage(l.src.Kind, service.OpList, msg.err)
		l.env.Store.ShowAlert(l.errMsg, store.SeverityError)
		return nil
	}
	res := msg.res
	// Rows removed elsewhere can leave us past the end.
	if len(res.Items) == 0 && msg.page > 1 && res.TotalPages < msg.page {
		return l.load(max(res.TotalPages, 1))
	}
	l.state = ListLoaded
	l.errMsg = ""
	l.items = res.Items
	l.totalPages = res.TotalPages
	l.totalCount = res.TotalCount
	return nil
}

func (l *List[T]) key(page int) store.Key {
	return store.Key{Kind: l.src.Kind, Scope: l.src.Scope, Page: page, Size: l.size}
}

// load starts a fetch of page tagged with a fresh sequence number. Cache hits
// are applied immediately without a round trip through the event loop.
func (l *List[T]) load(page int) tea.Cmd {
	l.seq++
	seq, view, ctx := l.seq, l.lc.id, l.lc.ctx
	l.page = page
	l.state = ListLoading

	key := l.key(page)
	if p, ok := store.Get[T](l.env.Store, key); ok {
		return l.applyPage(pageLoadedMsg[T]{view: view, seq: seq, page: page, res: p})
	}

	s, fetch, size := l.env.Store, l.src.Fetch, l.size
	return func() tea.Msg {
		res, _, err := store.Load(ctx, s, key, func(ctx context.Context) (model.Page[T], error) {
			return fetch(ctx, page, size)
		})
		return pageLoadedMsg[T]{view: view, seq: seq, page: page, res: res, err: err}
	}
}

func deletedMessage(kind model.Kind) string {
	return fmt.Sprintf("%s deleted successfully!", capitalize(kind.Singular()))
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
