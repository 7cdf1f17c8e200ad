package view

import (
	"context"

	"github.com/blackwell-systems/catalogctl/internal/model"
	"github.com/blackwell-systems/catalogctl/internal/service"
	"github.com/blackwell-systems/catalogctl/internal/store"
	tea "github.com/charmbracelet/bubbletea"
)

// DetailState is the state of a Detail view.
type DetailState int

const (
	DetailLoading DetailState = iota
	DetailLoaded
	DetailFailed
	DetailNotFound
	DetailConfirmPending
	DetailRedirecting
)

func (s DetailState) String() string {
	return [...]string{"loading", "loaded", "failed", "not-found", "confirm-pending", "redirecting"}[s]
}

// DetailSource configures a Detail view for one entity kind.
type DetailSource[D any] struct {
	Kind   model.Kind
	Fetch  func(ctx context.Context, id int) (D, error)
	Delete func(ctx context.Context, id int) error
}

type detailLoadedMsg[D any] struct {
	view uint64
	res  D
	err  error
}

// Detail shows one entity with its associations.
type Detail[D any] struct {
	lc  lifecycle
	env Env
	src DetailSource[D]
	id  int

	state    DetailState
	data     D
	errMsg   string
	deleting bool
}

// NewDetail creates an unmounted detail view for entity id.
func NewDetail[D any](env Env, src DetailSource[D], id int) *Detail[D] {
	return &Detail[D]{lc: newLifecycle(), env: env, src: src, id: id}
}

func (d *Detail[D]) Kind() model.Kind   { return d.src.Kind }
func (d *Detail[D]) ID() int            { return d.id }
func (d *Detail[D]) State() DetailState { return d.state }
func (d *Detail[D]) Data() D            { return d.data }
func (d *Detail[D]) Err() string        { return d.errMsg }

// Mount starts the view and fetches the entity.
func (d *Detail[D]) Mount() tea.Cmd {
	d.lc.mount()
	d.state = DetailLoading
	view, ctx, id := d.lc.id, d.lc.ctx, d.id
	s, fetch := d.env.Store, d.src.Fetch
	return func() tea.Msg {
		var (
			res D
			err error
		)
		track(s, func() { res, err = fetch(ctx, id) })
		return detailLoadedMsg[D]{view: view, res: res, err: err}
	}
}

// Unmount stops the view and cancels a pending redirect.
func (d *Detail[D]) Unmount() { d.lc.unmount() }

// RequestDelete asks for confirmation.
func (d *Detail[D]) RequestDelete() bool {
	if d.src.Delete == nil || d.state != DetailLoaded || d.deleting {
		return false
	}
	d.state = DetailConfirmPending
	return true
}

// CancelDelete abandons the pending delete.
func (d *Detail[D]) CancelDelete() {
	if d.state == DetailConfirmPending {
		d.state = DetailLoaded
	}
}

// ConfirmDelete deletes the entity.
func (d *Detail[D]) ConfirmDelete() tea.Cmd {
	if d.state != DetailConfirmPending {
		return nil
	}
	d.state = DetailLoaded
	d.deleting = true
	view, ctx, id := d.lc.id, d.lc.ctx, d.id
	s, kind, del := d.env.Store, d.src.Kind, d.src.Delete
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
func (d *Detail[D]) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case detailLoadedMsg[D]:
		if !d.lc.owns(msg.view) {
			return nil
		}
		if msg.err != nil {
			d.errMsg = service.UserMessage(d.src.Kind, service.OpLoad, msg.err)
			d.state = DetailFailed
			if service.Classify(msg.err) == service.KindNotFound {
				d.state = DetailNotFound
			}
			d.env.Store.ShowAlert(d.errMsg, store.SeverityError)
			return nil
		}
		d.data = msg.res
		d.state = DetailLoaded
		return nil

	case deleteDoneMsg:
		if !d.lc.owns(msg.view) {
			return nil
		}
		d.deleting = false
		if msg.err != nil {
			d.env.Store.ShowAlert(service.UserMessage(d.src.Kind, service.OpDelete, msg.err), store.SeverityError)
			return nil
		}
		d.env.Store.ShowAlert(deletedMessage(d.src.Kind), store.SeveritySuccess)
		d.state = DetailRedirecting
		return redirectAfter(d.lc.id, d.env.redirectDelay(), ListRoute(d.src.Kind))

	case redirectDueMsg:
		if !d.lc.owns(msg.view) || d.state != DetailRedirecting {
			return nil
		}
		return Navigate(msg.route)
	}
	return nil
}
