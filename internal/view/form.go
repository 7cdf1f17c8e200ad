package view

import (
	"context"
	"fmt"

	"github.com/blackwell-systems/catalogctl/internal/model"
	"github.com/blackwell-systems/catalogctl/internal/service"
	"github.com/blackwell-systems/catalogctl/internal/store"
	tea "github.com/charmbracelet/bubbletea"
)

// FormState is the state of a Form view.
type FormState int

const (
	FormLoading FormState = iota
	FormReady
	FormSaving
	FormRedirecting
	FormFailed
)

func (s FormState) String() string {
	return [...]string{"loading", "ready", "saving", "redirecting", "failed"}[s]
}

// Choices are the relation options a form offers (authors and genres for books).
type Choices struct {
	Authors []model.Author
	Genres  []model.Genre
}

// FormData is what a form starts from.
type FormData[R any] struct {
	Request R
	Choices Choices
}

// FormSource configures a Form for one entity kind.
type FormSource[R service.Request] struct {
	Kind model.Kind
	// Load fetches prefill values (id > 0) and relation choices. Nil means
	// the form starts from Blank without a fetch.
	Load   func(ctx context.Context, id int) (FormData[R], error)
	Blank  func() R
	Create func(ctx context.Context, req R) error
	Update func(ctx context.Context, id int, req R) error
}

type formLoadedMsg[R any] struct {
	view uint64
	data FormData[R]
	err  error
}

type formSavedMsg struct {
	view uint64
	err  error
}

// Form is the create/edit state machine. id == 0 means create.
type Form[R service.Request] struct {
	lc  lifecycle
	env Env
	src FormSource[R]
	id  int

	state   FormState
	req     R
	choices Choices
	errMsg  string
}

// NewForm creates an unmounted form; id 0 creates, id > 0 edits.
func NewForm[R service.Request](env Env, src FormSource[R], id int) *Form[R] {
	f := &Form[R]{lc: newLifecycle(), env: env, src: src, id: id}
	if src.Blank != nil {
		f.req = src.Blank()
	}
	return f
}

func (f *Form[R]) Kind() model.Kind { return f.src.Kind }
func (f *Form[R]) ID() int          { return f.id }
func (f *Form[R]) Editing() bool    { return f.id > 0 }
func (f *Form[R]) State() FormState { return f.state }
func (f *Form[R]) Request() R       { return f.req }
func (f *Form[R]) Choices() Choices { return f.choices }
func (f *Form[R]) Err() string      { return f.errMsg }

// Mount starts the view. Edit mode and forms with relation choices fetch
// before becoming Ready.
func (f *Form[R]) Mount() tea.Cmd {
	f.lc.mount()
	if f.src.Load == nil {
		f.state = FormReady
		return nil
	}
	f.state = FormLoading
	view, ctx, id := f.lc.id, f.lc.ctx, f.id
	s, load := f.env.Store, f.src.Load
	return func() tea.Msg {
		var (
			data FormData[R]
			err  error
		)
		track(s, func() { data, err = load(ctx, id) })
		return formLoadedMsg[R]{view: view, data: data, err: err}
	}
}

// Unmount stops the view and cancels a pending redirect.
func (f *Form[R]) Unmount() { f.lc.unmount() }

// Submit validates req locally and saves it. A failed check raises a warning
// and never reaches the network; the form stays Ready.
func (f *Form[R]) Submit(req R) tea.Cmd {
	if f.state != FormReady {
		return nil
	}
	f.req = req
	if err := req.Validate(); err != nil {
		msg := service.UserMessage(f.src.Kind, service.OpSave, &service.ValidationError{Err: err})
		f.env.Store.ShowAlert(msg, store.SeverityWarning)
		return nil
	}

	f.state = FormSaving
	view, ctx, id := f.lc.id, f.lc.ctx, f.id
	s, kind, src := f.env.Store, f.src.Kind, f.src
	return func() tea.Msg {
		var err error
		track(s, func() {
			if id > 0 {
				err = src.Update(ctx, id, req)
			} else {
				err = src.Create(ctx, req)
			}
		})
		if err == nil {
			s.Invalidate(kind)
			if kind != model.KindBook {
				// Book rows embed author and genre names.
				s.Invalidate(model.KindBook)
			}
		}
		return formSavedMsg{view: view, err: err}
	}
}

// Update applies messages addressed to this view.
func (f *Form[R]) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case formLoadedMsg[R]:
		if !f.lc.owns(msg.view) {
			return nil
		}
		if msg.err != nil {
			f.state = FormFailed
			f.errMsg = service.UserMessage(f.src.Kind, service.OpLoad, msg.err)
			f.env.Store.ShowAlert(f.errMsg, store.SeverityError)
			return nil
		}
		if f.Editing() {
			f.req = msg.data.Request
		}
		f.choices = msg.data.Choices
		f.state = FormReady
		return nil

	case formSavedMsg:
		if !f.lc.owns(msg.view) {
			return nil
		}
		if msg.err != nil {
			f.state = FormReady
			f.env.Store.ShowAlert(service.UserMessage(f.src.Kind, service.OpSave, msg.err), store.SeverityError)
			return nil
		}
		verb := "created"
		if f.Editing() {
			verb = "updated"
		}
		f.env.Store.ShowAlert(fmt.Sprintf("%s %s successfully!", capitalize(f.src.Kind.Singular()), verb), store.SeveritySuccess)
		f.state = FormRedirecting
		return redirectAfter(f.lc.id, f.env.redirectDelay(), ListRoute(f.src.Kind))

	case redirectDueMsg:
		if !f.lc.owns(msg.view) || f.state != FormRedirecting {
			return nil
		}
		return Navigate(msg.route)
	}
	return nil
}
