package view

import (
	"context"

	"github.com/blackwell-systems/catalogctl/internal/model"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"
)

// CountFunc returns the total number of entities of one kind.
type CountFunc func(ctx context.Context) (int, error)

// Unknown marks a count that could not be fetched.
const Unknown = -1

type countsMsg struct {
	view   uint64
	counts map[model.Kind]int
}

// Home is the dashboard with per-kind totals.
type Home struct {
	lc      lifecycle
	env     Env
	sources map[model.Kind]CountFunc
	counts  map[model.Kind]int
	loaded  bool
}

// NewHome creates the dashboard over the given count sources.
func NewHome(env Env, sources map[model.Kind]CountFunc) *Home {
	return &Home{lc: newLifecycle(), env: env, sources: sources}
}

// Count returns the total for kind, or Unknown.
func (h *Home) Count(kind model.Kind) int {
	if n, ok := h.counts[kind]; ok {
		return n
	}
	return Unknown
}

// Loaded reports whether counts have arrived.
func (h *Home) Loaded() bool { return h.loaded }

// Mount fetches all counts concurrently. A failed count is Unknown and does
// not fail the others.
func (h *Home) Mount() tea.Cmd {
	h.lc.mount()
	view, ctx, s, sources := h.lc.id, h.lc.ctx, h.env.Store, h.sources
	return func() tea.Msg {
		counts := make(map[model.Kind]int, len(sources))
		results := make([]int, len(model.Kinds))
		var g errgroup.Group
		for i, kind := range model.Kinds {
			fn, ok := sources[kind]
			if !ok {
				results[i] = Unknown
				continue
			}
			g.Go(func() error {
				tok := s.BeginLoad()
				defer s.EndLoad(tok)
				n, err := fn(ctx)
				if err != nil {
					// A failed count renders as Unknown and never fails the
					// dashboard; only unmounting ends the whole group.
					n = Unknown
					if ctx.Err() != nil {
						return ctx.Err()
					}
				}
				results[i] = n
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil
		}
		for i, kind := range model.Kinds {
			counts[kind] = results[i]
		}
		return countsMsg{view: view, counts: counts}
	}
}

// Unmount stops the view.
func (h *Home) Unmount() { h.lc.unmount() }

// Update applies messages addressed to this view.
func (h *Home) Update(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(countsMsg); ok && h.lc.owns(msg.view) {
		h.counts = msg.counts
		h.loaded = true
	}
	return nil
}
