package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/blackwell-systems/catalogctl/internal/model"
)

// Get returns the cached page for key as a typed page.
func Get[T any](s *Store, key Key) (model.Page[T], bool) {
	e, ok := s.GetPage(key)
	if !ok {
		return model.Page[T]{}, false
	}
	p, ok := e.Value.(model.Page[T])
	return p, ok
}

// Put caches p under key, replacing any previous entry.
func Put[T any](s *Store, key Key, p model.Page[T]) {
	s.PutPage(entryFor(key, p))
}

// Load returns the cached page for key, or fetches it. Concurrent loads of
// the same key share one fetch. The result is cached only if the kind was not
// invalidated while the fetch was in flight. cached reports a cache hit.
//
// The shared fetch runs on a context owned by the flight, not by any caller:
// it is cancelled only once every waiter has gone. A caller whose ctx ends
// stops waiting with ctx.Err() and leaves the others unaffected.
func Load[T any](ctx context.Context, s *Store, key Key, fetch func(context.Context) (model.Page[T], error)) (p model.Page[T], cached bool, err error) {
	for attempt := 0; ; attempt++ {
		if p, ok := Get[T](s, key); ok {
			return p, true, nil
		}

		gen := s.generation(key.Kind)
		name := fmt.Sprintf("%s#%d", key, gen)
		f := s.joinFlight(ctx, name)
		ch := s.flights.DoChan(name, func() (interface{}, error) {
			tok := s.BeginLoad()
			defer s.EndLoad(tok)
			page, err := fetch(f.ctx)
			if err != nil {
				return nil, err
			}
			s.putIfCurrent(entryFor(key, page), gen)
			return page, nil
		})

		var res singleflight.Result
		select {
		case res = <-ch:
		case <-ctx.Done():
			s.leaveFlight(name, f)
			return model.Page[T]{}, false, ctx.Err()
		}
		s.leaveFlight(name, f)

		if res.Err != nil {
			// Joined a flight whose waiters had all left before us; start over.
			if errors.Is(res.Err, context.Canceled) && ctx.Err() == nil && attempt < maxRejoins {
				continue
			}
			return model.Page[T]{}, false, res.Err
		}
		return res.Val.(model.Page[T]), false, nil
	}
}

// maxRejoins bounds how often Load starts over after joining an abandoned
// flight.
const maxRejoins = 2

// flight is the shared context of one in-flight fetch.
type flight struct {
	ctx     context.Context
	cancel  context.CancelFunc
	waiters int
}

func (s *Store) joinFlight(ctx context.Context, name string) *flight {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.calls[name]
	if !ok {
		fctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		f = &flight{ctx: fctx, cancel: cancel}
		s.calls[name] = f
	}
	f.waiters++
	return f
}

func (s *Store) leaveFlight(name string, f *flight) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f.waiters--
	if f.waiters > 0 {
		return
	}
	f.cancel()
	if s.calls[name] == f {
		delete(s.calls, name)
	}
}

func entryFor[T any](key Key, p model.Page[T]) Entry {
	ids := make([]int, 0, len(p.Items))
	for _, it := range p.Items {
		if e, ok := any(it).(model.Entity); ok {
			ids = append(ids, e.EntityID())
		}
	}
	return Entry{
		ids:        ids,
		Key:        key,
		Value:      p,
		TotalPages: p.TotalPages,
		TotalCount: p.TotalCount,
		FetchedAt:  time.Now(),
	}
}
