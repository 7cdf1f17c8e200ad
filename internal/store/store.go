// Package store holds the session's page cache, alert slot and loading set.
// A Store is created empty when the session starts and discarded when it
// ends; nothing is persisted.
package store

import (
	"fmt"
	"sync"
	"time"

	"github.com/blackwell-systems/catalogctl/internal/model"
	"golang.org/x/sync/singleflight"
)

// Key addresses one cached page. Scope separates filtered listings of the
// same kind (a search term, an author filter); it is empty for the plain list.
type Key struct {
	Kind  model.Kind
	Scope string
	Page  int
	Size  int
}

func (k Key) String() string {
	return fmt.Sprintf("%s|%s|%d|%d", k.Kind, k.Scope, k.Page, k.Size)
}

// Entry is one cached page fetch. Entries are replaced whole, never merged.
type Entry struct {
	Key        Key
	Value      interface{} // model.Page[T] for the kind's row type
	TotalPages int
	TotalCount int
	FetchedAt  time.Time

	ids []int
}

// IDs returns the IDs of the rows cached in the entry, in page order.
func (e Entry) IDs() []int {
	return append([]int(nil), e.ids...)
}

// Options configures a Store.
type Options struct {
	AlertDuration time.Duration // zero means DefaultAlertDuration; negative disables auto-hide
}

// Store is the session state shared by every view.
type Store struct {
	mu      sync.Mutex
	pages   map[Key]Entry
	gens    map[model.Kind]uint64
	loading map[LoadToken]struct{}
	flights singleflight.Group
	calls   map[string]*flight

	alert      Alert
	alertGen   uint64
	alertTimer *time.Timer
	alertTTL   time.Duration

	notify func()
	closed bool
}

// New creates an empty store.
func New(opts Options) *Store {
	ttl := opts.AlertDuration
	if ttl == 0 {
		ttl = DefaultAlertDuration
	}
	return &Store{
		pages:    make(map[Key]Entry),
		gens:     make(map[model.Kind]uint64),
		loading:  make(map[LoadToken]struct{}),
		calls:    make(map[string]*flight),
		alertTTL: ttl,
	}
}

// SetNotify registers fn to be called after any state change. fn runs
// outside the store lock and may be called from timer goroutines.
func (s *Store) SetNotify(fn func()) {
	s.mu.Lock()
	s.notify = fn
	s.mu.Unlock()
}

// Close stops the alert timer and drops all cached state.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.alertTimer != nil {
		s.alertTimer.Stop()
		s.alertTimer = nil
	}
	s.pages = make(map[Key]Entry)
	s.alert = Alert{}
	s.notify = nil
	s.closed = true
}

// GetPage returns the cached entry for key.
func (s *Store) GetPage(key Key) (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.pages[key]
	return e, ok
}

// PutPage stores e, replacing any previous entry for the same key.
func (s *Store) PutPage(e Entry) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	if e.FetchedAt.IsZero() {
		e.FetchedAt = time.Now()
	}
	s.pages[e.Key] = e
	s.mu.Unlock()
	s.changed()
}

// Invalidate drops cached pages of kind. With no pages given every page of
// the kind (in every scope) is dropped; otherwise only those page numbers.
// Fetches started before the call will not repopulate the cache.
func (s *Store) Invalidate(kind model.Kind, pages ...int) {
	s.mu.Lock()
	s.gens[kind]++
	for k := range s.pages {
		if k.Kind != kind {
			continue
		}
		if len(pages) == 0 || containsInt(pages, k.Page) {
			delete(s.pages, k)
		}
	}
	s.mu.Unlock()
	s.changed()
}

// Stats returns the number of cached pages per kind.
func (s *Store) Stats() map[model.Kind]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[model.Kind]int, len(model.Kinds))
	for k := range s.pages {
		out[k.Kind]++
	}
	return out
}

func (s *Store) generation(kind model.Kind) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gens[kind]
}

// putIfCurrent stores e only if kind has not been invalidated since gen.
func (s *Store) putIfCurrent(e Entry, gen uint64) bool {
	s.mu.Lock()
	if s.closed || s.gens[e.Key.Kind] != gen {
		s.mu.Unlock()
		return false
	}
	s.pages[e.Key] = e
	s.mu.Unlock()
	s.changed()
	return true
}

func (s *Store) changed() {
	s.mu.Lock()
	fn := s.notify
	s.mu.Unlock()
	if fn != nil {
		fn()
	}
}

func containsInt(xs []int, v int) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}
