package store

import "github.com/google/uuid"

// LoadToken identifies one in-flight request in the loading set.
type LoadToken uuid.UUID

// BeginLoad registers a request as in flight.
func (s *Store) BeginLoad() LoadToken {
	tok := LoadToken(uuid.New())
	s.mu.Lock()
	s.loading[tok] = struct{}{}
	first := len(s.loading) == 1
	s.mu.Unlock()
	if first {
		s.changed()
	}
	return tok
}

// EndLoad removes a request from the loading set. Ending a token twice is a
// no-op.
func (s *Store) EndLoad(tok LoadToken) {
	s.mu.Lock()
	_, ok := s.loading[tok]
	delete(s.loading, tok)
	last := ok && len(s.loading) == 0
	s.mu.Unlock()
	if last {
		s.changed()
	}
}

// Loading reports whether any request is in flight.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.loading) > 0
}

// InFlight returns the number of requests in flight.
func (s *Store) InFlight() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.loading)
}
