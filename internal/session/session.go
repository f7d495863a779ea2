// Package session keeps per-actor search state between panel transitions.
package session

import (
	"sync"

	"github.com/google/uuid"

	"github.com/jask/friendsearch/internal/search"
)

// Session is one actor's search panel state. The result cache is replaced
// wholesale by each search; the generation counter invalidates background
// work started by earlier searches.
type Session struct {
	Actor  uuid.UUID
	Mode   search.Mode
	Target *string

	mu         sync.RWMutex
	results    []search.Entity
	query      string
	generation uint64
	closed     bool
}

func newSession(actor uuid.UUID, mode search.Mode, target *string) *Session {
	return &Session{Actor: actor, Mode: mode, Target: target}
}

// TargetID returns the target resource id, or "" if there is none.
func (s *Session) TargetID() string {
	if s.Target == nil {
		return ""
	}
	return *s.Target
}

// Replace clears the result cache and stores the first limit entities. It
// returns the new generation.
func (s *Session) Replace(query string, entities []search.Entity, limit int) uint64 {
	if limit < 0 {
		limit = 0
	}
	if len(entities) > limit {
		entities = entities[:limit]
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results[:0:0], entities...)
	s.query = query
	s.generation++
	return s.generation
}

// Results returns a copy of the cached results.
func (s *Session) Results() []search.Entity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]search.Entity(nil), s.results...)
}

// Len returns the number of cached results.
func (s *Session) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.results)
}

// Query returns the query of the last search.
func (s *Session) Query() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.query
}

// At returns the cached result at i.
func (s *Session) At(i int) (search.Entity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i < 0 || i >= len(s.results) {
		return search.Entity{}, false
	}
	return s.results[i], true
}

// Generation returns the current generation.
func (s *Session) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

// IsCurrent reports whether gen is still the live generation of an open session.
func (s *Session) IsCurrent(gen uint64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.closed && s.generation == gen
}

// Closed reports whether the session has been torn down.
func (s *Session) Closed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}

func (s *Session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.generation++
	s.results = nil
}
