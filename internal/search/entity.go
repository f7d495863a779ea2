// Package search filters the player directory down to friend candidates
// for a free-text query.
package search

import "github.com/google/uuid"

// Entity is an immutable snapshot of a directory entry.
type Entity struct {
	ID     uuid.UUID
	Name   *string
	Online bool
}

// DisplayName returns the entity's name and whether it has one.
func (e Entity) DisplayName() (string, bool) {
	if e.Name == nil {
		return "", false
	}
	return *e.Name, true
}

// Label is the name shown on tiles, falling back to the id for anonymous entities.
func (e Entity) Label() string {
	if e.Name == nil {
		return e.ID.String()
	}
	return *e.Name
}

// Mode selects which relation list supplies the exclusion set.
type Mode int

const (
	// ModeRelationSearch searches friends for one protected resource.
	ModeRelationSearch Mode = iota
	// ModeDefaultRelationSearch searches the actor's default friends.
	ModeDefaultRelationSearch
)

func (m Mode) String() string {
	switch m {
	case ModeRelationSearch:
		return "relation"
	case ModeDefaultRelationSearch:
		return "default"
	default:
		return "unknown"
	}
}

// IDSet is a set of entity ids in canonical string form.
type IDSet map[string]struct{}

// NewIDSet builds a set from ids.
func NewIDSet(ids ...string) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s IDSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}
