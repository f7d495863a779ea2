package search

import "github.com/google/uuid"

// IsSelf reports whether the candidate is the actor.
func IsSelf(candidate Entity, actor uuid.UUID) bool {
	return candidate.ID == actor
}

// IsAlreadyRelated reports whether the candidate is in the relation set.
func IsAlreadyRelated(candidate Entity, related IDSet) bool {
	return related.Has(candidate.ID.String())
}
