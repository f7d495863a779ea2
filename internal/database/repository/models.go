package repository

import "time"

// Player represents a directory row. Name is nil for players the server
// has never seen a profile for.
type Player struct {
	Seq            int64
	ID             string
	Name           *string
	Online         bool
	AcceptsFriends bool
	LastSeen       time.Time
}

// Resource represents a protected block.
type Resource struct {
	ID        string
	OwnerID   string
	World     string
	X, Y, Z   int
	CreatedAt time.Time
}

// Friend represents a relation row, either scoped to a resource or to an
// owner's default list.
type Friend struct {
	ScopeID   string
	FriendID  string
	CreatedAt time.Time
}
