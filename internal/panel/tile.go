// Package panel models the fixed-size result panel and paints search
// results onto it in two stages.
package panel

import (
	"github.com/jask/friendsearch/internal/appearance"
	"github.com/jask/friendsearch/internal/search"
)

// Tile is the content of one panel slot. The set of tiles is closed:
// EmptyTile, ControlTile, PendingTile and EntityTile.
type Tile interface {
	isTile()
}

// Control identifies a navigation control occupying a reserved slot.
type Control int

const (
	ControlBack Control = iota
	ControlQuery
)

func (c Control) String() string {
	switch c {
	case ControlBack:
		return "back"
	case ControlQuery:
		return "query"
	default:
		return "unknown"
	}
}

// EmptyTile is an unpainted slot.
type EmptyTile struct{}

// ControlTile is a navigation control.
type ControlTile struct {
	Control Control
	Label   string
}

// PendingTile stands in for a result whose details are still loading, or
// whose details could not be loaded.
type PendingTile struct {
	Index int
	Label string
}

// EntityTile is a fully rendered result.
type EntityTile struct {
	Index      int
	Entity     search.Entity
	Appearance appearance.Appearance
}

func (EmptyTile) isTile()   {}
func (ControlTile) isTile() {}
func (PendingTile) isTile() {}
func (EntityTile) isTile()  {}
