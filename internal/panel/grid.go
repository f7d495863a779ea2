package panel

import "sync"

// Grid is a fixed-size slot surface safe for concurrent painting. The last
// reserved slots hold controls; the rest hold results. Paints after Close
// are dropped.
type Grid struct {
	mu       sync.RWMutex
	slots    []Tile
	reserved int
	closed   bool
	onPaint  func(slot int)
}

// NewGrid returns an empty grid of size slots with reserved control slots.
func NewGrid(size, reserved int) *Grid {
	if reserved > size {
		reserved = size
	}
	slots := make([]Tile, size)
	for i := range slots {
		slots[i] = EmptyTile{}
	}
	return &Grid{slots: slots, reserved: reserved}
}

func (g *Grid) Size() int { return len(g.slots) }

// Usable returns the number of slots available to results.
func (g *Grid) Usable() int { return len(g.slots) - g.reserved }

// OnPaint registers fn to be called after every accepted paint.
func (g *Grid) OnPaint(fn func(slot int)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.onPaint = fn
}

// Paint stores t at slot i. It reports false when the grid is closed or i
// is out of range.
func (g *Grid) Paint(i int, t Tile) bool {
	g.mu.Lock()
	if g.closed || i < 0 || i >= len(g.slots) {
		g.mu.Unlock()
		return false
	}
	g.slots[i] = t
	fn := g.onPaint
	g.mu.Unlock()
	if fn != nil {
		fn(i)
	}
	return true
}

// Slot returns the tile at i, or EmptyTile when i is out of range.
func (g *Grid) Slot(i int) Tile {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if i < 0 || i >= len(g.slots) {
		return EmptyTile{}
	}
	return g.slots[i]
}

// Snapshot copies every slot.
func (g *Grid) Snapshot() []Tile {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return append([]Tile(nil), g.slots...)
}

// PaintControls fills the reserved slots: back in the last slot, the query
// in the one before it.
func (g *Grid) PaintControls(query string) {
	n := len(g.slots)
	if g.reserved >= 1 {
		g.Paint(n-1, ControlTile{Control: ControlBack, Label: "Back"})
	}
	if g.reserved >= 2 {
		g.Paint(n-2, ControlTile{Control: ControlQuery, Label: query})
	}
}

// Close marks the grid closed.
func (g *Grid) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.closed = true
}

func (g *Grid) Closed() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.closed
}
