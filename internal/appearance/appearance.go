// Package appearance looks up how an entity is drawn on a rendered tile.
package appearance

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/jask/friendsearch/internal/search"
)

// Appearance is the identity icon of an entity.
type Appearance struct {
	Glyph   string
	Color   string
	Texture string
}

// Resolver fetches an entity's appearance. Implementations may block on
// network lookups.
type Resolver interface {
	Resolve(ctx context.Context, e search.Entity) (Appearance, error)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(ctx context.Context, e search.Entity) (Appearance, error)

func (f ResolverFunc) Resolve(ctx context.Context, e search.Entity) (Appearance, error) {
	return f(ctx, e)
}

var palette = []string{"33", "39", "70", "107", "142", "172", "176", "203", "214", "81"}

// Local derives a deterministic glyph and color from the entity itself.
type Local struct{}

func (Local) Resolve(_ context.Context, e search.Entity) (Appearance, error) {
	label := e.Label()
	glyph := "?"
	if name, ok := e.DisplayName(); ok && name != "" {
		glyph = strings.ToUpper(string([]rune(name)[:1]))
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(e.ID.String()))
	return Appearance{
		Glyph:   glyph,
		Color:   palette[h.Sum32()%uint32(len(palette))],
		Texture: fmt.Sprintf("local:%s", label),
	}, nil
}
