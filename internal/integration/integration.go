// Package integration holds policy filters that may veto friend candidates
// for reasons unrelated to the search query.
package integration

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jask/friendsearch/internal/database/repository"
	"github.com/jask/friendsearch/internal/search"
)

// FilterFunc adapts a function to search.ExternalFilter.
type FilterFunc func(ctx context.Context, candidates []search.Entity, actor uuid.UUID, target string) []search.Entity

func (f FilterFunc) FilterCandidates(ctx context.Context, candidates []search.Entity, actor uuid.UUID, target string) []search.Entity {
	return f(ctx, candidates, actor, target)
}

// Chain applies each filter to the output of the previous one.
type Chain []search.ExternalFilter

func (c Chain) FilterCandidates(ctx context.Context, candidates []search.Entity, actor uuid.UUID, target string) []search.Entity {
	for _, f := range c {
		if len(candidates) == 0 {
			break
		}
		candidates = f.FilterCandidates(ctx, candidates, actor, target)
	}
	return candidates
}

func keep(candidates []search.Entity, pred func(search.Entity) bool) []search.Entity {
	out := make([]search.Entity, 0, len(candidates))
	for _, e := range candidates {
		if pred(e) {
			out = append(out, e)
		}
	}
	return out
}

// PrivacyFilter drops players who opted out of being added as friends. If
// the opt-out list cannot be read every candidate is dropped.
type PrivacyFilter struct {
	Players *repository.PlayerRepo
	Log     *zap.Logger
}

func (f PrivacyFilter) FilterCandidates(ctx context.Context, candidates []search.Entity, actor uuid.UUID, target string) []search.Entity {
	declined, err := f.Players.DeclinedFriendIDs(ctx)
	if err != nil {
		logger(f.Log).Error("privacy filter: load opt-outs", zap.Error(err))
		return nil
	}
	return keep(candidates, func(e search.Entity) bool {
		_, no := declined[e.ID.String()]
		return !no
	})
}

// OwnerFilter drops the owner of the target resource, who always has access.
type OwnerFilter struct {
	Resources *repository.ResourceRepo
	Log       *zap.Logger
}

func (f OwnerFilter) FilterCandidates(ctx context.Context, candidates []search.Entity, actor uuid.UUID, target string) []search.Entity {
	res, err := f.Resources.Get(ctx, target)
	if err != nil {
		logger(f.Log).Error("owner filter: load resource", zap.String("resource", target), zap.Error(err))
		return nil
	}
	if res == nil {
		return candidates
	}
	return keep(candidates, func(e search.Entity) bool {
		return e.ID.String() != res.OwnerID
	})
}

func logger(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}
