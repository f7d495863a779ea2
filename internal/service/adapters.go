package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jask/friendsearch/internal/database/repository"
	"github.com/jask/friendsearch/internal/search"
)

// PlayerDirectory exposes the player table as the search directory.
type PlayerDirectory struct {
	Players *repository.PlayerRepo
	Log     *zap.Logger
}

// AllEntities returns every player in enumeration order. Rows with
// malformed ids are skipped.
func (d PlayerDirectory) AllEntities(ctx context.Context) ([]search.Entity, error) {
	rows, err := d.Players.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	out := make([]search.Entity, 0, len(rows))
	for _, p := range rows {
		id, err := uuid.Parse(p.ID)
		if err != nil {
			if d.Log != nil {
				d.Log.Warn("skipping player with malformed id", zap.String("id", p.ID), zap.Error(err))
			}
			continue
		}
		out = append(out, search.Entity{ID: id, Name: p.Name, Online: p.Online})
	}
	return out, nil
}

// FriendRelations reads and writes friend lists according to the search mode.
type FriendRelations struct {
	Friends *repository.FriendRepo
}

func (r FriendRelations) RelatedIDs(ctx context.Context, mode search.Mode, actor uuid.UUID, target string) (search.IDSet, error) {
	rows, err := r.List(ctx, mode, actor, target)
	if err != nil {
		return nil, err
	}
	set := make(search.IDSet, len(rows))
	for _, f := range rows {
		set[f.FriendID] = struct{}{}
	}
	return set, nil
}

func (r FriendRelations) AddRelation(ctx context.Context, mode search.Mode, actor uuid.UUID, target string, friend uuid.UUID) error {
	switch mode {
	case search.ModeRelationSearch:
		return r.Friends.AddResourceFriend(ctx, target, friend.String())
	case search.ModeDefaultRelationSearch:
		return r.Friends.AddDefaultFriend(ctx, actor.String(), friend.String())
	default:
		return fmt.Errorf("unknown search mode %d", mode)
	}
}

func (r FriendRelations) RemoveRelation(ctx context.Context, mode search.Mode, actor uuid.UUID, target string, friend uuid.UUID) error {
	switch mode {
	case search.ModeRelationSearch:
		return r.Friends.RemoveResourceFriend(ctx, target, friend.String())
	case search.ModeDefaultRelationSearch:
		return r.Friends.RemoveDefaultFriend(ctx, actor.String(), friend.String())
	default:
		return fmt.Errorf("unknown search mode %d", mode)
	}
}

// List returns the friend rows for mode, oldest first.
func (r FriendRelations) List(ctx context.Context, mode search.Mode, actor uuid.UUID, target string) ([]repository.Friend, error) {
	switch mode {
	case search.ModeRelationSearch:
		return r.Friends.ResourceFriends(ctx, target)
	case search.ModeDefaultRelationSearch:
		return r.Friends.DefaultFriends(ctx, actor.String())
	default:
		return nil, fmt.Errorf("unknown search mode %d", mode)
	}
}
