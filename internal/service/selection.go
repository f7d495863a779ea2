package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jask/friendsearch/internal/panel"
	"github.com/jask/friendsearch/internal/search"
)

// Action is what a click on the result panel did.
type Action int

const (
	// ActionIgnored leaves the panel open.
	ActionIgnored Action = iota
	// ActionAdded added a friend and returned to the previous panel.
	ActionAdded
	// ActionBack returned to the previous panel without changes.
	ActionBack
)

func (a Action) String() string {
	switch a {
	case ActionIgnored:
		return "ignored"
	case ActionAdded:
		return "added"
	case ActionBack:
		return "back"
	default:
		return "unknown"
	}
}

// ClickResult describes the outcome of a click. Cancelled is always true:
// the panel never lets a click move slot contents.
type ClickResult struct {
	Action    Action
	Friend    *search.Entity
	Cancelled bool
}

// Click handles a click on slot of the actor's result panel. Result tiles
// add the cached entity at that index; the back control and unknown tiles
// return to the previous panel; empty slots and stale indexes are ignored.
func (s *FriendSearch) Click(ctx context.Context, actor uuid.UUID, slot int) (ClickResult, error) {
	sess, ok := s.sessions.Get(actor)
	if !ok {
		return ClickResult{Action: ActionBack, Cancelled: true}, nil
	}
	grid, ok := s.Panel(actor)
	if !ok {
		s.Close(actor)
		return ClickResult{Action: ActionBack, Cancelled: true}, nil
	}

	var index int
	switch t := grid.Slot(slot).(type) {
	case panel.EntityTile:
		index = t.Index
	case panel.PendingTile:
		index = t.Index
	case panel.EmptyTile:
		return ClickResult{Action: ActionIgnored, Cancelled: true}, nil
	case panel.ControlTile:
		s.Close(actor)
		return ClickResult{Action: ActionBack, Cancelled: true}, nil
	default:
		s.Close(actor)
		return ClickResult{Action: ActionBack, Cancelled: true}, nil
	}

	friend, ok := sess.At(index)
	if !ok {
		return ClickResult{Action: ActionIgnored, Cancelled: true}, nil
	}
	if err := s.relations.AddRelation(ctx, sess.Mode, actor, sess.TargetID(), friend.ID); err != nil {
		return ClickResult{Action: ActionIgnored, Cancelled: true}, fmt.Errorf("add friend: %w", err)
	}
	s.log.Info("friend added",
		zap.String("actor", actor.String()),
		zap.String("friend", friend.ID.String()),
		zap.Stringer("mode", sess.Mode),
		zap.String("target", sess.TargetID()))
	s.Close(actor)
	return ClickResult{Action: ActionAdded, Friend: &friend, Cancelled: true}, nil
}
