package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jask/friendsearch/internal/panel"
	"github.com/jask/friendsearch/internal/search"
	"github.com/jask/friendsearch/internal/session"
)

// ErrNoSession is returned when the actor has no open search panel.
var ErrNoSession = errors.New("friend search: no session for actor")

// Directory enumerates every known entity.
type Directory interface {
	AllEntities(ctx context.Context) ([]search.Entity, error)
}

// RelationStore reads and mutates friend lists.
type RelationStore interface {
	RelatedIDs(ctx context.Context, mode search.Mode, actor uuid.UUID, target string) (search.IDSet, error)
	AddRelation(ctx context.Context, mode search.Mode, actor uuid.UUID, target string, friend uuid.UUID) error
}

// Layout is the shape of the result panel.
type Layout struct {
	Size     int
	Reserved int
}

// SearchResult is the panel produced by one search.
type SearchResult struct {
	Grid  *panel.Grid
	Job   *panel.Job
	Total int
	Shown int
}

// FriendSearch runs friend searches for actors and keeps one result panel per actor.
type FriendSearch struct {
	directory Directory
	relations RelationStore
	pipeline  *search.Pipeline
	sessions  *session.Registry
	renderer  *panel.Renderer
	layout    Layout
	log       *zap.Logger

	mu     sync.Mutex
	panels map[uuid.UUID]openPanel
}

// openPanel is a grid together with the session whose results it shows.
type openPanel struct {
	grid *panel.Grid
	sess *session.Session
}

// Deps bundles the collaborators of FriendSearch.
type Deps struct {
	Directory Directory
	Relations RelationStore
	Pipeline  *search.Pipeline
	Sessions  *session.Registry
	Renderer  *panel.Renderer
	Layout    Layout
	Log       *zap.Logger
}

func NewFriendSearch(d Deps) *FriendSearch {
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}
	s := &FriendSearch{
		directory: d.Directory,
		relations: d.Relations,
		pipeline:  d.Pipeline,
		sessions:  d.Sessions,
		renderer:  d.Renderer,
		layout:    d.Layout,
		log:       log,
		panels:    make(map[uuid.UUID]openPanel),
	}
	d.Sessions.OnClose(s.sessionClosed)
	return s
}

// Usable is the number of result slots per panel.
func (s *FriendSearch) Usable() int {
	return s.layout.Size - s.layout.Reserved
}

// Open starts a search session for actor. target is the protected resource
// for relation searches and nil for default-friend searches.
func (s *FriendSearch) Open(actor uuid.UUID, mode search.Mode, target *string) *session.Session {
	s.closePanel(actor)
	return s.sessions.Open(actor, mode, target)
}

// Close tears down the actor's session and closes its panel.
func (s *FriendSearch) Close(actor uuid.UUID) {
	s.closePanel(actor)
	s.sessions.Close(actor)
}

// Panel returns the actor's current result panel.
func (s *FriendSearch) Panel(actor uuid.UUID) (*panel.Grid, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.panels[actor]
	return p.grid, ok
}

// Search filters the directory for query and renders the result panel. It
// returns once placeholders are painted; details are filled in the
// background. A missing session returns ErrNoSession and a relation search
// without a target returns search.ErrMissingTarget; in both cases the
// session's results are left untouched and no panel is produced.
func (s *FriendSearch) Search(ctx context.Context, actor uuid.UUID, query string) (*SearchResult, error) {
	start := time.Now()
	sess, ok := s.sessions.Get(actor)
	if !ok {
		return nil, ErrNoSession
	}
	if sess.Mode == search.ModeRelationSearch && sess.Target == nil {
		return nil, search.ErrMissingTarget
	}
	target := sess.TargetID()

	var (
		related search.IDSet
		dir     []search.Entity
	)
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		if related, err = s.relations.RelatedIDs(egCtx, sess.Mode, actor, target); err != nil {
			return fmt.Errorf("load relations: %w", err)
		}
		return nil
	})
	eg.Go(func() error {
		var err error
		if dir, err = s.directory.AllEntities(egCtx); err != nil {
			return fmt.Errorf("load directory: %w", err)
		}
		return nil
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	candidates, err := s.pipeline.Run(ctx, search.Request{
		Directory: dir,
		Actor:     actor,
		Related:   related,
		Query:     query,
		Mode:      sess.Mode,
		Target:    target,
	})
	if err != nil {
		return nil, err
	}

	gen := sess.Replace(query, candidates, s.Usable())
	grid := panel.NewGrid(s.layout.Size, s.layout.Reserved)
	grid.PaintControls(query)
	s.swapPanel(actor, sess, grid)
	if sess.Closed() {
		// Closed while we were filtering; the close hook may have run already.
		s.sessionClosed(sess)
	}

	// The detail stage outlives the request that started it.
	job := s.renderer.Render(context.WithoutCancel(ctx), grid, sess, gen, sess.Results())

	s.log.Info("friend search",
		zap.String("actor", actor.String()),
		zap.Stringer("mode", sess.Mode),
		zap.String("query", query),
		zap.Int("directory", len(dir)),
		zap.Int("matches", len(candidates)),
		zap.Int("shown", job.Shown()),
		zap.Uint64("generation", gen),
		zap.Duration("elapsed", time.Since(start)))

	return &SearchResult{Grid: grid, Job: job, Total: len(candidates), Shown: job.Shown()}, nil
}

func (s *FriendSearch) swapPanel(actor uuid.UUID, sess *session.Session, g *panel.Grid) {
	s.mu.Lock()
	old, ok := s.panels[actor]
	s.panels[actor] = openPanel{grid: g, sess: sess}
	s.mu.Unlock()
	if ok {
		old.grid.Close()
	}
}

func (s *FriendSearch) closePanel(actor uuid.UUID) {
	s.mu.Lock()
	old, ok := s.panels[actor]
	delete(s.panels, actor)
	s.mu.Unlock()
	if ok {
		old.grid.Close()
	}
}

// sessionClosed drops the panel of a session that left the registry, unless
// the actor has since opened a new session.
func (s *FriendSearch) sessionClosed(sess *session.Session) {
	s.mu.Lock()
	p, ok := s.panels[sess.Actor]
	if ok && p.sess == sess {
		delete(s.panels, sess.Actor)
	} else {
		ok = false
	}
	s.mu.Unlock()
	if ok {
		p.grid.Close()
		s.log.Debug("panel closed with session", zap.String("actor", sess.Actor.String()))
	}
}
