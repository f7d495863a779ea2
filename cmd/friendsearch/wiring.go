package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jask/friendsearch/internal/appearance"
	"github.com/jask/friendsearch/internal/config"
	"github.com/jask/friendsearch/internal/database"
	"github.com/jask/friendsearch/internal/database/repository"
	"github.com/jask/friendsearch/internal/integration"
	"github.com/jask/friendsearch/internal/logging"
	"github.com/jask/friendsearch/internal/panel"
	"github.com/jask/friendsearch/internal/search"
	"github.com/jask/friendsearch/internal/service"
	"github.com/jask/friendsearch/internal/session"
)

// application holds everything a command needs.
type application struct {
	cfg       config.Config
	log       *zap.Logger
	db        *sql.DB
	players   *repository.PlayerRepo
	resources *repository.ResourceRepo
	friends   *repository.FriendRepo
	scheduler *panel.GoScheduler
	sessions  *session.Registry
	search    *service.FriendSearch
}

func newApplication(quiet bool) (*application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	log, err := logging.New(cfg.Log, quiet)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}
	db, err := database.OpenMigrated(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	// repositories
	players := repository.NewPlayerRepo(db)
	resources := repository.NewResourceRepo(db)
	friends := repository.NewFriendRepo(db)

	var resolver appearance.Resolver = appearance.Local{}
	if cfg.Appearance.RemoteURL != "" {
		resolver = appearance.NewCached(
			appearance.NewRemote(cfg.Appearance.RemoteURL, cfg.Appearance.Timeout),
			cfg.Appearance.CacheTTL, cfg.Appearance.CacheTTL)
	}

	external := integration.Chain{
		integration.PrivacyFilter{Players: players, Log: log},
		integration.OwnerFilter{Resources: resources, Log: log},
	}
	sched := &panel.GoScheduler{}
	sessions := session.NewRegistry(cfg.Session.TTL, cfg.Session.Cleanup, log)

	svc := service.NewFriendSearch(service.Deps{
		Directory: service.PlayerDirectory{Players: players, Log: log},
		Relations: service.FriendRelations{Friends: friends},
		Pipeline:  search.NewPipeline(cfg.Search.Threshold, external, log),
		Sessions:  sessions,
		Renderer:  panel.NewRenderer(resolver, sched, log),
		Layout:    service.Layout{Size: cfg.Panel.Size, Reserved: cfg.Panel.Reserved},
		Log:       log,
	})

	return &application{
		cfg:       cfg,
		log:       log,
		db:        db,
		players:   players,
		resources: resources,
		friends:   friends,
		scheduler: sched,
		sessions:  sessions,
		search:    svc,
	}, nil
}

func (a *application) Close() {
	a.sessions.Flush()
	a.scheduler.Wait()
	_ = a.db.Close()
	_ = a.log.Sync()
}

// resolveActor finds a player by name, or registers an offline one.
func (a *application) resolveActor(ctx context.Context, name string) (uuid.UUID, error) {
	p, err := a.players.ByName(ctx, name)
	if err != nil {
		return uuid.Nil, err
	}
	if p == nil {
		p = &repository.Player{ID: database.OfflineID(name), Name: &name, Online: true, AcceptsFriends: true}
		if err := a.players.Upsert(ctx, *p); err != nil {
			return uuid.Nil, err
		}
		a.log.Info("registered offline player", zap.String("name", name), zap.String("id", p.ID))
	}
	return uuid.Parse(p.ID)
}

// target turns the --resource flag into a search mode.
func target(resource string) (search.Mode, *string) {
	if resource == "" {
		return search.ModeDefaultRelationSearch, nil
	}
	return search.ModeRelationSearch, &resource
}
