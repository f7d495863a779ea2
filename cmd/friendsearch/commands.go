package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jask/friendsearch/internal/database"
	"github.com/jask/friendsearch/internal/database/repository"
	"github.com/jask/friendsearch/internal/panel"
	"github.com/jask/friendsearch/internal/prefs"
	"github.com/jask/friendsearch/internal/search"
	"github.com/jask/friendsearch/internal/service"
	"github.com/jask/friendsearch/internal/tui"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "friendsearch",
		Short:         "Search players and add them as friends of your protected blocks",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newTUICmd(),
		newSearchCmd(),
		newSeedCmd(),
		newProtectCmd(),
		newBlocksCmd(),
		newFriendsCmd(),
		newOptOutCmd(),
		newPresenceCmd(),
		newConfigCmd(),
		newMigrateCmd(),
		newResetCmd(),
	)
	return root
}

func newTUICmd() *cobra.Command {
	var actor, resource string
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive friend search panel",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApplication(true)
			if err != nil {
				return err
			}
			defer app.Close()

			ctx := cmd.Context()
			id, err := app.resolveActor(ctx, actor)
			if err != nil {
				return fmt.Errorf("resolve actor: %w", err)
			}
			mode, res := target(resource)
			t := tui.Target{Actor: id, Name: actor, Mode: mode, Resource: res}
			if recent, err := prefs.DefaultRecent(); err == nil {
				if t.Query, err = recent.Last(id.String()); err != nil {
					app.log.Warn("load recent query", zap.Error(err))
				}
				t.Remember = func(q string) {
					if err := recent.Remember(id.String(), q); err != nil {
						app.log.Warn("save recent query", zap.Error(err))
					}
				}
			}
			p := tea.NewProgram(tui.New(ctx, app.search, t), tea.WithAltScreen())
			_, err = p.Run()
			return err
		},
	}
	cmd.Flags().StringVar(&actor, "actor", "", "name of the searching player")
	cmd.Flags().StringVar(&resource, "resource", "", "protected block id; omit to edit default friends")
	_ = cmd.MarkFlagRequired("actor")
	return cmd
}

func newSearchCmd() *cobra.Command {
	var actor, resource string
	var wait time.Duration
	cmd := &cobra.Command{
		Use:   "search QUERY",
		Short: "Run one search and print the rendered panel",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApplication(false)
			if err != nil {
				return err
			}
			defer app.Close()

			ctx := cmd.Context()
			id, err := app.resolveActor(ctx, actor)
			if err != nil {
				return fmt.Errorf("resolve actor: %w", err)
			}
			mode, res := target(resource)
			app.search.Open(id, mode, res)
			defer app.search.Close(id)

			result, err := app.search.Search(ctx, id, args[0])
			if err != nil {
				if errors.Is(err, search.ErrMissingTarget) || errors.Is(err, service.ErrNoSession) {
					fmt.Fprintln(cmd.OutOrStdout(), "nothing to show")
					return nil
				}
				return err
			}
			waitCtx, cancel := context.WithTimeout(ctx, wait)
			defer cancel()
			if err := result.Job.Wait(waitCtx); err != nil {
				return fmt.Errorf("render: %w", err)
			}
			printPanel(cmd.OutOrStdout(), result)
			return nil
		},
	}
	cmd.Flags().StringVar(&actor, "actor", "", "name of the searching player")
	cmd.Flags().StringVar(&resource, "resource", "", "protected block id; omit to search default friends")
	cmd.Flags().DurationVar(&wait, "wait", 10*time.Second, "how long to wait for tile details")
	_ = cmd.MarkFlagRequired("actor")
	return cmd
}

func printPanel(w io.Writer, r *service.SearchResult) {
	fmt.Fprintf(w, "%d matches, %d shown (%s)\n", r.Total, r.Shown, r.Job.Stage())
	for i, t := range r.Grid.Snapshot() {
		switch t := t.(type) {
		case panel.EntityTile:
			status := "offline"
			if t.Entity.Online {
				status = "online"
			}
			fmt.Fprintf(w, "%2d  %s %-16s %s %s\n", i, t.Appearance.Glyph, t.Entity.Label(), t.Entity.ID, status)
		case panel.PendingTile:
			fmt.Fprintf(w, "%2d  ? %-16s (details unavailable)\n", i, t.Label)
		case panel.ControlTile:
			fmt.Fprintf(w, "%2d  [%s] %s\n", i, t.Control, t.Label)
		case panel.EmptyTile:
		}
	}
}

func newSeedCmd() *cobra.Command {
	var count int
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Fill the player directory with sample players",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApplication(false)
			if err != nil {
				return err
			}
			defer app.Close()
			rng := rand.New(rand.NewSource(time.Now().UnixNano()))
			if err := database.SeedDirectory(cmd.Context(), app.db, count, rng); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d players\n", count)
			return nil
		},
	}
	cmd.Flags().IntVar(&count, "count", 50, "number of players")
	return cmd
}

func newProtectCmd() *cobra.Command {
	var owner, world string
	var x, y, z int
	cmd := &cobra.Command{
		Use:   "protect",
		Short: "Register a protected block owned by a player",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApplication(false)
			if err != nil {
				return err
			}
			defer app.Close()
			ctx := cmd.Context()
			id, err := app.resolveActor(ctx, owner)
			if err != nil {
				return fmt.Errorf("resolve owner: %w", err)
			}
			res := repository.Resource{
				ID:      fmt.Sprintf("%s:%d:%d:%d", strings.ToLower(world), x, y, z),
				OwnerID: id.String(),
				World:   world,
				X:       x, Y: y, Z: z,
			}
			if err := app.resources.Upsert(ctx, res); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&owner, "owner", "", "owning player name")
	cmd.Flags().StringVar(&world, "world", "world", "world name")
	cmd.Flags().IntVar(&x, "x", 0, "block x")
	cmd.Flags().IntVar(&y, "y", 64, "block y")
	cmd.Flags().IntVar(&z, "z", 0, "block z")
	_ = cmd.MarkFlagRequired("owner")
	return cmd
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			// newApplication migrates on open.
			app, err := newApplication(false)
			if err != nil {
				return err
			}
			defer app.Close()
			fmt.Fprintln(cmd.OutOrStdout(), "database up to date:", app.cfg.Database.Path)
			return nil
		},
	}
}

func newResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Delete every friend list and protected block",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApplication(false)
			if err != nil {
				return err
			}
			defer app.Close()
			m := &service.MaintenanceService{DB: app.db}
			return m.Reset(cmd.Context())
		},
	}
}
