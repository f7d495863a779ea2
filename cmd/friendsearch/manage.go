package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jask/friendsearch/internal/config"
	"github.com/jask/friendsearch/internal/database/repository"
	"github.com/jask/friendsearch/internal/service"
)

var errUnknownPlayer = errors.New("unknown player")

// player looks up an existing player by name. Unlike resolveActor it never
// registers one.
func (a *application) player(ctx context.Context, name string) (*repository.Player, uuid.UUID, error) {
	p, err := a.players.ByName(ctx, name)
	if err != nil {
		return nil, uuid.Nil, err
	}
	if p == nil {
		return nil, uuid.Nil, fmt.Errorf("%w: %s", errUnknownPlayer, name)
	}
	id, err := uuid.Parse(p.ID)
	if err != nil {
		return nil, uuid.Nil, fmt.Errorf("player %s: %w", name, err)
	}
	return p, id, nil
}

func newFriendsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "friends",
		Short: "Inspect and edit friend lists",
	}
	cmd.AddCommand(newFriendsListCmd(), newFriendsRemoveCmd())
	return cmd
}

func newFriendsListCmd() *cobra.Command {
	var actor, resource string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print a default or per-block friend list",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApplication(false)
			if err != nil {
				return err
			}
			defer app.Close()

			ctx := cmd.Context()
			_, id, err := app.player(ctx, actor)
			if err != nil {
				return err
			}
			mode, res := target(resource)
			scope := ""
			if res != nil {
				scope = *res
			}
			rows, err := service.FriendRelations{Friends: app.friends}.List(ctx, mode, id, scope)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(rows) == 0 {
				fmt.Fprintln(out, "no friends")
				return nil
			}
			for _, f := range rows {
				label := f.FriendID
				p, err := app.players.Get(ctx, f.FriendID)
				if err != nil {
					return err
				}
				if p != nil && p.Name != nil {
					label = *p.Name
				}
				fmt.Fprintf(out, "%-16s %s\n", label, f.FriendID)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&actor, "actor", "", "owner of the friend list")
	cmd.Flags().StringVar(&resource, "resource", "", "protected block id; omit for default friends")
	_ = cmd.MarkFlagRequired("actor")
	return cmd
}

func newFriendsRemoveCmd() *cobra.Command {
	var actor, friend, resource string
	cmd := &cobra.Command{
		Use:   "remove",
		Short: "Remove a player from a friend list",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApplication(false)
			if err != nil {
				return err
			}
			defer app.Close()

			ctx := cmd.Context()
			_, actorID, err := app.player(ctx, actor)
			if err != nil {
				return err
			}
			_, friendID, err := app.player(ctx, friend)
			if err != nil {
				return err
			}
			mode, res := target(resource)
			scope := ""
			if res != nil {
				scope = *res
			}
			if err := (service.FriendRelations{Friends: app.friends}).RemoveRelation(ctx, mode, actorID, scope, friendID); err != nil {
				return fmt.Errorf("remove friend: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", friend)
			return nil
		},
	}
	cmd.Flags().StringVar(&actor, "actor", "", "owner of the friend list")
	cmd.Flags().StringVar(&friend, "friend", "", "player to remove")
	cmd.Flags().StringVar(&resource, "resource", "", "protected block id; omit for default friends")
	_ = cmd.MarkFlagRequired("actor")
	_ = cmd.MarkFlagRequired("friend")
	return cmd
}

func newOptOutCmd() *cobra.Command {
	var name string
	var undo bool
	cmd := &cobra.Command{
		Use:   "optout",
		Short: "Stop a player from being offered as a block friend",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApplication(false)
			if err != nil {
				return err
			}
			defer app.Close()

			ctx := cmd.Context()
			p, _, err := app.player(ctx, name)
			if err != nil {
				return err
			}
			if err := app.players.SetAcceptsFriends(ctx, p.ID, undo); err != nil {
				return err
			}
			state := "opted out"
			if undo {
				state = "accepts friends"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", name, state)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "player", "", "player name")
	cmd.Flags().BoolVar(&undo, "undo", false, "accept friend requests again")
	_ = cmd.MarkFlagRequired("player")
	return cmd
}

func newPresenceCmd() *cobra.Command {
	var name string
	var online bool
	cmd := &cobra.Command{
		Use:   "presence",
		Short: "Mark a player online or offline",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApplication(false)
			if err != nil {
				return err
			}
			defer app.Close()

			ctx := cmd.Context()
			p, _, err := app.player(ctx, name)
			if err != nil {
				return err
			}
			return app.players.SetOnline(ctx, p.ID, online)
		},
	}
	cmd.Flags().StringVar(&name, "player", "", "player name")
	cmd.Flags().BoolVar(&online, "online", true, "online status")
	_ = cmd.MarkFlagRequired("player")
	return cmd
}

func newBlocksCmd() *cobra.Command {
	var owner string
	cmd := &cobra.Command{
		Use:   "blocks",
		Short: "List a player's protected blocks",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApplication(false)
			if err != nil {
				return err
			}
			defer app.Close()

			ctx := cmd.Context()
			_, id, err := app.player(ctx, owner)
			if err != nil {
				return err
			}
			blocks, err := app.resources.ListByOwner(ctx, id.String())
			if err != nil {
				return err
			}
			for _, b := range blocks {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s %d %d %d\n", b.ID, b.World, b.X, b.Y, b.Z)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&owner, "owner", "", "owning player name")
	_ = cmd.MarkFlagRequired("owner")
	return cmd
}

func newConfigCmd() *cobra.Command {
	var save bool
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration, optionally writing it to the config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "database.path      %s\n", cfg.Database.Path)
			fmt.Fprintf(out, "panel.size         %d (%d reserved)\n", cfg.Panel.Size, cfg.Panel.Reserved)
			fmt.Fprintf(out, "search.threshold   %g\n", cfg.Search.Threshold)
			fmt.Fprintf(out, "session.ttl        %s\n", cfg.Session.TTL)
			fmt.Fprintf(out, "appearance.remote  %q\n", cfg.Appearance.RemoteURL)
			fmt.Fprintf(out, "log.file           %s (%s)\n", cfg.Log.File, cfg.Log.Level)
			if !save {
				return nil
			}
			if err := config.Save(cfg); err != nil {
				return err
			}
			fmt.Fprintln(out, "saved")
			return nil
		},
	}
	cmd.Flags().BoolVar(&save, "save", false, "write the effective configuration to the config file")
	return cmd
}
