package repository_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jask/friendsearch/internal/database"
	"github.com/jask/friendsearch/internal/database/repository"
)

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.OpenMigrated(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func strPtr(s string) *string { return &s }

func TestPlayerRepoListKeepsInsertOrder(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	repo := repository.NewPlayerRepo(openDB(t))

	require.NoError(t, repo.Upsert(ctx, repository.Player{ID: "b", Name: strPtr("Bravo"), AcceptsFriends: true}))
	require.NoError(t, repo.Upsert(ctx, repository.Player{ID: "a", Name: nil, AcceptsFriends: true}))
	require.NoError(t, repo.Upsert(ctx, repository.Player{ID: "c", Name: strPtr("Charlie"), Online: true}))
	// Updating an existing row keeps its position.
	require.NoError(t, repo.Upsert(ctx, repository.Player{ID: "b", Name: strPtr("Bravo2"), Online: true, AcceptsFriends: true}))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	require.Equal(t, []string{"b", "a", "c"}, []string{list[0].ID, list[1].ID, list[2].ID})
	require.Equal(t, "Bravo2", *list[0].Name)
	require.True(t, list[0].Online)
	require.Nil(t, list[1].Name)

	declined, err := repo.DeclinedFriendIDs(ctx)
	require.NoError(t, err)
	require.Equal(t, map[string]struct{}{"c": {}}, declined)

	p, err := repo.ByName(ctx, "charlie")
	require.NoError(t, err)
	require.NotNil(t, p)
	require.Equal(t, "c", p.ID)

	missing, err := repo.Get(ctx, "zzz")
	require.NoError(t, err)
	require.Nil(t, missing)

	require.NoError(t, repo.SetOnline(ctx, "c", false))
	require.NoError(t, repo.SetAcceptsFriends(ctx, "c", true))
	p, err = repo.Get(ctx, "c")
	require.NoError(t, err)
	require.False(t, p.Online)
	require.True(t, p.AcceptsFriends)
}

func TestFriendRepoScopes(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	db := openDB(t)
	resources := repository.NewResourceRepo(db)
	friends := repository.NewFriendRepo(db)

	require.NoError(t, resources.Upsert(ctx, repository.Resource{ID: "chest-1", OwnerID: "owner", World: "world", X: 1, Y: 64, Z: -3}))

	require.NoError(t, friends.AddResourceFriend(ctx, "chest-1", "f1"))
	require.NoError(t, friends.AddResourceFriend(ctx, "chest-1", "f1"))
	require.NoError(t, friends.AddDefaultFriend(ctx, "owner", "f2"))

	rf, err := friends.ResourceFriends(ctx, "chest-1")
	require.NoError(t, err)
	require.Len(t, rf, 1)
	require.Equal(t, "f1", rf[0].FriendID)

	df, err := friends.DefaultFriends(ctx, "owner")
	require.NoError(t, err)
	require.Len(t, df, 1)
	require.Equal(t, "f2", df[0].FriendID)

	require.NoError(t, friends.RemoveResourceFriend(ctx, "chest-1", "f1"))
	require.NoError(t, friends.RemoveDefaultFriend(ctx, "owner", "f2"))
	rf, err = friends.ResourceFriends(ctx, "chest-1")
	require.NoError(t, err)
	require.Empty(t, rf)
	df, err = friends.DefaultFriends(ctx, "owner")
	require.NoError(t, err)
	require.Empty(t, df)

	owned, err := resources.ListByOwner(ctx, "owner")
	require.NoError(t, err)
	require.Len(t, owned, 1)
	require.Equal(t, 64, owned[0].Y)
}
