package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func setupEnv(t *testing.T) string {
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("FRIENDSEARCH_CONFIG", filepath.Join(dir, "missing.toml"))
	t.Setenv("FRIENDSEARCH_DATABASE_PATH", filepath.Join(dir, "data", "fs.db"))
	t.Setenv("FRIENDSEARCH_LOG_FILE", filepath.Join(dir, "logs", "fs.log"))
	t.Setenv("FRIENDSEARCH_LOG_LEVEL", "warn")
	return dir
}

func run(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetArgs(args)
	require.NoError(t, root.Execute())
	return out.String()
}

func TestSeedThenSearch(t *testing.T) {
	setupEnv(t)

	require.Contains(t, run(t, "seed", "--count", "25"), "seeded 25 players")
	out := run(t, "search", "--actor", "Tester", "Stev")

	require.Contains(t, out, "rendered")
	require.Contains(t, out, "Steve")
	require.Contains(t, out, "Stevie")
	require.Contains(t, out, "[back] Back")
	require.NotContains(t, out, "Notch")
}

func TestSearchRelationModeSkipsOwner(t *testing.T) {
	setupEnv(t)
	run(t, "seed", "--count", "5")

	id := run(t, "protect", "--owner", "Steve", "--x", "1", "--y", "2", "--z", "3")
	require.Equal(t, "world:1:2:3\n", id)

	out := run(t, "search", "--actor", "Alex", "--resource", "world:1:2:3", "Ste")
	require.NotContains(t, out, "Steve ")
}

func TestMigrateAndReset(t *testing.T) {
	setupEnv(t)
	require.Contains(t, run(t, "migrate"), "database up to date")
	run(t, "reset")
}

func TestFriendsListAndRemove(t *testing.T) {
	setupEnv(t)
	run(t, "seed", "--count", "5")

	app, err := newApplication(true)
	require.NoError(t, err)
	ctx := context.Background()
	_, steve, err := app.player(ctx, "Steve")
	require.NoError(t, err)
	_, alex, err := app.player(ctx, "Alex")
	require.NoError(t, err)
	require.NoError(t, app.friends.AddDefaultFriend(ctx, steve.String(), alex.String()))
	app.Close()

	require.Contains(t, run(t, "friends", "list", "--actor", "Steve"), "Alex")
	require.Contains(t, run(t, "search", "--actor", "Steve", "Alex"), "0 matches")

	require.Equal(t, "removed Alex\n", run(t, "friends", "remove", "--actor", "Steve", "--friend", "Alex"))
	require.Equal(t, "no friends\n", run(t, "friends", "list", "--actor", "Steve"))
	require.Contains(t, run(t, "search", "--actor", "Steve", "Alex"), "1 matches")
}

func TestFriendsRemoveUnknownPlayer(t *testing.T) {
	setupEnv(t)
	run(t, "seed", "--count", "2")

	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"friends", "remove", "--actor", "Steve", "--friend", "Nobody"})
	require.ErrorIs(t, root.Execute(), errUnknownPlayer)
}

func TestOptOutHidesFromBlockSearch(t *testing.T) {
	setupEnv(t)
	run(t, "seed", "--count", "5")
	block := run(t, "protect", "--owner", "Steve")
	block = block[:len(block)-1]

	require.Equal(t, "Alex opted out\n", run(t, "optout", "--player", "Alex"))
	require.Contains(t, run(t, "search", "--actor", "Jeb", "--resource", block, "Alex"), "0 matches")

	run(t, "optout", "--player", "Alex", "--undo")
	require.Contains(t, run(t, "search", "--actor", "Jeb", "--resource", block, "Alex"), "1 matches")
}

func TestPresenceShowsOnTile(t *testing.T) {
	setupEnv(t)
	run(t, "seed", "--count", "5")

	run(t, "presence", "--player", "Alex", "--online")
	require.Contains(t, run(t, "search", "--actor", "Jeb", "Alex"), " online")
	run(t, "presence", "--player", "Alex", "--online=false")
	require.Contains(t, run(t, "search", "--actor", "Jeb", "Alex"), " offline")
}

func TestBlocksListsOwnedBlocks(t *testing.T) {
	setupEnv(t)
	run(t, "seed", "--count", "3")
	run(t, "protect", "--owner", "Steve", "--x", "1", "--y", "2", "--z", "3")
	run(t, "protect", "--owner", "Alex", "--x", "9")

	out := run(t, "blocks", "--owner", "Steve")
	require.Contains(t, out, "world:1:2:3")
	require.NotContains(t, out, "world:9:")
}

func TestConfigSave(t *testing.T) {
	dir := setupEnv(t)
	path := filepath.Join(dir, "missing.toml")

	out := run(t, "config")
	require.Contains(t, out, "panel.size         27 (2 reserved)")
	require.NoFileExists(t, path)

	require.Contains(t, run(t, "config", "--save"), "saved")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "threshold")
}
