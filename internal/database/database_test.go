package database

import (
	"context"
	"database/sql"
	"errors"
	"math/rand"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jask/friendsearch/internal/database/repository"
)

func TestOpenMigratedIsRepeatable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	db, err := OpenMigrated(path)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = OpenMigrated(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM players`).Scan(&n))
	require.Equal(t, 0, n)
}

func TestRunMigrationsReusesConnection(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, RunMigrations(db))
	require.NoError(t, RunMigrations(db))

	// The caller's handle stays usable after migrating.
	var version int
	var dirty bool
	require.NoError(t, db.QueryRow(`SELECT version, dirty FROM schema_migrations`).Scan(&version, &dirty))
	require.Equal(t, 1, version)
	require.False(t, dirty)
	for _, table := range []string{"players", "resources", "resource_friends", "default_friends"} {
		var n int
		require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&n))
		require.Equal(t, 1, n, table)
	}
}

func TestSeedDirectory(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	db, err := OpenMigrated(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, SeedDirectory(ctx, db, 45, rand.New(rand.NewSource(1))))
	// Seeding again must not duplicate rows.
	require.NoError(t, SeedDirectory(ctx, db, 45, rand.New(rand.NewSource(2))))

	list, err := repository.NewPlayerRepo(db).List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 45)
	require.Equal(t, "Steve", *list[0].Name)
	require.Equal(t, OfflineID("Steve"), list[0].ID)
	require.Equal(t, "Steve1", *list[20].Name)
}

func TestWithTxRollsBack(t *testing.T) {
	db, err := OpenMigrated(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	err = WithTx(db, func(tx *sql.Tx) error {
		if _, err := tx.Exec(`INSERT INTO players(id, name) VALUES ('a', 'A')`); err != nil {
			return err
		}
		return errBoom
	})
	require.ErrorIs(t, err, errBoom)

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM players`).Scan(&n))
	require.Zero(t, n)
}

var errBoom = errors.New("boom")
