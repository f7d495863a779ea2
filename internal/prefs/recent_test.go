package prefs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRecentRoundTrip(t *testing.T) {
	r := NewRecent(filepath.Join(t.TempDir(), "nested", recentFile))

	q, err := r.Last("steve")
	require.NoError(t, err)
	require.Empty(t, q)

	require.NoError(t, r.Remember("steve", "alex"))
	require.NoError(t, r.Remember("alex", "ste"))

	q, err = r.Last("steve")
	require.NoError(t, err)
	require.Equal(t, "alex", q)

	require.NoError(t, r.Remember("steve", ""))
	q, err = r.Last("steve")
	require.NoError(t, err)
	require.Empty(t, q)
	q, err = r.Last("alex")
	require.NoError(t, err)
	require.Equal(t, "ste", q)
}

func TestRecentCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), recentFile)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))
	_, err := NewRecent(path).Last("steve")
	require.Error(t, err)
}
