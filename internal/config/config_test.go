package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("FRIENDSEARCH_CONFIG", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 27, cfg.Panel.Size)
	require.Equal(t, 2, cfg.Panel.Reserved)
	require.Equal(t, 25, cfg.Panel.Usable())
	require.InDelta(t, 0.3, cfg.Search.Threshold, 1e-9)
	require.Equal(t, 10*time.Minute, cfg.Session.TTL)
	require.Equal(t, filepath.Join(home, ".local", "share", "friendsearch", "friendsearch.db"), cfg.Database.Path)
	require.Empty(t, cfg.Appearance.RemoteURL)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("FRIENDSEARCH_CONFIG", "")
	t.Setenv("FRIENDSEARCH_PANEL_SIZE", "54")
	t.Setenv("FRIENDSEARCH_SEARCH_THRESHOLD", "0.5")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 54, cfg.Panel.Size)
	require.InDelta(t, 0.5, cfg.Search.Threshold, 1e-9)
}

func TestSaveThenLoad(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	t.Setenv("FRIENDSEARCH_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)
	cfg.Panel.Size = 36
	cfg.Appearance.RemoteURL = "https://example.invalid/profile/%s"
	cfg.Session.TTL = 90 * time.Second
	require.NoError(t, Save(cfg))

	_, err = os.Stat(path)
	require.NoError(t, err)

	loaded, err := Load()
	require.NoError(t, err)
	require.Equal(t, 36, loaded.Panel.Size)
	require.Equal(t, "https://example.invalid/profile/%s", loaded.Appearance.RemoteURL)
	require.Equal(t, 90*time.Second, loaded.Session.TTL)
}

func TestValidate(t *testing.T) {
	base := Config{
		Panel:   PanelConfig{Size: 27, Reserved: 2},
		Search:  SearchConfig{Threshold: 0.3},
		Session: SessionConfig{TTL: time.Minute},
	}
	require.NoError(t, base.Validate())

	bad := base
	bad.Panel.Reserved = 27
	require.Error(t, bad.Validate())

	bad = base
	bad.Panel.Size = 0
	require.Error(t, bad.Validate())

	bad = base
	bad.Search.Threshold = 1.5
	require.Error(t, bad.Validate())

	bad = base
	bad.Session.TTL = 0
	require.Error(t, bad.Validate())
}
