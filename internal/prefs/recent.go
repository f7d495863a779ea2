package prefs

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

const recentFile = "recent.json"

// Recent remembers the last query each player searched for, keyed by
// player id.
type Recent struct {
	path string
	mu   sync.Mutex
}

// DefaultRecent stores recent queries under the user config dir.
func DefaultRecent() (*Recent, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil, err
	}
	return NewRecent(filepath.Join(dir, "friendsearch", recentFile)), nil
}

func NewRecent(path string) *Recent {
	return &Recent{path: path}
}

// Last returns the remembered query for actor, or "" if none.
func (r *Recent) Last(actor string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, err := r.load()
	if err != nil {
		return "", err
	}
	return m[actor], nil
}

func (r *Recent) Remember(actor, query string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, err := r.load()
	if err != nil {
		return err
	}
	if query == "" {
		delete(m, actor)
	} else {
		m[actor] = query
	}
	return r.save(m)
}

func (r *Recent) load() (map[string]string, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, err
	}
	m := map[string]string{}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}

func (r *Recent) save(m map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, r.path)
}
