package appearance

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jask/friendsearch/internal/search"
)

// Remote fetches textures from a profile service. URLTemplate contains a
// single %s that receives the entity id without dashes.
type Remote struct {
	URLTemplate string
	Client      *http.Client
	Fallback    Resolver
}

// NewRemote returns a Remote resolver with a bounded client timeout.
func NewRemote(urlTemplate string, timeout time.Duration) *Remote {
	return &Remote{
		URLTemplate: urlTemplate,
		Client:      &http.Client{Timeout: timeout},
		Fallback:    Local{},
	}
}

type profileResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Properties []struct {
		Name  string `json:"name"`
		Value string `json:"value"`
	} `json:"properties"`
}

func (r *Remote) Resolve(ctx context.Context, e search.Entity) (Appearance, error) {
	base := Appearance{}
	if r.Fallback != nil {
		var err error
		if base, err = r.Fallback.Resolve(ctx, e); err != nil {
			return Appearance{}, err
		}
	}

	url := fmt.Sprintf(r.URLTemplate, strings.ReplaceAll(e.ID.String(), "-", ""))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Appearance{}, fmt.Errorf("appearance request: %w", err)
	}
	resp, err := r.Client.Do(req)
	if err != nil {
		return Appearance{}, fmt.Errorf("appearance fetch %s: %w", e.ID, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Appearance{}, fmt.Errorf("appearance fetch %s: status %d", e.ID, resp.StatusCode)
	}

	var body profileResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Appearance{}, fmt.Errorf("appearance decode %s: %w", e.ID, err)
	}
	for _, p := range body.Properties {
		if p.Name == "textures" {
			base.Texture = p.Value
			return base, nil
		}
	}
	return Appearance{}, fmt.Errorf("appearance %s: profile has no textures", e.ID)
}
