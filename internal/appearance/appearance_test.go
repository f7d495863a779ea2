package appearance

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jask/friendsearch/internal/search"
)

func entity(name string) search.Entity {
	return search.Entity{ID: uuid.NewSHA1(uuid.NameSpaceOID, []byte(name)), Name: &name}
}

func TestLocalIsDeterministic(t *testing.T) {
	e := entity("steve")
	a1, err := Local{}.Resolve(context.Background(), e)
	require.NoError(t, err)
	a2, err := Local{}.Resolve(context.Background(), e)
	require.NoError(t, err)
	require.Equal(t, a1, a2)
	require.Equal(t, "S", a1.Glyph)

	anon, err := Local{}.Resolve(context.Background(), search.Entity{ID: uuid.New()})
	require.NoError(t, err)
	require.Equal(t, "?", anon.Glyph)
}

func TestRemoteReadsTextures(t *testing.T) {
	e := entity("alex")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, strings.ReplaceAll(e.ID.String(), "-", "")))
		_, _ = w.Write([]byte(`{"id":"x","name":"alex","properties":[{"name":"textures","value":"abc123"}]}`))
	}))
	t.Cleanup(srv.Close)

	r := NewRemote(srv.URL+"/profile/%s", time.Second)
	a, err := r.Resolve(context.Background(), e)
	require.NoError(t, err)
	require.Equal(t, "abc123", a.Texture)
	require.Equal(t, "A", a.Glyph)
}

func TestRemoteFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "missing") {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"properties":[]}`))
	}))
	t.Cleanup(srv.Close)

	_, err := NewRemote(srv.URL+"/missing/%s", time.Second).Resolve(context.Background(), entity("a"))
	require.Error(t, err)

	_, err = NewRemote(srv.URL+"/bare/%s", time.Second).Resolve(context.Background(), entity("a"))
	require.Error(t, err)
}

func TestCachedMemoizesSuccessOnly(t *testing.T) {
	var calls atomic.Int32
	fail := true
	next := ResolverFunc(func(ctx context.Context, e search.Entity) (Appearance, error) {
		calls.Add(1)
		if fail {
			return Appearance{}, errors.New("down")
		}
		return Appearance{Glyph: "X"}, nil
	})
	c := NewCached(next, time.Minute, 0)
	e := entity("jeb")

	_, err := c.Resolve(context.Background(), e)
	require.Error(t, err)

	fail = false
	for i := 0; i < 3; i++ {
		a, err := c.Resolve(context.Background(), e)
		require.NoError(t, err)
		require.Equal(t, "X", a.Glyph)
	}
	require.Equal(t, int32(2), calls.Load())
}
