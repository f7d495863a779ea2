package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/jask/friendsearch/internal/search"
)

// Registry maps actor ids to their open search session. Sessions are
// created when a search panel opens and removed when it closes; the TTL
// bounds sessions whose close was never observed.
type Registry struct {
	cache *cache.Cache
	log   *zap.Logger

	// mu orders Open against Get's lookup-then-refresh.
	mu sync.Mutex

	hookMu  sync.RWMutex
	onClose []func(s *Session)
}

// NewRegistry returns a registry whose sessions expire after ttl and are
// purged every cleanup interval.
func NewRegistry(ttl, cleanup time.Duration, log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	c := cache.New(ttl, cleanup)
	r := &Registry{cache: c, log: log}
	c.OnEvicted(func(key string, v interface{}) {
		s, ok := v.(*Session)
		if !ok {
			return
		}
		s.close()
		r.log.Debug("session evicted", zap.String("actor", key))
		r.hookMu.RLock()
		hooks := r.onClose
		r.hookMu.RUnlock()
		for _, fn := range hooks {
			fn(s)
		}
	})
	return r
}

// OnClose registers fn to run after a session leaves the registry through
// Close, Flush or expiry. Sessions replaced by Open do not trigger it. fn
// must not call back into the registry.
func (r *Registry) OnClose(fn func(s *Session)) {
	r.hookMu.Lock()
	defer r.hookMu.Unlock()
	r.onClose = append(r.onClose, fn)
}

// Open creates a fresh session for actor, replacing and closing any existing one.
func (r *Registry) Open(actor uuid.UUID, mode search.Mode, target *string) *Session {
	s := newSession(actor, mode, target)
	key := actor.String()
	r.mu.Lock()
	defer r.mu.Unlock()
	if old, ok := r.cache.Get(key); ok {
		old.(*Session).close()
	}
	r.cache.Set(key, s, cache.DefaultExpiration)
	r.log.Debug("session opened",
		zap.String("actor", key),
		zap.Stringer("mode", mode),
		zap.String("target", s.TargetID()))
	return s
}

// Get returns the actor's session and refreshes its expiry.
func (r *Registry) Get(actor uuid.UUID) (*Session, bool) {
	key := actor.String()
	r.mu.Lock()
	defer r.mu.Unlock()
	x, found := r.cache.Get(key)
	if !found {
		return nil, false
	}
	s := x.(*Session)
	// Replace fails if the session was closed since the lookup.
	if err := r.cache.Replace(key, s, cache.DefaultExpiration); err != nil {
		return nil, false
	}
	return s, true
}

// Close tears down the actor's session. Closing an absent session is a no-op.
func (r *Registry) Close(actor uuid.UUID) {
	key := actor.String()
	if _, found := r.cache.Get(key); found {
		r.cache.Delete(key) // OnEvicted closes the session
		r.log.Debug("session closed", zap.String("actor", key))
	}
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	return r.cache.ItemCount()
}

// Flush closes every session.
func (r *Registry) Flush() {
	for key := range r.cache.Items() {
		r.cache.Delete(key)
	}
}
