package view

import (
	"sync"

	"lesson-service/internal/cache"
	"lesson-service/internal/identity"
)

// Registry hands out one UserLessonView per user, all fed by the same cache.
// Used by the HTTP layer, where each request carries a fixed identity.
type Registry struct {
	cache *cache.Cache

	mu    sync.Mutex
	views map[string]*UserLessonView
}

func NewRegistry(c *cache.Cache) *Registry {
	return &Registry{
		cache: c,
		views: make(map[string]*UserLessonView),
	}
}

func (r *Registry) For(userID string) *UserLessonView {
	r.mu.Lock()
	defer r.mu.Unlock()
	if v, ok := r.views[userID]; ok {
		return v
	}
	v := New(r.cache, identity.Static(userID))
	r.views[userID] = v
	return v
}
