package memory

import (
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// UserNameCache memoizes user display names for QA context rendering, so one
// question over a corpus does not repeat the same user lookups.
type UserNameCache struct {
	cache *cache.Cache
}

func NewUserNameCache() *UserNameCache {
	// Names rarely change; a 5 minute TTL keeps renames visible soon enough.
	c := cache.New(5*time.Minute, 10*time.Minute)
	return &UserNameCache{
		cache: c,
	}
}

func (r *UserNameCache) Save(userId uuid.UUID, name string) {
	r.cache.Set(userId.String(), name, cache.DefaultExpiration)
}

func (r *UserNameCache) Get(userId uuid.UUID) (string, bool) {
	if x, found := r.cache.Get(userId.String()); found {
		return x.(string), true
	}
	return "", false
}
