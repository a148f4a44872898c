package prober

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// FailureCache remembers candidates that recently failed so scheduled runs
// in watch mode do not rehammer known-dead mirrors. A nil cache disables the
// behavior entirely, which is the one-shot default.
type FailureCache struct {
	c *cache.Cache
}

func NewFailureCache(ttl time.Duration) *FailureCache {
	if ttl <= 0 {
		return nil
	}
	return &FailureCache{c: cache.New(ttl, ttl)}
}

func (f *FailureCache) MarkFailed(server string) {
	if f == nil {
		return
	}
	f.c.Set(server, true, cache.DefaultExpiration)
}

func (f *FailureCache) RecentlyFailed(server string) bool {
	if f == nil {
		return false
	}
	_, found := f.c.Get(server)
	return found
}
