package cache

import (
	"time"

	"github.com/patrickmn/go-cache"
)

const (
	DefaultExpiration = 5 * time.Minute
	CleanupInterval   = 15 * time.Minute
)

// Cache memoizes small lookups such as place predictions.
var Cache *cache.Cache

func init() {
	Cache = New(DefaultExpiration)
}

func New(expiration time.Duration) *cache.Cache {
	if expiration <= 0 {
		expiration = DefaultExpiration
	}
	return cache.New(expiration, CleanupInterval)
}
