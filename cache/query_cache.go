// Package cache holds the finalized-SQL and prepared-statement caches
// shared by a session.
package cache

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// QueryCache memoizes finalized SQL text by template fingerprint. Two
// templates with the same fingerprint finalize identically on a given
// profile, so parameter values are never cached — only the text.
type QueryCache struct {
	cache *lru.Cache[uint64, string]
}

// NewQueryCache returns a cache holding up to size entries.
func NewQueryCache(size int) *QueryCache {
	c, _ := lru.New[uint64, string](size)
	return &QueryCache{cache: c}
}

// Get returns the finalized SQL cached under fingerprint.
func (c *QueryCache) Get(fingerprint uint64) (string, bool) {
	return c.cache.Get(fingerprint)
}

// Set stores finalized SQL under fingerprint.
func (c *QueryCache) Set(fingerprint uint64, sql string) {
	c.cache.Add(fingerprint, sql)
}

// Len returns the number of cached entries.
func (c *QueryCache) Len() int { return c.cache.Len() }
