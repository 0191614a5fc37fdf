package cache

import (
	"context"
	"database/sql"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// StatementCache is an LRU of prepared statements keyed by the finalized
// SQL's fingerprint. Evicted statements are closed.
type StatementCache struct {
	mu    sync.Mutex
	cache *lru.Cache[uint64, *sql.Stmt]
}

// NewStatementCache returns a cache holding up to size prepared statements.
func NewStatementCache(size int) *StatementCache {
	c, _ := lru.NewWithEvict(size, func(_ uint64, stmt *sql.Stmt) {
		stmt.Close()
	})
	return &StatementCache{cache: c}
}

// GetOrPrepare returns the cached statement for key, preparing and caching
// it on a miss.
func (s *StatementCache) GetOrPrepare(ctx context.Context, key uint64, db *sql.DB, query string) (*sql.Stmt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if stmt, ok := s.cache.Get(key); ok {
		return stmt, nil
	}
	stmt, err := db.PrepareContext(ctx, query)
	if err != nil {
		return nil, err
	}
	s.cache.Add(key, stmt)
	return stmt, nil
}

// Close purges the cache, closing every cached statement via the evict
// callback.
func (s *StatementCache) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.Purge()
	return nil
}
