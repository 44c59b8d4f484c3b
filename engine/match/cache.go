package match

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"github.com/TalentForge/talentforge-mvp/engine/scoring"
)

// DefaultCacheTTL is how long an assessment stays valid.
const DefaultCacheTTL = 24 * time.Hour

// CacheKey identifies one assessed pair. Source is either the source
// entity's natural key or the fingerprint of a free-text query.
type CacheKey struct {
	Source string
	Target string
}

// CacheEntry is one cached assessment.
type CacheEntry struct {
	Score     int
	Feedback  scoring.Feedback
	Questions []scoring.Question
	Degraded  bool
	CreatedAt time.Time
}

// Cache is an in-process TTL cache for assessments. Concurrent puts for the
// same key are last-write-wins; stale entries read as absent and are
// overwritten in place by the next Put.
type Cache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	now     func() time.Time
	entries map[CacheKey]CacheEntry
}

// NewCache creates a Cache. A non-positive ttl selects DefaultCacheTTL.
func NewCache(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Cache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[CacheKey]CacheEntry),
	}
}

// Get returns the entry for key if present and fresh.
func (c *Cache) Get(key CacheKey) (CacheEntry, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	// Fresh means age strictly under the TTL; an entry aged exactly TTL is
	// already stale.
	if !ok || c.now().Sub(e.CreatedAt) >= c.ttl {
		return CacheEntry{}, false
	}
	return e, true
}

// Put stores an entry, stamping CreatedAt.
func (c *Cache) Put(key CacheKey, e CacheEntry) {
	e.CreatedAt = c.now()
	c.mu.Lock()
	c.entries[key] = e
	c.mu.Unlock()
}

// Len reports the number of entries, fresh or stale.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Fingerprint derives a stable cache key component from free query text.
func Fingerprint(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:8])
}
