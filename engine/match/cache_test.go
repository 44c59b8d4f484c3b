package match

import (
	"testing"
	"time"

	"github.com/TalentForge/talentforge-mvp/engine/scoring"
)

func TestCacheRoundTrip(t *testing.T) {
	c := NewCache(time.Hour)
	key := CacheKey{Source: "a@b.com", Target: "job-1"}

	if _, ok := c.Get(key); ok {
		t.Fatal("empty cache returned an entry")
	}

	c.Put(key, CacheEntry{Score: 77, Feedback: scoring.FallbackFeedback(77)})
	e, ok := c.Get(key)
	if !ok {
		t.Fatal("entry not found after put")
	}
	if e.Score != 77 {
		t.Fatalf("score = %d, want 77", e.Score)
	}
	if e.CreatedAt.IsZero() {
		t.Fatal("CreatedAt not stamped")
	}
}

func TestCacheExpiry(t *testing.T) {
	c := NewCache(24 * time.Hour)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	now := base
	c.now = func() time.Time { return now }

	key := CacheKey{Source: "a@b.com", Target: "job-1"}
	c.Put(key, CacheEntry{Score: 60})

	now = base.Add(23 * time.Hour)
	if _, ok := c.Get(key); !ok {
		t.Fatal("entry expired before its TTL")
	}

	// An entry aged exactly the TTL is stale.
	now = base.Add(24 * time.Hour)
	if _, ok := c.Get(key); ok {
		t.Fatal("entry aged exactly TTL still served")
	}

	now = base.Add(25 * time.Hour)
	if _, ok := c.Get(key); ok {
		t.Fatal("stale entry still served")
	}

	// A fresh put over the stale slot serves again.
	c.Put(key, CacheEntry{Score: 61})
	e, ok := c.Get(key)
	if !ok || e.Score != 61 {
		t.Fatalf("overwrite of stale entry not visible: %+v ok=%v", e, ok)
	}
}

func TestCacheLastWriteWins(t *testing.T) {
	c := NewCache(time.Hour)
	key := CacheKey{Source: "s", Target: "t"}
	c.Put(key, CacheEntry{Score: 10})
	c.Put(key, CacheEntry{Score: 20})
	if e, _ := c.Get(key); e.Score != 20 {
		t.Fatalf("score = %d, want last write 20", e.Score)
	}
	if c.Len() != 1 {
		t.Fatalf("len = %d, want 1", c.Len())
	}
}

func TestFingerprint(t *testing.T) {
	a := Fingerprint("senior golang engineer")
	b := Fingerprint("senior golang engineer")
	if a != b {
		t.Fatalf("fingerprint not stable: %s != %s", a, b)
	}
	if len(a) != 16 {
		t.Fatalf("fingerprint length = %d, want 16", len(a))
	}
	if a == Fingerprint("junior golang engineer") {
		t.Fatal("distinct queries collided")
	}
}
