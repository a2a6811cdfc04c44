package mem

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"
)

// PlanCache holds generated plans keyed by a request fingerprint so identical
// requests within the TTL skip the model entirely.
type PlanCache struct {
	mu   sync.RWMutex
	data map[string]planEntry
	ttl  time.Duration
}

type planEntry struct {
	value     any
	expiresAt time.Time
}

func NewPlanCache(ttl time.Duration) *PlanCache {
	return &PlanCache{
		data: make(map[string]planEntry),
		ttl:  ttl,
	}
}

// Key builds a stable fingerprint over the request parameters.
func Key(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return fmt.Sprintf("%x", h.Sum(nil))[:16]
}

func (c *PlanCache) Get(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.data[key]
	if !ok || time.Now().After(e.expiresAt) {
		return nil, false
	}
	return e.value, true
}

func (c *PlanCache) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.data[key] = planEntry{
		value:     value,
		expiresAt: time.Now().Add(c.ttl),
	}

	// Opportunistic cleanup once the map grows large.
	if len(c.data) > 1000 {
		now := time.Now()
		for k, e := range c.data {
			if now.After(e.expiresAt) {
				delete(c.data, k)
			}
		}
	}
}
