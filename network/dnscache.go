package network

import (
	"sync"
	"time"
)

type cachedAnswer struct {
	addrs    []string
	expireAt time.Time
}

// answerCache keeps resolved addresses until the record TTL runs out.
type answerCache struct {
	mu      sync.RWMutex
	entries map[string]*cachedAnswer
}

func newAnswerCache() *answerCache {
	return &answerCache{entries: make(map[string]*cachedAnswer)}
}

func (c *answerCache) get(key string) ([]string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	item, ok := c.entries[key]
	if !ok || time.Now().After(item.expireAt) {
		return nil, false
	}
	return item.addrs, true
}

func (c *answerCache) set(key string, addrs []string, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = &cachedAnswer{
		addrs:    addrs,
		expireAt: time.Now().Add(ttl),
	}
}

func (c *answerCache) cleanupExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for key, item := range c.entries {
		if now.After(item.expireAt) {
			delete(c.entries, key)
		}
	}
}
