package translate

import (
	"context"
	"sync"
)

type cacheKey struct {
	source, target, text string
}

// Cached remembers successful translations so repeated lines reach the
// underlying service once. Failures are not cached.
type Cached struct {
	next Translator

	mu      sync.RWMutex
	entries map[cacheKey]string
	hits    int
}

// NewCached wraps next with an in-memory cache.
func NewCached(next Translator) *Cached {
	return &Cached{
		next:    next,
		entries: make(map[cacheKey]string),
	}
}

func (c *Cached) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	key := cacheKey{source: sourceLang, target: targetLang, text: text}

	c.mu.RLock()
	out, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		c.mu.Lock()
		c.hits++
		c.mu.Unlock()
		return out, nil
	}

	out, err := c.next.Translate(ctx, text, sourceLang, targetLang)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	c.entries[key] = out
	c.mu.Unlock()
	return out, nil
}

// Hits returns how many calls were served from the cache.
func (c *Cached) Hits() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits
}
