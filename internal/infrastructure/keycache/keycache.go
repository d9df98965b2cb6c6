// Package keycache holds derived vault keys in process memory for the
// lifetime of a session. Keys deliberately never reach Redis or Mongo; a
// process restart empties the cache and forces a fresh login.
package keycache

import "sync"

type Cache struct {
	mu   sync.RWMutex
	keys map[string][]byte
}

func New() *Cache {
	return &Cache{keys: make(map[string][]byte)}
}

func (c *Cache) Put(sessionID string, key []byte) {
	cp := make([]byte, len(key))
	copy(cp, key)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.keys[sessionID] = cp
}

func (c *Cache) Get(sessionID string) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	key, ok := c.keys[sessionID]
	if !ok {
		return nil, false
	}
	cp := make([]byte, len(key))
	copy(cp, key)
	return cp, true
}

func (c *Cache) Delete(sessionID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if key, ok := c.keys[sessionID]; ok {
		for i := range key {
			key[i] = 0
		}
		delete(c.keys, sessionID)
	}
}
