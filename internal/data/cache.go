package data

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Upload is a workbook held between the UI steps (sheet pick, column pick,
// render). It is never written to disk.
type Upload struct {
	ID        string
	FileName  string
	Data      []byte
	Sheets    []string
	ExpiresAt time.Time
}

// UploadCache keeps uploads in memory for a bounded time.
//
// Renders are stateless; the cache only spares the browser from sending the
// same file for every selector change, the way a UI session would.
type UploadCache struct {
	mu    sync.RWMutex
	store map[string]*Upload
	ttl   time.Duration
	now   func() time.Time

	stop chan struct{}
	once sync.Once
}

// NewUploadCache creates a cache and starts its janitor. Call Close to stop
// it. A non-positive ttl defaults to 30 minutes.
func NewUploadCache(ttl time.Duration) *UploadCache {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	c := &UploadCache{
		store: make(map[string]*Upload),
		ttl:   ttl,
		now:   time.Now,
		stop:  make(chan struct{}),
	}
	go c.cleanup(cleanupInterval(ttl))
	return c
}

// Put stores a workbook and returns its entry with a fresh id.
func (c *UploadCache) Put(fileName string, raw []byte, sheets []string) *Upload {
	u := &Upload{
		ID:        uuid.NewString(),
		FileName:  fileName,
		Data:      raw,
		Sheets:    sheets,
		ExpiresAt: c.now().Add(c.ttl),
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.store[u.ID] = u
	return u
}

// Get returns an upload if present and not expired.
func (c *UploadCache) Get(id string) (*Upload, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	u, ok := c.store[id]
	if !ok || c.now().After(u.ExpiresAt) {
		return nil, false
	}
	return u, true
}

// Delete drops an upload. Deleting an unknown id is a no-op.
func (c *UploadCache) Delete(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.store, id)
}

// Len returns the number of stored entries, expired ones included.
func (c *UploadCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.store)
}

// Close stops the janitor.
func (c *UploadCache) Close() {
	c.once.Do(func() { close(c.stop) })
}

func (c *UploadCache) evictExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	for id, u := range c.store {
		if now.After(u.ExpiresAt) {
			delete(c.store, id)
		}
	}
}

func (c *UploadCache) cleanup(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.evictExpired()
		case <-c.stop:
			return
		}
	}
}

func cleanupInterval(ttl time.Duration) time.Duration {
	if d := ttl / 4; d < 5*time.Minute {
		if d < time.Second {
			return time.Second
		}
		return d
	}
	return 5 * time.Minute
}
