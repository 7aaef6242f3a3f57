package snapshot

import (
	"container/list"
	"context"
	"sync"
	"time"
)

// Cache is the port the resolver's snapshot source depends on. Entries are
// whole documents: a hit is always a consistent point-in-time view, never a
// partial one. Implementations bound staleness with a TTL and honor
// explicit invalidation fired by the write boundary on feature, segment or
// override mutations.
type Cache interface {
	Get(ctx context.Context, key string) (*Document, bool, error)
	Set(ctx context.Context, key string, doc *Document) error
	Invalidate(ctx context.Context, key string) error
}

type memoryEntry struct {
	key      string
	doc      *Document
	deadline time.Time
}

// MemoryCache is an in-process LRU document cache with per-entry TTL.
// Suitable for single-node deployments and tests; multi-node setups use
// the Redis cache so invalidation reaches every replica.
type MemoryCache struct {
	capacity int
	ttl      time.Duration
	now      func() time.Time

	mu       sync.Mutex
	items    map[string]*list.Element
	eviction *list.List
}

// MemoryCacheOption configures a MemoryCache.
type MemoryCacheOption func(*MemoryCache)

// WithClock overrides the time source, for deterministic expiry tests.
func WithClock(now func() time.Time) MemoryCacheOption {
	return func(c *MemoryCache) {
		if now != nil {
			c.now = now
		}
	}
}

// NewMemoryCache creates a document cache holding up to capacity entries,
// each valid for ttl after being set. Capacity must be positive.
func NewMemoryCache(capacity int, ttl time.Duration, opts ...MemoryCacheOption) *MemoryCache {
	if capacity <= 0 {
		panic("snapshot cache capacity must be positive")
	}
	c := &MemoryCache{
		capacity: capacity,
		ttl:      ttl,
		now:      time.Now,
		items:    make(map[string]*list.Element),
		eviction: list.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *MemoryCache) Get(_ context.Context, key string) (*Document, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		return nil, false, nil
	}

	entry := elem.Value.(*memoryEntry)
	if c.now().After(entry.deadline) {
		c.removeLocked(elem)
		return nil, false, nil
	}

	c.eviction.MoveToFront(elem)
	return entry.doc, true, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, doc *Document) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	deadline := c.now().Add(c.ttl)
	if elem, ok := c.items[key]; ok {
		entry := elem.Value.(*memoryEntry)
		entry.doc = doc
		entry.deadline = deadline
		c.eviction.MoveToFront(elem)
		return nil
	}

	elem := c.eviction.PushFront(&memoryEntry{key: key, doc: doc, deadline: deadline})
	c.items[key] = elem

	if c.eviction.Len() > c.capacity {
		if oldest := c.eviction.Back(); oldest != nil {
			c.removeLocked(oldest)
		}
	}
	return nil
}

func (c *MemoryCache) Invalidate(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.removeLocked(elem)
	}
	return nil
}

func (c *MemoryCache) removeLocked(elem *list.Element) {
	entry := elem.Value.(*memoryEntry)
	delete(c.items, entry.key)
	c.eviction.Remove(elem)
}
