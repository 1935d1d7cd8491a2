package embeddings

import (
	"container/list"
	"context"
	"strings"
	"sync"
)

// Cache is an Embedder decorator keeping the most recently used query
// vectors in memory. Document embeddings pass through untouched.
type Cache struct {
	embedder Embedder
	model    string

	mu    sync.Mutex
	cap   int
	ll    *list.List
	items map[string]*list.Element

	hits   uint64
	misses uint64
}

type cacheEntry struct {
	key string
	vec []float32
}

// NewCache wraps embedder with an LRU query cache holding up to capacity vectors.
// A non-positive capacity returns the embedder unchanged.
func NewCache(embedder Embedder, model string, capacity int) Embedder {
	if capacity <= 0 {
		return embedder
	}
	return &Cache{
		embedder: embedder,
		model:    model,
		cap:      capacity,
		ll:       list.New(),
		items:    make(map[string]*list.Element, capacity),
	}
}

func (c *Cache) EmbedDocuments(ctx context.Context, docs []string) ([][]float32, error) {
	return c.embedder.EmbedDocuments(ctx, docs)
}

func (c *Cache) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	key := strings.TrimSpace(text)
	if c.model != "" {
		key = c.model + "\n" + key
	}
	if vec, ok := c.get(key); ok {
		return vec, nil
	}
	vec, err := c.embedder.EmbedQuery(ctx, text)
	if err != nil {
		return nil, err
	}
	c.add(key, vec)
	return cloneVec(vec), nil
}

// Stats returns hit and miss counters.
func (c *Cache) Stats() (hits, misses uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

func (c *Cache) get(key string) ([]float32, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.items[key]; ok {
		c.ll.MoveToFront(el)
		c.hits++
		return cloneVec(el.Value.(*cacheEntry).vec), true
	}
	c.misses++
	return nil, false
}

func (c *Cache) add(key string, vec []float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.items[key]; ok {
		el.Value.(*cacheEntry).vec = cloneVec(vec)
		c.ll.MoveToFront(el)
		return
	}
	c.items[key] = c.ll.PushFront(&cacheEntry{key: key, vec: cloneVec(vec)})
	if c.ll.Len() > c.cap {
		if back := c.ll.Back(); back != nil {
			c.ll.Remove(back)
			delete(c.items, back.Value.(*cacheEntry).key)
		}
	}
}

func cloneVec(vec []float32) []float32 {
	if len(vec) == 0 {
		return nil
	}
	out := make([]float32, len(vec))
	copy(out, vec)
	return out
}
