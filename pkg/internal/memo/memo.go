// Package memo provides a bounded memoization cache so repeated raw strings
// are normalized once per process instead of once per record.
package memo

import (
	"container/list"
	"sync"
)

// Cache is a concurrency-safe LRU map of raw strings to their computed
// forms. A nil Cache or a zero capacity disables memoization.
type Cache struct {
	mu       sync.Mutex
	capacity int
	entries  map[string]*list.Element
	order    *list.List
}

type entry struct {
	key   string
	value string
}

// New returns a cache holding at most capacity entries.
func New(capacity int) *Cache {
	return &Cache{
		capacity: capacity,
		entries:  make(map[string]*list.Element),
		order:    list.New(),
	}
}

// Get returns the cached value for key and marks it recently used.
func (c *Cache) Get(key string) (string, bool) {
	if c == nil || c.capacity <= 0 {
		return "", false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[key]
	if !ok {
		return "", false
	}
	c.order.MoveToFront(elem)
	return elem.Value.(*entry).value, true
}

// Set stores the value for key, evicting the least recently used entry when
// the cache is full.
func (c *Cache) Set(key, value string) {
	if c == nil || c.capacity <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[key]; ok {
		c.order.MoveToFront(elem)
		elem.Value.(*entry).value = value
		return
	}

	c.entries[key] = c.order.PushFront(&entry{key: key, value: value})

	if c.order.Len() > c.capacity {
		oldest := c.order.Back()
		if oldest != nil {
			c.order.Remove(oldest)
			delete(c.entries, oldest.Value.(*entry).key)
		}
	}
}

// Len reports the number of cached entries.
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
