package lrucache

import "container/list"

// LRUCache is a least-recently-used cache of values indexed by a
// comparable key
type LRUCache[K comparable, V any] struct {
	entries  map[K]*list.Element
	order    *list.List
	capacity int
}

type entry[K comparable, V any] struct {
	key   K
	value V
}

// New creates a new LRUCache
func New[K comparable, V any](capacity int) *LRUCache[K, V] {
	return &LRUCache[K, V]{
		entries:  make(map[K]*list.Element, capacity+1),
		order:    list.New(),
		capacity: capacity,
	}
}

// Add adds an entry to the LRUCache, evicting the least recently used
// entry if the cache is full
func (c *LRUCache[K, V]) Add(key K, value V) {
	if element, ok := c.entries[key]; ok {
		element.Value.(*entry[K, V]).value = value
		c.order.MoveToFront(element)
		return
	}

	c.entries[key] = c.order.PushFront(&entry[K, V]{key: key, value: value})
	if c.order.Len() > c.capacity {
		c.evictOldest()
	}
}

// Get returns the entry for the given key, or (zero, false) otherwise
func (c *LRUCache[K, V]) Get(key K) (V, bool) {
	element, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	c.order.MoveToFront(element)
	return element.Value.(*entry[K, V]).value, true
}

// Has returns whether the LRUCache contains the given key
func (c *LRUCache[K, V]) Has(key K) bool {
	_, ok := c.entries[key]
	return ok
}

// Remove removes the entry for the the given key. Does nothing if
// the entry does not exist
func (c *LRUCache[K, V]) Remove(key K) {
	element, ok := c.entries[key]
	if !ok {
		return
	}
	c.order.Remove(element)
	delete(c.entries, key)
}

// Len returns the number of entries in the cache
func (c *LRUCache[K, V]) Len() int {
	return c.order.Len()
}

func (c *LRUCache[K, V]) evictOldest() {
	oldest := c.order.Back()
	if oldest == nil {
		return
	}
	c.Remove(oldest.Value.(*entry[K, V]).key)
}
