// Package cache implements the bounded result cache: an explicit LRU
// (hash map plus recency list) mapping a dataset identity and condition
// lineage to a previously computed surviving-position set.
//
// The eviction policy and the key composition are both part of the
// engine's observable contract, which is why this is a small purpose-built
// structure rather than a borrowed cache.
package cache

import (
	"container/list"
	"sync"
)

// DefaultCapacity bounds the result cache when the caller does not choose.
const DefaultCapacity = 256

type entry struct {
	key       string
	positions []int
}

// LRU is a bounded, concurrency-safe least-recently-used cache from
// composed keys to surviving-position slices. A Get refreshes recency;
// inserting past capacity evicts the least recently used entry.
type LRU struct {
	mu       sync.Mutex
	capacity int
	order    *list.List // front = most recently used
	items    map[string]*list.Element
}

// NewLRU creates an LRU with the given capacity; non-positive capacities
// fall back to DefaultCapacity.
func NewLRU(capacity int) *LRU {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &LRU{
		capacity: capacity,
		order:    list.New(),
		items:    make(map[string]*list.Element),
	}
}

// Get returns the cached positions for a key and marks the entry as
// recently used. The returned slice is shared: callers must treat it as
// read-only (position sets are immutable snapshots by construction).
func (c *LRU) Get(key string) ([]int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*entry).positions, true
}

// Put stores positions under a key, evicting the least recently used
// entry when over capacity. Overwriting an existing key is last-writer
// wins - entries are pure functions of their key, so racing writers store
// equivalent values.
func (c *LRU) Put(key string, positions []int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		el.Value.(*entry).positions = positions
		c.order.MoveToFront(el)
		return
	}

	c.items[key] = c.order.PushFront(&entry{key: key, positions: positions})

	for c.order.Len() > c.capacity {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.items, oldest.Value.(*entry).key)
	}
}

// Clear drops every entry. Position slices handed out earlier remain
// valid; they are snapshots, not views into the cache.
func (c *LRU) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.order.Init()
	c.items = make(map[string]*list.Element)
}

// Len reports the number of cached entries.
func (c *LRU) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
