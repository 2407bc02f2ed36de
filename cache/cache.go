// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package cache provides a weak-valued cache for shared resources.
//
// Every entry is indexed through a weak handle, so the cache never keeps a
// resource alive on its own beyond its pinned set: the most recently used
// entries are additionally held by strong handles in an LRU of fixed size.
// An entry that falls out of the LRU stays reachable for as long as some
// caller still owns it.
package cache

import (
	"sync"

	lru "github.com/hashicorp/golang-lru"

	"code.hybscloud.com/own"
)

// Cache maps keys to shared resources of type V. It is safe for concurrent use.
type Cache[K comparable, V any] struct {
	mu     sync.Mutex
	index  map[K]*own.Weak[V]
	pinned *lru.Cache
	closed bool
}

// New returns a cache that pins up to pin recently used entries.
func New[K comparable, V any](pin int) (*Cache[K, V], error) {
	pinned, err := lru.NewWithEvict(pin, func(_ any, value any) {
		value.(*own.Shared[V]).Release()
	})
	if err != nil {
		return nil, err
	}
	return &Cache[K, V]{
		index:  make(map[K]*own.Weak[V]),
		pinned: pinned,
	}, nil
}

// Put stores v under key, replacing any previous entry. The cache takes
// its own references; the caller keeps v.
func (c *Cache[K, V]) Put(key K, v *own.Shared[V]) {
	if v.IsNil() {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.putLocked(key, v)
}

func (c *Cache[K, V]) putLocked(key K, v *own.Shared[V]) {
	if w, ok := c.index[key]; ok {
		w.AssignShared(v)
	} else {
		c.index[key] = v.Weak()
	}
	c.pinned.Remove(key)
	c.pinned.Add(key, v.Clone())
}

// Get returns a new strong owner of the entry under key. It reports false
// if there is no entry or the resource has already been destroyed.
func (c *Cache[K, V]) Get(key K) (*own.Shared[V], bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.getLocked(key)
}

func (c *Cache[K, V]) getLocked(key K) (*own.Shared[V], bool) {
	w, ok := c.index[key]
	if !ok {
		return nil, false
	}
	s := w.Promote()
	if s.IsNil() {
		w.Release()
		delete(c.index, key)
		c.pinned.Remove(key)
		return nil, false
	}
	if _, ok := c.pinned.Get(key); !ok && !c.closed {
		c.pinned.Add(key, s.Clone())
	}
	return s, true
}

// GetOrCreate returns the entry under key, calling create to build and
// store it when there is none. create runs with the cache locked.
func (c *Cache[K, V]) GetOrCreate(key K, create func() (*own.Shared[V], error)) (*own.Shared[V], error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if s, ok := c.getLocked(key); ok {
		return s, nil
	}
	s, err := create()
	if err != nil {
		return nil, err
	}
	if !c.closed {
		c.putLocked(key, s)
	}
	return s, nil
}

// Remove drops the entry under key. Callers owning the resource keep it.
func (c *Cache[K, V]) Remove(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if w, ok := c.index[key]; ok {
		w.Release()
		delete(c.index, key)
	}
	c.pinned.Remove(key)
}

// Prune forgets entries whose resource has been destroyed and returns how
// many were removed.
func (c *Cache[K, V]) Prune() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for key, w := range c.index {
		if w.IsExpired() {
			w.Release()
			delete(c.index, key)
			n++
		}
	}
	return n
}

// Len returns the number of entries whose resource is still alive.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, w := range c.index {
		if !w.IsExpired() {
			n++
		}
	}
	return n
}

// Pinned returns the number of entries held alive by the cache itself.
func (c *Cache[K, V]) Pinned() int {
	return c.pinned.Len()
}

// Close releases every reference held by the cache. Put becomes a no-op.
func (c *Cache[K, V]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.pinned.Purge()
	for key, w := range c.index {
		w.Release()
		delete(c.index, key)
	}
}
