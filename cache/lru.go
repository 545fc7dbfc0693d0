// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cache

import (
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru"
)

// LRU is a typed read-through cache over golang-lru.
// A nil *LRU is valid and caches nothing.
type LRU[K comparable, V any] struct {
	cache *lru.Cache
	hit   atomic.Int64
	miss  atomic.Int64
}

// NewLRU create a LRU cache instance.
// maxSize should be > 0, or an error returned.
func NewLRU[K comparable, V any](maxSize int) (*LRU[K, V], error) {
	cache, err := lru.New(maxSize)
	if err != nil {
		return nil, err
	}
	return &LRU[K, V]{cache: cache}, nil
}

// GetOrLoad first try to get from cache, do load if missed.
// Failed loads are not cached.
func (l *LRU[K, V]) GetOrLoad(key K, load func(K) (V, error)) (V, error) {
	if l == nil {
		return load(key)
	}
	if v, ok := l.cache.Get(key); ok {
		l.hit.Add(1)
		return v.(V), nil
	}
	l.miss.Add(1)
	v, err := load(key)
	if err != nil {
		return v, err
	}
	l.cache.Add(key, v)
	return v, nil
}

// Add sets the value of key.
func (l *LRU[K, V]) Add(key K, val V) {
	if l != nil {
		l.cache.Add(key, val)
	}
}

func (l *LRU[K, V]) Contains(key K) bool {
	return l != nil && l.cache.Contains(key)
}

func (l *LRU[K, V]) Len() int {
	if l == nil {
		return 0
	}
	return l.cache.Len()
}

// Stats returns the hit and miss counts of GetOrLoad.
func (l *LRU[K, V]) Stats() (hit, miss int64) {
	if l == nil {
		return 0, 0
	}
	return l.hit.Load(), l.miss.Load()
}
