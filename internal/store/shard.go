package store

import (
	"hash/maphash"
	"sync"
)

// DefaultShardCount is the default number of shards per namespace.
const DefaultShardCount = 32

// shardedMap is a concurrent map partitioned into power-of-two shards.
// Each shard carries its own RWMutex, so operations on keys hashing
// into different shards never contend. A lock is held only for the
// duration of a single map operation or snapshot copy.
type shardedMap[V any] struct {
	shards []*shard[V]
	mask   uint64
	seed   maphash.Seed
}

type shard[V any] struct {
	mu    sync.RWMutex
	items map[string]V
}

func newShardedMap[V any](shardCount int) *shardedMap[V] {
	if shardCount <= 0 || shardCount&(shardCount-1) != 0 {
		shardCount = DefaultShardCount
	}

	m := &shardedMap[V]{
		shards: make([]*shard[V], shardCount),
		mask:   uint64(shardCount - 1),
		seed:   maphash.MakeSeed(),
	}
	for i := range m.shards {
		m.shards[i] = &shard[V]{items: make(map[string]V)}
	}
	return m
}

func (m *shardedMap[V]) shardFor(key string) *shard[V] {
	hash := maphash.String(m.seed, key)
	return m.shards[hash&m.mask]
}

// get returns the value stored under key, if any.
func (m *shardedMap[V]) get(key string) (V, bool) {
	s := m.shardFor(key)
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.items[key]
	return v, ok
}

// set stores key unconditionally.
func (m *shardedMap[V]) set(key string, value V) {
	s := m.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = value
}

// update runs fn under the shard write lock and stores its result.
// fn receives the current value (or the zero value with ok=false) and
// may mutate it in place; the returned value is written back. This is
// the create-on-first-write path for container namespaces.
func (m *shardedMap[V]) update(key string, fn func(v V, ok bool) V) {
	s := m.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.items[key]
	s.items[key] = fn(v, ok)
}

// view runs fn under the shard read lock. fn must not retain v beyond
// the call; snapshot copies are taken inside fn.
func (m *shardedMap[V]) view(key string, fn func(v V, ok bool)) {
	s := m.shardFor(key)
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.items[key]
	fn(v, ok)
}

// size returns the total number of keys across all shards.
func (m *shardedMap[V]) size() int {
	n := 0
	for _, s := range m.shards {
		s.mu.RLock()
		n += len(s.items)
		s.mu.RUnlock()
	}
	return n
}
