// Package store provides the concurrent in-memory backend for EmberDB.
//
// A Store holds three independent namespaces keyed by string: scalar
// frames, hashes (field→frame) and sets of string members. A key in
// one namespace has no relation to a same-named key in another. Each
// namespace is a sharded concurrent map, so operations on different
// keys never block each other; operations on the same key serialize on
// the shard lock.
package store

import "github.com/emberdb/emberdb/internal/resp"

// Store represents the in-memory backend holding all three namespaces.
// It is safe for concurrent use by multiple goroutines and is the only
// component that mutates shared state. Construct one with New and
// share it by reference; there is no hidden singleton.
type Store struct {
	scalars *shardedMap[resp.Frame]
	hashes  *shardedMap[*Hash]
	sets    *shardedMap[*Set]
}

// New creates a new empty Store. shardCount must be a power of two;
// other values fall back to DefaultShardCount.
func New(shardCount int) *Store {
	return &Store{
		scalars: newShardedMap[resp.Frame](shardCount),
		hashes:  newShardedMap[*Hash](shardCount),
		sets:    newShardedMap[*Set](shardCount),
	}
}

// Get retrieves the scalar value stored under key.
func (s *Store) Get(key string) (resp.Frame, bool) {
	return s.scalars.get(key)
}

// Set stores a scalar value under key, overwriting unconditionally.
func (s *Store) Set(key string, value resp.Frame) {
	s.scalars.set(key, value)
}

// HGet returns the value of field in the hash at key. The second
// return is false when the key or the field is absent.
func (s *Store) HGet(key, field string) (resp.Frame, bool) {
	var val resp.Frame
	var found bool
	s.hashes.view(key, func(h *Hash, ok bool) {
		if ok {
			val, found = h.Get(field)
		}
	})
	return val, found
}

// HMGet returns the values of the given fields in the hash at key, in
// the same order as fields. Absent fields yield ok=false entries; an
// absent key yields a result of the same length with every entry
// absent.
func (s *Store) HMGet(key string, fields []string) []MaybeFrame {
	result := make([]MaybeFrame, len(fields))
	s.hashes.view(key, func(h *Hash, ok bool) {
		if !ok {
			return
		}
		for i, field := range fields {
			if v, exists := h.Get(field); exists {
				result[i] = MaybeFrame{Frame: v, Present: true}
			}
		}
	})
	return result
}

// HSet upserts field in the hash at key, creating the hash if the key
// does not exist yet.
func (s *Store) HSet(key, field string, value resp.Frame) {
	s.hashes.update(key, func(h *Hash, ok bool) *Hash {
		if !ok {
			h = NewHash()
		}
		h.Set(field, value)
		return h
	})
}

// HGetAll returns a point-in-time snapshot of the hash at key, or
// ok=false when the key is absent. The snapshot is decoupled from the
// live hash; later writes do not affect it.
func (s *Store) HGetAll(key string) (map[string]resp.Frame, bool) {
	var snapshot map[string]resp.Frame
	s.hashes.view(key, func(h *Hash, ok bool) {
		if ok {
			snapshot = h.Snapshot()
		}
	})
	return snapshot, snapshot != nil
}

// SAdd adds members to the set at key, creating the set if the key
// does not exist yet. Returns the number of members newly inserted;
// members already present contribute nothing, and a duplicate within
// the input counts once.
func (s *Store) SAdd(key string, members ...string) int {
	added := 0
	s.sets.update(key, func(set *Set, ok bool) *Set {
		if !ok {
			set = NewSet()
		}
		added = set.Add(members...)
		return set
	})
	return added
}

// SMembers returns a point-in-time snapshot of the set at key, or
// ok=false when the key is absent. Member order is unspecified.
func (s *Store) SMembers(key string) ([]string, bool) {
	var members []string
	var found bool
	s.sets.view(key, func(set *Set, ok bool) {
		if ok {
			members = set.Members()
			found = true
		}
	})
	return members, found
}

// SIsMember reports whether member is in the set at key. An absent key
// is simply not a member; there is no error path.
func (s *Store) SIsMember(key, member string) bool {
	isMember := false
	s.sets.view(key, func(set *Set, ok bool) {
		if ok {
			isMember = set.IsMember(member)
		}
	})
	return isMember
}

// Sizes returns the number of keys in each namespace.
func (s *Store) Sizes() (scalars, hashes, sets int) {
	return s.scalars.size(), s.hashes.size(), s.sets.size()
}

// MaybeFrame is an optional frame: Present reports whether Frame holds
// a stored value.
type MaybeFrame struct {
	Frame   resp.Frame
	Present bool
}
