// Package store - Hash data type implementation for EmberDB
//
// A Hash is a map of field→value pairs stored under a single key.
// Equivalent to Redis Hashes. Single-field operations are O(1),
// snapshots O(N) in the number of fields.
package store

import "github.com/emberdb/emberdb/internal/resp"

// Hash represents a Redis-like hash data structure.
// It stores field-value pairs under a single key.
// The Hash itself is NOT thread-safe; concurrency is managed by the Store.
type Hash struct {
	fields map[string]resp.Frame
}

// NewHash creates a new empty Hash.
func NewHash() *Hash {
	return &Hash{
		fields: make(map[string]resp.Frame),
	}
}

// Set sets field to value. Returns true if the field is new (didn't exist before).
func (h *Hash) Set(field string, value resp.Frame) bool {
	_, existed := h.fields[field]
	h.fields[field] = value
	return !existed
}

// Get returns the value of a field.
func (h *Hash) Get(field string) (resp.Frame, bool) {
	val, exists := h.fields[field]
	return val, exists
}

// Exists returns whether a field exists in the hash.
func (h *Hash) Exists(field string) bool {
	_, exists := h.fields[field]
	return exists
}

// Len returns the number of fields in the hash.
func (h *Hash) Len() int {
	return len(h.fields)
}

// Snapshot returns a point-in-time copy of all field-value pairs.
// The copy is fully decoupled from the live hash.
func (h *Hash) Snapshot() map[string]resp.Frame {
	out := make(map[string]resp.Frame, len(h.fields))
	for field, value := range h.fields {
		out[field] = value
	}
	return out
}

// Fields returns all field names in the hash.
func (h *Hash) Fields() []string {
	fields := make([]string, 0, len(h.fields))
	for field := range h.fields {
		fields = append(fields, field)
	}
	return fields
}
