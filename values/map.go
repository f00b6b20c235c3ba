// Package values is the value library the parser builds into: map-shaped
// and list-shaped containers that can be mutated forcefully during
// construction and then frozen, mirroring the external value library
// spec.md §6 describes (putForcefully, addRefValue, freeze). The container
// shapes are ordered-slice-backed rather than bare Go maps, the way
// creachadair-jtree/ast.Object and ast.Array keep object-member and
// array-element order observable even though the target type is a map.
package values

import "github.com/go-stream/typedjson/schema"

// Map is a map- or record-shaped value under construction. Key order is the
// order keys were first written, regardless of the target type's own field
// order — this matches what a caller re-serializing the value would expect
// to see, and is exercised by TestMapPreservesInsertionOrder.
type Map struct {
	Type    schema.Type
	order   []string
	entries map[string]any
	frozen  bool
}

// NewMap allocates an empty, writable map-shaped value for the given target
// type (a MapType or RecordType, or schema.AnyJSON for a union staging
// area).
func NewMap(t schema.Type) *Map {
	return &Map{Type: t, entries: make(map[string]any)}
}

// PutForcefully sets key to value, bypassing the frozen flag. It is the
// parser's only way to populate a Map; Freeze is what makes the bypass
// necessary to name.
func (m *Map) PutForcefully(key string, value any) {
	if _, ok := m.entries[key]; !ok {
		m.order = append(m.order, key)
	}
	m.entries[key] = value
}

// Get returns the value stored under key, if any.
func (m *Map) Get(key string) (any, bool) {
	v, ok := m.entries[key]
	return v, ok
}

// Has reports whether key has been set.
func (m *Map) Has(key string) bool {
	_, ok := m.entries[key]
	return ok
}

// Len reports the number of entries.
func (m *Map) Len() int { return len(m.order) }

// Keys returns the keys in insertion order. The caller must not mutate the
// returned slice.
func (m *Map) Keys() []string { return m.order }

// Range calls f for every entry in insertion order, stopping early if f
// returns false.
func (m *Map) Range(f func(key string, value any) bool) {
	for _, k := range m.order {
		if !f(k, m.entries[k]) {
			return
		}
	}
}

// Frozen reports whether Freeze has been called.
func (m *Map) Frozen() bool { return m.frozen }

// Freeze marks the map read-only. Further PutForcefully calls still
// succeed — construction is always forceful — but callers outside the
// parser should treat a frozen Map as immutable.
func (m *Map) Freeze() { m.frozen = true }
