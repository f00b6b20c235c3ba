package values

import "github.com/go-stream/typedjson/schema"

// List is an array- or tuple-shaped value under construction.
type List struct {
	Type   schema.Type
	items  []any
	frozen bool
}

// NewList allocates a list-shaped value. size pre-sizes the backing slice
// (0 when the size isn't known in advance, the declared size for a closed
// array so filler values can be addressed by index before they're written).
func NewList(t schema.Type, size int) *List {
	l := &List{Type: t}
	if size > 0 {
		l.items = make([]any, size)
	}
	return l
}

// AddRefValue stores value at index, growing the backing slice if index is
// at or beyond its current length.
func (l *List) AddRefValue(index int, value any) {
	for index >= len(l.items) {
		l.items = append(l.items, nil)
	}
	l.items[index] = value
}

// Len reports the number of elements, including any unfilled trailing slots
// created by a preallocating NewList call.
func (l *List) Len() int { return len(l.items) }

// At returns the element at index.
func (l *List) At(index int) any { return l.items[index] }

// Items returns the backing slice. The caller must not mutate it.
func (l *List) Items() []any { return l.items }

// Frozen reports whether Freeze has been called.
func (l *List) Frozen() bool { return l.frozen }

// Freeze marks the list read-only, see Map.Freeze.
func (l *List) Freeze() { l.frozen = true }
