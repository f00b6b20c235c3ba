package values_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-stream/typedjson/schema"
	"github.com/go-stream/typedjson/values"
)

func TestMapPreservesInsertionOrder(t *testing.T) {
	m := values.NewMap(schema.MapType{Constrained: schema.AnyJSON})
	m.PutForcefully("z", 1)
	m.PutForcefully("a", 2)
	m.PutForcefully("m", 3)

	require.Equal(t, []string{"z", "a", "m"}, m.Keys())
	require.Equal(t, 3, m.Len())
}

func TestMapPutForcefullyOverwriteKeepsOrder(t *testing.T) {
	m := values.NewMap(schema.AnyJSON)
	m.PutForcefully("a", 1)
	m.PutForcefully("b", 2)
	m.PutForcefully("a", 99)

	require.Equal(t, []string{"a", "b"}, m.Keys())
	v, ok := m.Get("a")
	require.True(t, ok)
	require.Equal(t, 99, v)
}

func TestMapHasAndGet(t *testing.T) {
	m := values.NewMap(schema.AnyJSON)
	require.False(t, m.Has("x"))
	m.PutForcefully("x", "hello")
	require.True(t, m.Has("x"))
	v, ok := m.Get("x")
	require.True(t, ok)
	require.Equal(t, "hello", v)
}

func TestMapFreezeStillAllowsPutForcefully(t *testing.T) {
	m := values.NewMap(schema.AnyJSON)
	m.Freeze()
	require.True(t, m.Frozen())
	m.PutForcefully("a", 1) // construction is always forceful, even frozen
	require.True(t, m.Has("a"))
}

func TestMapRangeStopsEarly(t *testing.T) {
	m := values.NewMap(schema.AnyJSON)
	m.PutForcefully("a", 1)
	m.PutForcefully("b", 2)
	m.PutForcefully("c", 3)

	var seen []string
	m.Range(func(k string, _ any) bool {
		seen = append(seen, k)
		return k != "b"
	})
	require.Equal(t, []string{"a", "b"}, seen)
}
