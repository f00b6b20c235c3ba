package values_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-stream/typedjson/schema"
	"github.com/go-stream/typedjson/values"
)

func TestListAddRefValueGrows(t *testing.T) {
	l := values.NewList(schema.ArrayType{Elem: schema.AnyJSON}, 0)
	l.AddRefValue(2, "c")
	require.Equal(t, 3, l.Len())
	require.Nil(t, l.At(0))
	require.Nil(t, l.At(1))
	require.Equal(t, "c", l.At(2))
}

func TestListPreallocatesDeclaredSize(t *testing.T) {
	l := values.NewList(schema.ArrayType{Elem: schema.AnyJSON, Size: 4, Closed: true}, 4)
	require.Equal(t, 4, l.Len())
	for i := 0; i < 4; i++ {
		require.Nil(t, l.At(i))
	}
}

func TestListItemsReflectsWrites(t *testing.T) {
	l := values.NewList(schema.AnyJSON, 0)
	l.AddRefValue(0, 1)
	l.AddRefValue(1, 2)
	require.Equal(t, []any{1, 2}, l.Items())
}

func TestListFreeze(t *testing.T) {
	l := values.NewList(schema.AnyJSON, 0)
	require.False(t, l.Frozen())
	l.Freeze()
	require.True(t, l.Frozen())
}
