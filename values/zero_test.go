package values_test

import (
	"testing"

	"github.com/cockroachdb/apd/v3"
	"github.com/stretchr/testify/require"

	"github.com/go-stream/typedjson/schema"
	"github.com/go-stream/typedjson/values"
)

func TestZeroPrimitives(t *testing.T) {
	require.Equal(t, int64(0), values.Zero(schema.NewPrimitive(schema.Int)))
	require.Equal(t, float64(0), values.Zero(schema.NewPrimitive(schema.Float)))
	require.Equal(t, "", values.Zero(schema.NewPrimitive(schema.String)))
	require.Equal(t, false, values.Zero(schema.NewPrimitive(schema.Boolean)))
	require.Nil(t, values.Zero(schema.NewPrimitive(schema.Null)))

	d, ok := values.Zero(schema.NewPrimitive(schema.Decimal)).(*apd.Decimal)
	require.True(t, ok)
	require.Equal(t, "0", d.String())
}

func TestZeroArrayWithFillerFillsAllSlots(t *testing.T) {
	at := schema.ArrayType{Elem: schema.NewPrimitive(schema.Int), Size: 3, Closed: true, HasFiller: true}
	l, ok := values.Zero(at).(*values.List)
	require.True(t, ok)
	require.Equal(t, 3, l.Len())
	for i := 0; i < 3; i++ {
		require.Equal(t, int64(0), l.At(i))
	}
}

func TestZeroRecordFillsDeclaredFields(t *testing.T) {
	rt := schema.RecordType{
		Name: "Point",
		Fields: []schema.Field{
			{Name: "x", Type: schema.NewPrimitive(schema.Int)},
			{Name: "y", Type: schema.NewPrimitive(schema.Int)},
		},
	}
	m, ok := values.Zero(rt).(*values.Map)
	require.True(t, ok)
	x, _ := m.Get("x")
	y, _ := m.Get("y")
	require.Equal(t, int64(0), x)
	require.Equal(t, int64(0), y)
}

func TestZeroUnionUsesFirstMember(t *testing.T) {
	u := schema.UnionType{Members: []schema.Type{schema.NewPrimitive(schema.String), schema.NewPrimitive(schema.Int)}}
	require.Equal(t, "", values.Zero(u))
}
