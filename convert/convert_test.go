package convert_test

import (
	"testing"

	"github.com/cockroachdb/apd/v3"
	"github.com/stretchr/testify/require"

	"github.com/go-stream/typedjson/convert"
	"github.com/go-stream/typedjson/schema"
)

func TestConvertValueIntegral(t *testing.T) {
	v, err := convert.ConvertValue(schema.NewPrimitive(schema.Int), "42")
	require.NoError(t, err)
	require.Equal(t, int64(42), v)
}

func TestConvertValueIntOverflow(t *testing.T) {
	_, err := convert.ConvertValue(schema.NewPrimitive(schema.Signed8), "200")
	require.Error(t, err)
}

func TestConvertValueDecimal(t *testing.T) {
	v, err := convert.ConvertValue(schema.NewPrimitive(schema.Decimal), "3.14159")
	require.NoError(t, err)
	d, ok := v.(*apd.Decimal)
	require.True(t, ok)
	require.Equal(t, "3.14159", d.String())
}

func TestConvertValueFloat(t *testing.T) {
	v, err := convert.ConvertValue(schema.NewPrimitive(schema.Float), "2.5")
	require.NoError(t, err)
	require.Equal(t, 2.5, v)
}

func TestConvertValueBoolean(t *testing.T) {
	v, err := convert.ConvertValue(schema.NewPrimitive(schema.Boolean), "true")
	require.NoError(t, err)
	require.Equal(t, true, v)

	_, err = convert.ConvertValue(schema.NewPrimitive(schema.Boolean), "True")
	require.Error(t, err)
}

func TestConvertValueNull(t *testing.T) {
	v, err := convert.ConvertValue(schema.NewPrimitive(schema.Null), "null")
	require.NoError(t, err)
	require.Nil(t, v)
}

func TestConvertValueStringAlwaysFails(t *testing.T) {
	_, err := convert.ConvertValue(schema.NewPrimitive(schema.String), "abc")
	require.Error(t, err)
}

func TestConvertValueJSONDelegatesToInfer(t *testing.T) {
	v, err := convert.ConvertValue(schema.NewPrimitive(schema.JSON), "42")
	require.NoError(t, err)
	require.Equal(t, int64(42), v)
}
