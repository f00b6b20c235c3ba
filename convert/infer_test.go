package convert_test

import (
	"testing"

	"github.com/cockroachdb/apd/v3"
	"github.com/stretchr/testify/require"

	"github.com/go-stream/typedjson/convert"
)

func TestInferJSONRuleOrder(t *testing.T) {
	cases := []struct {
		lexeme string
		want   any
	}{
		{"42", int64(42)},
		{"-7", int64(-7)},
		{"true", true},
		{"false", false},
		{"null", nil},
	}
	for _, c := range cases {
		v, err := convert.InferJSON(c.lexeme)
		require.NoError(t, err)
		require.Equal(t, c.want, v)
	}
}

func TestInferJSONDecimalForDottedLexeme(t *testing.T) {
	v, err := convert.InferJSON("3.14")
	require.NoError(t, err)
	d, ok := v.(*apd.Decimal)
	require.True(t, ok)
	require.Equal(t, "3.14", d.String())
}

func TestInferJSONExponentIsDecimal(t *testing.T) {
	v, err := convert.InferJSON("1e10")
	require.NoError(t, err)
	_, ok := v.(*apd.Decimal)
	require.True(t, ok, "expected exponent-form lexeme to infer as decimal, got %T", v)
}

func TestInferJSONNegativeZeroIsFloat(t *testing.T) {
	v, err := convert.InferJSON("-0")
	require.NoError(t, err)
	require.IsType(t, float64(0), v)
	require.Equal(t, float64(0), v)

	v, err = convert.InferJSON("-0.00")
	require.NoError(t, err)
	require.IsType(t, float64(0), v)
}

func TestInferJSONDottedNegativeZeroIsFloatNotDecimal(t *testing.T) {
	v, err := convert.InferJSON("-0.0")
	require.NoError(t, err)
	require.IsType(t, float64(0), v, "dotted negative zero must still infer as float, per the negative-zero exception")
}

func TestInferJSONUnrecognized(t *testing.T) {
	_, err := convert.InferJSON("abc")
	require.Error(t, err)
}
