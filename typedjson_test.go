package typedjson_test

import (
	"strings"
	"testing"

	"github.com/cockroachdb/apd/v3"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/go-stream/typedjson"
	"github.com/go-stream/typedjson/schema"
	"github.com/go-stream/typedjson/values"
)

// flatten converts the parser's output into plain Go maps/slices so tests
// can compare it with cmp.Diff instead of reaching into *values.Map/*List.
func flatten(v any) any {
	switch t := v.(type) {
	case *values.Map:
		out := make(map[string]any, t.Len())
		t.Range(func(k string, val any) bool {
			out[k] = flatten(val)
			return true
		})
		return out
	case *values.List:
		items := t.Items()
		out := make([]any, len(items))
		for i, it := range items {
			out[i] = flatten(it)
		}
		return out
	case *apd.Decimal:
		return t.String()
	default:
		return v
	}
}

func personType() schema.RecordType {
	return schema.RecordType{
		Pkg:  "example",
		Name: "Person",
		Fields: []schema.Field{
			{Name: "name", Type: schema.NewPrimitive(schema.String), Required: true},
			{Name: "age", Type: schema.NewPrimitive(schema.Int)},
		},
	}
}

func TestParseRecord(t *testing.T) {
	v, err := typedjson.ParseString(`{"name":"Ada","age":36}`, personType())
	require.NoError(t, err)

	got := flatten(v)
	want := map[string]any{"name": "Ada", "age": int64(36)}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("parse result mismatch (-want +got):\n%s", diff)
	}
}

func TestParseRecordMissingOptionalFieldDefaults(t *testing.T) {
	v, err := typedjson.ParseString(`{"name":"Grace"}`, personType())
	require.NoError(t, err)

	got := flatten(v)
	want := map[string]any{"name": "Grace", "age": int64(0)}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("parse result mismatch (-want +got):\n%s", diff)
	}
}

func TestParseRecordMissingRequiredFieldFails(t *testing.T) {
	_, err := typedjson.ParseString(`{"age":10}`, personType())
	require.Error(t, err)
}

func TestParseRecordSealedRejectsUnknownField(t *testing.T) {
	rt := personType()
	rt.Sealed = true
	_, err := typedjson.ParseString(`{"name":"Ada","age":36,"nickname":"Countess"}`, rt)
	require.Error(t, err)
}

func TestParseRecordUnsealedAcceptsRestFieldAsJSON(t *testing.T) {
	rt := personType()
	rt.RestField = schema.AnyJSON
	v, err := typedjson.ParseString(`{"name":"Ada","age":36,"nickname":"Countess"}`, rt)
	require.NoError(t, err)
	got := flatten(v).(map[string]any)
	require.Equal(t, "Countess", got["nickname"])
}

func TestParseClosedArrayWithFiller(t *testing.T) {
	at := schema.ArrayType{Elem: schema.NewPrimitive(schema.Int), Size: 4, Closed: true, HasFiller: true}
	v, err := typedjson.ParseString(`[1,2,3]`, at)
	require.NoError(t, err)
	got := flatten(v)
	want := []any{int64(1), int64(2), int64(3), int64(0)}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("parse result mismatch (-want +got):\n%s", diff)
	}
}

func TestParseClosedArrayWithoutFillerTooShortFails(t *testing.T) {
	at := schema.ArrayType{Elem: schema.NewPrimitive(schema.Int), Size: 4, Closed: true, HasFiller: false}
	_, err := typedjson.ParseString(`[1,2,3]`, at)
	require.Error(t, err)
}

func TestParseClosedArrayTooManyElementsFails(t *testing.T) {
	at := schema.ArrayType{Elem: schema.NewPrimitive(schema.Int), Size: 2, Closed: true}
	_, err := typedjson.ParseString(`[1,2,3]`, at)
	require.Error(t, err)
}

func TestParseTuple(t *testing.T) {
	tt := schema.TupleType{Elems: []schema.Type{
		schema.NewPrimitive(schema.String),
		schema.NewPrimitive(schema.Int),
	}}
	v, err := typedjson.ParseString(`["Ada",36]`, tt)
	require.NoError(t, err)
	got := flatten(v)
	want := []any{"Ada", int64(36)}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("parse result mismatch (-want +got):\n%s", diff)
	}
}

func TestParseUnionObjectNarrowsToMatchingRecord(t *testing.T) {
	dog := schema.RecordType{Name: "Dog", Fields: []schema.Field{
		{Name: "bark", Type: schema.NewPrimitive(schema.Boolean), Required: true},
	}}
	cat := schema.RecordType{Name: "Cat", Fields: []schema.Field{
		{Name: "meow", Type: schema.NewPrimitive(schema.Boolean), Required: true},
	}}
	u := schema.UnionType{Members: []schema.Type{dog, cat}}

	v, err := typedjson.ParseString(`{"meow":true}`, u)
	require.NoError(t, err)
	got := flatten(v).(map[string]any)
	require.Equal(t, true, got["meow"])
}

func TestParseUnionObjectNoCandidateMatchesFails(t *testing.T) {
	dog := schema.RecordType{Name: "Dog", Sealed: true, Fields: []schema.Field{
		{Name: "bark", Type: schema.NewPrimitive(schema.Boolean), Required: true},
	}}
	u := schema.UnionType{Members: []schema.Type{dog}}
	_, err := typedjson.ParseString(`{"meow":true}`, u)
	require.Error(t, err)
}

func TestParseRootUnionScalar(t *testing.T) {
	u := schema.UnionType{Members: []schema.Type{
		schema.NewPrimitive(schema.Int),
		schema.NewPrimitive(schema.String),
	}}
	v, err := typedjson.ParseString(`"hello"`, u)
	require.NoError(t, err)
	require.Equal(t, "hello", v)

	v, err = typedjson.ParseString(`42`, u)
	require.NoError(t, err)
	require.Equal(t, int64(42), v)
}

func TestParseGenericJSONTarget(t *testing.T) {
	v, err := typedjson.ParseString(`{"a":[1,2.5,"x",true,null]}`, schema.AnyJSON)
	require.NoError(t, err)
	got := flatten(v).(map[string]any)
	arr := got["a"].([]any)
	require.Equal(t, int64(1), arr[0])
	require.Equal(t, "2.5", arr[1]) // decimal rendered via its String()
	require.Equal(t, "x", arr[2])
	require.Equal(t, true, arr[3])
	require.Nil(t, arr[4])
}

func TestParseUnicodeEscapeDoesNotPairSurrogates(t *testing.T) {
	// U+1F600 GRINNING FACE encoded as a UTF-16 surrogate pair; spec.md §4.6
	// requires each \u escape decoded independently, not recombined.
	v, err := typedjson.ParseString(`"😀"`, schema.NewPrimitive(schema.String))
	require.NoError(t, err)
	s := v.(string)
	require.NotEqual(t, "\U0001F600", s, "surrogate halves must not be recombined into one rune")
}

func TestParseEscapeSequences(t *testing.T) {
	v, err := typedjson.ParseString(`"line1\nline2\ttab\\backslash\"quote"`, schema.NewPrimitive(schema.String))
	require.NoError(t, err)
	require.Equal(t, "line1\nline2\ttab\\backslash\"quote", v)
}

func TestParseStringTargetRejectsNumber(t *testing.T) {
	_, err := typedjson.ParseString(`42`, schema.NewPrimitive(schema.String))
	require.Error(t, err)
}

func TestParseErrorReportsLineAndColumn(t *testing.T) {
	_, err := typedjson.ParseString("{\n  \"name\": ,\n}", personType())
	require.Error(t, err)

	var pe *typedjson.ParseError
	require.ErrorAs(t, err, &pe)
	require.Equal(t, 2, pe.Line)
}

func TestParseTrailingContentFails(t *testing.T) {
	_, err := typedjson.ParseString(`42 43`, schema.NewPrimitive(schema.Int))
	require.Error(t, err)
}

func TestParseMapConstrainedType(t *testing.T) {
	mt := schema.MapType{Constrained: schema.NewPrimitive(schema.Int)}
	v, err := typedjson.ParseString(`{"a":1,"b":2}`, mt)
	require.NoError(t, err)
	got := flatten(v).(map[string]any)
	require.Equal(t, int64(1), got["a"])
	require.Equal(t, int64(2), got["b"])
}

func TestParseMapRejectsWrongValueType(t *testing.T) {
	mt := schema.MapType{Constrained: schema.NewPrimitive(schema.Int)}
	_, err := typedjson.ParseString(`{"a":"not an int"}`, mt)
	require.Error(t, err)
}

func TestParserIsReusableAcrossCalls(t *testing.T) {
	p := typedjson.NewParser()
	_, err := p.Parse(strings.NewReader(`{"name":"Ada","age":1}`), personType())
	require.NoError(t, err)
	_, err = p.Parse(strings.NewReader(`{"name":"Bob","age":2}`), personType())
	require.NoError(t, err)
}

func TestParseMaxDepthExceeded(t *testing.T) {
	p := typedjson.NewParser(typedjson.WithMaxDepth(1))
	_, err := p.Parse(strings.NewReader(`{"a":{"b":1}}`), schema.AnyJSON)
	require.Error(t, err)
}
