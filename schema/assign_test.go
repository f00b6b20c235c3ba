package schema_test

import (
	"testing"

	"github.com/go-stream/typedjson/schema"
)

func TestAssignableFromString(t *testing.T) {
	cases := []struct {
		name string
		t    schema.Type
		want bool
	}{
		{"string", schema.NewPrimitive(schema.String), true},
		{"json", schema.NewPrimitive(schema.JSON), true},
		{"int", schema.NewPrimitive(schema.Int), false},
		{
			"union with string member",
			schema.UnionType{Members: []schema.Type{schema.NewPrimitive(schema.Int), schema.NewPrimitive(schema.String)}},
			true,
		},
		{
			"union without string member",
			schema.UnionType{Members: []schema.Type{schema.NewPrimitive(schema.Int), schema.NewPrimitive(schema.Boolean)}},
			false,
		},
		{"map", schema.MapType{Constrained: schema.NewPrimitive(schema.String)}, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := schema.AssignableFromString(c.t); got != c.want {
				t.Errorf("AssignableFromString(%s) = %v, want %v", c.name, got, c.want)
			}
		})
	}
}

func TestAssignableFromStringSelfReferentialUnionFailsClosed(t *testing.T) {
	u := schema.UnionType{Members: make([]schema.Type, 1)}
	u.Members[0] = u // the copy shares u's backing array, so u contains itself
	if schema.AssignableFromString(u) {
		t.Fatal("expected self-referential union to fail closed, not hang or return true")
	}
}
