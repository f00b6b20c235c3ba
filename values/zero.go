package values

import (
	"github.com/cockroachdb/apd/v3"

	"github.com/go-stream/typedjson/schema"
)

// Zero returns the default value spec.md §4.7 calls a "filler value" (for a
// closed array short on elements) or a missing-but-not-required record
// field's default. It is also used recursively to build a default record
// value for a nested RECORD field.
func Zero(t schema.Type) any {
	switch it := schema.ImpliedType(t).(type) {
	case schema.Primitive:
		return zeroPrimitive(it.Tag())
	case schema.MapType:
		return NewMap(it)
	case schema.RecordType:
		return zeroRecord(it)
	case schema.ArrayType:
		return zeroArray(it)
	case schema.TupleType:
		return zeroTuple(it)
	case schema.UnionType:
		if len(it.Members) == 0 {
			return nil
		}
		return Zero(it.Members[0])
	default:
		return nil
	}
}

func zeroPrimitive(tag schema.Tag) any {
	switch tag {
	case schema.Int, schema.Signed8, schema.Signed16, schema.Signed32,
		schema.Unsigned8, schema.Unsigned16, schema.Unsigned32, schema.Byte:
		return int64(0)
	case schema.Float:
		return float64(0)
	case schema.Decimal:
		return apd.New(0, 0)
	case schema.String:
		return ""
	case schema.Boolean:
		return false
	default: // Null, JSON
		return nil
	}
}

func zeroRecord(rt schema.RecordType) *Map {
	m := NewMap(rt)
	for _, f := range rt.Fields {
		m.PutForcefully(f.Name, Zero(f.Type))
	}
	if rt.ReadOnly {
		m.Freeze()
	}
	return m
}

func zeroArray(at schema.ArrayType) *List {
	if !at.Closed {
		return NewList(at, 0)
	}
	l := NewList(at, at.Size)
	if at.HasFiller {
		filler := Zero(at.Elem)
		for i := 0; i < at.Size; i++ {
			l.AddRefValue(i, filler)
		}
	}
	return l
}

func zeroTuple(tt schema.TupleType) *List {
	l := NewList(tt, len(tt.Elems))
	for i, et := range tt.Elems {
		l.AddRefValue(i, Zero(et))
	}
	return l
}
