package schema

// Type is implemented by every type descriptor the parser can consult. It
// deliberately exposes only the capabilities spec.md §3 asks for; the
// concrete shape of a descriptor is otherwise opaque to the parser.
type Type interface {
	// Tag returns the descriptor's structural or primitive kind.
	Tag() Tag
}

// Primitive is a leaf type descriptor: any tag other than Map, Record,
// Array, Tuple, or Union.
type Primitive struct {
	tag Tag
}

// NewPrimitive constructs a Primitive descriptor for one of the scalar tags.
// It panics if tag names a container, since a Primitive can never describe
// one — callers build MapType/RecordType/etc. for those instead.
func NewPrimitive(tag Tag) Primitive {
	if !tag.IsPrimitive() {
		panic("schema: " + tag.String() + " is not a primitive tag")
	}
	return Primitive{tag: tag}
}

func (p Primitive) Tag() Tag { return p.tag }

// MapType describes a map whose values all share a single constrained type.
type MapType struct {
	Constrained Type
}

func (MapType) Tag() Tag { return Map }

// Field is one declared member of a RecordType.
type Field struct {
	Name     string
	Type     Type
	Required bool
}

// RecordType describes a record (an object with a declared, ordered field
// set). RestField is the type assigned to a field the record doesn't
// declare; it is nil when Sealed forbids such fields outright.
type RecordType struct {
	Pkg       string
	Name      string
	Fields    []Field
	RestField Type
	Sealed    bool
	ReadOnly  bool
}

func (RecordType) Tag() Tag { return Record }

// Field looks up a declared field by name.
func (r RecordType) Field(name string) (Field, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// FieldOrRest returns the type an incoming field name should be parsed as:
// the declared field type if name is declared, otherwise RestField (which
// may be nil if the record accepts no undeclared fields).
func (r RecordType) FieldOrRest(name string) Type {
	if f, ok := r.Field(name); ok {
		return f.Type
	}
	return r.RestField
}

// ArrayType describes a homogeneous array. A Closed array has a fixed
// declared Size; an open array accepts any number of elements.
type ArrayType struct {
	Elem      Type
	Size      int
	Closed    bool
	HasFiller bool
}

func (ArrayType) Tag() Tag { return Array }

// TupleType describes a fixed-arity heterogeneous sequence, optionally with
// a Rest type absorbing elements beyond the declared arity.
type TupleType struct {
	Elems []Type
	Rest  Type
}

func (TupleType) Tag() Tag { return Tuple }

// UnionType describes an ordered set of candidate member types.
type UnionType struct {
	Members []Type
}

func (UnionType) Tag() Tag { return Union }

// RefType is a named alias for another type. It exists only so
// ImpliedType has a reference form to strip, mirroring the original
// runtime's distinction between a type reference and its resolved form.
type RefType struct {
	Name   string
	Target Type
}

func (r RefType) Tag() Tag { return r.Target.Tag() }

// IntersectionType is an intersection of several type descriptors.
// ImpliedType resolves it to its first member (or to the json type when it
// has none); the other members are not consulted. The wrapper is kept
// distinct from RefType so that choice is visible and explicit rather than
// silently folded into aliasing.
type IntersectionType struct {
	Types []Type
}

func (i IntersectionType) Tag() Tag {
	if len(i.Types) == 0 {
		return JSON
	}
	return i.Types[0].Tag()
}

// ImpliedType strips RefType and IntersectionType wrappers down to the
// canonical descriptor the parser actually builds values against.
func ImpliedType(t Type) Type {
	for {
		switch v := t.(type) {
		case RefType:
			t = v.Target
		case IntersectionType:
			if len(v.Types) == 0 {
				return NewPrimitive(JSON)
			}
			t = v.Types[0]
		default:
			return t
		}
	}
}

// AnyJSON is the open-ended "json" type: any value is assignable to it, and
// it is the element type used for staging areas while a union is still
// undetermined.
var AnyJSON Type = NewPrimitive(JSON)
