package schema

// AssignableFromString reports whether a quoted JSON string literal can be
// bound directly to a slot described by t, without going through
// convert.ConvertValue. This covers spec.md §4.4: a record/map field, tuple
// element, array element, or root target wants a string if its implied tag
// is String or the open-ended JSON tag, or — for a union slot that has not
// been staged as an object/array (a bare scalar position) — if any member
// satisfies the same rule.
func AssignableFromString(t Type) bool {
	return assignableFromString(t, 0)
}

func assignableFromString(t Type, depth int) bool {
	if depth > 32 {
		return false // pathological self-referential union; fail closed
	}
	switch it := ImpliedType(t).(type) {
	case Primitive:
		return it.Tag() == String || it.Tag() == JSON
	case UnionType:
		for _, m := range it.Members {
			if assignableFromString(m, depth+1) {
				return true
			}
		}
		return false
	default:
		return false
	}
}
