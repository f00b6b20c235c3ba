package typedjson

import (
	"github.com/go-stream/typedjson/convert"
	"github.com/go-stream/typedjson/schema"
	"github.com/go-stream/typedjson/values"
)

// convertStagedValue coerces a value staged under an unresolved union (see
// spec.md §4.7) to candidate's shape. A nested *values.Map or *values.List
// was already resolved against its own (possibly narrowed) candidate set
// when its own container closed, so it is accepted as-is here; only bare
// scalars inferred via convert.InferJSON still need coercing to the
// candidate's exact primitive tag.
func convertStagedValue(target schema.Type, v any) (any, error) {
	switch v.(type) {
	case *values.Map, *values.List:
		return v, nil
	default:
		return convert.ConvertJSONValue(target, v)
	}
}

// attachString implements spec.md §4.4: validate that the current position
// accepts a string, decode escapes via the scratch buffer, and attach. A
// frame still staging an unresolved union accepts any string unconditionally
// — narrowing for it happens eagerly at object/array-open and field-name
// time instead, and again, loosely, at finalisation (see DESIGN.md).
func (p *Parser) attachString(kind lexKind) {
	s := p.buf.String()

	switch kind {
	case lexField:
		if !p.topIsUnionStaging() {
			var ok bool
			switch t := schema.ImpliedType(p.topTarget()).(type) {
			case schema.MapType:
				ok = schema.AssignableFromString(t.Constrained)
				if !ok {
					p.fail(p.errorf("map<string> expected, not a string"))
				}
			case schema.RecordType:
				fname := p.topFieldName()
				if _, known := t.Field(fname); known {
					ok = schema.AssignableFromString(t.FieldOrRest(fname))
					if !ok {
						p.fail(p.errorf("not a string, string expected"))
					}
				} else {
					ft := t.FieldOrRest(fname)
					ok = ft == nil || schema.AssignableFromString(ft)
					if !ok {
						p.fail(p.errorf("record rest field not a string"))
					}
				}
			}
		}
		m := p.currentNode.(*values.Map)
		m.PutForcefully(p.popFieldName(), s)
		p.st = stateFieldEnd

	case lexArrayElement:
		if !p.topIsUnionStaging() {
			switch t := schema.ImpliedType(p.topTarget()).(type) {
			case schema.ArrayType:
				if !schema.AssignableFromString(t.Elem) {
					p.fail(p.errorf("given is a string, but array element type is not string"))
				}
			case schema.TupleType:
				idx := p.topListIndex()
				var elemType schema.Type
				if idx < len(t.Elems) {
					elemType = t.Elems[idx]
				} else {
					elemType = t.Rest
				}
				if elemType == nil || !schema.AssignableFromString(elemType) {
					p.fail(p.errorf("string is given, but the tuple element type is not string"))
				}
			}
		}
		l := p.currentNode.(*values.List)
		l.AddRefValue(p.topListIndex(), s)
		p.bumpListIndex()
		p.st = stateArrayElemEnd

	case lexValue:
		if !schema.AssignableFromString(p.topTarget()) {
			p.fail(p.errorf("not a string, string expected"))
		}
		p.root = s
		p.st = stateDocEnd
	}
}

// processNonStringValue implements spec.md §4.5 for the three lexeme
// contexts a non-string literal (number, true, false, null) can terminate
// in.
func (p *Parser) processNonStringValue(kind lexKind) {
	lexeme := p.buf.String()

	switch kind {
	case lexField:
		if p.topIsUnionStaging() {
			v, err := convert.InferJSON(lexeme)
			if err != nil {
				p.fail(p.errorf("%s", err.Error()))
			}
			m := p.currentNode.(*values.Map)
			fname := p.popFieldName()
			m.PutForcefully(fname, v)
			p.narrowCandidatesForField(fname)
			p.st = stateFieldEnd
			return
		}
		var fieldType schema.Type
		switch t := schema.ImpliedType(p.topTarget()).(type) {
		case schema.MapType:
			fieldType = t.Constrained
		case schema.RecordType:
			fname := p.topFieldName()
			fieldType = t.FieldOrRest(fname)
			if fieldType == nil {
				fieldType = schema.AnyJSON
			}
		default:
			fieldType = schema.AnyJSON
		}
		v, err := convert.ConvertValue(fieldType, lexeme)
		if err != nil {
			p.fail(p.wrapf(err, "%s", err.Error()))
		}
		m := p.currentNode.(*values.Map)
		m.PutForcefully(p.popFieldName(), v)
		p.st = stateFieldEnd

	case lexArrayElement:
		idx := p.topListIndex()
		if p.topIsUnionStaging() {
			v, err := convert.InferJSON(lexeme)
			if err != nil {
				p.fail(p.errorf("%s", err.Error()))
			}
			l := p.currentNode.(*values.List)
			l.AddRefValue(idx, v)
			p.bumpListIndex()
			p.narrowCandidatesForArrayElem(idx)
			p.st = stateArrayElemEnd
			return
		}
		var elemType schema.Type
		switch t := schema.ImpliedType(p.topTarget()).(type) {
		case schema.ArrayType:
			if t.Closed && idx >= t.Size {
				p.fail(p.errorf("array size exceeded"))
			}
			elemType = t.Elem
		case schema.TupleType:
			if idx < len(t.Elems) {
				elemType = t.Elems[idx]
			} else if t.Rest != nil {
				elemType = t.Rest
			} else {
				p.fail(p.errorf("tuple size exceeded"))
			}
		default:
			elemType = schema.AnyJSON
		}
		v, err := convert.ConvertValue(elemType, lexeme)
		if err != nil {
			p.fail(p.wrapf(err, "%s", err.Error()))
		}
		l := p.currentNode.(*values.List)
		l.AddRefValue(idx, v)
		p.bumpListIndex()
		p.st = stateArrayElemEnd

	case lexValue:
		target := p.topTarget()
		implied := schema.ImpliedType(target)
		if u, ok := implied.(schema.UnionType); ok {
			members := flattenUnion(u)
			var v any
			var err error
			found := false
			for _, m := range members {
				v, err = convert.ConvertValue(m, lexeme)
				if err == nil {
					found = true
					break
				}
			}
			if !found {
				p.fail(p.errorf("no matching type found for '%s'", lexeme))
			}
			p.root = v
		} else {
			v, err := convert.ConvertValue(target, lexeme)
			if err != nil {
				p.fail(p.wrapf(err, "%s", err.Error()))
			}
			p.root = v
		}
		p.st = stateDocEnd
	}
}

// narrowCandidatesForField re-applies the field-name narrowing predicate of
// spec.md §4.3 to a field's value, per the deliberate choice recorded in
// DESIGN.md for the otherwise-unclear Open Question of spec.md §9: a MAP
// candidate always survives, a RECORD candidate survives if it declares the
// field or accepts undeclared ones. onFieldNameClosed has already applied
// this same predicate for the same field name, so in practice nothing is
// dropped here; the "no eligible types" check is kept for symmetry and is
// raised by onFieldNameClosed when a field name exhausts the set.
func (p *Parser) narrowCandidatesForField(field string) {
	cands := p.topCandidates()
	kept := cands[:0:0]
	for _, c := range cands {
		switch t := schema.ImpliedType(c).(type) {
		case schema.MapType:
			kept = append(kept, c)
		case schema.RecordType:
			if _, ok := t.Field(field); ok || !t.Sealed {
				kept = append(kept, c)
			}
		}
	}
	if len(kept) == 0 {
		p.fail(p.errorf("no eligible types"))
	}
	p.setTopCandidates(kept)
}

// narrowCandidatesForArrayElem drops ARRAY/TUPLE candidates that can no
// longer accept an element at idx, the symmetric extension to arrays of
// spec.md §4.3's object narrowing (see DESIGN.md).
func (p *Parser) narrowCandidatesForArrayElem(idx int) {
	cands := p.topCandidates()
	kept := cands[:0:0]
	for _, c := range cands {
		switch t := schema.ImpliedType(c).(type) {
		case schema.ArrayType:
			if !t.Closed || idx < t.Size {
				kept = append(kept, c)
			}
		case schema.TupleType:
			if idx < len(t.Elems) || t.Rest != nil {
				kept = append(kept, c)
			}
		}
	}
	p.setTopCandidates(kept)
}
