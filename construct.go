package typedjson

import (
	"errors"

	"github.com/go-stream/typedjson/recordx"
	"github.com/go-stream/typedjson/schema"
	"github.com/go-stream/typedjson/values"
)

// topTarget returns the target type governing the frame currently being
// populated (spec.md §3: targetTypes always has nestingDepth+1 entries).
func (p *Parser) topTarget() schema.Type {
	return p.targetTypes[len(p.targetTypes)-1]
}

func (p *Parser) topIsUnionStaging() bool {
	return p.unionFrame[len(p.unionFrame)-1]
}

func (p *Parser) topCandidates() []schema.Type {
	return p.possibleTypes[len(p.possibleTypes)-1]
}

func (p *Parser) setTopCandidates(cands []schema.Type) {
	p.possibleTypes[len(p.possibleTypes)-1] = cands
}

func (p *Parser) topListIndex() int {
	return p.listIndices[len(p.listIndices)-1]
}

func (p *Parser) bumpListIndex() {
	p.listIndices[len(p.listIndices)-1]++
}

func (p *Parser) topFieldName() string {
	return p.fieldNames[len(p.fieldNames)-1]
}

func (p *Parser) popFieldName() string {
	n := len(p.fieldNames) - 1
	name := p.fieldNames[n]
	p.fieldNames = p.fieldNames[:n]
	return name
}

// flattenUnion expands t into its leaf (non-union) members, recursively
// flattening any member that is itself a union, per spec.md §4.2's
// "flatten the union" step.
func flattenUnion(t schema.Type) []schema.Type {
	implied := schema.ImpliedType(t)
	u, ok := implied.(schema.UnionType)
	if !ok {
		return []schema.Type{t}
	}
	var out []schema.Type
	for _, m := range u.Members {
		out = append(out, flattenUnion(m)...)
	}
	return out
}

func flattenAll(ts []schema.Type) []schema.Type {
	var out []schema.Type
	for _, t := range ts {
		out = append(out, flattenUnion(t)...)
	}
	return out
}

func filterUnionMembersForBracket(members []schema.Type, bracket byte) []schema.Type {
	var out []schema.Type
	for _, m := range members {
		tag := schema.ImpliedType(m).Tag()
		switch bracket {
		case '{':
			if tag == schema.Map || tag == schema.Record || tag == schema.JSON {
				out = append(out, m)
			}
		case '[':
			if tag == schema.Array || tag == schema.Tuple || tag == schema.JSON {
				out = append(out, m)
			}
		}
	}
	return out
}

// deriveSingleForField projects a single, already-concrete parent type
// through the field-value rule of spec.md §4.2's bullet list.
func deriveSingleForField(parent schema.Type, field string) (schema.Type, error) {
	switch t := schema.ImpliedType(parent).(type) {
	case schema.MapType:
		return t.Constrained, nil
	case schema.RecordType:
		if v := t.FieldOrRest(field); v != nil {
			return v, nil
		}
		return schema.AnyJSON, nil
	case schema.Primitive:
		if t.Tag() == schema.JSON {
			return schema.AnyJSON, nil
		}
	}
	return nil, p2err("target type is not map or record type")
}

// deriveSingleForArrayElem projects a single, already-concrete parent type
// through the array/tuple-element rule of spec.md §4.2's bullet list.
func deriveSingleForArrayElem(parent schema.Type, index int) (schema.Type, error) {
	switch t := schema.ImpliedType(parent).(type) {
	case schema.ArrayType:
		if t.Closed && index >= t.Size {
			return nil, p2err("array size exceeded")
		}
		return t.Elem, nil
	case schema.TupleType:
		if index < len(t.Elems) {
			return t.Elems[index], nil
		}
		if t.Rest != nil {
			return t.Rest, nil
		}
		return nil, p2err("tuple size exceeded")
	case schema.Primitive:
		if t.Tag() == schema.JSON {
			return schema.AnyJSON, nil
		}
	}
	return nil, p2err("target type is not array/object")
}

func p2err(msg string) error { return errors.New(msg) }

// childTarget computes the type governing a newly opened container, given
// the current frame (which may itself still be an unresolved union) and
// either a pending field name or the current array index. When the
// enclosing frame is a union in progress, every surviving candidate is
// projected independently and the results re-wrapped as a union, matching
// spec.md §4.2's "UNION (objects only...): recompute the candidate set by
// projecting each surviving member through the same rules above" — extended
// symmetrically to arrays, see DESIGN.md.
func (p *Parser) childTargetForField() (schema.Type, error) {
	if p.topIsUnionStaging() {
		field := p.topFieldName()
		var projected []schema.Type
		for _, c := range flattenAll(p.topCandidates()) {
			if v, err := deriveSingleForField(c, field); err == nil {
				projected = append(projected, v)
			}
		}
		if len(projected) == 0 {
			return nil, p2err("no eligible types")
		}
		return schema.UnionType{Members: projected}, nil
	}
	return deriveSingleForField(p.topTarget(), p.topFieldName())
}

func (p *Parser) childTargetForArrayElem() (schema.Type, error) {
	idx := p.topListIndex()
	if p.topIsUnionStaging() {
		var projected []schema.Type
		for _, c := range flattenAll(p.topCandidates()) {
			if v, err := deriveSingleForArrayElem(c, idx); err == nil {
				projected = append(projected, v)
			}
		}
		if len(projected) == 0 {
			return nil, p2err("no eligible types")
		}
		return schema.UnionType{Members: projected}, nil
	}
	return deriveSingleForArrayElem(p.topTarget(), idx)
}

func (p *Parser) childTargetForRoot() (schema.Type, error) {
	return p.topTarget(), nil
}

// openContainer materialises a new frame for an opening '{' or '[',
// implementing spec.md §4.2 in full, including the union-staging path.
func (p *Parser) openContainer(bracket byte) {
	var target schema.Type
	var err error
	switch {
	case p.currentNode == nil:
		target, err = p.childTargetForRoot()
	default:
		switch p.currentNode.(type) {
		case *values.Map:
			target, err = p.childTargetForField()
		case *values.List:
			target, err = p.childTargetForArrayElem()
		}
	}
	if err != nil {
		p.fail(p.errorf("%s", err.Error()))
	}
	p.materialize(bracket, target)
}

func (p *Parser) materialize(bracket byte, target schema.Type) {
	implied := schema.ImpliedType(target)

	if implied.Tag() == schema.Union {
		members := flattenUnion(implied)
		kept := filterUnionMembersForBracket(members, bracket)
		if len(kept) == 0 {
			if bracket == '{' {
				p.fail(p.errorf("target union type does not contain map or record type"))
			}
			p.fail(p.errorf("target union type does not contain array or tuple type"))
		}
		p.pushFrame(bracket, schema.UnionType{Members: kept}, true, kept)
		return
	}

	switch bracket {
	case '{':
		switch implied.Tag() {
		case schema.Map, schema.Record, schema.JSON:
			p.pushFrame(bracket, implied, false, nil)
		default:
			p.fail(p.errorf("target type is not map or record type"))
		}
	case '[':
		switch implied.Tag() {
		case schema.Array, schema.Tuple, schema.JSON:
			p.pushFrame(bracket, implied, false, nil)
		default:
			p.fail(p.errorf("target type is not array/object"))
		}
	}
}

func (p *Parser) pushFrame(bracket byte, frameType schema.Type, staging bool, candidates []schema.Type) {
	depth := len(p.nodes)
	if p.currentNode != nil {
		depth++
	}
	if p.maxDepth > 0 && depth+1 > p.maxDepth {
		p.fail(p.errorf("maximum nesting depth exceeded"))
	}

	var container any
	if bracket == '{' {
		container = values.NewMap(frameType)
	} else {
		container = values.NewList(frameType, 0)
	}

	if p.currentNode != nil {
		p.nodes = append(p.nodes, p.currentNode)
	}
	p.currentNode = container

	p.targetTypes = append(p.targetTypes, frameType)
	p.unionFrame = append(p.unionFrame, staging)
	if staging {
		p.possibleTypes = append(p.possibleTypes, candidates)
	} else {
		p.possibleTypes = append(p.possibleTypes, nil)
	}
	if bracket == '[' {
		p.listIndices = append(p.listIndices, 0)
		p.st = stateFirstArrayElemReady
	} else {
		p.st = stateFirstFieldReady
	}
}

// closeContainer implements spec.md §4.7: finalise the frame on top of the
// stacks and splice the result into its parent (or set it as the document
// root).
func (p *Parser) closeContainer(bracket byte) {
	switch bracket {
	case '}':
		p.closeObject()
	case ']':
		p.closeArray()
	}
}

func (p *Parser) closeObject() {
	m := p.currentNode.(*values.Map)
	staging := p.topIsUnionStaging()
	target := p.topTarget()

	var final any
	var err error
	if staging {
		final, err = resolveUnionObject(p.topCandidates(), m)
	} else {
		switch t := schema.ImpliedType(target).(type) {
		case schema.RecordType:
			final, err = finalizeRecord(t, m)
		default:
			final = m
		}
	}
	if err != nil {
		p.fail(p.errorf("%s", err.Error()))
	}
	p.popFrame(final)
}

func (p *Parser) closeArray() {
	l := p.currentNode.(*values.List)
	staging := p.topIsUnionStaging()
	target := p.topTarget()

	var final any
	var err error
	if staging {
		final, err = resolveUnionArray(p.topCandidates(), l)
	} else {
		switch t := schema.ImpliedType(target).(type) {
		case schema.ArrayType:
			final, err = finalizeArray(t, l)
		case schema.TupleType:
			final, err = finalizeTuple(t, l)
		default:
			final = l
		}
	}
	if err != nil {
		p.fail(p.errorf("%s", err.Error()))
	}
	p.popFrame(final)
}

// popFrame pops the finalised frame's bookkeeping and splices final into
// its parent, or stores it as the document root.
func (p *Parser) popFrame(final any) {
	p.targetTypes = p.targetTypes[:len(p.targetTypes)-1]
	p.unionFrame = p.unionFrame[:len(p.unionFrame)-1]
	p.possibleTypes = p.possibleTypes[:len(p.possibleTypes)-1]
	if _, isList := p.currentNode.(*values.List); isList {
		p.listIndices = p.listIndices[:len(p.listIndices)-1]
	}

	if len(p.nodes) == 0 {
		p.currentNode = nil
		p.root = final
		p.st = stateDocEnd
		return
	}

	parent := p.nodes[len(p.nodes)-1]
	p.nodes = p.nodes[:len(p.nodes)-1]
	p.currentNode = parent

	switch par := parent.(type) {
	case *values.Map:
		name := p.popFieldName()
		par.PutForcefully(name, final)
		p.st = stateFieldEnd
	case *values.List:
		idx := p.topListIndex()
		par.AddRefValue(idx, final)
		p.bumpListIndex()
		p.st = stateArrayElemEnd
	}
}

func finalizeRecord(rt schema.RecordType, supplied *values.Map) (*values.Map, error) {
	var notProvided []string
	for _, f := range rt.Fields {
		if supplied.Has(f.Name) {
			continue
		}
		if f.Required {
			return nil, p2err("missing required field '" + f.Name + "' in record '" + rt.Name + "'")
		}
		notProvided = append(notProvided, f.Name)
	}
	defaults, err := recordx.NewWithDefaults(rt.Pkg, rt.Name, rt, notProvided)
	if err != nil {
		return nil, err
	}
	supplied.Range(func(k string, v any) bool {
		defaults.PutForcefully(k, v)
		return true
	})
	if rt.ReadOnly {
		defaults.Freeze()
	}
	return defaults, nil
}

func finalizeArray(at schema.ArrayType, l *values.List) (*values.List, error) {
	if !at.Closed {
		return l, nil
	}
	n := l.Len()
	if n > at.Size {
		return nil, p2err("array size is not enough")
	}
	if n < at.Size {
		if !at.HasFiller {
			return nil, p2err("array does not have filler values")
		}
		for i := n; i < at.Size; i++ {
			l.AddRefValue(i, values.Zero(at.Elem))
		}
	}
	return l, nil
}

func finalizeTuple(tt schema.TupleType, l *values.List) (*values.List, error) {
	if l.Len() < len(tt.Elems) {
		return nil, p2err("tuple size is too large")
	}
	return l, nil
}

// resolveUnionObject tries each surviving union candidate, in declared
// order, against the staged generic map, returning the first whose full
// conversion succeeds (spec.md §4.7's union-staging finalisation path).
func resolveUnionObject(candidates []schema.Type, staged *values.Map) (any, error) {
	for _, c := range candidates {
		switch t := schema.ImpliedType(c).(type) {
		case schema.MapType:
			converted := values.NewMap(t)
			ok := true
			staged.Range(func(k string, v any) bool {
				cv, err := convertStagedValue(t.Constrained, v)
				if err != nil {
					ok = false
					return false
				}
				converted.PutForcefully(k, cv)
				return true
			})
			if ok {
				return converted, nil
			}
		case schema.RecordType:
			missingRequired := false
			for _, f := range t.Fields {
				if f.Required && !staged.Has(f.Name) {
					missingRequired = true
					break
				}
			}
			if missingRequired {
				continue
			}
			var notProvided []string
			for _, f := range t.Fields {
				if !staged.Has(f.Name) {
					notProvided = append(notProvided, f.Name)
				}
			}
			rec, err := recordx.NewWithDefaults(t.Pkg, t.Name, t, notProvided)
			if err != nil {
				continue
			}
			ok := true
			staged.Range(func(k string, v any) bool {
				ft := t.FieldOrRest(k)
				if ft == nil {
					ft = schema.AnyJSON
				}
				cv, err := convertStagedValue(ft, v)
				if err != nil {
					ok = false
					return false
				}
				rec.PutForcefully(k, cv)
				return true
			})
			if !ok {
				continue
			}
			if t.ReadOnly {
				rec.Freeze()
			}
			return rec, nil
		}
	}
	return nil, p2err("value cannot be constructed")
}

func resolveUnionArray(candidates []schema.Type, staged *values.List) (any, error) {
	for _, c := range candidates {
		switch t := schema.ImpliedType(c).(type) {
		case schema.ArrayType:
			if t.Closed && staged.Len() > t.Size {
				continue
			}
			converted := values.NewList(t, 0)
			ok := true
			for i, v := range staged.Items() {
				cv, err := convertStagedValue(t.Elem, v)
				if err != nil {
					ok = false
					break
				}
				converted.AddRefValue(i, cv)
			}
			if !ok {
				continue
			}
			if t.Closed && converted.Len() < t.Size {
				if !t.HasFiller {
					continue
				}
				for i := converted.Len(); i < t.Size; i++ {
					converted.AddRefValue(i, values.Zero(t.Elem))
				}
			}
			return converted, nil
		case schema.TupleType:
			items := staged.Items()
			if len(items) > len(t.Elems) && t.Rest == nil {
				continue
			}
			if len(items) < len(t.Elems) {
				continue
			}
			converted := values.NewList(t, 0)
			ok := true
			for i, v := range items {
				var elemType schema.Type
				if i < len(t.Elems) {
					elemType = t.Elems[i]
				} else {
					elemType = t.Rest
				}
				cv, err := convertStagedValue(elemType, v)
				if err != nil {
					ok = false
					break
				}
				converted.AddRefValue(i, cv)
			}
			if !ok {
				continue
			}
			return converted, nil
		}
	}
	return nil, p2err("value cannot be constructed")
}
