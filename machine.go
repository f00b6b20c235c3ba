package typedjson

import "github.com/go-stream/typedjson/schema"

func isValueStartChar(ch rune) bool {
	switch {
	case ch >= '0' && ch <= '9':
		return true
	case ch == '-':
		return true
	case ch == 't' || ch == 'f' || ch == 'n':
		return true
	}
	return false
}

func stringStateFor(kind lexKind) state {
	switch kind {
	case lexField:
		return stateStringFieldValue
	case lexArrayElement:
		return stateStringArrayElem
	default:
		return stateStringValue
	}
}

func nonStringStateFor(kind lexKind) state {
	switch kind {
	case lexField:
		return stateNonStringFieldValue
	case lexArrayElement:
		return stateNonStringArrayElem
	default:
		return stateNonStringValue
	}
}

// beginValue dispatches the first character of a value position (a record
// field's value, an array element, or the document root) to the right
// lexeme state, per spec.md §4.1's structural table.
func (p *Parser) beginValue(ch rune, kind lexKind) {
	switch {
	case ch == '"':
		p.buf.reset()
		p.st = stringStateFor(kind)
	case ch == '{':
		p.openContainer('{')
	case ch == '[':
		p.openContainer('[')
	case ch == eof:
		p.fail(p.errorf("unexpected end of input"))
	case isValueStartChar(ch):
		p.buf.reset()
		p.buf.writeRune(ch)
		p.st = nonStringStateFor(kind)
	default:
		p.fail(p.expectedf("\"", "{", "[", "a number", "true", "false", "null"))
	}
}

// step advances the state machine by one character, the single entry point
// spec.md §4.1 describes as the parser's whole control loop.
func (p *Parser) step(ch rune) {
	switch p.st {

	case stateDocStart:
		if isWhitespace(ch) {
			return
		}
		p.beginValue(ch, lexValue)

	case stateDocEnd:
		if ch == eof || isWhitespace(ch) {
			return
		}
		p.fail(p.errorf("trailing content after document"))

	// --- object structure -------------------------------------------------

	case stateFirstFieldReady:
		if isWhitespace(ch) {
			return
		}
		if ch == '}' {
			p.closeContainer('}')
			return
		}
		if ch == '"' {
			p.buf.reset()
			p.st = stateFieldName
			return
		}
		p.fail(p.expectedf("\"", "}"))

	case stateNonFirstFieldReady:
		if isWhitespace(ch) {
			return
		}
		if ch == '"' {
			p.buf.reset()
			p.st = stateFieldName
			return
		}
		p.fail(p.expectedf("\""))

	case stateFieldName:
		switch ch {
		case '"':
			p.onFieldNameClosed()
		case '\\':
			p.beginEscape(stateFieldName)
		case eof:
			p.fail(p.errorf("unexpected end of input inside field name"))
		default:
			p.buf.writeRune(ch)
		}

	case stateEndFieldName:
		if isWhitespace(ch) {
			return
		}
		if ch == ':' {
			p.st = stateFieldValueReady
			return
		}
		p.fail(p.expectedf(":"))

	case stateFieldValueReady:
		if isWhitespace(ch) {
			return
		}
		p.beginValue(ch, lexField)

	case stateFieldEnd:
		if isWhitespace(ch) {
			return
		}
		if ch == ',' {
			p.st = stateNonFirstFieldReady
			return
		}
		if ch == '}' {
			p.closeContainer('}')
			return
		}
		p.fail(p.expectedf(",", "}"))

	// --- array structure ----------------------------------------------------

	case stateFirstArrayElemReady:
		if isWhitespace(ch) {
			return
		}
		if ch == ']' {
			p.closeContainer(']')
			return
		}
		p.beginValue(ch, lexArrayElement)

	case stateNonFirstArrayElemReady:
		if isWhitespace(ch) {
			return
		}
		p.beginValue(ch, lexArrayElement)

	case stateArrayElemEnd:
		if isWhitespace(ch) {
			return
		}
		if ch == ',' {
			p.st = stateNonFirstArrayElemReady
			return
		}
		if ch == ']' {
			p.closeContainer(']')
			return
		}
		p.fail(p.expectedf(",", "]"))

	// --- string lexemes -------------------------------------------------

	case stateStringValue:
		p.stepString(ch, stateStringValue, lexValue)
	case stateStringFieldValue:
		p.stepString(ch, stateStringFieldValue, lexField)
	case stateStringArrayElem:
		p.stepString(ch, stateStringArrayElem, lexArrayElement)

	// --- non-string lexemes -----------------------------------------------

	case stateNonStringValue:
		p.stepNonString(ch, lexValue)
	case stateNonStringFieldValue:
		p.stepNonString(ch, lexField)
	case stateNonStringArrayElem:
		p.stepNonString(ch, lexArrayElement)

	// --- escape sub-states, shared by every string lexeme ------------------

	case stateEscapedChar:
		if ch == eof {
			p.fail(p.errorf("unexpected end of input inside escape sequence"))
		}
		p.resolveEscape(ch)
	case stateUnicodeHex:
		if ch == eof {
			p.fail(p.errorf("unexpected end of input inside unicode escape"))
		}
		p.resolveUnicodeHex(ch)
	}
}

func (p *Parser) stepString(ch rune, self state, kind lexKind) {
	switch ch {
	case '"':
		p.attachString(kind)
	case '\\':
		p.beginEscape(self)
	case eof:
		p.fail(p.errorf("unexpected end of input inside string"))
	default:
		p.buf.writeRune(ch)
	}
}

func (p *Parser) stepNonString(ch rune, kind lexKind) {
	if isNonStringLexemeTerminator(ch) {
		p.unread(ch)
		p.processNonStringValue(kind)
		return
	}
	p.buf.writeRune(ch)
}

// onFieldNameClosed implements spec.md §4.3: the field name lexeme just
// closed is validated against the enclosing frame before the parser will
// commit to reading its value. A union-staging frame narrows its candidate
// set in place, failing only when no candidate is left; a non-string field
// value re-runs the same predicate in narrowCandidatesForField (see
// SPEC_FULL.md §9, item 1).
func (p *Parser) onFieldNameClosed() {
	name := p.buf.String()
	p.fieldNames = append(p.fieldNames, name)

	if p.topIsUnionStaging() {
		cands := p.topCandidates()
		kept := cands[:0:0]
		for _, c := range cands {
			switch t := schema.ImpliedType(c).(type) {
			case schema.MapType:
				kept = append(kept, c)
			case schema.RecordType:
				if _, ok := t.Field(name); ok || !t.Sealed {
					kept = append(kept, c)
				}
			}
		}
		if len(kept) == 0 {
			p.fail(p.errorf("no eligible types"))
		}
		p.setTopCandidates(kept)
		p.st = stateEndFieldName
		return
	}

	if rt, ok := schema.ImpliedType(p.topTarget()).(schema.RecordType); ok {
		if _, known := rt.Field(name); !known && rt.Sealed {
			p.fail(p.errorf("field '%s' cannot be added to the closed record '%s'", name, rt.Name))
		}
	}
	p.st = stateEndFieldName
}
