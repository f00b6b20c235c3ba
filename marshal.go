package typedjson

import (
	"strconv"
	"unicode/utf8"

	"github.com/cockroachdb/apd/v3"
	"go4.org/mem"

	"github.com/go-stream/typedjson/values"
)

// Marshal re-serialises a value Parse returned back into JSON text. It
// exists mainly so callers and tests can round-trip a parsed document; the
// parser itself never calls it. Map keys are written in the insertion
// order Map.Keys reports, not the target type's declared field order.
func Marshal(v any) []byte {
	var buf []byte
	buf = appendValue(buf, v)
	return buf
}

func appendValue(buf []byte, v any) []byte {
	switch t := v.(type) {
	case nil:
		return append(buf, "null"...)
	case bool:
		if t {
			return append(buf, "true"...)
		}
		return append(buf, "false"...)
	case string:
		return appendQuoted(buf, t)
	case int64:
		return strconv.AppendInt(buf, t, 10)
	case float64:
		return strconv.AppendFloat(buf, t, 'g', -1, 64)
	case *apd.Decimal:
		return append(buf, t.String()...)
	case *values.Map:
		return appendMap(buf, t)
	case *values.List:
		return appendList(buf, t)
	default:
		return append(buf, "null"...)
	}
}

// unicodeEscapeNeeded reports whether r must go out as a bare \uXXXX escape
// rather than as itself: JSON control characters, plus U+2028/U+2029 (legal
// JSON, but treated as line terminators inside a JS string literal) and the
// replacement character, which is worth making visible rather than silently
// passing through.
func unicodeEscapeNeeded(r rune) bool {
	switch r {
	case '\u2028', '\u2029', '\ufffd':
		return true
	default:
		return r < 0x20
	}
}

// appendQuoted writes s as a JSON string literal, escaping '"', '\\', the
// short named control escapes, and anything unicodeEscapeNeeded flags.
func appendQuoted(buf []byte, s string) []byte {
	buf = append(buf, '"')
	src := mem.S(s)
	for src.Len() > 0 {
		r, n := mem.DecodeRune(src)
		src = src.SliceFrom(n)

		switch r {
		case '"', '\\':
			buf = append(buf, '\\', byte(r))
		case '\b':
			buf = append(buf, '\\', 'b')
		case '\f':
			buf = append(buf, '\\', 'f')
		case '\n':
			buf = append(buf, '\\', 'n')
		case '\r':
			buf = append(buf, '\\', 'r')
		case '\t':
			buf = append(buf, '\\', 't')
		default:
			if unicodeEscapeNeeded(r) {
				buf = appendUnicodeEscape(buf, r)
			} else {
				buf = utf8.AppendRune(buf, r)
			}
		}
	}
	return append(buf, '"')
}

var hexDigits = "0123456789abcdef"

func appendUnicodeEscape(buf []byte, r rune) []byte {
	buf = append(buf, '\\', 'u')
	return append(buf, hexDigits[(r>>12)&0xf], hexDigits[(r>>8)&0xf], hexDigits[(r>>4)&0xf], hexDigits[r&0xf])
}

func appendMap(buf []byte, m *values.Map) []byte {
	buf = append(buf, '{')
	for i, k := range m.Keys() {
		if i > 0 {
			buf = append(buf, ',')
		}
		buf = appendQuoted(buf, k)
		buf = append(buf, ':')
		val, _ := m.Get(k)
		buf = appendValue(buf, val)
	}
	return append(buf, '}')
}

func appendList(buf []byte, l *values.List) []byte {
	buf = append(buf, '[')
	for i, v := range l.Items() {
		if i > 0 {
			buf = append(buf, ',')
		}
		buf = appendValue(buf, v)
	}
	return append(buf, ']')
}
