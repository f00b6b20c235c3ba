// Package convert implements the external TypeConverter.convertValues
// collaborator spec.md §4.5/§6 describes: turning the lexed text of a
// non-string JSON value into the Go value a target primitive type calls
// for, plus the type-free inference convertValues falls back to when the
// target is the open-ended "json" type.
package convert

import (
	"fmt"
	"strconv"

	"github.com/cockroachdb/apd/v3"
	"go4.org/mem"

	"github.com/go-stream/typedjson/schema"
)

// ConvertValue converts lexeme — the undecoded text of a non-string JSON
// literal — to the Go value schema.Tag(t) requires, following the
// primitive rules of spec.md §4.5:
//
//   - Int family and Byte parse as a signed 64-bit integer, then
//     range-checked against the narrower width the tag names.
//   - Decimal parses as an arbitrary-precision decimal.
//   - Float parses as a binary-64 double.
//   - Boolean accepts exactly "true" or "false".
//   - Null accepts exactly "null".
//   - String always fails: a string must arrive quoted.
func ConvertValue(t schema.Type, lexeme string) (any, error) {
	tag := schema.ImpliedType(t).Tag()
	switch {
	case tag.IsIntegral():
		return convertInt(tag, lexeme)
	case tag == schema.Decimal:
		d, _, err := apd.NewFromString(lexeme)
		if err != nil {
			return nil, fmt.Errorf("cannot convert %q to decimal: %w", lexeme, err)
		}
		return d, nil
	case tag == schema.Float:
		f, err := strconv.ParseFloat(lexeme, 64)
		if err != nil {
			return nil, fmt.Errorf("cannot convert %q to float: %w", lexeme, err)
		}
		return f, nil
	case tag == schema.Boolean:
		src := mem.S(lexeme)
		if src.Equal(trueLiteral) {
			return true, nil
		} else if src.Equal(falseLiteral) {
			return false, nil
		}
		return nil, fmt.Errorf("cannot convert %q to boolean", lexeme)
	case tag == schema.Null:
		if mem.S(lexeme).Equal(nullLiteral) {
			return nil, nil
		}
		return nil, fmt.Errorf("cannot convert %q to null", lexeme)
	case tag == schema.String:
		return nil, fmt.Errorf("not a string, string expected")
	case tag == schema.JSON:
		return InferJSON(lexeme)
	default:
		return nil, fmt.Errorf("unsupported type %v", tag)
	}
}

func convertInt(tag schema.Tag, lexeme string) (any, error) {
	v, err := strconv.ParseInt(lexeme, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("cannot convert %q to %v: %w", lexeme, tag, err)
	}
	return rangeCheckInt(tag, v)
}

func rangeCheckInt(tag schema.Tag, v int64) (any, error) {
	switch tag {
	case schema.Signed8:
		if v < -128 || v > 127 {
			return nil, fmt.Errorf("%d overflows int8", v)
		}
	case schema.Signed16:
		if v < -32768 || v > 32767 {
			return nil, fmt.Errorf("%d overflows int16", v)
		}
	case schema.Signed32:
		if v < -1<<31 || v > 1<<31-1 {
			return nil, fmt.Errorf("%d overflows int32", v)
		}
	case schema.Unsigned8:
		if v < 0 || v > 255 {
			return nil, fmt.Errorf("%d overflows uint8", v)
		}
	case schema.Unsigned16:
		if v < 0 || v > 65535 {
			return nil, fmt.Errorf("%d overflows uint16", v)
		}
	case schema.Unsigned32:
		if v < 0 || v > 1<<32-1 {
			return nil, fmt.Errorf("%d overflows uint32", v)
		}
	case schema.Byte:
		if v < 0 || v > 255 {
			return nil, fmt.Errorf("%d overflows byte", v)
		}
	}
	return v, nil
}
