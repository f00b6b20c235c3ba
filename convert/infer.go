package convert

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/cockroachdb/apd/v3"
	"go4.org/mem"
)

var (
	trueLiteral  = mem.S("true")
	falseLiteral = mem.S("false")
	nullLiteral  = mem.S("null")
)

// negativeZero matches a lexeme whose numeric value is exactly -0, with or
// without a fractional part: -0, -00, -0.0, -0.000, ...
var negativeZero = regexp.MustCompile(`^-0+(\.0+)?$`)

// InferJSON is processNonStringValueAsJson from spec.md §4.5: the untyped
// inference convertValues falls back to when the target is the open-ended
// "json" type, or while narrowing a union's staging value. Rule order
// matters and is exactly as spec.md states it:
//
//  1. a lexeme containing '.' is a decimal, unless its value is negative
//     zero, which parses as a double instead;
//  2. the literals true/false/null;
//  3. a bare negative zero (no '.') is a double;
//  4. a lexeme containing 'e' or 'E' is a decimal;
//  5. otherwise a signed 64-bit integer.
func InferJSON(lexeme string) (any, error) {
	switch {
	case strings.Contains(lexeme, "."):
		if negativeZero.MatchString(lexeme) {
			return parseFloat(lexeme)
		}
		return parseDecimal(lexeme)
	case mem.S(lexeme).Equal(trueLiteral):
		return true, nil
	case mem.S(lexeme).Equal(falseLiteral):
		return false, nil
	case mem.S(lexeme).Equal(nullLiteral):
		return nil, nil
	case negativeZero.MatchString(lexeme):
		return parseFloat(lexeme)
	case strings.ContainsAny(lexeme, "eE"):
		return parseDecimal(lexeme)
	default:
		v, err := strconv.ParseInt(lexeme, 10, 64)
		if err != nil {
			return nil, unrecognized(lexeme)
		}
		return v, nil
	}
}

func parseFloat(lexeme string) (any, error) {
	f, err := strconv.ParseFloat(lexeme, 64)
	if err != nil {
		return nil, unrecognized(lexeme)
	}
	return f, nil
}

func parseDecimal(lexeme string) (any, error) {
	d, _, err := apd.NewFromString(lexeme)
	if err != nil {
		return nil, unrecognized(lexeme)
	}
	return d, nil
}

func unrecognized(lexeme string) error {
	return fmt.Errorf("unrecognized token '%s'", lexeme)
}
