package convert

import (
	"fmt"
	"strconv"

	"github.com/cockroachdb/apd/v3"

	"github.com/go-stream/typedjson/schema"
)

// ConvertJSONValue coerces v — a value already produced by InferJSON — to
// the primitive shape target's tag calls for. A json target accepts v
// (including a nested Map/List) unchanged; a map, record, array, tuple or
// union target always fails. It is the value-to-value counterpart of
// ConvertValue, used at
// spec.md §4.7's union-staging finalisation step, where only the
// already-inferred value survives, not the original source lexeme.
func ConvertJSONValue(target schema.Type, v any) (any, error) {
	tag := schema.ImpliedType(target).Tag()
	switch tag {
	case schema.Map, schema.Record, schema.Array, schema.Tuple, schema.Union:
		return nil, fmt.Errorf("value cannot be constructed")
	case schema.JSON:
		return v, nil
	case schema.String:
		if s, ok := v.(string); ok {
			return s, nil
		}
		return nil, fmt.Errorf("not a string, string expected")
	case schema.Boolean:
		if b, ok := v.(bool); ok {
			return b, nil
		}
		return nil, fmt.Errorf("cannot convert to boolean")
	case schema.Null:
		if v == nil {
			return nil, nil
		}
		return nil, fmt.Errorf("cannot convert to null")
	case schema.Decimal:
		return toDecimal(v)
	case schema.Float:
		return toFloat(v)
	default: // integral family
		return toInt(tag, v)
	}
}

func toDecimal(v any) (any, error) {
	switch n := v.(type) {
	case int64:
		return apd.New(n, 0), nil
	case float64:
		d, _, err := apd.NewFromString(strconv.FormatFloat(n, 'g', -1, 64))
		if err != nil {
			return nil, fmt.Errorf("cannot convert to decimal: %w", err)
		}
		return d, nil
	case *apd.Decimal:
		return n, nil
	}
	return nil, fmt.Errorf("cannot convert to decimal")
}

func toFloat(v any) (any, error) {
	switch n := v.(type) {
	case int64:
		return float64(n), nil
	case float64:
		return n, nil
	case *apd.Decimal:
		f, err := n.Float64()
		if err != nil {
			return nil, fmt.Errorf("cannot convert to float: %w", err)
		}
		return f, nil
	}
	return nil, fmt.Errorf("cannot convert to float")
}

func toInt(tag schema.Tag, v any) (any, error) {
	switch n := v.(type) {
	case int64:
		return rangeCheckInt(tag, n)
	case float64:
		return rangeCheckInt(tag, int64(n))
	case *apd.Decimal:
		i, err := n.Int64()
		if err != nil {
			return nil, fmt.Errorf("cannot convert to %v: %w", tag, err)
		}
		return rangeCheckInt(tag, i)
	}
	return nil, fmt.Errorf("cannot convert to %v", tag)
}
