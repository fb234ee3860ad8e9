package convert

import (
	"encoding/json"
	"reflect"

	"github.com/genobq/varrow/internal/variant"
)

// Row is the flat tabular representation of (part of) one variant, keyed by
// reserved column names plus sanitized info field names.
type Row map[string]interface{}

// deepCopy returns an independent copy of the row. Yielded rows must not
// alias the base row that later batches are built from.
func (r Row) deepCopy() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = deepCopyValue(v)
	}
	return out
}

func deepCopyValue(v interface{}) interface{} {
	switch x := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(x))
		for k, e := range x {
			out[k] = deepCopyValue(e)
		}
		return out
	case Row:
		return map[string]interface{}(x.deepCopy())
	case []interface{}:
		out := make([]interface{}, len(x))
		for i, e := range x {
			out[i] = deepCopyValue(e)
		}
		return out
	default:
		return v
	}
}

// jsonSize returns the serialized JSON length of a value in bytes, the
// reference metric for row-size estimation.
func jsonSize(v interface{}) (int, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return 0, err
	}
	return len(data), nil
}

// looseEqual compares two dynamic values, treating numerically-equal
// integers and floats as equal so that an integer stored under a FLOAT
// column does not count as a schema mismatch.
func looseEqual(a, b interface{}) bool {
	if af, ok := asNumber(a); ok {
		bf, ok := asNumber(b)
		return ok && af == bf
	}
	al, aok := a.([]interface{})
	bl, bok := b.([]interface{})
	if aok && bok {
		if len(al) != len(bl) {
			return false
		}
		for i := range al {
			if !looseEqual(al[i], bl[i]) {
				return false
			}
		}
		return true
	}
	return reflect.DeepEqual(a, b)
}

func asNumber(v interface{}) (float64, bool) {
	switch x := v.(type) {
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case float64:
		return x, true
	default:
		return 0, false
	}
}

// isEmptyFieldValue implements the forward-direction emptiness rule: a value
// is empty when it equals the missing-field sentinel, a singleton list of
// that sentinel, or is falsy while not being the number zero.
func isEmptyFieldValue(v interface{}) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return x == "" || x == variant.MissingField
	case bool:
		return !x
	case []interface{}:
		if len(x) == 0 {
			return true
		}
		if len(x) == 1 {
			if s, ok := x[0].(string); ok && s == variant.MissingField {
				return true
			}
		}
		return false
	default:
		// Numbers, including zero, are never empty.
		return false
	}
}

// isNullOrEmpty implements the reverse-direction rule: only absent values
// and empty lists count as empty. Zero and the empty string are copied
// verbatim, asymmetric with the forward rule.
func isNullOrEmpty(v interface{}) bool {
	if v == nil {
		return true
	}
	if list, ok := v.([]interface{}); ok {
		return len(list) == 0
	}
	return false
}
