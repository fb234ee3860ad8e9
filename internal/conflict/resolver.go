// Package conflict coerces field values toward a declared schema when the
// schema was built from stale or hand-written declarations: numeric widening,
// list wrapping for repeated columns, and string fallback.
package conflict

import (
	"fmt"
	"strconv"

	"github.com/genobq/varrow/internal/schema"
)

// Resolver coerces values to match declared field schemas.
type Resolver struct{}

// New creates a resolver.
func New() *Resolver {
	return &Resolver{}
}

// Resolve returns the value coerced to the declared field schema, or the
// value unchanged when it already matches. Callers decide compatibility by
// comparing the result with the input. A value that cannot be represented
// in the declared type at all yields an error.
func (r *Resolver) Resolve(field schema.Field, value interface{}) (interface{}, error) {
	if value == nil {
		return nil, nil
	}

	if field.Repeated() {
		list, ok := value.([]interface{})
		if !ok {
			list = []interface{}{value}
		}
		out := make([]interface{}, 0, len(list))
		for _, elem := range list {
			coerced, err := coerceScalar(field.Type, elem)
			if err != nil {
				return nil, fmt.Errorf("field %s: %w", field.Name, err)
			}
			out = append(out, coerced)
		}
		return out, nil
	}

	// Declared scalar but the value arrived as a list: keep the first
	// element as the best-effort resolution.
	if list, ok := value.([]interface{}); ok {
		if len(list) == 0 {
			return nil, nil
		}
		value = list[0]
	}

	coerced, err := coerceScalar(field.Type, value)
	if err != nil {
		return nil, fmt.Errorf("field %s: %w", field.Name, err)
	}
	return coerced, nil
}

func coerceScalar(fieldType string, value interface{}) (interface{}, error) {
	if value == nil {
		return nil, nil
	}
	switch fieldType {
	case schema.TypeInteger:
		return coerceInteger(value)
	case schema.TypeFloat:
		return coerceFloat(value)
	case schema.TypeBoolean:
		return coerceBoolean(value)
	case schema.TypeString:
		return coerceString(value), nil
	default:
		return value, nil
	}
}

func coerceInteger(value interface{}) (interface{}, error) {
	switch v := value.(type) {
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	case float64:
		return int64(v), nil
	case bool:
		if v {
			return int64(1), nil
		}
		return int64(0), nil
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("cannot coerce %q to integer", v)
		}
		return n, nil
	default:
		return nil, fmt.Errorf("cannot coerce %T to integer", value)
	}
}

func coerceFloat(value interface{}) (interface{}, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case int64:
		return float64(v), nil
	case int:
		return float64(v), nil
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("cannot coerce %q to float", v)
		}
		return f, nil
	default:
		return nil, fmt.Errorf("cannot coerce %T to float", value)
	}
}

func coerceBoolean(value interface{}) (interface{}, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case int64:
		return v != 0, nil
	case int:
		return v != 0, nil
	case string:
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("cannot coerce %q to boolean", v)
		}
		return b, nil
	default:
		return nil, fmt.Errorf("cannot coerce %T to boolean", value)
	}
}

func coerceString(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
