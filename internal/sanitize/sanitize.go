// Package sanitize maps domain field names and values to store-legal
// equivalents: column-name character rules, UTF-8 repair, and the configured
// replacement for missing numeric values inside lists.
package sanitize

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Name returns a store-legal column name: legal characters are letters,
// digits and underscore; anything else becomes underscore, and a leading
// digit gets an underscore prefix.
func Name(name string) string {
	var b strings.Builder
	b.Grow(len(name) + 1)
	for i, r := range name {
		legal := r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
		if !legal {
			b.WriteByte('_')
			continue
		}
		if i == 0 && unicode.IsDigit(r) {
			b.WriteByte('_')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Sanitizer rewrites field values into store-legal form.
type Sanitizer struct {
	// NullNumericReplacement substitutes for nil entries inside value
	// lists (the store rejects nulls in repeated numeric columns).
	// A nil replacement leaves such entries untouched.
	NullNumericReplacement interface{}
}

// New creates a sanitizer with the given missing-numeric replacement.
func New(nullNumericReplacement interface{}) *Sanitizer {
	return &Sanitizer{NullNumericReplacement: nullNumericReplacement}
}

// Value returns a store-legal copy of a field value. Lists are sanitized
// element-wise with nil entries replaced, strings are repaired to valid
// UTF-8, and non-finite floats become nil.
func (s *Sanitizer) Value(value interface{}) interface{} {
	switch v := value.(type) {
	case []interface{}:
		out := make([]interface{}, 0, len(v))
		for _, elem := range v {
			if elem == nil && s.NullNumericReplacement != nil {
				out = append(out, s.NullNumericReplacement)
				continue
			}
			out = append(out, s.Value(elem))
		}
		return out
	case []string:
		out := make([]interface{}, 0, len(v))
		for _, elem := range v {
			out = append(out, sanitizeString(elem))
		}
		return out
	case string:
		return sanitizeString(v)
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil
		}
		return v
	default:
		return value
	}
}

func sanitizeString(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	return strings.ToValidUTF8(s, string(utf8.RuneError))
}
