package convert

import (
	"fmt"

	"github.com/genobq/varrow/internal/schema"
)

// MissingFieldError reports an info field that has no declared entry in the
// store schema. It is always surfaced: silently dropping data is worse than
// failing loud on a schema misconfiguration.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("schema has no such field: %s "+
		"(the field was not declared and was not inferred)", e.Field)
}

// MismatchError reports a value that required coercion to fit its declared
// schema while allow-incompatible mode was off. It carries both the value
// and the declared schema for diagnosis.
type MismatchError struct {
	Field  string
	Value  interface{}
	Schema schema.Field
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("value and schema do not match for field %s: value %v, schema %s %s",
		e.Field, e.Value, e.Schema.Type, e.Schema.Mode)
}
