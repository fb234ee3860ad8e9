// Package schema describes the column layout of the analytics store: which
// fields exist, their declared types and modes, and the nested record layout
// of repeated record columns such as calls.
package schema

// Field types understood by the store.
const (
	TypeInteger = "INTEGER"
	TypeFloat   = "FLOAT"
	TypeString  = "STRING"
	TypeBoolean = "BOOLEAN"
	TypeRecord  = "RECORD"
)

// Field modes.
const (
	ModeNullable = "NULLABLE"
	ModeRepeated = "REPEATED"
)

// Field is the declared schema of one column.
type Field struct {
	Name   string  `json:"name"`
	Type   string  `json:"type"`
	Mode   string  `json:"mode,omitempty"`
	Fields []Field `json:"fields,omitempty"` // sub-fields for RECORD columns
}

// Repeated reports whether the field holds a list of values.
func (f Field) Repeated() bool {
	return f.Mode == ModeRepeated
}

// Descriptor answers schema lookups for one level of the column hierarchy.
// Simple (non-record) fields and nested record descriptors are indexed
// separately, mirroring how the store declares them.
type Descriptor struct {
	simple  map[string]Field
	records map[string]*Descriptor
}

// NewDescriptor builds a descriptor from declared fields. RECORD fields are
// recursively indexed as nested descriptors.
func NewDescriptor(fields []Field) *Descriptor {
	d := &Descriptor{
		simple:  make(map[string]Field),
		records: make(map[string]*Descriptor),
	}
	for _, f := range fields {
		if f.Type == TypeRecord {
			d.records[f.Name] = NewDescriptor(f.Fields)
		} else {
			d.simple[f.Name] = f
		}
	}
	return d
}

// HasSimpleField reports whether a non-record field with the given name
// is declared.
func (d *Descriptor) HasSimpleField(name string) bool {
	_, ok := d.simple[name]
	return ok
}

// FieldDescriptor returns the declared schema of a simple field.
func (d *Descriptor) FieldDescriptor(name string) (Field, bool) {
	f, ok := d.simple[name]
	return f, ok
}

// RecordDescriptor returns the nested descriptor of a record field
// (e.g. the calls column).
func (d *Descriptor) RecordDescriptor(name string) (*Descriptor, bool) {
	r, ok := d.records[name]
	return r, ok
}

// SimpleFieldNames returns the names of all declared simple fields.
func (d *Descriptor) SimpleFieldNames() []string {
	names := make([]string, 0, len(d.simple))
	for name := range d.simple {
		names = append(names, name)
	}
	return names
}
