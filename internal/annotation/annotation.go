// Package annotation packs and unpacks annotation groups: families of
// positionally-ordered sub-fields (e.g. a consequence-prediction field like
// CSQ) carried in a single pipe-delimited string.
package annotation

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Delimiter separates sub-field values within one annotation string.
const Delimiter = "|"

// StrBuilder reconstructs delimited annotation strings from named sub-field
// values, in the positional order declared for each annotation group.
type StrBuilder struct {
	names map[string][]string // group id (e.g. "CSQ") -> ordered sub-field names
}

// NewStrBuilder creates a builder from a map of annotation-group id to the
// ordered list of sub-field names for that group.
func NewStrBuilder(names map[string][]string) *StrBuilder {
	return &StrBuilder{names: names}
}

// IsAnnotationGroup reports whether the given field name identifies a known
// annotation group.
func (b *StrBuilder) IsAnnotationGroup(name string) bool {
	if b == nil {
		return false
	}
	_, ok := b.names[name]
	return ok
}

// Reconstruct rebuilds one delimited annotation string per annotation record.
// Each record maps sub-field names to values; values are joined in declared
// positional order, with missing sub-fields rendered empty.
func (b *StrBuilder) Reconstruct(name string, records []interface{}) ([]string, error) {
	order, ok := b.names[name]
	if !ok {
		return nil, fmt.Errorf("unknown annotation group: %s", name)
	}

	out := make([]string, 0, len(records))
	for _, record := range records {
		fields, ok := record.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("annotation group %s: record is %T, not a map", name, record)
		}
		parts := make([]string, len(order))
		for i, sub := range order {
			if v, ok := fields[sub]; ok && v != nil {
				parts[i] = fmt.Sprint(v)
			}
		}
		out = append(out, strings.Join(parts, Delimiter))
	}
	return out, nil
}

// Split breaks one delimited annotation string into a record keyed by the
// group's sub-field names. Extra components beyond the declared names are
// dropped; missing trailing components are left out of the record.
func (b *StrBuilder) Split(name, annotation string) (map[string]interface{}, error) {
	order, ok := b.names[name]
	if !ok {
		return nil, fmt.Errorf("unknown annotation group: %s", name)
	}

	record := make(map[string]interface{}, len(order))
	for i, value := range strings.Split(annotation, Delimiter) {
		if i >= len(order) {
			break
		}
		if value != "" {
			record[order[i]] = value
		}
	}
	return record, nil
}

// LoadMappings reads annotation-group mappings from a YAML file of the form
//
//	CSQ: [allele, Consequence, IMPACT, SYMBOL]
func LoadMappings(path string) (map[string][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read annotation mappings: %w", err)
	}
	var names map[string][]string
	if err := yaml.Unmarshal(data, &names); err != nil {
		return nil, fmt.Errorf("parse annotation mappings: %w", err)
	}
	return names, nil
}
