package schema

import (
	"encoding/json"
	"fmt"
	"os"
)

// Load reads a schema file: a JSON array of field declarations in the
// store's export format ([{"name": ..., "type": ..., "mode": ...,
// "fields": [...]}, ...]).
func Load(path string) (*Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema file: %w", err)
	}
	return Parse(data)
}

// Parse builds a descriptor from raw schema JSON.
func Parse(data []byte) (*Descriptor, error) {
	var fields []Field
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("parse schema: %w", err)
	}
	return NewDescriptor(fields), nil
}
