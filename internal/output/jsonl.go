// Package output provides JSON-lines readers and writers for converted rows
// and reconstructed variants.
package output

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/genobq/varrow/internal/convert"
	"github.com/genobq/varrow/internal/variant"
)

// RowWriter writes rows as JSON lines.
type RowWriter struct {
	w *bufio.Writer
}

// NewRowWriter creates a new JSONL row writer.
func NewRowWriter(w io.Writer) *RowWriter {
	return &RowWriter{w: bufio.NewWriter(w)}
}

// Write writes a single row as one JSON line.
func (rw *RowWriter) Write(row convert.Row) error {
	data, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("marshal row: %w", err)
	}
	if _, err := rw.w.Write(data); err != nil {
		return err
	}
	return rw.w.WriteByte('\n')
}

// Flush flushes buffered output.
func (rw *RowWriter) Flush() error {
	return rw.w.Flush()
}

// VariantWriter writes reconstructed variants as JSON lines.
type VariantWriter struct {
	w *bufio.Writer
}

// NewVariantWriter creates a new JSONL variant writer.
func NewVariantWriter(w io.Writer) *VariantWriter {
	return &VariantWriter{w: bufio.NewWriter(w)}
}

// Write writes a single variant as one JSON line.
func (vw *VariantWriter) Write(v *variant.Variant) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal variant: %w", err)
	}
	if _, err := vw.w.Write(data); err != nil {
		return err
	}
	return vw.w.WriteByte('\n')
}

// Flush flushes buffered output.
func (vw *VariantWriter) Flush() error {
	return vw.w.Flush()
}

// RowReader reads rows from a JSONL stream.
type RowReader struct {
	scanner *bufio.Scanner
	line    int
}

// NewRowReader creates a reader over JSONL row data.
func NewRowReader(r io.Reader) *RowReader {
	scanner := bufio.NewScanner(r)
	// Rows can be large; allow lines well beyond the scanner default.
	scanner.Buffer(make([]byte, 0, 1024*1024), 256*1024*1024)
	return &RowReader{scanner: scanner}
}

// Next reads the next row. Returns nil, nil at end of input.
func (rr *RowReader) Next() (convert.Row, error) {
	for rr.scanner.Scan() {
		rr.line++
		data := rr.scanner.Bytes()
		if len(data) == 0 {
			continue
		}
		var row convert.Row
		if err := json.Unmarshal(data, &row); err != nil {
			return nil, fmt.Errorf("parse row at line %d: %w", rr.line, err)
		}
		return row, nil
	}
	if err := rr.scanner.Err(); err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	return nil, nil
}

// Line returns the current line number being processed.
func (rr *RowReader) Line() int {
	return rr.line
}
