package store

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"fmt"

	goduckdb "github.com/marcboeker/go-duckdb"

	"github.com/genobq/varrow/internal/convert"
)

// PETEntry is one block-state row: the state of one sample at one position.
type PETEntry struct {
	Position int64
	Sample   string
	State    string
}

// WriteRows batch-inserts detail rows using the Appender API. The reserved
// position columns are lifted into typed columns for querying; the full row
// is kept as a JSON payload since its info columns are schema-dependent.
func (s *Store) WriteRows(rows []convert.Row) error {
	if len(rows) == 0 {
		return nil
	}

	appender, cleanup, err := s.appender("variant_rows")
	if err != nil {
		return err
	}
	defer cleanup()

	for _, row := range rows {
		payload, err := json.Marshal(row)
		if err != nil {
			return fmt.Errorf("marshal row payload: %w", err)
		}
		referenceName, _ := row[convert.ColReferenceName].(string)
		referenceBases, _ := row[convert.ColReferenceBases].(string)
		if err := appender.AppendRow(
			referenceName,
			columnInt(row[convert.ColStart]),
			columnInt(row[convert.ColEnd]),
			referenceBases,
			string(payload),
		); err != nil {
			return fmt.Errorf("append variant row: %w", err)
		}
	}

	return appender.Flush()
}

// WritePET batch-inserts block-state rows using the Appender API.
func (s *Store) WritePET(rows []convert.Row) error {
	if len(rows) == 0 {
		return nil
	}

	appender, cleanup, err := s.appender("pet_entries")
	if err != nil {
		return err
	}
	defer cleanup()

	for _, row := range rows {
		sample, _ := row[convert.ColPETSample].(string)
		state, _ := row[convert.ColPETState].(string)
		if err := appender.AppendRow(
			columnInt(row[convert.ColPETPosition]),
			sample,
			state,
		); err != nil {
			return fmt.Errorf("append pet entry: %w", err)
		}
	}

	return appender.Flush()
}

// LookupRows returns the stored detail rows anchored at the given position.
func (s *Store) LookupRows(referenceName string, start int64) ([]convert.Row, error) {
	rows, err := s.db.Query(
		`SELECT payload FROM variant_rows WHERE reference_name=? AND start_pos=?`,
		referenceName, start)
	if err != nil {
		return nil, fmt.Errorf("query rows: %w", err)
	}
	defer rows.Close()

	var out []convert.Row
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		var row convert.Row
		if err := json.Unmarshal([]byte(payload), &row); err != nil {
			return nil, fmt.Errorf("parse row payload: %w", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return out, nil
}

// LookupPET returns the block-state entries for one sample over a position
// range [start, end), ordered by position.
func (s *Store) LookupPET(sample string, start, end int64) ([]PETEntry, error) {
	rows, err := s.db.Query(
		`SELECT position, sample, state FROM pet_entries
		 WHERE sample=? AND position >= ? AND position < ?
		 ORDER BY position`,
		sample, start, end)
	if err != nil {
		return nil, fmt.Errorf("query pet entries: %w", err)
	}
	defer rows.Close()

	var out []PETEntry
	for rows.Next() {
		var e PETEntry
		if err := rows.Scan(&e.Position, &e.Sample, &e.State); err != nil {
			return nil, fmt.Errorf("scan pet entry: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pet entries: %w", err)
	}
	return out, nil
}

// RowCount returns the number of stored detail rows.
func (s *Store) RowCount() (int64, error) {
	return s.count("variant_rows")
}

// PETCount returns the number of stored block-state entries.
func (s *Store) PETCount() (int64, error) {
	return s.count("pet_entries")
}

func (s *Store) count(table string) (int64, error) {
	var n int64
	if err := s.db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return n, nil
}

func (s *Store) appender(table string) (*goduckdb.Appender, func(), error) {
	conn, err := s.db.Conn(context.Background())
	if err != nil {
		return nil, nil, fmt.Errorf("get connection: %w", err)
	}

	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", table)
		return err
	}); err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("create appender: %w", err)
	}

	cleanup := func() {
		appender.Close()
		conn.Close()
	}
	return appender, cleanup, nil
}

// columnInt converts a dynamic row value to an int64 column value. Rows
// decoded from JSON carry numbers as float64.
func columnInt(v interface{}) int64 {
	switch x := v.(type) {
	case int64:
		return x
	case int:
		return int64(x)
	case float64:
		return int64(x)
	default:
		return 0
	}
}
