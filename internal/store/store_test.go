package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/genobq/varrow/internal/convert"
)

func openInMemory(t *testing.T) *Store {
	t.Helper()
	s, err := Open("")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenClose(t *testing.T) {
	s := openInMemory(t)
	assert.NotNil(t, s.DB())
}

func TestWriteAndLookupRows(t *testing.T) {
	s := openInMemory(t)

	rows := []convert.Row{
		{
			convert.ColReferenceName:  "chr19",
			convert.ColStart:          int64(11),
			convert.ColEnd:            int64(12),
			convert.ColReferenceBases: "C",
			convert.ColAlternateBases: []interface{}{
				map[string]interface{}{convert.ColAlt: "A"},
			},
			convert.ColCalls: []interface{}{},
			"NS":             int64(3),
		},
		{
			convert.ColReferenceName:  "chr20",
			convert.ColStart:          int64(100),
			convert.ColEnd:            int64(101),
			convert.ColReferenceBases: "T",
			convert.ColAlternateBases: []interface{}{},
			convert.ColCalls:          []interface{}{},
		},
	}

	require.NoError(t, s.WriteRows(rows))

	n, err := s.RowCount()
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	got, err := s.LookupRows("chr19", 11)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "C", got[0][convert.ColReferenceBases])
	// Payload round-trips through JSON, so numbers come back as float64.
	assert.Equal(t, 3.0, got[0]["NS"])

	got, err = s.LookupRows("chr19", 99)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestWritePETAndLookup(t *testing.T) {
	s := openInMemory(t)

	rows := []convert.Row{
		{convert.ColPETPosition: int64(100), convert.ColPETSample: "s1", convert.ColPETState: "20"},
		{convert.ColPETPosition: int64(101), convert.ColPETSample: "s1", convert.ColPETState: "20"},
		{convert.ColPETPosition: int64(50), convert.ColPETSample: "s2", convert.ColPETState: convert.VariantState},
	}
	require.NoError(t, s.WritePET(rows))

	n, err := s.PETCount()
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	entries, err := s.LookupPET("s1", 100, 102)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, int64(100), entries[0].Position)
	assert.Equal(t, "20", entries[0].State)

	entries, err = s.LookupPET("s2", 0, 1000)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, convert.VariantState, entries[0].State)
}

func TestWriteEmptyBatches(t *testing.T) {
	s := openInMemory(t)
	require.NoError(t, s.WriteRows(nil))
	require.NoError(t, s.WritePET(nil))
}
