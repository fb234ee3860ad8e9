package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/genobq/varrow/internal/annotation"
)

func storedRow() Row {
	return Row{
		ColReferenceName:  "chr19",
		ColStart:          int64(11),
		ColEnd:            int64(12),
		ColReferenceBases: "C",
		ColNames:          []interface{}{"rs1", "rs2"},
		ColQuality:        2.0,
		ColFilter:         []interface{}{"PASS"},
		"NS":              int64(3),
		ColAlternateBases: []interface{}{
			map[string]interface{}{ColAlt: "A", "AF": 0.5},
			map[string]interface{}{ColAlt: "T", "AF": 0.3},
		},
		ColCalls: []interface{}{
			map[string]interface{}{
				ColCallName:     "sample1",
				ColCallGenotype: []interface{}{int64(0), int64(1)},
				ColCallPhaseset: "*",
				"GQ":            int64(20),
			},
		},
	}
}

func TestFromRow_Reserved(t *testing.T) {
	g := NewVariantGenerator(nil)

	v, err := g.FromRow(storedRow())
	require.NoError(t, err)

	assert.Equal(t, "chr19", v.ReferenceName)
	assert.Equal(t, int64(11), v.Start)
	assert.Equal(t, int64(12), v.End)
	assert.Equal(t, "C", v.ReferenceBases)
	assert.Equal(t, []string{"A", "T"}, v.AlternateBases())
	assert.Equal(t, []string{"rs1", "rs2"}, v.Names)
	require.NotNil(t, v.Quality)
	assert.Equal(t, 2.0, *v.Quality)
	assert.Equal(t, []string{"PASS"}, v.Filters)
}

func TestFromRow_InfoMerging(t *testing.T) {
	g := NewVariantGenerator(nil)

	v, err := g.FromRow(storedRow())
	require.NoError(t, err)

	// Top-level info is copied verbatim; alt info accumulates into a list.
	assert.Equal(t, int64(3), v.Info["NS"])
	assert.Equal(t, []interface{}{0.5, 0.3}, v.Info["AF"])
}

func TestFromRow_Calls(t *testing.T) {
	g := NewVariantGenerator(nil)

	v, err := g.FromRow(storedRow())
	require.NoError(t, err)

	require.Len(t, v.Calls, 1)
	call := v.Calls[0]
	assert.Equal(t, "sample1", call.Name)
	assert.Equal(t, []int{0, 1}, call.Genotype)
	assert.Equal(t, "*", call.Phaseset)
	assert.Equal(t, int64(20), call.Info["GQ"])
	assert.NotContains(t, call.Info, ColCallName)
}

func TestFromRow_AnnotationReconstruction(t *testing.T) {
	builder := annotation.NewStrBuilder(map[string][]string{
		"CSQ": {"allele", "Consequence", "IMPACT", "SYMBOL"},
	})
	g := NewVariantGenerator(builder)

	row := storedRow()
	row[ColAlternateBases] = []interface{}{
		map[string]interface{}{
			ColAlt: "A",
			"CSQ": []interface{}{
				map[string]interface{}{
					"allele":      "A",
					"Consequence": "upstream_gene_variant",
					"IMPACT":      "MODIFIER",
					"SYMBOL":      "PSMF1",
				},
				map[string]interface{}{
					"allele":      "A",
					"Consequence": "missense_variant",
				},
			},
		},
	}

	v, err := g.FromRow(row)
	require.NoError(t, err)
	assert.Equal(t, []interface{}{
		"A|upstream_gene_variant|MODIFIER|PSMF1",
		"A|missense_variant||",
	}, v.Info["CSQ"])
}

func TestFromRow_NullOrEmptyAsymmetry(t *testing.T) {
	g := NewVariantGenerator(nil)

	row := storedRow()
	row["NS"] = int64(0)        // zero is copied, not dropped
	row["DB"] = nil             // nil is dropped
	row["MQ"] = []interface{}{} // empty list is dropped
	row["DP"] = ""              // empty string is copied

	v, err := g.FromRow(row)
	require.NoError(t, err)

	assert.Equal(t, int64(0), v.Info["NS"])
	assert.NotContains(t, v.Info, "DB")
	assert.NotContains(t, v.Info, "MQ")
	assert.Equal(t, "", v.Info["DP"])
}

func TestFromRow_MissingReservedColumn(t *testing.T) {
	g := NewVariantGenerator(nil)

	row := storedRow()
	delete(row, ColReferenceName)

	_, err := g.FromRow(row)
	require.Error(t, err)
	assert.Contains(t, err.Error(), ColReferenceName)
}

func TestFromRow_JSONDecodedNumbers(t *testing.T) {
	// Rows read back from JSONL carry numbers as float64.
	g := NewVariantGenerator(nil)

	row := storedRow()
	row[ColStart] = 11.0
	row[ColEnd] = 12.0
	row[ColCalls] = []interface{}{
		map[string]interface{}{
			ColCallName:     "sample1",
			ColCallGenotype: []interface{}{0.0, 1.0},
			ColCallPhaseset: "",
		},
	}

	v, err := g.FromRow(row)
	require.NoError(t, err)
	assert.Equal(t, int64(11), v.Start)
	assert.Equal(t, []int{0, 1}, v.Calls[0].Genotype)
	assert.Equal(t, "", v.Calls[0].Phaseset)
}
