package annotation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func csqBuilder() *StrBuilder {
	return NewStrBuilder(map[string][]string{
		"CSQ": {"allele", "Consequence", "IMPACT", "SYMBOL"},
	})
}

func TestIsAnnotationGroup(t *testing.T) {
	b := csqBuilder()
	assert.True(t, b.IsAnnotationGroup("CSQ"))
	assert.False(t, b.IsAnnotationGroup("AF"))

	var nilBuilder *StrBuilder
	assert.False(t, nilBuilder.IsAnnotationGroup("CSQ"))
}

func TestReconstruct(t *testing.T) {
	b := csqBuilder()

	out, err := b.Reconstruct("CSQ", []interface{}{
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
	})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"A|upstream_gene_variant|MODIFIER|PSMF1",
		"A|missense_variant||",
	}, out)
}

func TestReconstruct_UnknownGroup(t *testing.T) {
	b := csqBuilder()
	_, err := b.Reconstruct("ANN", nil)
	require.Error(t, err)
}

func TestSplitRoundTrip(t *testing.T) {
	b := csqBuilder()

	record, err := b.Split("CSQ", "A|missense_variant|MODERATE|KRAS")
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{
		"allele":      "A",
		"Consequence": "missense_variant",
		"IMPACT":      "MODERATE",
		"SYMBOL":      "KRAS",
	}, record)

	out, err := b.Reconstruct("CSQ", []interface{}{record})
	require.NoError(t, err)
	assert.Equal(t, []string{"A|missense_variant|MODERATE|KRAS"}, out)
}

func TestSplit_MissingComponents(t *testing.T) {
	b := csqBuilder()

	record, err := b.Split("CSQ", "A|missense_variant")
	require.NoError(t, err)
	assert.Equal(t, "A", record["allele"])
	assert.NotContains(t, record, "IMPACT")
}

func TestLoadMappings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "csq.yaml")
	data := "CSQ: [allele, Consequence, IMPACT, SYMBOL]\nANN: [Allele, Annotation]\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	mappings, err := LoadMappings(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"allele", "Consequence", "IMPACT", "SYMBOL"}, mappings["CSQ"])
	assert.Equal(t, []string{"Allele", "Annotation"}, mappings["ANN"])
}

func TestLoadMappings_Missing(t *testing.T) {
	_, err := LoadMappings(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
