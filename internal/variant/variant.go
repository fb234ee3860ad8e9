// Package variant defines the in-memory variant model shared by the
// converters: a genomic variant with its alternate alleles and per-sample
// calls, plus free-form info fields.
package variant

// MissingGenotype is the sentinel genotype value for a missing allele
// (a "." entry in a VCF GT field).
const MissingGenotype = -1

// MissingField is the sentinel value for a missing info field.
const MissingField = "."

// DefaultPhaseset is the phaseset assigned to phased calls that carry
// no explicit PS value.
const DefaultPhaseset = "*"

// Variant represents a single genomic variant record.
type Variant struct {
	ReferenceName  string                 `json:"reference_name"`
	Start          int64                  `json:"start"` // 0-based, inclusive
	End            int64                  `json:"end"`   // 0-based, exclusive
	ReferenceBases string                 `json:"reference_bases"`
	Names          []string               `json:"names,omitempty"`
	Quality        *float64               `json:"quality,omitempty"`
	Filters        []string               `json:"filters,omitempty"`
	Info           map[string]interface{} `json:"info,omitempty"` // non-allele-specific info
	Alternates     []*AlternateAllele     `json:"alternates,omitempty"`
	Calls          []*Call                `json:"calls,omitempty"`
}

// AlternateAllele holds one alternate allele and its allele-specific info.
// Info keys present in AnnotationFields hold ordered lists of already-split
// annotation-component values and bypass value sanitization on conversion.
type AlternateAllele struct {
	Bases            string                 `json:"alternate_bases"`
	Info             map[string]interface{} `json:"info,omitempty"`
	AnnotationFields map[string]bool        `json:"annotation_fields,omitempty"`
}

// Call holds one sample's genotype and auxiliary info for a variant.
type Call struct {
	Name     string                 `json:"name"`
	Genotype []int                  `json:"genotype,omitempty"`
	Phaseset string                 `json:"phaseset,omitempty"` // empty means absent
	Info     map[string]interface{} `json:"info,omitempty"`
}

// IsAnnotationField reports whether the named info field holds pre-split
// annotation components for this allele.
func (a *AlternateAllele) IsAnnotationField(name string) bool {
	return a.AnnotationFields[name]
}

// GenotypeMissing reports whether the call's genotype is absent or consists
// solely of missing-allele sentinels.
func (c *Call) GenotypeMissing() bool {
	if len(c.Genotype) == 0 {
		return true
	}
	for _, g := range c.Genotype {
		if g != MissingGenotype {
			return false
		}
	}
	return true
}

// AlternateBases returns the bases of each alternate allele in order.
func (v *Variant) AlternateBases() []string {
	bases := make([]string, len(v.Alternates))
	for i, a := range v.Alternates {
		bases[i] = a.Bases
	}
	return bases
}
