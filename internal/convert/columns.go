// Package convert implements the two core converters: variant to analytics
// rows (with size-constrained splitting and block-state emission) and
// analytics row back to variant.
package convert

// Reserved top-level row columns. These names are the single source of truth
// for both converters; every other row key is a sanitized info field name.
const (
	ColReferenceName  = "reference_name"
	ColStart          = "start"
	ColEnd            = "end"
	ColReferenceBases = "reference_bases"
	ColAlternateBases = "alternate_bases"
	ColNames          = "names"
	ColQuality        = "quality"
	ColFilter         = "filter"
	ColCalls          = "calls"
)

// Reserved column inside each alternate-bases record.
const ColAlt = "alt"

// Reserved columns inside each call record.
const (
	ColCallName     = "name"
	ColCallGenotype = "genotype"
	ColCallPhaseset = "phaseset"
)

// Block-state ("PET") row columns.
const (
	ColPETPosition = "position"
	ColPETSample   = "sample"
	ColPETState    = "state"
)

// Block-state symbols. MissingState is reserved for positions with no data;
// the generator itself never emits it.
const (
	VariantState = "v"
	StarState    = "s"
	MissingState = "n"
)

// reservedColumns indexes the reserved top-level columns for reverse
// conversion.
var reservedColumns = map[string]bool{
	ColReferenceName:  true,
	ColStart:          true,
	ColEnd:            true,
	ColReferenceBases: true,
	ColAlternateBases: true,
	ColNames:          true,
	ColQuality:        true,
	ColFilter:         true,
	ColCalls:          true,
}

// reservedCallColumns indexes the reserved call-record columns.
var reservedCallColumns = map[string]bool{
	ColCallName:     true,
	ColCallGenotype: true,
	ColCallPhaseset: true,
}
