package convert

import (
	"fmt"

	"github.com/genobq/varrow/internal/annotation"
	"github.com/genobq/varrow/internal/variant"
)

// VariantGenerator converts one analytics row back into a variant,
// reconstructing packed annotation strings along the way. It is a pure
// function over well-formed rows; malformed rows surface lookup errors, with
// no separate validation layer.
type VariantGenerator struct {
	builder *annotation.StrBuilder
}

// NewVariantGenerator creates a variant generator. The builder may be nil
// when no annotation groups are configured.
func NewVariantGenerator(builder *annotation.StrBuilder) *VariantGenerator {
	return &VariantGenerator{builder: builder}
}

// FromRow converts one row back into a variant.
func (g *VariantGenerator) FromRow(row Row) (*variant.Variant, error) {
	referenceName, err := stringField(row, ColReferenceName)
	if err != nil {
		return nil, err
	}
	start, err := intField(row, ColStart)
	if err != nil {
		return nil, err
	}
	end, err := intField(row, ColEnd)
	if err != nil {
		return nil, err
	}
	referenceBases, err := stringField(row, ColReferenceBases)
	if err != nil {
		return nil, err
	}
	altRecords, err := recordListField(row, ColAlternateBases)
	if err != nil {
		return nil, err
	}

	v := &variant.Variant{
		ReferenceName:  referenceName,
		Start:          start,
		End:            end,
		ReferenceBases: referenceBases,
		Names:          stringList(row[ColNames]),
		Filters:        stringList(row[ColFilter]),
	}
	if quality, ok := asNumber(row[ColQuality]); ok {
		v.Quality = &quality
	}

	for _, record := range altRecords {
		bases, _ := record[ColAlt].(string)
		v.Alternates = append(v.Alternates, &variant.AlternateAllele{Bases: bases})
	}

	info, err := g.variantInfo(row, altRecords)
	if err != nil {
		return nil, err
	}
	v.Info = info

	calls, err := g.variantCalls(row)
	if err != nil {
		return nil, err
	}
	v.Calls = calls

	return v, nil
}

// variantInfo collects non-reserved top-level columns verbatim, then merges
// in per-alternate info: annotation groups are reconstructed back to their
// delimited-string form, everything else is appended as-is. Alt-merged
// values accumulate into lists keyed by field name.
func (g *VariantGenerator) variantInfo(row Row, altRecords []map[string]interface{}) (map[string]interface{}, error) {
	info := make(map[string]interface{})
	for key, value := range row {
		if !reservedColumns[key] && !isNullOrEmpty(value) {
			info[key] = value
		}
	}

	for _, record := range altRecords {
		for key, value := range record {
			if key == ColAlt || isNullOrEmpty(value) {
				continue
			}
			if _, ok := info[key]; !ok {
				info[key] = []interface{}{}
			}
			list, ok := info[key].([]interface{})
			if !ok {
				return nil, fmt.Errorf("info field %s holds both a top-level and per-alternate value", key)
			}
			if g.builder.IsAnnotationGroup(key) {
				records, ok := value.([]interface{})
				if !ok {
					records = []interface{}{value}
				}
				reconstructed, err := g.builder.Reconstruct(key, records)
				if err != nil {
					return nil, err
				}
				for _, s := range reconstructed {
					list = append(list, s)
				}
			} else {
				list = append(list, value)
			}
			info[key] = list
		}
	}
	return info, nil
}

// variantCalls rebuilds Call records from the calls column. Reserved record
// columns map to the call's dedicated attributes; every other non-empty
// column becomes a call info entry, copied verbatim.
func (g *VariantGenerator) variantCalls(row Row) ([]*variant.Call, error) {
	records, err := recordListField(row, ColCalls)
	if err != nil {
		return nil, err
	}

	calls := make([]*variant.Call, 0, len(records))
	for _, record := range records {
		name, ok := record[ColCallName].(string)
		if !ok {
			return nil, fmt.Errorf("call record has no %s column", ColCallName)
		}
		call := &variant.Call{
			Name:     name,
			Genotype: intList(record[ColCallGenotype]),
			Info:     make(map[string]interface{}),
		}
		if phaseset, ok := record[ColCallPhaseset].(string); ok {
			call.Phaseset = phaseset
		}
		for key, value := range record {
			if !reservedCallColumns[key] && !isNullOrEmpty(value) {
				call.Info[key] = value
			}
		}
		calls = append(calls, call)
	}
	return calls, nil
}

func stringField(row Row, key string) (string, error) {
	v, ok := row[key]
	if !ok {
		return "", fmt.Errorf("row has no %s column", key)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("row column %s is %T, not a string", key, v)
	}
	return s, nil
}

func intField(row Row, key string) (int64, error) {
	v, ok := row[key]
	if !ok {
		return 0, fmt.Errorf("row has no %s column", key)
	}
	n, ok := asNumber(v)
	if !ok {
		return 0, fmt.Errorf("row column %s is %T, not a number", key, v)
	}
	return int64(n), nil
}

func recordListField(row Row, key string) ([]map[string]interface{}, error) {
	v, ok := row[key]
	if !ok {
		return nil, fmt.Errorf("row has no %s column", key)
	}
	list, ok := v.([]interface{})
	if !ok {
		return nil, fmt.Errorf("row column %s is %T, not a list", key, v)
	}
	records := make([]map[string]interface{}, 0, len(list))
	for _, elem := range list {
		record, ok := elem.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("row column %s holds %T, not a record", key, elem)
		}
		records = append(records, record)
	}
	return records, nil
}

func stringList(v interface{}) []string {
	list, ok := v.([]interface{})
	if !ok || len(list) == 0 {
		return nil
	}
	out := make([]string, 0, len(list))
	for _, elem := range list {
		out = append(out, fmt.Sprint(elem))
	}
	return out
}

func intList(v interface{}) []int {
	list, ok := v.([]interface{})
	if !ok || len(list) == 0 {
		return nil
	}
	out := make([]int, 0, len(list))
	for _, elem := range list {
		if n, ok := asNumber(elem); ok {
			out = append(out, int(n))
		}
	}
	return out
}
