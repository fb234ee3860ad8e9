package convert

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/genobq/varrow/internal/conflict"
	"github.com/genobq/varrow/internal/sanitize"
	"github.com/genobq/varrow/internal/schema"
	"github.com/genobq/varrow/internal/variant"
)

// Row-size constants. The store enforces a 100 MiB hard limit per row; the
// generator targets 90 MiB to leave room for error, since the estimate is
// based on sampling rather than exact byte size.
const (
	maxRowSizeBytes = 90 * 1024 * 1024
	// Number of calls to sample for row size estimation.
	numCallSamples = 5
	// Size estimation is expensive and unnecessary for small call lists,
	// so it only kicks in at this many calls.
	minCallsForSizeEstimation = 100
)

// Options controls a single Rows conversion.
type Options struct {
	// AllowIncompatible accepts values coerced to the declared schema
	// instead of failing on a mismatch.
	AllowIncompatible bool
	// OmitEmptyCalls drops calls whose genotype and info are all empty.
	OmitEmptyCalls bool
	// BlockState emits the compact per-position block-state ("PET")
	// representation instead of detail rows.
	BlockState bool
}

// RowGenerator converts variants into analytics rows. It is stateless across
// conversions; one generator may be shared by concurrent callers.
type RowGenerator struct {
	schema    *schema.Descriptor
	resolver  *conflict.Resolver
	sanitizer *sanitize.Sanitizer
	logger    *zap.Logger
}

// NewRowGenerator creates a row generator over the given schema descriptor,
// conflict resolver and field sanitizer.
func NewRowGenerator(desc *schema.Descriptor, resolver *conflict.Resolver, sanitizer *sanitize.Sanitizer) *RowGenerator {
	return &RowGenerator{
		schema:    desc,
		resolver:  resolver,
		sanitizer: sanitizer,
		logger:    zap.NewNop(),
	}
}

// SetLogger sets the logger for conversion diagnostics.
func (g *RowGenerator) SetLogger(l *zap.Logger) {
	g.logger = l
}

// Rows returns a lazy iterator over the rows for one variant. Rows are
// assembled on demand as the caller pulls; abandoning the iterator early
// leaks nothing.
func (g *RowGenerator) Rows(v *variant.Variant, opts Options) *RowIter {
	return &RowIter{g: g, v: v, opts: opts}
}

// RowIter is a pull-based, non-restartable sequence of rows for one variant.
type RowIter struct {
	g    *RowGenerator
	v    *variant.Variant
	opts Options

	started bool
	done    bool

	// Detail-row state.
	baseRow   Row
	callDesc  *schema.Descriptor
	callLimit int
	callIdx   int
	row       Row
	numInRow  int

	// Block-state state.
	petOffset int64
	petSpan   int64
	petSample string
	petState  string
}

// Next returns the next row, or nil, nil when the sequence is exhausted.
// Once an error is returned the iterator is done.
func (it *RowIter) Next() (Row, error) {
	if it.done {
		return nil, nil
	}
	if !it.started {
		if err := it.start(); err != nil {
			it.done = true
			return nil, err
		}
		it.started = true
	}
	if it.opts.BlockState {
		return it.nextBlockState()
	}
	row, err := it.nextDetail()
	if err != nil {
		it.done = true
		return nil, err
	}
	return row, nil
}

func (it *RowIter) start() error {
	if it.opts.BlockState {
		return it.startBlockState()
	}
	return it.startDetail()
}

func (it *RowIter) startDetail() error {
	g := it.g

	base, err := g.baseRow(it.v, it.opts.AllowIncompatible)
	if err != nil {
		return err
	}
	it.baseRow = base

	callDesc, ok := g.schema.RecordDescriptor(ColCalls)
	if !ok {
		return &MissingFieldError{Field: ColCalls}
	}
	it.callDesc = callDesc

	// Splitting is only worth considering for multi-allelic variants;
	// single-alternate variants always fit one row.
	it.callLimit = len(it.v.Calls)
	if len(it.v.Alternates) > 1 {
		limit, err := g.callLimitPerRow(it.v, callDesc)
		if err != nil {
			return err
		}
		it.callLimit = limit
	}

	if it.callLimit < len(it.v.Calls) {
		g.logger.Debug("splitting variant into multiple rows",
			zap.String("reference_name", it.v.ReferenceName),
			zap.Int64("start", it.v.Start),
			zap.Int("calls", len(it.v.Calls)),
			zap.Int("call_limit", it.callLimit))
		// Keep the base row intact so each batch starts from a fresh copy.
		it.row = it.baseRow.deepCopy()
	} else {
		it.row = it.baseRow
	}
	return nil
}

// nextDetail accumulates call records onto the current row and yields it
// whenever the per-row call limit would be exceeded. The final partial row
// is always yielded, even with zero calls.
func (it *RowIter) nextDetail() (Row, error) {
	for it.callIdx < len(it.v.Calls) {
		call := it.v.Calls[it.callIdx]
		it.callIdx++

		record, empty, err := it.g.callRecord(call, it.callDesc, it.opts.AllowIncompatible)
		if err != nil {
			return nil, err
		}
		if it.opts.OmitEmptyCalls && empty {
			continue
		}

		if it.numInRow >= it.callLimit && it.numInRow > 0 {
			full := it.row
			it.row = it.baseRow.deepCopy()
			appendCall(it.row, record)
			it.numInRow = 1
			return full, nil
		}
		appendCall(it.row, record)
		it.numInRow++
	}

	it.done = true
	return it.row, nil
}

func (it *RowIter) startBlockState() error {
	v := it.v
	if len(v.Calls) == 0 {
		return fmt.Errorf("variant %s:%d has no calls for block-state rows",
			v.ReferenceName, v.Start)
	}
	it.petSample = v.Calls[0].Name
	it.petSpan = v.End - v.Start

	switch {
	case len(v.Alternates) > 1:
		it.petState = "" // anchor first, then spanned
	case len(v.Alternates) == 1:
		gq, ok := asNumber(v.Calls[0].Info["GQ"])
		if !ok {
			return fmt.Errorf("variant %s:%d first call has no numeric GQ",
				v.ReferenceName, v.Start)
		}
		it.petState = gqBucket(gq)
	default:
		it.petSpan = 0 // reference-only record, nothing to emit
	}
	return nil
}

// nextBlockState emits one row per position in the variant's span. For
// multi-allelic variants the anchor position carries the variant state and
// every later position the spanned state; single-alternate variants carry
// the GQ bucket at every position.
func (it *RowIter) nextBlockState() (Row, error) {
	if it.petOffset >= it.petSpan {
		it.done = true
		return nil, nil
	}

	state := it.petState
	if len(it.v.Alternates) > 1 {
		if it.petOffset == 0 {
			state = VariantState
		} else {
			state = StarState
		}
	}

	row := Row{
		ColPETPosition: it.v.Start + it.petOffset,
		ColPETSample:   it.petSample,
		ColPETState:    state,
	}
	it.petOffset++
	return row, nil
}

// gqBucket maps a genotype quality to one of seven coarse confidence
// buckets via right-open intervals [0,10,20,30,40,50,60,inf).
func gqBucket(gq float64) string {
	switch {
	case gq < 10:
		return "0"
	case gq < 20:
		return "10"
	case gq < 30:
		return "20"
	case gq < 40:
		return "30"
	case gq < 50:
		return "40"
	case gq < 60:
		return "50"
	default:
		return "60"
	}
}

func appendCall(row Row, record map[string]interface{}) {
	calls, _ := row[ColCalls].([]interface{})
	row[ColCalls] = append(calls, record)
}

// baseRow assembles the reserved scalar columns, alternate-bases records and
// resolved info fields for a variant. The calls column starts empty.
func (g *RowGenerator) baseRow(v *variant.Variant, allowIncompatible bool) (Row, error) {
	row := Row{
		ColReferenceName:  v.ReferenceName,
		ColStart:          v.Start,
		ColEnd:            v.End,
		ColReferenceBases: v.ReferenceBases,
	}
	if len(v.Names) > 0 {
		row[ColNames] = g.sanitizer.Value(toAnyList(v.Names))
	}
	if v.Quality != nil {
		row[ColQuality] = *v.Quality
	}
	if len(v.Filters) > 0 {
		row[ColFilter] = g.sanitizer.Value(toAnyList(v.Filters))
	}

	alts := make([]interface{}, 0, len(v.Alternates))
	for _, alt := range v.Alternates {
		record := map[string]interface{}{ColAlt: alt.Bases}
		for key, data := range alt.Info {
			// Annotation fields hold pre-split, already schema-legal
			// component values and bypass value sanitization.
			if alt.IsAnnotationField(key) {
				record[sanitize.Name(key)] = data
			} else {
				record[sanitize.Name(key)] = g.sanitizer.Value(data)
			}
		}
		alts = append(alts, record)
	}
	row[ColAlternateBases] = alts

	for key, data := range v.Info {
		if data == nil {
			continue
		}
		name, value, err := g.fieldEntry(key, data, g.schema, allowIncompatible)
		if err != nil {
			return nil, err
		}
		row[name] = value
	}

	row[ColCalls] = []interface{}{}
	return row, nil
}

// fieldEntry resolves one info key/value pair against a schema descriptor:
// sanitize the name, require a declared simple field, sanitize the value,
// coerce it, and accept the coercion only when it changed nothing or
// allow-incompatible mode is on.
func (g *RowGenerator) fieldEntry(key string, data interface{}, desc *schema.Descriptor, allowIncompatible bool) (string, interface{}, error) {
	name := sanitize.Name(key)
	if !desc.HasSimpleField(name) {
		return "", nil, &MissingFieldError{Field: name}
	}

	sanitized := g.sanitizer.Value(data)
	field, _ := desc.FieldDescriptor(name)
	resolved, err := g.resolver.Resolve(field, sanitized)
	if err != nil {
		return "", nil, fmt.Errorf("resolve field %s: %w", name, err)
	}

	if looseEqual(resolved, sanitized) {
		return name, resolved, nil
	}
	if allowIncompatible {
		g.logger.Debug("accepted coerced value for incompatible field",
			zap.String("field", name),
			zap.Any("value", sanitized),
			zap.Any("coerced", resolved))
		return name, resolved, nil
	}
	return "", nil, &MismatchError{Field: name, Value: sanitized, Schema: field}
}

// callRecord builds the record for one call and reports whether the call is
// empty: genotype all missing and every resolved info value empty.
func (g *RowGenerator) callRecord(call *variant.Call, desc *schema.Descriptor, allowIncompatible bool) (map[string]interface{}, bool, error) {
	genotype := make([]interface{}, len(call.Genotype))
	for i, allele := range call.Genotype {
		genotype[i] = int64(allele)
	}

	record := map[string]interface{}{
		ColCallName:     g.sanitizer.Value(call.Name),
		ColCallPhaseset: call.Phaseset,
		ColCallGenotype: genotype,
	}

	empty := call.GenotypeMissing()
	for key, data := range call.Info {
		if data == nil {
			continue
		}
		name, value, err := g.fieldEntry(key, data, desc, allowIncompatible)
		if err != nil {
			return nil, false, err
		}
		record[name] = value
		empty = empty && isEmptyFieldValue(value)
	}
	return record, empty, nil
}

// callLimitPerRow estimates the maximum number of calls per row by sampling
// serialized call records. The non-call part of a row is assumed negligible
// next to the call part.
func (g *RowGenerator) callLimitPerRow(v *variant.Variant, callDesc *schema.Descriptor) (int, error) {
	numCalls := len(v.Calls)
	if numCalls < minCallsForSizeEstimation {
		return numCalls, nil
	}
	average, err := g.averageCallSize(v.Calls, callDesc)
	if err != nil {
		return 0, err
	}
	if average*numCalls <= maxRowSizeBytes {
		return numCalls, nil
	}
	return maxRowSizeBytes / average, nil
}

// averageCallSize samples calls at roughly even stride and averages their
// serialized JSON sizes.
func (g *RowGenerator) averageCallSize(calls []*variant.Call, callDesc *schema.Descriptor) (int, error) {
	stride := len(calls) / numCallSamples
	sum := 0
	sampled := 0
	for i := 0; i < len(calls); i += stride {
		record, _, err := g.callRecord(calls[i], callDesc, true)
		if err != nil {
			return 0, err
		}
		size, err := jsonSize(record)
		if err != nil {
			return 0, fmt.Errorf("serialize sampled call: %w", err)
		}
		sum += size
		sampled++
	}
	return sum / sampled, nil
}

func toAnyList(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
