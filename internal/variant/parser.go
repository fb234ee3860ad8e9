package variant

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Parser reads variants from a VCF file into the variant model.
type Parser struct {
	reader      *bufio.Reader
	file        *os.File
	gzipReader  *gzip.Reader
	lineNumber  int
	header      []string
	sampleNames []string // sample names from #CHROM header line
}

// NewParser creates a new VCF parser for the given file.
// Supports both plain VCF and gzipped VCF (.vcf.gz) files.
func NewParser(path string) (*Parser, error) {
	if path == "-" {
		return NewParserFromReader(os.Stdin)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open vcf file: %w", err)
	}

	p := &Parser{file: file}

	// Check for gzip magic bytes
	buf := make([]byte, 2)
	_, err = file.Read(buf)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("read vcf header: %w", err)
	}

	_, err = file.Seek(0, 0)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("seek vcf file: %w", err)
	}

	if buf[0] == 0x1f && buf[1] == 0x8b {
		p.gzipReader, err = gzip.NewReader(file)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("create gzip reader: %w", err)
		}
		p.reader = bufio.NewReader(p.gzipReader)
	} else {
		p.reader = bufio.NewReader(file)
	}

	if err := p.parseHeader(); err != nil {
		p.Close()
		return nil, err
	}

	return p, nil
}

// NewParserFromReader creates a parser from an io.Reader (e.g., stdin).
func NewParserFromReader(r io.Reader) (*Parser, error) {
	p := &Parser{
		reader: bufio.NewReader(r),
	}

	if err := p.parseHeader(); err != nil {
		return nil, err
	}

	return p, nil
}

// parseHeader reads and stores VCF header lines.
func (p *Parser) parseHeader() error {
	for {
		line, err := p.reader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				break
			}
			return fmt.Errorf("read header: %w", err)
		}
		p.lineNumber++

		line = strings.TrimRight(line, "\r\n")

		if strings.HasPrefix(line, "##") {
			p.header = append(p.header, line)
			continue
		}

		if strings.HasPrefix(line, "#CHROM") {
			p.header = append(p.header, line)
			// Sample names are the columns after FORMAT (index 9+)
			fields := strings.Split(line, "\t")
			if len(fields) > 9 {
				p.sampleNames = fields[9:]
			}
			return nil
		}

		return &ParseError{
			Line:    p.lineNumber,
			Message: "expected #CHROM header line",
		}
	}

	return &ParseError{
		Line:    p.lineNumber,
		Message: "no #CHROM header line found",
	}
}

// Next reads the next variant from the VCF file.
// Returns nil, nil when there are no more variants.
func (p *Parser) Next() (*Variant, error) {
	line, err := p.reader.ReadString('\n')
	if err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("read variant line: %w", err)
	}
	p.lineNumber++

	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return p.Next() // Skip empty lines
	}

	return p.parseLine(line)
}

// parseLine parses a single VCF data line into a Variant.
func (p *Parser) parseLine(line string) (*Variant, error) {
	fields := strings.Split(line, "\t")
	if len(fields) < 8 {
		return nil, &ParseError{
			Line:    p.lineNumber,
			Message: fmt.Sprintf("expected at least 8 columns, found %d", len(fields)),
		}
	}

	pos, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return nil, &ParseError{
			Line:    p.lineNumber,
			Message: fmt.Sprintf("invalid position: %s", fields[1]),
		}
	}

	v := &Variant{
		ReferenceName:  fields[0],
		Start:          pos - 1, // VCF positions are 1-based
		ReferenceBases: fields[3],
	}
	v.End = v.Start + int64(len(v.ReferenceBases))

	if fields[2] != MissingField {
		v.Names = strings.Split(fields[2], ";")
	}
	if fields[5] != MissingField {
		qual, err := strconv.ParseFloat(fields[5], 64)
		if err == nil {
			v.Quality = &qual
		}
	}
	if fields[6] != MissingField {
		v.Filters = strings.Split(fields[6], ";")
	}

	if fields[4] != MissingField {
		for _, alt := range strings.Split(fields[4], ",") {
			v.Alternates = append(v.Alternates, &AlternateAllele{
				Bases: alt,
				Info:  map[string]interface{}{},
			})
		}
	}

	v.Info = parseInfo(fields[7])
	if end, ok := v.Info["END"]; ok {
		// gVCF-style block record: END overrides the reference-length span.
		if e, ok := end.(int64); ok {
			v.End = e
		}
		delete(v.Info, "END")
	}

	if len(fields) > 9 {
		calls, err := p.parseCalls(fields[8], fields[9:])
		if err != nil {
			return nil, err
		}
		v.Calls = calls
	}

	return v, nil
}

// parseCalls decodes the FORMAT column and one sample column per sample
// into Call records.
func (p *Parser) parseCalls(format string, samples []string) ([]*Call, error) {
	keys := strings.Split(format, ":")

	calls := make([]*Call, 0, len(samples))
	for i, sample := range samples {
		name := fmt.Sprintf("sample_%d", i+1)
		if i < len(p.sampleNames) {
			name = p.sampleNames[i]
		}

		call := &Call{Name: name, Info: map[string]interface{}{}}
		values := strings.Split(sample, ":")
		phased := false
		for j, key := range keys {
			if j >= len(values) {
				break // trailing fields may be dropped per sample
			}
			value := values[j]
			switch key {
			case "GT":
				call.Genotype, phased = parseGenotype(value)
			case "PS":
				if value != MissingField {
					call.Phaseset = value
				}
			default:
				call.Info[key] = parseTypedValue(value)
			}
		}
		if phased && call.Phaseset == "" {
			call.Phaseset = DefaultPhaseset
		}
		calls = append(calls, call)
	}

	return calls, nil
}

// parseGenotype splits a GT value ("0/1", "1|0", "./.") into allele indexes,
// mapping "." to the missing sentinel. The second return reports phasing.
func parseGenotype(gt string) ([]int, bool) {
	phased := strings.ContainsRune(gt, '|')
	split := strings.FieldsFunc(gt, func(r rune) bool {
		return r == '/' || r == '|'
	})

	genotype := make([]int, 0, len(split))
	for _, allele := range split {
		if allele == MissingField || allele == "" {
			genotype = append(genotype, MissingGenotype)
			continue
		}
		n, err := strconv.Atoi(allele)
		if err != nil {
			genotype = append(genotype, MissingGenotype)
			continue
		}
		genotype = append(genotype, n)
	}
	return genotype, phased
}

// parseInfo parses the INFO field into a map with typed values.
func parseInfo(info string) map[string]interface{} {
	result := make(map[string]interface{})
	if info == MissingField {
		return result
	}

	for _, kv := range strings.Split(info, ";") {
		parts := strings.SplitN(kv, "=", 2)
		if len(parts) == 2 {
			result[parts[0]] = parseTypedValue(parts[1])
		} else {
			// Flag-type INFO field
			result[parts[0]] = true
		}
	}

	return result
}

// parseTypedValue converts a raw VCF field value into an int64, float64,
// string, or list of those (comma-separated values become lists).
func parseTypedValue(raw string) interface{} {
	if strings.Contains(raw, ",") {
		parts := strings.Split(raw, ",")
		list := make([]interface{}, len(parts))
		for i, part := range parts {
			list[i] = parseScalar(part)
		}
		return list
	}
	return parseScalar(raw)
}

func parseScalar(raw string) interface{} {
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	return raw
}

// Header returns the VCF header lines.
func (p *Parser) Header() []string {
	return p.header
}

// SampleNames returns sample names from the #CHROM header line.
// Returns nil if no sample columns are present.
func (p *Parser) SampleNames() []string {
	return p.sampleNames
}

// LineNumber returns the current line number being processed.
func (p *Parser) LineNumber() int {
	return p.lineNumber
}

// Close closes the parser and underlying file.
func (p *Parser) Close() error {
	if p.gzipReader != nil {
		p.gzipReader.Close()
	}
	if p.file != nil {
		return p.file.Close()
	}
	return nil
}

// ParseError represents an error during VCF parsing with line context.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("vcf parse error at line %d: %s", e.Line, e.Message)
}
