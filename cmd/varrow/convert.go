package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/genobq/varrow/internal/annotation"
	"github.com/genobq/varrow/internal/conflict"
	"github.com/genobq/varrow/internal/convert"
	"github.com/genobq/varrow/internal/output"
	"github.com/genobq/varrow/internal/sanitize"
	"github.com/genobq/varrow/internal/schema"
	"github.com/genobq/varrow/internal/variant"
)

// convertFlags holds the options shared by the convert and load commands.
type convertFlags struct {
	schemaPath        string
	annotationsPath   string
	outputFile        string
	allowIncompatible bool
	omitEmptyCalls    bool
	pet               bool
	workers           int
	verbose           bool
}

func (cf *convertFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&cf.schemaPath, "schema", viper.GetString("schema"), "Store schema file (JSON field declarations)")
	fs.StringVar(&cf.schemaPath, "s", viper.GetString("schema"), "Store schema file (shorthand)")
	fs.StringVar(&cf.annotationsPath, "annotations", viper.GetString("annotations"), "Annotation group mapping file (YAML)")
	fs.BoolVar(&cf.allowIncompatible, "allow-incompatible", false, "Coerce values that mismatch the declared schema instead of failing")
	fs.BoolVar(&cf.omitEmptyCalls, "omit-empty-calls", false, "Drop calls with no genotype and no info from output rows")
	fs.BoolVar(&cf.pet, "pet", false, "Emit per-position block-state rows instead of detail rows")
	fs.IntVar(&cf.workers, "workers", 0, "Conversion workers (0 = number of CPUs)")
	fs.BoolVar(&cf.verbose, "verbose", false, "Log conversion diagnostics to stderr")
}

func runConvert(args []string) int {
	fs := flag.NewFlagSet("convert", flag.ExitOnError)

	var cf convertFlags
	cf.register(fs)
	fs.StringVar(&cf.outputFile, "o", "", "Output file (default: stdout)")
	fs.StringVar(&cf.outputFile, "output", "", "Output file (default: stdout)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Convert variants from a VCF file into analytics rows (JSON lines).

Usage:
  varrow convert [options] <input-file>

Arguments:
  <input-file>  Input VCF file (use '-' for stdin)

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  varrow convert --schema schema.json input.vcf
  varrow convert --schema schema.json --omit-empty-calls -o rows.jsonl input.vcf.gz
  varrow convert --schema schema.json --pet input.vcf
  cat input.vcf | varrow convert --schema schema.json -
`)
	}

	if err := fs.Parse(args); err != nil {
		return ExitUsage
	}
	if fs.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Error: input file argument required\n\n")
		fs.Usage()
		return ExitUsage
	}

	gen, builder, ok := buildGenerator(&cf)
	if !ok {
		return ExitError
	}

	out := os.Stdout
	if cf.outputFile != "" {
		var err error
		out, err = os.Create(cf.outputFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating output file: %v\n", err)
			return ExitError
		}
		defer out.Close()
	}
	writer := output.NewRowWriter(out)

	opts := convert.Options{
		AllowIncompatible: cf.allowIncompatible,
		OmitEmptyCalls:    cf.omitEmptyCalls,
		BlockState:        cf.pet,
	}

	total, code := convertVCF(fs.Arg(0), gen, builder, opts, cf.workers, func(row convert.Row) error {
		return writer.Write(row)
	})
	if code != ExitSuccess {
		return code
	}
	if err := writer.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "Error flushing output: %v\n", err)
		return ExitError
	}

	fmt.Fprintf(os.Stderr, "Wrote %d rows\n", total)
	return ExitSuccess
}

// convertVCF streams variants from a VCF file through the row generator,
// invoking emit for every row in input order.
func convertVCF(inputPath string, gen *convert.RowGenerator, builder *annotation.StrBuilder,
	opts convert.Options, workers int, emit func(convert.Row) error) (int, int) {

	parser, err := variant.NewParser(inputPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Hint: Check that the file path is correct\n")
		}
		return 0, ExitError
	}
	defer parser.Close()

	items := make(chan convert.WorkItem)
	results := gen.ParallelRows(items, opts, workers)

	var parseErr error
	go func() {
		defer close(items)
		seq := 0
		for {
			v, err := parser.Next()
			if err != nil {
				parseErr = err
				return
			}
			if v == nil {
				return
			}
			attachAnnotations(v, builder)
			items <- convert.WorkItem{Seq: seq, Variant: v}
			seq++
		}
	}()

	total := 0
	err = convert.OrderedCollect(results, func(r convert.WorkResult) error {
		if r.Err != nil {
			return fmt.Errorf("convert variant %s:%d: %w",
				r.Variant.ReferenceName, r.Variant.Start, r.Err)
		}
		for _, row := range r.Rows {
			if err := emit(row); err != nil {
				return err
			}
			total++
		}
		return nil
	})
	if err == nil {
		err = parseErr
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return total, ExitError
	}

	return total, ExitSuccess
}

// buildGenerator wires the schema descriptor, sanitizer, resolver and
// annotation mappings into a configured row generator.
func buildGenerator(cf *convertFlags) (*convert.RowGenerator, *annotation.StrBuilder, bool) {
	if cf.schemaPath == "" {
		fmt.Fprintf(os.Stderr, "Error: --schema is required\n")
		fmt.Fprintf(os.Stderr, "Hint: Set a default with: varrow config set schema <path>\n")
		return nil, nil, false
	}
	desc, err := schema.Load(cf.schemaPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading schema: %v\n", err)
		return nil, nil, false
	}

	var builder *annotation.StrBuilder
	if cf.annotationsPath != "" {
		mappings, err := annotation.LoadMappings(cf.annotationsPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading annotation mappings: %v\n", err)
			return nil, nil, false
		}
		builder = annotation.NewStrBuilder(mappings)
	}

	sanitizer := sanitize.New(int64(viper.GetInt("null_numeric_replacement")))
	gen := convert.NewRowGenerator(desc, conflict.New(), sanitizer)

	if cf.verbose {
		logger, err := zap.NewDevelopment()
		if err == nil {
			gen.SetLogger(logger)
		}
	}

	return gen, builder, true
}

// attachAnnotations moves annotation-group info fields (e.g. CSQ) from the
// variant level onto the alternate alleles they describe, splitting each
// delimited string into its named components. Records are matched to an
// alternate by their first component when it names an allele, otherwise
// attached to every alternate.
func attachAnnotations(v *variant.Variant, builder *annotation.StrBuilder) {
	if builder == nil {
		return
	}
	for key, value := range v.Info {
		if !builder.IsAnnotationGroup(key) {
			continue
		}
		strs := annotationStrings(value)
		if strs == nil {
			continue
		}
		for _, s := range strs {
			record, err := builder.Split(key, s)
			if err != nil {
				continue
			}
			allele, _ := record["allele"].(string)
			for _, alt := range v.Alternates {
				if allele != "" && allele != alt.Bases {
					continue
				}
				list, _ := alt.Info[key].([]interface{})
				alt.Info[key] = append(list, record)
				if alt.AnnotationFields == nil {
					alt.AnnotationFields = map[string]bool{}
				}
				alt.AnnotationFields[key] = true
			}
		}
		delete(v.Info, key)
	}
}

func annotationStrings(value interface{}) []string {
	switch x := value.(type) {
	case string:
		return []string{x}
	case []interface{}:
		out := make([]string, 0, len(x))
		for _, elem := range x {
			if s, ok := elem.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
