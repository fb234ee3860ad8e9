package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/spf13/viper"

	"github.com/genobq/varrow/internal/annotation"
	"github.com/genobq/varrow/internal/convert"
	"github.com/genobq/varrow/internal/output"
)

func runRestore(args []string) int {
	fs := flag.NewFlagSet("restore", flag.ExitOnError)

	var (
		annotationsPath string
		outputFile      string
	)
	fs.StringVar(&annotationsPath, "annotations", viper.GetString("annotations"), "Annotation group mapping file (YAML)")
	fs.StringVar(&outputFile, "o", "", "Output file (default: stdout)")
	fs.StringVar(&outputFile, "output", "", "Output file (default: stdout)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Reconstruct variants from analytics rows (JSON lines).

Usage:
  varrow restore [options] <rows-file>

Arguments:
  <rows-file>  Input JSONL rows file (use '-' for stdin)

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  varrow restore rows.jsonl
  varrow restore --annotations csq.yaml -o variants.jsonl rows.jsonl
`)
	}

	if err := fs.Parse(args); err != nil {
		return ExitUsage
	}
	if fs.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Error: rows file argument required\n\n")
		fs.Usage()
		return ExitUsage
	}

	var builder *annotation.StrBuilder
	if annotationsPath != "" {
		mappings, err := annotation.LoadMappings(annotationsPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading annotation mappings: %v\n", err)
			return ExitError
		}
		builder = annotation.NewStrBuilder(mappings)
	}

	in := os.Stdin
	if path := fs.Arg(0); path != "-" {
		var err error
		in, err = os.Open(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return ExitError
		}
		defer in.Close()
	}

	out := os.Stdout
	if outputFile != "" {
		var err error
		out, err = os.Create(outputFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating output file: %v\n", err)
			return ExitError
		}
		defer out.Close()
	}

	gen := convert.NewVariantGenerator(builder)
	reader := output.NewRowReader(in)
	writer := output.NewVariantWriter(out)

	total := 0
	for {
		row, err := reader.Next()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return ExitError
		}
		if row == nil {
			break
		}

		v, err := gen.FromRow(row)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: restore row at line %d: %v\n", reader.Line(), err)
			return ExitError
		}
		if err := writer.Write(v); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing variant: %v\n", err)
			return ExitError
		}
		total++
	}

	if err := writer.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "Error flushing output: %v\n", err)
		return ExitError
	}

	fmt.Fprintf(os.Stderr, "Restored %d variants\n", total)
	return ExitSuccess
}
