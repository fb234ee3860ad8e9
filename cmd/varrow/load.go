package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/genobq/varrow/internal/convert"
	"github.com/genobq/varrow/internal/store"
)

// loadBatchSize is the number of rows buffered before each store write.
const loadBatchSize = 1000

func runLoad(args []string) int {
	fs := flag.NewFlagSet("load", flag.ExitOnError)

	var cf convertFlags
	cf.register(fs)
	var dbPath string
	fs.StringVar(&dbPath, "db", "", "Output DuckDB database path")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Convert variants from a VCF file and load the rows into DuckDB.

Usage:
  varrow load [options] <input-file>

Arguments:
  <input-file>  Input VCF file (use '-' for stdin)

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  varrow load --schema schema.json --db rows.duckdb input.vcf
  varrow load --schema schema.json --db rows.duckdb --pet input.vcf
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
	if dbPath == "" {
		fmt.Fprintf(os.Stderr, "Error: --db is required\n\n")
		fs.Usage()
		return ExitUsage
	}

	gen, builder, ok := buildGenerator(&cf)
	if !ok {
		return ExitError
	}

	s, err := store.Open(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		return ExitError
	}
	defer s.Close()

	opts := convert.Options{
		AllowIncompatible: cf.allowIncompatible,
		OmitEmptyCalls:    cf.omitEmptyCalls,
		BlockState:        cf.pet,
	}

	write := s.WriteRows
	if cf.pet {
		write = s.WritePET
	}

	batch := make([]convert.Row, 0, loadBatchSize)
	total, code := convertVCF(fs.Arg(0), gen, builder, opts, cf.workers, func(row convert.Row) error {
		batch = append(batch, row)
		if len(batch) >= loadBatchSize {
			if err := write(batch); err != nil {
				return err
			}
			batch = batch[:0]
		}
		return nil
	})
	if code != ExitSuccess {
		return code
	}
	if err := write(batch); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing rows: %v\n", err)
		return ExitError
	}

	fmt.Fprintf(os.Stderr, "Loaded %d rows into %s\n", total, dbPath)
	return ExitSuccess
}
