// Package main provides the varrow command-line tool.
package main

import (
	"flag"
	"fmt"
	"os"
)

// Exit codes
const (
	ExitSuccess = 0
	ExitError   = 1
	ExitUsage   = 2
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	var showVersion bool
	flag.BoolVar(&showVersion, "version", false, "Show version information")

	flag.Parse()

	if showVersion {
		fmt.Printf("varrow version %s (%s) built %s\n", version, commit, date)
		return ExitSuccess
	}

	args := flag.Args()
	if len(args) < 1 {
		printUsage()
		return ExitUsage
	}

	initConfig()

	switch args[0] {
	case "convert":
		return runConvert(args[1:])
	case "restore":
		return runRestore(args[1:])
	case "load":
		return runLoad(args[1:])
	case "config":
		return runConfig(args[1:])
	case "help":
		printUsage()
		return ExitSuccess
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n\n", args[0])
		printUsage()
		return ExitUsage
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `varrow - convert genomic variants to and from analytics rows

Usage:
  varrow [options] <command> [arguments]

Commands:
  convert     Convert a VCF file into analytics rows (JSON lines)
  restore     Reconstruct variants from analytics rows
  load        Convert a VCF file and load the rows into DuckDB
  config      Manage varrow configuration
  help        Show this help message

Global Options:
  --version   Show version information

Examples:
  # Convert a VCF into rows against a declared schema
  varrow convert --schema schema.json input.vcf

  # Convert into the compact per-position block-state representation
  varrow convert --schema schema.json --pet input.vcf

  # Load converted rows into a DuckDB database
  varrow load --schema schema.json --db rows.duckdb input.vcf

  # Reconstruct variants from stored rows
  varrow restore --annotations csq.yaml rows.jsonl

For more information on a command, use:
  varrow <command> --help
`)
}
