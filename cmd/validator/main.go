// Package main provides the validation command-line tool. It inspects
// already-cleaned JSON for residual threat signatures before the data
// is allowed into the trusted store.
package main

import (
	"flag"
	"fmt"
	"os"

	"cdrgate/internal/config"
	"cdrgate/internal/report"
	"cdrgate/internal/validator"
)

func main() {
	os.Exit(run())
}

func run() int {
	configFile := flag.String("config", "", "Path to YAML configuration file (optional)")

	flag.Usage = printUsage
	flag.Parse()

	if flag.NArg() != 1 {
		printUsage()

		return 1
	}

	target := flag.Arg(0)

	cfg := config.Default()

	if *configFile != "" {
		loaded, err := config.LoadConfig(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)

			return 1
		}

		cfg = loaded
	}

	info, err := os.Stat(target)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Path does not exist: %s\n", target)

		return 1
	}

	fmt.Printf("Validating: %s\n", target)

	if !info.IsDir() {
		return validateFile(target)
	}

	return validateDir(target, cfg)
}

func validateFile(path string) int {
	warnings, err := validator.File(path)
	if err != nil {
		fmt.Printf("FAILED: %s\n", path)
		fmt.Printf("  ERROR: %v\n", err)

		return 1
	}

	fmt.Printf("PASSED: %s\n", path)

	for _, w := range warnings {
		fmt.Printf("  WARNING: %s\n", w)
	}

	return 0
}

func validateDir(dir string, cfg *config.Config) int {
	results, err := validator.Dir(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)

		return 1
	}

	for _, f := range results.Files {
		if f.Passed() {
			fmt.Printf("PASSED: %s\n", f.Path)
		} else {
			fmt.Printf("FAILED: %s\n", f.Path)
		}

		for _, w := range f.Warnings {
			fmt.Printf("  WARNING [%s]: %s\n", f.Path, w)
		}
	}

	if cfg.Report.ShowTable {
		fmt.Println()
		report.WriteTable(os.Stdout, validatorRows(results))
	}

	report.WriteSummary(os.Stdout, "passed", results.Passed, results.Failed)

	if results.Failed > 0 {
		fmt.Println()
		fmt.Println("Errors:")

		for _, f := range results.Files {
			if f.Err != nil {
				fmt.Printf("  - %s: %v\n", f.Path, f.Err)
			}
		}

		return 1
	}

	fmt.Println()
	fmt.Println("All validations passed!")

	return 0
}

func validatorRows(results validator.Results) []report.Row {
	rows := make([]report.Row, 0, len(results.Files))

	for _, f := range results.Files {
		row := report.Row{File: f.Path, Status: report.StatusPassed}
		if f.Err != nil {
			row.Status = report.StatusFailed
			row.Detail = f.Err.Error()
		}

		rows = append(rows, row)
	}

	return rows
}

func printUsage() {
	fmt.Println("Usage: validator [options] <path>")
	fmt.Println()
	fmt.Println("Validates a JSON file, or every JSON file under a directory,")
	fmt.Println("for threat signatures and structural contract violations.")
	fmt.Println("Exit code is non-zero if any validation failed.")
	fmt.Println()
	fmt.Println("Options:")
	flag.PrintDefaults()
}
