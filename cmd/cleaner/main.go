// Package main provides the CDR cleaner command-line tool. It rebuilds
// every JSON file under an input directory into a sanitized copy under
// an output directory, preserving relative paths.
package main

import (
	"flag"
	"fmt"
	"os"

	"cdrgate/internal/cleaner"
	"cdrgate/internal/config"
	"cdrgate/internal/logger"
	"cdrgate/internal/report"
)

func main() {
	os.Exit(run())
}

func run() int {
	configFile := flag.String("config", "", "Path to YAML configuration file (optional)")
	logLevel := flag.String("log-level", "", "Override logging level (debug, info, warn, error)")

	flag.Usage = printUsage
	flag.Parse()

	if flag.NArg() != 2 {
		printUsage()

		return 1
	}

	inputDir := flag.Arg(0)
	outputDir := flag.Arg(1)

	cfg := config.Default()

	if *configFile != "" {
		loaded, err := config.LoadConfig(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)

			return 1
		}

		cfg = loaded
	}

	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format, os.Stderr)

	if _, err := os.Stat(inputDir); err != nil {
		log.Error("input directory does not exist", "dir", inputDir)

		return 1
	}

	fmt.Println("CDR Cleaner")
	fmt.Printf("  Input:  %s\n", inputDir)
	fmt.Printf("  Output: %s\n", outputDir)

	proc := cleaner.NewProcessorWithCap(log, cfg.MaxFileSizeBytes())

	results, err := proc.ProcessDir(inputDir, outputDir)
	if err != nil {
		log.Error("batch run failed", "error", err)

		return 1
	}

	if cfg.Report.ShowTable && len(results.Files) > 0 {
		fmt.Println()
		report.WriteTable(os.Stdout, cleanerRows(results))
	}

	report.WriteSummary(os.Stdout, "cleaned", results.Passed, results.Failed)

	if results.Failed > 0 {
		return 1
	}

	return 0
}

func cleanerRows(results cleaner.Results) []report.Row {
	rows := make([]report.Row, 0, len(results.Files))

	for _, f := range results.Files {
		row := report.Row{File: f.Input, Status: report.StatusCleaned}
		if f.Err != nil {
			row.Status = report.StatusFailed
			row.Detail = f.Err.Error()
		}

		rows = append(rows, row)
	}

	return rows
}

func printUsage() {
	fmt.Println("Usage: cleaner [options] <input_dir> <output_dir>")
	fmt.Println()
	fmt.Println("Rebuilds every JSON file under <input_dir> into a sanitized")
	fmt.Println("copy under <output_dir>. Exit code is non-zero if any file")
	fmt.Println("failed to clean.")
	fmt.Println()
	fmt.Println("Options:")
	flag.PrintDefaults()
}
