// Package cleaner drives content disarm and reconstruction across
// files and directory trees, mirroring the input layout under a clean
// output root and tallying per-file outcomes.
package cleaner

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"cdrgate/internal/logger"
	"cdrgate/internal/reconstruct"
	"cdrgate/pkg/jsonio"
)

// FileResult records the outcome of cleaning one file.
type FileResult struct {
	Input  string
	Output string
	Err    error
}

// Results is the pass/fail tally for a batch run.
type Results struct {
	Files  []FileResult
	Passed int
	Failed int
}

// Processor applies the reconstructors to files on disk.
type Processor struct {
	maxFileSize int64
	log         *logger.Logger
}

// NewProcessor creates a processor with the default file-size cap.
func NewProcessor(log *logger.Logger) *Processor {
	return &Processor{
		maxFileSize: jsonio.MaxFileSize,
		log:         log,
	}
}

// NewProcessorWithCap creates a processor with a custom per-file byte
// cap.
func NewProcessorWithCap(log *logger.Logger, maxFileSize int64) *Processor {
	return &Processor{
		maxFileSize: maxFileSize,
		log:         log,
	}
}

// ProcessFile cleans a single JSON file. Bad content never fails a
// file; it is sanitized into something safe. The only failures are
// I/O-level: oversized input, unparseable JSON, or a write error.
func (p *Processor) ProcessFile(inputPath, outputPath string) error {
	raw, err := jsonio.ReadCapped(inputPath, p.maxFileSize)
	if err != nil {
		if jsonio.IsTooLarge(err) {
			return fmt.Errorf("skipping %s: %w", inputPath, err)
		}

		return fmt.Errorf("reading %s: %w", inputPath, err)
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("invalid JSON in %s: %w", inputPath, err)
	}

	clean := reconstruct.Envelope(doc)

	if err := jsonio.WritePretty(outputPath, clean); err != nil {
		return err
	}

	return nil
}

// ProcessDir cleans every JSON file under inputRoot, writing each
// result to the same relative path under outputRoot. Files are
// processed independently: one failure is tallied and the batch moves
// on.
func (p *Processor) ProcessDir(inputRoot, outputRoot string) (Results, error) {
	var results Results

	walkErr := filepath.WalkDir(inputRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".json") {
			return nil
		}

		relative, err := filepath.Rel(inputRoot, path)
		if err != nil {
			return err
		}

		outputPath := filepath.Join(outputRoot, relative)

		procErr := p.ProcessFile(path, outputPath)
		if procErr != nil {
			p.log.Error("clean failed", "file", relative, "error", procErr)

			results.Failed++
		} else {
			p.log.Info("cleaned", "file", relative)

			results.Passed++
		}

		results.Files = append(results.Files, FileResult{
			Input:  path,
			Output: outputPath,
			Err:    procErr,
		})

		return nil
	})
	if walkErr != nil {
		return results, fmt.Errorf("walking %s: %w", inputRoot, walkErr)
	}

	if len(results.Files) == 0 {
		p.log.Warn("no JSON files found", "dir", inputRoot)
	}

	return results, nil
}
