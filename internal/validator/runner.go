package validator

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"cdrgate/pkg/jsonio"
)

// FileResult records the outcome of validating one file.
type FileResult struct {
	Path     string
	Err      error
	Warnings []string
}

// Passed reports whether the file cleared every check.
func (r FileResult) Passed() bool {
	return r.Err == nil
}

// Results is the outcome of validating a file tree.
type Results struct {
	Files  []FileResult
	Passed int
	Failed int
}

// File validates a single JSON file: size cap, parse, structural
// check, then the recursive content walk. The returned warnings are
// non-fatal observations; any error fails the file.
func File(path string) ([]string, error) {
	var warnings []string

	raw, err := jsonio.ReadCapped(path, jsonio.MaxFileSize)
	if err != nil {
		if jsonio.IsTooLarge(err) {
			return warnings, newError(KindTooLong, "", "%v", err)
		}

		return warnings, fmt.Errorf("reading %s: %w", path, err)
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return warnings, newError(KindStructural, "", "invalid JSON: %v", err)
	}

	if err := CheckStructure(doc); err != nil {
		return warnings, err
	}

	if err := CheckValue(doc, ""); err != nil {
		return warnings, err
	}

	return warnings, nil
}

// Dir validates every JSON file under root. One file's failure never
// stops the run; unexpected errors are recorded against the file that
// raised them. A tree with no JSON files at all counts as a failure,
// since an automated gate with nothing to gate is itself suspect.
func Dir(root string) (Results, error) {
	var results Results

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".json") {
			return nil
		}

		warnings, vErr := File(path)
		result := FileResult{Path: path, Err: vErr, Warnings: warnings}

		if vErr != nil {
			results.Failed++
		} else {
			results.Passed++
		}

		results.Files = append(results.Files, result)

		return nil
	})
	if walkErr != nil {
		return results, fmt.Errorf("walking %s: %w", root, walkErr)
	}

	if len(results.Files) == 0 {
		return results, fmt.Errorf("no JSON files found in %s", root)
	}

	return results, nil
}
