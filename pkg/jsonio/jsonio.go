// Package jsonio provides size-capped reading and pretty-printed
// writing of JSON documents for the pipeline boundary.
package jsonio

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// MaxFileSize is the cap applied before a file is loaded. Oversized
// files are rejected without reading them into memory.
const MaxFileSize = 50 * 1024 * 1024

// ErrFileTooLarge indicates a file exceeded the size cap.
var ErrFileTooLarge = errors.New("file too large")

// ReadCapped reads a file after verifying its size is within maxBytes.
func ReadCapped(path string, maxBytes int64) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	if info.Size() > maxBytes {
		return nil, fmt.Errorf("%w: %d bytes > %d", ErrFileTooLarge, info.Size(), maxBytes)
	}

	return os.ReadFile(path)
}

// IsTooLarge reports whether err is a size-cap rejection.
func IsTooLarge(err error) bool {
	return errors.Is(err, ErrFileTooLarge)
}

// WritePretty writes a value as two-space-indented UTF-8 JSON,
// creating parent directories as needed. HTML escaping is off so
// non-ASCII and markup-significant characters are emitted literally.
func WritePretty(path string, value any) error {
	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")

	if err := enc.Encode(value); err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", path, err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	return nil
}
