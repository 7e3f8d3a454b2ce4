// Package exporter serializes the reconciled usage table and its diagnostic
// lists to delimited files.
package exporter

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
)

// Writer writes delimited files with a fixed delimiter
type Writer struct {
	comma rune
}

// NewCSVWriter creates a writer producing comma-separated files
func NewCSVWriter() *Writer {
	return &Writer{comma: ','}
}

// NewTSVWriter creates a writer producing tab-separated files
func NewTSVWriter() *Writer {
	return &Writer{comma: '\t'}
}

// WriteFile writes headers and records to the given path, creating parent
// directories as needed. Existing files are overwritten whole; reruns are
// expected and idempotent. A nil headers slice writes no header row.
func (w *Writer) WriteFile(path string, headers []string, records [][]string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	cw := csv.NewWriter(file)
	cw.Comma = w.comma
	defer cw.Flush()

	if len(headers) > 0 {
		if err := cw.Write(headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}
	for i, record := range records {
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
