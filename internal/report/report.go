// Package report writes extraction results as JSON documents.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Write marshals doc as a two-space-indented UTF-8 JSON document at path,
// creating parent directories as needed. The document is written once;
// there is no append mode.
func Write(path string, doc any) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("report: create directory %s: %w", dir, err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("report: create %s: %w", path, err)
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		f.Close()
		return fmt.Errorf("report: encode %s: %w", path, err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("report: close %s: %w", path, err)
	}
	return nil
}
