package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Files lays out one directory per run under the output root and writes each
// pipeline artifact as a pretty-printed JSON file. Every entity crosses this
// boundary explicitly; nothing else in the repo serializes run state.
type Files struct {
	root string
}

func NewFiles(root string) *Files {
	return &Files{root: root}
}

// RunDir creates (if needed) and returns the directory for a run.
func (f *Files) RunDir(runID string) (string, error) {
	dir := filepath.Join(f.root, runID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create run dir: %w", err)
	}
	return dir, nil
}

// WriteJSON persists one artifact under the run directory.
func (f *Files) WriteJSON(runID, name string, v interface{}) error {
	dir, err := f.RunDir(runID)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

// ReadJSON loads one artifact back; v must be a pointer.
func (f *Files) ReadJSON(runID, name string, v interface{}) error {
	path := filepath.Join(f.root, runID, name)
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return nil
}
