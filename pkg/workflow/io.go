package workflow

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// =============================================================================
// Workflow Serialization API
// =============================================================================

// Marshal converts a workflow to indented JSON bytes.
func Marshal(wf Workflow) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeTo(wf, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes and validates a JSON workflow.
func Unmarshal(data []byte) (Workflow, error) {
	return readFrom(bytes.NewReader(data))
}

// WriteFile writes a workflow to a JSON file.
// The file is created with 0644 permissions.
func WriteFile(wf Workflow, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return writeTo(wf, f)
}

// Write writes a workflow as JSON to an io.Writer.
// Use Marshal for in-memory serialization or WriteFile for files.
func Write(wf Workflow, w io.Writer) error {
	return writeTo(wf, w)
}

// ReadFile reads a JSON file and returns the decoded workflow.
// Returns validation errors for malformed documents.
func ReadFile(path string) (Workflow, error) {
	f, err := os.Open(path)
	if err != nil {
		return Workflow{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return readFrom(f)
}

// Read decodes a JSON workflow from an io.Reader.
// Use ReadFile for files or pass bytes.NewReader for in-memory data.
func Read(r io.Reader) (Workflow, error) {
	return readFrom(r)
}

// =============================================================================
// Internal Implementation
// =============================================================================

func writeTo(wf Workflow, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(wf); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func readFrom(r io.Reader) (Workflow, error) {
	var wf Workflow
	if err := json.NewDecoder(r).Decode(&wf); err != nil {
		return Workflow{}, fmt.Errorf("decode: %w", err)
	}
	if err := wf.Validate(); err != nil {
		return Workflow{}, err
	}
	return wf, nil
}
