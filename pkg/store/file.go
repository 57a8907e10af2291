package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/flowboardhq/flowboard/pkg/workflow"
)

// FileStore persists workflows as JSON files in a directory, one file per
// workflow named <id>.json. This is the CLI default: documents stay
// human-readable and diffable.
type FileStore struct {
	dir string
}

// NewFileStore creates a file-backed store in the given directory.
// The directory will be created if it doesn't exist.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create %s: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

// Get retrieves a workflow by ID.
func (s *FileStore) Get(ctx context.Context, id string) (wf workflow.Workflow, err error) {
	start := time.Now()
	defer func() { observeGet(ctx, "file", id, start, err) }()

	path, err := s.path(id)
	if err != nil {
		return workflow.Workflow{}, err
	}
	wf, err = workflow.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		err = fmt.Errorf("workflow %s: %w", id, ErrNotFound)
		return workflow.Workflow{}, err
	}
	if err != nil {
		return workflow.Workflow{}, fmt.Errorf("workflow %s: %w", id, err)
	}
	return wf, nil
}

// Put creates or replaces a workflow file.
func (s *FileStore) Put(ctx context.Context, wf workflow.Workflow) (err error) {
	start := time.Now()
	var size int
	defer func() { observePut(ctx, "file", wf.ID, size, start, err) }()

	path, err := s.path(wf.ID)
	if err != nil {
		return err
	}
	data, err := workflow.Marshal(wf)
	if err != nil {
		return fmt.Errorf("workflow %s: %w", wf.ID, err)
	}
	size = len(data)

	// Write via a temp file and rename so a crash never leaves a torn
	// document behind.
	tmp := path + ".tmp"
	if err = os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err = os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename %s: %w", tmp, err)
	}
	return nil
}

// Delete removes a workflow file; absent IDs are ignored.
func (s *FileStore) Delete(ctx context.Context, id string) (err error) {
	start := time.Now()
	defer func() { observeDelete(ctx, "file", id, start, err) }()

	path, err := s.path(id)
	if err != nil {
		return err
	}
	err = os.Remove(path)
	if os.IsNotExist(err) {
		err = nil
	}
	return err
}

// List returns the IDs of all stored workflows, sorted.
func (s *FileStore) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.dir, err)
	}

	var ids []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ".json"))
	}
	sort.Strings(ids)
	return ids, nil
}

// Close does nothing for the file store.
func (s *FileStore) Close() error { return nil }

// path converts a workflow ID to its file path. IDs containing path
// separators are rejected to keep documents inside the store directory.
func (s *FileStore) path(id string) (string, error) {
	if id == "" || strings.ContainsAny(id, `/\`) || id != filepath.Base(id) {
		return "", fmt.Errorf("invalid workflow id %q", id)
	}
	return filepath.Join(s.dir, id+".json"), nil
}

// Ensure FileStore implements Store.
var _ Store = (*FileStore)(nil)
