// Package store provides persistence backends for workflow documents.
//
// # Architecture
//
// The Store interface abstracts over four backends:
//   - Memory: in-process map, used by tests and the embedded server default
//   - File: JSON files in a directory, used by the CLI
//   - Redis: shared store for multi-process deployments
//   - Mongo: durable store with queryable documents
//
// All backends serialize workflows through pkg/workflow, so a document
// written by one backend can be read by any other. Backends are safe for
// concurrent use.
//
// # Error Handling
//
// Lookups of unknown workflows return ErrNotFound; infrastructure failures
// are wrapped with backend context. Check with errors.Is.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/flowboardhq/flowboard/pkg/observability"
	"github.com/flowboardhq/flowboard/pkg/workflow"
)

// ErrNotFound is returned when a requested workflow does not exist.
var ErrNotFound = errors.New("workflow not found")

// Store persists workflow documents keyed by workflow ID.
type Store interface {
	// Get retrieves a workflow by ID. Returns ErrNotFound when absent.
	Get(ctx context.Context, id string) (workflow.Workflow, error)

	// Put creates or replaces a workflow under its own ID.
	Put(ctx context.Context, wf workflow.Workflow) error

	// Delete removes a workflow. Deleting an absent workflow is not an error.
	Delete(ctx context.Context, id string) error

	// List returns the IDs of all stored workflows, sorted.
	List(ctx context.Context) ([]string, error)

	// Close releases backend resources.
	Close() error
}

// observeGet reports a completed read to the registered store hooks.
func observeGet(ctx context.Context, backend, id string, start time.Time, err error) {
	observability.Store().OnGet(ctx, backend, id, time.Since(start), err)
}

// observePut reports a completed write to the registered store hooks.
func observePut(ctx context.Context, backend, id string, size int, start time.Time, err error) {
	observability.Store().OnPut(ctx, backend, id, size, time.Since(start), err)
}

// observeDelete reports a completed deletion to the registered store hooks.
func observeDelete(ctx context.Context, backend, id string, start time.Time, err error) {
	observability.Store().OnDelete(ctx, backend, id, time.Since(start), err)
}
