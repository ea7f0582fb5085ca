package ports

import (
	"context"

	"github.com/TilepMony-Project/flowcore/pkg/domain"
)

// WorkflowStore resolves workflow graphs by id. The persistence layer owning
// the records is out of scope; the engine only reads snapshots.
type WorkflowStore interface {
	// Get returns the graph for a workflow id.
	// Returns domain.ErrWorkflowNotFound if it does not exist.
	Get(ctx context.Context, workflowID string) (*domain.WorkflowGraph, error)

	// Put stores a graph snapshot under the given id.
	Put(ctx context.Context, workflowID string, g *domain.WorkflowGraph) error
}

// ExecutionStore persists execution run records. This enables durable,
// resumable runs: a waiting run survives process restarts and is picked up
// again by the worker observing on-chain events.
type ExecutionStore interface {
	// Save persists the record under its execution id.
	Save(ctx context.Context, record *domain.ExecutionRecord) error

	// Load retrieves a record by execution id.
	// Returns domain.ErrExecutionNotFound if it does not exist.
	Load(ctx context.Context, executionID string) (*domain.ExecutionRecord, error)

	// Delete removes a record (retention policy is external).
	Delete(ctx context.Context, executionID string) error

	// List returns the known execution ids.
	List(ctx context.Context) ([]string, error)

	// ActiveRun returns the execution id of the workflow's current
	// non-terminal run, or "" when none is tracked. The marker is shared
	// across replicas through the store, so two Managers over the same
	// backend agree on which run is live.
	ActiveRun(ctx context.Context, workflowID string) (string, error)

	// SetActiveRun records executionID as the workflow's active run; an
	// empty executionID clears the marker. Callers serialize through the
	// per-workflow lock, so no compare-and-set semantics are required.
	SetActiveRun(ctx context.Context, workflowID, executionID string) error
}
