package memory

import (
	"context"
	"sync"

	"github.com/TilepMony-Project/flowcore/pkg/domain"
)

// Store implements ports.ExecutionStore and ports.WorkflowStore in memory.
// Safe for concurrent use. Useful for tests and the headless CLI, where the
// real persistence layer is out of reach.
type Store struct {
	mu         sync.RWMutex
	executions map[string]*domain.ExecutionRecord
	workflows  map[string]*domain.WorkflowGraph
	activeRuns map[string]string
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		executions: make(map[string]*domain.ExecutionRecord),
		workflows:  make(map[string]*domain.WorkflowGraph),
		activeRuns: make(map[string]string),
	}
}

// Save persists the execution record in memory.
func (s *Store) Save(ctx context.Context, record *domain.ExecutionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	// Deep copy to ensure isolation, same effect as serialization.
	s.executions[record.ID] = record.Clone()
	return nil
}

// Load retrieves an execution record.
func (s *Store) Load(ctx context.Context, executionID string) (*domain.ExecutionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.executions[executionID]
	if !ok {
		return nil, domain.ErrExecutionNotFound
	}
	// Copy on read so callers can't mutate store state through the pointer.
	return record.Clone(), nil
}

// Delete removes an execution record.
func (s *Store) Delete(ctx context.Context, executionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.executions, executionID)
	return nil
}

// List returns the known execution ids.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.executions))
	for id := range s.executions {
		ids = append(ids, id)
	}
	return ids, nil
}

// ActiveRun returns the tracked active execution id for a workflow.
func (s *Store) ActiveRun(ctx context.Context, workflowID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeRuns[workflowID], nil
}

// SetActiveRun records or clears the workflow's active run marker.
func (s *Store) SetActiveRun(ctx context.Context, workflowID, executionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if executionID == "" {
		delete(s.activeRuns, workflowID)
		return nil
	}
	s.activeRuns[workflowID] = executionID
	return nil
}

// Get returns a workflow graph snapshot.
func (s *Store) Get(ctx context.Context, workflowID string) (*domain.WorkflowGraph, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.workflows[workflowID]
	if !ok {
		return nil, domain.ErrWorkflowNotFound
	}
	snapshot := g.Clone()
	return &snapshot, nil
}

// Put stores a workflow graph snapshot.
func (s *Store) Put(ctx context.Context, workflowID string, g *domain.WorkflowGraph) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := g.Clone()
	s.workflows[workflowID] = &snapshot
	return nil
}
