package execution

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"log/slog"

	"github.com/google/uuid"

	"github.com/TilepMony-Project/flowcore/internal/logging"
	"github.com/TilepMony-Project/flowcore/pkg/domain"
	"github.com/TilepMony-Project/flowcore/pkg/ports"
)

// ErrRunActive is returned when a workflow already has a non-terminal run.
var ErrRunActive = errors.New("workflow already has an active run")

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// StepResult carries the outcome of one executed action.
type StepResult struct {
	NodeID          string
	NodeKind        string
	TransactionHash string
	GasUsed         uint64
	FiatValue       float64
	Detail          map[string]any
}

// Manager orchestrates execution runs, ensuring all mutations for a given
// workflow are serialized. It uses reference counting to garbage collect
// unused locks, and an optional distributed locker to keep a single writer
// per workflow across replicas.
type Manager struct {
	store ports.ExecutionStore

	mu    sync.Mutex
	locks map[string]*lockEntry

	locker ports.DistributedLocker
	logger *slog.Logger
	hooks  domain.LifecycleHooks
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking per workflow id.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) { m.locker = locker }
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) { m.logger = logger }
}

// WithHooks registers lifecycle callbacks (metrics, tracing).
func WithHooks(hooks domain.LifecycleHooks) Option {
	return func(m *Manager) { m.hooks = hooks }
}

// NewManager creates a Manager persisting through the given store.
func NewManager(store ports.ExecutionStore, opts ...Option) *Manager {
	m := &Manager{
		store:  store,
		locks:  make(map[string]*lockEntry),
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Start creates a fresh run for the workflow in pending_signature. At most
// one non-terminal run may exist per workflow; the active-run marker lives in
// the store, so replicas sharing a backend enforce the same invariant.
func (m *Manager) Start(ctx context.Context, workflowID string) (*domain.ExecutionRecord, error) {
	var record *domain.ExecutionRecord
	err := m.withLock(ctx, workflowID, func(ctx context.Context) error {
		activeID, err := m.store.ActiveRun(ctx, workflowID)
		if err != nil {
			return fmt.Errorf("failed to resolve active run: %w", err)
		}
		if activeID != "" {
			existing, err := m.store.Load(ctx, activeID)
			if err == nil && !existing.Status.Terminal() {
				return fmt.Errorf("%w: execution %s is %s", ErrRunActive, activeID, existing.Status)
			}
		}

		record = domain.NewExecutionRecord(uuid.NewString(), workflowID)
		if err := m.store.Save(ctx, record); err != nil {
			return fmt.Errorf("failed to persist new run: %w", err)
		}
		if err := m.store.SetActiveRun(ctx, workflowID, record.ID); err != nil {
			return fmt.Errorf("failed to track active run: %w", err)
		}
		m.emitStatus(ctx, record, "", record.Status)
		return nil
	})
	return record, err
}

// Get loads a run snapshot by execution id.
func (m *Manager) Get(ctx context.Context, executionID string) (*domain.ExecutionRecord, error) {
	return m.store.Load(ctx, executionID)
}

// BeginStep appends a processing entry for the node and, on the very first
// step, moves the run from pending_signature to running (the first action's
// transaction has been broadcast).
func (m *Manager) BeginStep(ctx context.Context, executionID, nodeID, nodeKind string) error {
	return m.update(ctx, executionID, func(ctx context.Context, record *domain.ExecutionRecord) error {
		if record.Status == domain.StatusPendingSignature {
			if err := m.transition(ctx, record, domain.StatusRunning); err != nil {
				return err
			}
		}
		return m.appendStep(ctx, record, domain.StepLogEntry{
			NodeID:   nodeID,
			NodeKind: nodeKind,
			Status:   domain.StepProcessing,
		})
	})
}

// CompleteStep appends a complete entry and updates the aggregates.
func (m *Manager) CompleteStep(ctx context.Context, executionID string, result StepResult) error {
	return m.update(ctx, executionID, func(ctx context.Context, record *domain.ExecutionRecord) error {
		return m.appendStep(ctx, record, domain.StepLogEntry{
			NodeID:          result.NodeID,
			NodeKind:        result.NodeKind,
			Status:          domain.StepComplete,
			TransactionHash: result.TransactionHash,
			GasUsed:         result.GasUsed,
			FiatValue:       result.FiatValue,
			Detail:          result.Detail,
		})
	})
}

// FailStep appends a failed entry. When no further retry is scheduled the run
// transitions to failed (terminal); otherwise it stays running and a retry
// will append a fresh entry, keeping the full audit trail.
func (m *Manager) FailStep(ctx context.Context, executionID, nodeID, nodeKind, cause string, retryScheduled bool) error {
	return m.update(ctx, executionID, func(ctx context.Context, record *domain.ExecutionRecord) error {
		if err := m.appendStep(ctx, record, domain.StepLogEntry{
			NodeID:   nodeID,
			NodeKind: nodeKind,
			Status:   domain.StepFailed,
			Error:    cause,
		}); err != nil {
			return err
		}
		if retryScheduled {
			return nil
		}
		return m.transition(ctx, record, domain.StatusFailed)
	})
}

// Await suspends the run on an external event (e.g. bridge finality). The
// suspension blocks no thread: the record is persisted and resumed later by a
// worker observing the chain. CurrentNodeID marks the waiting step.
func (m *Manager) Await(ctx context.Context, executionID, nodeID string) error {
	return m.update(ctx, executionID, func(ctx context.Context, record *domain.ExecutionRecord) error {
		if err := m.transition(ctx, record, domain.StatusRunningWaiting); err != nil {
			return err
		}
		record.CurrentNodeID = nodeID
		return nil
	})
}

// Resume moves a waiting run back to running when the awaited confirmation
// arrives. Confirmations landing after the run was stopped are stale and are
// dropped without touching the record.
func (m *Manager) Resume(ctx context.Context, executionID string) error {
	return m.update(ctx, executionID, func(ctx context.Context, record *domain.ExecutionRecord) error {
		if record.Status == domain.StatusStopped {
			m.logger.Warn("dropping stale confirmation for stopped run",
				"execution_id", executionID,
				"node_id", record.CurrentNodeID,
			)
			return nil
		}
		return m.transition(ctx, record, domain.StatusRunning)
	})
}

// Finish marks the run finished once every compiled action has a complete
// log entry. The caller (worker) decides completeness.
func (m *Manager) Finish(ctx context.Context, executionID string) error {
	return m.update(ctx, executionID, func(ctx context.Context, record *domain.ExecutionRecord) error {
		return m.transition(ctx, record, domain.StatusFinished)
	})
}

// Stop cancels the run. Effective immediately: once recorded, no further log
// entries can be appended, and late confirmations are dropped as stale.
func (m *Manager) Stop(ctx context.Context, executionID string) error {
	return m.update(ctx, executionID, func(ctx context.Context, record *domain.ExecutionRecord) error {
		return m.transition(ctx, record, domain.StatusStopped)
	})
}

// Reattempt increments RunCount for a logical re-attempt of the whole
// workflow (the run restarts from its first action while still live).
func (m *Manager) Reattempt(ctx context.Context, executionID string) error {
	return m.update(ctx, executionID, func(ctx context.Context, record *domain.ExecutionRecord) error {
		if record.Status.Terminal() {
			return &domain.StateError{ExecutionID: record.ID, From: record.Status, To: record.Status}
		}
		record.RunCount++
		return nil
	})
}

// -- internals --

// update loads, mutates and saves a record while holding the workflow lock.
func (m *Manager) update(ctx context.Context, executionID string, fn func(context.Context, *domain.ExecutionRecord) error) error {
	record, err := m.store.Load(ctx, executionID)
	if err != nil {
		return err
	}

	return m.withLock(ctx, record.WorkflowID, func(ctx context.Context) error {
		// Reload under the lock; the pre-lock load only resolved the
		// workflow id for lock routing.
		record, err := m.store.Load(ctx, executionID)
		if err != nil {
			return err
		}
		if err := fn(ctx, record); err != nil {
			return err
		}
		if err := m.store.Save(ctx, record); err != nil {
			return fmt.Errorf("failed to persist run %s: %w", executionID, err)
		}
		if record.Status.Terminal() {
			m.untrackRun(ctx, record.WorkflowID, record.ID)
		}
		return nil
	})
}

func (m *Manager) transition(ctx context.Context, record *domain.ExecutionRecord, to domain.ExecutionStatus) error {
	from := record.Status
	if err := Transition(record, to); err != nil {
		m.logger.Error("rejected illegal transition",
			"execution_id", record.ID,
			"from", from,
			"to", to,
		)
		return err
	}
	m.emitStatus(ctx, record, from, to)
	return nil
}

func (m *Manager) appendStep(ctx context.Context, record *domain.ExecutionRecord, entry domain.StepLogEntry) error {
	if err := AppendStep(record, entry); err != nil {
		return err
	}
	if m.hooks.OnStep != nil {
		m.hooks.OnStep(ctx, &domain.StepEvent{
			EventBase: domain.EventBase{
				Timestamp:   time.Now().UTC(),
				Type:        stepEventType(entry.Status),
				ExecutionID: record.ID,
				WorkflowID:  record.WorkflowID,
			},
			NodeID:   entry.NodeID,
			NodeKind: entry.NodeKind,
			Status:   entry.Status,
		})
	}
	return nil
}

func (m *Manager) emitStatus(ctx context.Context, record *domain.ExecutionRecord, from, to domain.ExecutionStatus) {
	if m.hooks.OnStatusChange == nil {
		return
	}
	m.hooks.OnStatusChange(ctx, &domain.StatusEvent{
		EventBase: domain.EventBase{
			Timestamp:   time.Now().UTC(),
			Type:        domain.EventStatusChange,
			ExecutionID: record.ID,
			WorkflowID:  record.WorkflowID,
		},
		From: from,
		To:   to,
	})
}

func stepEventType(s domain.StepStatus) domain.EventType {
	switch s {
	case domain.StepComplete:
		return domain.EventStepComplete
	case domain.StepFailed:
		return domain.EventStepFailed
	default:
		return domain.EventStepStart
	}
}

// untrackRun clears the store's active-run marker once a run terminates, but
// only while it still points at this execution.
func (m *Manager) untrackRun(ctx context.Context, workflowID, executionID string) {
	activeID, err := m.store.ActiveRun(ctx, workflowID)
	if err != nil || activeID != executionID {
		return
	}
	if err := m.store.SetActiveRun(ctx, workflowID, ""); err != nil {
		m.logger.Warn("failed to clear active run marker",
			"workflow_id", workflowID,
			"execution_id", executionID,
			"err", err,
		)
	}
}

// acquire gets or creates a lock entry and increments its reference count.
func (m *Manager) acquire(workflowID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[workflowID]
	if !exists {
		entry = &lockEntry{}
		m.locks[workflowID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry at zero.
func (m *Manager) release(workflowID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[workflowID]
	if !exists {
		return
	}
	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, workflowID)
	}
}

// withLock executes fn while holding the per-workflow lock (and the
// distributed lock, when configured).
func (m *Manager) withLock(ctx context.Context, workflowID string, fn func(context.Context) error) error {
	entry := m.acquire(workflowID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(workflowID)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, workflowID, 30*time.Second)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"workflow_id", workflowID,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}
