package execution

import (
	"time"

	"github.com/TilepMony-Project/flowcore/pkg/domain"
)

// transitions is the only legal state table. Anything not listed here is
// rejected as a StateError and must not mutate the record.
var transitions = map[domain.ExecutionStatus][]domain.ExecutionStatus{
	domain.StatusPendingSignature: {
		domain.StatusRunning,
	},
	domain.StatusRunning: {
		domain.StatusRunningWaiting,
		domain.StatusFinished,
		domain.StatusFailed,
		domain.StatusStopped,
	},
	domain.StatusRunningWaiting: {
		domain.StatusRunning,
		domain.StatusFinished,
		domain.StatusFailed,
		domain.StatusStopped,
	},
	// finished / failed / stopped are terminal: no outgoing edges.
}

// CanTransition reports whether from -> to is in the legal table.
func CanTransition(from, to domain.ExecutionStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Transition moves the record to a new status, or rejects the request with a
// *domain.StateError leaving the record untouched.
func Transition(record *domain.ExecutionRecord, to domain.ExecutionStatus) error {
	if !CanTransition(record.Status, to) {
		return &domain.StateError{ExecutionID: record.ID, From: record.Status, To: to}
	}

	now := time.Now().UTC()
	record.Status = to
	record.StatusChangedAt = now
	if to.Terminal() {
		record.FinishedAt = &now
	}
	return nil
}

// AppendStep appends one log entry. The log is strictly append-only and
// closed once the run reaches a terminal status; aggregates are updated
// incrementally as complete entries arrive, never recomputed retroactively.
func AppendStep(record *domain.ExecutionRecord, entry domain.StepLogEntry) error {
	if record.Status.Terminal() {
		return &domain.StateError{ExecutionID: record.ID, From: record.Status, To: record.Status}
	}

	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	record.ExecutionLog = append(record.ExecutionLog, entry)
	record.CurrentNodeID = entry.NodeID

	if entry.Status == domain.StepComplete {
		record.TotalGasUsed += entry.GasUsed
		record.TotalFiatValue += entry.FiatValue
		record.StepCount++
	}
	return nil
}
