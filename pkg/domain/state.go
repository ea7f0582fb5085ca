package domain

import "time"

// ExecutionStatus defines the lifecycle state of one workflow run.
type ExecutionStatus string

const (
	// StatusPendingSignature means the run exists but the first transaction
	// has not been broadcast yet.
	StatusPendingSignature ExecutionStatus = "pending_signature"
	// StatusRunning means steps are being executed.
	StatusRunning ExecutionStatus = "running"
	// StatusRunningWaiting means the run is suspended on an external event
	// (e.g. bridge finality) and will be resumed by a worker.
	StatusRunningWaiting ExecutionStatus = "running_waiting"
	// StatusFinished means every compiled action completed.
	StatusFinished ExecutionStatus = "finished"
	// StatusFailed means a step failed with no retry scheduled.
	StatusFailed ExecutionStatus = "failed"
	// StatusStopped means the user cancelled the run.
	StatusStopped ExecutionStatus = "stopped"
)

// Terminal reports whether no further transitions or log appends are allowed.
func (s ExecutionStatus) Terminal() bool {
	return s == StatusFinished || s == StatusFailed || s == StatusStopped
}

// Step log statuses.
type StepStatus string

const (
	StepPending    StepStatus = "pending"
	StepProcessing StepStatus = "processing"
	StepComplete   StepStatus = "complete"
	StepFailed     StepStatus = "failed"
)

// StepLogEntry records one attempted action. The log is append-only: retries
// of a failed step append a new entry rather than rewriting the old one.
type StepLogEntry struct {
	NodeID          string         `json:"nodeId"`
	NodeKind        string         `json:"nodeType"`
	Status          StepStatus     `json:"status"`
	Timestamp       time.Time      `json:"timestamp"`
	TransactionHash string         `json:"transactionHash,omitempty"`
	Error           string         `json:"error,omitempty"`
	Detail          map[string]any `json:"detail,omitempty"`

	// GasUsed and FiatValue feed the record aggregates on complete entries.
	GasUsed   uint64  `json:"gasUsed,omitempty"`
	FiatValue float64 `json:"fiatValue,omitempty"`
}

// ExecutionRecord tracks one run of a compiled workflow. It is mutated only
// by appending to ExecutionLog and updating status/aggregates; entries are
// never rewritten in place.
type ExecutionRecord struct {
	ID         string          `json:"id"`
	WorkflowID string          `json:"workflowId"`
	Status     ExecutionStatus `json:"status"`

	StartedAt  time.Time  `json:"startedAt"`
	FinishedAt *time.Time `json:"finishedAt,omitempty"`

	// StatusChangedAt exposes time-in-state so an external monitor can apply
	// timeout or escalation policy while the run is waiting.
	StatusChangedAt time.Time `json:"statusChangedAt"`

	// CurrentNodeID marks the step the run is on (or waiting at).
	CurrentNodeID string `json:"currentNodeId,omitempty"`

	ExecutionLog []StepLogEntry `json:"executionLog"`

	TotalGasUsed   uint64  `json:"totalGasUsed,omitempty"`
	TotalFiatValue float64 `json:"totalFiatValue,omitempty"`
	StepCount      int     `json:"stepCount,omitempty"`
	RunCount       int     `json:"runCount"`
}

// NewExecutionRecord creates a fresh run in pending_signature.
func NewExecutionRecord(id, workflowID string) *ExecutionRecord {
	now := time.Now().UTC()
	return &ExecutionRecord{
		ID:              id,
		WorkflowID:      workflowID,
		Status:          StatusPendingSignature,
		StartedAt:       now,
		StatusChangedAt: now,
		ExecutionLog:    []StepLogEntry{},
		RunCount:        1,
	}
}

// Clone deep-copies the record so stores can hand out snapshots.
func (r *ExecutionRecord) Clone() *ExecutionRecord {
	c := *r
	if r.FinishedAt != nil {
		t := *r.FinishedAt
		c.FinishedAt = &t
	}
	c.ExecutionLog = make([]StepLogEntry, len(r.ExecutionLog))
	copy(c.ExecutionLog, r.ExecutionLog)
	for i := range c.ExecutionLog {
		c.ExecutionLog[i].Detail = deepCopyMap(c.ExecutionLog[i].Detail)
	}
	return &c
}
