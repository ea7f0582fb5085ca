package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventRunStart     EventType = "run_start"
	EventStatusChange EventType = "status_change"
	EventStepStart    EventType = "step_start"
	EventStepComplete EventType = "step_complete"
	EventStepFailed   EventType = "step_failed"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp   time.Time `json:"timestamp"`
	Type        EventType `json:"type"`
	ExecutionID string    `json:"executionId"`
	WorkflowID  string    `json:"workflowId"`
}

// StatusEvent represents a lifecycle transition of a run.
type StatusEvent struct {
	EventBase
	From ExecutionStatus `json:"from"`
	To   ExecutionStatus `json:"to"`
}

// StepEvent represents a step log append.
type StepEvent struct {
	EventBase
	NodeID   string     `json:"nodeId"`
	NodeKind string     `json:"nodeType"`
	Status   StepStatus `json:"status"`
}

// LifecycleHooks defines callbacks for execution observability. Hooks run
// inside the per-workflow lock; keep them fast and non-blocking.
type LifecycleHooks struct {
	OnStatusChange func(context.Context, *StatusEvent)
	OnStep         func(context.Context, *StepEvent)
}
