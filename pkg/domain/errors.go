package domain

import (
	"errors"
	"fmt"
)

// ErrWorkflowNotFound is returned when a workflow ID cannot be resolved by
// the store.
var ErrWorkflowNotFound = errors.New("workflow not found")

// ErrExecutionNotFound is returned when an execution ID cannot be resolved by
// the store.
var ErrExecutionNotFound = errors.New("execution not found")

// ValidationError reports a node missing a required property for its kind.
// Compilation fails fast at the first one; no partial action list is returned.
type ValidationError struct {
	NodeID  string `json:"nodeId"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("node %s: missing %s: %s", e.NodeID, e.Field, e.Message)
}

// CompileError reports a node whose kind has no registered handler.
type CompileError struct {
	NodeID string `json:"nodeId"`
	Kind   string `json:"kind"`
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("node %s: unknown node type %q", e.NodeID, e.Kind)
}

// StateError reports an illegal execution state transition. The transition is
// rejected and the record is left untouched; a StateError indicates a caller
// bug, not a recoverable runtime condition.
type StateError struct {
	ExecutionID string          `json:"executionId"`
	From        ExecutionStatus `json:"from"`
	To          ExecutionStatus `json:"to"`
}

func (e *StateError) Error() string {
	return fmt.Sprintf("execution %s: illegal transition %s -> %s", e.ExecutionID, e.From, e.To)
}
