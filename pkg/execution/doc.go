// Package execution owns the lifecycle of workflow runs: the state machine
// over ExecutionRecord, its append-only step log and aggregates, and a
// Manager that serializes all mutations per workflow so two concurrent runs
// can never interleave log entries.
package execution
