// Package domain contains the core value types of the flowcore engine:
// workflow graphs of typed financial-operation nodes, compiled on-chain
// actions, chain context, and execution run records.
//
// Everything in this package is plain data. Behavior (normalization,
// compilation, execution) lives in pkg/graph, pkg/compiler and pkg/execution.
package domain
