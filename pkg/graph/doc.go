// Package graph implements the pure first stages of the compile pipeline:
// topological normalization of a workflow graph and chain context
// propagation across bridge boundaries.
//
// Both functions are deterministic, allocation-isolated (copy-on-read at the
// boundary) and safe to call concurrently from any number of goroutines.
package graph
