// Package ports defines the interfaces between the flowcore engine and its
// external collaborators: workflow and execution persistence, distributed
// locking, chain resolution and on-chain simulation.
//
// Adapters live in pkg/adapters; the engine only ever depends on the
// interfaces here.
package ports
