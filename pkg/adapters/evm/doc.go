// Package evm provides the on-chain simulation gateway. It speaks plain
// JSON-RPC 2.0 to an EVM node and hand-encodes the calldata for the payment
// controller's simulateWorkflow entry point, so the module carries no
// full-node client dependency for two read-only calls.
package evm
