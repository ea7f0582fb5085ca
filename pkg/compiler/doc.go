// Package compiler turns an ordered, chain-annotated node sequence into the
// action list the on-chain controller consumes.
//
// Per-kind behavior (defaults, required properties, value transformation) is
// modeled as a registry of capability records keyed by the node kind tag, not
// via inheritance. Compilation threads a running (token, amount) pair through
// the sequence and fails fast on the first invalid node, because the output
// feeds a single atomic simulate/execute call.
package compiler
