// Package flowcore compiles cross-chain stablecoin payment workflows into
// executable on-chain action sequences and simulates them against the
// payment controller contract.
//
// The high-level Engine wires the pure pipeline (normalize -> propagate ->
// compile) to a chain registry and a simulation gateway. Execution run
// tracking lives in pkg/execution and is driven separately by workers.
package flowcore

import (
	"context"

	"log/slog"

	"github.com/TilepMony-Project/flowcore/internal/logging"
	"github.com/TilepMony-Project/flowcore/pkg/compiler"
	"github.com/TilepMony-Project/flowcore/pkg/domain"
	"github.com/TilepMony-Project/flowcore/pkg/graph"
	"github.com/TilepMony-Project/flowcore/pkg/ports"
	"github.com/TilepMony-Project/flowcore/pkg/registry"
)

// Engine is the high-level entry point for the flowcore library.
type Engine struct {
	chains    ports.ChainRegistry
	simulator ports.Simulator
	registry  *compiler.Registry
	logger    *slog.Logger
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithChainRegistry injects a custom chain registry (default: built-in
// testnet route).
func WithChainRegistry(chains ports.ChainRegistry) Option {
	return func(e *Engine) { e.chains = chains }
}

// WithSimulator injects the simulation gateway. Without one, Simulate
// reports the missing gateway as a failed (not errored) simulation.
func WithSimulator(sim ports.Simulator) Option {
	return func(e *Engine) { e.simulator = sim }
}

// WithCompilerRegistry overrides the node capability set.
func WithCompilerRegistry(r *compiler.Registry) Option {
	return func(e *Engine) { e.registry = r }
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// New initializes a new flowcore Engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		chains:   registry.NewChains(),
		registry: compiler.DefaultRegistry(),
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Compile runs the full pipeline over a workflow graph snapshot: topological
// normalization, chain context propagation, then action compilation.
//
// Graph malformations (cycles, dangling edges) degrade gracefully inside the
// pipeline; validation and unknown-kind problems return a structured
// *domain.ValidationError / *domain.CompileError with no partial output.
func (e *Engine) Compile(g domain.WorkflowGraph, walletAddress string) (*domain.CompileResult, error) {
	ordered := graph.Normalize(g)
	annotated := graph.Propagate(ordered, e.chains.Source(), e.chains.Destination())
	return compiler.Compile(annotated, g.Edges, compiler.Options{
		WalletAddress:      walletAddress,
		DestinationChainID: e.chains.Destination().ID,
		Registry:           e.registry,
	})
}

// Simulate compiles the graph and issues one read-only dry run against the
// controller. Compilation problems are returned as errors (client-side,
// fail-fast); chain-level reverts and RPC trouble are folded into the result.
func (e *Engine) Simulate(ctx context.Context, g domain.WorkflowGraph, callerAddress string) (*domain.SimulationResult, error) {
	compiled, err := e.Compile(g, callerAddress)
	if err != nil {
		return nil, err
	}

	if e.simulator == nil {
		return &domain.SimulationResult{
			ActionCount:  len(compiled.Actions),
			RevertReason: "no simulation gateway configured",
		}, nil
	}

	result := e.simulator.Simulate(ctx, compiled.Actions, compiled.InitialToken, compiled.InitialAmount, callerAddress)
	if !result.Success {
		e.logger.Debug("simulation unsuccessful", "reason", result.RevertReason, "actions", result.ActionCount)
	}
	return &result, nil
}

// Chains exposes the engine's chain registry.
func (e *Engine) Chains() ports.ChainRegistry { return e.chains }
