package evm

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"log/slog"

	"github.com/TilepMony-Project/flowcore/internal/logging"
	"github.com/TilepMony-Project/flowcore/internal/xjson"
	"github.com/TilepMony-Project/flowcore/pkg/domain"
)

// DefaultSimulateSelector is the controller's simulateWorkflow entry point
// selector. The controller ABI is fixed upstream and only consumed here.
var DefaultSimulateSelector = [4]byte{0x3f, 0xa4, 0xf2, 0x45}

// Simulator implements ports.Simulator against an EVM JSON-RPC endpoint.
// Every call is read-only (eth_call + eth_estimateGas); it never mutates an
// execution record and is safe to invoke concurrently for the same workflow.
type Simulator struct {
	rpc        *rpcClient
	controller string // controller contract address
	selector   [4]byte
	logger     *slog.Logger
}

// Option configures the Simulator.
type Option func(*Simulator)

// WithSelector overrides the simulateWorkflow function selector.
func WithSelector(sel [4]byte) Option {
	return func(s *Simulator) { s.selector = sel }
}

// WithLogger configures a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Simulator) { s.logger = logger }
}

// WithTimeout sets the per-call HTTP timeout (default 15s).
func WithTimeout(d time.Duration) Option {
	return func(s *Simulator) { s.rpc.http.Timeout = d }
}

// NewSimulator creates a gateway for the controller deployed at the given
// address, reachable through rpcEndpoint.
func NewSimulator(rpcEndpoint, controllerAddress string, opts ...Option) *Simulator {
	s := &Simulator{
		rpc:        newRPCClient(rpcEndpoint, 15*time.Second),
		controller: controllerAddress,
		selector:   DefaultSimulateSelector,
		logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Simulate issues one read-only dry run of the compiled actions. Reverts and
// RPC failures are captured into the result (Success=false), never raised:
// the caller always receives a well-formed result.
func (s *Simulator) Simulate(ctx context.Context, actions []domain.Action, initialToken string, initialAmount float64, caller string) domain.SimulationResult {
	result := domain.SimulationResult{ActionCount: len(actions)}

	calldata, err := encodeSimulateCall(s.selector, actions, initialToken, initialAmount, caller)
	if err != nil {
		result.RevertReason = err.Error()
		return result
	}

	callObj := map[string]string{
		"to":   s.controller,
		"data": "0x" + hex.EncodeToString(calldata),
	}
	if caller != "" {
		callObj["from"] = caller
	}

	if _, err := s.rpc.call(ctx, "eth_call", callObj, "latest"); err != nil {
		result.RevertReason = s.revertReason(err)
		s.logger.Debug("simulation reverted",
			"controller", s.controller,
			"actions", len(actions),
			"reason", result.RevertReason,
		)
		return result
	}

	gas, err := s.estimateGas(ctx, callObj)
	if err != nil {
		// The call itself succeeded; a flaky estimate should not flip the
		// simulation to failed. Report success without a gas figure.
		s.logger.Warn("gas estimate failed after successful call", "err", err)
	}

	result.Success = true
	result.Gas = gas
	return result
}

func (s *Simulator) estimateGas(ctx context.Context, callObj map[string]string) (uint64, error) {
	raw, err := s.rpc.call(ctx, "eth_estimateGas", callObj)
	if err != nil {
		return 0, err
	}
	var quantity string
	if err := xjson.Unmarshal(raw, &quantity); err != nil {
		return 0, fmt.Errorf("decoding gas quantity: %w", err)
	}
	gas, err := strconv.ParseUint(strings.TrimPrefix(quantity, "0x"), 16, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing gas quantity %q: %w", quantity, err)
	}
	return gas, nil
}

// revertReason pulls the verbatim revert message out of an rpc error, falling
// back to the transport error text.
func (s *Simulator) revertReason(err error) string {
	var rpcErr *rpcError
	if errors.As(err, &rpcErr) {
		if data, ok := rpcErr.Data.(string); ok && strings.HasPrefix(data, "0x") {
			return decodeRevertReason(data)
		}
		return rpcErr.Message
	}
	return err.Error()
}
