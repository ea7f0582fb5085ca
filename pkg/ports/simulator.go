package ports

import (
	"context"

	"github.com/TilepMony-Project/flowcore/pkg/domain"
)

// Simulator issues a read-only dry run of compiled actions against the
// on-chain controller.
//
// Implementations must be idempotent and safe for concurrent use: a revert is
// returned as a structured result (Success=false), never as an error, and no
// execution record is ever touched. The error return is reserved for caller
// bugs (nil actions, canceled context) -- infrastructure trouble on the RPC
// path is also folded into the result.
type Simulator interface {
	Simulate(ctx context.Context, actions []domain.Action, initialToken string, initialAmount float64, caller string) domain.SimulationResult
}
