package ports

import "github.com/TilepMony-Project/flowcore/pkg/domain"

// ChainRegistry resolves blockchain networks for the compile pipeline: the
// source chain seeds chain context, the destination chain applies after the
// bridge boundary.
type ChainRegistry interface {
	// Resolve returns the chain for an id, or false for unknown networks.
	Resolve(chainID int64) (domain.Chain, bool)

	// Source returns the default source network.
	Source() domain.Chain

	// Destination returns the default destination network.
	Destination() domain.Chain
}
