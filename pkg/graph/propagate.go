package graph

import "github.com/TilepMony-Project/flowcore/pkg/domain"

// Propagate stamps each node of the ordered sequence with the chain context
// it executes under. Context starts on the source chain and flips to the
// destination chain after each bridge node; the bridge node itself is stamped
// with its pre-flip (source-side) context.
//
// Propagate never mutates its input; it returns a new node slice.
func Propagate(ordered []domain.Node, source, destination domain.Chain) []domain.Node {
	current := source
	chainType := domain.ChainTypeSource

	out := make([]domain.Node, len(ordered))
	for i, n := range ordered {
		stamped := n.Clone()
		stamped.RuntimeMeta = &domain.RuntimeMeta{
			ChainID:   current.ID,
			ChainName: current.Name,
			IsBridge:  n.Kind == domain.KindBridge,
			ChainType: chainType,
		}
		out[i] = stamped

		if n.Kind == domain.KindBridge {
			current = destination
			chainType = domain.ChainTypeDestination
		}
	}
	return out
}
