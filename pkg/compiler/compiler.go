package compiler

import (
	"github.com/TilepMony-Project/flowcore/pkg/domain"
)

// Options configures one compilation pass.
type Options struct {
	// WalletAddress is the acting wallet, exposed to branch predicates and
	// transfer defaults.
	WalletAddress string

	// DestinationChainID annotates bridge actions with the far-side network.
	DestinationChainID int64

	// Registry overrides the built-in capability set. Nil means default.
	Registry *Registry
}

// Compile walks the ordered, chain-annotated node sequence and produces the
// action list plus the initial token/amount seeded by the first
// value-producing node.
//
// Validation fails fast: the first node missing a required property aborts
// with a *domain.ValidationError and no actions are returned, because the
// output feeds a single atomic simulate/execute call. A node kind with no
// registered capability aborts with a *domain.CompileError.
func Compile(ordered []domain.Node, edges []domain.Edge, opts Options) (*domain.CompileResult, error) {
	registry := opts.Registry
	if registry == nil {
		registry = DefaultRegistry()
	}

	t := &thread{
		wallet:             opts.WalletAddress,
		destinationChainID: opts.DestinationChainID,
	}

	adjacency := buildAdjacency(ordered, edges)
	pruned := make(map[string]bool)

	actions := []domain.Action{}
	for _, node := range ordered {
		if pruned[node.ID] {
			continue
		}

		capability, ok := registry.Lookup(node.Kind)
		if !ok {
			return nil, &domain.CompileError{NodeID: node.ID, Kind: node.Kind}
		}

		switch node.Kind {
		case domain.KindDecision, domain.KindConditional:
			markPruned(node, edges, adjacency, t, pruned)
			continue
		case domain.KindDelay:
			continue
		}

		if capability.Compile == nil {
			continue
		}
		action, err := capability.Compile(t, node, capability.Defaults)
		if err != nil {
			return nil, err
		}
		if action != nil {
			actions = append(actions, *action)
		}
	}

	return &domain.CompileResult{
		Actions:       actions,
		InitialToken:  t.initialToken,
		InitialAmount: t.initialAmount,
	}, nil
}

// markPruned selects the decision node's branch and prunes every node that is
// reachable only through the branches not taken.
//
// Branch selection: outgoing edges are evaluated in authored order; the first
// edge whose condition matches the runtime context wins. A "default" labelled
// edge is the fallback when nothing matches. No match and no default makes
// the node a pass-through no-op (nothing pruned).
func markPruned(node domain.Node, edges []domain.Edge, adjacency map[string][]string, t *thread, pruned map[string]bool) {
	var branches []domain.Edge
	for _, e := range edges {
		if e.Source == node.ID {
			branches = append(branches, e)
		}
	}
	if len(branches) < 2 {
		return // nothing to choose between
	}

	ctx := evalContext{
		"walletAddress": t.wallet,
		"wallet":        t.wallet,
		"token":         t.token,
		"amount":        t.amount,
	}

	selected := -1
	fallback := -1
	for i, b := range branches {
		if b.Label == domain.LabelDefaultBranch {
			if fallback < 0 {
				fallback = i
			}
			continue
		}
		if b.Condition != "" && evalCondition(b.Condition, ctx) {
			selected = i
			break
		}
	}
	if selected < 0 {
		selected = fallback
	}
	if selected < 0 {
		return // pass-through no-op
	}

	// Keep what the selected branch reaches; drop nodes only the rejected
	// branches reach.
	kept := reachable(branches[selected].Target, adjacency)
	for i, b := range branches {
		if i == selected {
			continue
		}
		for id := range reachable(b.Target, adjacency) {
			if !kept[id] {
				pruned[id] = true
			}
		}
	}
}

func buildAdjacency(nodes []domain.Node, edges []domain.Edge) map[string][]string {
	known := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		known[n.ID] = true
	}
	adjacency := make(map[string][]string, len(nodes))
	for _, e := range edges {
		if !known[e.Source] || !known[e.Target] {
			continue
		}
		adjacency[e.Source] = append(adjacency[e.Source], e.Target)
	}
	return adjacency
}

func reachable(start string, adjacency map[string][]string) map[string]bool {
	seen := map[string]bool{}
	queue := []string{start}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if seen[id] {
			continue
		}
		seen[id] = true
		queue = append(queue, adjacency[id]...)
	}
	return seen
}
