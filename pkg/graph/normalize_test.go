package graph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TilepMony-Project/flowcore/pkg/domain"
	"github.com/TilepMony-Project/flowcore/pkg/graph"
)

func node(id, kind string) domain.Node {
	return domain.Node{ID: id, Kind: kind}
}

func edge(source, target string) domain.Edge {
	return domain.Edge{ID: source + "-" + target, Source: source, Target: target}
}

func indexOf(t *testing.T, nodes []domain.Node, id string) int {
	t.Helper()
	for i, n := range nodes {
		if n.ID == id {
			return i
		}
	}
	t.Fatalf("node %s not in output", id)
	return -1
}

func TestNormalize_TopologicalOrder(t *testing.T) {
	g := domain.WorkflowGraph{
		// Authored deliberately out of order.
		Nodes: []domain.Node{
			node("vault-1", domain.KindVault),
			node("trigger-1", domain.KindTrigger),
			node("bridge-1", domain.KindBridge),
			node("mint-1", domain.KindMint),
			node("swap-1", domain.KindSwap),
		},
		Edges: []domain.Edge{
			edge("trigger-1", "mint-1"),
			edge("mint-1", "swap-1"),
			edge("swap-1", "bridge-1"),
			edge("bridge-1", "vault-1"),
		},
	}

	ordered := graph.Normalize(g)
	require.Len(t, ordered, 5)

	for _, e := range g.Edges {
		assert.Less(t, indexOf(t, ordered, e.Source), indexOf(t, ordered, e.Target),
			"edge %s must point forward", e.ID)
	}
}

func TestNormalize_StableTieBreak(t *testing.T) {
	// Three roots with no edges keep their authored order.
	g := domain.WorkflowGraph{
		Nodes: []domain.Node{node("c", domain.KindDelay), node("a", domain.KindDelay), node("b", domain.KindDelay)},
	}

	ordered := graph.Normalize(g)
	require.Len(t, ordered, 3)
	assert.Equal(t, "c", ordered[0].ID)
	assert.Equal(t, "a", ordered[1].ID)
	assert.Equal(t, "b", ordered[2].ID)
}

func TestNormalize_DanglingEdgesIgnored(t *testing.T) {
	g := domain.WorkflowGraph{
		Nodes: []domain.Node{node("a", domain.KindTrigger), node("b", domain.KindMint)},
		Edges: []domain.Edge{
			edge("a", "b"),
			edge("a", "ghost"),
			edge("phantom", "b"),
		},
	}

	ordered := graph.Normalize(g)
	require.Len(t, ordered, 2)
	assert.Equal(t, "a", ordered[0].ID)
	assert.Equal(t, "b", ordered[1].ID)
}

func TestNormalize_CycleNodesNeverLost(t *testing.T) {
	g := domain.WorkflowGraph{
		Nodes: []domain.Node{
			node("a", domain.KindTrigger),
			node("x", domain.KindSwap),
			node("y", domain.KindSwap),
			node("z", domain.KindVault),
		},
		Edges: []domain.Edge{
			edge("x", "y"),
			edge("y", "x"), // cycle
			edge("y", "z"), // z only reachable through the cycle
		},
	}

	ordered := graph.Normalize(g)
	require.Len(t, ordered, len(g.Nodes), "no node may ever be dropped")

	// Cyclic stragglers land after the ordered prefix, in authored order.
	assert.Equal(t, "a", ordered[0].ID)
	assert.Equal(t, "x", ordered[1].ID)
	assert.Equal(t, "y", ordered[2].ID)
	assert.Equal(t, "z", ordered[3].ID)
}

func TestNormalize_DoesNotMutateInput(t *testing.T) {
	g := domain.WorkflowGraph{
		Nodes: []domain.Node{
			{ID: "m", Kind: domain.KindMint, Properties: map[string]any{"currency": "USD"}},
		},
	}

	ordered := graph.Normalize(g)
	ordered[0].Properties["currency"] = "IDR"
	ordered[0].ID = "mutated"

	assert.Equal(t, "m", g.Nodes[0].ID)
	assert.Equal(t, "USD", g.Nodes[0].Properties["currency"])
}

func TestNormalize_Deterministic(t *testing.T) {
	g := domain.WorkflowGraph{
		Nodes: []domain.Node{
			node("t", domain.KindTrigger), node("m", domain.KindMint),
			node("s", domain.KindSwap), node("b", domain.KindBridge),
		},
		Edges: []domain.Edge{edge("t", "m"), edge("m", "s"), edge("s", "b")},
	}

	first := graph.Normalize(g)
	second := graph.Normalize(g)
	assert.Equal(t, first, second)
}
