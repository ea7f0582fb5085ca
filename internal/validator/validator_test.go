package validator

import (
	"strings"
	"testing"

	"github.com/TilepMony-Project/flowcore/pkg/domain"
)

func TestValidateGraph_CleanFlow(t *testing.T) {
	g := domain.WorkflowGraph{
		Nodes: []domain.Node{
			{ID: "trigger-1", Kind: domain.KindTrigger},
			{ID: "mint-1", Kind: domain.KindMint},
		},
		Edges: []domain.Edge{{ID: "e1", Source: "trigger-1", Target: "mint-1"}},
	}
	if err := ValidateGraph(g); err != nil {
		t.Fatalf("expected clean graph, got %v", err)
	}
}

func TestValidateGraph_DuplicateID(t *testing.T) {
	g := domain.WorkflowGraph{
		Nodes: []domain.Node{
			{ID: "mint-1", Kind: domain.KindMint},
			{ID: "mint-1", Kind: domain.KindMint},
		},
	}
	err := ValidateGraph(g)
	if err == nil || !strings.Contains(err.Error(), "duplicate node id 'mint-1'") {
		t.Fatalf("expected duplicate id problem, got %v", err)
	}
}

func TestValidateGraph_DanglingEdge(t *testing.T) {
	g := domain.WorkflowGraph{
		Nodes: []domain.Node{{ID: "mint-1", Kind: domain.KindMint}},
		Edges: []domain.Edge{{ID: "e1", Source: "mint-1", Target: "ghost"}},
	}
	err := ValidateGraph(g)
	if err == nil || !strings.Contains(err.Error(), "missing node 'ghost'") {
		t.Fatalf("expected dangling edge problem, got %v", err)
	}
}

func TestValidateGraph_UnreachableNode(t *testing.T) {
	// a -> b forms one island; c -> c is a root-less cycle.
	g := domain.WorkflowGraph{
		Nodes: []domain.Node{
			{ID: "a", Kind: domain.KindMint},
			{ID: "b", Kind: domain.KindVault},
			{ID: "c", Kind: domain.KindSwap},
		},
		Edges: []domain.Edge{
			{ID: "e1", Source: "a", Target: "b"},
			{ID: "e2", Source: "c", Target: "c"},
		},
	}
	err := ValidateGraph(g)
	if err == nil || !strings.Contains(err.Error(), "node 'c' is unreachable") {
		t.Fatalf("expected unreachable problem, got %v", err)
	}
}

func TestValidateGraph_DecisionNeedsBranches(t *testing.T) {
	g := domain.WorkflowGraph{
		Nodes: []domain.Node{
			{ID: "decide-1", Kind: domain.KindDecision},
			{ID: "vault-1", Kind: domain.KindVault},
		},
		Edges: []domain.Edge{{ID: "e1", Source: "decide-1", Target: "vault-1"}},
	}
	err := ValidateGraph(g)
	if err == nil || !strings.Contains(err.Error(), "needs at least two outgoing branches") {
		t.Fatalf("expected branch count problem, got %v", err)
	}
}
