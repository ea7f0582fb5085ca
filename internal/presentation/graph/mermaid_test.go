package graph_test

import (
	"strings"
	"testing"

	"github.com/TilepMony-Project/flowcore/internal/presentation/graph"
	"github.com/TilepMony-Project/flowcore/pkg/domain"
)

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name     string
		g        domain.WorkflowGraph
		overlay  *graph.Overlay
		contains []string
	}{
		{
			name: "Node Shapes",
			g: domain.WorkflowGraph{Nodes: []domain.Node{
				{ID: "trigger-1", Kind: domain.KindTrigger},
				{ID: "decide-1", Kind: domain.KindDecision},
				{ID: "bridge-1", Kind: domain.KindBridge},
				{ID: "delay-1", Kind: domain.KindDelay},
				{ID: "mint-1", Kind: domain.KindMint},
			}},
			contains: []string{
				"trigger_1((\"trigger-1\"))",
				"decide_1{\"decide-1\"}",
				"bridge_1[[\"bridge-1\"]]",
				"delay_1[/\"delay-1\"/]",
				"mint_1[\"mint-1\"]",
			},
		},
		{
			name: "Conditional Edge Label",
			g: domain.WorkflowGraph{
				Nodes: []domain.Node{
					{ID: "decide-1", Kind: domain.KindDecision},
					{ID: "vault-1", Kind: domain.KindVault},
				},
				Edges: []domain.Edge{
					{ID: "e1", Source: "decide-1", Target: "vault-1", Condition: `amount >= "100"`},
				},
			},
			contains: []string{
				`decide_1 -- "amount >= '100'" --> vault_1`,
			},
		},
		{
			name: "Default Branch Dotted",
			g: domain.WorkflowGraph{
				Nodes: []domain.Node{
					{ID: "decide-1", Kind: domain.KindDecision},
					{ID: "transfer-1", Kind: domain.KindTransfer},
				},
				Edges: []domain.Edge{
					{ID: "e1", Source: "decide-1", Target: "transfer-1", Label: domain.LabelDefaultBranch},
				},
			},
			contains: []string{
				`decide_1 -. "default" .-> transfer_1`,
			},
		},
		{
			name: "Chain Context Styling",
			g: domain.WorkflowGraph{Nodes: []domain.Node{
				{ID: "mint-1", Kind: domain.KindMint, RuntimeMeta: &domain.RuntimeMeta{
					ChainName: "Mantle Sepolia", ChainType: domain.ChainTypeSource,
				}},
				{ID: "vault-1", Kind: domain.KindVault, RuntimeMeta: &domain.RuntimeMeta{
					ChainName: "Base Sepolia", ChainType: domain.ChainTypeDestination,
				}},
			}},
			contains: []string{
				"mint_1[\"mint-1 <br/> Mantle Sepolia\"]",
				"class mint_1 source;",
				"class vault_1 destination;",
			},
		},
		{
			name: "Run Overlay",
			g: domain.WorkflowGraph{Nodes: []domain.Node{
				{ID: "mint-1", Kind: domain.KindMint},
				{ID: "swap-1", Kind: domain.KindSwap},
			}},
			overlay: &graph.Overlay{CompletedNodes: []string{"mint-1", "mint-1"}, CurrentNode: "swap-1"},
			contains: []string{
				"class mint_1 completed;",
				"class swap_1 current;",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := graph.GenerateMermaid(tt.g, tt.overlay)
			for _, want := range tt.contains {
				if !strings.Contains(out, want) {
					t.Errorf("output missing %q\n%s", want, out)
				}
			}
		})
	}
}

func TestGenerateMermaid_DeduplicatesCompleted(t *testing.T) {
	g := domain.WorkflowGraph{Nodes: []domain.Node{{ID: "mint-1", Kind: domain.KindMint}}}
	out := graph.GenerateMermaid(g, &graph.Overlay{CompletedNodes: []string{"mint-1", "mint-1", "mint-1"}})
	if got := strings.Count(out, "class mint_1 completed;"); got != 1 {
		t.Errorf("expected one completed class line, got %d", got)
	}
}

func TestOverlayFromRecord(t *testing.T) {
	record := &domain.ExecutionRecord{
		CurrentNodeID: "swap-1",
		ExecutionLog: []domain.StepLogEntry{
			{NodeID: "mint-1", Status: domain.StepComplete},
			{NodeID: "swap-1", Status: domain.StepProcessing},
		},
	}
	overlay := graph.OverlayFromRecord(record)
	if overlay.CurrentNode != "swap-1" {
		t.Errorf("current = %q", overlay.CurrentNode)
	}
	if len(overlay.CompletedNodes) != 1 || overlay.CompletedNodes[0] != "mint-1" {
		t.Errorf("completed = %v", overlay.CompletedNodes)
	}
}
