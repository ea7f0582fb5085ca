package compiler_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TilepMony-Project/flowcore/pkg/compiler"
	"github.com/TilepMony-Project/flowcore/pkg/domain"
	"github.com/TilepMony-Project/flowcore/pkg/graph"
)

// linearGraph is the canonical five-node payment flow:
// trigger -> mint(USD 100) -> swap(2%) -> bridge -> vault.
func linearGraph() domain.WorkflowGraph {
	return domain.WorkflowGraph{
		Nodes: []domain.Node{
			{ID: "trigger-1", Kind: domain.KindTrigger},
			{ID: "mint-1", Kind: domain.KindMint, Properties: map[string]any{
				"currency": "USD", "amount": 100,
			}},
			{ID: "swap-1", Kind: domain.KindSwap, Properties: map[string]any{
				"swapAdapter": "merchant-moe", "targetToken": "IDRX", "slippageTolerance": 2,
			}},
			{ID: "bridge-1", Kind: domain.KindBridge, Properties: map[string]any{
				"bridgeProvider": "hyperlane",
			}},
			{ID: "vault-1", Kind: domain.KindVault, Properties: map[string]any{
				"yieldModel": "aave-v3",
			}},
		},
		Edges: []domain.Edge{
			{ID: "e1", Source: "trigger-1", Target: "mint-1"},
			{ID: "e2", Source: "mint-1", Target: "swap-1"},
			{ID: "e3", Source: "swap-1", Target: "bridge-1"},
			{ID: "e4", Source: "bridge-1", Target: "vault-1"},
		},
	}
}

func compileGraph(t *testing.T, g domain.WorkflowGraph, opts compiler.Options) (*domain.CompileResult, error) {
	t.Helper()
	ordered := graph.Normalize(g)
	annotated := graph.Propagate(ordered, domain.ChainMantleSepolia, domain.ChainBaseSepolia)
	return compiler.Compile(annotated, g.Edges, opts)
}

func TestCompile_LinearFlow(t *testing.T) {
	result, err := compileGraph(t, linearGraph(), compiler.Options{DestinationChainID: 84532})
	require.NoError(t, err)

	// trigger emits nothing; mint, swap, bridge, vault each emit one action.
	require.Len(t, result.Actions, 4)
	assert.Equal(t, domain.TokenUSDX, result.InitialToken)
	assert.Equal(t, 100.0, result.InitialAmount)

	kinds := make([]string, 0, len(result.Actions))
	for _, a := range result.Actions {
		kinds = append(kinds, a.Kind)
	}
	assert.Equal(t, []string{"mint", "swap", "bridge", "vault"}, kinds)
}

func TestCompile_SwapSlippage(t *testing.T) {
	result, err := compileGraph(t, linearGraph(), compiler.Options{})
	require.NoError(t, err)

	swap := result.Actions[1]
	assert.Equal(t, 100.0, swap.InputAmount)
	assert.Equal(t, 98.0, swap.OutputAmount, "100 at 2%% slippage is exactly 98")
	assert.Equal(t, "IDRX", swap.OutputToken)
	assert.Equal(t, "merchant-moe", swap.Provider)
}

func TestCompile_BridgeDeliversCanonicalStable(t *testing.T) {
	result, err := compileGraph(t, linearGraph(), compiler.Options{DestinationChainID: 84532})
	require.NoError(t, err)

	bridge := result.Actions[2]
	assert.Equal(t, domain.TokenBridgedStable, bridge.OutputToken)
	assert.Equal(t, bridge.InputAmount, bridge.OutputAmount, "bridging never changes the amount")
	// The bridge action reports its pre-flip (source) chain; the destination
	// rides along in params.
	assert.Equal(t, int64(5003), bridge.TargetChainID)
	assert.Equal(t, int64(84532), bridge.Params["destinationChainId"])
}

func TestCompile_VaultSharesOneToOne(t *testing.T) {
	for _, model := range []string{"aave-v3", "compound", "anything-goes"} {
		g := linearGraph()
		g.Nodes[4].Properties["yieldModel"] = model

		result, err := compileGraph(t, g, compiler.Options{})
		require.NoError(t, err)

		vault := result.Actions[3]
		assert.Equal(t, vault.InputAmount, vault.OutputAmount, "model %s", model)
	}
}

func TestCompile_MintCurrencySelectsToken(t *testing.T) {
	g := domain.WorkflowGraph{
		Nodes: []domain.Node{
			{ID: "mint-1", Kind: domain.KindMint, Properties: map[string]any{
				"currency": "IDR", "amount": 50,
			}},
		},
	}

	result, err := compileGraph(t, g, compiler.Options{})
	require.NoError(t, err)
	assert.Equal(t, domain.TokenIDRX, result.InitialToken)
	assert.Equal(t, domain.TokenIDRX, result.Actions[0].OutputToken)
}

func TestCompile_MissingSwapAdapter(t *testing.T) {
	g := linearGraph()
	delete(g.Nodes[2].Properties, "swapAdapter")

	result, err := compileGraph(t, g, compiler.Options{})
	require.Error(t, err)
	assert.Nil(t, result, "no partial output on validation failure")

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "swap-1", verr.NodeID)
	assert.Equal(t, "swapAdapter", verr.Field)
}

func TestCompile_MissingBridgeProvider(t *testing.T) {
	g := linearGraph()
	delete(g.Nodes[3].Properties, "bridgeProvider")

	_, err := compileGraph(t, g, compiler.Options{})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "bridge-1", verr.NodeID)
	assert.Equal(t, "bridgeProvider", verr.Field)
}

func TestCompile_UnknownKind(t *testing.T) {
	g := domain.WorkflowGraph{
		Nodes: []domain.Node{{ID: "weird-1", Kind: "teleport"}},
	}

	_, err := compileGraph(t, g, compiler.Options{})
	var cerr *domain.CompileError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "weird-1", cerr.NodeID)
	assert.Equal(t, "teleport", cerr.Kind)
}

func TestCompile_CustomRegistryDefaults(t *testing.T) {
	g := linearGraph()
	// No authored slippage: the registry's default must apply.
	delete(g.Nodes[2].Properties, "slippageTolerance")

	custom := compiler.DefaultRegistry().Clone()
	swapCap, ok := custom.Lookup(domain.KindSwap)
	require.True(t, ok)
	swapCap.Defaults = map[string]any{"slippageTolerance": 10.0}
	custom.Register(swapCap)

	result, err := compileGraph(t, g, compiler.Options{Registry: custom})
	require.NoError(t, err)
	swap := result.Actions[1]
	assert.Equal(t, 90.0, swap.OutputAmount, "custom registry default, not the built-in 0.5")

	// The shared built-in set stays untouched.
	builtin, err := compileGraph(t, g, compiler.Options{})
	require.NoError(t, err)
	assert.Equal(t, 99.5, builtin.Actions[1].OutputAmount)
}

func TestCompile_Idempotent(t *testing.T) {
	g := linearGraph()
	opts := compiler.Options{WalletAddress: "0x1111111111111111111111111111111111111111", DestinationChainID: 84532}

	first, err := compileGraph(t, g, opts)
	require.NoError(t, err)
	second, err := compileGraph(t, g, opts)
	require.NoError(t, err)

	assert.Equal(t, first, second, "pure pipeline, identical input, identical output")
}

func TestCompile_TriggerSeedsLiteralValue(t *testing.T) {
	g := domain.WorkflowGraph{
		Nodes: []domain.Node{
			{ID: "trigger-1", Kind: domain.KindTrigger, Properties: map[string]any{
				"token": "USDX", "amount": 25,
			}},
			{ID: "transfer-1", Kind: domain.KindTransfer, Properties: map[string]any{
				"recipient": "0x2222222222222222222222222222222222222222",
			}},
		},
		Edges: []domain.Edge{{ID: "e1", Source: "trigger-1", Target: "transfer-1"}},
	}

	result, err := compileGraph(t, g, compiler.Options{})
	require.NoError(t, err)
	assert.Equal(t, "USDX", result.InitialToken)
	assert.Equal(t, 25.0, result.InitialAmount)
	require.Len(t, result.Actions, 1)
	assert.Equal(t, 25.0, result.Actions[0].InputAmount)
}
