package domain

// Action kinds mirror the node kinds that emit an on-chain effect.
const (
	ActionMint     = "mint"
	ActionSwap     = "swap"
	ActionBridge   = "bridge"
	ActionVault    = "vault"
	ActionTransfer = "transfer"
)

// Action is one compiled, execution-ready instruction for the on-chain
// controller contract.
type Action struct {
	Kind string `json:"kind"`

	// Token threading. InputToken/OutputToken are required for every
	// token-moving kind; amounts are never negative.
	InputToken   string  `json:"inputToken"`
	InputAmount  float64 `json:"inputAmount"`
	OutputToken  string  `json:"outputToken"`
	OutputAmount float64 `json:"outputAmount"`

	// Provider is the adapter identifier (swap adapter, bridge provider,
	// yield model) the controller dispatches to.
	Provider string `json:"provider,omitempty"`

	// TargetChainID is the chain this action settles on.
	TargetChainID int64 `json:"targetChainId"`

	// Params carries kind-specific extras (recipient, source node id, ...).
	Params map[string]any `json:"params,omitempty"`
}

// CompileResult is the output of a successful compilation: the ordered action
// list plus the value seeded by the first value-producing node.
type CompileResult struct {
	Actions       []Action `json:"actions"`
	InitialToken  string   `json:"initialToken"`
	InitialAmount float64  `json:"initialAmount"`
}
