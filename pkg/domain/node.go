package domain

// Node kind constants define the closed set of financial-operation and
// control-flow steps a workflow graph may contain.
const (
	// KindMint issues a stablecoin for a fiat currency (value producer).
	KindMint = "mint"
	// KindSwap exchanges one token for another through a swap adapter.
	KindSwap = "swap"
	// KindBridge moves value to the destination chain, flipping chain context
	// for all downstream nodes.
	KindBridge = "bridge"
	// KindVault deposits into a yield vault, receiving shares 1:1.
	KindVault = "vault"
	// KindTransfer sends the running token/amount to a new recipient.
	KindTransfer = "transfer"
	// KindDecision selects one outgoing branch based on runtime predicates.
	KindDecision = "decision"
	// KindConditional is an alias kind with decision semantics.
	KindConditional = "conditional"
	// KindDelay is a structural pause marker; emits no action.
	KindDelay = "delay"
	// KindTrigger starts a flow and may seed the initial token/amount.
	KindTrigger = "trigger"
)

// ChainType marks which side of a bridge boundary a node executes on.
type ChainType string

const (
	ChainTypeSource      ChainType = "source"
	ChainTypeDestination ChainType = "destination"
)

// RuntimeMeta is derived per node by the chain context propagator.
// It is never part of the authored graph.
type RuntimeMeta struct {
	ChainID   int64     `json:"chainId"`
	ChainName string    `json:"chainName"`
	IsBridge  bool      `json:"isBridge"`
	ChainType ChainType `json:"chainType"`
}

// Node represents one typed step in the workflow graph.
type Node struct {
	ID   string `json:"id" yaml:"id"`
	Kind string `json:"type" yaml:"type"`

	// Properties holds the kind-specific configuration (e.g. slippage for a
	// swap, currency for a mint). Decoded into typed structs by the compiler.
	Properties map[string]any `json:"properties,omitempty" yaml:"properties,omitempty"`

	// RuntimeMeta is stamped by the propagator; nil until then.
	RuntimeMeta *RuntimeMeta `json:"runtimeMeta,omitempty" yaml:"-"`
}

// Clone returns a deep copy of the node. The engine treats every graph handed
// to it as a snapshot; callers (e.g. a canvas UI) may keep mutating their own
// copy in place.
func (n Node) Clone() Node {
	c := n
	c.Properties = deepCopyMap(n.Properties)
	if n.RuntimeMeta != nil {
		meta := *n.RuntimeMeta
		c.RuntimeMeta = &meta
	}
	return c
}

// deepCopyMap copies a JSON-shaped map, recursing into nested maps and
// slices so clones never share mutable state with the original.
func deepCopyMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = deepCopyValue(v)
	}
	return out
}

func deepCopyValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return deepCopyMap(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = deepCopyValue(item)
		}
		return out
	default:
		return v
	}
}
