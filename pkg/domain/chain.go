package domain

// Chain identifies a blockchain network the engine can route value through.
type Chain struct {
	ID          int64  `json:"chainId" yaml:"chainId"`
	Name        string `json:"chainName" yaml:"chainName"`
	RPCEndpoint string `json:"rpcEndpoint,omitempty" yaml:"rpcEndpoint,omitempty"`
}

// Built-in networks for the testnet deployment. The chain registry can
// override or extend these.
var (
	ChainMantleSepolia = Chain{
		ID:          5003,
		Name:        "Mantle Sepolia",
		RPCEndpoint: "https://rpc.sepolia.mantle.xyz",
	}
	ChainBaseSepolia = Chain{
		ID:          84532,
		Name:        "Base Sepolia",
		RPCEndpoint: "https://sepolia.base.org",
	}
)
