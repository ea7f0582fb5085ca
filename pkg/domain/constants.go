package domain

// Token symbols used by the stablecoin payment flows.
const (
	// TokenUSDX is the USD-pegged stablecoin minted for currency "USD".
	TokenUSDX = "USDX"
	// TokenIDRX is the rupiah-pegged stablecoin minted for any other currency.
	TokenIDRX = "IDRX"
	// TokenBridgedStable is the canonical settlement asset every bridge
	// delivers on the destination chain, regardless of the input token.
	TokenBridgedStable = "USDX"
)

// CurrencyUSD selects TokenUSDX at a mint node.
const CurrencyUSD = "USD"

// LabelDefaultBranch marks the fallback edge of a decision node.
const LabelDefaultBranch = "default"
