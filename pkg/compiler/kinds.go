package compiler

import "github.com/TilepMony-Project/flowcore/pkg/domain"

// thread carries the running value state through the node sequence.
type thread struct {
	token  string
	amount float64
	seeded bool

	initialToken  string
	initialAmount float64

	wallet             string
	destinationChainID int64
}

// seed records the first value-producing node's output as the flow's initial
// token/amount. Later producers only update the running pair.
func (t *thread) seed(token string, amount float64) {
	t.token = token
	t.amount = amount
	if !t.seeded {
		t.seeded = true
		t.initialToken = token
		t.initialAmount = amount
	}
}

func chainID(node domain.Node) int64 {
	if node.RuntimeMeta == nil {
		return 0
	}
	return node.RuntimeMeta.ChainID
}

func compileTrigger(t *thread, node domain.Node, defaults map[string]any) (*domain.Action, error) {
	var props triggerProps
	if err := decodeProps(node, defaults, &props); err != nil {
		return nil, err
	}
	// A trigger may seed the flow with a literal token/amount; otherwise it
	// is purely structural.
	if props.Token != "" && props.Amount > 0 {
		t.seed(props.Token, props.Amount)
	}
	return nil, nil
}

func compileMint(t *thread, node domain.Node, defaults map[string]any) (*domain.Action, error) {
	var props mintProps
	if err := decodeProps(node, defaults, &props); err != nil {
		return nil, err
	}

	token := domain.TokenIDRX
	if props.Currency == domain.CurrencyUSD {
		token = domain.TokenUSDX
	}

	amount := t.amount
	if !t.seeded {
		amount = props.Amount
	}
	t.seed(token, amount)

	return &domain.Action{
		Kind:          domain.ActionMint,
		InputToken:    props.Currency,
		InputAmount:   amount,
		OutputToken:   token,
		OutputAmount:  amount,
		TargetChainID: chainID(node),
		Params:        map[string]any{"nodeId": node.ID},
	}, nil
}

func compileSwap(t *thread, node domain.Node, defaults map[string]any) (*domain.Action, error) {
	var props swapProps
	if err := decodeProps(node, defaults, &props); err != nil {
		return nil, err
	}
	if err := requireProp(node, "swapAdapter", props.SwapAdapter); err != nil {
		return nil, err
	}

	inToken, inAmount := t.token, t.amount
	// Integer-friendly form of in × (1 − slippage/100): 100 @ 2% is exactly 98.
	outAmount := inAmount * (100 - props.SlippageTolerance) / 100
	outToken := props.TargetToken
	if outToken == "" {
		outToken = inToken
	}
	t.seed(outToken, outAmount)

	return &domain.Action{
		Kind:          domain.ActionSwap,
		InputToken:    inToken,
		InputAmount:   inAmount,
		OutputToken:   outToken,
		OutputAmount:  outAmount,
		Provider:      props.SwapAdapter,
		TargetChainID: chainID(node),
		Params: map[string]any{
			"nodeId":            node.ID,
			"slippageTolerance": props.SlippageTolerance,
		},
	}, nil
}

func compileBridge(t *thread, node domain.Node, defaults map[string]any) (*domain.Action, error) {
	var props bridgeProps
	if err := decodeProps(node, defaults, &props); err != nil {
		return nil, err
	}
	if err := requireProp(node, "bridgeProvider", props.BridgeProvider); err != nil {
		return nil, err
	}

	inToken, inAmount := t.token, t.amount
	// Every bridge delivers the canonical settlement asset on the far side;
	// provider fees are settled off-chain and do not change the amount here.
	t.seed(domain.TokenBridgedStable, inAmount)

	return &domain.Action{
		Kind:          domain.ActionBridge,
		InputToken:    inToken,
		InputAmount:   inAmount,
		OutputToken:   domain.TokenBridgedStable,
		OutputAmount:  inAmount,
		Provider:      props.BridgeProvider,
		TargetChainID: chainID(node),
		Params: map[string]any{
			"nodeId":             node.ID,
			"destinationChainId": t.destinationChainID,
		},
	}, nil
}

func compileVault(t *thread, node domain.Node, defaults map[string]any) (*domain.Action, error) {
	var props vaultProps
	if err := decodeProps(node, defaults, &props); err != nil {
		return nil, err
	}
	if err := requireProp(node, "yieldModel", props.YieldModel); err != nil {
		return nil, err
	}

	// Vault shares are issued 1:1 against the deposit; the yield model only
	// affects accrual after deposit.
	return &domain.Action{
		Kind:          domain.ActionVault,
		InputToken:    t.token,
		InputAmount:   t.amount,
		OutputToken:   t.token,
		OutputAmount:  t.amount,
		Provider:      props.YieldModel,
		TargetChainID: chainID(node),
		Params:        map[string]any{"nodeId": node.ID},
	}, nil
}

func compileTransfer(t *thread, node domain.Node, defaults map[string]any) (*domain.Action, error) {
	var props transferProps
	if err := decodeProps(node, defaults, &props); err != nil {
		return nil, err
	}
	if err := requireProp(node, "recipient", props.Recipient); err != nil {
		return nil, err
	}

	return &domain.Action{
		Kind:          domain.ActionTransfer,
		InputToken:    t.token,
		InputAmount:   t.amount,
		OutputToken:   t.token,
		OutputAmount:  t.amount,
		TargetChainID: chainID(node),
		Params: map[string]any{
			"nodeId":    node.ID,
			"recipient": props.Recipient,
		},
	}, nil
}
