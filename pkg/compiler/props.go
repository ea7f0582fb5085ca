package compiler

import (
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/TilepMony-Project/flowcore/pkg/domain"
)

// Typed views over Node.Properties. The canvas stores properties as loose
// JSON maps; mapstructure gives us one decode path with weak typing so that
// "2" and 2 both work for numeric fields.

type mintProps struct {
	Currency string  `mapstructure:"currency"`
	Amount   float64 `mapstructure:"amount"`
}

type swapProps struct {
	SwapAdapter       string  `mapstructure:"swapAdapter"`
	TargetToken       string  `mapstructure:"targetToken"`
	SlippageTolerance float64 `mapstructure:"slippageTolerance"`
}

type bridgeProps struct {
	BridgeProvider string `mapstructure:"bridgeProvider"`
}

type vaultProps struct {
	YieldModel string `mapstructure:"yieldModel"`
}

type transferProps struct {
	Recipient string `mapstructure:"recipient"`
}

type triggerProps struct {
	Token  string  `mapstructure:"token"`
	Amount float64 `mapstructure:"amount"`
}

// decodeProps decodes a node's property map into a typed struct, merging the
// kind's defaults underneath the authored values.
func decodeProps(node domain.Node, defaults map[string]any, out any) error {
	merged := make(map[string]any, len(defaults)+len(node.Properties))
	for k, v := range defaults {
		merged[k] = v
	}
	for k, v := range node.Properties {
		merged[k] = v
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("building property decoder: %w", err)
	}
	if err := dec.Decode(merged); err != nil {
		return &domain.ValidationError{
			NodeID:  node.ID,
			Field:   "properties",
			Message: err.Error(),
		}
	}
	return nil
}

// requireProp returns a ValidationError when a mandatory string property is
// absent or blank.
func requireProp(node domain.Node, field, value string) error {
	if value == "" {
		return &domain.ValidationError{
			NodeID:  node.ID,
			Field:   field,
			Message: fmt.Sprintf("%s node requires %q", node.Kind, field),
		}
	}
	return nil
}
