package domain

import "testing"

func TestNodeCloneIsolatesNestedProperties(t *testing.T) {
	n := Node{
		ID:   "swap-1",
		Kind: KindSwap,
		Properties: map[string]any{
			"swapAdapter": "merchant-moe",
			"routing": map[string]any{
				"hops": []any{"USDX", "IDRX"},
			},
		},
	}

	c := n.Clone()
	c.Properties["routing"].(map[string]any)["hops"].([]any)[0] = "ROGUE"
	c.Properties["swapAdapter"] = "rogue-dex"

	hops := n.Properties["routing"].(map[string]any)["hops"].([]any)
	if hops[0] != "USDX" {
		t.Errorf("nested slice leaked through Clone: got %v", hops[0])
	}
	if n.Properties["swapAdapter"] != "merchant-moe" {
		t.Errorf("top-level property leaked through Clone: got %v", n.Properties["swapAdapter"])
	}
}

func TestExecutionRecordCloneIsolatesDetail(t *testing.T) {
	r := NewExecutionRecord("exec-1", "wf-1")
	r.ExecutionLog = append(r.ExecutionLog, StepLogEntry{
		NodeID: "bridge-1",
		Status: StepComplete,
		Detail: map[string]any{"confirmations": 12},
	})

	c := r.Clone()
	c.ExecutionLog[0].Detail["confirmations"] = 0
	c.ExecutionLog[0].Detail["rogue"] = true

	if r.ExecutionLog[0].Detail["confirmations"] != 12 {
		t.Errorf("detail map leaked through Clone: got %v", r.ExecutionLog[0].Detail["confirmations"])
	}
	if _, ok := r.ExecutionLog[0].Detail["rogue"]; ok {
		t.Error("detail map gained a key written to the clone")
	}
}
