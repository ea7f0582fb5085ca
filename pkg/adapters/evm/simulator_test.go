package evm

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TilepMony-Project/flowcore/pkg/domain"
)

const testController = "0x9999999999999999999999999999999999999999"

func sampleActions() []domain.Action {
	return []domain.Action{
		{Kind: domain.ActionMint, OutputToken: "USDX", OutputAmount: 100, TargetChainID: 5003},
		{Kind: domain.ActionSwap, InputToken: "USDX", InputAmount: 100, OutputToken: "IDRX", OutputAmount: 98, TargetChainID: 5003},
	}
}

// fakeNode answers eth_call and eth_estimateGas with canned responses.
func fakeNode(t *testing.T, callResult, callError, gasResult string) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID     int64  `json:"id"`
			Method string `json:"method"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		w.Header().Set("Content-Type", "application/json")
		switch req.Method {
		case "eth_call":
			if callError != "" {
				w.Write([]byte(`{"jsonrpc":"2.0","id":1,"error":{"code":3,"message":"execution reverted","data":"` + callError + `"}}`))
				return
			}
			w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":"` + callResult + `"}`))
		case "eth_estimateGas":
			if gasResult == "" {
				w.Write([]byte(`{"jsonrpc":"2.0","id":1,"error":{"code":-32000,"message":"gas required exceeds allowance"}}`))
				return
			}
			w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":"` + gasResult + `"}`))
		default:
			t.Errorf("unexpected rpc method %s", req.Method)
		}
	}))
	t.Cleanup(ts.Close)
	return ts
}

// revertData ABI-encodes Error(string) the way solidity does.
func revertData(message string) string {
	padded := len(message)
	if rem := padded % 32; rem != 0 {
		padded += 32 - rem
	}
	data := make([]byte, 0, 4+64+32+padded)
	data = append(data, 0x08, 0xc3, 0x79, 0xa0)
	offset := make([]byte, 32)
	offset[31] = 0x20
	data = append(data, offset...)
	length := make([]byte, 32)
	length[31] = byte(len(message))
	data = append(data, length...)
	str := make([]byte, padded)
	copy(str, message)
	data = append(data, str...)
	return "0x" + hex.EncodeToString(data)
}

func TestSimulate_Success(t *testing.T) {
	node := fakeNode(t, "0x", "", "0x15f90")
	sim := NewSimulator(node.URL, testController)

	result := sim.Simulate(context.Background(), sampleActions(), "USDX", 100,
		"0x1111111111111111111111111111111111111111")

	assert.True(t, result.Success)
	assert.Equal(t, uint64(90000), result.Gas)
	assert.Equal(t, 2, result.ActionCount)
	assert.Empty(t, result.RevertReason)
}

func TestSimulate_RevertDecoded(t *testing.T) {
	node := fakeNode(t, "", revertData("insufficient liquidity"), "")
	sim := NewSimulator(node.URL, testController)

	result := sim.Simulate(context.Background(), sampleActions(), "USDX", 100, "")

	assert.False(t, result.Success)
	assert.Equal(t, "insufficient liquidity", result.RevertReason)
	assert.Equal(t, 2, result.ActionCount, "action count survives the revert")
	assert.Zero(t, result.Gas)
}

func TestSimulate_TransportFailureFoldedIntoResult(t *testing.T) {
	node := fakeNode(t, "0x", "", "0x1")
	node.Close()
	sim := NewSimulator(node.URL, testController)

	result := sim.Simulate(context.Background(), sampleActions(), "USDX", 100, "")

	assert.False(t, result.Success)
	assert.NotEmpty(t, result.RevertReason)
}

func TestSimulate_GasEstimateFailureKeepsSuccess(t *testing.T) {
	node := fakeNode(t, "0x", "", "")
	sim := NewSimulator(node.URL, testController)

	result := sim.Simulate(context.Background(), sampleActions(), "USDX", 100, "")

	// The dry run passed; a flaky estimate only costs the gas figure.
	assert.True(t, result.Success)
	assert.Zero(t, result.Gas)
}

func TestEncodeSimulateCall_Layout(t *testing.T) {
	actions := sampleActions()
	data, err := encodeSimulateCall(DefaultSimulateSelector, actions, "USDX", 100,
		"0x1111111111111111111111111111111111111111")
	require.NoError(t, err)

	// selector + 4 head words + array length + 6 words per action.
	assert.Len(t, data, 4+4*32+(1+6*len(actions))*32)
	assert.Equal(t, DefaultSimulateSelector[:], data[:4])

	// initialAmount is scaled to 6 decimals: 100.0 -> 100_000_000.
	amount := data[4+2*32 : 4+3*32]
	assert.Equal(t, "0000000000000000000000000000000000000000000000000000000005f5e100",
		hex.EncodeToString(amount))
}

func TestEncodeSimulateCall_RejectsBadAddress(t *testing.T) {
	_, err := encodeSimulateCall(DefaultSimulateSelector, nil, "USDX", 1, "not-an-address")
	require.Error(t, err)
}

func TestDecodeRevertReason_UnknownPayloadKeptVerbatim(t *testing.T) {
	// Custom errors (non Error(string) selectors) are passed through raw.
	raw := "0xdeadbeef"
	got := decodeRevertReason(raw)
	assert.True(t, strings.HasPrefix(got, "0x") || got != "", "never empty")
}
