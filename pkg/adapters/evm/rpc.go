package evm

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/TilepMony-Project/flowcore/internal/xjson"
)

// rpcClient is a minimal JSON-RPC 2.0 client for the read-only calls the
// gateway needs (eth_call, eth_estimateGas). No websocket, no subscriptions.
type rpcClient struct {
	endpoint string
	http     *http.Client
	nextID   atomic.Int64
}

func newRPCClient(endpoint string, timeout time.Duration) *rpcClient {
	return &rpcClient{
		endpoint: endpoint,
		http:     &http.Client{Timeout: timeout},
	}
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int64  `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	// Data carries the ABI-encoded revert payload on execution reverts.
	Data any `json:"data,omitempty"`
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

type rpcResponse struct {
	Result xjson.RawMessage `json:"result"`
	Error  *rpcError        `json:"error"`
}

// call performs one JSON-RPC round trip. A *rpcError is returned verbatim so
// callers can distinguish contract reverts from transport failures.
func (c *rpcClient) call(ctx context.Context, method string, params ...any) (xjson.RawMessage, error) {
	payload, err := xjson.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      c.nextID.Add(1),
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding rpc request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("building rpc request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rpc transport: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rpc endpoint returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("reading rpc response: %w", err)
	}

	var decoded rpcResponse
	if err := xjson.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("decoding rpc response: %w", err)
	}
	if decoded.Error != nil {
		return nil, decoded.Error
	}
	return decoded.Result, nil
}
