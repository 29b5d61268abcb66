package near

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/layer-3/nearstore/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeNode struct {
	t        *testing.T
	requests []rpcRequest
	respond  func(req rpcRequest) string
}

func (f *fakeNode) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req rpcRequest
	require.NoError(f.t, json.NewDecoder(r.Body).Decode(&req))
	f.requests = append(f.requests, req)
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(f.respond(req)))
}

func newTestClient(t *testing.T, respond func(req rpcRequest) string) (*Client, *fakeNode) {
	node := &fakeNode{t: t, respond: respond}
	srv := httptest.NewServer(node)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 5*time.Second, zap.NewNop()).(*Client), node
}

func TestViewAccount(t *testing.T) {
	c, node := newTestClient(t, func(rpcRequest) string {
		return `{"jsonrpc":"2.0","id":"dontcare","result":{"amount":"1000000000000000000000000","locked":"0","code_hash":"11111111111111111111111111111111","storage_usage":182,"storage_paid_at":0,"block_height":42,"block_hash":"abc"}}`
	})

	state, err := c.ViewAccount(context.Background(), "alice.testnet")
	require.NoError(t, err)
	assert.Equal(t, "1000000000000000000000000", state.Amount)
	assert.Equal(t, uint64(182), state.StorageUsage)
	assert.Equal(t, uint64(42), state.BlockHeight)

	require.Len(t, node.requests, 1)
	assert.Equal(t, "query", node.requests[0].Method)
	params := node.requests[0].Params.(map[string]any)
	assert.Equal(t, "view_account", params["request_type"])
	assert.Equal(t, "alice.testnet", params["account_id"])
	assert.Equal(t, "final", params["finality"])
}

func TestViewAccountUnknown(t *testing.T) {
	c, _ := newTestClient(t, func(rpcRequest) string {
		return `{"jsonrpc":"2.0","id":"dontcare","error":{"name":"HANDLER_ERROR","cause":{"info":{"requested_account_id":"ghost.testnet"},"name":"UNKNOWN_ACCOUNT"},"code":-32000,"message":"Server error","data":"account ghost.testnet does not exist while viewing"}}`
	})

	_, err := c.ViewAccount(context.Background(), "ghost.testnet")
	require.Error(t, err)

	var rpcErr *RPCError
	require.True(t, errors.As(err, &rpcErr))
	assert.Equal(t, -32000, rpcErr.Code)
	assert.Equal(t, CauseUnknownAccount, rpcErr.Cause.Name)
	assert.Contains(t, err.Error(), "does not exist while viewing")
	assert.True(t, IsAccountNotFound(err))
	assert.ErrorIs(t, err, core.ErrAccountNotFound)
}

func TestCallFunction(t *testing.T) {
	payload := []byte(`[{"token_id":"0","owner_id":"alice.testnet"}]`)
	ints := make([]int, len(payload))
	for i, b := range payload {
		ints[i] = int(b)
	}
	result, _ := json.Marshal(map[string]any{"result": ints, "logs": []string{}})

	c, node := newTestClient(t, func(rpcRequest) string {
		return `{"jsonrpc":"2.0","id":"dontcare","result":` + string(result) + `}`
	})

	out, err := c.CallFunction(context.Background(), "nft.testnet", "nft_tokens", []byte(`{"limit":10}`))
	require.NoError(t, err)
	assert.JSONEq(t, string(payload), string(out))

	params := node.requests[0].Params.(map[string]any)
	assert.Equal(t, "call_function", params["request_type"])
	assert.Equal(t, "nft_tokens", params["method_name"])
	args, err := base64.StdEncoding.DecodeString(params["args_base64"].(string))
	require.NoError(t, err)
	assert.Equal(t, `{"limit":10}`, string(args))
}

func TestCallFunctionInlineError(t *testing.T) {
	c, _ := newTestClient(t, func(rpcRequest) string {
		return `{"jsonrpc":"2.0","id":"dontcare","result":{"error":"wasm execution failed with error: MethodNotFound","logs":[]}}`
	})

	_, err := c.CallFunction(context.Background(), "nft.testnet", "nope", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MethodNotFound")
	assert.False(t, IsAccountNotFound(err))
}

func TestStorageAmountPerByte(t *testing.T) {
	c, node := newTestClient(t, func(rpcRequest) string {
		return `{"jsonrpc":"2.0","id":"dontcare","result":{"runtime_config":{"storage_amount_per_byte":"10000000000000000000"}}}`
	})

	v, err := c.StorageAmountPerByte(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "10000000000000000000", v)
	assert.Equal(t, "EXPERIMENTAL_protocol_config", node.requests[0].Method)
}

func TestNodeUnreachable(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", time.Second, zap.NewNop())
	_, err := c.ViewAccount(context.Background(), "alice.testnet")
	require.Error(t, err)
	assert.False(t, IsAccountNotFound(err))
}

func TestIsAccountNotFound(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"structured unknown account", &RPCError{Code: -32000, Message: "Server error", Cause: &ErrorCause{Name: "UNKNOWN_ACCOUNT"}}, true},
		{"structured other cause", &RPCError{Code: -32000, Message: "Server error", Data: mustQuote("block does not exist"), Cause: &ErrorCause{Name: "UNKNOWN_BLOCK"}}, false},
		{"text only", errors.New("[-32000] Server error: account x does not exist while viewing"), true},
		{"timeout", errors.New("context deadline exceeded"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsAccountNotFound(tt.err))
		})
	}
}
