package near

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/layer-3/nearstore/core"
	"github.com/layer-3/nearstore/ports"
	"go.uber.org/zap"
)

const finalityFinal = "final"

// Client talks JSON-RPC to a NEAR node
type Client struct {
	http    *resty.Client
	nodeURL string
	logger  *zap.Logger
}

// NewClient creates a client for nodeURL
func NewClient(nodeURL string, timeout time.Duration, logger *zap.Logger) ports.NodeRPC {
	return &Client{
		http: resty.New().
			SetTimeout(timeout).
			SetHeader("Content-Type", "application/json"),
		nodeURL: nodeURL,
		logger:  logger,
	}
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      string `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *RPCError       `json:"error"`
}

// call performs one JSON-RPC round-trip and decodes result into out
func (c *Client) call(ctx context.Context, method string, params any, out any) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(rpcRequest{JSONRPC: "2.0", ID: "dontcare", Method: method, Params: params}).
		Post(c.nodeURL)
	if err != nil {
		return fmt.Errorf("rpc %s: %w", method, err)
	}

	var decoded rpcResponse
	if err := json.Unmarshal(resp.Body(), &decoded); err != nil {
		if resp.StatusCode() != http.StatusOK {
			return fmt.Errorf("rpc %s: status %d", method, resp.StatusCode())
		}
		return fmt.Errorf("rpc %s: failed to decode response: %w", method, err)
	}
	if decoded.Error != nil {
		c.logger.Debug("rpc error", zap.String("method", method), zap.Error(decoded.Error))
		return decoded.Error
	}

	// query results may carry an error string instead of a top-level error
	var inline struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(decoded.Result, &inline); err == nil && inline.Error != "" {
		return &RPCError{Code: -32000, Message: "Query error", Data: mustQuote(inline.Error)}
	}

	if err := json.Unmarshal(decoded.Result, out); err != nil {
		return fmt.Errorf("rpc %s: failed to decode result: %w", method, err)
	}
	return nil
}

// ViewAccount queries the state of accountID
func (c *Client) ViewAccount(ctx context.Context, accountID string) (*core.AccountState, error) {
	var state core.AccountState
	err := c.call(ctx, "query", map[string]string{
		"request_type": "view_account",
		"finality":     finalityFinal,
		"account_id":   accountID,
	}, &state)
	if err != nil {
		if IsAccountNotFound(err) {
			return nil, fmt.Errorf("%w: %w", core.ErrAccountNotFound, err)
		}
		return nil, err
	}
	return &state, nil
}

// CallFunction runs a view method on contractID and returns its raw result bytes
func (c *Client) CallFunction(ctx context.Context, contractID, method string, args []byte) ([]byte, error) {
	var result struct {
		Result []int    `json:"result"`
		Logs   []string `json:"logs"`
	}
	err := c.call(ctx, "query", map[string]string{
		"request_type": "call_function",
		"finality":     finalityFinal,
		"account_id":   contractID,
		"method_name":  method,
		"args_base64":  base64.StdEncoding.EncodeToString(args),
	}, &result)
	if err != nil {
		return nil, err
	}

	out := make([]byte, len(result.Result))
	for i, b := range result.Result {
		out[i] = byte(b)
	}
	return out, nil
}

// StorageAmountPerByte returns the storage staking price in yoctoNEAR per byte
func (c *Client) StorageAmountPerByte(ctx context.Context) (string, error) {
	var result struct {
		RuntimeConfig struct {
			StorageAmountPerByte string `json:"storage_amount_per_byte"`
		} `json:"runtime_config"`
	}
	err := c.call(ctx, "EXPERIMENTAL_protocol_config", map[string]string{"finality": finalityFinal}, &result)
	if err != nil {
		return "", err
	}
	return result.RuntimeConfig.StorageAmountPerByte, nil
}

func mustQuote(s string) json.RawMessage {
	raw, _ := json.Marshal(s)
	return raw
}
