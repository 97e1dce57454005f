// Package rpcchain provides a minimal EVM JSON-RPC client and the offline
// transaction-object builders used by buildTransferNative/Erc20. The Call
// method is adapted from the teacher's infrastructure/chain.Client.Call —
// same request/response envelope, same hardened http.Client construction —
// generalized from Neo N3's single-chain RPC to arbitrary EVM endpoints
// supplied per-request.
package rpcchain

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/r3e-network/defi-dispatcher/internal/httpx"
)

// RPCRequest is a JSON-RPC 2.0 request envelope.
type RPCRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
	ID      int           `json:"id"`
}

// RPCError is a JSON-RPC 2.0 error object.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// RPCResponse is a JSON-RPC 2.0 response envelope.
type RPCResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result"`
	Error   *RPCError       `json:"error,omitempty"`
	ID      int             `json:"id"`
}

// Client calls an arbitrary EVM JSON-RPC endpoint. Unlike the teacher's
// Neo-specific client (bound to one RPCURL and one NetworkID at
// construction), this dispatcher receives a fresh rpcUrl per action call,
// so Call takes the URL directly.
type Client struct {
	httpClient *http.Client
}

// NewClient builds a Client with the given per-request timeout.
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: httpx.DefaultTransportWithMinTLS12(),
		},
	}
}

// Call issues one JSON-RPC request to rpcURL and returns the raw result.
func (c *Client) Call(ctx context.Context, rpcURL, method string, params []interface{}) (json.RawMessage, error) {
	normalized, _, err := httpx.NormalizeBaseURL(rpcURL, httpx.BaseURLOptions{})
	if err != nil {
		return nil, fmt.Errorf("invalid rpc url: %w", err)
	}

	req := RPCRequest{JSONRPC: "2.0", Method: method, Params: params, ID: 1}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, normalized, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, truncated, readErr := httpx.ReadAllWithLimit(resp.Body, 32<<10)
		if readErr != nil {
			return nil, fmt.Errorf("read error response: %w", readErr)
		}
		msg := strings.TrimSpace(string(respBody))
		if truncated {
			msg += "...(truncated)"
		}
		return nil, fmt.Errorf("rpc http error %d: %s", resp.StatusCode, msg)
	}

	respBody, err := httpx.ReadAllStrict(resp.Body, 8<<20)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var rpcResp RPCResponse
	if err := json.Unmarshal(respBody, &rpcResp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	if rpcResp.Error != nil {
		return nil, rpcResp.Error
	}
	return rpcResp.Result, nil
}
