package zebra

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"zeckit-faucet/config"
	"zeckit-faucet/internal/core/domain"

	"github.com/rs/zerolog"
)

// HTTPClient interface for testability.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks JSON-RPC to a Zebra node.
type Client struct {
	url        string
	user       string
	password   string
	httpClient HTTPClient
	log        zerolog.Logger
}

// NewClient creates a Zebra RPC client. A nil httpClient uses a client with
// the configured timeout.
func NewClient(cfg config.ZebraConfig, httpClient HTTPClient, log zerolog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{
		url:        cfg.RPCURL,
		user:       cfg.User,
		password:   cfg.Password,
		httpClient: httpClient,
		log:        log,
	}
}

type rpcRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      string        `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

// call performs one request and returns the raw result member.
func (c *Client) call(ctx context.Context, id, method string, params ...interface{}) (json.RawMessage, error) {
	if params == nil {
		params = []interface{}{}
	}
	body, err := json.Marshal(rpcRequest{JSONRPC: "2.0", ID: id, Method: method, Params: params})
	if err != nil {
		return nil, fmt.Errorf("encoding %s request: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: building request: %v", domain.ErrOracleUnreachable, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.user != "" {
		req.SetBasicAuth(c.user, c.password)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrOracleUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %s returned status %d", domain.ErrOracleUnreachable, method, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", domain.ErrOracleUnreachable, err)
	}

	var rpcResp rpcResponse
	if err := json.Unmarshal(data, &rpcResp); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrOracleMalformed, err)
	}
	if rpcResp.Error != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrOracleRPC, rpcResp.Error.Message)
	}
	if len(rpcResp.Result) == 0 || string(rpcResp.Result) == "null" {
		return nil, fmt.Errorf("%w: %s has no result", domain.ErrOracleMalformed, method)
	}
	return rpcResp.Result, nil
}

type validateResult struct {
	IsValid bool   `json:"isvalid"`
	Address string `json:"address"`
}

// Validate implements ports.AddressValidator via validateaddress.
func (c *Client) Validate(ctx context.Context, address string) (string, error) {
	raw, err := c.call(ctx, "validate_addr", "validateaddress", address)
	if err != nil {
		return "", err
	}

	var res validateResult
	if err := json.Unmarshal(raw, &res); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrOracleMalformed, err)
	}
	if !res.IsValid {
		return "", fmt.Errorf("%w: %s", domain.ErrAddressRejected, address)
	}
	if !domain.IsRegtestAddress(address) {
		return "", fmt.Errorf("%w: %s", domain.ErrWrongNetwork, address)
	}

	if res.Address != "" {
		return res.Address, nil
	}
	return address, nil
}

// BlockCount returns the node's current chain height.
func (c *Client) BlockCount(ctx context.Context) (int64, error) {
	raw, err := c.call(ctx, "blockcount", "getblockcount")
	if err != nil {
		return 0, err
	}
	var height int64
	if err := json.Unmarshal(raw, &height); err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrOracleMalformed, err)
	}
	return height, nil
}

// HealthCheck implements ports.HealthChecker for the Zebra node.
type HealthCheck struct {
	client *Client
}

// NewHealthCheck creates a Zebra health checker.
func NewHealthCheck(client *Client) *HealthCheck {
	return &HealthCheck{client: client}
}

// Ping checks Zebra reachability.
func (h *HealthCheck) Ping(ctx context.Context) error {
	_, err := h.client.BlockCount(ctx)
	return err
}

// Name returns the dependency name.
func (h *HealthCheck) Name() string {
	return "zebra"
}
