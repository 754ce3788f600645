// Package rpc implements the JSON-RPC transport to a ckb light client
// node. Transport failures surface as LEDGER_UNAVAILABLE and are never
// retried here; retry policy belongs to callers.
package rpc

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/nervos-community/light-wallet/errors"
	"github.com/nervos-community/light-wallet/types"
	"github.com/nervos-community/light-wallet/ulogger"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type Client struct {
	url        string
	httpClient *http.Client
	logger     ulogger.Logger
	requestID  atomic.Uint64
}

func NewClient(logger ulogger.Logger, url string) *Client {
	return &Client{
		url: url,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger.New("rpc"),
	}
}

type request struct {
	ID      uint64        `json:"id"`
	JSONRPC string        `json:"jsonrpc"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

type responseError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type response struct {
	ID     uint64              `json:"id"`
	Result jsoniter.RawMessage `json:"result"`
	Error  *responseError      `json:"error"`
}

func (c *Client) call(ctx context.Context, method string, params []interface{}, result interface{}) error {
	start := time.Now()

	err := c.doCall(ctx, method, params, result)

	prometheusRPCDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
	prometheusRPCRequests.WithLabelValues(method).Inc()

	if err != nil {
		prometheusRPCErrors.WithLabelValues(method).Inc()
	}

	return err
}

func (c *Client) doCall(ctx context.Context, method string, params []interface{}, result interface{}) error {
	if params == nil {
		params = []interface{}{}
	}

	body, err := json.Marshal(&request{
		ID:      c.requestID.Add(1),
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return errors.NewLedgerUnavailableError("marshal %s request", method, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return errors.NewLedgerUnavailableError("build %s request", method, err)
	}

	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return errors.NewLedgerUnavailableError("%s round trip failed", method, err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return errors.NewLedgerUnavailableError("read %s response", method, err)
	}

	if httpResp.StatusCode != http.StatusOK {
		return errors.NewLedgerUnavailableError("%s returned HTTP %d", method, httpResp.StatusCode)
	}

	var resp response
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return errors.NewLedgerUnavailableError("decode %s response", method, err)
	}

	if resp.Error != nil {
		return errors.NewLedgerUnavailableError("%s failed: %s (code %d)", method, resp.Error.Message, resp.Error.Code)
	}

	if result == nil {
		return nil
	}

	if err := json.Unmarshal(resp.Result, result); err != nil {
		return errors.NewLedgerUnavailableError("decode %s result", method, err)
	}

	return nil
}

// GetCells returns one indexer page of live cells.
func (c *Client) GetCells(ctx context.Context, key *SearchKey, order string, limit uint32, afterCursor string) (*GetCellsResult, error) {
	params := []interface{}{key, order, Uint64(limit)}
	if afterCursor != "" {
		params = append(params, afterCursor)
	} else {
		params = append(params, nil)
	}

	var result GetCellsResult
	if err := c.call(ctx, "get_cells", params, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// GetCellsCapacity sums capacity over every cell matching the search key.
func (c *Client) GetCellsCapacity(ctx context.Context, key *SearchKey) (uint64, error) {
	var result GetCellsCapacityResult
	if err := c.call(ctx, "get_cells_capacity", []interface{}{key}, &result); err != nil {
		return 0, err
	}

	return uint64(result.Capacity), nil
}

// GetHeader fetches a block header by hash.
func (c *Client) GetHeader(ctx context.Context, hash types.Hash) (*types.Header, error) {
	var wire *Header
	if err := c.call(ctx, "get_header", []interface{}{hash.String()}, &wire); err != nil {
		return nil, err
	}

	if wire == nil {
		return nil, errors.NewLedgerUnavailableError("header %s not known to the light client", hash)
	}

	return HeaderFromWire(wire)
}

// GetGenesisBlock fetches block zero, which carries the system cells the
// cell-dep resolver needs.
func (c *Client) GetGenesisBlock(ctx context.Context) (*Block, error) {
	var block *Block
	if err := c.call(ctx, "get_genesis_block", nil, &block); err != nil {
		return nil, err
	}

	if block == nil || block.Header == nil {
		return nil, errors.NewLedgerUnavailableError("light client returned no genesis block")
	}

	return block, nil
}

// FetchTransaction asks the light client for a transaction, triggering a
// network fetch when it is not yet proven locally.
func (c *Client) FetchTransaction(ctx context.Context, hash types.Hash) (*FetchStatus, error) {
	var status FetchStatus
	if err := c.call(ctx, "fetch_transaction", []interface{}{hash.String()}, &status); err != nil {
		return nil, err
	}

	return &status, nil
}

// SendTransaction broadcasts the finished transaction. This is the only
// irrevocable operation in the module.
func (c *Client) SendTransaction(ctx context.Context, tx *types.Transaction) (types.Hash, error) {
	var hashHex string
	if err := c.call(ctx, "send_transaction", []interface{}{TransactionToWire(tx)}, &hashHex); err != nil {
		return types.Hash{}, err
	}

	c.logger.Infof("transaction sent: %s", hashHex)

	return types.HexToHash(hashHex)
}

// GetScripts lists the scripts the light client is syncing filters for.
func (c *Client) GetScripts(ctx context.Context) ([]*ScriptStatus, error) {
	var result []*ScriptStatus
	if err := c.call(ctx, "get_scripts", nil, &result); err != nil {
		return nil, err
	}

	return result, nil
}
