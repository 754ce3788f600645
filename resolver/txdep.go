package resolver

import (
	"context"

	"github.com/nervos-community/light-wallet/errors"
	"github.com/nervos-community/light-wallet/rpc"
	"github.com/nervos-community/light-wallet/stores/cell"
	"github.com/nervos-community/light-wallet/types"
)

func errorHeaderNotFound(hash types.Hash) error {
	return errors.NewLedgerUnavailableError("header %s not available", hash)
}

// LightClientTxDepProvider resolves referenced outputs through the light
// client's fetch_transaction call.
type LightClientTxDepProvider struct {
	client *rpc.Client
}

func NewLightClientTxDepProvider(client *rpc.Client) *LightClientTxDepProvider {
	return &LightClientTxDepProvider{client: client}
}

func (p *LightClientTxDepProvider) GetCellOutput(ctx context.Context, op types.OutPoint) (*types.CellOutput, []byte, error) {
	status, err := p.client.FetchTransaction(ctx, op.TxHash)
	if err != nil {
		return nil, nil, err
	}

	if status.Status != "fetched" || status.Data == nil || status.Data.Transaction == nil {
		return nil, nil, errors.NewLedgerUnavailableError("transaction %s not fetched yet (status %q)", op.TxHash, status.Status)
	}

	tx, err := rpc.TransactionFromWire(&status.Data.Transaction.Transaction)
	if err != nil {
		return nil, nil, err
	}

	if int(op.Index) >= len(tx.Outputs) {
		return nil, nil, errors.NewTxError("out point %s-%d exceeds %d outputs", op.TxHash, op.Index, len(tx.Outputs))
	}

	return tx.Outputs[op.Index], tx.OutputsData[op.Index], nil
}

// MemoryTxDepProvider serves referenced outputs from an in-memory cell
// source; tests wire it to the same Memory the collector uses.
type MemoryTxDepProvider struct {
	mem *cell.Memory
}

func NewMemoryTxDepProvider(mem *cell.Memory) *MemoryTxDepProvider {
	return &MemoryTxDepProvider{mem: mem}
}

func (p *MemoryTxDepProvider) GetCellOutput(_ context.Context, op types.OutPoint) (*types.CellOutput, []byte, error) {
	live, ok := p.mem.Get(op)
	if !ok {
		return nil, nil, errors.NewLedgerUnavailableError("cell %s-%d not found", op.TxHash, op.Index)
	}

	return live.Output, live.OutputData, nil
}
