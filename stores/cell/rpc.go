package cell

import (
	"context"

	"github.com/nervos-community/light-wallet/errors"
	"github.com/nervos-community/light-wallet/rpc"
	"github.com/nervos-community/light-wallet/types"
)

// LightClientCollector serves cell queries from a ckb light client node.
type LightClientCollector struct {
	client *rpc.Client
}

func NewLightClientCollector(client *rpc.Client) *LightClientCollector {
	return &LightClientCollector{client: client}
}

func (c *LightClientCollector) searchKey(q *Query) *rpc.SearchKey {
	key := &rpc.SearchKey{
		ScriptType: string(q.ScriptType),
	}

	key.Script = &rpc.Script{
		CodeHash: q.Script.CodeHash.String(),
		HashType: string(q.Script.HashType),
		Args:     rpc.Bytes(q.Script.Args),
	}

	filter := &rpc.SearchKeyFilter{}
	hasFilter := false

	if q.SecondaryScript != nil {
		filter.Script = &rpc.Script{
			CodeHash: q.SecondaryScript.CodeHash.String(),
			HashType: string(q.SecondaryScript.HashType),
			Args:     rpc.Bytes(q.SecondaryScript.Args),
		}
		hasFilter = true
	}

	if q.SecondaryScriptLenRange != nil {
		filter.ScriptLenRange = &[2]rpc.Uint64{rpc.Uint64(q.SecondaryScriptLenRange.Min), rpc.Uint64(q.SecondaryScriptLenRange.Max)}
		hasFilter = true
	}

	if q.DataLenRange != nil {
		filter.OutputDataLenRange = &[2]rpc.Uint64{rpc.Uint64(q.DataLenRange.Min), rpc.Uint64(q.DataLenRange.Max)}
		hasFilter = true
	}

	if q.CapacityRange != nil {
		filter.OutputCapacityRange = &[2]rpc.Uint64{rpc.Uint64(q.CapacityRange.Min), rpc.Uint64(q.CapacityRange.Max)}
		hasFilter = true
	}

	if q.BlockRange != nil {
		filter.BlockRange = &[2]rpc.Uint64{rpc.Uint64(q.BlockRange.Min), rpc.Uint64(q.BlockRange.Max)}
		hasFilter = true
	}

	if hasFilter {
		key.Filter = filter
	}

	return key
}

func (c *LightClientCollector) GetCells(ctx context.Context, q *Query, order Order, limit uint32, after Cursor) (*Page, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	if limit == 0 {
		return nil, errors.NewInvalidFilterError("limit must be > 0")
	}

	result, err := c.client.GetCells(ctx, c.searchKey(q), string(order), limit, string(after))
	if err != nil {
		return nil, err
	}

	page := &Page{}

	for _, obj := range result.Objects {
		live, err := liveCellFromWire(obj)
		if err != nil {
			return nil, err
		}

		// the indexer does not evaluate every filter dimension server
		// side; re-check before handing the cell out
		if !q.Matches(live) {
			continue
		}

		page.Cells = append(page.Cells, live)
	}

	if uint32(len(result.Objects)) == limit {
		page.NextCursor = Cursor(result.LastCursor)
	}

	return page, nil
}

func liveCellFromWire(obj *rpc.IndexerCell) (*LiveCell, error) {
	txHash, err := types.HexToHash(obj.OutPoint.TxHash)
	if err != nil {
		return nil, err
	}

	lock, err := wireScript(obj.Output.Lock)
	if err != nil {
		return nil, err
	}

	typeScript, err := wireScript(obj.Output.Type)
	if err != nil {
		return nil, err
	}

	return &LiveCell{
		OutPoint:    types.OutPoint{TxHash: txHash, Index: uint32(obj.OutPoint.Index)},
		Output:      &types.CellOutput{Capacity: uint64(obj.Output.Capacity), Lock: lock, Type: typeScript},
		OutputData:  []byte(obj.OutputData),
		BlockNumber: uint64(obj.BlockNumber),
		TxIndex:     uint32(obj.TxIndex),
	}, nil
}

func wireScript(s *rpc.Script) (*types.Script, error) {
	if s == nil {
		return nil, nil
	}

	codeHash, err := types.HexToHash(s.CodeHash)
	if err != nil {
		return nil, err
	}

	return types.NewScript(codeHash, types.ScriptHashType(s.HashType), []byte(s.Args)), nil
}

func (c *LightClientCollector) GetCellsCapacity(ctx context.Context, q *Query) (uint64, error) {
	if err := q.Validate(); err != nil {
		return 0, err
	}

	return c.client.GetCellsCapacity(ctx, c.searchKey(q))
}
