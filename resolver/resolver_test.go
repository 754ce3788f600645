package resolver

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nervos-community/light-wallet/errors"
	"github.com/nervos-community/light-wallet/rpc"
	"github.com/nervos-community/light-wallet/stores/cell"
	"github.com/nervos-community/light-wallet/types"
)

func TestFromGenesisRejectsIncompleteBlock(t *testing.T) {
	_, err := FromGenesis(&rpc.Block{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrLedgerUnavailable))
}

func TestFromGenesisRequiresSighashCell(t *testing.T) {
	// two transactions but no output carries a system type script
	genesis := &rpc.Block{
		Transactions: []*rpc.TransactionView{
			{Hash: types.Blake256([]byte("tx0")).String()},
			{Hash: types.Blake256([]byte("tx1")).String()},
		},
	}

	_, err := FromGenesis(genesis)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrLedgerUnavailable))
}

func TestStaticCellDepResolver(t *testing.T) {
	r := NewStaticCellDepResolver()

	id := types.NewScriptIDType(types.SighashTypeHash)

	_, ok := r.ResolveDep(id)
	assert.False(t, ok)

	dep := types.CellDep{
		OutPoint: types.OutPoint{TxHash: types.Blake256([]byte("group")), Index: 0},
		DepType:  types.DepTypeDepGroup,
	}
	r.Add(id, dep)

	resolved, ok := r.ResolveDep(id)
	require.True(t, ok)
	assert.Equal(t, dep, resolved)
}

func TestMemoryHeaderResolver(t *testing.T) {
	h := &types.Header{Hash: types.Blake256([]byte("header")), Number: 42}

	r := NewMemoryHeaderResolver(h)

	got, err := r.HeaderByHash(context.Background(), h.Hash)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), got.Number)

	_, err = r.HeaderByHash(context.Background(), types.Blake256([]byte("missing")))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrLedgerUnavailable))
}

func TestMemoryTxDepProvider(t *testing.T) {
	mem := cell.NewMemory()

	lock := types.AccountID{}.LockScript()
	op := types.OutPoint{TxHash: types.Blake256([]byte("cell")), Index: 3}

	mem.AddCell(&cell.LiveCell{
		OutPoint:   op,
		Output:     &types.CellOutput{Capacity: 100 * types.OneCKB, Lock: lock},
		OutputData: []byte{0x01},
	})

	p := NewMemoryTxDepProvider(mem)

	output, data, err := p.GetCellOutput(context.Background(), op)
	require.NoError(t, err)
	assert.Equal(t, 100*types.OneCKB, output.Capacity)
	assert.Equal(t, []byte{0x01}, data)

	_, _, err = p.GetCellOutput(context.Background(), types.OutPoint{TxHash: types.Blake256([]byte("gone"))})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrLedgerUnavailable))
}

func TestHeaderResolverCacheTTL(t *testing.T) {
	// construction only; the RPC path is covered in the rpc package tests
	r := NewLightClientHeaderResolver(nil, time.Minute)
	require.NotNil(t, r)
}
