package txbuilder

import (
	"context"
	"testing"

	"github.com/libsv/go-bk/bec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nervos-community/light-wallet/errors"
	"github.com/nervos-community/light-wallet/resolver"
	"github.com/nervos-community/light-wallet/stores/cell"
	"github.com/nervos-community/light-wallet/types"
	"github.com/nervos-community/light-wallet/ulogger"
)

type harness struct {
	mem      *cell.Memory
	txDeps   resolver.TxDepProvider
	deps     *resolver.StaticCellDepResolver
	balancer *CapacityBalancer

	key  *bec.PrivateKey
	id   types.AccountID
	lock *types.Script
}

func newHarness(t *testing.T, feeRate types.FeeRate) *harness {
	t.Helper()

	key, err := bec.NewPrivateKey(bec.S256())
	require.NoError(t, err)

	id := types.AccountIDFromPubKey(key.PubKey().SerialiseCompressed())
	lock := id.LockScript()

	mem := cell.NewMemory()

	deps := resolver.NewStaticCellDepResolver()
	deps.Add(types.NewScriptIDType(types.SighashTypeHash), types.CellDep{
		OutPoint: types.OutPoint{TxHash: types.Blake256([]byte("sighash dep group")), Index: 0},
		DepType:  types.DepTypeDepGroup,
	})

	txDeps := resolver.NewMemoryTxDepProvider(mem)

	return &harness{
		mem:      mem,
		txDeps:   txDeps,
		deps:     deps,
		balancer: NewCapacityBalancer(ulogger.TestLogger{}, mem, deps, txDeps, feeRate, lock),
		key:      key,
		id:       id,
		lock:     lock,
	}
}

// fund adds plain capacity cells under the harness account's lock.
func (h *harness) fund(capacities ...uint64) {
	for i, capacity := range capacities {
		h.mem.AddCell(&cell.LiveCell{
			OutPoint:    types.OutPoint{TxHash: types.Blake256([]byte{0xfa, byte(i)}), Index: 0},
			Output:      &types.CellOutput{Capacity: capacity, Lock: h.lock},
			BlockNumber: uint64(i + 10),
		})
	}
}

// inputsCapacity values a transaction's inputs against the ledger.
func (h *harness) inputsCapacity(t *testing.T, tx *types.Transaction) uint64 {
	t.Helper()

	var total uint64

	for _, in := range tx.Inputs {
		live, ok := h.mem.Get(in.PreviousOutput)
		require.True(t, ok, "input not in ledger")

		total += live.Output.Capacity
	}

	return total
}

func transferTx(to *types.Script, capacity uint64) *types.Transaction {
	return &types.Transaction{
		Outputs:     []*types.CellOutput{{Capacity: capacity, Lock: to}},
		OutputsData: [][]byte{{}},
	}
}

func TestBalanceCreatesChange(t *testing.T) {
	h := newHarness(t, 1000)
	h.fund(200*types.OneCKB, 200*types.OneCKB, 200*types.OneCKB)

	tx := transferTx(h.lock, 100*types.OneCKB)

	require.NoError(t, h.balancer.BalanceTxCapacity(context.Background(), tx))

	require.NotEmpty(t, tx.Inputs)
	require.Len(t, tx.Witnesses, len(tx.Inputs))

	// change is the appended last output, under the change lock and
	// above its own occupied capacity
	change := tx.Outputs[len(tx.Outputs)-1]
	assert.True(t, change.Lock.Equals(h.lock))
	assert.GreaterOrEqual(t, change.Capacity, change.OccupiedCapacity(0))

	// capacity conservation: inputs == outputs + fee, fee exactly at rate
	inputs := h.inputsCapacity(t, tx)
	fee := inputs - tx.OutputsCapacity()
	assert.Equal(t, h.balancer.FeeRate.Fee(tx.SizeInBlock()), fee)

	// the sighash dep group was attached
	require.Len(t, tx.CellDeps, 1)
	assert.Equal(t, types.DepTypeDepGroup, tx.CellDeps[0].DepType)
}

func TestBalanceFoldsDustIntoFee(t *testing.T) {
	h := newHarness(t, 1000)

	// a single cell leaving less than the 61 CKB change minimum
	h.fund(160 * types.OneCKB)

	tx := transferTx(h.lock, 100*types.OneCKB)

	require.NoError(t, h.balancer.BalanceTxCapacity(context.Background(), tx))

	// no change output was created
	require.Len(t, tx.Outputs, 1)
	assert.Equal(t, 100*types.OneCKB, tx.OutputsCapacity())

	// the leftover went to the miner, so the effective fee is at least
	// the rate fee
	inputs := h.inputsCapacity(t, tx)
	fee := inputs - tx.OutputsCapacity()
	assert.GreaterOrEqual(t, fee, h.balancer.FeeRate.Fee(tx.SizeInBlock()))
	assert.Less(t, fee, 61*types.OneCKB)
}

func TestBalanceInsufficientCapacity(t *testing.T) {
	h := newHarness(t, 1000)
	h.fund(50 * types.OneCKB)

	tx := transferTx(h.lock, 100*types.OneCKB)

	err := h.balancer.BalanceTxCapacity(context.Background(), tx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInsufficientCapacity))

	// the caller's transaction is untouched on failure
	assert.Empty(t, tx.Inputs)
	assert.Len(t, tx.Outputs, 1)
}

func TestBalanceSkipsTypedAndDataCells(t *testing.T) {
	h := newHarness(t, 1000)

	// a DAO deposit under the same lock must never be melted for fees
	h.mem.AddCell(&cell.LiveCell{
		OutPoint: types.OutPoint{TxHash: types.Blake256([]byte("deposit")), Index: 0},
		Output: &types.CellOutput{
			Capacity: 1000 * types.OneCKB,
			Lock:     h.lock,
			Type:     types.NewScript(types.DaoTypeHash, types.HashTypeType, nil),
		},
		OutputData:  make([]byte, types.DaoDataLength),
		BlockNumber: 1,
	})

	tx := transferTx(h.lock, 100*types.OneCKB)

	err := h.balancer.BalanceTxCapacity(context.Background(), tx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInsufficientCapacity))
}

func TestBalanceAccumulatesAcrossCells(t *testing.T) {
	h := newHarness(t, 1000)

	// no single cell covers the transfer
	h.fund(80*types.OneCKB, 80*types.OneCKB, 80*types.OneCKB, 80*types.OneCKB)

	tx := transferTx(h.lock, 200*types.OneCKB)

	require.NoError(t, h.balancer.BalanceTxCapacity(context.Background(), tx))

	assert.GreaterOrEqual(t, len(tx.Inputs), 3)

	inputs := h.inputsCapacity(t, tx)
	fee := inputs - tx.OutputsCapacity()
	assert.Equal(t, h.balancer.FeeRate.Fee(tx.SizeInBlock()), fee)
}

func TestBalanceDoesNotDoubleSpendBaseInputs(t *testing.T) {
	h := newHarness(t, 1000)
	h.fund(300 * types.OneCKB)

	seed, ok := h.mem.Get(types.OutPoint{TxHash: types.Blake256([]byte{0xfa, 0}), Index: 0})
	require.True(t, ok)

	// builder already consumed the only cell; balancing has nothing left
	tx := transferTx(h.lock, 400*types.OneCKB)
	tx.Inputs = append(tx.Inputs, types.CellInput{PreviousOutput: seed.OutPoint})
	tx.Witnesses = append(tx.Witnesses, types.NewPlaceholderWitness().Serialize())

	err := h.balancer.BalanceTxCapacity(context.Background(), tx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInsufficientCapacity))
}

func TestBalanceCollectsPastBaseInputs(t *testing.T) {
	h := newHarness(t, 1000)
	h.fund(300*types.OneCKB, 300*types.OneCKB)

	seed, ok := h.mem.Get(types.OutPoint{TxHash: types.Blake256([]byte{0xfa, 0}), Index: 0})
	require.True(t, ok)

	// the builder already consumed the first cell; the second one sits
	// behind it in ledger order and must still be collected
	tx := transferTx(h.lock, 400*types.OneCKB)
	tx.Inputs = append(tx.Inputs, types.CellInput{PreviousOutput: seed.OutPoint})
	tx.Witnesses = append(tx.Witnesses, types.NewPlaceholderWitness().Serialize())

	require.NoError(t, h.balancer.BalanceTxCapacity(context.Background(), tx))

	require.Len(t, tx.Inputs, 2)

	inputs := h.inputsCapacity(t, tx)
	fee := inputs - tx.OutputsCapacity()
	assert.Equal(t, h.balancer.FeeRate.Fee(tx.SizeInBlock()), fee)
}

func TestBalanceCollectsPastTypedCells(t *testing.T) {
	h := newHarness(t, 1000)

	// a typed cell with empty data sits ahead of the spendable one; it
	// must neither be taken nor stall the collection
	typedOutPoint := types.OutPoint{TxHash: types.Blake256([]byte("typed")), Index: 0}
	h.mem.AddCell(&cell.LiveCell{
		OutPoint: typedOutPoint,
		Output: &types.CellOutput{
			Capacity: 1000 * types.OneCKB,
			Lock:     h.lock,
			Type:     types.NewScript(types.DaoTypeHash, types.HashTypeType, nil),
		},
		BlockNumber: 1,
	})
	h.fund(300 * types.OneCKB)

	tx := transferTx(h.lock, 100*types.OneCKB)

	require.NoError(t, h.balancer.BalanceTxCapacity(context.Background(), tx))

	require.Len(t, tx.Inputs, 1)
	assert.NotEqual(t, typedOutPoint, tx.Inputs[0].PreviousOutput)

	inputs := h.inputsCapacity(t, tx)
	fee := inputs - tx.OutputsCapacity()
	assert.Equal(t, h.balancer.FeeRate.Fee(tx.SizeInBlock()), fee)
}

func TestBalanceCountsBaseInputCapacity(t *testing.T) {
	h := newHarness(t, 1000)
	h.fund(300*types.OneCKB, 200*types.OneCKB)

	seed, ok := h.mem.Get(types.OutPoint{TxHash: types.Blake256([]byte{0xfa, 0}), Index: 0})
	require.True(t, ok)

	tx := transferTx(h.lock, 100*types.OneCKB)
	tx.Inputs = append(tx.Inputs, types.CellInput{PreviousOutput: seed.OutPoint})
	tx.Witnesses = append(tx.Witnesses, types.NewPlaceholderWitness().Serialize())

	require.NoError(t, h.balancer.BalanceTxCapacity(context.Background(), tx))

	// the 300 CKB base input already covers 100 CKB + fee + change
	require.Len(t, tx.Inputs, 1)

	inputs := h.inputsCapacity(t, tx)
	fee := inputs - tx.OutputsCapacity()
	assert.Equal(t, h.balancer.FeeRate.Fee(tx.SizeInBlock()), fee)
}
