package dao

import (
	"context"
	"encoding/binary"

	"github.com/nervos-community/light-wallet/errors"
	"github.com/nervos-community/light-wallet/resolver"
	"github.com/nervos-community/light-wallet/stores/cell"
	"github.com/nervos-community/light-wallet/types"
)

// PreparedCell pairs a prepared cell with the two headers its interest
// is computed from: the block the deposit was committed at (AR_deposit
// slot) and the block that committed the prepare (AR_withdraw slot).
// Both become header deps.
type PreparedCell struct {
	Cell           *cell.LiveCell
	DepositHeader  *types.Header
	WithdrawHeader *types.Header
}

// WithdrawBuilder melts prepared cells back into plain capacity plus the
// interest they earned. The transaction is self-funding: the single
// output carries the summed payout minus the fee, so no balancing pass
// runs over it.
type WithdrawBuilder struct {
	deps resolver.CellDepResolver

	Cells []PreparedCell

	// To receives the payout; FeeRate prices the transaction.
	To      *types.Script
	FeeRate types.FeeRate
}

func NewWithdrawBuilder(deps resolver.CellDepResolver, to *types.Script, feeRate types.FeeRate, cells ...PreparedCell) *WithdrawBuilder {
	return &WithdrawBuilder{
		deps:    deps,
		Cells:   cells,
		To:      to,
		FeeRate: feeRate,
	}
}

func (b *WithdrawBuilder) BuildBase(ctx context.Context) (*types.Transaction, error) {
	if len(b.Cells) == 0 {
		return nil, errors.NewInvalidArgumentError("withdraw requires at least one prepared cell")
	}

	daoDep, err := daoCellDep(b.deps)
	if err != nil {
		return nil, err
	}

	tx := &types.Transaction{CellDeps: []types.CellDep{daoDep}}

	headerIndex := map[types.Hash]int{}
	headerDep := func(h *types.Header) int {
		idx, ok := headerIndex[h.Hash]
		if !ok {
			idx = len(tx.HeaderDeps)
			headerIndex[h.Hash] = idx
			tx.HeaderDeps = append(tx.HeaderDeps, h.Hash)
		}

		return idx
	}

	lockSeen := map[types.Hash]bool{}

	var payout uint64

	for _, p := range b.Cells {
		if phase := PhaseOfCell(p.Cell); phase != PhasePrepared {
			return nil, errors.NewNotPreparedError("cell %s-%d is in phase %s, not prepared",
				p.Cell.OutPoint.TxHash, p.Cell.OutPoint.Index, phase)
		}

		if number := depositBlockNumber(p.Cell.OutputData); number != p.DepositHeader.Number {
			return nil, errors.NewInvalidArgumentError("prepared cell points at deposit block %d, header is for %d",
				number, p.DepositHeader.Number)
		}

		lifecycle := NewLifecycle(PhasePrepared)
		if err := lifecycle.Withdraw(ctx); err != nil {
			return nil, err
		}

		b.addLockDep(tx, p.Cell.Output.Lock)

		depositIdx := headerDep(p.DepositHeader)
		headerDep(p.WithdrawHeader)

		cellPayout, err := Payout(p.Cell.Output.Capacity, p.DepositHeader, p.WithdrawHeader)
		if err != nil {
			return nil, err
		}

		payout += cellPayout

		// the type script reads each input's deposit header through the
		// witness: the input_type field holds the header's index in
		// header_deps. The first input of each lock also carries the
		// signature placeholder.
		witness := &types.WitnessArgs{}
		if lockHash := p.Cell.Output.Lock.Hash(); !lockSeen[lockHash] {
			lockSeen[lockHash] = true
			witness = types.NewPlaceholderWitness()
		}

		witness.InputType = make([]byte, 8)
		binary.LittleEndian.PutUint64(witness.InputType, uint64(depositIdx))

		tx.Inputs = append(tx.Inputs, types.CellInput{
			Since:          MinimalUnlockPoint(p.DepositHeader, p.WithdrawHeader).AsSince(),
			PreviousOutput: p.Cell.OutPoint,
		})
		tx.Witnesses = append(tx.Witnesses, witness.Serialize())
	}

	tx.Outputs = []*types.CellOutput{{Capacity: payout, Lock: b.To}}
	tx.OutputsData = [][]byte{{}}

	// the capacity field is fixed width, so the fee can be computed once
	// and carved out of the payout
	fee := b.FeeRate.Fee(tx.SizeInBlock())

	min := tx.Outputs[0].OccupiedCapacity(0)
	if payout < fee+min {
		return nil, errors.NewInsufficientCapacityError(
			"payout %s CKB cannot cover fee %s CKB plus a %s CKB output",
			types.FormatCapacity(payout), types.FormatCapacity(fee), types.FormatCapacity(min))
	}

	tx.Outputs[0].Capacity = payout - fee

	return tx, nil
}

func (b *WithdrawBuilder) addLockDep(tx *types.Transaction, lock *types.Script) {
	dep, ok := b.deps.ResolveDep(lock.ID())
	if !ok {
		return
	}

	for _, existing := range tx.CellDeps {
		if existing == dep {
			return
		}
	}

	tx.CellDeps = append(tx.CellDeps, dep)
}
