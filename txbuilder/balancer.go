package txbuilder

import (
	"context"

	"github.com/nervos-community/light-wallet/errors"
	"github.com/nervos-community/light-wallet/resolver"
	"github.com/nervos-community/light-wallet/stores/cell"
	"github.com/nervos-community/light-wallet/types"
	"github.com/nervos-community/light-wallet/ulogger"
)

// CapacitySource is one lock script the balancer may draw live cells
// from. PlaceholderWitness is the serialized witness reserved for the
// source's first input so fee estimation sees the final transaction size;
// when nil, the 65-byte sighash placeholder is used.
type CapacitySource struct {
	Lock               *types.Script
	PlaceholderWitness []byte
}

func (s CapacitySource) placeholder() []byte {
	if s.PlaceholderWitness != nil {
		return s.PlaceholderWitness
	}

	return types.NewPlaceholderWitness().Serialize()
}

// CapacityBalancer adds inputs and a change output to a transaction until
// inputs cover outputs plus the fee at the configured rate. Fee and input
// selection depend on each other, so the balancer iterates to a fixed
// point: more inputs grow the transaction, which grows the fee, which may
// demand more inputs.
type CapacityBalancer struct {
	logger    ulogger.Logger
	collector cell.Collector
	deps      resolver.CellDepResolver
	txDeps    resolver.TxDepProvider

	FeeRate    types.FeeRate
	ChangeLock *types.Script
	Sources    []CapacitySource

	// ForceSmallChangeAsFee widens the dust threshold: change at or below
	// it is given to the miner instead of creating a change cell.
	ForceSmallChangeAsFee *uint64
}

func NewCapacityBalancer(logger ulogger.Logger, collector cell.Collector, deps resolver.CellDepResolver, txDeps resolver.TxDepProvider, feeRate types.FeeRate, changeLock *types.Script) *CapacityBalancer {
	return &CapacityBalancer{
		logger:     logger.New("balancer"),
		collector:  collector,
		deps:       deps,
		txDeps:     txDeps,
		FeeRate:    feeRate,
		ChangeLock: changeLock,
		Sources:    []CapacitySource{{Lock: changeLock}},
	}
}

// changeOutput is the change cell template; its occupied capacity is the
// default dust threshold.
func (b *CapacityBalancer) changeOutput() *types.CellOutput {
	return &types.CellOutput{Capacity: 0, Lock: b.ChangeLock}
}

func (b *CapacityBalancer) minChange() uint64 {
	return b.changeOutput().OccupiedCapacity(0)
}

// foldsToFee reports whether the given leftover is small enough to give
// to the miner instead of minting a change cell.
func (b *CapacityBalancer) foldsToFee(leftover uint64) bool {
	if leftover < b.minChange() {
		return true
	}

	return b.ForceSmallChangeAsFee != nil && leftover <= *b.ForceSmallChangeAsFee
}

// BalanceTxCapacity mutates tx in place: collected inputs and their
// witness placeholders are appended, the cell dep of every source lock is
// added, and either a change output is appended or the remainder folds
// into the fee. Outputs already on the transaction are never touched.
func (b *CapacityBalancer) BalanceTxCapacity(ctx context.Context, tx *types.Transaction) error {
	if len(tx.Outputs) != len(tx.OutputsData) {
		return errors.NewTxError("outputs (%d) and outputs_data (%d) length mismatch", len(tx.Outputs), len(tx.OutputsData))
	}

	if b.ChangeLock == nil {
		return errors.NewConfigurationError("balancer requires a change lock")
	}

	base := *tx // shallow copy keeps the caller's tx untouched on failure

	outputsCapacity := tx.OutputsCapacity()

	// inputs the builder put on the transaction already contribute
	baseCapacity, err := b.baseInputsCapacity(ctx, &base)
	if err != nil {
		return err
	}

	// seed target: outputs plus a viable change cell plus the base fee
	target := outputsCapacity + b.minChange() + b.FeeRate.Fee(base.SizeInBlock())

	for {
		candidate, inputsCapacity, err := b.assemble(ctx, &base, baseCapacity, target)
		if err != nil {
			return err
		}

		exhausted := inputsCapacity < target

		// change path: candidate already carries the change output
		fee := b.FeeRate.Fee(candidate.SizeInBlock())
		need := outputsCapacity + fee + b.minChange()

		if inputsCapacity >= need {
			change := inputsCapacity - outputsCapacity - fee
			candidate.Outputs[len(candidate.Outputs)-1].Capacity = change

			b.logger.Debugf("balanced: %d inputs, fee %d, change %d", len(candidate.Inputs), fee, change)

			*tx = *candidate

			return nil
		}

		if !exhausted {
			target = need
			continue
		}

		// sources are drained; see whether the remainder can fold into fee
		withoutChange := *candidate
		withoutChange.Outputs = candidate.Outputs[:len(candidate.Outputs)-1]
		withoutChange.OutputsData = candidate.OutputsData[:len(candidate.OutputsData)-1]

		feeNoChange := b.FeeRate.Fee(withoutChange.SizeInBlock())

		if inputsCapacity >= outputsCapacity+feeNoChange {
			leftover := inputsCapacity - outputsCapacity - feeNoChange
			if b.foldsToFee(leftover) {
				b.logger.Debugf("balanced: %d inputs, fee %d (leftover %d folded)", len(withoutChange.Inputs), feeNoChange+leftover, leftover)

				*tx = withoutChange

				return nil
			}
		}

		return errors.NewInsufficientCapacityError(
			"need %s CKB, sources hold %s CKB",
			types.FormatCapacity(need), types.FormatCapacity(inputsCapacity))
	}
}

func (b *CapacityBalancer) baseInputsCapacity(ctx context.Context, base *types.Transaction) (uint64, error) {
	var total uint64

	for _, in := range base.Inputs {
		output, _, err := b.txDeps.GetCellOutput(ctx, in.PreviousOutput)
		if err != nil {
			return 0, err
		}

		total += output.Capacity
	}

	return total, nil
}

// assemble collects inputs worth at least target capacity and returns a
// candidate transaction: base plus inputs, witness placeholders, source
// cell deps and a zero-capacity change output at the end.
func (b *CapacityBalancer) assemble(ctx context.Context, base *types.Transaction, baseCapacity, target uint64) (*types.Transaction, uint64, error) {
	candidate := &types.Transaction{
		Version:     base.Version,
		CellDeps:    append([]types.CellDep{}, base.CellDeps...),
		HeaderDeps:  append([]types.Hash{}, base.HeaderDeps...),
		Inputs:      append([]types.CellInput{}, base.Inputs...),
		Outputs:     append([]*types.CellOutput{}, base.Outputs...),
		OutputsData: append([][]byte{}, base.OutputsData...),
		Witnesses:   append([][]byte{}, base.Witnesses...),
	}

	// every input needs a witness slot before more are appended
	for len(candidate.Witnesses) < len(candidate.Inputs) {
		candidate.Witnesses = append(candidate.Witnesses, []byte{})
	}

	seen := map[types.OutPoint]bool{}
	for _, in := range candidate.Inputs {
		seen[in.PreviousOutput] = true
	}

	total := baseCapacity

	for _, source := range b.Sources {
		if total >= target {
			break
		}

		query := cell.NewQueryByLock(source.Lock)
		query.MinTotalCapacity = target - total

		// plain capacity only: cells with data or a type script carry
		// their own semantics and must not be melted for fees. Both
		// exclusions run inside the query so skipped cells never count
		// toward the collection stop condition.
		query.DataLenRange = cell.NewExactRange(0)
		query.SecondaryScriptLenRange = cell.NewExactRange(0)
		query.ExcludeOutPoints = seen

		cells, _, err := cell.Collect(ctx, b.collector, query)
		if err != nil {
			return nil, 0, err
		}

		sourceHasInput := false

		for _, live := range cells {
			seen[live.OutPoint] = true
			candidate.Inputs = append(candidate.Inputs, types.CellInput{PreviousOutput: live.OutPoint})

			if sourceHasInput {
				candidate.Witnesses = append(candidate.Witnesses, []byte{})
			} else {
				candidate.Witnesses = append(candidate.Witnesses, source.placeholder())
				sourceHasInput = true
			}

			total += live.Output.Capacity
		}

		if sourceHasInput {
			b.addCellDep(candidate, source.Lock)
		}
	}

	change := b.changeOutput()
	candidate.Outputs = append(candidate.Outputs, change)
	candidate.OutputsData = append(candidate.OutputsData, []byte{})

	return candidate, total, nil
}

func (b *CapacityBalancer) addCellDep(tx *types.Transaction, lock *types.Script) {
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
