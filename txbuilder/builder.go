// Package txbuilder assembles transactions: builders lay out the outputs
// a transfer needs, the balancer funds them, and BuildUnlocked runs the
// unlock protocol over the result.
package txbuilder

import (
	"context"

	"github.com/nervos-community/light-wallet/errors"
	"github.com/nervos-community/light-wallet/resolver"
	"github.com/nervos-community/light-wallet/types"
	"github.com/nervos-community/light-wallet/unlock"
)

// Builder produces the base transaction for one operation: outputs, data
// and any operation-specific inputs, deps and witnesses. Capacity
// balancing and signing happen afterwards.
type Builder interface {
	BuildBase(ctx context.Context) (*types.Transaction, error)
}

// CapacityTransferBuilder sends plain capacity to one or more recipients.
type CapacityTransferBuilder struct {
	Receivers []Receiver
}

type Receiver struct {
	Lock     *types.Script
	Capacity uint64
}

func (b *CapacityTransferBuilder) BuildBase(_ context.Context) (*types.Transaction, error) {
	if len(b.Receivers) == 0 {
		return nil, errors.NewInvalidArgumentError("transfer requires at least one receiver")
	}

	tx := &types.Transaction{}

	for _, r := range b.Receivers {
		output := &types.CellOutput{Capacity: r.Capacity, Lock: r.Lock}

		if min := output.OccupiedCapacity(0); r.Capacity < min {
			return nil, errors.NewInvalidArgumentError(
				"receiver capacity %s CKB below the cell's occupied capacity %s CKB",
				types.FormatCapacity(r.Capacity), types.FormatCapacity(min))
		}

		tx.Outputs = append(tx.Outputs, output)
		tx.OutputsData = append(tx.OutputsData, []byte{})
	}

	return tx, nil
}

// BuildUnlocked runs the full pipeline: build the base transaction,
// balance its capacity, partition it into script groups and unlock them.
// A group the registry cannot serve fails the build with
// PartiallyUnlocked; a fully signed transaction is ready to broadcast.
func BuildUnlocked(ctx context.Context, builder Builder, balancer *CapacityBalancer, txDeps resolver.TxDepProvider, unlockers unlock.Registry) (*types.Transaction, error) {
	tx, err := builder.BuildBase(ctx)
	if err != nil {
		return nil, err
	}

	if err := balancer.BalanceTxCapacity(ctx, tx); err != nil {
		return nil, err
	}

	groups, err := unlock.BuildScriptGroups(ctx, tx, txDeps)
	if err != nil {
		return nil, err
	}

	stillLocked, err := unlock.UnlockTx(tx, groups, unlockers)
	if err != nil {
		return nil, err
	}

	if len(stillLocked) > 0 {
		return nil, errors.NewPartiallyUnlockedError(
			"%d of %d lock groups could not be unlocked (first: %s)",
			len(stillLocked), len(unlock.LockGroups(groups)), stillLocked[0].Script)
	}

	if err := tx.Validate(); err != nil {
		return nil, err
	}

	return tx, nil
}
