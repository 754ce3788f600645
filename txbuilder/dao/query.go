package dao

import (
	"context"
	"math"

	"github.com/nervos-community/light-wallet/stores/cell"
	"github.com/nervos-community/light-wallet/types"
)

// daoQuery matches every DAO cell owned by the lock: searched by lock
// with the DAO type as secondary filter, exactly 8 bytes of data, drained
// fully.
func daoQuery(lock *types.Script) *cell.Query {
	q := cell.NewQueryByLock(lock)
	q.SecondaryScript = daoTypeScript()
	q.DataLenRange = cell.NewExactRange(types.DaoDataLength)
	q.MinTotalCapacity = math.MaxUint64

	return q
}

func cellsInPhase(ctx context.Context, collector cell.Collector, lock *types.Script, phase Phase) ([]*cell.LiveCell, error) {
	cells, _, err := cell.Collect(ctx, collector, daoQuery(lock))
	if err != nil {
		return nil, err
	}

	matching := make([]*cell.LiveCell, 0, len(cells))

	for _, c := range cells {
		if PhaseOfCell(c) == phase {
			matching = append(matching, c)
		}
	}

	return matching, nil
}

// DepositedCells lists the lock's DAO cells still in the deposit phase.
func DepositedCells(ctx context.Context, collector cell.Collector, lock *types.Script) ([]*cell.LiveCell, error) {
	return cellsInPhase(ctx, collector, lock, PhaseDeposited)
}

// PreparedCells lists the lock's DAO cells awaiting withdrawal.
func PreparedCells(ctx context.Context, collector cell.Collector, lock *types.Script) ([]*cell.LiveCell, error) {
	return cellsInPhase(ctx, collector, lock, PhasePrepared)
}
