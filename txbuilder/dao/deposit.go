package dao

import (
	"context"

	"github.com/nervos-community/light-wallet/errors"
	"github.com/nervos-community/light-wallet/resolver"
	"github.com/nervos-community/light-wallet/types"
)

// daoTypeScript is the type script every DAO cell carries.
func daoTypeScript() *types.Script {
	return types.NewScript(types.DaoTypeHash, types.HashTypeType, []byte{})
}

func daoCellDep(deps resolver.CellDepResolver) (types.CellDep, error) {
	dep, ok := deps.ResolveDep(types.NewScriptIDType(types.DaoTypeHash))
	if !ok {
		return types.CellDep{}, errors.NewConfigurationError("no cell dep registered for the dao type script")
	}

	return dep, nil
}

// DepositBuilder locks capacity into the DAO: one output carrying the DAO
// type script and 8 zero bytes of data. The balancer funds it.
type DepositBuilder struct {
	deps resolver.CellDepResolver

	// Lock owns the deposit and is the only lock that can prepare it.
	Lock     *types.Script
	Capacity uint64
}

func NewDepositBuilder(deps resolver.CellDepResolver, lock *types.Script, capacity uint64) *DepositBuilder {
	return &DepositBuilder{deps: deps, Lock: lock, Capacity: capacity}
}

func (b *DepositBuilder) BuildBase(_ context.Context) (*types.Transaction, error) {
	output := &types.CellOutput{
		Capacity: b.Capacity,
		Lock:     b.Lock,
		Type:     daoTypeScript(),
	}

	// the deposit must pay for its own footprint, data included
	if min := output.OccupiedCapacity(types.DaoDataLength); b.Capacity < min {
		return nil, errors.NewInvalidArgumentError(
			"deposit of %s CKB below the cell's occupied capacity %s CKB",
			types.FormatCapacity(b.Capacity), types.FormatCapacity(min))
	}

	dep, err := daoCellDep(b.deps)
	if err != nil {
		return nil, err
	}

	return &types.Transaction{
		CellDeps:    []types.CellDep{dep},
		Outputs:     []*types.CellOutput{output},
		OutputsData: [][]byte{make([]byte, types.DaoDataLength)},
	}, nil
}
