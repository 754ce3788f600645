package resolver

import (
	"github.com/nervos-community/light-wallet/errors"
	"github.com/nervos-community/light-wallet/rpc"
	"github.com/nervos-community/light-wallet/types"
)

// GenesisCellDepResolver maps script kinds to the system cells created in
// the genesis block: transaction 0 deploys the code cells, transaction 1
// wraps them in dep groups.
type GenesisCellDepResolver struct {
	deps map[types.ScriptID]types.CellDep
}

// FromGenesis scans the genesis block and records the cell deps for the
// sighash, multisig and DAO scripts. The DAO code cell is referenced
// directly; the lock scripts go through their dep groups.
func FromGenesis(genesis *rpc.Block) (*GenesisCellDepResolver, error) {
	if len(genesis.Transactions) < 2 {
		return nil, errors.NewLedgerUnavailableError("genesis block has %d transactions, expected at least 2", len(genesis.Transactions))
	}

	tx0Hash, err := types.HexToHash(genesis.Transactions[0].Hash)
	if err != nil {
		return nil, err
	}

	tx1Hash, err := types.HexToHash(genesis.Transactions[1].Hash)
	if err != nil {
		return nil, err
	}

	r := &GenesisCellDepResolver{deps: map[types.ScriptID]types.CellDep{}}

	// locate the code cells by their type script hash
	for index, output := range genesis.Transactions[0].Outputs {
		if output.Type == nil {
			continue
		}

		codeHash, err := types.HexToHash(output.Type.CodeHash)
		if err != nil {
			return nil, err
		}

		typeScript := types.NewScript(codeHash, types.ScriptHashType(output.Type.HashType), []byte(output.Type.Args))

		switch typeScript.Hash() {
		case types.SighashTypeHash:
			r.deps[types.NewScriptIDType(types.SighashTypeHash)] = types.CellDep{
				OutPoint: types.OutPoint{TxHash: tx1Hash, Index: types.GenesisSighashGroupIndex},
				DepType:  types.DepTypeDepGroup,
			}
		case types.MultisigTypeHash:
			r.deps[types.NewScriptIDType(types.MultisigTypeHash)] = types.CellDep{
				OutPoint: types.OutPoint{TxHash: tx1Hash, Index: types.GenesisMultisigGroupIndex},
				DepType:  types.DepTypeDepGroup,
			}
		case types.DaoTypeHash:
			r.deps[types.NewScriptIDType(types.DaoTypeHash)] = types.CellDep{
				OutPoint: types.OutPoint{TxHash: tx0Hash, Index: uint32(index)},
				DepType:  types.DepTypeCode,
			}
		}
	}

	if _, ok := r.deps[types.NewScriptIDType(types.SighashTypeHash)]; !ok {
		return nil, errors.NewLedgerUnavailableError("genesis block carries no sighash system cell")
	}

	return r, nil
}

func (r *GenesisCellDepResolver) ResolveDep(id types.ScriptID) (types.CellDep, bool) {
	dep, ok := r.deps[id]
	return dep, ok
}

// StaticCellDepResolver is a fixed table, used by tests and by callers
// that already know their deps.
type StaticCellDepResolver struct {
	deps map[types.ScriptID]types.CellDep
}

func NewStaticCellDepResolver() *StaticCellDepResolver {
	return &StaticCellDepResolver{deps: map[types.ScriptID]types.CellDep{}}
}

func (r *StaticCellDepResolver) Add(id types.ScriptID, dep types.CellDep) {
	r.deps[id] = dep
}

func (r *StaticCellDepResolver) ResolveDep(id types.ScriptID) (types.CellDep, bool) {
	dep, ok := r.deps[id]
	return dep, ok
}
