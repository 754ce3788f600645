// Package resolver provides the dependency lookups transaction building
// needs: cell deps for known script kinds, block headers, and the outputs
// referenced by transaction inputs.
package resolver

import (
	"context"

	"github.com/nervos-community/light-wallet/types"
)

// CellDepResolver maps a script kind to the cell dependency a transaction
// must declare to use it.
type CellDepResolver interface {
	ResolveDep(id types.ScriptID) (types.CellDep, bool)
}

// HeaderResolver fetches historical block headers for header_deps and DAO
// interest computation.
type HeaderResolver interface {
	HeaderByHash(ctx context.Context, hash types.Hash) (*types.Header, error)
}

// TxDepProvider resolves the output (and its data) an out-point refers
// to: the lock scripts of transaction inputs are resolved through it.
type TxDepProvider interface {
	GetCellOutput(ctx context.Context, op types.OutPoint) (*types.CellOutput, []byte, error)
}
