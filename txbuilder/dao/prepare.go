package dao

import (
	"context"
	"encoding/binary"

	"github.com/nervos-community/light-wallet/errors"
	"github.com/nervos-community/light-wallet/resolver"
	"github.com/nervos-community/light-wallet/stores/cell"
	"github.com/nervos-community/light-wallet/types"
)

// DepositCell pairs a deposit-phase cell with the header of the block
// that committed it. The header becomes a header dep so the type script
// can verify the block number written into the prepared cell.
type DepositCell struct {
	Cell   *cell.LiveCell
	Header *types.Header
}

// PrepareBuilder starts the withdrawal clock on one or more deposits:
// each deposit cell is consumed and recreated byte for byte except for
// the data, which becomes the deposit block number. That number is the
// slot the interest computation later reads AR_deposit from.
type PrepareBuilder struct {
	deps resolver.CellDepResolver

	Deposits []DepositCell
}

func NewPrepareBuilder(deps resolver.CellDepResolver, deposits ...DepositCell) *PrepareBuilder {
	return &PrepareBuilder{deps: deps, Deposits: deposits}
}

func (b *PrepareBuilder) BuildBase(ctx context.Context) (*types.Transaction, error) {
	if len(b.Deposits) == 0 {
		return nil, errors.NewInvalidArgumentError("prepare requires at least one deposit cell")
	}

	dep, err := daoCellDep(b.deps)
	if err != nil {
		return nil, err
	}

	tx := &types.Transaction{CellDeps: []types.CellDep{dep}}

	headerSeen := map[types.Hash]bool{}
	lockSeen := map[types.Hash]bool{}

	for _, d := range b.Deposits {
		if phase := PhaseOfCell(d.Cell); phase != PhaseDeposited {
			return nil, errors.NewNotDepositedError("cell %s-%d is in phase %s, not deposited",
				d.Cell.OutPoint.TxHash, d.Cell.OutPoint.Index, phase)
		}

		if d.Header.Number != d.Cell.BlockNumber {
			return nil, errors.NewInvalidArgumentError("deposit header is for block %d, cell was committed at %d",
				d.Header.Number, d.Cell.BlockNumber)
		}

		lifecycle := NewLifecycle(PhaseDeposited)
		if err := lifecycle.Prepare(ctx); err != nil {
			return nil, err
		}

		if !headerSeen[d.Header.Hash] {
			headerSeen[d.Header.Hash] = true
			tx.HeaderDeps = append(tx.HeaderDeps, d.Header.Hash)
		}

		data := make([]byte, types.DaoDataLength)
		binary.LittleEndian.PutUint64(data, d.Header.Number)

		// the first input of each lock carries the signature placeholder
		witness := []byte{}
		if lockHash := d.Cell.Output.Lock.Hash(); !lockSeen[lockHash] {
			lockSeen[lockHash] = true
			witness = types.NewPlaceholderWitness().Serialize()
		}

		tx.Inputs = append(tx.Inputs, types.CellInput{PreviousOutput: d.Cell.OutPoint})
		tx.Outputs = append(tx.Outputs, &types.CellOutput{
			Capacity: d.Cell.Output.Capacity,
			Lock:     d.Cell.Output.Lock,
			Type:     d.Cell.Output.Type,
		})
		tx.OutputsData = append(tx.OutputsData, data)
		tx.Witnesses = append(tx.Witnesses, witness)
	}

	return tx, nil
}
