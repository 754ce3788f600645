// Package dao builds the three transactions of the DAO lifecycle
// (deposit, prepare, withdraw) and computes the interest a deposit has
// earned from block headers.
package dao

import (
	"bytes"
	"context"
	"encoding/binary"

	"github.com/looplab/fsm"

	"github.com/nervos-community/light-wallet/errors"
	"github.com/nervos-community/light-wallet/stores/cell"
	"github.com/nervos-community/light-wallet/types"
)

// Phase is where a cell sits in the DAO lifecycle. A cell moves strictly
// forward: deposit creates it, prepare rewrites its data, withdraw melts
// it back into plain capacity.
type Phase string

const (
	PhaseNone      Phase = "none"
	PhaseDeposited Phase = "deposited"
	PhasePrepared  Phase = "prepared"
	PhaseWithdrawn Phase = "withdrawn"
)

const (
	eventDeposit  = "deposit"
	eventPrepare  = "prepare"
	eventWithdraw = "withdraw"
)

// PhaseOfCell reads a live cell's phase from its type script and data:
// DAO cells carry exactly 8 bytes of data, all zero while deposited, the
// deposit block number once prepared.
func PhaseOfCell(c *cell.LiveCell) Phase {
	if c.Output.Type == nil || c.Output.Type.CodeHash != types.DaoTypeHash {
		return PhaseNone
	}

	if len(c.OutputData) != types.DaoDataLength {
		return PhaseNone
	}

	if bytes.Equal(c.OutputData, make([]byte, types.DaoDataLength)) {
		return PhaseDeposited
	}

	return PhasePrepared
}

// depositBlockNumber reads a prepared cell's data slot.
func depositBlockNumber(data []byte) uint64 {
	return binary.LittleEndian.Uint64(data[:types.DaoDataLength])
}

// Lifecycle tracks one cell's progress through the DAO phases and rejects
// out-of-order transitions with the matching typed error.
type Lifecycle struct {
	machine *fsm.FSM
}

func NewLifecycle(initial Phase) *Lifecycle {
	return &Lifecycle{
		machine: fsm.NewFSM(
			string(initial),
			fsm.Events{
				{Name: eventDeposit, Src: []string{string(PhaseNone)}, Dst: string(PhaseDeposited)},
				{Name: eventPrepare, Src: []string{string(PhaseDeposited)}, Dst: string(PhasePrepared)},
				{Name: eventWithdraw, Src: []string{string(PhasePrepared)}, Dst: string(PhaseWithdrawn)},
			},
			fsm.Callbacks{},
		),
	}
}

func (l *Lifecycle) Phase() Phase {
	return Phase(l.machine.Current())
}

func (l *Lifecycle) Deposit(ctx context.Context) error {
	if err := l.machine.Event(ctx, eventDeposit); err != nil {
		return errors.NewTxError("cannot deposit from phase %s", l.Phase(), err)
	}

	return nil
}

func (l *Lifecycle) Prepare(ctx context.Context) error {
	if err := l.machine.Event(ctx, eventPrepare); err != nil {
		return errors.NewNotDepositedError("cannot prepare from phase %s", l.Phase(), err)
	}

	return nil
}

func (l *Lifecycle) Withdraw(ctx context.Context) error {
	if err := l.machine.Event(ctx, eventWithdraw); err != nil {
		return errors.NewNotPreparedError("cannot withdraw from phase %s", l.Phase(), err)
	}

	return nil
}
