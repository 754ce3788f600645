package dao

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nervos-community/light-wallet/errors"
	"github.com/nervos-community/light-wallet/stores/cell"
	"github.com/nervos-community/light-wallet/types"
)

func TestLifecycleHappyPath(t *testing.T) {
	ctx := context.Background()
	l := NewLifecycle(PhaseNone)

	require.NoError(t, l.Deposit(ctx))
	assert.Equal(t, PhaseDeposited, l.Phase())

	require.NoError(t, l.Prepare(ctx))
	assert.Equal(t, PhasePrepared, l.Phase())

	require.NoError(t, l.Withdraw(ctx))
	assert.Equal(t, PhaseWithdrawn, l.Phase())
}

func TestLifecycleRejectsSkippedPhases(t *testing.T) {
	ctx := context.Background()

	// withdraw straight from deposit
	l := NewLifecycle(PhaseDeposited)
	err := l.Withdraw(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNotPrepared))
	assert.Equal(t, PhaseDeposited, l.Phase())

	// prepare a cell that was never deposited
	l = NewLifecycle(PhaseNone)
	err = l.Prepare(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNotDeposited))

	// prepare twice
	l = NewLifecycle(PhasePrepared)
	err = l.Prepare(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNotDeposited))

	// withdrawn is terminal
	l = NewLifecycle(PhaseWithdrawn)
	assert.Error(t, l.Deposit(ctx))
	assert.Error(t, l.Prepare(ctx))
	assert.Error(t, l.Withdraw(ctx))
}

func TestPhaseOfCell(t *testing.T) {
	lock := types.AccountID{}.LockScript()

	plain := &cell.LiveCell{
		Output: &types.CellOutput{Capacity: 100 * types.OneCKB, Lock: lock},
	}
	assert.Equal(t, PhaseNone, PhaseOfCell(plain))

	deposited := &cell.LiveCell{
		Output: &types.CellOutput{
			Capacity: 500 * types.OneCKB,
			Lock:     lock,
			Type:     daoTypeScript(),
		},
		OutputData: make([]byte, types.DaoDataLength),
	}
	assert.Equal(t, PhaseDeposited, PhaseOfCell(deposited))

	prepared := &cell.LiveCell{
		Output:     deposited.Output,
		OutputData: []byte{0x39, 0x30, 0, 0, 0, 0, 0, 0}, // block 12345
	}
	assert.Equal(t, PhasePrepared, PhaseOfCell(prepared))
	assert.Equal(t, uint64(12345), depositBlockNumber(prepared.OutputData))

	// data of the wrong length disqualifies the cell outright
	malformed := &cell.LiveCell{
		Output:     deposited.Output,
		OutputData: make([]byte, 4),
	}
	assert.Equal(t, PhaseNone, PhaseOfCell(malformed))
}
