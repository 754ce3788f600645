package dao

import (
	"math/big"

	"github.com/nervos-community/light-wallet/errors"
	"github.com/nervos-community/light-wallet/types"
)

// Payout computes what a deposit is worth at withdrawal:
// floor(capacity * AR_withdraw / AR_deposit), carried out in arbitrary
// precision so the intermediate product cannot overflow.
func Payout(capacity uint64, depositHeader, withdrawHeader *types.Header) (uint64, error) {
	arDeposit := depositHeader.AccumulatedRate()
	arWithdraw := withdrawHeader.AccumulatedRate()

	if arDeposit == 0 {
		return 0, errors.NewLedgerUnavailableError("deposit header %s carries a zero accumulated rate", depositHeader.Hash)
	}

	if arWithdraw < arDeposit {
		return 0, errors.NewLedgerUnavailableError(
			"accumulated rate regressed: deposit %d, withdraw %d", arDeposit, arWithdraw)
	}

	payout := new(big.Int).SetUint64(capacity)
	payout.Mul(payout, new(big.Int).SetUint64(arWithdraw))
	payout.Div(payout, new(big.Int).SetUint64(arDeposit))

	if !payout.IsUint64() {
		return 0, errors.NewTxError("payout overflows u64 (capacity %d)", capacity)
	}

	return payout.Uint64(), nil
}

// MinimalUnlockPoint is the earliest epoch a prepared deposit can be
// withdrawn at: deposits lock in whole 180-epoch periods measured from
// the deposit epoch.
func MinimalUnlockPoint(depositHeader, prepareHeader *types.Header) types.EpochNumberWithFraction {
	depositEpoch := depositHeader.Epoch
	prepareEpoch := prepareHeader.Epoch

	// how many full epochs the deposit has been sitting, rounding any
	// fractional epoch up
	depositedEpochs := prepareEpoch.Number() - depositEpoch.Number()

	prepareFraction := prepareEpoch.Index() * depositEpoch.Length()
	depositFraction := depositEpoch.Index() * prepareEpoch.Length()

	if prepareFraction > depositFraction {
		depositedEpochs++
	}

	periods := (depositedEpochs + types.DaoLockPeriodEpochs - 1) / types.DaoLockPeriodEpochs
	if periods == 0 {
		periods = 1
	}

	return types.NewEpochNumberWithFraction(
		depositEpoch.Number()+periods*types.DaoLockPeriodEpochs,
		depositEpoch.Index(),
		depositEpoch.Length(),
	)
}
