package types

import "fmt"

// EpochNumberWithFraction packs an epoch position into a u64 the way the
// ledger does: epoch number in the low 24 bits, block index within the
// epoch in the next 16, epoch length in the 16 above that.
type EpochNumberWithFraction uint64

const (
	epochNumberBits = 24
	epochIndexBits  = 16
	epochLengthBits = 16

	epochNumberMask = (1 << epochNumberBits) - 1
	epochIndexMask  = (1 << epochIndexBits) - 1
	epochLengthMask = (1 << epochLengthBits) - 1
)

// sinceFlagAbsoluteEpoch marks a since value as an absolute
// epoch-with-fraction bound (metric flag 0b01 in the top byte).
const sinceFlagAbsoluteEpoch uint64 = 0x2000_0000_0000_0000

func NewEpochNumberWithFraction(number, index, length uint64) EpochNumberWithFraction {
	return EpochNumberWithFraction(
		(length&epochLengthMask)<<(epochNumberBits+epochIndexBits) |
			(index&epochIndexMask)<<epochNumberBits |
			number&epochNumberMask)
}

func (e EpochNumberWithFraction) Number() uint64 {
	return uint64(e) & epochNumberMask
}

func (e EpochNumberWithFraction) Index() uint64 {
	return (uint64(e) >> epochNumberBits) & epochIndexMask
}

func (e EpochNumberWithFraction) Length() uint64 {
	return (uint64(e) >> (epochNumberBits + epochIndexBits)) & epochLengthMask
}

// AsSince encodes the epoch as an absolute epoch-based since value for a
// transaction input.
func (e EpochNumberWithFraction) AsSince() uint64 {
	return sinceFlagAbsoluteEpoch | uint64(e)
}

func (e EpochNumberWithFraction) String() string {
	return fmt.Sprintf("%d(%d/%d)", e.Number(), e.Index(), e.Length())
}
