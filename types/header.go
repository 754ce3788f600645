package types

import "encoding/binary"

// Header carries the block-header fields the wallet reads. Dao is the
// 32-byte accumulated DAO statistics field; the accumulated interest rate
// lives at a fixed offset inside it.
type Header struct {
	Hash       Hash
	ParentHash Hash
	Number     uint64
	Epoch      EpochNumberWithFraction
	Timestamp  uint64
	Dao        [32]byte
}

const accumulatedRateOffset = 8

// AccumulatedRate returns the block's accumulated interest rate (AR): a
// monotonically increasing factor used to compute DAO interest between
// two blocks.
func (h *Header) AccumulatedRate() uint64 {
	return binary.LittleEndian.Uint64(h.Dao[accumulatedRateOffset : accumulatedRateOffset+8])
}

// SetAccumulatedRate writes the AR slot. Used when assembling headers in
// tests and by the JSON decoding layer.
func (h *Header) SetAccumulatedRate(ar uint64) {
	binary.LittleEndian.PutUint64(h.Dao[accumulatedRateOffset:accumulatedRateOffset+8], ar)
}
