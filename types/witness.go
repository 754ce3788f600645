package types

import (
	"github.com/nervos-community/light-wallet/errors"
)

// WitnessArgs is the per-input authorization record: Lock carries the
// signature for the input's lock script, InputType/OutputType carry data
// for type scripts (the DAO withdraw uses InputType for the header-dep
// index). A nil field is absent on the wire; an empty non-nil field is
// present with zero length.
type WitnessArgs struct {
	Lock       []byte
	InputType  []byte
	OutputType []byte
}

// NewPlaceholderWitness returns a WitnessArgs whose Lock is zero-filled to
// the final signature length, so fee estimation sees the right size.
func NewPlaceholderWitness() *WitnessArgs {
	return &WitnessArgs{Lock: make([]byte, SignaturePlaceholderLength)}
}

func (w *WitnessArgs) Serialize() []byte {
	return moleculeTable(
		moleculeBytesOpt(w.Lock),
		moleculeBytesOpt(w.InputType),
		moleculeBytesOpt(w.OutputType),
	)
}

// DeserializeWitnessArgs parses a serialized WitnessArgs table.
func DeserializeWitnessArgs(data []byte) (*WitnessArgs, error) {
	fields, ok := moleculeReader{data: data}.fields(3)
	if !ok {
		return nil, errors.NewTxError("malformed witness args (%d bytes)", len(data))
	}

	w := &WitnessArgs{}

	for i, field := range fields {
		if len(field) == 0 {
			continue
		}

		value, ok := bytesValue(field)
		if !ok {
			return nil, errors.NewTxError("malformed witness args field %d", i)
		}

		switch i {
		case 0:
			w.Lock = value
		case 1:
			w.InputType = value
		case 2:
			w.OutputType = value
		}
	}

	return w, nil
}

// IsPlaceholder reports whether the lock field is still the zero-filled
// placeholder inserted during balancing.
func (w *WitnessArgs) IsPlaceholder() bool {
	if len(w.Lock) == 0 {
		return true
	}

	for _, b := range w.Lock {
		if b != 0 {
			return false
		}
	}

	return true
}
