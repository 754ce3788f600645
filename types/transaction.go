package types

import (
	"github.com/nervos-community/light-wallet/errors"
)

type DepType string

const (
	DepTypeCode     DepType = "code"
	DepTypeDepGroup DepType = "dep_group"
)

func (d DepType) Byte() byte {
	if d == DepTypeDepGroup {
		return 0x01
	}

	return 0x00
}

// OutPoint references the output a transaction created, by transaction
// hash and output index.
type OutPoint struct {
	TxHash Hash
	Index  uint32
}

func (o OutPoint) Serialize() []byte {
	out := make([]byte, 0, 36)
	out = append(out, o.TxHash.Bytes()...)
	out = append(out, uint32LE(o.Index)...)

	return out
}

type CellDep struct {
	OutPoint OutPoint
	DepType  DepType
}

func (c CellDep) Serialize() []byte {
	out := make([]byte, 0, 37)
	out = append(out, c.OutPoint.Serialize()...)
	out = append(out, c.DepType.Byte())

	return out
}

type CellInput struct {
	Since          uint64
	PreviousOutput OutPoint
}

func (c CellInput) Serialize() []byte {
	out := make([]byte, 0, 44)
	out = append(out, uint64LE(c.Since)...)
	out = append(out, c.PreviousOutput.Serialize()...)

	return out
}

// CellOutput is a ledger cell being created: its capacity, lock and
// optional type script. Output data travels separately (OutputsData), as
// on the wire.
type CellOutput struct {
	Capacity uint64
	Lock     *Script
	Type     *Script
}

func (c *CellOutput) Serialize() []byte {
	var typeBytes []byte
	if c.Type != nil {
		typeBytes = c.Type.Serialize()
	}

	return moleculeTable(
		uint64LE(c.Capacity),
		c.Lock.Serialize(),
		typeBytes,
	)
}

// OccupiedCapacity is the minimum capacity the cell must carry to pay for
// its own on-chain footprint, in shannons: one CKByte per occupied byte.
func (c *CellOutput) OccupiedCapacity(dataLen int) uint64 {
	occupied := uint64(8)*OneCKB + c.Lock.OccupiedCapacity() // capacity field + lock
	if c.Type != nil {
		occupied += c.Type.OccupiedCapacity()
	}

	return occupied + uint64(dataLen)*OneCKB
}

// Transaction is the wallet-side transaction being assembled. Only the
// balancer appends inputs/outputs and only the unlock protocol fills
// witness slots.
type Transaction struct {
	Version     uint32
	CellDeps    []CellDep
	HeaderDeps  []Hash
	Inputs      []CellInput
	Outputs     []*CellOutput
	OutputsData [][]byte
	Witnesses   [][]byte
}

func (tx *Transaction) serializeRaw() []byte {
	cellDeps := make([]byte, 0, 37*len(tx.CellDeps))
	for _, dep := range tx.CellDeps {
		cellDeps = append(cellDeps, dep.Serialize()...)
	}

	headerDeps := make([]byte, 0, 32*len(tx.HeaderDeps))
	for _, h := range tx.HeaderDeps {
		headerDeps = append(headerDeps, h.Bytes()...)
	}

	inputs := make([]byte, 0, 44*len(tx.Inputs))
	for _, in := range tx.Inputs {
		inputs = append(inputs, in.Serialize()...)
	}

	outputs := make([][]byte, 0, len(tx.Outputs))
	for _, out := range tx.Outputs {
		outputs = append(outputs, out.Serialize())
	}

	outputsData := make([][]byte, 0, len(tx.OutputsData))
	for _, data := range tx.OutputsData {
		outputsData = append(outputsData, moleculeBytes(data))
	}

	return moleculeTable(
		uint32LE(tx.Version),
		moleculeFixVec(len(tx.CellDeps), cellDeps),
		moleculeFixVec(len(tx.HeaderDeps), headerDeps),
		moleculeFixVec(len(tx.Inputs), inputs),
		moleculeDynVec(outputs...),
		moleculeDynVec(outputsData...),
	)
}

// Serialize produces the full wire form including witnesses.
func (tx *Transaction) Serialize() []byte {
	witnesses := make([][]byte, 0, len(tx.Witnesses))
	for _, w := range tx.Witnesses {
		witnesses = append(witnesses, moleculeBytes(w))
	}

	return moleculeTable(
		tx.serializeRaw(),
		moleculeDynVec(witnesses...),
	)
}

// Hash is computed over the raw transaction body; witnesses are excluded
// so signing cannot change the hash.
func (tx *Transaction) Hash() Hash {
	return Blake256(tx.serializeRaw())
}

// SizeInBlock is the size used for fee computation: the serialized
// transaction plus the 4-byte offset it occupies inside a block's
// transaction vector.
func (tx *Transaction) SizeInBlock() uint64 {
	return uint64(len(tx.Serialize())) + 4
}

// OutputsCapacity sums the capacity of all outputs.
func (tx *Transaction) OutputsCapacity() uint64 {
	var total uint64
	for _, out := range tx.Outputs {
		total += out.Capacity
	}

	return total
}

// Validate checks structural invariants that must hold before broadcast.
func (tx *Transaction) Validate() error {
	if len(tx.Outputs) != len(tx.OutputsData) {
		return errors.NewTxError("outputs (%d) and outputs_data (%d) length mismatch", len(tx.Outputs), len(tx.OutputsData))
	}

	if len(tx.Witnesses) < len(tx.Inputs) {
		return errors.NewTxError("witnesses (%d) shorter than inputs (%d)", len(tx.Witnesses), len(tx.Inputs))
	}

	return nil
}
