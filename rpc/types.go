package rpc

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/nervos-community/light-wallet/errors"
	"github.com/nervos-community/light-wallet/types"
)

// Uint64 marshals as the 0x-prefixed hex scalar the ledger RPC uses.
type Uint64 uint64

func (u Uint64) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", "0x"+strconv.FormatUint(uint64(u), 16))), nil
}

func (u *Uint64) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)

	s = strings.TrimPrefix(s, "0x")

	v, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return errors.NewLedgerUnavailableError("invalid hex scalar %q", s, err)
	}

	*u = Uint64(v)

	return nil
}

// Bytes marshals as 0x-prefixed hex.
type Bytes []byte

func (b Bytes) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", "0x"+hex.EncodeToString(b))), nil
}

func (b *Bytes) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	s = strings.TrimPrefix(s, "0x")

	decoded, err := hex.DecodeString(s)
	if err != nil {
		return errors.NewLedgerUnavailableError("invalid hex bytes %q", s, err)
	}

	*b = decoded

	return nil
}

type Script struct {
	CodeHash string `json:"code_hash"`
	HashType string `json:"hash_type"`
	Args     Bytes  `json:"args"`
}

func scriptToWire(s *types.Script) *Script {
	if s == nil {
		return nil
	}

	return &Script{
		CodeHash: s.CodeHash.String(),
		HashType: string(s.HashType),
		Args:     Bytes(s.Args),
	}
}

func scriptFromWire(s *Script) (*types.Script, error) {
	if s == nil {
		return nil, nil
	}

	codeHash, err := types.HexToHash(s.CodeHash)
	if err != nil {
		return nil, err
	}

	return types.NewScript(codeHash, types.ScriptHashType(s.HashType), []byte(s.Args)), nil
}

type OutPoint struct {
	TxHash string `json:"tx_hash"`
	Index  Uint64 `json:"index"`
}

func outPointToWire(op types.OutPoint) *OutPoint {
	return &OutPoint{TxHash: op.TxHash.String(), Index: Uint64(op.Index)}
}

func outPointFromWire(op *OutPoint) (types.OutPoint, error) {
	txHash, err := types.HexToHash(op.TxHash)
	if err != nil {
		return types.OutPoint{}, err
	}

	return types.OutPoint{TxHash: txHash, Index: uint32(op.Index)}, nil
}

type CellOutput struct {
	Capacity Uint64  `json:"capacity"`
	Lock     *Script `json:"lock"`
	Type     *Script `json:"type"`
}

func cellOutputFromWire(out *CellOutput) (*types.CellOutput, error) {
	lock, err := scriptFromWire(out.Lock)
	if err != nil {
		return nil, err
	}

	typeScript, err := scriptFromWire(out.Type)
	if err != nil {
		return nil, err
	}

	return &types.CellOutput{
		Capacity: uint64(out.Capacity),
		Lock:     lock,
		Type:     typeScript,
	}, nil
}

type CellDep struct {
	OutPoint *OutPoint `json:"out_point"`
	DepType  string    `json:"dep_type"`
}

type CellInput struct {
	Since          Uint64    `json:"since"`
	PreviousOutput *OutPoint `json:"previous_output"`
}

// Transaction is the wire form submitted to send_transaction.
type Transaction struct {
	Version     Uint64        `json:"version"`
	CellDeps    []*CellDep    `json:"cell_deps"`
	HeaderDeps  []string      `json:"header_deps"`
	Inputs      []*CellInput  `json:"inputs"`
	Outputs     []*CellOutput `json:"outputs"`
	OutputsData []Bytes       `json:"outputs_data"`
	Witnesses   []Bytes       `json:"witnesses"`
}

func TransactionToWire(tx *types.Transaction) *Transaction {
	wire := &Transaction{
		Version:     Uint64(tx.Version),
		CellDeps:    make([]*CellDep, 0, len(tx.CellDeps)),
		HeaderDeps:  make([]string, 0, len(tx.HeaderDeps)),
		Inputs:      make([]*CellInput, 0, len(tx.Inputs)),
		Outputs:     make([]*CellOutput, 0, len(tx.Outputs)),
		OutputsData: make([]Bytes, 0, len(tx.OutputsData)),
		Witnesses:   make([]Bytes, 0, len(tx.Witnesses)),
	}

	for _, dep := range tx.CellDeps {
		wire.CellDeps = append(wire.CellDeps, &CellDep{
			OutPoint: outPointToWire(dep.OutPoint),
			DepType:  string(dep.DepType),
		})
	}

	for _, h := range tx.HeaderDeps {
		wire.HeaderDeps = append(wire.HeaderDeps, h.String())
	}

	for _, in := range tx.Inputs {
		wire.Inputs = append(wire.Inputs, &CellInput{
			Since:          Uint64(in.Since),
			PreviousOutput: outPointToWire(in.PreviousOutput),
		})
	}

	for _, out := range tx.Outputs {
		wire.Outputs = append(wire.Outputs, &CellOutput{
			Capacity: Uint64(out.Capacity),
			Lock:     scriptToWire(out.Lock),
			Type:     scriptToWire(out.Type),
		})
	}

	for _, data := range tx.OutputsData {
		wire.OutputsData = append(wire.OutputsData, Bytes(data))
	}

	for _, w := range tx.Witnesses {
		wire.Witnesses = append(wire.Witnesses, Bytes(w))
	}

	return wire
}

func TransactionFromWire(wire *Transaction) (*types.Transaction, error) {
	tx := &types.Transaction{Version: uint32(wire.Version)}

	for _, dep := range wire.CellDeps {
		op, err := outPointFromWire(dep.OutPoint)
		if err != nil {
			return nil, err
		}

		tx.CellDeps = append(tx.CellDeps, types.CellDep{OutPoint: op, DepType: types.DepType(dep.DepType)})
	}

	for _, h := range wire.HeaderDeps {
		hash, err := types.HexToHash(h)
		if err != nil {
			return nil, err
		}

		tx.HeaderDeps = append(tx.HeaderDeps, hash)
	}

	for _, in := range wire.Inputs {
		op, err := outPointFromWire(in.PreviousOutput)
		if err != nil {
			return nil, err
		}

		tx.Inputs = append(tx.Inputs, types.CellInput{Since: uint64(in.Since), PreviousOutput: op})
	}

	for _, out := range wire.Outputs {
		parsed, err := cellOutputFromWire(out)
		if err != nil {
			return nil, err
		}

		tx.Outputs = append(tx.Outputs, parsed)
	}

	for _, data := range wire.OutputsData {
		tx.OutputsData = append(tx.OutputsData, []byte(data))
	}

	for _, w := range wire.Witnesses {
		tx.Witnesses = append(tx.Witnesses, []byte(w))
	}

	return tx, nil
}

type Header struct {
	Hash       string `json:"hash"`
	ParentHash string `json:"parent_hash"`
	Number     Uint64 `json:"number"`
	Epoch      Uint64 `json:"epoch"`
	Timestamp  Uint64 `json:"timestamp"`
	Dao        Bytes  `json:"dao"`
}

func HeaderFromWire(wire *Header) (*types.Header, error) {
	hash, err := types.HexToHash(wire.Hash)
	if err != nil {
		return nil, err
	}

	parent, err := types.HexToHash(wire.ParentHash)
	if err != nil {
		return nil, err
	}

	h := &types.Header{
		Hash:       hash,
		ParentHash: parent,
		Number:     uint64(wire.Number),
		Epoch:      types.EpochNumberWithFraction(wire.Epoch),
		Timestamp:  uint64(wire.Timestamp),
	}

	if len(wire.Dao) != 32 {
		return nil, errors.NewLedgerUnavailableError("dao field must be 32 bytes, got %d", len(wire.Dao))
	}

	copy(h.Dao[:], wire.Dao)

	return h, nil
}

// SearchKey is the get_cells filter specification.
type SearchKey struct {
	Script     *Script          `json:"script"`
	ScriptType string           `json:"script_type"`
	Filter     *SearchKeyFilter `json:"filter,omitempty"`
}

type SearchKeyFilter struct {
	Script              *Script    `json:"script,omitempty"`
	ScriptLenRange      *[2]Uint64 `json:"script_len_range,omitempty"`
	OutputDataLenRange  *[2]Uint64 `json:"output_data_len_range,omitempty"`
	OutputCapacityRange *[2]Uint64 `json:"output_capacity_range,omitempty"`
	BlockRange          *[2]Uint64 `json:"block_range,omitempty"`
}

type IndexerCell struct {
	OutPoint    *OutPoint   `json:"out_point"`
	Output      *CellOutput `json:"output"`
	OutputData  Bytes       `json:"output_data"`
	BlockNumber Uint64      `json:"block_number"`
	TxIndex     Uint64      `json:"tx_index"`
}

type GetCellsResult struct {
	Objects    []*IndexerCell `json:"objects"`
	LastCursor string         `json:"last_cursor"`
}

type GetCellsCapacityResult struct {
	Capacity Uint64 `json:"capacity"`
}

// TransactionView is a transaction as it appears inside blocks and fetch
// results: the wire body plus its hash.
type TransactionView struct {
	Transaction
	Hash string `json:"hash"`
}

type Block struct {
	Header       *Header            `json:"header"`
	Transactions []*TransactionView `json:"transactions"`
}

type TxStatus struct {
	Status    string `json:"status"` // pending | committed | ...
	BlockHash string `json:"block_hash,omitempty"`
}

type TransactionWithStatus struct {
	Transaction *TransactionView `json:"transaction"`
	TxStatus    TxStatus         `json:"tx_status"`
}

// FetchStatus is the light client's asynchronous fetch envelope.
type FetchStatus struct {
	Status string                 `json:"status"` // added | fetching | fetched | not_found
	Data   *TransactionWithStatus `json:"data,omitempty"`
}

type ScriptStatus struct {
	Script      *Script `json:"script"`
	ScriptType  string  `json:"script_type"`
	BlockNumber Uint64  `json:"block_number"`
}
