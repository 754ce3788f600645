package types

import (
	"bytes"
	"encoding/hex"

	"github.com/nervos-community/light-wallet/errors"
)

type ScriptHashType string

const (
	HashTypeData  ScriptHashType = "data"
	HashTypeType  ScriptHashType = "type"
	HashTypeData1 ScriptHashType = "data1"
)

// Byte returns the wire encoding of the hash type.
func (t ScriptHashType) Byte() (byte, error) {
	switch t {
	case HashTypeData:
		return 0x00, nil
	case HashTypeType:
		return 0x01, nil
	case HashTypeData1:
		return 0x02, nil
	default:
		return 0, errors.NewInvalidArgumentError("unknown script hash type %q", string(t))
	}
}

func ScriptHashTypeFromByte(b byte) (ScriptHashType, error) {
	switch b {
	case 0x00:
		return HashTypeData, nil
	case 0x01:
		return HashTypeType, nil
	case 0x02:
		return HashTypeData1, nil
	default:
		return "", errors.NewInvalidArgumentError("unknown script hash type byte %#02x", b)
	}
}

// Script is the predicate identity of a cell: the lock that must be
// satisfied to spend it, or the type constraining its data. Treated as
// immutable once constructed.
type Script struct {
	CodeHash Hash
	HashType ScriptHashType
	Args     []byte
}

func NewScript(codeHash Hash, hashType ScriptHashType, args []byte) *Script {
	return &Script{
		CodeHash: codeHash,
		HashType: hashType,
		Args:     args,
	}
}

func (s *Script) Serialize() []byte {
	hashTypeByte, err := s.HashType.Byte()
	if err != nil {
		// Scripts with unknown hash types cannot be constructed through
		// this package's API.
		panic(err)
	}

	return moleculeTable(
		s.CodeHash.Bytes(),
		[]byte{hashTypeByte},
		moleculeBytes(s.Args),
	)
}

// Hash is the script's identity on the ledger.
func (s *Script) Hash() Hash {
	return Blake256(s.Serialize())
}

// OccupiedCapacity is the number of shannons the serialized script
// occupies on chain: one CKByte (10^8 shannons) per byte.
func (s *Script) OccupiedCapacity() uint64 {
	// code_hash (32) + hash_type (1) + args, per the on-chain occupancy
	// rule (molecule headers do not count).
	return (32 + 1 + uint64(len(s.Args))) * OneCKB
}

func (s *Script) Equals(other *Script) bool {
	if s == nil || other == nil {
		return s == other
	}

	return s.CodeHash == other.CodeHash &&
		s.HashType == other.HashType &&
		bytes.Equal(s.Args, other.Args)
}

func (s *Script) String() string {
	if s == nil {
		return "<nil>"
	}

	return s.CodeHash.String() + "-" + string(s.HashType) + "-0x" + hex.EncodeToString(s.Args)
}

// ScriptID identifies the unlock method of a lock script: scripts sharing
// (code hash, hash type) are unlocked the same way regardless of args.
type ScriptID struct {
	CodeHash Hash
	HashType ScriptHashType
}

func (s *Script) ID() ScriptID {
	return ScriptID{CodeHash: s.CodeHash, HashType: s.HashType}
}

func NewScriptIDType(codeHash Hash) ScriptID {
	return ScriptID{CodeHash: codeHash, HashType: HashTypeType}
}
