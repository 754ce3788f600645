// Package types holds the value model of the cell ledger: hashes, scripts,
// transactions, addresses and capacity amounts, together with their exact
// wire (molecule) serialization. Byte layouts here are part of the ledger
// protocol and must not change.
package types

import (
	"encoding/binary"
	"encoding/hex"
	"strings"

	"github.com/dchest/blake2b"

	"github.com/nervos-community/light-wallet/errors"
)

// ckb hashes are blake2b-256 with this personalization.
const ckbHashPersonalization = "ckb-default-hash"

const HashLength = 32

type Hash [HashLength]byte

func HexToHash(s string) (Hash, error) {
	var h Hash

	s = strings.TrimPrefix(s, "0x")
	if len(s) != HashLength*2 {
		return h, errors.NewInvalidArgumentError("hash hex must be %d characters, got %d", HashLength*2, len(s))
	}

	b, err := hex.DecodeString(s)
	if err != nil {
		return h, errors.NewInvalidArgumentError("invalid hash hex %q", s, err)
	}

	copy(h[:], b)

	return h, nil
}

// MustHexToHash is for well-known constants only.
func MustHexToHash(s string) Hash {
	h, err := HexToHash(s)
	if err != nil {
		panic(err)
	}

	return h
}

func BytesToHash(b []byte) (Hash, error) {
	var h Hash

	if len(b) != HashLength {
		return h, errors.NewInvalidArgumentError("hash must be %d bytes, got %d", HashLength, len(b))
	}

	copy(h[:], b)

	return h, nil
}

func (h Hash) Bytes() []byte {
	return h[:]
}

func (h Hash) String() string {
	return "0x" + hex.EncodeToString(h[:])
}

func (h Hash) IsZero() bool {
	return h == Hash{}
}

// Blake256 is the ledger's canonical hash function.
func Blake256(data []byte) Hash {
	hasher, err := blake2b.New(&blake2b.Config{
		Size:   HashLength,
		Person: []byte(ckbHashPersonalization),
	})
	if err != nil {
		panic(err) // static config
	}

	_, _ = hasher.Write(data)

	var h Hash

	copy(h[:], hasher.Sum(nil))

	return h
}

// Blake160 is the account identifier: the first 20 bytes of Blake256.
// Lock args of the sighash script are the Blake160 of the compressed
// public key.
func Blake160(data []byte) []byte {
	h := Blake256(data)
	return h[:20]
}

func uint32LE(v uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)

	return b
}

func uint64LE(v uint64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, v)

	return b
}
