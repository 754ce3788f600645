package types

import (
	"encoding/hex"
	"strings"

	"github.com/nervos-community/light-wallet/errors"
)

// AccountID identifies a signing account: the Blake160 of its compressed
// public key, which is also the args of the account's sighash lock.
type AccountID [20]byte

func NewAccountID(b []byte) (AccountID, error) {
	var id AccountID

	if len(b) != len(id) {
		return id, errors.NewInvalidArgumentError("account id must be %d bytes, got %d", len(id), len(b))
	}

	copy(id[:], b)

	return id, nil
}

// AccountIDFromPubKey derives the account id from a serialized compressed
// public key.
func AccountIDFromPubKey(compressedPubKey []byte) AccountID {
	var id AccountID

	copy(id[:], Blake160(compressedPubKey))

	return id
}

func ParseAccountID(s string) (AccountID, error) {
	b, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return AccountID{}, errors.NewInvalidArgumentError("invalid account id hex %q", s, err)
	}

	return NewAccountID(b)
}

func (id AccountID) Bytes() []byte {
	return id[:]
}

func (id AccountID) String() string {
	return "0x" + hex.EncodeToString(id[:])
}

// LockScript returns the account's sighash lock.
func (id AccountID) LockScript() *Script {
	return NewScript(SighashTypeHash, HashTypeType, id.Bytes())
}
