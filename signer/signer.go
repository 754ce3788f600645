// Package signer produces recoverable secp256k1 signatures over message
// digests. Signatures are 65 bytes: r (32) followed by s (32) followed by
// the recovery id, the layout the sighash lock verifies on chain.
package signer

import (
	"github.com/libsv/go-bk/bec"

	"github.com/nervos-community/light-wallet/errors"
	"github.com/nervos-community/light-wallet/types"
)

// Signer signs digests for the accounts it holds keys for. Match lets a
// caller route a script group to the signer that can serve it without
// attempting a signature.
type Signer interface {
	Match(id types.AccountID) bool
	SignDigest(id types.AccountID, digest types.Hash) ([]byte, error)
}

// signRecoverable wraps bec's compact signature, which leads with a
// header byte of 27+recid (+4 for a compressed key), into r || s || recid.
func signRecoverable(priv *bec.PrivateKey, digest types.Hash) ([]byte, error) {
	compact, err := bec.SignCompact(bec.S256(), priv, digest[:], true)
	if err != nil {
		return nil, errors.NewUnknownError("sign digest", err)
	}

	sig := make([]byte, types.SignaturePlaceholderLength)
	copy(sig, compact[1:])
	sig[64] = (compact[0] - 27) & 3

	return sig, nil
}

// RawKeySigner signs with in-memory private keys, keyed by the account id
// each key derives to.
type RawKeySigner struct {
	keys map[types.AccountID]*bec.PrivateKey
}

func NewRawKeySigner(keys ...*bec.PrivateKey) *RawKeySigner {
	s := &RawKeySigner{keys: map[types.AccountID]*bec.PrivateKey{}}
	for _, priv := range keys {
		s.Add(priv)
	}

	return s
}

// Add registers a key and returns the account id it will sign for.
func (s *RawKeySigner) Add(priv *bec.PrivateKey) types.AccountID {
	id := types.AccountIDFromPubKey(priv.PubKey().SerialiseCompressed())
	s.keys[id] = priv

	return id
}

func (s *RawKeySigner) Match(id types.AccountID) bool {
	_, ok := s.keys[id]
	return ok
}

func (s *RawKeySigner) SignDigest(id types.AccountID, digest types.Hash) ([]byte, error) {
	priv, ok := s.keys[id]
	if !ok {
		return nil, errors.NewUnknownAccountError("no key for account %s", id)
	}

	return signRecoverable(priv, digest)
}

// KeyStore is the slice of the keystore a signer needs.
type KeyStore interface {
	Key(id types.AccountID) (*bec.PrivateKey, error)
	Accounts() ([]types.AccountID, error)
}

// KeystoreSigner signs with keys held in a keystore. The account must
// already be unlocked; SignDigest never prompts.
type KeystoreSigner struct {
	store KeyStore
}

func NewKeystoreSigner(store KeyStore) *KeystoreSigner {
	return &KeystoreSigner{store: store}
}

func (s *KeystoreSigner) Match(id types.AccountID) bool {
	ids, err := s.store.Accounts()
	if err != nil {
		return false
	}

	for _, known := range ids {
		if known == id {
			return true
		}
	}

	return false
}

func (s *KeystoreSigner) SignDigest(id types.AccountID, digest types.Hash) ([]byte, error) {
	priv, err := s.store.Key(id)
	if err != nil {
		return nil, err
	}

	return signRecoverable(priv, digest)
}
