package signer

import (
	"bytes"
	"testing"

	"github.com/libsv/go-bk/bec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nervos-community/light-wallet/errors"
	"github.com/nervos-community/light-wallet/keystore"
	"github.com/nervos-community/light-wallet/types"
	"github.com/nervos-community/light-wallet/ulogger"
)

func TestRawKeySignerSignAndRecover(t *testing.T) {
	priv, err := bec.NewPrivateKey(bec.S256())
	require.NoError(t, err)

	s := NewRawKeySigner(priv)
	id := types.AccountIDFromPubKey(priv.PubKey().SerialiseCompressed())

	require.True(t, s.Match(id))

	digest := types.Blake256([]byte("message"))

	sig, err := s.SignDigest(id, digest)
	require.NoError(t, err)
	require.Len(t, sig, 65)
	assert.LessOrEqual(t, sig[64], byte(3))

	// rebuild the compact form and recover the signing key
	compact := make([]byte, 65)
	compact[0] = 27 + sig[64] + 4
	copy(compact[1:], sig[:64])

	pub, compressed, err := bec.RecoverCompact(bec.S256(), compact, digest[:])
	require.NoError(t, err)
	assert.True(t, compressed)
	assert.Equal(t, priv.PubKey().SerialiseCompressed(), pub.SerialiseCompressed())
}

func TestRawKeySignerUnknownAccount(t *testing.T) {
	s := NewRawKeySigner()

	var id types.AccountID
	id[0] = 0x01

	require.False(t, s.Match(id))

	_, err := s.SignDigest(id, types.Hash{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrUnknownAccount))
}

func TestSignatureDeterministicPerDigest(t *testing.T) {
	privKeyBytes := bytes.Repeat([]byte{0x22}, 32)
	priv, _ := bec.PrivKeyFromBytes(bec.S256(), privKeyBytes)

	s := NewRawKeySigner(priv)
	id := types.AccountIDFromPubKey(priv.PubKey().SerialiseCompressed())

	a, err := s.SignDigest(id, types.Blake256([]byte("a")))
	require.NoError(t, err)

	b, err := s.SignDigest(id, types.Blake256([]byte("b")))
	require.NoError(t, err)

	assert.NotEqual(t, a, b)

	again, err := s.SignDigest(id, types.Blake256([]byte("a")))
	require.NoError(t, err)
	assert.Equal(t, a, again)
}

func TestKeystoreSigner(t *testing.T) {
	store := keystore.NewStoreWithScryptN(ulogger.TestLogger{}, t.TempDir(), keystore.LightScryptN)

	id, err := store.Create("pw")
	require.NoError(t, err)

	s := NewKeystoreSigner(store)
	require.True(t, s.Match(id))

	digest := types.Blake256([]byte("payload"))

	// locked account cannot sign
	_, err = s.SignDigest(id, digest)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrUnknownAccount))

	require.NoError(t, store.Unlock(id, "pw"))

	sig, err := s.SignDigest(id, digest)
	require.NoError(t, err)
	require.Len(t, sig, 65)

	compact := make([]byte, 65)
	compact[0] = 27 + sig[64] + 4
	copy(compact[1:], sig[:64])

	pub, _, err := bec.RecoverCompact(bec.S256(), compact, digest[:])
	require.NoError(t, err)
	assert.Equal(t, id, types.AccountIDFromPubKey(pub.SerialiseCompressed()))
}
