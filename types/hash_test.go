package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlake256EmptyInput(t *testing.T) {
	// Known vector: ckb-personalized blake2b-256 of the empty string.
	expected := MustHexToHash("0x44f4c69744d5f8c55d642062949dcae49bc4e7ef43d388c5a12f42b5633d163e")
	assert.Equal(t, expected, Blake256(nil))
}

func TestBlake160Length(t *testing.T) {
	assert.Len(t, Blake160([]byte("pubkey")), 20)
}

func TestHexToHash(t *testing.T) {
	h, err := HexToHash("0x82d76d1b75fe2fd9a27dfbaa65a039221a380d76c926f378d3f81cf3e7e13f2e")
	require.NoError(t, err)
	assert.Equal(t, DaoTypeHash, h)
	assert.Equal(t, "0x82d76d1b75fe2fd9a27dfbaa65a039221a380d76c926f378d3f81cf3e7e13f2e", h.String())
}

func TestHexToHashRejectsBadInput(t *testing.T) {
	_, err := HexToHash("0x1234")
	require.Error(t, err)

	_, err = HexToHash("0x" + string(make([]byte, 64)))
	require.Error(t, err)
}

func TestBytesToHash(t *testing.T) {
	_, err := BytesToHash(make([]byte, 31))
	require.Error(t, err)

	h, err := BytesToHash(make([]byte, 32))
	require.NoError(t, err)
	assert.True(t, h.IsZero())
}
