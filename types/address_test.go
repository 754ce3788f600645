package types

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Canonical sighash test pair from the address format RFC.
const (
	testArgsHex      = "b39bbc0b3673c7d36450bc14cfcdad2d559c6c64"
	testFullAddress  = "ckb1qzda0cr08m85hc8jlnfp3zer7xulejywt49kt2rr0vthywaa50xwsqdnnw7qkdnnclfkg59uzn8umtfd2kwxceqxwquc4"
	testShortAddress = "ckb1qyqt8xaupvm8837nv3gtc9x0ekkj64vud3jqfwyw5v"
)

func testSighashScript(t *testing.T) *Script {
	t.Helper()

	args, err := hex.DecodeString(testArgsHex)
	require.NoError(t, err)

	return NewScript(SighashTypeHash, HashTypeType, args)
}

func TestEncodeFullAddress(t *testing.T) {
	addr := NewAddress(NetworkMainnet, testSighashScript(t))
	assert.Equal(t, testFullAddress, addr.Encode())
}

func TestParseFullAddress(t *testing.T) {
	addr, err := ParseAddress(testFullAddress)
	require.NoError(t, err)

	assert.Equal(t, NetworkMainnet, addr.Network)
	assert.True(t, addr.Script.Equals(testSighashScript(t)))
	assert.True(t, addr.IsSighash())
}

func TestParseShortAddress(t *testing.T) {
	addr, err := ParseAddress(testShortAddress)
	require.NoError(t, err)

	assert.True(t, addr.Script.Equals(testSighashScript(t)))
	assert.True(t, addr.IsSighash())
}

func TestAddressRoundTrip(t *testing.T) {
	script := NewScript(DaoTypeHash, HashTypeType, []byte{0xde, 0xad, 0xbe, 0xef})
	addr := NewAddress(NetworkTestnet, script)

	parsed, err := ParseAddress(addr.Encode())
	require.NoError(t, err)

	assert.Equal(t, NetworkTestnet, parsed.Network)
	assert.True(t, parsed.Script.Equals(script))
	assert.False(t, parsed.IsSighash())
}

func TestAddressIsMultisig(t *testing.T) {
	args := make([]byte, 20)

	addr := NewAddress(NetworkTestnet, NewScript(MultisigTypeHash, HashTypeType, args))
	assert.True(t, addr.IsMultisig())
	assert.False(t, addr.IsSighash())

	// with the 8-byte since suffix
	addr = NewAddress(NetworkTestnet, NewScript(MultisigTypeHash, HashTypeType, make([]byte, 28)))
	assert.True(t, addr.IsMultisig())

	// wrong args length
	addr = NewAddress(NetworkTestnet, NewScript(MultisigTypeHash, HashTypeType, make([]byte, 21)))
	assert.False(t, addr.IsMultisig())

	// sighash lock is not multisig
	addr = NewAddress(NetworkTestnet, NewScript(SighashTypeHash, HashTypeType, args))
	assert.False(t, addr.IsMultisig())
}

func TestParseAddressRejectsCorruption(t *testing.T) {
	// flip one payload character
	corrupted := []byte(testFullAddress)
	if corrupted[10] == 'q' {
		corrupted[10] = 'p'
	} else {
		corrupted[10] = 'q'
	}

	_, err := ParseAddress(string(corrupted))
	require.Error(t, err)
	assert.ErrorContains(t, err, "INVALID_ADDRESS")
}

func TestParseAddressRejectsUnknownPrefix(t *testing.T) {
	script := testSighashScript(t)

	// re-encode under a foreign prefix
	payload := append([]byte{addressFormatFull}, script.CodeHash.Bytes()...)
	payload = append(payload, 0x01)
	payload = append(payload, script.Args...)

	data, err := convertBits(payload, 8, 5, true)
	require.NoError(t, err)

	_, err = ParseAddress(bech32Encode("btc", data, bech32M))
	require.Error(t, err)
}

func TestParseAddressRejectsMixedCase(t *testing.T) {
	mixed := "Ckb1" + testFullAddress[4:]
	_, err := ParseAddress(mixed)
	require.Error(t, err)
}
