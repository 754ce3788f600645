package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nervos-community/light-wallet/errors"
	"github.com/nervos-community/light-wallet/types"
)

func TestCheckToAddress(t *testing.T) {
	sighash := types.NewAddress(types.NetworkTestnet,
		types.NewScript(types.SighashTypeHash, types.HashTypeType, make([]byte, 20)))
	multisig := types.NewAddress(types.NetworkTestnet,
		types.NewScript(types.MultisigTypeHash, types.HashTypeType, make([]byte, 20)))
	exotic := types.NewAddress(types.NetworkTestnet,
		types.NewScript(types.DaoTypeHash, types.HashTypeType, []byte{0x01}))

	require.NoError(t, checkToAddress(sighash, false))
	require.NoError(t, checkToAddress(multisig, false))

	err := checkToAddress(exotic, false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidAddress))

	// the opt-out lets anything through
	require.NoError(t, checkToAddress(exotic, true))
}
