package settings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSettingsDefaults(t *testing.T) {
	s := NewSettings()
	require.NotNil(t, s)

	assert.Equal(t, "lightwallet", s.ClientName)
	assert.Equal(t, uint64(1000), s.FeeRate)
	assert.NotNil(t, s.RPCURL)
	assert.Equal(t, "keystore", s.KeystoreDir)
	assert.Equal(t, 120, s.HeaderCacheTTLMinutes)
}
