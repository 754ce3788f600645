package keystore

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nervos-community/light-wallet/errors"
	"github.com/nervos-community/light-wallet/types"
	"github.com/nervos-community/light-wallet/ulogger"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	return NewStoreWithScryptN(ulogger.TestLogger{}, t.TempDir(), LightScryptN)
}

func TestCreateUnlockSignKey(t *testing.T) {
	store := newTestStore(t)

	id, err := store.Create("hunter2")
	require.NoError(t, err)

	// locked until Unlock is called
	_, err = store.Key(id)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrUnknownAccount))

	require.NoError(t, store.Unlock(id, "hunter2"))

	priv, err := store.Key(id)
	require.NoError(t, err)
	require.NotNil(t, priv)

	// the cached key must be the one the account id was derived from
	assert.Equal(t, id, types.AccountIDFromPubKey(priv.PubKey().SerialiseCompressed()))
}

func TestUnlockWrongPassphrase(t *testing.T) {
	store := newTestStore(t)

	id, err := store.Create("correct")
	require.NoError(t, err)

	err = store.Unlock(id, "incorrect")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidPassphrase))

	_, err = store.Key(id)
	assert.Error(t, err)
}

func TestUnlockUnknownAccount(t *testing.T) {
	store := newTestStore(t)

	var id types.AccountID
	id[0] = 0xab

	err := store.Unlock(id, "whatever")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrAccountNotFound))
}

func TestImportDeterministicID(t *testing.T) {
	privKeyBytes := bytes.Repeat([]byte{0x11}, 32)

	storeA := newTestStore(t)
	storeB := newTestStore(t)

	idA, err := storeA.Import(privKeyBytes, "a")
	require.NoError(t, err)

	idB, err := storeB.Import(privKeyBytes, "b")
	require.NoError(t, err)

	assert.Equal(t, idA, idB)

	_, err = storeA.Import(privKeyBytes[:16], "a")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidArgument))
}

func TestAccounts(t *testing.T) {
	store := newTestStore(t)

	ids, err := store.Accounts()
	require.NoError(t, err)
	assert.Empty(t, ids)

	id1, err := store.Create("one")
	require.NoError(t, err)

	id2, err := store.Create("two")
	require.NoError(t, err)

	// non key files are skipped
	require.NoError(t, os.WriteFile(store.dir+"/notes.txt", []byte("x"), 0o600))

	ids, err = store.Accounts()
	require.NoError(t, err)
	assert.ElementsMatch(t, []types.AccountID{id1, id2}, ids)
}

func TestLock(t *testing.T) {
	store := newTestStore(t)

	id, err := store.Create("pw")
	require.NoError(t, err)
	require.NoError(t, store.Unlock(id, "pw"))

	store.Lock(id)

	_, err = store.Key(id)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrUnknownAccount))
}
