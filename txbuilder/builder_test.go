package txbuilder

import (
	"context"
	"testing"

	"github.com/libsv/go-bk/bec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nervos-community/light-wallet/errors"
	"github.com/nervos-community/light-wallet/signer"
	"github.com/nervos-community/light-wallet/types"
	"github.com/nervos-community/light-wallet/unlock"
)

func TestTransferBuilderRejectsDustReceiver(t *testing.T) {
	to := types.AccountID{}.LockScript()

	b := &CapacityTransferBuilder{Receivers: []Receiver{{Lock: to, Capacity: 60 * types.OneCKB}}}

	_, err := b.BuildBase(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidArgument))

	b = &CapacityTransferBuilder{}

	_, err = b.BuildBase(context.Background())
	require.Error(t, err)
}

func TestBuildUnlockedTransfer(t *testing.T) {
	h := newHarness(t, 1000)
	h.fund(150*types.OneCKB, 150*types.OneCKB)

	var recipient types.AccountID
	recipient[0] = 0xbb

	builder := &CapacityTransferBuilder{
		Receivers: []Receiver{{Lock: recipient.LockScript(), Capacity: 120 * types.OneCKB}},
	}

	registry := unlock.NewSighashRegistry(unlock.NewSighashUnlocker(signer.NewRawKeySigner(h.key)))

	tx, err := BuildUnlocked(context.Background(), builder, h.balancer, h.txDeps, registry)
	require.NoError(t, err)
	require.NoError(t, tx.Validate())

	// every witness slot exists and the group witness carries a real
	// 65-byte signature
	require.Len(t, tx.Witnesses, len(tx.Inputs))

	witnessArgs, err := types.DeserializeWitnessArgs(tx.Witnesses[0])
	require.NoError(t, err)
	require.Len(t, witnessArgs.Lock, 65)
	assert.False(t, witnessArgs.IsPlaceholder())

	// signature recovers to the funding account
	groups, err := unlock.BuildScriptGroups(context.Background(), tx, h.txDeps)
	require.NoError(t, err)

	digest, err := unlock.SighashDigest(tx, unlock.LockGroups(groups)[0])
	require.NoError(t, err)

	compact := make([]byte, 65)
	compact[0] = 27 + witnessArgs.Lock[64] + 4
	copy(compact[1:], witnessArgs.Lock[:64])

	pub, _, err := bec.RecoverCompact(bec.S256(), compact, digest.Bytes())
	require.NoError(t, err)
	assert.Equal(t, h.id, types.AccountIDFromPubKey(pub.SerialiseCompressed()))

	// conservation still holds after signing
	inputs := h.inputsCapacity(t, tx)
	fee := inputs - tx.OutputsCapacity()
	assert.Equal(t, h.balancer.FeeRate.Fee(tx.SizeInBlock()), fee)
}

func TestBuildUnlockedReportsPartiallyUnlocked(t *testing.T) {
	h := newHarness(t, 1000)
	h.fund(300 * types.OneCKB)

	var recipient types.AccountID
	recipient[0] = 0xbb

	builder := &CapacityTransferBuilder{
		Receivers: []Receiver{{Lock: recipient.LockScript(), Capacity: 120 * types.OneCKB}},
	}

	// the registry's signer holds a key for some other account
	stranger, err := bec.NewPrivateKey(bec.S256())
	require.NoError(t, err)

	registry := unlock.NewSighashRegistry(unlock.NewSighashUnlocker(signer.NewRawKeySigner(stranger)))

	_, err = BuildUnlocked(context.Background(), builder, h.balancer, h.txDeps, registry)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrPartiallyUnlocked))
}
