package unlock

import (
	"github.com/nervos-community/light-wallet/errors"
	"github.com/nervos-community/light-wallet/signer"
	"github.com/nervos-community/light-wallet/types"
)

// SighashDigest computes the digest the sighash lock verifies: the tx
// hash, then the group's first witness with its lock field zero-filled,
// then every other witness covered by the group, then every witness past
// the input count, each witness preceded by its length as a LE u64.
func SighashDigest(tx *types.Transaction, group *ScriptGroup) (types.Hash, error) {
	if len(group.InputIndices) == 0 {
		return types.Hash{}, errors.NewTxError("script group for %s covers no inputs", group.Script)
	}

	first := group.InputIndices[0]
	if first >= len(tx.Witnesses) {
		return types.Hash{}, errors.NewTxError("witness slot %d missing (%d witnesses)", first, len(tx.Witnesses))
	}

	witnessArgs, err := types.DeserializeWitnessArgs(tx.Witnesses[first])
	if err != nil {
		return types.Hash{}, err
	}

	witnessArgs.Lock = make([]byte, types.SignaturePlaceholderLength)
	firstWitness := witnessArgs.Serialize()

	txHash := tx.Hash()

	message := make([]byte, 0, 32+8+len(firstWitness))
	message = append(message, txHash.Bytes()...)
	message = appendLengthPrefixed(message, firstWitness)

	for _, i := range group.InputIndices[1:] {
		if i < len(tx.Witnesses) {
			message = appendLengthPrefixed(message, tx.Witnesses[i])
		}
	}

	for i := len(tx.Inputs); i < len(tx.Witnesses); i++ {
		message = appendLengthPrefixed(message, tx.Witnesses[i])
	}

	return types.Blake256(message), nil
}

func appendLengthPrefixed(message, witness []byte) []byte {
	length := uint64(len(witness))

	message = append(message,
		byte(length), byte(length>>8), byte(length>>16), byte(length>>24),
		byte(length>>32), byte(length>>40), byte(length>>48), byte(length>>56))

	return append(message, witness...)
}

// SighashUnlocker signs sighash lock groups with a Signer. The lock args
// are the account id the signer must hold a key for.
type SighashUnlocker struct {
	signer signer.Signer
}

func NewSighashUnlocker(s signer.Signer) *SighashUnlocker {
	return &SighashUnlocker{signer: s}
}

func (u *SighashUnlocker) MatchArgs(args []byte) bool {
	id, err := types.NewAccountID(args)
	if err != nil {
		return false
	}

	return u.signer.Match(id)
}

func (u *SighashUnlocker) UnlockGroup(tx *types.Transaction, group *ScriptGroup) error {
	id, err := types.NewAccountID(group.Script.Args)
	if err != nil {
		return err
	}

	digest, err := SighashDigest(tx, group)
	if err != nil {
		return err
	}

	signature, err := u.signer.SignDigest(id, digest)
	if err != nil {
		return err
	}

	first := group.InputIndices[0]

	witnessArgs, err := types.DeserializeWitnessArgs(tx.Witnesses[first])
	if err != nil {
		return err
	}

	witnessArgs.Lock = signature
	tx.Witnesses[first] = witnessArgs.Serialize()

	return nil
}
