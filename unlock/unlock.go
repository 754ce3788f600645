package unlock

import (
	"github.com/nervos-community/light-wallet/types"
)

// ScriptUnlocker fills the witnesses of one script group. MatchArgs
// reports, without signing, whether the unlocker can serve a lock with
// the given args.
type ScriptUnlocker interface {
	MatchArgs(args []byte) bool
	UnlockGroup(tx *types.Transaction, group *ScriptGroup) error
}

// Registry routes lock scripts to unlockers by (code_hash, hash_type).
type Registry map[types.ScriptID]ScriptUnlocker

// NewSighashRegistry returns a registry with the given unlocker bound to
// the system sighash lock.
func NewSighashRegistry(u ScriptUnlocker) Registry {
	return Registry{
		types.NewScriptIDType(types.SighashTypeHash): u,
	}
}

// UnlockTx runs the registry over every lock group, mutating the
// transaction's witnesses in place. Groups with no registered unlocker,
// or whose unlocker does not hold the needed key, come back in
// stillLocked; signing failures abort.
func UnlockTx(tx *types.Transaction, groups []*ScriptGroup, unlockers Registry) (stillLocked []*ScriptGroup, err error) {
	for _, group := range LockGroups(groups) {
		unlocker, ok := unlockers[group.Script.ID()]
		if !ok || !unlocker.MatchArgs(group.Script.Args) {
			stillLocked = append(stillLocked, group)
			continue
		}

		if err := unlocker.UnlockGroup(tx, group); err != nil {
			return nil, err
		}
	}

	return stillLocked, nil
}
