// Package unlock partitions a transaction into script groups and runs a
// registry of per-script unlockers over them, filling witness slots with
// real signatures. Lock scripts a registered unlocker cannot serve are
// reported back rather than failing the whole transaction.
package unlock

import (
	"context"

	"github.com/nervos-community/light-wallet/resolver"
	"github.com/nervos-community/light-wallet/types"
)

type GroupType string

const (
	GroupTypeLock GroupType = "lock"
	GroupTypeType GroupType = "type"
)

// ScriptGroup collects every input and output position a script occurs
// at. The unlock protocol operates on lock groups; type groups exist for
// builders that stash type-script data in witnesses.
type ScriptGroup struct {
	Script        *types.Script
	GroupType     GroupType
	InputIndices  []int
	OutputIndices []int
}

// BuildScriptGroups resolves every input's referenced cell and partitions
// the transaction by script occurrence: one group per distinct input lock
// script, one per distinct type script across inputs and outputs. Group
// order follows first occurrence.
func BuildScriptGroups(ctx context.Context, tx *types.Transaction, dep resolver.TxDepProvider) ([]*ScriptGroup, error) {
	var groups []*ScriptGroup

	index := map[GroupType]map[types.Hash]*ScriptGroup{
		GroupTypeLock: {},
		GroupTypeType: {},
	}

	group := func(script *types.Script, groupType GroupType) *ScriptGroup {
		hash := script.Hash()
		if g, ok := index[groupType][hash]; ok {
			return g
		}

		g := &ScriptGroup{Script: script, GroupType: groupType}
		index[groupType][hash] = g
		groups = append(groups, g)

		return g
	}

	for i, input := range tx.Inputs {
		output, _, err := dep.GetCellOutput(ctx, input.PreviousOutput)
		if err != nil {
			return nil, err
		}

		g := group(output.Lock, GroupTypeLock)
		g.InputIndices = append(g.InputIndices, i)

		if output.Type != nil {
			tg := group(output.Type, GroupTypeType)
			tg.InputIndices = append(tg.InputIndices, i)
		}
	}

	for i, output := range tx.Outputs {
		if output.Type == nil {
			continue
		}

		tg := group(output.Type, GroupTypeType)
		tg.OutputIndices = append(tg.OutputIndices, i)
	}

	return groups, nil
}

// LockGroups filters groups down to the lock groups, the ones the unlock
// protocol must sign.
func LockGroups(groups []*ScriptGroup) []*ScriptGroup {
	var locks []*ScriptGroup

	for _, g := range groups {
		if g.GroupType == GroupTypeLock {
			locks = append(locks, g)
		}
	}

	return locks
}
