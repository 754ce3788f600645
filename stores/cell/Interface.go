// Package cell implements the live-cell query engine: composable filters,
// cursor pagination and capacity-bounded collection over a cell source.
// Two sources exist: the light-client RPC and an in-memory ledger used by
// tests.
package cell

import (
	"context"

	"github.com/nervos-community/light-wallet/errors"
	"github.com/nervos-community/light-wallet/types"
)

type ScriptType string

const (
	ScriptTypeLock ScriptType = "lock"
	ScriptTypeType ScriptType = "type"
)

type Order string

const (
	OrderAsc  Order = "asc"
	OrderDesc Order = "desc"
)

// LiveCell is a ledger output not yet consumed, as reported by the cell
// source.
type LiveCell struct {
	OutPoint   types.OutPoint
	Output     *types.CellOutput
	OutputData []byte

	// Ledger ordering key.
	BlockNumber uint64
	TxIndex     uint32
}

// ValueRange is half-open: [Min, Max). An empty range matches nothing.
type ValueRange struct {
	Min uint64
	Max uint64
}

func NewExactRange(v uint64) *ValueRange {
	return &ValueRange{Min: v, Max: v + 1}
}

func (r *ValueRange) Contains(v uint64) bool {
	return v >= r.Min && v < r.Max
}

// Query is the filter specification for live cells.
type Query struct {
	// Script is the primary search script; required.
	Script     *types.Script
	ScriptType ScriptType

	// SecondaryScript, when set, must additionally match: the type script
	// when searching by lock, the lock script when searching by type.
	SecondaryScript *types.Script

	DataLenRange  *ValueRange
	CapacityRange *ValueRange
	BlockRange    *ValueRange

	// SecondaryScriptLenRange constrains the occupied length of the
	// non-primary script: code_hash (32) + hash_type (1) + args, 0 when
	// absent. NewExactRange(0) selects cells without one.
	SecondaryScriptLenRange *ValueRange

	// ExcludeOutPoints are cells the caller already holds. They are
	// filtered before a cell is handed out, so they never count toward
	// MinTotalCapacity.
	ExcludeOutPoints map[types.OutPoint]bool

	// MinTotalCapacity stops collection once this much capacity has
	// accumulated. math.MaxUint64 means drain everything.
	MinTotalCapacity uint64
}

// NewQueryByLock builds the common lock-script query. MinTotalCapacity
// starts at 1 so collection stops at the first matching cell unless the
// caller raises it.
func NewQueryByLock(lock *types.Script) *Query {
	return &Query{
		Script:           lock,
		ScriptType:       ScriptTypeLock,
		MinTotalCapacity: 1,
	}
}

func (q *Query) Validate() error {
	if q == nil || q.Script == nil {
		return errors.NewInvalidFilterError("query requires a primary script")
	}

	for name, r := range map[string]*ValueRange{
		"data_len":   q.DataLenRange,
		"capacity":   q.CapacityRange,
		"block":      q.BlockRange,
		"script_len": q.SecondaryScriptLenRange,
	} {
		if r != nil && r.Min > r.Max {
			return errors.NewInvalidFilterError("%s range [%d, %d) is malformed", name, r.Min, r.Max)
		}
	}

	return nil
}

// Matches applies the secondary filters a cell source may not enforce
// server-side.
func (q *Query) Matches(c *LiveCell) bool {
	if q.ExcludeOutPoints[c.OutPoint] {
		return false
	}

	var secondary *types.Script
	if q.ScriptType == ScriptTypeLock {
		secondary = c.Output.Type
	} else {
		secondary = c.Output.Lock
	}

	if q.SecondaryScript != nil && !q.SecondaryScript.Equals(secondary) {
		return false
	}

	if q.SecondaryScriptLenRange != nil && !q.SecondaryScriptLenRange.Contains(scriptOccupiedLen(secondary)) {
		return false
	}

	if q.DataLenRange != nil && !q.DataLenRange.Contains(uint64(len(c.OutputData))) {
		return false
	}

	if q.CapacityRange != nil && !q.CapacityRange.Contains(c.Output.Capacity) {
		return false
	}

	if q.BlockRange != nil && !q.BlockRange.Contains(c.BlockNumber) {
		return false
	}

	return true
}

// scriptOccupiedLen is the length the script_len_range filter measures:
// code_hash (32) + hash_type (1) + args, 0 for an absent script.
func scriptOccupiedLen(s *types.Script) uint64 {
	if s == nil {
		return 0
	}

	return 33 + uint64(len(s.Args))
}

// Cursor is an opaque pagination token tied to the ledger ordering key of
// the last returned cell. Empty means "from the start".
type Cursor string

type Page struct {
	Cells []*LiveCell

	// NextCursor continues the scan; empty when the scan is complete.
	NextCursor Cursor
}

// Collector is the cell source surface the engine paginates over.
type Collector interface {
	// GetCells returns one page of live cells matching the query, ordered
	// by (block_number, tx_index, output_index). limit must be > 0.
	GetCells(ctx context.Context, q *Query, order Order, limit uint32, after Cursor) (*Page, error)

	// GetCellsCapacity sums capacity over every cell matching the query.
	GetCellsCapacity(ctx context.Context, q *Query) (uint64, error)
}

const collectPageSize = 100

// Collect drains GetCells pages in ascending order until the query's
// MinTotalCapacity is reached or the source is exhausted. Returns the
// collected cells and their total capacity.
func Collect(ctx context.Context, collector Collector, q *Query) ([]*LiveCell, uint64, error) {
	if err := q.Validate(); err != nil {
		return nil, 0, err
	}

	var (
		cells  []*LiveCell
		total  uint64
		cursor Cursor
	)

	for {
		page, err := collector.GetCells(ctx, q, OrderAsc, collectPageSize, cursor)
		if err != nil {
			return nil, 0, err
		}

		for _, c := range page.Cells {
			cells = append(cells, c)
			total += c.Output.Capacity

			// MaxUint64 is never reached, which is what makes it the
			// "drain everything" sentinel.
			if total >= q.MinTotalCapacity {
				return cells, total, nil
			}
		}

		if page.NextCursor == "" {
			return cells, total, nil
		}

		cursor = page.NextCursor
	}
}
