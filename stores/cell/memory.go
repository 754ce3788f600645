package cell

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/nervos-community/light-wallet/errors"
	"github.com/nervos-community/light-wallet/types"
)

// Memory is a deterministic in-memory cell source. It backs package tests
// across the module and doubles as the reference implementation of the
// pagination contract.
type Memory struct {
	mu    sync.RWMutex
	cells []*LiveCell // sorted by ordering key
}

func NewMemory() *Memory {
	return &Memory{}
}

func orderingKey(c *LiveCell) string {
	return fmt.Sprintf("%020d:%010d:%010d", c.BlockNumber, c.TxIndex, c.OutPoint.Index)
}

// AddCell inserts a live cell, keeping the ledger order.
func (m *Memory) AddCell(c *LiveCell) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cells = append(m.cells, c)
	sort.Slice(m.cells, func(i, j int) bool {
		return orderingKey(m.cells[i]) < orderingKey(m.cells[j])
	})
}

// Consume removes the cell the out-point references, as a confirmed spend
// would.
func (m *Memory) Consume(op types.OutPoint) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, c := range m.cells {
		if c.OutPoint == op {
			m.cells = append(m.cells[:i], m.cells[i+1:]...)
			return
		}
	}
}

// Get returns the live cell for an out-point, if any.
func (m *Memory) Get(op types.OutPoint) (*LiveCell, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, c := range m.cells {
		if c.OutPoint == op {
			return c, true
		}
	}

	return nil, false
}

func (m *Memory) GetCells(_ context.Context, q *Query, order Order, limit uint32, after Cursor) (*Page, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	if limit == 0 {
		return nil, errors.NewInvalidFilterError("limit must be > 0")
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	matching := make([]*LiveCell, 0, len(m.cells))

	for _, c := range m.cells {
		if !m.primaryMatches(c, q) || !q.Matches(c) {
			continue
		}

		matching = append(matching, c)
	}

	if order == OrderDesc {
		for i, j := 0, len(matching)-1; i < j; i, j = i+1, j-1 {
			matching[i], matching[j] = matching[j], matching[i]
		}
	}

	page := &Page{}

	for _, c := range matching {
		key := Cursor(orderingKey(c))
		if after != "" {
			if order == OrderDesc && key >= after {
				continue
			}

			if order != OrderDesc && key <= after {
				continue
			}
		}

		page.Cells = append(page.Cells, c)
		if uint32(len(page.Cells)) == limit {
			break
		}
	}

	// only hand out a continuation when the page filled up
	if len(page.Cells) > 0 && uint32(len(page.Cells)) == limit {
		page.NextCursor = Cursor(orderingKey(page.Cells[len(page.Cells)-1]))
	}

	return page, nil
}

func (m *Memory) primaryMatches(c *LiveCell, q *Query) bool {
	if q.ScriptType == ScriptTypeType {
		return q.Script.Equals(c.Output.Type)
	}

	return q.Script.Equals(c.Output.Lock)
}

func (m *Memory) GetCellsCapacity(ctx context.Context, q *Query) (uint64, error) {
	if err := q.Validate(); err != nil {
		return 0, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var total uint64

	for _, c := range m.cells {
		if m.primaryMatches(c, q) && q.Matches(c) {
			total += c.Output.Capacity
		}
	}

	return total, nil
}
