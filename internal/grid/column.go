// Package grid implements the sparse, infinite 2D cell store: Grid,
// Sheet, Column, and the vertical-run Block invariants described in
// spec §3.2/§4.1.
package grid

import (
	"fmt"
	"sort"

	"github.com/quadratichq/quadratic-sub012/internal/cellvalue"
)

// Block is a contiguous vertical run of non-empty cells in a column.
// Top is the row of the first cell; Cells[i] holds the value at row
// Top+i. A Block never contains a Blank cell and is never adjacent to
// another block with less than one row of gap between them.
type Block struct {
	Top   int64
	Cells []cellvalue.CellValue
}

// Bottom returns the row of the last cell in the block.
func (b Block) Bottom() int64 { return b.Top + int64(len(b.Cells)) - 1 }

// Column stores non-empty cells as a sorted, invariant-preserving
// sequence of Blocks. Lookups and mutations are O(log n) in the
// number of blocks via binary search.
type Column struct {
	blocks []Block
}

// NewColumn returns an empty column.
func NewColumn() *Column { return &Column{} }

// findBlockIndex returns the index of the block whose range contains
// y, plus true, or the index where such a block would be inserted
// and false.
func (c *Column) findBlockIndex(y int64) (int, bool) {
	// blocks are sorted by Top ascending; find the last block with
	// Top <= y via binary search, then check whether it covers y.
	i := sort.Search(len(c.blocks), func(i int) bool { return c.blocks[i].Top > y })
	if i == 0 {
		return 0, false
	}
	candidate := i - 1
	if c.blocks[candidate].Bottom() >= y {
		return candidate, true
	}
	return i, false
}

// Get returns the value at row y, or Blank if the row is empty.
func (c *Column) Get(y int64) cellvalue.CellValue {
	idx, ok := c.findBlockIndex(y)
	if !ok {
		return cellvalue.Blank
	}
	b := c.blocks[idx]
	return b.Cells[y-b.Top]
}

// Set stores value at row y, preserving block invariants. Setting a
// Blank value is equivalent to calling Clear.
//
// Algorithm (spec §4.1): with `at` the block containing y, `above`
// the block whose bottom is y-1, and `below` the block whose top is
// y+1:
//  1. If `at` exists, overwrite the interior slot.
//  2. Else if `above` exists, append to it; if `below` also exists,
//     merge `below`'s cells onto `above` and delete `below`.
//  3. Else if `below` exists, prepend to it and re-key its Top to y.
//  4. Else insert a new one-cell block at y.
func (c *Column) Set(y int64, value cellvalue.CellValue) {
	if value.IsBlank() {
		c.Clear(y)
		return
	}

	insertAt, found := c.findBlockIndex(y)
	if found {
		b := &c.blocks[insertAt]
		b.Cells[y-b.Top] = value
		return
	}

	aboveIdx := -1
	if insertAt > 0 && c.blocks[insertAt-1].Bottom() == y-1 {
		aboveIdx = insertAt - 1
	}
	belowIdx := -1
	if insertAt < len(c.blocks) && c.blocks[insertAt].Top == y+1 {
		belowIdx = insertAt
	}

	switch {
	case aboveIdx >= 0:
		above := &c.blocks[aboveIdx]
		above.Cells = append(above.Cells, value)
		if belowIdx >= 0 {
			below := c.blocks[belowIdx]
			above.Cells = append(above.Cells, below.Cells...)
			c.blocks = append(c.blocks[:belowIdx], c.blocks[belowIdx+1:]...)
		}
	case belowIdx >= 0:
		below := &c.blocks[belowIdx]
		below.Cells = append([]cellvalue.CellValue{value}, below.Cells...)
		below.Top = y
	default:
		newBlock := Block{Top: y, Cells: []cellvalue.CellValue{value}}
		c.blocks = append(c.blocks, Block{})
		copy(c.blocks[insertAt+1:], c.blocks[insertAt:])
		c.blocks[insertAt] = newBlock
	}
}

// Clear deletes the cell at row y, shrinking, splitting, or removing
// its containing block as needed to preserve invariants. Clearing an
// already-empty row is a no-op.
func (c *Column) Clear(y int64) {
	idx, ok := c.findBlockIndex(y)
	if !ok {
		return
	}
	b := c.blocks[idx]
	offset := y - b.Top

	switch {
	case len(b.Cells) == 1:
		c.blocks = append(c.blocks[:idx], c.blocks[idx+1:]...)
	case offset == 0:
		c.blocks[idx].Top++
		c.blocks[idx].Cells = b.Cells[1:]
	case offset == int64(len(b.Cells)-1):
		c.blocks[idx].Cells = b.Cells[:len(b.Cells)-1]
	default:
		lower := Block{Top: y + 1, Cells: append([]cellvalue.CellValue{}, b.Cells[offset+1:]...)}
		c.blocks[idx].Cells = b.Cells[:offset]
		c.blocks = append(c.blocks, Block{})
		copy(c.blocks[idx+2:], c.blocks[idx+1:])
		c.blocks[idx+1] = lower
	}
}

// IsEmpty reports whether the column has no cells at all.
func (c *Column) IsEmpty() bool { return len(c.blocks) == 0 }

// Bounds returns the minimum and maximum occupied row and true, or
// (0, 0, false) if the column is empty.
func (c *Column) Bounds() (min, max int64, ok bool) {
	if len(c.blocks) == 0 {
		return 0, 0, false
	}
	return c.blocks[0].Top, c.blocks[len(c.blocks)-1].Bottom(), true
}

// Blocks returns a read-only view of the column's blocks, in
// ascending Top order.
func (c *Column) Blocks() []Block { return c.blocks }

// Clone returns a deep copy of the column, used by Sheet.Clone and
// Grid.DuplicateSheet.
func (c *Column) Clone() *Column {
	clone := &Column{blocks: make([]Block, len(c.blocks))}
	for i, b := range c.blocks {
		cells := make([]cellvalue.CellValue, len(b.Cells))
		copy(cells, b.Cells)
		clone.blocks[i] = Block{Top: b.Top, Cells: cells}
	}
	return clone
}

// IsValid checks the three block invariants from spec §3.2 and
// returns a descriptive error on the first violation found. Used by
// tests after every mutation (see spec §8 invariant 1 / §7 "Grid
// invariant violations").
func (c *Column) IsValid() error {
	for i, b := range c.blocks {
		if len(b.Cells) == 0 {
			return fmt.Errorf("grid: block %d at row %d has no cells", i, b.Top)
		}
		for j, cell := range b.Cells {
			if cell.IsBlank() {
				return fmt.Errorf("grid: block %d contains a blank cell at offset %d", i, j)
			}
		}
		if i > 0 {
			prev := c.blocks[i-1]
			if b.Top <= prev.Bottom() {
				return fmt.Errorf("grid: block %d (top=%d) overlaps previous block (bottom=%d)", i, b.Top, prev.Bottom())
			}
			if b.Top == prev.Bottom()+1 {
				return fmt.Errorf("grid: block %d (top=%d) is adjacent to previous block (bottom=%d) without a gap", i, b.Top, prev.Bottom())
			}
		}
	}
	return nil
}
