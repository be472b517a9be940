package grid

import (
	"testing"

	"github.com/quadratichq/quadratic-sub012/internal/cellvalue"
)

func v(n int64) cellvalue.CellValue { return cellvalue.NewNumberFromInt(n) }

func TestColumnSetGetBasic(t *testing.T) {
	c := NewColumn()
	c.Set(5, v(1))
	if got := c.Get(5); !got.Equal(v(1)) {
		t.Errorf("Get(5) = %v, want 1", got)
	}
	if got := c.Get(4); !got.IsBlank() {
		t.Errorf("Get(4) = %v, want Blank", got)
	}
	if err := c.IsValid(); err != nil {
		t.Errorf("IsValid() = %v", err)
	}
}

func TestColumnMergeAboveBelow(t *testing.T) {
	c := NewColumn()
	c.Set(1, v(1))
	c.Set(3, v(3))
	// setting row 2 should merge the two 1-cell blocks into one block
	// spanning 1..3.
	c.Set(2, v(2))
	if err := c.IsValid(); err != nil {
		t.Fatalf("IsValid() = %v", err)
	}
	if len(c.blocks) != 1 {
		t.Fatalf("expected 1 merged block, got %d", len(c.blocks))
	}
	if c.blocks[0].Top != 1 || len(c.blocks[0].Cells) != 3 {
		t.Errorf("merged block = %+v, want Top=1 len=3", c.blocks[0])
	}
	for y := int64(1); y <= 3; y++ {
		if !c.Get(y).Equal(v(y)) {
			t.Errorf("Get(%d) = %v, want %d", y, c.Get(y), y)
		}
	}
}

func TestColumnAppendBelowBlock(t *testing.T) {
	c := NewColumn()
	c.Set(1, v(1))
	c.Set(2, v(2)) // appends to block starting at 1
	if len(c.blocks) != 1 || c.blocks[0].Bottom() != 2 {
		t.Fatalf("expected single block 1..2, got %+v", c.blocks)
	}
}

func TestColumnPrependAboveBlock(t *testing.T) {
	c := NewColumn()
	c.Set(2, v(2))
	c.Set(1, v(1)) // prepends to block starting at 2
	if len(c.blocks) != 1 || c.blocks[0].Top != 1 {
		t.Fatalf("expected single block starting at 1, got %+v", c.blocks)
	}
}

func TestClearMiddleOfThreeCellBlockSplits(t *testing.T) {
	// Boundary behavior from spec §8: clearing the middle cell of a
	// 3-cell block produces two 1-cell blocks at the original top and
	// bottom.
	c := NewColumn()
	c.Set(1, v(1))
	c.Set(2, v(2))
	c.Set(3, v(3))
	if len(c.blocks) != 1 {
		t.Fatalf("expected single 3-cell block, got %+v", c.blocks)
	}
	c.Clear(2)
	if err := c.IsValid(); err != nil {
		t.Fatalf("IsValid() = %v", err)
	}
	if len(c.blocks) != 2 {
		t.Fatalf("expected 2 blocks after split, got %d: %+v", len(c.blocks), c.blocks)
	}
	if c.blocks[0].Top != 1 || len(c.blocks[0].Cells) != 1 {
		t.Errorf("first block = %+v, want Top=1 len=1", c.blocks[0])
	}
	if c.blocks[1].Top != 3 || len(c.blocks[1].Cells) != 1 {
		t.Errorf("second block = %+v, want Top=3 len=1", c.blocks[1])
	}
	if !c.Get(2).IsBlank() {
		t.Errorf("Get(2) after clear = %v, want Blank", c.Get(2))
	}
}

func TestClearEdgeOfBlockShrinks(t *testing.T) {
	c := NewColumn()
	c.Set(1, v(1))
	c.Set(2, v(2))
	c.Set(3, v(3))
	c.Clear(1)
	if len(c.blocks) != 1 || c.blocks[0].Top != 2 || len(c.blocks[0].Cells) != 2 {
		t.Errorf("after clearing top edge: %+v", c.blocks)
	}
	c.Clear(3)
	if len(c.blocks) != 1 || len(c.blocks[0].Cells) != 1 {
		t.Errorf("after clearing bottom edge: %+v", c.blocks)
	}
}

func TestClearSingleCellBlockDeletesIt(t *testing.T) {
	c := NewColumn()
	c.Set(5, v(1))
	c.Clear(5)
	if len(c.blocks) != 0 {
		t.Errorf("expected no blocks left, got %+v", c.blocks)
	}
	if !c.IsEmpty() {
		t.Error("expected column to report empty")
	}
}

func TestColumnInvariantFuzzSequence(t *testing.T) {
	// A scripted sequence of set/clear calls; Column.IsValid() must
	// hold after every single call (spec §8 invariant 1).
	c := NewColumn()
	ops := []struct {
		y     int64
		clear bool
	}{
		{10, false}, {12, false}, {11, false}, {9, false}, {13, false},
		{11, true}, {9, true}, {13, true}, {10, true}, {12, true},
		{1, false}, {1, true},
	}
	for i, op := range ops {
		if op.clear {
			c.Clear(op.y)
		} else {
			c.Set(op.y, v(op.y))
		}
		if err := c.IsValid(); err != nil {
			t.Fatalf("step %d (y=%d clear=%v): IsValid() = %v", i, op.y, op.clear, err)
		}
	}
}

func TestColumnOverwriteInterior(t *testing.T) {
	c := NewColumn()
	c.Set(1, v(1))
	c.Set(2, v(2))
	c.Set(3, v(3))
	c.Set(2, v(99))
	if !c.Get(2).Equal(v(99)) {
		t.Errorf("Get(2) = %v, want 99", c.Get(2))
	}
	if len(c.blocks) != 1 {
		t.Errorf("overwrite should not change block count, got %+v", c.blocks)
	}
}
