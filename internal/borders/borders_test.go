package borders

import (
	"testing"

	"github.com/quadratichq/quadratic-sub012/internal/pos"
)

func TestOverrideTopBorderLeavesOtherEdgesIntact(t *testing.T) {
	// Spec E5: set Line1 on all four edges of A1:B2, then Line2 on
	// top across A1:B1. A1 should retain Line2 top and Line1 on the
	// other three sides.
	b := NewSheetBorders()
	rectA1B2 := pos.NewRect(1, 1, 2, 2)
	rectA1B1 := pos.NewRect(1, 1, 2, 1)

	b.SetRect(rectA1B2, []Edge{Top, Bottom, Left, Right}, BorderStyleTimestamp{Line: Line1, Timestamp: 1})
	b.SetEdge(rectA1B1, Top, BorderStyleTimestamp{Line: Line2, Timestamp: 2})

	a1 := pos.NewPos(1, 1)
	top, ok := b.GetEdge(a1, Top)
	if !ok || top.Line != Line2 {
		t.Errorf("A1 top = %+v, ok=%v, want Line2", top, ok)
	}
	bottom, ok := b.GetEdge(a1, Bottom)
	if !ok || bottom.Line != Line1 {
		t.Errorf("A1 bottom = %+v, want Line1", bottom)
	}
	left, ok := b.GetEdge(a1, Left)
	if !ok || left.Line != Line1 {
		t.Errorf("A1 left = %+v, want Line1", left)
	}
	right, ok := b.GetEdge(a1, Right)
	if !ok || right.Line != Line1 {
		t.Errorf("A1 right = %+v, want Line1", right)
	}

	// B2 (not touched by the narrower top override) keeps Line1 top.
	b2 := pos.NewPos(2, 2)
	b2Top, ok := b.GetEdge(b2, Top)
	if !ok || b2Top.Line != Line1 {
		t.Errorf("B2 top = %+v, want Line1", b2Top)
	}
}

func TestOlderTimestampDoesNotOverride(t *testing.T) {
	b := NewSheetBorders()
	rect := pos.NewRect(1, 1, 1, 1)
	b.SetEdge(rect, Top, BorderStyleTimestamp{Line: Line2, Timestamp: 10})
	b.SetEdge(rect, Top, BorderStyleTimestamp{Line: Line1, Timestamp: 5})

	got, ok := b.GetEdge(pos.NewPos(1, 1), Top)
	if !ok || got.Line != Line2 {
		t.Errorf("older write should not override newer: got %+v", got)
	}
}

func TestBaselineFallThrough(t *testing.T) {
	b := NewSheetBorders()
	b.SetBaselineAll(BorderStyleTimestamp{Line: Dotted, Timestamp: 1})
	b.SetBaselineColumn(3, BorderStyleTimestamp{Line: Dashed, Timestamp: 1})
	b.SetBaselineRow(7, BorderStyleTimestamp{Line: Double, Timestamp: 1})

	if got, ok := b.GetEdge(pos.NewPos(1, 1), Top); !ok || got.Line != Dotted {
		t.Errorf("expected sheet-wide baseline, got %+v", got)
	}
	if got, ok := b.GetEdge(pos.NewPos(3, 1), Top); !ok || got.Line != Dashed {
		t.Errorf("expected column baseline to beat sheet baseline, got %+v", got)
	}
	if got, ok := b.GetEdge(pos.NewPos(1, 7), Top); !ok || got.Line != Double {
		t.Errorf("expected row baseline to beat sheet baseline, got %+v", got)
	}
	// cell-level override beats every baseline layer.
	b.SetEdge(pos.NewRect(3, 7, 3, 7), Top, BorderStyleTimestamp{Line: Line3, Timestamp: 2})
	if got, ok := b.GetEdge(pos.NewPos(3, 7), Top); !ok || got.Line != Line3 {
		t.Errorf("expected cell override to win over baselines, got %+v", got)
	}
}

func TestNoBorderReportsNotOK(t *testing.T) {
	b := NewSheetBorders()
	if _, ok := b.GetEdge(pos.NewPos(1, 1), Top); ok {
		t.Error("expected no border on a fresh sheet")
	}
}

func TestInsertColumnShiftsBorders(t *testing.T) {
	b := NewSheetBorders()
	b.SetEdge(pos.NewRect(2, 1, 2, 1), Top, BorderStyleTimestamp{Line: Line1, Timestamp: 1})
	b.InsertColumn(2)

	if _, ok := b.GetEdge(pos.NewPos(2, 1), Top); ok {
		t.Error("column 2 should be blank after insert")
	}
	if got, ok := b.GetEdge(pos.NewPos(3, 1), Top); !ok || got.Line != Line1 {
		t.Errorf("old column 2 border should now be at column 3, got %+v ok=%v", got, ok)
	}
}
