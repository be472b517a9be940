package format

import (
	"testing"

	"github.com/quadratichq/quadratic-sub012/internal/pos"
)

func boolPtr(b bool) *bool { return &b }

func TestResolveFallsThroughSheetColumnRowCell(t *testing.T) {
	f := NewSheetFormats()
	f.SetSheet(FormatUpdate{Bold: boolPtr(true)})
	f.SetColumn(2, FormatUpdate{Italic: boolPtr(true)})
	f.SetRow(5, FormatUpdate{Underline: boolPtr(true)})
	f.SetCells(pos.NewRect(2, 5, 2, 5), FormatUpdate{StrikeThrough: boolPtr(true)})

	got := f.Resolve(pos.NewPos(2, 5))
	if got.Bold == nil || !*got.Bold {
		t.Error("expected Bold to fall through from sheet default")
	}
	if got.Italic == nil || !*got.Italic {
		t.Error("expected Italic to fall through from column")
	}
	if got.Underline == nil || !*got.Underline {
		t.Error("expected Underline to fall through from row")
	}
	if got.StrikeThrough == nil || !*got.StrikeThrough {
		t.Error("expected StrikeThrough from cell override")
	}

	// a neighboring cell in the same column but a different row should
	// not see the row-level underline.
	other := f.Resolve(pos.NewPos(2, 6))
	if other.Underline != nil {
		t.Error("underline should not leak to a different row")
	}
	if other.Italic == nil || !*other.Italic {
		t.Error("italic should still apply via the column")
	}
}

func TestCellOverrideWinsOverColumn(t *testing.T) {
	f := NewSheetFormats()
	f.SetColumn(1, FormatUpdate{Bold: boolPtr(true)})
	f.SetCells(pos.NewRect(1, 1, 1, 1), FormatUpdate{Bold: boolPtr(false)})

	got := f.Resolve(pos.NewPos(1, 1))
	if got.Bold == nil || *got.Bold {
		t.Error("cell-level override should win over column default")
	}
}

func TestContiguous2DOverrideOnlyStoresOverriddenRect(t *testing.T) {
	// Spec E5 (adapted to formatting): setting a broad rect then a
	// narrower override leaves the broad rect's edges intact outside
	// the narrower rect.
	c := New[FormatUpdate]()
	c.Set(pos.NewRect(1, 1, 2, 2), FormatUpdate{Bold: boolPtr(true)})
	c.Set(pos.NewRect(1, 1, 2, 1), FormatUpdate{Italic: boolPtr(true)})

	top, ok := c.Get(1, 1)
	if !ok || top.Italic == nil || !*top.Italic {
		t.Errorf("top row should carry the narrower override, got %+v", top)
	}
	if top.Bold != nil {
		t.Errorf("narrower Set should fully overwrite, not merge: %+v", top)
	}
	bottom, ok := c.Get(1, 2)
	if !ok || bottom.Bold == nil || !*bottom.Bold {
		t.Errorf("bottom row should retain the original bold override, got %+v", bottom)
	}
}

func TestInsertColumnShiftsCellAndColumnFormats(t *testing.T) {
	f := NewSheetFormats()
	f.SetColumn(2, FormatUpdate{Bold: boolPtr(true)})
	f.SetCells(pos.NewRect(2, 1, 2, 1), FormatUpdate{Italic: boolPtr(true)})
	f.InsertColumn(2)

	if got := f.Resolve(pos.NewPos(2, 1)); got.Bold != nil || got.Italic != nil {
		t.Errorf("column 2 should be blank after insert, got %+v", got)
	}
	got := f.Resolve(pos.NewPos(3, 1))
	if got.Bold == nil || !*got.Bold {
		t.Error("old column 2 formatting should now be at column 3")
	}
	if got.Italic == nil || !*got.Italic {
		t.Error("old cell override at column 2 should now be at column 3")
	}
}

func TestDeleteColumnReverseOfInsert(t *testing.T) {
	f := NewSheetFormats()
	f.SetColumn(2, FormatUpdate{Bold: boolPtr(true)})
	f.InsertColumn(2)
	f.DeleteColumn(2)
	got := f.Resolve(pos.NewPos(2, 1))
	if got.Bold == nil || !*got.Bold {
		t.Error("expected column 2 bold restored after insert+delete round trip")
	}
}

func TestUpdateMergesWithoutExistingEntry(t *testing.T) {
	c := New[FormatUpdate]()
	c.Update(pos.NewRect(5, 5, 5, 5), func(existing FormatUpdate, ok bool) FormatUpdate {
		if ok {
			t.Fatal("expected no existing entry")
		}
		return existing.Combine(FormatUpdate{Bold: boolPtr(true)})
	})
	got, ok := c.Get(5, 5)
	if !ok || got.Bold == nil || !*got.Bold {
		t.Errorf("Get(5,5) = %+v, ok=%v", got, ok)
	}
}
