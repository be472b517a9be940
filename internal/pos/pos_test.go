package pos

import "testing"

func TestColumnNameRoundTrip(t *testing.T) {
	tests := []struct {
		col  int64
		name string
	}{
		{1, "A"},
		{2, "B"},
		{26, "Z"},
		{27, "AA"},
		{28, "AB"},
		{52, "AZ"},
		{53, "BA"},
		{702, "ZZ"},
		{703, "AAA"},
	}
	for _, tt := range tests {
		if got := ColumnName(tt.col); got != tt.name {
			t.Errorf("ColumnName(%d) = %q, want %q", tt.col, got, tt.name)
		}
		got, err := ColumnFromName(tt.name)
		if err != nil {
			t.Fatalf("ColumnFromName(%q) error: %v", tt.name, err)
		}
		if got != tt.col {
			t.Errorf("ColumnFromName(%q) = %d, want %d", tt.name, got, tt.col)
		}
	}
}

func TestColumnFromNameCaseInsensitive(t *testing.T) {
	got, err := ColumnFromName("aa")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 27 {
		t.Errorf("ColumnFromName(\"aa\") = %d, want 27", got)
	}
}

func TestColumnFromNameInvalid(t *testing.T) {
	if _, err := ColumnFromName(""); err == nil {
		t.Error("expected error for empty column name")
	}
	if _, err := ColumnFromName("A1"); err == nil {
		t.Error("expected error for column name containing digits")
	}
}

func TestRectWidthHeight(t *testing.T) {
	r := NewRect(1, 1, 3, 5)
	if r.Width() != 3 {
		t.Errorf("Width() = %d, want 3", r.Width())
	}
	if r.Height() != 5 {
		t.Errorf("Height() = %d, want 5", r.Height())
	}
}

func TestRectContains(t *testing.T) {
	r := NewRect(1, 1, 3, 3)
	if !r.Contains(NewPos(2, 2)) {
		t.Error("expected (2,2) to be contained")
	}
	if r.Contains(NewPos(4, 2)) {
		t.Error("expected (4,2) to not be contained")
	}
}

func TestRectUnion(t *testing.T) {
	r1 := NewRect(1, 2, 3, 4)
	r2 := NewRect(2, 3, 4, 5)
	got := r1.Union(r2)
	want := NewRect(1, 2, 4, 5)
	if got != want {
		t.Errorf("Union() = %v, want %v", got, want)
	}
}

func TestRectIntersection(t *testing.T) {
	r1 := NewRect(1, 1, 5, 5)
	r2 := NewRect(3, 3, 7, 7)
	got, ok := r1.Intersection(r2)
	if !ok {
		t.Fatal("expected intersection to exist")
	}
	want := NewRect(3, 3, 5, 5)
	if got != want {
		t.Errorf("Intersection() = %v, want %v", got, want)
	}

	_, ok = NewRect(1, 1, 2, 2).Intersection(NewRect(5, 5, 6, 6))
	if ok {
		t.Error("expected no intersection")
	}
}

func TestNewRectSpanDirectionIndependent(t *testing.T) {
	got := NewRectSpan(NewPos(3, 4), NewPos(1, 2))
	want := NewRect(1, 2, 3, 4)
	if got != want {
		t.Errorf("NewRectSpan() = %v, want %v", got, want)
	}
}

func TestSheetRectUnionPanicsAcrossSheets(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic when unioning SheetRects on different sheets")
		}
	}()
	a := NewSheetRect(NewSheetId(), 1, 1, 2, 2)
	b := NewSheetRect(NewSheetId(), 1, 1, 2, 2)
	a.Union(b)
}

func TestSheetIdRoundTripsThroughText(t *testing.T) {
	id := NewSheetId()
	text, err := id.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText error: %v", err)
	}
	var got SheetId
	if err := got.UnmarshalText(text); err != nil {
		t.Fatalf("UnmarshalText error: %v", err)
	}
	if got != id {
		t.Errorf("round-tripped SheetId = %v, want %v", got, id)
	}
}

func TestCellRefCoordTranslate(t *testing.T) {
	rel := NewCellRefCoord(5, false)
	if got := rel.Translate(3); got.Coord != 8 {
		t.Errorf("relative Translate() = %d, want 8", got.Coord)
	}
	abs := NewCellRefCoord(5, true)
	if got := abs.Translate(3); got.Coord != 5 {
		t.Errorf("absolute Translate() = %d, want unchanged 5", got.Coord)
	}
}
