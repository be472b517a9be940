package pos

import (
	"fmt"

	"github.com/google/uuid"
)

// SheetId is an opaque 128-bit identifier for a sheet, stable across
// renames. Backed by uuid.UUID per spec: "UUID semantics".
type SheetId struct {
	id uuid.UUID
}

// NewSheetId generates a fresh, random SheetId.
func NewSheetId() SheetId {
	return SheetId{id: uuid.New()}
}

// SheetIdFromString parses a canonical UUID string into a SheetId.
func SheetIdFromString(s string) (SheetId, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return SheetId{}, fmt.Errorf("pos: invalid sheet id %q: %w", s, err)
	}
	return SheetId{id: id}, nil
}

func (s SheetId) String() string { return s.id.String() }

// IsZero reports whether this SheetId was never assigned (the
// uuid.Nil sentinel used by zero-value SheetId variables).
func (s SheetId) IsZero() bool { return s.id == uuid.Nil }

// MarshalText implements encoding.TextMarshaler so SheetId round-trips
// through JSON as a plain string.
func (s SheetId) MarshalText() ([]byte, error) {
	return []byte(s.id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *SheetId) UnmarshalText(text []byte) error {
	id, err := uuid.Parse(string(text))
	if err != nil {
		return fmt.Errorf("pos: invalid sheet id %q: %w", text, err)
	}
	s.id = id
	return nil
}

// SheetPos is a cell position qualified by the sheet it lives on.
type SheetPos struct {
	SheetId SheetId
	Pos
}

// NewSheetPos constructs a SheetPos.
func NewSheetPos(sheetID SheetId, x, y int64) SheetPos {
	return SheetPos{SheetId: sheetID, Pos: Pos{X: x, Y: y}}
}

func (sp SheetPos) String() string {
	return fmt.Sprintf("%s (%d, %d)", sp.SheetId, sp.X, sp.Y)
}

// ToPos strips the sheet qualifier.
func (sp SheetPos) ToPos() Pos { return sp.Pos }

// SheetRect is a Rect qualified by the sheet it lives on.
type SheetRect struct {
	SheetId SheetId
	Rect
}

// NewSheetRect constructs a SheetRect from raw coordinates.
func NewSheetRect(sheetID SheetId, x0, y0, x1, y1 int64) SheetRect {
	return SheetRect{SheetId: sheetID, Rect: NewRect(x0, y0, x1, y1)}
}

// NewSheetRectSpan builds the smallest SheetRect spanning two
// SheetPos values. Both must share the same sheet.
func NewSheetRectSpan(a, b SheetPos) SheetRect {
	return SheetRect{SheetId: a.SheetId, Rect: NewRectSpan(a.Pos, b.Pos)}
}

// SingleSheetPos returns a 1x1 SheetRect around sp.
func SingleSheetPos(sp SheetPos) SheetRect {
	return SheetRect{SheetId: sp.SheetId, Rect: SinglePos(sp.Pos)}
}

// Contains reports whether sp lies within the rectangle, including a
// sheet id match.
func (sr SheetRect) Contains(sp SheetPos) bool {
	return sr.SheetId == sp.SheetId && sr.Rect.Contains(sp.Pos)
}

// Union merges two SheetRects on the same sheet. Panics if the sheet
// ids differ, mirroring the reference implementation's invariant that
// a union only makes sense within one sheet.
func (sr SheetRect) Union(other SheetRect) SheetRect {
	if sr.SheetId != other.SheetId {
		panic("pos: cannot union SheetRects on different sheets")
	}
	return SheetRect{SheetId: sr.SheetId, Rect: sr.Rect.Union(other.Rect)}
}

func (sr SheetRect) String() string {
	return fmt.Sprintf("Sheet: %s, Min: %s, Max: %s", sr.SheetId, sr.Min, sr.Max)
}

// CellRefCoord is a single A1 coordinate component (column or row)
// together with its absolute-reference ("$") flag.
type CellRefCoord struct {
	Coord      int64
	IsAbsolute bool
}

// NewCellRefCoord constructs a CellRefCoord.
func NewCellRefCoord(coord int64, absolute bool) CellRefCoord {
	return CellRefCoord{Coord: coord, IsAbsolute: absolute}
}

// Translate shifts the coordinate by delta unless it is absolute.
func (c CellRefCoord) Translate(delta int64) CellRefCoord {
	if c.IsAbsolute {
		return c
	}
	return CellRefCoord{Coord: c.Coord + delta, IsAbsolute: false}
}
