// Package pos defines the coordinate primitives used across the grid:
// cell positions, rectangles, and their sheet-scoped counterparts.
package pos

import (
	"fmt"
	"strings"
)

// Pos is a cell position. X is the column, Y is the row. Both are
// 1-indexed in A1 space (X=1 is "A", Y=1 is row 1); zero and negative
// values are permitted internally but have no A1 representation.
type Pos struct {
	X int64
	Y int64
}

// Origin is the zero position.
var Origin = Pos{X: 0, Y: 0}

// NewPos constructs a Pos.
func NewPos(x, y int64) Pos {
	return Pos{X: x, Y: y}
}

// ToSheetPos attaches a sheet id to this position.
func (p Pos) ToSheetPos(sheetID SheetId) SheetPos {
	return SheetPos{SheetId: sheetID, Pos: p}
}

func (p Pos) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}

// Rect is an inclusive rectangle: both Min and Max are part of the rect.
type Rect struct {
	Min Pos
	Max Pos
}

// NewRect builds a Rect from raw coordinates.
func NewRect(x0, y0, x1, y1 int64) Rect {
	return Rect{Min: Pos{X: x0, Y: y0}, Max: Pos{X: x1, Y: y1}}
}

// NewRectSpan builds the smallest Rect containing both positions,
// regardless of which corner each position represents.
func NewRectSpan(a, b Pos) Rect {
	return Rect{
		Min: Pos{X: minI64(a.X, b.X), Y: minI64(a.Y, b.Y)},
		Max: Pos{X: maxI64(a.X, b.X), Y: maxI64(a.Y, b.Y)},
	}
}

// SinglePos returns a 1x1 Rect around pos.
func SinglePos(p Pos) Rect {
	return Rect{Min: p, Max: p}
}

// Width returns the number of columns spanned.
func (r Rect) Width() int64 { return r.Max.X - r.Min.X + 1 }

// Height returns the number of rows spanned.
func (r Rect) Height() int64 { return r.Max.Y - r.Min.Y + 1 }

// Contains reports whether pos lies within the rectangle (inclusive).
func (r Rect) Contains(p Pos) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// Intersects reports whether the two rectangles share any cell.
func (r Rect) Intersects(other Rect) bool {
	return r.Min.X <= other.Max.X && r.Max.X >= other.Min.X &&
		r.Min.Y <= other.Max.Y && r.Max.Y >= other.Min.Y
}

// Union returns the smallest rectangle containing both inputs.
func (r Rect) Union(other Rect) Rect {
	return Rect{
		Min: Pos{X: minI64(r.Min.X, other.Min.X), Y: minI64(r.Min.Y, other.Min.Y)},
		Max: Pos{X: maxI64(r.Max.X, other.Max.X), Y: maxI64(r.Max.Y, other.Max.Y)},
	}
}

// Intersection returns the overlapping rectangle and true, or the zero
// Rect and false if the two rectangles do not overlap.
func (r Rect) Intersection(other Rect) (Rect, bool) {
	if !r.Intersects(other) {
		return Rect{}, false
	}
	return Rect{
		Min: Pos{X: maxI64(r.Min.X, other.Min.X), Y: maxI64(r.Min.Y, other.Min.Y)},
		Max: Pos{X: minI64(r.Max.X, other.Max.X), Y: minI64(r.Max.Y, other.Max.Y)},
	}, true
}

func (r Rect) String() string {
	return fmt.Sprintf("%s:%s", r.Min, r.Max)
}

func minI64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

func maxI64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

// ColumnName converts a 1-indexed column number to its A1 letter
// encoding using the bijective base-26 scheme ("A"->1, "Z"->26,
// "AA"->27, ...). Non-positive columns are rendered with a leading
// "n" and the absolute value, matching the internal (non-A1)
// representation used for negative coordinates in diagnostics.
func ColumnName(col int64) string {
	if col <= 0 {
		return fmt.Sprintf("n%d", -col)
	}
	var sb strings.Builder
	letters := make([]byte, 0, 8)
	n := col
	for n > 0 {
		n--
		letters = append(letters, byte('A'+n%26))
		n /= 26
	}
	for i := len(letters) - 1; i >= 0; i-- {
		sb.WriteByte(letters[i])
	}
	return sb.String()
}

// ColumnFromName converts an A1 column letter string (case-insensitive)
// to its 1-indexed column number. Returns an error if name is empty or
// contains non-letter characters.
func ColumnFromName(name string) (int64, error) {
	if name == "" {
		return 0, fmt.Errorf("pos: empty column name")
	}
	var n int64
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'A' && c <= 'Z':
			n = n*26 + int64(c-'A'+1)
		case c >= 'a' && c <= 'z':
			n = n*26 + int64(c-'a'+1)
		default:
			return 0, fmt.Errorf("pos: invalid column letter %q in %q", c, name)
		}
	}
	return n, nil
}

// A1String renders pos using the same convention as ColumnName/row.
func (p Pos) A1String() string {
	col := ColumnName(p.X)
	if p.Y < 0 {
		return fmt.Sprintf("%sn%d", col, -p.Y)
	}
	return fmt.Sprintf("%s%d", col, p.Y)
}
