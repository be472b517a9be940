package a1

import (
	"strings"

	"github.com/quadratichq/quadratic-sub012/internal/pos"
	"github.com/quadratichq/quadratic-sub012/internal/table"
)

// A1Selection is a sheet-scoped selection: a non-empty ordered list of
// ranges plus a cursor position (spec §3.9). Every range is relative
// to SheetID; a selection spanning multiple sheets is not
// representable — the caller must build one A1Selection per sheet.
type A1Selection struct {
	SheetID pos.SheetId
	Cursor  pos.Pos
	Ranges  []CellRefRange
}

// NewA1Selection builds a selection around a single cell.
func NewA1Selection(sheetID pos.SheetId, cursor pos.Pos) A1Selection {
	coordCol := pos.NewCellRefCoord(cursor.X, false)
	coordRow := pos.NewCellRefCoord(cursor.Y, false)
	return A1Selection{
		SheetID: sheetID,
		Cursor:  cursor,
		Ranges:  []CellRefRange{NewCellRefRangeSheet(NewRefRangeSingleCell(coordCol, coordRow))},
	}
}

// Parse implements the A1Selection parsing contract (spec §4.2):
// comma-separated segments (respecting quotes/brackets), each an
// optionally sheet-qualified cell/range or table reference. Every
// segment must resolve to the same sheet id or parsing fails with
// ErrTooManySheets. The cursor is derived from the last range.
func Parse(text string, defaultSheetID pos.SheetId, ctx *table.A1Context) (A1Selection, error) {
	segments := splitSegments(text)
	var ranges []CellRefRange
	var sheetID pos.SheetId
	haveSheet := false

	for _, seg := range segments {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue // trailing/empty comma segment tolerated
		}

		sheetPart, rest, hadQualifier := splitSheetQualifier(seg)
		segSheetID := defaultSheetID
		if hadQualifier {
			name := table.UnquoteSheetName(sheetPart)
			id, ok := ctx.Sheets.TrySheetName(name)
			if !ok {
				return A1Selection{}, ErrUnknownSheet
			}
			segSheetID = id
		}

		if !haveSheet {
			sheetID = segSheetID
			haveSheet = true
		} else if sheetID != segSheetID {
			return A1Selection{}, ErrTooManySheets
		}

		rng, err := parseSegment(rest, ctx)
		if err != nil {
			return A1Selection{}, err
		}
		ranges = append(ranges, rng)
	}

	if len(ranges) == 0 {
		return A1Selection{}, ErrSyntax
	}

	cursor, err := cursorFromRange(ranges[len(ranges)-1], sheetID, ctx)
	if err != nil {
		return A1Selection{}, err
	}

	return A1Selection{SheetID: sheetID, Cursor: cursor, Ranges: ranges}, nil
}

// ParseRange parses a single, possibly sheet-qualified reference
// (cell, range, whole row/column, or table reference) outside of the
// comma-separated selection grammar — the shape a formula's embedded
// cell references take. Returns the resolved sheet id (defaultSheetID
// when unqualified) alongside the range.
func ParseRange(text string, defaultSheetID pos.SheetId, ctx *table.A1Context) (pos.SheetId, CellRefRange, error) {
	sheetPart, rest, hadQualifier := splitSheetQualifier(text)
	sheetID := defaultSheetID
	if hadQualifier {
		name := table.UnquoteSheetName(sheetPart)
		id, ok := ctx.Sheets.TrySheetName(name)
		if !ok {
			return pos.SheetId{}, CellRefRange{}, ErrUnknownSheet
		}
		sheetID = id
	}
	rng, err := parseSegment(rest, ctx)
	if err != nil {
		return pos.SheetId{}, CellRefRange{}, err
	}
	return sheetID, rng, nil
}

func parseSegment(rest string, ctx *table.A1Context) (CellRefRange, error) {
	if looksLikeTableRef(rest) {
		ref, ok, err := parseTableRef(rest)
		if err != nil {
			return CellRefRange{}, err
		}
		if !ok {
			return CellRefRange{}, ErrSyntax
		}
		if _, found := ctx.Tables.TryTable(ref.TableName); !found {
			return CellRefRange{}, ErrUnknownTable
		}
		return NewCellRefRangeTable(ref), nil
	}
	bounds, err := parseRefRangeBounds(rest)
	if err != nil {
		return CellRefRange{}, err
	}
	return NewCellRefRangeSheet(bounds), nil
}

func cursorFromRange(r CellRefRange, sheetID pos.SheetId, ctx *table.A1Context) (pos.Pos, error) {
	switch r.Kind {
	case CellRefRangeTable:
		dt, ok := ctx.Tables.TryTable(r.Table.TableName)
		if !ok {
			return pos.Pos{}, ErrUnknownTable
		}
		rect, err := r.Table.ToRect(dt)
		if err != nil {
			return pos.Pos{}, err
		}
		return rect.Min, nil
	default:
		if r.Sheet.StartCol != nil && r.Sheet.StartRow != nil {
			return pos.NewPos(r.Sheet.StartCol.Coord, r.Sheet.StartRow.Coord), nil
		}
		if r.Sheet.StartCol != nil {
			return pos.NewPos(r.Sheet.StartCol.Coord, 1), nil
		}
		if r.Sheet.StartRow != nil {
			return pos.NewPos(1, r.Sheet.StartRow.Coord), nil
		}
		return pos.NewPos(1, 1), nil
	}
}

// String implements the A1Selection formatting contract (spec §4.2):
// sheet qualifiers are omitted when the range's sheet matches
// defaultSheetID and forceSheetName is false; otherwise the sheet name
// is quoted per spec §3.6 and prefixed to every range.
func (s A1Selection) String(defaultSheetID pos.SheetId, ctx *table.A1Context, forceSheetName bool) string {
	qualifier := ""
	if forceSheetName || s.SheetID != defaultSheetID {
		name := ctx.DefaultSheetName(s.SheetID)
		qualifier = table.QuoteSheetName(name) + "!"
	}
	parts := make([]string, len(s.Ranges))
	for i, r := range s.Ranges {
		parts[i] = qualifier + r.String()
	}
	return strings.Join(parts, ",")
}
