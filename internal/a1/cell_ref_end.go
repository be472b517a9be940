package a1

import (
	"strconv"

	"github.com/quadratichq/quadratic-sub012/internal/pos"
)

// parseCellRefEnd parses one "end" of a range: a full cell reference
// (`$A$1`), a column-only reference (`A`, `$A`), or a row-only
// reference (`1`, `$3`). Returns (col, row) pointers, either of which
// may be nil when that axis is absent (whole row / whole column).
//
// Edge cases per spec §4.2: a bare `$` with no letters/digits after it
// is SpuriousDollarSign; a row of 0 is InvalidRow; a lone `$3` (a
// dollar immediately followed by digits, no column) is interpreted as
// an absolute row with no column, not a syntax error — "the parser
// swaps the dollar if no column is present".
func parseCellRefEnd(tok string) (col, row *pos.CellRefCoord, err error) {
	i := 0
	n := len(tok)

	colAbsolute := false
	if i < n && tok[i] == '$' {
		colAbsolute = true
		i++
	}

	letterStart := i
	for i < n && isAsciiLetter(tok[i]) {
		i++
	}
	letters := tok[letterStart:i]

	rowAbsolute := false
	if i < n && tok[i] == '$' {
		rowAbsolute = true
		i++
	}

	digitStart := i
	for i < n && tok[i] >= '0' && tok[i] <= '9' {
		i++
	}
	digits := tok[digitStart:i]

	if i != n {
		return nil, nil, ErrSyntax
	}

	if letters == "" && digits == "" {
		// only dollar sign(s) and nothing else.
		return nil, nil, ErrSpuriousDollarSign
	}

	if rowAbsolute && digits == "" {
		// trailing "$" with nothing after it, e.g. "$A$" or "A$".
		return nil, nil, ErrSpuriousDollarSign
	}

	if letters == "" {
		// row-only reference; a leading "$" with no column swaps onto
		// the row, e.g. "$3" means absolute row 3, not a missing column.
		if digits == "" {
			return nil, nil, ErrSpuriousDollarSign
		}
		rowNum, convErr := strconv.ParseInt(digits, 10, 64)
		if convErr != nil {
			return nil, nil, ErrSyntax
		}
		if rowNum < 1 {
			return nil, nil, ErrInvalidRow
		}
		absolute := colAbsolute || rowAbsolute
		r := pos.NewCellRefCoord(rowNum, absolute)
		return nil, &r, nil
	}

	colNum, convErr := pos.ColumnFromName(letters)
	if convErr != nil {
		return nil, nil, ErrInvalidColumn
	}
	c := pos.NewCellRefCoord(colNum, colAbsolute)

	if digits == "" {
		return &c, nil, nil
	}
	rowNum, convErr := strconv.ParseInt(digits, 10, 64)
	if convErr != nil {
		return nil, nil, ErrSyntax
	}
	if rowNum < 1 {
		return nil, nil, ErrInvalidRow
	}
	r := pos.NewCellRefCoord(rowNum, rowAbsolute)
	return &c, &r, nil
}

func isAsciiLetter(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

// formatCellRefEnd renders a (col, row) pair back to A1 text,
// uppercasing the column and emitting "$" markers per each
// coordinate's IsAbsolute flag.
func formatCellRefEnd(col, row *pos.CellRefCoord) string {
	out := ""
	if col != nil {
		if col.IsAbsolute {
			out += "$"
		}
		out += pos.ColumnName(col.Coord)
	}
	if row != nil {
		if row.IsAbsolute {
			out += "$"
		}
		out += strconv.FormatInt(row.Coord, 10)
	}
	return out
}
