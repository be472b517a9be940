package a1

import (
	"errors"
	"strings"
)

// parseRefRangeBounds parses a single sheet-relative segment (no
// sheet qualifier, no table brackets): "*", "A1", "A1:B2", "A:E",
// "1:3", "A1:C" (col-only end), etc.
func parseRefRangeBounds(text string) (RefRangeBounds, error) {
	if text == "*" {
		return RefRangeBounds{}, nil
	}
	parts := strings.SplitN(text, ":", 2)
	startCol, startRow, err := parseCellRefEnd(parts[0])
	if err != nil {
		return RefRangeBounds{}, err
	}
	if len(parts) == 1 {
		return RefRangeBounds{StartCol: startCol, StartRow: startRow, EndCol: startCol, EndRow: startRow}, nil
	}
	endCol, endRow, err := parseCellRefEnd(parts[1])
	if err != nil {
		return RefRangeBounds{}, err
	}
	// "A:E" (col-only both ends) or "1:3" (row-only both ends) leave
	// the other axis unbounded on both ends; a mixed range like
	// "A1:C" fills the missing end coordinate from the start.
	if startCol != nil && startRow == nil && endCol != nil && endRow == nil {
		return RefRangeBounds{StartCol: startCol, EndCol: endCol}, nil
	}
	if startCol == nil && startRow != nil && endCol == nil && endRow != nil {
		return RefRangeBounds{StartRow: startRow, EndRow: endRow}, nil
	}
	if endCol == nil {
		endCol = startCol
	}
	if endRow == nil {
		endRow = startRow
	}
	return RefRangeBounds{StartCol: startCol, StartRow: startRow, EndCol: endCol, EndRow: endRow}, nil
}

// formatRefRangeBounds renders bounds back to A1 text per the
// formatting contract: single cells collapse to "A1" (not "A1:A1"),
// and a fully-unbounded whole-column/row range collapses "A:A" -> "A"
// / "1:1" -> "1".
func formatRefRangeBounds(b RefRangeBounds) string {
	if b.IsUnbounded() {
		return formatUnboundedBounds(b)
	}
	start := formatCellRefEnd(b.StartCol, b.StartRow)
	if b.StartCol.Coord == b.EndCol.Coord && b.StartRow.Coord == b.EndRow.Coord &&
		b.StartCol.IsAbsolute == b.EndCol.IsAbsolute && b.StartRow.IsAbsolute == b.EndRow.IsAbsolute {
		return start
	}
	end := formatCellRefEnd(b.EndCol, b.EndRow)
	return start + ":" + end
}

func formatUnboundedBounds(b RefRangeBounds) string {
	switch {
	case b.StartCol != nil && b.EndCol != nil && b.StartRow == nil && b.EndRow == nil:
		start, end := formatCellRefEnd(b.StartCol, nil), formatCellRefEnd(b.EndCol, nil)
		if start == end {
			return start
		}
		return start + ":" + end
	case b.StartRow != nil && b.EndRow != nil && b.StartCol == nil && b.EndCol == nil:
		start, end := formatCellRefEnd(nil, b.StartRow), formatCellRefEnd(nil, b.EndRow)
		if start == end {
			return start
		}
		return start + ":" + end
	default:
		return "*"
	}
}

// parseTableRef parses a table reference including its bracketed
// specifier portion: "[[#DATA],[#HEADERS],[Col1]]", "[[Col1]:[Col2]]",
// "[[Col1]:]" or a bare "[Col1]" etc.
// tableName is everything before the first "[".
func parseTableRef(text string) (TableRef, bool, error) {
	idx := strings.IndexByte(text, '[')
	if idx < 0 {
		return TableRef{TableName: text, Data: true, Headers: true}, true, nil
	}
	name := text[idx:]
	tableName := text[:idx]
	inner := strings.TrimSuffix(strings.TrimPrefix(name, "["), "]")

	ref := TableRef{TableName: tableName}
	tokens := splitTopLevelBrackets(inner)
	var colTokens []string
	var toEnd string
	for _, tok := range tokens {
		tok = strings.TrimSuffix(strings.TrimPrefix(tok, "["), "]")
		switch strings.ToUpper(tok) {
		case "#ALL":
			ref.Cols.Kind = ColRangeAll
		case "#DATA":
			ref.Data = true
		case "#HEADERS":
			ref.Headers = true
		case "#TOTALS":
			ref.Totals = true
		case "#THIS ROW":
			ref.ThisRow = true
		default:
			if c1, c2, ok := strings.Cut(tok, "]:["); ok {
				colTokens = append(colTokens, c1, c2)
			} else if c1, ok := strings.CutSuffix(tok, "]:"); ok {
				toEnd = c1
			} else {
				colTokens = append(colTokens, tok)
			}
		}
	}
	switch len(colTokens) {
	case 0:
		if toEnd == "" && ref.Cols.Kind != ColRangeAll && !ref.Data && !ref.Headers && !ref.Totals && !ref.ThisRow {
			ref.Data, ref.Headers = true, true
		}
	case 1:
		ref.Cols = ColRange{Kind: ColRangeCol, Col1: colTokens[0]}
	case 2:
		ref.Cols = ColRange{Kind: ColRangeColRange, Col1: colTokens[0], Col2: colTokens[1]}
	}
	if toEnd != "" {
		ref.Cols = ColRange{Kind: ColRangeColToEnd, Col1: toEnd}
	}
	return ref, true, nil
}

// splitTopLevelBrackets splits "[#DATA],[#HEADERS],[Col1]" into
// ["[#DATA]", "[#HEADERS]", "[Col1]"].
func splitTopLevelBrackets(s string) []string {
	var out []string
	depth := 0
	start := 0
	for i, r := range s {
		switch r {
		case '[':
			depth++
		case ']':
			depth--
		case ',':
			if depth == 0 {
				out = append(out, s[start:i])
				start = i + 1
			}
		}
	}
	if start < len(s) {
		out = append(out, s[start:])
	}
	return out
}

// looksLikeTableRef distinguishes "test_table[[...]]" style segments
// from a plain cell/range reference: it must not start with a digit
// or "$" and must contain neither "*" alone nor parse as a bare cell
// reference pattern before any "[".
func looksLikeTableRef(segment string) bool {
	if strings.ContainsRune(segment, '[') {
		return true
	}
	if segment == "" || segment == "*" {
		return false
	}
	if segment[0] == '$' || (segment[0] >= '0' && segment[0] <= '9') {
		return false
	}
	// if it parses cleanly as a cell/range reference, treat it as one;
	// a cell-shaped segment with a bad row or stray "$" (e.g. "A0",
	// "A$") is a malformed cell reference, not a table name.
	_, err := parseRefRangeBounds(segment)
	if err == nil || errors.Is(err, ErrInvalidRow) || errors.Is(err, ErrSpuriousDollarSign) {
		return false
	}
	return true
}
