package table

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/quadratichq/quadratic-sub012/internal/cellvalue"
	"github.com/quadratichq/quadratic-sub012/internal/pos"
)

// DataTable describes one named, rectangular structured-reference
// region on a sheet (spec §3.5). The owning code cell sits at
// Bounds.Min.
type DataTable struct {
	Name          string
	SheetID       pos.SheetId
	Bounds        pos.Rect
	Columns       []string
	ShowName      bool
	ShowColumns   bool
	IsHTMLImage   bool
	HiddenColumns []string
	Language      cellvalue.CodeLanguage
}

// VisibleColumns returns Columns with any name in HiddenColumns
// removed, preserving order.
func (t DataTable) VisibleColumns() []string {
	hidden := lo.SliceToMap(t.HiddenColumns, func(c string) (string, bool) { return c, true })
	return lo.Filter(t.Columns, func(c string, _ int) bool { return !hidden[c] })
}

// ColumnIndex returns the zero-based index of a column name within
// Columns, case-insensitively, and true if found.
func (t DataTable) ColumnIndex(name string) (int, bool) {
	idx, ok := lo.FindIndexOf(t.Columns, func(c string) bool {
		return strings.EqualFold(c, name)
	})
	if !ok {
		return 0, false
	}
	return idx, true
}

// TableMap holds every data table in a workbook, keyed
// case-insensitively by name (spec §3.5 "case-insensitive unique
// within the workbook").
type TableMap struct {
	tables map[string]DataTable // keyed by lowercase name
}

// NewTableMap returns an empty TableMap.
func NewTableMap() *TableMap {
	return &TableMap{tables: make(map[string]DataTable)}
}

// Add inserts a table. Returns an error if the name is already taken
// (case-insensitively) or its bounds overlap another table on the
// same sheet.
func (m *TableMap) Add(t DataTable) error {
	key := strings.ToLower(t.Name)
	if _, exists := m.tables[key]; exists {
		return fmt.Errorf("table: name %q already in use", t.Name)
	}
	for _, other := range m.tables {
		if other.SheetID == t.SheetID && rectsOverlap(other.Bounds, t.Bounds) {
			return fmt.Errorf("table: %q bounds overlap existing table %q", t.Name, other.Name)
		}
	}
	m.tables[key] = t
	return nil
}

// Remove deletes a table by name.
func (m *TableMap) Remove(name string) {
	delete(m.tables, strings.ToLower(name))
}

// TryTable returns a table by case-insensitive name.
func (m *TableMap) TryTable(name string) (DataTable, bool) {
	t, ok := m.tables[strings.ToLower(name)]
	return t, ok
}

// Tables returns every table, order unspecified.
func (m *TableMap) Tables() []DataTable {
	out := make([]DataTable, 0, len(m.tables))
	for _, t := range m.tables {
		out = append(out, t)
	}
	return out
}

// UpdateBounds rewrites the stored bounds for an existing table, e.g.
// after an insert/delete column or row shifted everything past the
// table's position (spec §4.7 "adjust every table that crosses c'").
// No-op if name is unknown.
func (m *TableMap) UpdateBounds(name string, bounds pos.Rect) {
	key := strings.ToLower(name)
	t, ok := m.tables[key]
	if !ok {
		return
	}
	t.Bounds = bounds
	m.tables[key] = t
}

// TableAt returns the table whose bounds contain sp, if any.
func (m *TableMap) TableAt(sp pos.SheetPos) (DataTable, bool) {
	return lo.Find(m.Tables(), func(t DataTable) bool {
		return t.SheetID == sp.SheetId && t.Bounds.Contains(sp.Pos)
	})
}

// TableFromPos is an alias for TableAt, matching the original's
// naming (table_from_pos) for call sites translating directly from
// a selection/rewrite algorithm.
func (m *TableMap) TableFromPos(sp pos.SheetPos) (DataTable, bool) {
	return m.TableAt(sp)
}

func rectsOverlap(a, b pos.Rect) bool {
	return a.Min.X <= b.Max.X && a.Max.X >= b.Min.X && a.Min.Y <= b.Max.Y && a.Max.Y >= b.Min.Y
}
