package grid

import (
	"sort"

	"github.com/quadratichq/quadratic-sub012/internal/cellvalue"
	"github.com/quadratichq/quadratic-sub012/internal/pos"
)

// Sheet is one tab of a workbook. It exclusively owns its columns;
// formatting, borders, and data tables are attached by the
// format/borders/table packages via SheetId lookups so that grid
// stays free of those upstream dependencies.
type Sheet struct {
	ID      pos.SheetId
	Name    string
	Order   string // fractional-indexing sort key among sibling sheets
	columns map[int64]*Column
}

// NewSheet creates an empty sheet with the given id and name.
func NewSheet(id pos.SheetId, name string) *Sheet {
	return &Sheet{ID: id, Name: name, columns: make(map[int64]*Column)}
}

// column returns the column at x, creating it if create is true and
// it does not yet exist.
func (s *Sheet) column(x int64, create bool) *Column {
	col, ok := s.columns[x]
	if !ok {
		if !create {
			return nil
		}
		col = NewColumn()
		s.columns[x] = col
	}
	return col
}

// GetCell returns the value at p, or Blank if empty.
func (s *Sheet) GetCell(p pos.Pos) cellvalue.CellValue {
	col := s.column(p.X, false)
	if col == nil {
		return cellvalue.Blank
	}
	return col.Get(p.Y)
}

// SetCell stores value at p, creating the column if needed. Setting
// Blank clears the cell and may delete an empty column.
func (s *Sheet) SetCell(p pos.Pos, value cellvalue.CellValue) {
	if value.IsBlank() {
		s.ClearCell(p)
		return
	}
	s.column(p.X, true).Set(p.Y, value)
}

// ClearCell removes the value at p, if any, and deletes the backing
// column once it becomes empty.
func (s *Sheet) ClearCell(p pos.Pos) {
	col := s.column(p.X, false)
	if col == nil {
		return
	}
	col.Clear(p.Y)
	if col.IsEmpty() {
		delete(s.columns, p.X)
	}
}

// ColumnIndices returns the indices of all non-empty columns, sorted
// ascending.
func (s *Sheet) ColumnIndices() []int64 {
	indices := make([]int64, 0, len(s.columns))
	for x := range s.columns {
		indices = append(indices, x)
	}
	sort.Slice(indices, func(i, j int) bool { return indices[i] < indices[j] })
	return indices
}

// Column returns the column at x or nil if it does not exist. Callers
// must not mutate the structure invariants directly outside of
// SetCell/ClearCell; this is exposed for read-only traversal (e.g. the
// formula range operator, clipboard copy).
func (s *Sheet) Column(x int64) *Column { return s.column(x, false) }

// Bounds returns the smallest Rect containing every non-empty cell on
// the sheet, and false if the sheet is entirely empty.
func (s *Sheet) Bounds() (pos.Rect, bool) {
	var minX, maxX, minY, maxY int64
	first := true
	for x, col := range s.columns {
		lo, hi, ok := col.Bounds()
		if !ok {
			continue
		}
		if first {
			minX, maxX = x, x
			minY, maxY = lo, hi
			first = false
			continue
		}
		if x < minX {
			minX = x
		}
		if x > maxX {
			maxX = x
		}
		if lo < minY {
			minY = lo
		}
		if hi > maxY {
			maxY = hi
		}
	}
	if first {
		return pos.Rect{}, false
	}
	return pos.NewRect(minX, minY, maxX, maxY), true
}

// Clone returns a deep copy of the sheet's cell contents. Used by
// package operation to snapshot a sheet before deleting it so the
// reverse DeleteSheet operation can restore it byte-for-byte.
func (s *Sheet) Clone() *Sheet {
	clone := &Sheet{ID: s.ID, Name: s.Name, Order: s.Order, columns: make(map[int64]*Column, len(s.columns))}
	for x, col := range s.columns {
		clone.columns[x] = col.Clone()
	}
	return clone
}

// IsValid runs Column.IsValid() over every column; used by tests.
func (s *Sheet) IsValid() error {
	for _, x := range s.ColumnIndices() {
		if err := s.columns[x].IsValid(); err != nil {
			return err
		}
	}
	return nil
}

// InsertColumn shifts every column at index >= at one column to the
// right, in descending order of index to avoid aliasing, then clears
// column `at` for new content. Matches spec §4.7 "Insert column"
// shifting contract (the copy-formats-policy offset is resolved by
// the caller in package operation; Sheet only performs the raw shift).
func (s *Sheet) InsertColumn(at int64) {
	indices := s.ColumnIndices()
	for i := len(indices) - 1; i >= 0; i-- {
		x := indices[i]
		if x < at {
			continue
		}
		s.columns[x+1] = s.columns[x]
		delete(s.columns, x)
	}
}

// DeleteColumn removes column `at` entirely and shifts every column
// at index > at one column to the left, in ascending order.
func (s *Sheet) DeleteColumn(at int64) {
	delete(s.columns, at)
	indices := s.ColumnIndices()
	for _, x := range indices {
		if x <= at {
			continue
		}
		s.columns[x-1] = s.columns[x]
		delete(s.columns, x)
	}
}

// InsertRow shifts every cell at row >= at one row down, across every
// column. A block straddling the insertion point is split so that the
// portion at or below `at` moves down while the portion above stays
// put. O(columns * blocks); acceptable because sheets are sparse.
func (s *Sheet) InsertRow(at int64) {
	for _, col := range s.columns {
		next := make([]Block, 0, len(col.blocks)+1)
		for _, b := range col.blocks {
			switch {
			case b.Bottom() < at:
				next = append(next, b)
			case b.Top >= at:
				next = append(next, Block{Top: b.Top + 1, Cells: b.Cells})
			default:
				split := at - b.Top
				next = append(next,
					Block{Top: b.Top, Cells: append([]cellvalue.CellValue{}, b.Cells[:split]...)},
					Block{Top: at + 1, Cells: append([]cellvalue.CellValue{}, b.Cells[split:]...)},
				)
			}
		}
		col.blocks = next
	}
}

// DeleteRow removes row `at` from every column and shifts every row
// below it up by one.
func (s *Sheet) DeleteRow(at int64) {
	for x, col := range s.columns {
		col.Clear(at)
		shifted := make([]Block, 0, len(col.blocks))
		for _, b := range col.blocks {
			top := b.Top
			if top > at {
				top--
			}
			shifted = append(shifted, Block{Top: top, Cells: b.Cells})
		}

		// Clearing row `at` and shifting everything below it up can
		// bring two previously non-adjacent blocks into contact (a
		// single block split around `at`, or two blocks straddling a
		// one-row gap at `at`), so coalesce before reassigning.
		newBlocks := make([]Block, 0, len(shifted))
		for _, b := range shifted {
			if n := len(newBlocks); n > 0 && newBlocks[n-1].Bottom()+1 == b.Top {
				newBlocks[n-1].Cells = append(newBlocks[n-1].Cells, b.Cells...)
				continue
			}
			newBlocks = append(newBlocks, b)
		}

		col.blocks = newBlocks
		if col.IsEmpty() {
			delete(s.columns, x)
		}
	}
}
