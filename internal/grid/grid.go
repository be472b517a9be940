package grid

import (
	"fmt"

	"github.com/quadratichq/quadratic-sub012/internal/pos"
)

// Grid is an ordered mapping from SheetId to Sheet. It exclusively
// owns all Sheets. Order is the display order of sheet tabs.
type Grid struct {
	sheets map[pos.SheetId]*Sheet
	order  []pos.SheetId
}

// NewGrid returns an empty grid with no sheets.
func NewGrid() *Grid {
	return &Grid{sheets: make(map[pos.SheetId]*Sheet)}
}

// AddSheet inserts a new sheet at the end of the tab order and
// returns it.
func (g *Grid) AddSheet(name string) *Sheet {
	id := pos.NewSheetId()
	sheet := NewSheet(id, name)
	g.sheets[id] = sheet
	g.order = append(g.order, id)
	return sheet
}

// AddSheetWithID inserts a sheet with a caller-supplied id, used when
// replaying operations that carry their own SheetId (see package
// operation) or migrating a file format that lacked stable ids.
func (g *Grid) AddSheetWithID(id pos.SheetId, name string) *Sheet {
	sheet := NewSheet(id, name)
	g.sheets[id] = sheet
	g.order = append(g.order, id)
	return sheet
}

// DeleteSheet removes a sheet by id. No-op if the sheet does not exist.
func (g *Grid) DeleteSheet(id pos.SheetId) {
	if _, ok := g.sheets[id]; !ok {
		return
	}
	delete(g.sheets, id)
	for i, sid := range g.order {
		if sid == id {
			g.order = append(g.order[:i], g.order[i+1:]...)
			break
		}
	}
}

// Sheet returns the sheet with the given id, or nil.
func (g *Grid) Sheet(id pos.SheetId) *Sheet { return g.sheets[id] }

// SheetByName returns the first sheet whose name matches (exact,
// case-sensitive — case-insensitive matching lives in package table's
// A1Context SheetMap since that is where quoting rules apply).
func (g *Grid) SheetByName(name string) *Sheet {
	for _, id := range g.order {
		if g.sheets[id].Name == name {
			return g.sheets[id]
		}
	}
	return nil
}

// Sheets returns sheets in tab order.
func (g *Grid) Sheets() []*Sheet {
	out := make([]*Sheet, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.sheets[id])
	}
	return out
}

// MoveSheet repositions sheet id to sit immediately before `before`
// in tab order. If before is the zero SheetId, the sheet moves to the
// end.
func (g *Grid) MoveSheet(id pos.SheetId, before pos.SheetId) error {
	if _, ok := g.sheets[id]; !ok {
		return fmt.Errorf("grid: move sheet: %s not found", id)
	}
	idx := -1
	for i, sid := range g.order {
		if sid == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return fmt.Errorf("grid: move sheet: %s not in order", id)
	}
	g.order = append(g.order[:idx], g.order[idx+1:]...)
	if before.IsZero() {
		g.order = append(g.order, id)
		return nil
	}
	for i, sid := range g.order {
		if sid == before {
			g.order = append(g.order[:i], append([]pos.SheetId{id}, g.order[i:]...)...)
			return nil
		}
	}
	g.order = append(g.order, id)
	return nil
}

// DuplicateSheet clones sheet id's contents into a new sheet
// immediately after the original and returns the new sheet's id.
func (g *Grid) DuplicateSheet(id pos.SheetId, newName string) (pos.SheetId, error) {
	src, ok := g.sheets[id]
	if !ok {
		return pos.SheetId{}, fmt.Errorf("grid: duplicate sheet: %s not found", id)
	}
	newID := pos.NewSheetId()
	dup := NewSheet(newID, newName)
	for _, x := range src.ColumnIndices() {
		dup.columns[x] = src.columns[x].Clone()
	}
	g.sheets[newID] = dup
	idx := -1
	for i, sid := range g.order {
		if sid == id {
			idx = i
			break
		}
	}
	g.order = append(g.order[:idx+1], append([]pos.SheetId{newID}, g.order[idx+1:]...)...)
	return newID, nil
}

// SheetIndex returns id's position in tab order, or -1 if absent.
func (g *Grid) SheetIndex(id pos.SheetId) int {
	for i, sid := range g.order {
		if sid == id {
			return i
		}
	}
	return -1
}

// InsertSheetAt inserts an already-constructed sheet (typically one
// produced by Clone) at a specific tab-order index, used to restore a
// deleted sheet to its exact original position (package operation's
// DeleteSheet reverse).
func (g *Grid) InsertSheetAt(s *Sheet, index int) {
	g.sheets[s.ID] = s
	if index < 0 || index > len(g.order) {
		index = len(g.order)
	}
	g.order = append(g.order[:index], append([]pos.SheetId{s.ID}, g.order[index:]...)...)
}

// Clone returns a deep copy of the grid: every sheet's cells are
// cloned, tab order is preserved. The copy is full, not
// copy-on-write; package operation uses it for Workbook.Clone.
func (g *Grid) Clone() *Grid {
	clone := &Grid{sheets: make(map[pos.SheetId]*Sheet, len(g.sheets)), order: append([]pos.SheetId{}, g.order...)}
	for id, s := range g.sheets {
		clone.sheets[id] = s.Clone()
	}
	return clone
}

// IsValid runs Sheet.IsValid() over every sheet.
func (g *Grid) IsValid() error {
	for _, sheet := range g.Sheets() {
		if err := sheet.IsValid(); err != nil {
			return fmt.Errorf("grid: sheet %s (%s): %w", sheet.Name, sheet.ID, err)
		}
	}
	return nil
}
