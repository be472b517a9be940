package table

import "github.com/quadratichq/quadratic-sub012/internal/pos"

// A1Context is the per-evaluation snapshot the a1 package needs to
// parse and format references: sheet name resolution plus table
// lookups (spec §3.6). Its owner keeps it in step with the grid as
// sheets and tables are added, removed or moved (operation.Workbook
// holds one as Ctx), so a1 never depends on package grid directly.
type A1Context struct {
	Sheets *SheetMap
	Tables *TableMap
}

// NewA1Context returns an empty context.
func NewA1Context() *A1Context {
	return &A1Context{Sheets: NewSheetMap(), Tables: NewTableMap()}
}

// DefaultSheetName resolves id to its display name, or "" if unknown.
func (c *A1Context) DefaultSheetName(id pos.SheetId) string {
	name, _ := c.Sheets.TrySheetID(id)
	return name
}
