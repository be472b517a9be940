// Package fileformat implements the on-disk grid schema versions and
// the chained migrator that upgrades an old file to the current one
// (spec §4.9).
package fileformat

// GridV1_0 is the earliest schema this module reads: a flat per-cell
// value map keyed by "x,y", sheets referenced by plain name rather
// than a SheetId UUID, and a legacy list of (x,y) dependency pairs
// instead of CellRef-keyed code runs.
type GridV1_0 struct {
	Version      string           `json:"version"`
	Sheets       []SheetV1_0      `json:"sheets"`
	Dependencies []DependencyV1_0 `json:"dependencies"`
}

// SheetV1_0 has no id field: v1_0 files identify a sheet by Name
// alone.
type SheetV1_0 struct {
	Name  string                  `json:"name"`
	Cells map[string]CellV1_0     `json:"cells"`
	Code  map[string]CodeCellV1_0 `json:"codeCells"`
}

// CellV1_0 stores a value as a (kind, string) pair rather than a typed
// union; v1_1 keeps this representation, since the schema's job is
// serialization, not typed in-memory manipulation.
type CellV1_0 struct {
	Kind  string `json:"kind"`
	Value string `json:"value"`
}

type CodeCellV1_0 struct {
	Language string `json:"language"`
	Code     string `json:"code"`
}

// DependencyV1_0 is a pre-SheetId cross-cell dependency edge, named by
// sheet string rather than SheetId.
type DependencyV1_0 struct {
	X                  int64  `json:"x"`
	Y                  int64  `json:"y"`
	SheetName          string `json:"sheetName"`
	DependsOnX         int64  `json:"dependsOnX"`
	DependsOnY         int64  `json:"dependsOnY"`
	DependsOnSheetName string `json:"dependsOnSheetName"`
}
