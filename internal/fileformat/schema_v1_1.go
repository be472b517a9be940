package fileformat

import "github.com/google/uuid"

// GridV1_1 is the current schema: every sheet carries an explicit
// SheetId UUID, code runs are keyed by CellRef ("x,y") rather than
// living in the same map as plain cells, and formatting is a flat list
// of run-length rectangles — the serialized shape of a Contiguous2D
// block tree, without the tree itself.
type GridV1_1 struct {
	Version string      `json:"version"`
	Sheets  []SheetV1_1 `json:"sheets"`
}

type SheetV1_1 struct {
	ID       uuid.UUID              `json:"id"`
	Name     string                 `json:"name"`
	Cells    map[string]CellV1_1    `json:"cells"`
	CodeRuns map[string]CodeRunV1_1 `json:"codeRuns"`
	Formats  []FormatRunV1_1        `json:"formats"`
}

type CellV1_1 struct {
	Kind  string `json:"kind"`
	Value string `json:"value"`
}

type CodeRunV1_1 struct {
	Language string `json:"language"`
	Code     string `json:"code"`
}

// FormatRunV1_1 is one run-length-encoded rectangle of identical
// formatting — the flattened, on-disk analogue of format.SheetFormats'
// in-memory block tree.
type FormatRunV1_1 struct {
	X1        int64  `json:"x1"`
	Y1        int64  `json:"y1"`
	X2        int64  `json:"x2"`
	Y2        int64  `json:"y2"`
	Bold      bool   `json:"bold,omitempty"`
	FillColor string `json:"fillColor,omitempty"`
}
