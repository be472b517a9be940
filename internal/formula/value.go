package formula

import "github.com/quadratichq/quadratic-sub012/internal/cellvalue"

// Value is a formula evaluation result: either a single cell value or
// a rectangular 2D array of them (spec §4.5 "Single(CellValue) or
// Array(Array2D<CellValue>)").
type Value struct {
	IsArray bool
	Single  cellvalue.CellValue
	Array   [][]cellvalue.CellValue // row-major, rectangular
}

// NewSingle wraps a scalar CellValue.
func NewSingle(v cellvalue.CellValue) Value { return Value{Single: v} }

// NewArray wraps a row-major array without checking its shape;
// callers validate that rows are rectangular before calling this
// (see checkRectangular).
func NewArray(rows [][]cellvalue.CellValue) Value {
	return Value{IsArray: true, Array: rows}
}

// Dims returns (width, height) for an array value, or (1,1) for a
// scalar.
func (v Value) Dims() (width, height int) {
	if !v.IsArray {
		return 1, 1
	}
	if len(v.Array) == 0 {
		return 0, 0
	}
	return len(v.Array[0]), len(v.Array)
}

// At returns the cell value at (x,y) within the array (0-indexed),
// or the scalar itself regardless of (x,y) when this is not an array
// — the broadcast behavior array_map relies on.
func (v Value) At(x, y int) cellvalue.CellValue {
	if !v.IsArray {
		return v.Single
	}
	return v.Array[y][x]
}

// AsSingle returns a scalar as is and collapses a 1x1 array to its one
// cell; for any larger array it returns the Single field, which an
// array value leaves as the zero CellValue.
func (v Value) AsSingle() cellvalue.CellValue {
	if !v.IsArray {
		return v.Single
	}
	if len(v.Array) == 1 && len(v.Array[0]) == 1 {
		return v.Array[0][0]
	}
	return v.Single
}

func checkRectangular(rows [][]cellvalue.CellValue) bool {
	if len(rows) == 0 {
		return false
	}
	w := len(rows[0])
	if w == 0 {
		return false
	}
	for _, r := range rows {
		if len(r) != w {
			return false
		}
	}
	return true
}
