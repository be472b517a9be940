package autocomplete

import (
	"github.com/shopspring/decimal"

	"github.com/quadratichq/quadratic-sub012/internal/cellvalue"
)

// findNumberSeries looks for an arithmetic progression (constant
// pairwise difference) first, then a geometric one (constant pairwise
// quotient, no zero divisor). A single sampled cell carries no
// detectable step, so it reports no series and lets the caller fall
// back to copySeries.
func findNumberSeries(series []cellvalue.CellValue, spaces int, negative bool) ([]cellvalue.CellValue, bool) {
	nums := make([]decimal.Decimal, len(series))
	for i, v := range series {
		n, ok := v.Number()
		if !ok {
			return nil, false
		}
		nums[i] = n
	}
	if len(nums) < 2 {
		return nil, false
	}

	diffs := make([]decimal.Decimal, len(nums)-1)
	for i := range diffs {
		diffs[i] = nums[i+1].Sub(nums[i])
	}
	if allEqualDecimal(diffs) {
		return extendArithmetic(nums, diffs[0], spaces, negative), true
	}

	quotients := make([]decimal.Decimal, len(nums)-1)
	for i := range quotients {
		if nums[i].IsZero() {
			return nil, false
		}
		quotients[i] = nums[i+1].Div(nums[i])
	}
	if allEqualDecimal(quotients) {
		return extendGeometric(nums, quotients[0], spaces, negative), true
	}

	return nil, false
}

func allEqualDecimal(values []decimal.Decimal) bool {
	for _, v := range values[1:] {
		if !v.Equal(values[0]) {
			return false
		}
	}
	return true
}

// extendArithmetic walks forward from the last sample (or backward
// from the first, for negative) by step, spaces times.
func extendArithmetic(nums []decimal.Decimal, step decimal.Decimal, spaces int, negative bool) []cellvalue.CellValue {
	out := make([]cellvalue.CellValue, spaces)
	if negative {
		v := nums[0]
		for i := spaces - 1; i >= 0; i-- {
			v = v.Sub(step)
			out[i] = cellvalue.NewNumber(v)
		}
		return out
	}
	v := nums[len(nums)-1]
	for i := range spaces {
		v = v.Add(step)
		out[i] = cellvalue.NewNumber(v)
	}
	return out
}

func extendGeometric(nums []decimal.Decimal, ratio decimal.Decimal, spaces int, negative bool) []cellvalue.CellValue {
	out := make([]cellvalue.CellValue, spaces)
	if negative {
		v := nums[0]
		for i := spaces - 1; i >= 0; i-- {
			v = v.Div(ratio)
			out[i] = cellvalue.NewNumber(v)
		}
		return out
	}
	v := nums[len(nums)-1]
	for i := range spaces {
		v = v.Mul(ratio)
		out[i] = cellvalue.NewNumber(v)
	}
	return out
}
