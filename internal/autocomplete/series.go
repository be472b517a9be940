// Package autocomplete implements find_auto_complete: given a sampled
// run of cell values, detect whether it's a number, time, or cyclic
// string series and extrapolate it forward or backward, falling back
// to cycling the sample itself when no pattern is detected.
package autocomplete

import "github.com/quadratichq/quadratic-sub012/internal/cellvalue"

// SeriesOptions is find_auto_complete's input: the sampled cells, how
// many cells to produce, and which direction to extend in.
type SeriesOptions struct {
	Series   []cellvalue.CellValue
	Spaces   int
	Negative bool
}

// FindAutoComplete extends Series by Spaces cells in the requested
// direction. Every branch returns exactly Spaces cells; when Spaces is
// not positive or Series is empty it returns nil.
func FindAutoComplete(opts SeriesOptions) []cellvalue.CellValue {
	if opts.Spaces <= 0 || len(opts.Series) == 0 {
		return nil
	}

	switch {
	case allBlank(opts.Series):
		return copySeries(opts.Series, opts.Spaces, opts.Negative)
	case allKind(opts.Series, cellvalue.KindNumber):
		if series, ok := findNumberSeries(opts.Series, opts.Spaces, opts.Negative); ok {
			return series
		}
	case allKind(opts.Series, cellvalue.KindTime):
		if series, ok := findTimeSeries(opts.Series, opts.Spaces, opts.Negative); ok {
			return series
		}
	default:
		if series, ok := findStringSeries(opts.Series, opts.Spaces, opts.Negative); ok {
			return series
		}
	}
	return copySeries(opts.Series, opts.Spaces, opts.Negative)
}

func allBlank(series []cellvalue.CellValue) bool {
	for _, v := range series {
		if !v.IsBlank() {
			return false
		}
	}
	return true
}

func allKind(series []cellvalue.CellValue, kind cellvalue.Kind) bool {
	for _, v := range series {
		if v.Kind != kind {
			return false
		}
	}
	return true
}

// copySeries cycles Series forward, or backward if negative, for
// exactly spaces cells — the fallback every other case in
// FindAutoComplete reduces to when it can't detect a pattern.
func copySeries(series []cellvalue.CellValue, spaces int, negative bool) []cellvalue.CellValue {
	n := len(series)
	out := make([]cellvalue.CellValue, spaces)
	for i := range spaces {
		var idx int
		if negative {
			idx = wrapIndex(i-spaces, n)
		} else {
			idx = wrapIndex(i, n)
		}
		out[i] = series[idx]
	}
	return out
}

// wrapIndex reduces i into [0,n) with Euclidean semantics, so a
// negative i wraps from the end of the cycle instead of panicking.
func wrapIndex(i, n int) int {
	m := i % n
	if m < 0 {
		m += n
	}
	return m
}
