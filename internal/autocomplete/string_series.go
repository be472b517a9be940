package autocomplete

import (
	"strings"
	"time"

	"github.com/quadratichq/quadratic-sub012/internal/cellvalue"
)

// stringCycles holds every fixed ordered label cycle find_string_series
// recognizes: months and days, each short/long and mixed/upper case.
var stringCycles = buildStringCycles()

func buildStringCycles() [][]string {
	monthsShort := make([]string, 12)
	monthsLong := make([]string, 12)
	for m := time.January; m <= time.December; m++ {
		monthsLong[m-1] = m.String()
		monthsShort[m-1] = m.String()[:3]
	}
	daysShort := make([]string, 7)
	daysLong := make([]string, 7)
	for d := time.Sunday; d <= time.Saturday; d++ {
		daysLong[d] = d.String()
		daysShort[d] = d.String()[:3]
	}
	return [][]string{
		monthsShort, upperAll(monthsShort),
		monthsLong, upperAll(monthsLong),
		daysShort, upperAll(daysShort),
		daysLong, upperAll(daysLong),
	}
}

func upperAll(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = strings.ToUpper(s)
	}
	return out
}

// findStringSeries checks each cycle in turn for one whose members the
// sampled text matches, at a constant step of +1 or -1 positions (a
// "contiguous cyclic subsequence"), and extends along that cycle.
func findStringSeries(series []cellvalue.CellValue, spaces int, negative bool) ([]cellvalue.CellValue, bool) {
	texts := make([]string, len(series))
	for i, v := range series {
		s, ok := v.Text()
		if !ok {
			return nil, false
		}
		texts[i] = s
	}

	for _, cycle := range stringCycles {
		if first, last, delta, ok := matchCycle(texts, cycle); ok {
			return extendCycle(cycle, first, last, delta, spaces, negative), true
		}
	}
	return nil, false
}

// matchCycle reports whether every text matches successive cycle
// entries at a constant step of +1 or -1 (mod len(cycle)), returning
// the cycle index of the first and last matched entries.
func matchCycle(texts []string, cycle []string) (first, last, delta int, ok bool) {
	n := len(cycle)
	idx := make([]int, len(texts))
	for i, t := range texts {
		pos := indexOfCycle(cycle, t)
		if pos < 0 {
			return 0, 0, 0, false
		}
		idx[i] = pos
	}
	if len(idx) == 1 {
		return idx[0], idx[0], 1, true
	}

	step := wrapIndex(idx[1]-idx[0], n)
	if step != 1 && step != n-1 {
		return 0, 0, 0, false
	}
	for i := 1; i < len(idx)-1; i++ {
		if wrapIndex(idx[i+1]-idx[i], n) != step {
			return 0, 0, 0, false
		}
	}
	delta = 1
	if step == n-1 {
		delta = -1
	}
	return idx[0], idx[len(idx)-1], delta, true
}

func indexOfCycle(cycle []string, s string) int {
	for i, c := range cycle {
		if c == s {
			return i
		}
	}
	return -1
}

func extendCycle(cycle []string, first, last, delta, spaces int, negative bool) []cellvalue.CellValue {
	n := len(cycle)
	out := make([]cellvalue.CellValue, spaces)
	if negative {
		idx := first
		for i := spaces - 1; i >= 0; i-- {
			idx = wrapIndex(idx-delta, n)
			out[i] = cellvalue.NewText(cycle[idx])
		}
		return out
	}
	idx := last
	for i := range spaces {
		idx = wrapIndex(idx+delta, n)
		out[i] = cellvalue.NewText(cycle[idx])
	}
	return out
}
