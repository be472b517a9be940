package autocomplete

import (
	"time"

	"github.com/quadratichq/quadratic-sub012/internal/cellvalue"
)

const secondsPerDay = 24 * 60 * 60

// findTimeSeries detects a constant Duration between consecutive
// sampled times, wrapping across midnight with Euclidean arithmetic on
// seconds-of-day so e.g. 23:59:00 -> 00:00:00 reads as +60s rather
// than a large negative jump.
func findTimeSeries(series []cellvalue.CellValue, spaces int, negative bool) ([]cellvalue.CellValue, bool) {
	secs := make([]int, len(series))
	for i, v := range series {
		t, ok := v.Time()
		if !ok {
			return nil, false
		}
		secs[i] = secondsOfDay(t)
	}
	if len(secs) < 2 {
		return nil, false
	}

	step := wrapIndex(secs[1]-secs[0], secondsPerDay)
	for i := 1; i < len(secs)-1; i++ {
		if wrapIndex(secs[i+1]-secs[i], secondsPerDay) != step {
			return nil, false
		}
	}

	out := make([]cellvalue.CellValue, spaces)
	if negative {
		s := secs[0]
		for i := spaces - 1; i >= 0; i-- {
			s = wrapIndex(s-step, secondsPerDay)
			out[i] = cellvalue.NewTime(timeOfDay(s))
		}
		return out, true
	}
	s := secs[len(secs)-1]
	for i := range spaces {
		s = wrapIndex(s+step, secondsPerDay)
		out[i] = cellvalue.NewTime(timeOfDay(s))
	}
	return out, true
}

func secondsOfDay(t time.Time) int {
	return t.Hour()*3600 + t.Minute()*60 + t.Second()
}

// timeOfDay builds a Time cell value on the same canonical reference
// date (year 0, Jan 1, UTC) fnTime uses, since Kind Time ignores date
// components anyway.
func timeOfDay(secs int) time.Time {
	return time.Date(0, 1, 1, secs/3600, (secs%3600)/60, secs%60, 0, time.UTC)
}
