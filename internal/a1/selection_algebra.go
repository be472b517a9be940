package a1

import "github.com/quadratichq/quadratic-sub012/internal/pos"

// FindExcludedRects decomposes `rect` minus `excluded` into up to four
// axis-aligned rectangles (top band, bottom band, left remnant, right
// remnant), per spec §4.3. A rect that does not overlap excluded comes
// back whole.
func FindExcludedRects(rect, excluded pos.Rect) []pos.Rect {
	overlap, ok := rect.Intersection(excluded)
	if !ok {
		return []pos.Rect{rect}
	}
	var out []pos.Rect
	if rect.Min.Y < overlap.Min.Y {
		out = append(out, pos.NewRect(rect.Min.X, rect.Min.Y, rect.Max.X, overlap.Min.Y-1))
	}
	if rect.Max.Y > overlap.Max.Y {
		out = append(out, pos.NewRect(rect.Min.X, overlap.Max.Y+1, rect.Max.X, rect.Max.Y))
	}
	if rect.Min.X < overlap.Min.X {
		out = append(out, pos.NewRect(rect.Min.X, overlap.Min.Y, overlap.Min.X-1, overlap.Max.Y))
	}
	if rect.Max.X > overlap.Max.X {
		out = append(out, pos.NewRect(overlap.Max.X+1, overlap.Min.Y, rect.Max.X, overlap.Max.Y))
	}
	return out
}

// RepositionCursorAfterRemoval implements spec §4.3's cursor-repositioning
// rule: when `removed` is taken out of an axis, the cursor moves to the
// nearest remaining covered position using priority order
// (removed+1, fallback), (removed-1, fallback), then the fallback
// value itself if neither neighbor is covered. `covered` reports
// whether a candidate coordinate on the shrunk axis is still part of
// the selection.
func RepositionCursorAfterRemoval(removed, fallback int64, covered func(int64) bool) int64 {
	if covered(removed + 1) {
		return removed + 1
	}
	if covered(removed - 1) {
		return removed - 1
	}
	return fallback
}

// SelectionMode classifies how a range is currently being extended
// interactively (spec §4.3).
type SelectionMode int

const (
	ModeSingle SelectionMode = iota
	ModeMouseDrag
	ModeKeyboardShift
	ModeMouseShiftClick
	ModeMouseCtrlClick
)

// SelectionState tracks an in-progress interactive range extension.
type SelectionState struct {
	Anchor       pos.Pos
	SelectionEnd pos.Pos
	Mode         SelectionMode
}

// Extend computes the new selection rectangle given the next pointer
// or keyboard position, applying each mode's anchor/perpendicular-axis
// rule from spec §4.3.
func (s SelectionState) Extend(next pos.Pos, currentBounds pos.Rect) pos.Rect {
	switch s.Mode {
	case ModeKeyboardShift:
		// motion in one axis preserves the perpendicular axis of the
		// current bounds.
		width := currentBounds.Max.X - currentBounds.Min.X
		height := currentBounds.Max.Y - currentBounds.Min.Y
		if next.X == s.Anchor.X {
			// vertical-only motion: keep horizontal span
			return pos.NewRectSpan(pos.NewPos(currentBounds.Min.X, s.Anchor.Y), pos.NewPos(currentBounds.Min.X+width, next.Y))
		}
		if next.Y == s.Anchor.Y {
			return pos.NewRectSpan(pos.NewPos(s.Anchor.X, currentBounds.Min.Y), pos.NewPos(next.X, currentBounds.Min.Y+height))
		}
		return pos.NewRectSpan(s.Anchor, next)
	case ModeMouseShiftClick, ModeMouseCtrlClick:
		return pos.NewRectSpan(next, next)
	default: // MouseDrag, Single
		return pos.NewRectSpan(s.Anchor, next)
	}
}

// NormalizeReverse implements spec §4.3's forward-vs-reverse rule: if
// the cursor sits at range.end while the anchor is at range.start, the
// extension is a reverse drag; the returned rect is always min/max
// normalized, and the cursor to report is the anchor corner.
func NormalizeReverse(anchor, end pos.Pos) (rect pos.Rect, cursor pos.Pos) {
	return pos.NewRectSpan(anchor, end), anchor
}
