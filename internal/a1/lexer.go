package a1

import "strings"

// splitState is the lexer state kept while splitting an A1 string
// into comma-separated segments. The lexer only needs to track
// bracket depth and quote state to know which commas are separators
// versus part of a table specifier or quoted sheet name (spec §4.2
// "commas inside brackets or quotes do not split").
type splitState struct {
	inQuotes     bool
	bracketDepth int
}

// splitSegments splits text on top-level commas, honoring quoted
// sheet-name spans and bracketed table specifiers. Trailing empty
// segments are dropped (spec: "trailing commas are tolerated").
func splitSegments(text string) []string {
	var segments []string
	var cur strings.Builder
	state := splitState{}

	for _, r := range text {
		switch {
		case r == '\'':
			state.inQuotes = !state.inQuotes
			cur.WriteRune(r)
		case r == '[' && !state.inQuotes:
			state.bracketDepth++
			cur.WriteRune(r)
		case r == ']' && !state.inQuotes:
			if state.bracketDepth > 0 {
				state.bracketDepth--
			}
			cur.WriteRune(r)
		case r == ',' && !state.inQuotes && state.bracketDepth == 0:
			segments = append(segments, cur.String())
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	if cur.Len() > 0 {
		segments = append(segments, cur.String())
	}
	return segments
}

// splitSheetQualifier splits "Name!rest" / "'Quoted Name'!rest" into
// (sheetName, rest, hadQualifier). The bang must appear outside
// quotes.
func splitSheetQualifier(segment string) (sheetPart string, rest string, had bool) {
	if len(segment) > 0 && segment[0] == '\'' {
		for i := 1; i < len(segment); i++ {
			if segment[i] == '\'' {
				// handle doubled '' as an escaped quote, not the closing quote
				if i+1 < len(segment) && segment[i+1] == '\'' {
					i++
					continue
				}
				if i+1 < len(segment) && segment[i+1] == '!' {
					return segment[:i+1], segment[i+2:], true
				}
				break
			}
		}
		return "", segment, false
	}
	idx := strings.IndexByte(segment, '!')
	if idx < 0 {
		return "", segment, false
	}
	return segment[:idx], segment[idx+1:], true
}
