package clipboard

import (
	"encoding/json"
	"fmt"
	"html"
	"regexp"
)

// dataQuadraticPattern extracts the data-quadratic attribute's raw
// (HTML-entity-encoded) value from a pasted <table>, the same
// regex-over-source-text approach codecell's rewrite functions use for
// Python/JS source rather than a full parser for a single attribute.
var dataQuadraticPattern = regexp.MustCompile(`data-quadratic="([^"]*)"`)

// EncodeHTML renders cb as the <table data-quadratic="..."> carrier
// copy_to_clipboard emits alongside the plain-text payload: an
// HTML-attribute-encoded JSON blob a paste handler (ours, or another
// Quadratic tab) can recover exactly, plus a plain <table> for pasting
// into something that only understands HTML tables.
func EncodeHTML(cb Clipboard) (string, error) {
	data, err := json.Marshal(cb)
	if err != nil {
		return "", fmt.Errorf("clipboard: encoding: %w", err)
	}
	return fmt.Sprintf(`<table data-quadratic="%s">%s</table>`, html.EscapeString(string(data)), renderTableBody(cb)), nil
}

// renderTableBody renders cb's display values as plain <tr>/<td> rows,
// the fallback another application reads if it ignores data-quadratic.
func renderTableBody(cb Clipboard) string {
	if cb.W == 0 || cb.H == 0 {
		return ""
	}
	out := ""
	for y := int64(0); y < cb.H; y++ {
		out += "<tr>"
		for x := int64(0); x < cb.W; x++ {
			out += "<td>" + html.EscapeString(cb.Cells[y*cb.W+x].Display()) + "</td>"
		}
		out += "</tr>"
	}
	return out
}

// DecodeHTML recovers the structured Clipboard from a data-quadratic
// attribute; ErrNoStructuredPayload signals plain-text-only HTML with
// no such attribute, telling the caller to fall back to
// PastePlainTextOperations.
func DecodeHTML(src string) (Clipboard, error) {
	m := dataQuadraticPattern.FindStringSubmatch(src)
	if m == nil {
		return Clipboard{}, ErrNoStructuredPayload
	}
	var cb Clipboard
	if err := json.Unmarshal([]byte(html.UnescapeString(m[1])), &cb); err != nil {
		return Clipboard{}, fmt.Errorf("clipboard: decoding data-quadratic: %w", err)
	}
	return cb, nil
}
