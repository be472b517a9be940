package export

import (
	"context"
	"fmt"
	"strconv"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	sheets "google.golang.org/api/sheets/v4"

	"github.com/quadratichq/quadratic-sub012/internal/cellvalue"
	"github.com/quadratichq/quadratic-sub012/internal/format"
	"github.com/quadratichq/quadratic-sub012/internal/grid"
	"github.com/quadratichq/quadratic-sub012/internal/operation"
	"github.com/quadratichq/quadratic-sub012/internal/pos"
)

// SheetsMirror pushes a workbook's evaluated grid into a Google
// Sheets spreadsheet, one tab per sheet, so collaborators can watch a
// workbook's values update without opening the application that owns
// it (spec §6 renderer side-effect envelope: external mirrors observe
// computed cell values, not source).
type SheetsMirror struct {
	spreadsheetID string
	svc           *sheets.Service
}

// NewSheetsMirror authenticates with a service account JSON blob and
// returns a mirror targeting spreadsheetID.
func NewSheetsMirror(ctx context.Context, spreadsheetID, credentialsJSON string) (*SheetsMirror, error) {
	creds, err := google.CredentialsFromJSON(
		ctx,
		[]byte(credentialsJSON),
		sheets.SpreadsheetsScope,
	)
	if err != nil {
		return nil, fmt.Errorf("parsing google credentials: %w", err)
	}

	svc, err := sheets.NewService(ctx, option.WithCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("creating sheets service: %w", err)
	}

	return &SheetsMirror{spreadsheetID: spreadsheetID, svc: svc}, nil
}

// sheetMeta holds the numeric sheet ID Sheets assigns a tab.
type sheetMeta struct {
	id int64
}

// Write ensures a tab exists per sheet in wb, then clears, rewrites,
// and formats each one from its current grid contents.
func (m *SheetsMirror) Write(ctx context.Context, wb *operation.Workbook) error {
	sheetList := wb.Grid.Sheets()
	names := make([]string, len(sheetList))
	for i, s := range sheetList {
		names[i] = s.Name
	}

	meta, err := m.ensureSheets(ctx, names...)
	if err != nil {
		return err
	}

	var clearRanges []string
	var valueRanges []*sheets.ValueRange
	var formatReqs []*sheets.Request

	for _, s := range sheetList {
		rect, ok := s.Bounds()
		if !ok {
			continue
		}

		clearRanges = append(clearRanges, fmt.Sprintf("%s!A1:%s", s.Name, rect.Max.A1String()))
		valueRanges = append(valueRanges, &sheets.ValueRange{
			Range:  fmt.Sprintf("%s!A1", s.Name),
			Values: buildValues(s, rect),
		})
		formatReqs = append(formatReqs, m.formatRequests(meta[s.Name].id, wb, s, rect)...)
	}

	if len(clearRanges) > 0 {
		_, err := m.svc.Spreadsheets.Values.BatchClear(
			m.spreadsheetID,
			&sheets.BatchClearValuesRequest{Ranges: clearRanges},
		).Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("clearing sheets: %w", err)
		}
	}

	if len(valueRanges) > 0 {
		_, err := m.svc.Spreadsheets.Values.BatchUpdate(
			m.spreadsheetID,
			&sheets.BatchUpdateValuesRequest{
				ValueInputOption: "USER_ENTERED",
				Data:             valueRanges,
			},
		).Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("writing sheets: %w", err)
		}
	}

	if len(formatReqs) > 0 {
		_, err := m.svc.Spreadsheets.BatchUpdate(
			m.spreadsheetID,
			&sheets.BatchUpdateSpreadsheetRequest{Requests: formatReqs},
		).Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("applying formatting: %w", err)
		}
	}

	return nil
}

// buildValues reads every cell in rect off s and converts it to the
// any-typed matrix the Sheets values API expects, row-major from
// rect.Min.
func buildValues(s *grid.Sheet, rect pos.Rect) [][]any {
	values := make([][]any, rect.Height())
	for row := range values {
		y := rect.Min.Y + int64(row)
		cells := make([]any, rect.Width())
		for col := range cells {
			x := rect.Min.X + int64(col)
			cells[col] = sheetsValue(s.GetCell(pos.NewPos(x, y)))
		}
		values[row] = cells
	}
	return values
}

// sheetsValue converts a cell's evaluated value to the type the
// Sheets values API accepts, preferring the typed accessor (number,
// logical) and falling back to Display's string rendering for
// everything else (text, dates, errors, code cells not yet run).
func sheetsValue(v cellvalue.CellValue) any {
	if v.IsBlank() {
		return nil
	}
	if n, ok := v.Number(); ok {
		f, _ := n.Float64()
		return f
	}
	if b, ok := v.Logical(); ok {
		return b
	}
	return v.Display()
}

// ensureSheets creates any missing tabs and returns the numeric sheet
// ID Sheets assigned each one, existing or new.
func (m *SheetsMirror) ensureSheets(ctx context.Context, names ...string) (map[string]sheetMeta, error) {
	spreadsheet, err := m.svc.Spreadsheets.Get(m.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("getting spreadsheet metadata: %w", err)
	}

	result := make(map[string]sheetMeta, len(names))
	existing := make(map[string]sheetMeta, len(spreadsheet.Sheets))
	for _, s := range spreadsheet.Sheets {
		existing[s.Properties.Title] = sheetMeta{id: s.Properties.SheetId}
	}

	var requests []*sheets.Request
	for _, name := range names {
		if meta, ok := existing[name]; ok {
			result[name] = meta
		} else {
			requests = append(requests, &sheets.Request{
				AddSheet: &sheets.AddSheetRequest{
					Properties: &sheets.SheetProperties{Title: name},
				},
			})
		}
	}

	if len(requests) == 0 {
		return result, nil
	}

	resp, err := m.svc.Spreadsheets.BatchUpdate(
		m.spreadsheetID,
		&sheets.BatchUpdateSpreadsheetRequest{Requests: requests},
	).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("creating sheets: %w", err)
	}

	for _, reply := range resp.Replies {
		if reply.AddSheet != nil {
			p := reply.AddSheet.Properties
			result[p.Title] = sheetMeta{id: p.SheetId}
		}
	}

	return result, nil
}

// formatRequests builds one RepeatCell request per cell in rect whose
// resolved format differs from the default, plus one column-width
// request per column s.Offsets tracks a non-default width for.
// Cell-by-cell requests are the simplest faithful translation of the
// grid's per-cell sparse format overlay; a sheet with heavy uniform
// formatting could be batched into row/column runs instead, but the
// grid side doesn't expose its overlay's own run boundaries to callers
// outside package format.
func (m *SheetsMirror) formatRequests(sheetID int64, wb *operation.Workbook, s *grid.Sheet, rect pos.Rect) []*sheets.Request {
	formats := wb.Formats(s.ID)
	offsets := wb.Offsets(s.ID)

	var reqs []*sheets.Request
	for y := rect.Min.Y; y <= rect.Max.Y; y++ {
		for x := rect.Min.X; x <= rect.Max.X; x++ {
			update := formats.Resolve(pos.NewPos(x, y))
			if update.IsDefault() {
				continue
			}
			row, col := y-1, x-1
			reqs = append(reqs, cellFormatReq(sheetID, row, row+1, col, col+1, cellFormat(update), "userEnteredFormat"))
		}
	}

	for x := rect.Min.X; x <= rect.Max.X; x++ {
		if width := offsets.ColumnWidth(x); width != offsets.DefaultWidth {
			reqs = append(reqs, colWidthReq(sheetID, x-1, int64(width)))
		}
	}

	return reqs
}

// cellFormat translates a resolved FormatUpdate into the Sheets API's
// CellFormat shape.
func cellFormat(u format.FormatUpdate) *sheets.CellFormat {
	cf := &sheets.CellFormat{}

	if u.Align != nil {
		switch *u.Align {
		case format.AlignLeft:
			cf.HorizontalAlignment = "LEFT"
		case format.AlignCenter:
			cf.HorizontalAlignment = "CENTER"
		case format.AlignRight:
			cf.HorizontalAlignment = "RIGHT"
		}
	}
	if u.VerticalAlign != nil {
		switch *u.VerticalAlign {
		case format.VerticalAlignTop:
			cf.VerticalAlignment = "TOP"
		case format.VerticalAlignMiddle:
			cf.VerticalAlignment = "MIDDLE"
		case format.VerticalAlignBottom:
			cf.VerticalAlignment = "BOTTOM"
		}
	}
	if u.Bold != nil || u.Italic != nil || u.Underline != nil || u.StrikeThrough != nil || u.TextColor != nil {
		tf := &sheets.TextFormat{}
		if u.Bold != nil {
			tf.Bold = *u.Bold
		}
		if u.Italic != nil {
			tf.Italic = *u.Italic
		}
		if u.Underline != nil {
			tf.Underline = *u.Underline
		}
		if u.StrikeThrough != nil {
			tf.Strikethrough = *u.StrikeThrough
		}
		if u.TextColor != nil {
			tf.ForegroundColor = hexColor(*u.TextColor)
		}
		cf.TextFormat = tf
	}
	if u.FillColor != nil {
		cf.BackgroundColor = hexColor(*u.FillColor)
	}
	if u.NumericFormat != nil {
		cf.NumberFormat = numberFormat(u)
	}
	if u.Wrap != nil && *u.Wrap {
		cf.WrapStrategy = "WRAP"
	}

	return cf
}

// numberFormat translates NumericFormat plus decimals/commas into a
// Sheets NumberFormat pattern.
func numberFormat(u format.FormatUpdate) *sheets.NumberFormat {
	decimals := 2
	if u.NumericDecimals != nil {
		decimals = int(*u.NumericDecimals)
	}
	digits := ""
	if decimals > 0 {
		digits = "." + repeat("0", decimals)
	}
	thousands := ""
	if u.NumericCommas != nil && *u.NumericCommas {
		thousands = "#,##0"
	} else {
		thousands = "0"
	}

	switch u.NumericFormat.Kind {
	case format.NumericFormatNumber:
		return &sheets.NumberFormat{Type: "NUMBER", Pattern: thousands + digits}
	case format.NumericFormatCurrency:
		symbol := u.NumericFormat.Symbol
		if symbol == "" {
			symbol = "$"
		}
		return &sheets.NumberFormat{Type: "CURRENCY", Pattern: symbol + thousands + digits}
	case format.NumericFormatPercentage:
		return &sheets.NumberFormat{Type: "PERCENT", Pattern: thousands + digits + "%"}
	case format.NumericFormatExponential:
		return &sheets.NumberFormat{Type: "SCIENTIFIC", Pattern: "0" + digits + "E+00"}
	default:
		return nil
	}
}

func repeat(s string, n int) string {
	out := make([]byte, 0, n*len(s))
	for i := 0; i < n; i++ {
		out = append(out, s...)
	}
	return string(out)
}

// hexColor parses a "#rrggbb" string into a Sheets Color. Malformed
// input yields black rather than an error, matching the rest of this
// mirror's tolerance for best-effort cosmetic output.
func hexColor(hex string) *sheets.Color {
	hex = trimHash(hex)
	if len(hex) < 6 {
		return &sheets.Color{}
	}
	r, _ := strconv.ParseUint(hex[0:2], 16, 8)
	g, _ := strconv.ParseUint(hex[2:4], 16, 8)
	b, _ := strconv.ParseUint(hex[4:6], 16, 8)
	return &sheets.Color{
		Red:   float64(r) / 255,
		Green: float64(g) / 255,
		Blue:  float64(b) / 255,
	}
}

func trimHash(s string) string {
	if len(s) > 0 && s[0] == '#' {
		return s[1:]
	}
	return s
}

// cellFormatReq builds a RepeatCellRequest for a rectangular range.
func cellFormatReq(sheetID, startRow, endRow, startCol, endCol int64, format *sheets.CellFormat, fields string) *sheets.Request {
	return &sheets.Request{
		RepeatCell: &sheets.RepeatCellRequest{
			Range: &sheets.GridRange{
				SheetId:          sheetID,
				StartRowIndex:    startRow,
				EndRowIndex:      endRow,
				StartColumnIndex: startCol,
				EndColumnIndex:   endCol,
			},
			Cell:   &sheets.CellData{UserEnteredFormat: format},
			Fields: fields,
		},
	}
}

// colWidthReq sets the pixel width of a single column.
func colWidthReq(sheetID, col, pixels int64) *sheets.Request {
	return &sheets.Request{
		UpdateDimensionProperties: &sheets.UpdateDimensionPropertiesRequest{
			Range: &sheets.DimensionRange{
				SheetId:    sheetID,
				Dimension:  "COLUMNS",
				StartIndex: col,
				EndIndex:   col + 1,
			},
			Properties: &sheets.DimensionProperties{PixelSize: pixels},
			Fields:     "pixelSize",
		},
	}
}
