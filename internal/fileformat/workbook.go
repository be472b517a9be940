package fileformat

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/quadratichq/quadratic-sub012/internal/cellvalue"
	"github.com/quadratichq/quadratic-sub012/internal/format"
	"github.com/quadratichq/quadratic-sub012/internal/grid"
	"github.com/quadratichq/quadratic-sub012/internal/operation"
	"github.com/quadratichq/quadratic-sub012/internal/pos"
	"github.com/quadratichq/quadratic-sub012/internal/table"
)

// Load reads a grid file from path, migrates it to CurrentVersion if
// needed, and builds a Workbook ready for the controller to apply
// operations against.
func Load(path string) (*operation.Workbook, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("fileformat: %w", err)
	}
	g, err := UpgradeToCurrent(data)
	if err != nil {
		return nil, err
	}
	return ToWorkbook(g)
}

// Save serializes wb at CurrentVersion and writes it to path.
func Save(wb *operation.Workbook, path string) error {
	g := FromWorkbook(wb)
	data, err := json.MarshalIndent(g, "", "  ")
	if err != nil {
		return fmt.Errorf("fileformat: encoding: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("fileformat: %w", err)
	}
	return nil
}

// ToWorkbook builds a fresh operation.Workbook from a current-version
// grid. It is the bridge between on-disk bytes (after UpgradeToCurrent)
// and the live structures the rest of the grid core operates on.
func ToWorkbook(g *GridV1_1) (*operation.Workbook, error) {
	wb := operation.NewWorkbook()
	wb.Grid = grid.NewGrid()
	wb.Ctx = table.NewA1Context()

	for _, sv := range g.Sheets {
		id := pos.NewSheetId()
		if sv.ID != uuid.Nil {
			parsed, err := pos.SheetIdFromString(sv.ID.String())
			if err != nil {
				return nil, fmt.Errorf("fileformat: sheet %q: %w", sv.Name, err)
			}
			id = parsed
		}

		sheet := wb.Grid.AddSheetWithID(id, sv.Name)
		if err := wb.Ctx.Sheets.Insert(id, sv.Name); err != nil {
			return nil, fmt.Errorf("fileformat: sheet %q: %w", sv.Name, err)
		}

		for key, cell := range sv.Cells {
			p, err := parseCellRef(key)
			if err != nil {
				return nil, fmt.Errorf("fileformat: sheet %q: %w", sv.Name, err)
			}
			v, err := toCellValue(cell)
			if err != nil {
				return nil, fmt.Errorf("fileformat: sheet %q cell %s: %w", sv.Name, key, err)
			}
			sheet.SetCell(p, v)
		}

		for key, run := range sv.CodeRuns {
			p, err := parseCellRef(key)
			if err != nil {
				return nil, fmt.Errorf("fileformat: sheet %q: %w", sv.Name, err)
			}
			wb.CodeRuns[pos.NewSheetPos(id, p.X, p.Y)] = cellvalue.CodeCellValue{
				Language: parseLanguage(run.Language),
				Code:     run.Code,
			}
		}

		formats := wb.Formats(id)
		for _, fr := range sv.Formats {
			rect := pos.NewRect(fr.X1, fr.Y1, fr.X2, fr.Y2)
			var update format.FormatUpdate
			if fr.Bold {
				bold := true
				update.Bold = &bold
			}
			if fr.FillColor != "" {
				fill := fr.FillColor
				update.FillColor = &fill
			}
			if !update.IsDefault() {
				formats.SetCells(rect, update)
			}
		}
	}
	return wb, nil
}

// FromWorkbook flattens wb into the current on-disk schema. Formatting
// is reduced to the bold/fillColor subset FormatRunV1_1 tracks; richer
// formatting survives only in the live Workbook, not across a
// save/load round trip (spec leaves the persisted format set
// unspecified beyond "formatting persists").
func FromWorkbook(wb *operation.Workbook) *GridV1_1 {
	g := &GridV1_1{Version: CurrentVersion}
	for _, sheet := range wb.Grid.Sheets() {
		sv := SheetV1_1{
			ID:       toUUID(sheet.ID),
			Name:     sheet.Name,
			Cells:    make(map[string]CellV1_1),
			CodeRuns: make(map[string]CodeRunV1_1),
		}

		rect, ok := sheet.Bounds()
		if ok {
			for y := rect.Min.Y; y <= rect.Max.Y; y++ {
				for x := rect.Min.X; x <= rect.Max.X; x++ {
					p := pos.NewPos(x, y)
					cell := sheet.GetCell(p)
					if cell.IsBlank() {
						continue
					}
					sv.Cells[formatCellRef(p)] = fromCellValue(cell)
				}
			}
		}

		for sp, code := range wb.CodeRuns {
			if sp.SheetId != sheet.ID {
				continue
			}
			sv.CodeRuns[formatCellRef(sp.Pos)] = CodeRunV1_1{
				Language: strings.ToLower(code.Language.String()),
				Code:     code.Code,
			}
		}

		if ok {
			formats := wb.Formats(sheet.ID)
			for y := rect.Min.Y; y <= rect.Max.Y; y++ {
				for x := rect.Min.X; x <= rect.Max.X; x++ {
					p := pos.NewPos(x, y)
					update := formats.Resolve(p)
					if update.IsDefault() {
						continue
					}
					fr := FormatRunV1_1{X1: x, Y1: y, X2: x, Y2: y}
					if update.Bold != nil {
						fr.Bold = *update.Bold
					}
					if update.FillColor != nil {
						fr.FillColor = *update.FillColor
					}
					sv.Formats = append(sv.Formats, fr)
				}
			}
		}

		g.Sheets = append(g.Sheets, sv)
	}
	return g
}

func parseCellRef(key string) (pos.Pos, error) {
	parts := strings.SplitN(key, ",", 2)
	if len(parts) != 2 {
		return pos.Pos{}, fmt.Errorf("malformed cell ref %q", key)
	}
	x, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return pos.Pos{}, fmt.Errorf("malformed cell ref %q: %w", key, err)
	}
	y, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return pos.Pos{}, fmt.Errorf("malformed cell ref %q: %w", key, err)
	}
	return pos.NewPos(x, y), nil
}

func formatCellRef(p pos.Pos) string {
	return strconv.FormatInt(p.X, 10) + "," + strconv.FormatInt(p.Y, 10)
}

func toCellValue(c CellV1_1) (cellvalue.CellValue, error) {
	switch c.Kind {
	case "blank", "":
		return cellvalue.Blank, nil
	case "number":
		d, err := decimal.NewFromString(c.Value)
		if err != nil {
			return cellvalue.CellValue{}, err
		}
		return cellvalue.NewNumber(d), nil
	case "text":
		return cellvalue.NewText(c.Value), nil
	case "logical":
		return cellvalue.NewLogical(c.Value == "true"), nil
	case "date":
		t, err := time.Parse(time.RFC3339, c.Value)
		if err != nil {
			return cellvalue.CellValue{}, err
		}
		return cellvalue.NewDate(t), nil
	case "time":
		t, err := time.Parse(time.RFC3339, c.Value)
		if err != nil {
			return cellvalue.CellValue{}, err
		}
		return cellvalue.NewTime(t), nil
	case "datetime":
		t, err := time.Parse(time.RFC3339, c.Value)
		if err != nil {
			return cellvalue.CellValue{}, err
		}
		return cellvalue.NewDateTime(t), nil
	case "duration":
		d, err := time.ParseDuration(c.Value)
		if err != nil {
			return cellvalue.CellValue{}, err
		}
		return cellvalue.NewDuration(d), nil
	case "html":
		return cellvalue.NewHTML(c.Value), nil
	case "image":
		return cellvalue.NewImage(c.Value), nil
	default:
		return cellvalue.NewText(c.Value), nil
	}
}

// fromCellValue encodes v into the string form toCellValue parses
// back, which is not the same as Display's human-readable rendering
// (a logical cell round-trips as "true"/"false", not "TRUE"/"FALSE";
// date/time/datetime round-trip as RFC3339, not the display-only
// "2006-01-02" style).
func fromCellValue(v cellvalue.CellValue) CellV1_1 {
	kind := v.Kind.String()
	switch v.Kind {
	case cellvalue.KindNumber:
		n, _ := v.Number()
		return CellV1_1{Kind: kind, Value: n.String()}
	case cellvalue.KindText, cellvalue.KindHTML, cellvalue.KindImage:
		s, _ := v.Text()
		return CellV1_1{Kind: kind, Value: s}
	case cellvalue.KindLogical:
		b, _ := v.Logical()
		if b {
			return CellV1_1{Kind: kind, Value: "true"}
		}
		return CellV1_1{Kind: kind, Value: "false"}
	case cellvalue.KindDate:
		t, _ := v.Date()
		return CellV1_1{Kind: kind, Value: t.Format(time.RFC3339)}
	case cellvalue.KindTime:
		t, _ := v.Time()
		return CellV1_1{Kind: kind, Value: t.Format(time.RFC3339)}
	case cellvalue.KindDateTime:
		t, _ := v.DateTime()
		return CellV1_1{Kind: kind, Value: t.Format(time.RFC3339)}
	case cellvalue.KindDuration:
		d, _ := v.Duration()
		return CellV1_1{Kind: kind, Value: d.String()}
	default:
		// Code/Import/Error cells never reach the grid directly (code
		// source lives in CodeRuns; errors are recomputed on load), so
		// this branch is unreached in practice but kept total.
		return CellV1_1{Kind: kind, Value: v.Display()}
	}
}

func parseLanguage(s string) cellvalue.CodeLanguage {
	switch strings.ToLower(s) {
	case "python":
		return cellvalue.LanguagePython
	case "javascript":
		return cellvalue.LanguageJavascript
	case "sql":
		return cellvalue.LanguageSQL
	case "import":
		return cellvalue.LanguageImport
	default:
		return cellvalue.LanguageFormula
	}
}

func toUUID(id pos.SheetId) uuid.UUID {
	parsed, err := uuid.Parse(id.String())
	if err != nil {
		return uuid.Nil
	}
	return parsed
}
