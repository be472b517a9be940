package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/quadratichq/quadratic-sub012/internal/format"
	"github.com/quadratichq/quadratic-sub012/internal/grid"
	"github.com/quadratichq/quadratic-sub012/internal/operation"
	"github.com/quadratichq/quadratic-sub012/internal/pos"
)

// DumpXLSX writes wb's evaluated grid to path as a standalone .xlsx
// workbook, one sheet per tab, for local inspection. It is write-only
// and best-effort: styling mirrors the bold/italic/color attributes
// SheetsMirror sends to Sheets, but column widths are not written and
// numeric display formats are approximated (fixed two decimals),
// since this exists for debugging rather than as a load-bearing export
// format (spec §6 names Sheets/SQL/collab as the external contracts;
// this is the pack's own xlsx-authoring library given a home).
func DumpXLSX(wb *operation.Workbook, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheetList := wb.Grid.Sheets()
	for i, s := range sheetList {
		name := s.Name
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
				return fmt.Errorf("export: naming first sheet: %w", err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("export: creating sheet %q: %w", name, err)
		}

		if err := writeXLSXSheet(f, wb, s); err != nil {
			return fmt.Errorf("export: writing sheet %q: %w", name, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("export: saving %s: %w", path, err)
	}
	return nil
}

func writeXLSXSheet(f *excelize.File, wb *operation.Workbook, s *grid.Sheet) error {
	rect, ok := s.Bounds()
	if !ok {
		return nil
	}
	formats := wb.Formats(s.ID)

	for y := rect.Min.Y; y <= rect.Max.Y; y++ {
		for x := rect.Min.X; x <= rect.Max.X; x++ {
			p := pos.NewPos(x, y)
			cell := s.GetCell(p)
			if cell.IsBlank() {
				continue
			}
			cellRef, err := excelize.CoordinatesToCellName(int(x), int(y))
			if err != nil {
				return err
			}
			if err := f.SetCellValue(s.Name, cellRef, sheetsValue(cell)); err != nil {
				return err
			}

			update := formats.Resolve(p)
			if update.IsDefault() {
				continue
			}
			styleID, err := xlsxStyle(f, update)
			if err != nil {
				return err
			}
			if err := f.SetCellStyle(s.Name, cellRef, cellRef, styleID); err != nil {
				return err
			}
		}
	}
	return nil
}

// xlsxStyle translates a resolved FormatUpdate into an excelize style
// ID, the same attribute subset cellFormat sends to Sheets.
func xlsxStyle(f *excelize.File, u format.FormatUpdate) (int, error) {
	style := &excelize.Style{}

	font := &excelize.Font{}
	hasFont := false
	if u.Bold != nil {
		font.Bold = *u.Bold
		hasFont = true
	}
	if u.Italic != nil {
		font.Italic = *u.Italic
		hasFont = true
	}
	if u.Underline != nil && *u.Underline {
		font.Underline = "single"
		hasFont = true
	}
	if u.StrikeThrough != nil {
		font.Strike = *u.StrikeThrough
		hasFont = true
	}
	if u.TextColor != nil {
		font.Color = *u.TextColor
		hasFont = true
	}
	if hasFont {
		style.Font = font
	}

	if u.FillColor != nil {
		style.Fill = excelize.Fill{Type: "pattern", Color: []string{*u.FillColor}, Pattern: 1}
	}

	if u.Align != nil || u.VerticalAlign != nil || (u.Wrap != nil && *u.Wrap) {
		align := &excelize.Alignment{}
		if u.Align != nil {
			switch *u.Align {
			case format.AlignLeft:
				align.Horizontal = "left"
			case format.AlignCenter:
				align.Horizontal = "center"
			case format.AlignRight:
				align.Horizontal = "right"
			}
		}
		if u.VerticalAlign != nil {
			switch *u.VerticalAlign {
			case format.VerticalAlignTop:
				align.Vertical = "top"
			case format.VerticalAlignMiddle:
				align.Vertical = "center"
			case format.VerticalAlignBottom:
				align.Vertical = "bottom"
			}
		}
		if u.Wrap != nil {
			align.WrapText = *u.Wrap
		}
		style.Alignment = align
	}

	if u.NumericFormat != nil {
		switch u.NumericFormat.Kind {
		case format.NumericFormatNumber:
			style.CustomNumFmt = strPtr("#,##0.00")
		case format.NumericFormatCurrency:
			symbol := u.NumericFormat.Symbol
			if symbol == "" {
				symbol = "$"
			}
			style.CustomNumFmt = strPtr(symbol + "#,##0.00")
		case format.NumericFormatPercentage:
			style.CustomNumFmt = strPtr("0.00%")
		case format.NumericFormatExponential:
			style.CustomNumFmt = strPtr("0.00E+00")
		}
	}

	return f.NewStyle(style)
}

func strPtr(s string) *string { return &s }
