package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/quadratichq/quadratic-sub012/internal/a1"
	"github.com/quadratichq/quadratic-sub012/internal/cellvalue"
	"github.com/quadratichq/quadratic-sub012/internal/fileformat"
	"github.com/quadratichq/quadratic-sub012/internal/grid"
	"github.com/quadratichq/quadratic-sub012/internal/operation"
)

func evalCommand() *cli.Command {
	return &cli.Command{
		Name:      "eval",
		Usage:     "evaluate a formula against a workbook and print the result",
		ArgsUsage: "FORMULA",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "file", Usage: "grid file to load; a fresh empty workbook is used when omitted"},
			&cli.StringFlag{Name: "sheet", Usage: "sheet name (defaults to the first sheet)"},
			&cli.StringFlag{Name: "at", Value: "A1", Usage: "cell the formula is anchored at, for relative references"},
		},
		Action: func(c *cli.Context) error {
			src := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
			if src == "" {
				return fmt.Errorf("eval: a formula is required")
			}
			src = strings.TrimPrefix(src, "=")

			wb, err := openWorkbook(c.String("file"))
			if err != nil {
				return err
			}

			sheet, err := resolveSheet(wb, c.String("sheet"))
			if err != nil {
				return err
			}

			sel, err := a1.Parse(c.String("at"), sheet.ID, wb.Ctx)
			if err != nil {
				return fmt.Errorf("eval: parsing --at: %w", err)
			}

			ctrl := &operation.Controller{WB: wb, Now: time.Now}
			ctrl.Apply([]operation.Operation{{
				Kind:    operation.KindComputeCode,
				SheetID: sheet.ID,
				Pos:     sel.Cursor,
				Code:    cellvalue.CodeCellValue{Language: cellvalue.LanguageFormula, Code: src},
			}}, operation.ClassUser, "", "gridcli")

			result := sheet.GetCell(sel.Cursor)
			if runErr, ok := result.Error(); ok {
				return fmt.Errorf("eval: %s", runErr.Sentinel())
			}
			fmt.Println(result.Display())

			if path := c.String("file"); path != "" {
				return fileformat.Save(wb, path)
			}
			return nil
		},
	}
}

func openWorkbook(path string) (*operation.Workbook, error) {
	if path == "" {
		return operation.NewWorkbook(), nil
	}
	wb, err := fileformat.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return wb, nil
}

func resolveSheet(wb *operation.Workbook, name string) (*grid.Sheet, error) {
	if name == "" {
		sheets := wb.Grid.Sheets()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook has no sheets")
		}
		return sheets[0], nil
	}
	s := wb.Grid.SheetByName(name)
	if s == nil {
		return nil, fmt.Errorf("no sheet named %q", name)
	}
	return s, nil
}
