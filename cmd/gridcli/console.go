package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/quadratichq/quadratic-sub012/internal/a1"
	"github.com/quadratichq/quadratic-sub012/internal/cellvalue"
	"github.com/quadratichq/quadratic-sub012/internal/fileformat"
	"github.com/quadratichq/quadratic-sub012/internal/grid"
	"github.com/quadratichq/quadratic-sub012/internal/operation"
	"github.com/quadratichq/quadratic-sub012/internal/pos"
)

func consoleCommand() *cli.Command {
	return &cli.Command{
		Name:      "console",
		Usage:     "open an interactive console: type a formula, see it land in the current cell",
		ArgsUsage: "[FILE]",
		Action: func(c *cli.Context) error {
			path := c.Args().First()
			wb, err := openWorkbook(path)
			if err != nil {
				return err
			}
			runConsole(wb, path)
			return nil
		},
	}
}

type consoleState struct {
	ctrl   *operation.Controller
	sheet  *grid.Sheet
	cursor struct{ X, Y int64 }
	path   string
}

func runConsole(wb *operation.Workbook, path string) {
	src := newLineSource(os.Stdin, os.Stdout)
	defer src.Close()

	st := &consoleState{
		ctrl: &operation.Controller{WB: wb, Now: time.Now},
		path: path,
	}
	st.sheet = wb.Grid.Sheets()[0]
	st.cursor.X, st.cursor.Y = 1, 1

	fmt.Println("gridcli console — type a formula, or :help for commands")
	for {
		prompt := fmt.Sprintf("%s!%s> ", st.sheet.Name, pos.NewPos(st.cursor.X, st.cursor.Y).A1String())
		line, ok := src.ReadLine(prompt)
		if !ok {
			return
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, ":") {
			if st.handleCommand(line) {
				return
			}
			continue
		}
		st.evalAtCursor(line)
	}
}

func (st *consoleState) evalAtCursor(src string) {
	src = strings.TrimPrefix(src, "=")
	p := pos.NewPos(st.cursor.X, st.cursor.Y)
	st.ctrl.Apply([]operation.Operation{{
		Kind:    operation.KindComputeCode,
		SheetID: st.sheet.ID,
		Pos:     p,
		Code:    cellvalue.CodeCellValue{Language: cellvalue.LanguageFormula, Code: src},
	}}, operation.ClassUser, "", "gridcli-console")

	result := st.sheet.GetCell(p)
	if runErr, ok := result.Error(); ok {
		fmt.Printf("error: %s\n", runErr.Sentinel())
		return
	}
	fmt.Println(result.Display())
	st.cursor.Y++
}

// handleCommand processes a console command starting with ":".
// Returns true if the console should exit.
func (st *consoleState) handleCommand(cmd string) bool {
	fields := strings.Fields(cmd)
	switch fields[0] {
	case ":quit", ":q", ":exit":
		fmt.Println("bye")
		return true

	case ":help", ":h":
		fmt.Println("commands:")
		fmt.Println("  :goto REF     move the cursor (e.g. :goto B3)")
		fmt.Println("  :sheet NAME   switch sheet")
		fmt.Println("  :sheets       list sheet names")
		fmt.Println("  :save [FILE]  write the workbook to disk")
		fmt.Println("  :quit         exit the console")

	case ":sheets":
		for _, s := range st.ctrl.WB.Grid.Sheets() {
			fmt.Println(s.Name)
		}

	case ":sheet":
		if len(fields) < 2 {
			fmt.Println("usage: :sheet NAME")
			break
		}
		s := st.ctrl.WB.Grid.SheetByName(fields[1])
		if s == nil {
			fmt.Printf("no sheet named %q\n", fields[1])
			break
		}
		st.sheet = s

	case ":goto":
		if len(fields) < 2 {
			fmt.Println("usage: :goto REF")
			break
		}
		sel, err := a1.Parse(fields[1], st.sheet.ID, st.ctrl.WB.Ctx)
		if err != nil {
			fmt.Printf("bad reference: %v\n", err)
			break
		}
		st.cursor.X, st.cursor.Y = sel.Cursor.X, sel.Cursor.Y

	case ":save":
		out := st.path
		if len(fields) >= 2 {
			out = fields[1]
		}
		if out == "" {
			fmt.Println("usage: :save FILE (no file was loaded)")
			break
		}
		if err := fileformat.Save(st.ctrl.WB, out); err != nil {
			fmt.Printf("save failed: %v\n", err)
			break
		}
		st.path = out
		fmt.Printf("saved %s\n", out)

	default:
		fmt.Printf("unknown command %q, try :help\n", fields[0])
	}
	return false
}
