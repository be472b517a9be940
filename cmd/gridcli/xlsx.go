package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/quadratichq/quadratic-sub012/internal/export"
	"github.com/quadratichq/quadratic-sub012/internal/fileformat"
)

func xlsxExportCommand() *cli.Command {
	return &cli.Command{
		Name:      "xlsx-export",
		Usage:     "dump a grid file's evaluated values to a standalone .xlsx workbook",
		ArgsUsage: "FILE OUT.xlsx",
		Action: func(c *cli.Context) error {
			if c.Args().Len() < 2 {
				return fmt.Errorf("xlsx-export: a grid file and an output path are required")
			}
			in, out := c.Args().Get(0), c.Args().Get(1)

			wb, err := fileformat.Load(in)
			if err != nil {
				return err
			}
			if err := export.DumpXLSX(wb, out); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", out)
			return nil
		},
	}
}
