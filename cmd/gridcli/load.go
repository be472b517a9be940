package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/quadratichq/quadratic-sub012/internal/fileformat"
)

func loadCommand() *cli.Command {
	return &cli.Command{
		Name:      "load",
		Usage:     "load a grid file and print a summary of its sheets",
		ArgsUsage: "FILE",
		Action: func(c *cli.Context) error {
			path := c.Args().First()
			if path == "" {
				return fmt.Errorf("load: a file path is required")
			}
			wb, err := fileformat.Load(path)
			if err != nil {
				return err
			}
			for _, sheet := range wb.Grid.Sheets() {
				rect, ok := sheet.Bounds()
				if !ok {
					fmt.Printf("%s: empty\n", sheet.Name)
					continue
				}
				fmt.Printf("%s: %s (%d x %d)\n", sheet.Name, rect.String(), rect.Width(), rect.Height())
			}
			return nil
		},
	}
}
