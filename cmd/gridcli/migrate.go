package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/quadratichq/quadratic-sub012/internal/fileformat"
)

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:      "migrate",
		Usage:     "upgrade a grid file to the current schema version, in place",
		ArgsUsage: "FILE",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "out", Usage: "write the migrated file here instead of overwriting FILE"},
		},
		Action: func(c *cli.Context) error {
			path := c.Args().First()
			if path == "" {
				return fmt.Errorf("migrate: a file path is required")
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			g, err := fileformat.UpgradeToCurrent(data)
			if err != nil {
				return fmt.Errorf("migrate: %w", err)
			}

			out := c.String("out")
			if out == "" {
				out = path
			}
			wb, err := fileformat.ToWorkbook(g)
			if err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			if err := fileformat.Save(wb, out); err != nil {
				return err
			}
			fmt.Printf("migrated to %s, wrote %s\n", fileformat.CurrentVersion, out)
			return nil
		},
	}
}
