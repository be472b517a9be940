package main

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v2"

	"github.com/quadratichq/quadratic-sub012/internal/autocomplete"
	"github.com/quadratichq/quadratic-sub012/internal/cellvalue"
)

func autocompleteCommand() *cli.Command {
	return &cli.Command{
		Name:      "autocomplete",
		Usage:     "extend a sampled series of values the way a fill-handle drag would",
		ArgsUsage: "VALUE...",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "spaces", Value: 1, Usage: "how many cells to generate"},
			&cli.BoolFlag{Name: "negative", Usage: "extend backward instead of forward"},
		},
		Action: func(c *cli.Context) error {
			if c.Args().Len() == 0 {
				return fmt.Errorf("autocomplete: at least one sample value is required")
			}

			series := make([]cellvalue.CellValue, 0, c.Args().Len())
			for _, arg := range c.Args().Slice() {
				series = append(series, parseSampleValue(arg))
			}

			extended := autocomplete.FindAutoComplete(autocomplete.SeriesOptions{
				Series:   series,
				Spaces:   c.Int("spaces"),
				Negative: c.Bool("negative"),
			})
			for _, v := range extended {
				fmt.Println(v.Display())
			}
			return nil
		},
	}
}

// parseSampleValue reads a command-line argument as a number when it
// looks like one, falling back to text otherwise — the same numeric
// sniffing a pasted spreadsheet column gets.
func parseSampleValue(arg string) cellvalue.CellValue {
	if d, err := decimal.NewFromString(arg); err == nil {
		return cellvalue.NewNumber(d)
	}
	return cellvalue.NewText(arg)
}
