// Command gridcli is a command-line front end over the grid core: it
// loads and migrates workbook files, evaluates formulas against them,
// extends autocomplete series, exports a debug snapshot to .xlsx, and
// opens an interactive console for poking at a workbook one formula
// at a time.
package main

import (
	"log"
	"os"

	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "gridcli",
		Usage: "inspect, evaluate, and migrate grid workbook files",
		Commands: []*cli.Command{
			loadCommand(),
			evalCommand(),
			migrateCommand(),
			autocompleteCommand(),
			xlsxExportCommand(),
			consoleCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
