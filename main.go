package main

import (
	"fmt"
	"os"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/gigurra/petrol-book/pkg/logging"
)

func main() {
	// A .env next to the binary may set PETROL_BOOK_FILE, LOG_LEVEL, ...
	_ = godotenv.Load()

	boa.CmdT[boa.NoParams]{
		Use:   "petrol-book",
		Short: "Keep a log of fuelings and see what your car consumes",
		Long: "Records fuelings of one vehicle in a JSON petrol book and derives " +
			"cost per liquid, consumption and cost per reference distance.",
		SubCmds: boa.SubCmds(
			showCmd(),
			addCmd(),
			formCmd(),
			serveCmd(),
			importCmd(),
			exportCmd(),
			stationsCmd(),
			configCmd(),
		),
	}.Run()
}

func showCmd() boa.CmdT[ShowParams] {
	return boa.CmdT[ShowParams]{
		Use:   "show",
		Short: "Show the fueling table",
		RunFunc: func(params *ShowParams, _ *cobra.Command, _ []string) {
			logging.Setup(params.Verbose)
			exitOnError(runShow(os.Stdout, params))
		},
	}
}

func addCmd() boa.CmdT[AddParams] {
	return boa.CmdT[AddParams]{
		Use:   "add",
		Short: "Add a fueling record",
		Long:  "Adds a fueling record. With --partial only date and mileage are required and no fill-up is recorded.",
		RunFunc: func(params *AddParams, _ *cobra.Command, _ []string) {
			logging.Setup(params.Verbose)
			exitOnError(runAdd(os.Stdout, params, nowFunc()))
		},
	}
}

func formCmd() boa.CmdT[FormParams] {
	return boa.CmdT[FormParams]{
		Use:   "form",
		Short: "Add a fueling record with an interactive form",
		RunFunc: func(params *FormParams, _ *cobra.Command, _ []string) {
			logging.Setup(params.Verbose)
			exitOnError(runForm(os.Stdout, params))
		},
	}
}

func serveCmd() boa.CmdT[ServeParams] {
	return boa.CmdT[ServeParams]{
		Use:   "serve",
		Short: "Serve the petrol book as a web page",
		RunFunc: func(params *ServeParams, _ *cobra.Command, _ []string) {
			logging.Setup(params.Verbose)
			exitOnError(runServe(params))
		},
	}
}

func importCmd() boa.CmdT[ImportParams] {
	return boa.CmdT[ImportParams]{
		Use:   "import",
		Short: "Import fuelings from another file",
		Long: "Imports fuelings into the petrol book. The format is detected from the file " +
			"extension or given as a prefix, e.g. xlsx:fuelings.xlsx or simple-json:export.json.",
		RunFunc: func(params *ImportParams, _ *cobra.Command, _ []string) {
			logging.Setup(params.Verbose)
			exitOnError(runImport(os.Stdout, params))
		},
	}
}

func exportCmd() boa.CmdT[ExportParams] {
	return boa.CmdT[ExportParams]{
		Use:   "export",
		Short: "Export the fueling table to .xlsx or SQLite (.db, .sqlite)",
		RunFunc: func(params *ExportParams, _ *cobra.Command, _ []string) {
			logging.Setup(params.Verbose)
			exitOnError(runExport(os.Stdout, params, nowFunc()))
		},
	}
}

func stationsCmd() boa.CmdT[StationsParams] {
	return boa.CmdT[StationsParams]{
		Use:   "stations",
		Short: "List petrol stations by use",
		RunFunc: func(params *StationsParams, _ *cobra.Command, _ []string) {
			logging.Setup(params.Verbose)
			exitOnError(runStations(os.Stdout, params))
		},
	}
}

func configCmd() boa.CmdT[ConfigParams] {
	return boa.CmdT[ConfigParams]{
		Use:   "config",
		Short: "Print or write a config template",
		RunFunc: func(params *ConfigParams, _ *cobra.Command, _ []string) {
			logging.Setup(params.Verbose)
			exitOnError(runConfig(os.Stdout, params))
		},
	}
}

func exitOnError(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
