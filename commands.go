package main

import "github.com/spf13/cobra"

var (
	configPath string

	rootCmd = &cobra.Command{
		Use:           "xwedit",
		Short:         "Crossword grid editor and solving server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Args:  cobra.NoArgs,
		RunE:  runServe, // Defined in cmd_serve.go
	}

	numberCmd = &cobra.Command{
		Use:   "number <layout-file>",
		Short: "Print a layout file as a numbered grid with its clue lists",
		Long: `Reads one row per line: '.' is a black square, '-' or a space an
empty square, and a letter a filled square.`,
		Args: cobra.ExactArgs(1),
		RunE: runNumber, // Defined in cmd_number.go
	}
)

func init() {
	serveCmd.Flags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(numberCmd)
}
