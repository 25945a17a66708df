package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

const configFile = "worldsweep.yaml"

var debugFlag bool

func main() {
	root := &cobra.Command{
		Use:   "worldsweep",
		Short: "Maintenance engine for virtual tabletop world databases",
	}
	root.Version = version
	root.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Enable debug logging")
	root.SetVersionTemplate("{{.Version}}\n")
	root.AddCommand(scanCmd())
	root.AddCommand(watchCmd())
	root.AddCommand(organizeCmd())
	root.AddCommand(optimizeCmd())
	root.AddCommand(loadCmd())
	root.AddCommand(serveCmd())
	root.AddCommand(initCmd())
	root.AddCommand(versionCmd())
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug || debugFlag {
		level = zerolog.DebugLevel
	}
	writer := zerolog.ConsoleWriter{Out: os.Stderr}
	return zerolog.New(writer).Level(level).With().Timestamp().Logger()
}
