package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"worldsweep/internal/config"
	"worldsweep/internal/load"
)

func loadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "load <dir>",
		Short: "Import a world export directory into the database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLoad(args[0])
		},
	}
}

func runLoad(dir string) error {
	ctx := context.Background()

	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}

	db, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close(ctx)

	result, err := load.Run(ctx, dir, db)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Loaded: %d\nSkipped: %d\n", result.Loaded, result.Skipped)
	if len(result.Errors) > 0 {
		fmt.Fprintf(os.Stdout, "Errors (%d):\n", len(result.Errors))
		for _, e := range result.Errors {
			fmt.Fprintf(os.Stdout, "  - %v\n", e)
		}
		return fmt.Errorf("load completed with errors")
	}
	return nil
}
