package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"worldsweep/internal/cleaner"
	"worldsweep/internal/config"
	"worldsweep/internal/notify"
)

func scanCmd() *cobra.Command {
	var preview bool
	var logOnly bool
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Run one anomaly scan over the world database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(preview, logOnly)
		},
	}
	cmd.Flags().BoolVar(&preview, "preview", false, "List findings without remediating")
	cmd.Flags().BoolVar(&logOnly, "log-notify", false, "Log the summary instead of whispering it into the world chat")
	return cmd
}

func runScan(preview, logOnly bool) error {
	ctx := context.Background()

	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	log := newLogger(cfg.Debug)

	db, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close(ctx)

	if err := db.EnsureSchema(ctx); err != nil {
		return err
	}

	var notifier cleaner.Notifier = notify.NewChat(db, cfg.Operator)
	if logOnly {
		notifier = notify.NewLog(log)
	}

	runner := cleaner.NewRunner(db, notifier, cfg.Scan, cfg.Operator, log, nil)

	if preview {
		previews, err := runner.Preview(ctx)
		if err != nil {
			return err
		}
		printPreviews(previews)
		return nil
	}

	return runner.RunScan(ctx)
}

func printPreviews(previews []cleaner.CategoryPreview) {
	for _, p := range previews {
		state := "disabled"
		if p.Enabled {
			state = p.Action
		}
		fmt.Fprintf(os.Stdout, "%s (%s): %d\n", p.Label, state, p.Count)
		for _, entry := range p.Entries {
			fmt.Fprintf(os.Stdout, "  - %s\n", entry)
		}
	}
}
