package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"worldsweep/internal/config"
	"worldsweep/internal/files"
	"worldsweep/internal/notify"
	"worldsweep/internal/organize"
	"worldsweep/internal/relocate"
)

func organizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "organize",
		Short: "Move referenced asset files into the configured folder layout",
		Args:  cobra.NoArgs,
		RunE:  runOrganize,
	}
}

func runOrganize(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	log := newLogger(cfg.Debug)

	if cfg.Files.BaseURL == "" {
		return fmt.Errorf("files base_url is required for organization")
	}
	fileClient, err := files.New(cfg.Files.BaseURL)
	if err != nil {
		return err
	}

	db, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close(ctx)

	if err := db.EnsureSchema(ctx); err != nil {
		return err
	}

	rel := relocate.New(fileClient, db, log)
	notifier := notify.NewChat(db, cfg.Operator)
	organizer := organize.New(db, rel, notifier, cfg.Organize, cfg.Operator, log)

	results, err := organizer.Run(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Moved: %d\n", results.Success)
	if len(results.Failed) > 0 {
		fmt.Fprintf(os.Stdout, "Failed: %d\n", len(results.Failed))
		for _, f := range results.Failed {
			fmt.Fprintf(os.Stdout, "  - %s: %s (%s): %v\n", f.Kind, f.Name, f.File, f.Err)
		}
	}
	for _, w := range results.Warnings {
		fmt.Fprintf(os.Stdout, "Warning: %s\n", w)
	}
	return nil
}
