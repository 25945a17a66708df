package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"worldsweep/internal/cleaner"
	"worldsweep/internal/config"
	"worldsweep/internal/notify"
)

func watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Scan on the configured schedule until interrupted",
		Args:  cobra.NoArgs,
		RunE:  runWatch,
	}
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

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

	notifier := notify.NewChat(db, cfg.Operator)
	runner := cleaner.NewRunner(db, notifier, cfg.Scan, cfg.Operator, log, nil)

	log.Info().Int("frequency_hours", cfg.Scan.FrequencyHours).Msg("watching world database")
	if err := runner.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
