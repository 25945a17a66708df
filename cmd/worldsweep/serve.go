package main

import (
	"context"

	"github.com/spf13/cobra"

	"worldsweep/internal/cleaner"
	"worldsweep/internal/config"
	"worldsweep/internal/files"
	"worldsweep/internal/mcp"
	"worldsweep/internal/notify"
	"worldsweep/internal/organize"
	"worldsweep/internal/relocate"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server over stdio",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
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

	notifier := notify.NewChat(db, cfg.Operator)
	runner := cleaner.NewRunner(db, notifier, cfg.Scan, cfg.Operator, log, nil)

	// Asset organization needs the file server; without a base URL the
	// tool reports itself unavailable instead of failing at startup.
	var organizer *organize.Organizer
	if cfg.Files.BaseURL != "" {
		fileClient, err := files.New(cfg.Files.BaseURL)
		if err != nil {
			return err
		}
		rel := relocate.New(fileClient, db, log)
		organizer = organize.New(db, rel, notifier, cfg.Organize, cfg.Operator, log)
	}

	server := mcp.NewServer(cfg, runner, organizer, version)
	return server.Run(ctx, &sdk.StdioTransport{})
}
