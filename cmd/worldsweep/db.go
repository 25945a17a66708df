package main

import (
	"context"
	"fmt"
	"strings"

	"worldsweep/internal/config"
	"worldsweep/internal/store"
	"worldsweep/internal/store/postgres"
	"worldsweep/internal/store/sqlite"
)

func openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch strings.ToLower(cfg.Database.Driver) {
	case "postgres":
		return postgres.New(ctx, cfg.Database.DSN)
	case "sqlite":
		return sqlite.New(ctx, cfg.Database.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Database.Driver)
	}
}
