package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"worldsweep/internal/store"
)

func (c *Client) GetCompendium(ctx context.Context, key string) (*store.Compendium, error) {
	var comp store.Compendium
	err := c.pool.QueryRow(ctx,
		"SELECT key, label, kind FROM compendia WHERE key = $1", key).
		Scan(&comp.Key, &comp.Label, &comp.Kind)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting compendium %s: %w", key, err)
	}
	return &comp, nil
}

func (c *Client) CreateCompendium(ctx context.Context, meta store.CompendiumMeta) (*store.Compendium, error) {
	_, err := c.pool.Exec(ctx, `
INSERT INTO compendia (key, label, kind) VALUES ($1, $2, $3)
ON CONFLICT (key) DO NOTHING
`, meta.Key, meta.Label, string(meta.Kind))
	if err != nil {
		return nil, fmt.Errorf("creating compendium %s: %w", meta.Key, err)
	}
	return c.GetCompendium(ctx, meta.Key)
}

func (c *Client) ImportToCompendium(ctx context.Context, comp *store.Compendium, rec *store.Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encoding document: %w", err)
	}

	_, err = c.pool.Exec(ctx, `
INSERT INTO compendium_documents (compendium_key, kind, id, data) VALUES ($1, $2, $3, $4)
ON CONFLICT (compendium_key, kind, id) DO UPDATE SET data = excluded.data
`, comp.Key, string(rec.Kind), rec.ID, data)
	if err != nil {
		return fmt.Errorf("importing document into %s: %w", comp.Key, err)
	}
	return nil
}
