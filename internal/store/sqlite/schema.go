package sqlite

import (
	"context"
	"fmt"
)

func (c *Client) EnsureSchema(ctx context.Context) error {
	ddl := `
	CREATE TABLE IF NOT EXISTS documents (
		kind TEXT NOT NULL,
		id   TEXT NOT NULL,
		name TEXT NOT NULL DEFAULT '',
		data TEXT NOT NULL,
		PRIMARY KEY (kind, id)
	);

	CREATE INDEX IF NOT EXISTS idx_documents_kind_name ON documents (kind, name);

	CREATE TABLE IF NOT EXISTS compendia (
		key   TEXT PRIMARY KEY,
		label TEXT NOT NULL,
		kind  TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS compendium_documents (
		compendium_key TEXT NOT NULL REFERENCES compendia(key) ON DELETE CASCADE,
		kind           TEXT NOT NULL,
		id             TEXT NOT NULL,
		data           TEXT NOT NULL,
		PRIMARY KEY (compendium_key, kind, id)
	);
	`
	if _, err := c.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("ensuring schema: %w", err)
	}
	return nil
}
