package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"worldsweep/internal/store"
)

func (c *Client) List(ctx context.Context, kind store.Kind) ([]*store.Record, error) {
	rows, err := c.db.QueryContext(ctx,
		"SELECT data FROM documents WHERE kind = ? ORDER BY name, id", string(kind))
	if err != nil {
		return nil, fmt.Errorf("listing %s documents: %w", kind, err)
	}
	defer rows.Close()

	var records []*store.Record
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		var rec store.Record
		if err := json.Unmarshal(data, &rec); err != nil {
			return nil, fmt.Errorf("decoding document: %w", err)
		}
		records = append(records, &rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}
	return records, nil
}

func (c *Client) Get(ctx context.Context, kind store.Kind, id string) (*store.Record, error) {
	data, err := c.loadData(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}

	var rec store.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decoding document: %w", err)
	}
	return &rec, nil
}

func (c *Client) Create(ctx context.Context, rec *store.Record) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encoding document: %w", err)
	}

	_, err = c.db.ExecContext(ctx, `
	INSERT INTO documents (kind, id, name, data) VALUES (?, ?, ?, ?)
	ON CONFLICT (kind, id) DO UPDATE SET name = excluded.name, data = excluded.data
	`, string(rec.Kind), rec.ID, rec.Name, data)
	if err != nil {
		return fmt.Errorf("creating %s document: %w", rec.Kind, err)
	}
	return nil
}

func (c *Client) Update(ctx context.Context, rec *store.Record, fields map[string]any) error {
	data, err := c.loadData(ctx, rec.Kind, rec.ID)
	if err != nil {
		return err
	}
	if data == nil {
		return fmt.Errorf("%s document %s not found", rec.Kind, rec.ID)
	}

	merged, err := store.MergeFields(data, fields)
	if err != nil {
		return err
	}
	return c.writeData(ctx, rec.Kind, rec.ID, merged)
}

func (c *Client) Delete(ctx context.Context, rec *store.Record) error {
	_, err := c.db.ExecContext(ctx,
		"DELETE FROM documents WHERE kind = ? AND id = ?", string(rec.Kind), rec.ID)
	if err != nil {
		return fmt.Errorf("deleting %s document %s: %w", rec.Kind, rec.ID, err)
	}
	return nil
}

func (c *Client) UpdateEmbedded(ctx context.Context, parent *store.Record, kind store.EmbeddedKind, updates []store.EmbeddedUpdate) error {
	data, err := c.loadData(ctx, parent.Kind, parent.ID)
	if err != nil {
		return err
	}
	if data == nil {
		return fmt.Errorf("%s document %s not found", parent.Kind, parent.ID)
	}

	merged, err := store.ApplyEmbeddedUpdates(data, kind, updates)
	if err != nil {
		return err
	}
	return c.writeData(ctx, parent.Kind, parent.ID, merged)
}

func (c *Client) DeleteEmbedded(ctx context.Context, parent *store.Record, kind store.EmbeddedKind, ids []string) error {
	data, err := c.loadData(ctx, parent.Kind, parent.ID)
	if err != nil {
		return err
	}
	if data == nil {
		return fmt.Errorf("%s document %s not found", parent.Kind, parent.ID)
	}

	merged, err := store.RemoveEmbedded(data, kind, ids)
	if err != nil {
		return err
	}
	return c.writeData(ctx, parent.Kind, parent.ID, merged)
}

func (c *Client) loadData(ctx context.Context, kind store.Kind, id string) ([]byte, error) {
	var data []byte
	err := c.db.QueryRowContext(ctx,
		"SELECT data FROM documents WHERE kind = ? AND id = ?", string(kind), id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading %s document %s: %w", kind, id, err)
	}
	return data, nil
}

func (c *Client) writeData(ctx context.Context, kind store.Kind, id string, data []byte) error {
	var rec store.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return fmt.Errorf("decoding document: %w", err)
	}

	_, err := c.db.ExecContext(ctx,
		"UPDATE documents SET name = ?, data = ? WHERE kind = ? AND id = ?",
		rec.Name, data, string(kind), id)
	if err != nil {
		return fmt.Errorf("updating %s document %s: %w", kind, id, err)
	}
	return nil
}
