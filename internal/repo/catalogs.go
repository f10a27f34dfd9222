package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"Concreteflow/internal/calc/joist"
	"Concreteflow/internal/catalog"
)

// Save stores a catalog and its rows in one transaction.
func (r *Postgres) Save(ctx context.Context, c catalog.Catalog) (string, error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO catalogs (id, name, manufacturer, created_at) VALUES ($1, $2, $3, $4)",
		c.ID, c.Name, c.Manufacturer, c.CreatedAt)
	if err != nil {
		return "", fmt.Errorf("insert catalog: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO catalog_entries
		(catalog_id, position, reference, block_height_cm, spacing_cm, topping_cm, total_height_cm, weight_kg_m, bands)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`)
	if err != nil {
		return "", fmt.Errorf("prepare entries: %w", err)
	}
	defer stmt.Close()

	for i, e := range c.Entries {
		bands, err := json.Marshal(e.Bands)
		if err != nil {
			return "", fmt.Errorf("encode bands of %s: %w", e.Reference, err)
		}
		_, err = stmt.ExecContext(ctx, c.ID, i, e.Reference, e.BlockHeightCM, e.SpacingCM,
			e.ToppingCM, e.TotalHeightCM, e.WeightKgM, bands)
		if err != nil {
			return "", fmt.Errorf("insert entry %d: %w", i, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	return c.ID, nil
}

// Entries reads the rows of a catalog in import order.
func (r *Postgres) Entries(ctx context.Context, id string) ([]joist.Entry, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, catalog.NotFound(id)
	}
	rows, err := r.db.QueryContext(ctx, `SELECT reference, block_height_cm, spacing_cm, topping_cm,
		total_height_cm, weight_kg_m, bands FROM catalog_entries WHERE catalog_id=$1 ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	var out []joist.Entry
	for rows.Next() {
		var e joist.Entry
		var bands []byte
		if err := rows.Scan(&e.Reference, &e.BlockHeightCM, &e.SpacingCM, &e.ToppingCM,
			&e.TotalHeightCM, &e.WeightKgM, &bands); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		if err := json.Unmarshal(bands, &e.Bands); err != nil {
			return nil, fmt.Errorf("decode bands of %s: %w", e.Reference, err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read entries: %w", err)
	}
	if len(out) == 0 {
		return nil, catalog.NotFound(id)
	}
	return out, nil
}

var _ catalog.Store = (*Postgres)(nil)
