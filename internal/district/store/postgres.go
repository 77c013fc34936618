package store

import (
	"context"
	"database/sql"
	"fmt"

	"rotunda/internal/district/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS district_lookups (
	id           UUID PRIMARY KEY,
	address      TEXT NOT NULL,
	state        TEXT NOT NULL,
	district     INTEGER NOT NULL,
	bioguide_id  TEXT NOT NULL,
	name         TEXT NOT NULL,
	looked_up_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS district_lookups_looked_up_at_idx ON district_lookups (looked_up_at DESC);
`

// PostgresHistory persists lookups in PostgreSQL.
type PostgresHistory struct {
	db *sql.DB
}

// NewPostgresHistory wraps db. Call EnsureSchema before first use.
func NewPostgresHistory(db *sql.DB) *PostgresHistory {
	return &PostgresHistory{db: db}
}

// EnsureSchema creates the lookup table if it does not exist.
func (h *PostgresHistory) EnsureSchema(ctx context.Context) error {
	if _, err := h.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create district_lookups: %w", err)
	}
	return nil
}

// Ping checks the connection; used by the health endpoint.
func (h *PostgresHistory) Ping(ctx context.Context) error {
	return h.db.PingContext(ctx)
}

// Record inserts entry.
func (h *PostgresHistory) Record(ctx context.Context, entry models.HistoryEntry) error {
	_, err := h.db.ExecContext(ctx, `
		INSERT INTO district_lookups (id, address, state, district, bioguide_id, name, looked_up_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		entry.ID, entry.Address, entry.State, entry.District, entry.BioguideID, entry.Name, entry.LookedUpAt,
	)
	if err != nil {
		return fmt.Errorf("record lookup: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (h *PostgresHistory) Recent(ctx context.Context, limit int) ([]models.HistoryEntry, error) {
	rows, err := h.db.QueryContext(ctx, `
		SELECT id, address, state, district, bioguide_id, name, looked_up_at
		FROM district_lookups
		ORDER BY looked_up_at DESC, id
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent lookups: %w", err)
	}
	defer rows.Close()

	var out []models.HistoryEntry
	for rows.Next() {
		var e models.HistoryEntry
		if err := rows.Scan(&e.ID, &e.Address, &e.State, &e.District, &e.BioguideID, &e.Name, &e.LookedUpAt); err != nil {
			return nil, fmt.Errorf("scan lookup: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate lookups: %w", err)
	}
	return out, nil
}
