package database

import (
	"context"
	"database/sql"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS stations (
		name TEXT PRIMARY KEY,
		lat REAL NOT NULL,
		lon REAL NOT NULL,
		accessibility INTEGER NOT NULL,
		label TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS edges (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		start_name TEXT NOT NULL REFERENCES stations (name),
		end_name TEXT NOT NULL REFERENCES stations (name),
		time REAL NOT NULL,
		line TEXT NOT NULL,
		type TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_edges_start ON edges (start_name)`,
	`CREATE INDEX IF NOT EXISTS idx_edges_line ON edges (line)`,
}

func createTables(ctx context.Context, tx *sql.Tx) error {
	for _, statement := range schema {
		if _, err := tx.ExecContext(ctx, statement); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}

	return nil
}
