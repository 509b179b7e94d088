package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/travigo/metrograph/pkg/stationgraph"

	_ "modernc.org/sqlite"
)

// DB is a SQLite snapshot of the station graph
type DB struct {
	conn *sql.DB
}

func Open(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}

	// SQLite allows a single writer
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}

	return &DB{conn: conn}, nil
}

func (db *DB) Close() error {
	return db.conn.Close()
}

// WriteExport replaces the stations and edges tables with the content of export
func (db *DB) WriteExport(ctx context.Context, export stationgraph.Export) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := createTables(ctx, tx); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM edges"); err != nil {
		return fmt.Errorf("failed to clear edges: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM stations"); err != nil {
		return fmt.Errorf("failed to clear stations: %w", err)
	}

	stationStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO stations (name, lat, lon, accessibility, label) VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare station insert: %w", err)
	}
	defer stationStmt.Close()

	for _, station := range export.Stations {
		_, err := stationStmt.ExecContext(ctx, station.Name, station.Latitude, station.Longitude, station.Accessibility, station.Label)
		if err != nil {
			return fmt.Errorf("failed to insert station %s: %w", station.Name, err)
		}
	}

	edgeStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO edges (start_name, end_name, time, line, type) VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare edge insert: %w", err)
	}
	defer edgeStmt.Close()

	for _, edge := range export.Edges {
		_, err := edgeStmt.ExecContext(ctx, edge.Start, edge.End, edge.Time, edge.Line, edge.Type)
		if err != nil {
			return fmt.Errorf("failed to insert edge %s -> %s: %w", edge.Start, edge.End, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}

	log.Info().Int("stations", len(export.Stations)).Int("edges", len(export.Edges)).Msg("Written SQLite snapshot")

	return nil
}
