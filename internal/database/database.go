// Fairmatch - Attendee Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fairmatch

package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/rs/zerolog"

	"github.com/tomtom215/fairmatch/internal/config"
	"github.com/tomtom215/fairmatch/internal/recommend"
)

// DB wraps the DuckDB connection and provides data access methods.
// It implements both recommend.ProfileProvider and recommend.Store.
type DB struct {
	conn   *sql.DB
	cfg    *config.DatabaseConfig
	logger zerolog.Logger
}

var (
	_ recommend.ProfileProvider = (*DB)(nil)
	_ recommend.Store           = (*DB)(nil)
)

// New opens the database file and initializes the schema.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func New(cfg *config.DatabaseConfig, logger zerolog.Logger) (*DB, error) {
	numThreads := cfg.Threads
	if numThreads <= 0 {
		numThreads = runtime.NumCPU()
	}

	// Use 0750 permissions (owner: rwx, group: rx, other: none) per gosec G301
	if cfg.Path != ":memory:" {
		dbDir := filepath.Dir(cfg.Path)
		if dbDir != "" && dbDir != "." {
			if err := os.MkdirAll(dbDir, 0o750); err != nil {
				return nil, fmt.Errorf("failed to create database directory %s: %w", dbDir, err)
			}
		}
	}

	preserveOrder := "true"
	if !cfg.PreserveInsertionOrder {
		preserveOrder = "false"
	}

	// Auto-install is disabled so startup never reaches for the network.
	// Nothing in the schema needs an extension.
	connStr := fmt.Sprintf("%s?access_mode=read_write&threads=%d&max_memory=%s&preserve_insertion_order=%s&autoinstall_known_extensions=false&autoload_known_extensions=false",
		cfg.Path, numThreads, cfg.MaxMemory, preserveOrder)

	conn, err := sql.Open("duckdb", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db := &DB{
		conn:   conn,
		cfg:    cfg,
		logger: logger.With().Str("component", "database").Logger(),
	}

	db.configureConnectionPool()

	if err := db.initialize(); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return db, nil
}

// Conn returns the underlying SQL database connection.
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// Close checkpoints the WAL and closes the connection.
func (db *DB) Close() error {
	if db.conn == nil {
		return nil
	}

	ctx, cancel := schemaContext()
	if err := db.Checkpoint(ctx); err != nil {
		db.logger.Warn().Err(err).Msg("Failed to checkpoint database before close")
	}
	cancel()

	return db.conn.Close()
}

// Ping checks if the database connection is alive
func (db *DB) Ping(ctx context.Context) error {
	if db.conn == nil {
		return fmt.Errorf("database connection is nil")
	}
	return db.conn.PingContext(ctx)
}

// initialize creates tables and applies pending migrations
func (db *DB) initialize() error {
	if err := db.createTables(); err != nil {
		return err
	}

	if err := db.runVersionedMigrations(); err != nil {
		return err
	}

	// Flush schema changes so a crash before the first write does not
	// leave DDL in the WAL.
	ctx, cancel := schemaContext()
	defer cancel()
	if err := db.Checkpoint(ctx); err != nil {
		db.logger.Warn().Err(err).Msg("Failed to checkpoint after schema initialization")
	}

	return nil
}
