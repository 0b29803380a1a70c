// Fairmatch - Attendee Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fairmatch

package database

import (
	"context"
	"fmt"
	"time"
)

// Migration represents a versioned database migration.
type Migration struct {
	Version     int       // Unique version number (monotonically increasing)
	Name        string    // Human-readable migration name
	Description string    // Description of what this migration does
	SQL         string    // SQL statement to execute
	AppliedAt   time.Time // When the migration was applied (populated on query)
}

// schemaMigrationsTable creates the migration tracking table
const schemaMigrationsTable = `
CREATE TABLE IF NOT EXISTS schema_migrations (
	version INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	description TEXT,
	applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// getMigrations returns all versioned migrations in order.
// Migrations are append-only: never modify or remove one once released.
func (db *DB) getMigrations() []Migration {
	return []Migration{
		{Version: 1, Name: "user_skills_index", Description: "Index skills by user",
			SQL: `CREATE INDEX IF NOT EXISTS idx_user_skills_user ON user_skills(user_id);`},
		{Version: 2, Name: "work_experiences_index", Description: "Index work experiences by user",
			SQL: `CREATE INDEX IF NOT EXISTS idx_work_experiences_user ON work_experiences(user_id);`},
		{Version: 3, Name: "educations_index", Description: "Index educations by user",
			SQL: `CREATE INDEX IF NOT EXISTS idx_educations_user ON educations(user_id);`},
		{Version: 4, Name: "publications_index", Description: "Index publications by user",
			SQL: `CREATE INDEX IF NOT EXISTS idx_publications_user ON publications(user_id);`},
		{Version: 5, Name: "similarity_source_index", Description: "Index similarity records by source user for top-N reads",
			SQL: `CREATE INDEX IF NOT EXISTS idx_user_similarities_source ON user_similarities(source_user_id);`},
		{Version: 6, Name: "recommendations_user_index", Description: "Index recommendations by target user",
			SQL: `CREATE INDEX IF NOT EXISTS idx_recommendations_user ON recommendations(user_id);`},
		{Version: 7, Name: "reasons_recommendation_index", Description: "Index reasons by parent recommendation",
			SQL: `CREATE INDEX IF NOT EXISTS idx_recommendation_reasons_rec ON recommendation_reasons(recommendation_id);`},
	}
}

// createMigrationsTable creates the schema_migrations table if it doesn't exist
func (db *DB) createMigrationsTable(ctx context.Context) error {
	_, err := db.conn.ExecContext(ctx, schemaMigrationsTable)
	return err
}

// getAppliedMigrations returns a map of version -> Migration for all applied migrations
func (db *DB) getAppliedMigrations(ctx context.Context) (map[int]Migration, error) {
	history, err := db.queryMigrations(ctx)
	if err != nil {
		return nil, err
	}
	applied := make(map[int]Migration, len(history))
	for _, m := range history {
		applied[m.Version] = m
	}
	return applied, nil
}

// runVersionedMigrations executes only migrations that haven't been applied yet.
func (db *DB) runVersionedMigrations() error {
	ctx, cancel := schemaContext()
	defer cancel()

	if err := db.createMigrationsTable(ctx); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	applied, err := db.getAppliedMigrations(ctx)
	if err != nil {
		return fmt.Errorf("failed to get applied migrations: %w", err)
	}

	newMigrations := 0
	for _, m := range db.getMigrations() {
		if _, exists := applied[m.Version]; exists {
			continue
		}

		if _, err := db.conn.ExecContext(ctx, m.SQL); err != nil {
			return fmt.Errorf("failed to execute migration v%d (%s): %w", m.Version, m.Name, err)
		}

		_, err := db.conn.ExecContext(ctx,
			`INSERT INTO schema_migrations (version, name, description) VALUES (?, ?, ?)`,
			m.Version, m.Name, m.Description)
		if err != nil {
			return fmt.Errorf("failed to record migration v%d: %w", m.Version, err)
		}

		newMigrations++
	}

	if newMigrations > 0 {
		db.logger.Info().Int("count", newMigrations).Msg("Applied database migrations")
	}
	return nil
}

// GetCurrentSchemaVersion returns the highest applied migration version
func (db *DB) GetCurrentSchemaVersion(ctx context.Context) (int, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var version int
	err := db.conn.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("failed to get schema version: %w", err)
	}
	return version, nil
}

// GetMigrationHistory returns all applied migrations in order
func (db *DB) GetMigrationHistory(ctx context.Context) ([]Migration, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	return db.queryMigrations(ctx)
}

func (db *DB) queryMigrations(ctx context.Context) ([]Migration, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT version, name, COALESCE(description, ''), applied_at FROM schema_migrations ORDER BY version`)
	if err != nil {
		return nil, fmt.Errorf("failed to query migration history: %w", err)
	}
	defer closeWithLog(rows, &db.logger, "migration rows")

	var history []Migration
	for rows.Next() {
		var m Migration
		if err := rows.Scan(&m.Version, &m.Name, &m.Description, &m.AppliedAt); err != nil {
			return nil, fmt.Errorf("failed to scan migration: %w", err)
		}
		history = append(history, m)
	}
	return history, rows.Err()
}
