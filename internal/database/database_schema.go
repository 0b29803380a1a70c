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

// schemaContext bounds DDL executed during startup.
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// createTables creates the core database tables
func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range db.getTableCreationQueries() {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %s: %w", query, err)
		}
	}
	return nil
}

// getTableCreationQueries returns the table creation SQL statements.
//
// Child tables carry no FOREIGN KEY constraints: DuckDB rewrites an UPDATE
// of a referenced row as delete plus insert, which a foreign key rejects,
// and recommendation statuses are updated in place. Children are deleted
// explicitly before their parents instead.
func (db *DB) getTableCreationQueries() []string {
	return []string{
		// Attendee profiles
		`CREATE TABLE IF NOT EXISTS users (
			id BIGINT PRIMARY KEY,
			username TEXT NOT NULL,
			first_name TEXT,
			last_name TEXT,
			email TEXT,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS user_skills (
			user_id BIGINT NOT NULL,
			skill TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS work_experiences (
			user_id BIGINT NOT NULL,
			sector TEXT,
			position TEXT
		);`,
		`CREATE TABLE IF NOT EXISTS educations (
			user_id BIGINT NOT NULL,
			field_of_study TEXT,
			degree TEXT
		);`,
		`CREATE TABLE IF NOT EXISTS publications (
			user_id BIGINT NOT NULL,
			topic TEXT
		);`,

		// One vector per user; each facet is a JSON object of term -> weight
		`CREATE TABLE IF NOT EXISTS feature_vectors (
			user_id BIGINT PRIMARY KEY,
			skills TEXT NOT NULL,
			sectors TEXT NOT NULL,
			expertise TEXT NOT NULL,
			interests TEXT NOT NULL,
			education TEXT NOT NULL,
			updated_at TIMESTAMP NOT NULL
		);`,

		// Directed pairs; both directions are stored
		`CREATE TABLE IF NOT EXISTS user_similarities (
			source_user_id BIGINT NOT NULL,
			target_user_id BIGINT NOT NULL,
			score DOUBLE NOT NULL,
			skills_score DOUBLE NOT NULL,
			sectors_score DOUBLE NOT NULL,
			expertise_score DOUBLE NOT NULL,
			interests_score DOUBLE NOT NULL,
			education_score DOUBLE NOT NULL,
			primary_reason TEXT,
			updated_at TIMESTAMP NOT NULL
		);`,

		`CREATE SEQUENCE IF NOT EXISTS recommendations_id_seq START 1;`,
		`CREATE TABLE IF NOT EXISTS recommendations (
			id BIGINT PRIMARY KEY DEFAULT nextval('recommendations_id_seq'),
			user_id BIGINT NOT NULL,
			recommended_user_id BIGINT NOT NULL,
			score DOUBLE NOT NULL,
			status TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		);`,

		`CREATE SEQUENCE IF NOT EXISTS recommendation_reasons_id_seq START 1;`,
		`CREATE TABLE IF NOT EXISTS recommendation_reasons (
			id BIGINT PRIMARY KEY DEFAULT nextval('recommendation_reasons_id_seq'),
			recommendation_id BIGINT NOT NULL,
			code TEXT NOT NULL,
			description TEXT NOT NULL,
			score DOUBLE NOT NULL,
			terms TEXT NOT NULL
		);`,
	}
}
