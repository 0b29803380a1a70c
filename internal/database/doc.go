// Fairmatch - Attendee Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fairmatch

/*
Package database provides DuckDB persistence for Fairmatch.

A single *DB implements both recommend.ProfileProvider (attendee profiles)
and recommend.Store (feature vectors, similarities, recommendations and
their reasons).

# Schema

  - users, user_skills, work_experiences, educations, publications: profiles
  - feature_vectors: one row per user, each facet a JSON object of term weights
  - user_similarities: directed pairs, both directions stored
  - recommendations, recommendation_reasons: ids drawn from sequences

Indexes are applied as versioned migrations tracked in schema_migrations.

# Replacement Semantics

Collections that are regenerated wholesale (outgoing similarities of a
user, the full similarity matrix, a user's recommendations) are deleted and
re-inserted inside one transaction. Readers see either the old or the new
set, never a mix.

# Usage

	db, err := database.New(&cfg.Database, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	engine, err := recommend.NewEngine(db, db, recommend.DefaultConfig(), logger)

# Observability

Every query records duckdb_query_duration_seconds and, on failure,
duckdb_query_errors_total through the metrics package.
*/
package database
