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

// defaultQueryTimeout bounds operations whose caller supplied no deadline.
const defaultQueryTimeout = 30 * time.Second

// ensureContext applies defaultQueryTimeout when ctx has no deadline
func (db *DB) ensureContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		return context.WithTimeout(context.Background(), defaultQueryTimeout)
	}

	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		return context.WithTimeout(ctx, defaultQueryTimeout)
	}

	return ctx, func() {}
}

// Checkpoint forces a WAL checkpoint
func (db *DB) Checkpoint(ctx context.Context) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	if _, err := db.conn.ExecContext(ctx, "CHECKPOINT"); err != nil {
		return fmt.Errorf("checkpoint failed: %w", err)
	}
	return nil
}

// GetDatabasePath returns the path to the database file
func (db *DB) GetDatabasePath() string {
	return db.cfg.Path
}

// RecordCounts holds row counts of the main tables.
type RecordCounts struct {
	Users           int64 `json:"users"`
	FeatureVectors  int64 `json:"feature_vectors"`
	Similarities    int64 `json:"similarities"`
	Recommendations int64 `json:"recommendations"`
}

// GetRecordCounts returns the count of records in main tables
func (db *DB) GetRecordCounts(ctx context.Context) (*RecordCounts, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var c RecordCounts
	err := db.conn.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM feature_vectors),
			(SELECT COUNT(*) FROM user_similarities),
			(SELECT COUNT(*) FROM recommendations)
	`).Scan(&c.Users, &c.FeatureVectors, &c.Similarities, &c.Recommendations)
	if err != nil {
		return nil, fmt.Errorf("failed to count records: %w", err)
	}
	return &c, nil
}
