// Fairmatch - Attendee Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fairmatch

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tomtom215/fairmatch/internal/recommend"
)

const insertSimilarity = `
	INSERT INTO user_similarities (
		source_user_id, target_user_id, score,
		skills_score, sectors_score, expertise_score, interests_score, education_score,
		primary_reason, updated_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// ReplaceSimilaritiesForSource implements recommend.Store. Existing outgoing
// records of the source are deleted in the same transaction.
func (db *DB) ReplaceSimilaritiesForSource(ctx context.Context, sourceUserID int64, records []recommend.SimilarityRecord) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	err := db.withTx(ctx, "replace", "user_similarities", func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM user_similarities WHERE source_user_id = ?`, sourceUserID); err != nil {
			return fmt.Errorf("delete similarities: %w", err)
		}
		return insertSimilarities(ctx, tx, records)
	})
	if err != nil {
		return fmt.Errorf("replace similarities of user %d: %w", sourceUserID, err)
	}
	return nil
}

// ReplaceAllSimilarities implements recommend.Store.
func (db *DB) ReplaceAllSimilarities(ctx context.Context, records []recommend.SimilarityRecord) error {
	// Full recomputation writes n*(n-1) rows; the caller's deadline governs.
	if ctx == nil {
		ctx = context.Background()
	}

	err := db.withTx(ctx, "replace_all", "user_similarities", func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM user_similarities`); err != nil {
			return fmt.Errorf("delete similarities: %w", err)
		}
		return insertSimilarities(ctx, tx, records)
	})
	if err != nil {
		return fmt.Errorf("replace all similarities: %w", err)
	}
	return nil
}

func insertSimilarities(ctx context.Context, tx *sql.Tx, records []recommend.SimilarityRecord) error {
	if len(records) == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx, insertSimilarity)
	if err != nil {
		return fmt.Errorf("prepare similarity insert: %w", err)
	}
	defer closeQuietly(stmt)

	for i := range records {
		r := &records[i]
		if _, err := stmt.ExecContext(ctx,
			r.SourceUserID, r.TargetUserID, r.Score,
			r.Facets.Skills, r.Facets.Sectors, r.Facets.Expertise, r.Facets.Interests, r.Facets.Education,
			string(r.PrimaryReason), r.UpdatedAt.UTC(),
		); err != nil {
			return fmt.Errorf("insert similarity %d->%d: %w", r.SourceUserID, r.TargetUserID, err)
		}
	}
	return nil
}

// MostSimilar implements recommend.Store. A non-positive limit returns every record.
func (db *DB) MostSimilar(ctx context.Context, sourceUserID int64, limit int) ([]recommend.SimilarityRecord, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	query := `
		SELECT source_user_id, target_user_id, score,
			skills_score, sectors_score, expertise_score, interests_score, education_score,
			COALESCE(primary_reason, ''), updated_at
		FROM user_similarities
		WHERE source_user_id = ?
		ORDER BY score DESC, target_user_id ASC`
	args := []interface{}{sourceUserID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		observe("select", "user_similarities", start, err)
		return nil, fmt.Errorf("query similarities of user %d: %w", sourceUserID, err)
	}
	defer closeWithLog(rows, &db.logger, "similarity rows")

	records := make([]recommend.SimilarityRecord, 0)
	for rows.Next() {
		var (
			r      recommend.SimilarityRecord
			reason string
		)
		if err := rows.Scan(&r.SourceUserID, &r.TargetUserID, &r.Score,
			&r.Facets.Skills, &r.Facets.Sectors, &r.Facets.Expertise, &r.Facets.Interests, &r.Facets.Education,
			&reason, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan similarity: %w", err)
		}
		r.PrimaryReason = recommend.ReasonCode(reason)
		records = append(records, r)
	}
	err = rows.Err()
	observe("select", "user_similarities", start, err)
	return records, err
}
