// Fairmatch - Attendee Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fairmatch

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/fairmatch/internal/recommend"
)

// selectRecommendation joins the recommended user so the display name can
// be filled without a second round trip.
const selectRecommendation = `
	SELECT r.id, r.user_id, r.recommended_user_id, r.score, r.status, r.created_at, r.updated_at,
		COALESCE(u.username, ''), COALESCE(u.first_name, ''), COALESCE(u.last_name, '')
	FROM recommendations r
	LEFT JOIN users u ON u.id = r.recommended_user_id`

// ReplaceRecommendations implements recommend.Store. The user's previous
// recommendations and their reasons are deleted in the same transaction.
// A failed row insert rolls back the transaction and is reported as a
// *recommend.RowWriteError naming the row.
func (db *DB) ReplaceRecommendations(ctx context.Context, userID int64, recs []recommend.RecommendationWithReasons) ([]recommend.RecommendationWithReasons, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	saved := make([]recommend.RecommendationWithReasons, 0, len(recs))
	err := db.withTx(ctx, "replace", "recommendations", func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			DELETE FROM recommendation_reasons
			WHERE recommendation_id IN (SELECT id FROM recommendations WHERE user_id = ?)`, userID); err != nil {
			return fmt.Errorf("delete reasons: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM recommendations WHERE user_id = ?`, userID); err != nil {
			return fmt.Errorf("delete recommendations: %w", err)
		}

		for i, rw := range recs {
			rec := rw.Recommendation
			rec.UserID = userID
			if err := tx.QueryRowContext(ctx, `
				INSERT INTO recommendations (user_id, recommended_user_id, score, status, created_at, updated_at)
				VALUES (?, ?, ?, ?, ?, ?)
				RETURNING id`,
				rec.UserID, rec.RecommendedUserID, rec.Score, string(rec.Status),
				rec.CreatedAt.UTC(), rec.UpdatedAt.UTC()).Scan(&rec.ID); err != nil {
				return &recommend.RowWriteError{Index: i, Reason: -1, Err: fmt.Errorf("insert recommendation: %w", err)}
			}

			name, err := displayName(ctx, tx, rec.RecommendedUserID)
			if err != nil {
				return err
			}
			rec.RecommendedUserName = name

			reasons := make([]recommend.Reason, 0, len(rw.Reasons))
			for j, reason := range rw.Reasons {
				reason.RecommendationID = rec.ID
				terms, err := json.Marshal(nonNilTerms(reason.Terms))
				if err != nil {
					return &recommend.RowWriteError{Index: i, Reason: j, Err: fmt.Errorf("encode reason terms: %w", err)}
				}
				if err := tx.QueryRowContext(ctx, `
					INSERT INTO recommendation_reasons (recommendation_id, code, description, score, terms)
					VALUES (?, ?, ?, ?, ?)
					RETURNING id`,
					reason.RecommendationID, string(reason.Code), reason.Description, reason.Score, string(terms)).
					Scan(&reason.ID); err != nil {
					return &recommend.RowWriteError{Index: i, Reason: j, Err: fmt.Errorf("insert reason: %w", err)}
				}
				reasons = append(reasons, reason)
			}
			saved = append(saved, recommend.RecommendationWithReasons{Recommendation: rec, Reasons: reasons})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("replace recommendations of user %d: %w", userID, err)
	}
	return saved, nil
}

func displayName(ctx context.Context, tx *sql.Tx, userID int64) (string, error) {
	var u recommend.User
	err := tx.QueryRowContext(ctx, `
		SELECT username, COALESCE(first_name, ''), COALESCE(last_name, '')
		FROM users WHERE id = ?`, userID).Scan(&u.Username, &u.FirstName, &u.LastName)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("query name of user %d: %w", userID, err)
	}
	return u.DisplayName(), nil
}

func nonNilTerms(terms []string) []string {
	if terms == nil {
		return []string{}
	}
	return terms
}

// Recommendations implements recommend.Store. A non-positive limit returns
// every recommendation of the user.
func (db *DB) Recommendations(ctx context.Context, userID int64, limit int) ([]recommend.Recommendation, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	query := selectRecommendation + `
		WHERE r.user_id = ?
		ORDER BY r.score DESC, r.id ASC`
	args := []interface{}{userID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		observe("select", "recommendations", start, err)
		return nil, fmt.Errorf("query recommendations of user %d: %w", userID, err)
	}
	defer closeWithLog(rows, &db.logger, "recommendation rows")

	recs := make([]recommend.Recommendation, 0)
	for rows.Next() {
		rec, err := scanRecommendation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan recommendation: %w", err)
		}
		recs = append(recs, *rec)
	}
	err = rows.Err()
	observe("select", "recommendations", start, err)
	return recs, err
}

// Recommendation implements recommend.Store.
func (db *DB) Recommendation(ctx context.Context, id int64) (*recommend.Recommendation, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	rec, err := scanRecommendation(db.conn.QueryRowContext(ctx, selectRecommendation+` WHERE r.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		observe("select", "recommendations", start, nil)
		return nil, fmt.Errorf("recommendation %d: %w", id, recommend.ErrRecommendationNotFound)
	}
	observe("select", "recommendations", start, err)
	if err != nil {
		return nil, fmt.Errorf("query recommendation %d: %w", id, err)
	}
	return rec, nil
}

// UpdateRecommendationStatus implements recommend.Store.
func (db *DB) UpdateRecommendationStatus(ctx context.Context, id int64, status recommend.Status, at time.Time) (*recommend.Recommendation, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	res, err := db.conn.ExecContext(ctx,
		`UPDATE recommendations SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), at.UTC(), id)
	observe("update", "recommendations", start, err)
	if err != nil {
		return nil, fmt.Errorf("update recommendation %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, fmt.Errorf("recommendation %d: %w", id, recommend.ErrRecommendationNotFound)
	}
	return db.Recommendation(ctx, id)
}

// Reasons implements recommend.Store.
func (db *DB) Reasons(ctx context.Context, recommendationID int64) ([]recommend.Reason, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, recommendation_id, code, description, score, terms
		FROM recommendation_reasons
		WHERE recommendation_id = ?
		ORDER BY id`, recommendationID)
	if err != nil {
		observe("select", "recommendation_reasons", start, err)
		return nil, fmt.Errorf("query reasons of recommendation %d: %w", recommendationID, err)
	}
	defer closeWithLog(rows, &db.logger, "reason rows")

	reasons := make([]recommend.Reason, 0)
	for rows.Next() {
		var (
			r           recommend.Reason
			code, terms string
		)
		if err := rows.Scan(&r.ID, &r.RecommendationID, &code, &r.Description, &r.Score, &terms); err != nil {
			return nil, fmt.Errorf("scan reason: %w", err)
		}
		r.Code = recommend.ReasonCode(code)
		if err := json.Unmarshal([]byte(terms), &r.Terms); err != nil {
			return nil, fmt.Errorf("decode reason terms: %w", err)
		}
		reasons = append(reasons, r)
	}
	err = rows.Err()
	observe("select", "recommendation_reasons", start, err)
	return reasons, err
}

func scanRecommendation(row rowScanner) (*recommend.Recommendation, error) {
	var (
		rec    recommend.Recommendation
		status string
		u      recommend.User
	)
	if err := row.Scan(&rec.ID, &rec.UserID, &rec.RecommendedUserID, &rec.Score, &status,
		&rec.CreatedAt, &rec.UpdatedAt, &u.Username, &u.FirstName, &u.LastName); err != nil {
		return nil, err
	}
	rec.Status = recommend.Status(status)
	rec.RecommendedUserName = u.DisplayName()
	return &rec, nil
}
