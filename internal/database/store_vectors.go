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

// SaveFeatureVector implements recommend.Store. The stored vector is
// replaced as a whole.
func (db *DB) SaveFeatureVector(ctx context.Context, v *recommend.FeatureVector) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	cols, err := encodeFacets(v)
	if err != nil {
		return fmt.Errorf("encode feature vector of user %d: %w", v.UserID, err)
	}

	start := time.Now()
	_, err = db.conn.ExecContext(ctx, `
		INSERT INTO feature_vectors (user_id, skills, sectors, expertise, interests, education, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			skills = excluded.skills,
			sectors = excluded.sectors,
			expertise = excluded.expertise,
			interests = excluded.interests,
			education = excluded.education,
			updated_at = excluded.updated_at`,
		v.UserID, cols[0], cols[1], cols[2], cols[3], cols[4], v.UpdatedAt.UTC())
	observe("upsert", "feature_vectors", start, err)
	if err != nil {
		return fmt.Errorf("save feature vector of user %d: %w", v.UserID, err)
	}
	return nil
}

// FeatureVector implements recommend.Store.
func (db *DB) FeatureVector(ctx context.Context, userID int64) (*recommend.FeatureVector, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var (
		cols      [5]string
		updatedAt time.Time
	)
	start := time.Now()
	err := db.conn.QueryRowContext(ctx, `
		SELECT skills, sectors, expertise, interests, education, updated_at
		FROM feature_vectors WHERE user_id = ?`, userID).
		Scan(&cols[0], &cols[1], &cols[2], &cols[3], &cols[4], &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		observe("select", "feature_vectors", start, nil)
		return nil, fmt.Errorf("user %d: %w", userID, recommend.ErrFeatureVectorNotFound)
	}
	observe("select", "feature_vectors", start, err)
	if err != nil {
		return nil, fmt.Errorf("query feature vector of user %d: %w", userID, err)
	}

	v := recommend.NewFeatureVector(userID)
	v.UpdatedAt = updatedAt
	for i, f := range recommend.Facets {
		terms := v.Facet(f)
		if err := json.Unmarshal([]byte(cols[i]), &terms); err != nil {
			return nil, fmt.Errorf("decode %s facet of user %d: %w", f, userID, err)
		}
	}
	return v, nil
}

// encodeFacets returns the JSON encoding of each facet in recommend.Facets order.
func encodeFacets(v *recommend.FeatureVector) ([5]string, error) {
	var cols [5]string
	for i, f := range recommend.Facets {
		terms := v.Facet(f)
		if terms == nil {
			terms = recommend.Terms{}
		}
		b, err := json.Marshal(terms)
		if err != nil {
			return cols, err
		}
		cols[i] = string(b)
	}
	return cols, nil
}
