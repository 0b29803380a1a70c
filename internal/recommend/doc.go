// Fairmatch - Attendee Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fairmatch

// Package recommend implements attendee similarity scoring and "people you
// should meet" recommendations.
//
// # Pipeline
//
// The engine runs in three stages:
//
//   - Feature extraction: a profile snapshot (skills, work history, education,
//     publications) is projected into five weighted term facets.
//   - Similarity: every pair of users is scored with a weighted sum of
//     per-facet cosine similarities and stored as two directed records.
//   - Recommendation: the most similar users above a relevance threshold
//     become recommendations, each explained by the terms both users share.
//
// # Facets
//
//   - skills: uniform over distinct skills
//   - sectors: frequency over work experience sectors
//   - expertise: uniform over skills, positions and publication topics
//   - interests: uniform over skills and fields of study
//   - education: frequency over fields of study and degrees
//
// # Persistence
//
// Note: This package has no dependencies on other internal packages. Profile
// data is read through ProfileProvider and results are written through Store,
// both implemented by the database package. MemoryStore implements both for
// tests and for running the engine without DuckDB.
//
// Collections that are regenerated (a user's outgoing similarities, the full
// similarity table, a user's recommendations) are always replaced through a
// single Store call so readers observe either the old set or the new one.
//
// # Usage
//
//	engine, err := recommend.NewEngine(db, db, recommend.DefaultConfig(), logger)
//	if err != nil {
//	    return err
//	}
//
//	created, err := engine.GenerateForUser(ctx, userID, 5)
//	recs, err := engine.Recommendations(ctx, userID, 10)
//
// # Thread Safety
//
// The engine is safe for concurrent use. Two concurrent regenerations for the
// same user are not serialized; the last replace wins.
package recommend
