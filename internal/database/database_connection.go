// Fairmatch - Attendee Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fairmatch

package database

import (
	"context"
	"database/sql"
	"runtime"
	"time"

	"github.com/tomtom215/fairmatch/internal/metrics"
)

// configureConnectionPool sets connection pool parameters
func (db *DB) configureConnectionPool() {
	db.conn.SetMaxOpenConns(runtime.NumCPU())
	db.conn.SetMaxIdleConns(2)
	db.conn.SetConnMaxLifetime(time.Hour)
	db.conn.SetConnMaxIdleTime(5 * time.Minute)
}

// withTx runs fn inside a transaction. The transaction is committed when fn
// returns nil and rolled back otherwise; a failed rollback is logged with the
// original error attached.
func (db *DB) withTx(ctx context.Context, operation, table string, fn func(tx *sql.Tx) error) (err error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery(operation, table, time.Since(start), err) }()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				db.logger.Error().
					Err(rbErr).
					AnErr("original_error", err).
					Str("operation", operation).
					Msg("Transaction rollback failed")
			}
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// observe records the duration and outcome of a single-statement query.
func observe(operation, table string, start time.Time, err error) {
	metrics.RecordDBQuery(operation, table, time.Since(start), err)
}
