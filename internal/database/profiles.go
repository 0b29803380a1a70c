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

	"github.com/tomtom215/fairmatch/internal/recommend"
)

// User implements recommend.ProfileProvider.
func (db *DB) User(ctx context.Context, userID int64) (*recommend.User, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	u, err := scanUser(db.conn.QueryRowContext(ctx, `
		SELECT id, username, COALESCE(first_name, ''), COALESCE(last_name, ''), COALESCE(email, '')
		FROM users WHERE id = ?`, userID))
	if errors.Is(err, sql.ErrNoRows) {
		observe("select", "users", start, nil)
		return nil, fmt.Errorf("user %d: %w", userID, recommend.ErrUserNotFound)
	}
	observe("select", "users", start, err)
	if err != nil {
		return nil, fmt.Errorf("query user %d: %w", userID, err)
	}
	return u, nil
}

// ListUsers implements recommend.ProfileProvider.
func (db *DB) ListUsers(ctx context.Context) ([]recommend.User, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, username, COALESCE(first_name, ''), COALESCE(last_name, ''), COALESCE(email, '')
		FROM users ORDER BY id`)
	if err != nil {
		observe("select", "users", start, err)
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer closeWithLog(rows, &db.logger, "user rows")

	users := make([]recommend.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *u)
	}
	err = rows.Err()
	observe("select", "users", start, err)
	return users, err
}

// Profile implements recommend.ProfileProvider. It reads the skills, work
// experiences, educations and publications of one user.
func (db *DB) Profile(ctx context.Context, userID int64) (*recommend.Profile, error) {
	if _, err := db.User(ctx, userID); err != nil {
		return nil, err
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	p := &recommend.Profile{UserID: userID}
	start := time.Now()
	err := db.profileRows(ctx, `SELECT skill FROM user_skills WHERE user_id = ? ORDER BY rowid`, userID,
		func(rows *sql.Rows) error {
			var skill string
			if err := rows.Scan(&skill); err != nil {
				return err
			}
			p.Skills = append(p.Skills, skill)
			return nil
		})
	if err == nil {
		err = db.profileRows(ctx, `SELECT COALESCE(sector, ''), COALESCE(position, '') FROM work_experiences WHERE user_id = ? ORDER BY rowid`, userID,
			func(rows *sql.Rows) error {
				var w recommend.WorkExperience
				if err := rows.Scan(&w.Sector, &w.Position); err != nil {
					return err
				}
				p.WorkExperiences = append(p.WorkExperiences, w)
				return nil
			})
	}
	if err == nil {
		err = db.profileRows(ctx, `SELECT COALESCE(field_of_study, ''), COALESCE(degree, '') FROM educations WHERE user_id = ? ORDER BY rowid`, userID,
			func(rows *sql.Rows) error {
				var e recommend.Education
				if err := rows.Scan(&e.FieldOfStudy, &e.Degree); err != nil {
					return err
				}
				p.Educations = append(p.Educations, e)
				return nil
			})
	}
	if err == nil {
		err = db.profileRows(ctx, `SELECT COALESCE(topic, '') FROM publications WHERE user_id = ? ORDER BY rowid`, userID,
			func(rows *sql.Rows) error {
				var pub recommend.Publication
				if err := rows.Scan(&pub.Topic); err != nil {
					return err
				}
				p.Publications = append(p.Publications, pub)
				return nil
			})
	}
	observe("select", "profile", start, err)
	if err != nil {
		return nil, fmt.Errorf("query profile of user %d: %w", userID, err)
	}
	return p, nil
}

func (db *DB) profileRows(ctx context.Context, query string, userID int64, scan func(*sql.Rows) error) error {
	rows, err := db.conn.QueryContext(ctx, query, userID)
	if err != nil {
		return err
	}
	defer closeWithLog(rows, &db.logger, "profile rows")

	for rows.Next() {
		if err := scan(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}

// UpsertUser stores a user and replaces their whole profile.
//
//nolint:gocritic // value parameters mirror the recommend fixtures
func (db *DB) UpsertUser(ctx context.Context, u recommend.User, p recommend.Profile) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	return db.withTx(ctx, "upsert", "users", func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO users (id, username, first_name, last_name, email)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT (id) DO UPDATE SET
				username = excluded.username,
				first_name = excluded.first_name,
				last_name = excluded.last_name,
				email = excluded.email`,
			u.ID, u.Username, u.FirstName, u.LastName, u.Email); err != nil {
			return fmt.Errorf("upsert user %d: %w", u.ID, err)
		}

		for _, table := range []string{"user_skills", "work_experiences", "educations", "publications"} {
			//nolint:gosec // table names come from the fixed list above
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE user_id = ?", u.ID); err != nil {
				return fmt.Errorf("clear %s of user %d: %w", table, u.ID, err)
			}
		}

		for _, s := range p.Skills {
			if _, err := tx.ExecContext(ctx, `INSERT INTO user_skills (user_id, skill) VALUES (?, ?)`, u.ID, s); err != nil {
				return fmt.Errorf("insert skill: %w", err)
			}
		}
		for _, w := range p.WorkExperiences {
			if _, err := tx.ExecContext(ctx, `INSERT INTO work_experiences (user_id, sector, position) VALUES (?, ?, ?)`,
				u.ID, w.Sector, w.Position); err != nil {
				return fmt.Errorf("insert work experience: %w", err)
			}
		}
		for _, e := range p.Educations {
			if _, err := tx.ExecContext(ctx, `INSERT INTO educations (user_id, field_of_study, degree) VALUES (?, ?, ?)`,
				u.ID, e.FieldOfStudy, e.Degree); err != nil {
				return fmt.Errorf("insert education: %w", err)
			}
		}
		for _, pub := range p.Publications {
			if _, err := tx.ExecContext(ctx, `INSERT INTO publications (user_id, topic) VALUES (?, ?)`, u.ID, pub.Topic); err != nil {
				return fmt.Errorf("insert publication: %w", err)
			}
		}
		return nil
	})
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(row rowScanner) (*recommend.User, error) {
	var u recommend.User
	if err := row.Scan(&u.ID, &u.Username, &u.FirstName, &u.LastName, &u.Email); err != nil {
		return nil, err
	}
	return &u, nil
}
