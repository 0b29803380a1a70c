// Fairmatch - Attendee Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fairmatch

package database

import (
	"context"
	"fmt"

	"github.com/tomtom215/fairmatch/internal/recommend"
)

type demoAttendee struct {
	user    recommend.User
	profile recommend.Profile
}

// demoAttendees is a small fair population with overlapping backgrounds so
// that every attendee has at least one match above the default threshold.
var demoAttendees = []demoAttendee{
	{
		recommend.User{ID: 1, Username: "adupont", FirstName: "Alice", LastName: "Dupont", Email: "alice@example.org"},
		recommend.Profile{
			Skills:          []string{"Python", "Machine Learning", "SQL"},
			WorkExperiences: []recommend.WorkExperience{{Sector: "Healthcare", Position: "Data Scientist"}},
			Educations:      []recommend.Education{{FieldOfStudy: "Computer Science", Degree: "MSc"}},
			Publications:    []recommend.Publication{{Topic: "Medical Imaging"}},
		},
	},
	{
		recommend.User{ID: 2, Username: "bmartin", FirstName: "Bruno", LastName: "Martin", Email: "bruno@example.org"},
		recommend.Profile{
			Skills:          []string{"Python", "SQL", "Data Visualization"},
			WorkExperiences: []recommend.WorkExperience{{Sector: "Healthcare", Position: "Data Analyst"}, {Sector: "Finance", Position: "Analyst"}},
			Educations:      []recommend.Education{{FieldOfStudy: "Statistics", Degree: "MSc"}},
		},
	},
	{
		recommend.User{ID: 3, Username: "cnguyen", FirstName: "Chloe", LastName: "Nguyen", Email: "chloe@example.org"},
		recommend.Profile{
			Skills:          []string{"Go", "Kubernetes", "PostgreSQL"},
			WorkExperiences: []recommend.WorkExperience{{Sector: "Software", Position: "Backend Engineer"}},
			Educations:      []recommend.Education{{FieldOfStudy: "Computer Science", Degree: "BSc"}},
		},
	},
	{
		recommend.User{ID: 4, Username: "dsilva", FirstName: "Diego", LastName: "Silva", Email: "diego@example.org"},
		recommend.Profile{
			Skills:          []string{"Go", "Distributed Systems", "Kubernetes"},
			WorkExperiences: []recommend.WorkExperience{{Sector: "Software", Position: "Site Reliability Engineer"}},
			Educations:      []recommend.Education{{FieldOfStudy: "Electrical Engineering", Degree: "MSc"}},
			Publications:    []recommend.Publication{{Topic: "Distributed Systems"}},
		},
	},
	{
		recommend.User{ID: 5, Username: "ekowalski", FirstName: "Ewa", LastName: "Kowalski", Email: "ewa@example.org"},
		recommend.Profile{
			Skills:          []string{"Marketing", "Product Management", "SQL"},
			WorkExperiences: []recommend.WorkExperience{{Sector: "Retail", Position: "Product Manager"}},
			Educations:      []recommend.Education{{FieldOfStudy: "Business Administration", Degree: "MBA"}},
		},
	},
	{
		recommend.User{ID: 6, Username: "fokafor", FirstName: "Femi", LastName: "Okafor", Email: "femi@example.org"},
		recommend.Profile{
			Skills:          []string{"Product Management", "UX Research", "Marketing"},
			WorkExperiences: []recommend.WorkExperience{{Sector: "Retail", Position: "Growth Lead"}, {Sector: "Software", Position: "Product Owner"}},
			Educations:      []recommend.Education{{FieldOfStudy: "Psychology", Degree: "BSc"}},
		},
	},
	{
		recommend.User{ID: 7, Username: "grossi", FirstName: "Giulia", LastName: "Rossi", Email: "giulia@example.org"},
		recommend.Profile{
			Skills:          []string{"Machine Learning", "Computer Vision", "Python"},
			WorkExperiences: []recommend.WorkExperience{{Sector: "Research", Position: "Research Scientist"}},
			Educations:      []recommend.Education{{FieldOfStudy: "Computer Science", Degree: "PhD"}},
			Publications:    []recommend.Publication{{Topic: "Medical Imaging"}, {Topic: "Computer Vision"}},
		},
	},
	{
		recommend.User{ID: 8, Username: "hschmidt", FirstName: "Hanna", LastName: "Schmidt", Email: "hanna@example.org"},
		recommend.Profile{
			Skills:          []string{"Accounting", "SQL", "Risk Analysis"},
			WorkExperiences: []recommend.WorkExperience{{Sector: "Finance", Position: "Risk Analyst"}},
			Educations:      []recommend.Education{{FieldOfStudy: "Statistics", Degree: "BSc"}},
		},
	},
}

// SeedDemoData inserts the demo attendee population when the users table
// is empty. It is a no-op on a populated database.
func (db *DB) SeedDemoData(ctx context.Context) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var count int64
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if count > 0 {
		db.logger.Debug().Int64("users", count).Msg("Database already populated, skipping demo data")
		return nil
	}

	for _, a := range demoAttendees {
		if err := db.UpsertUser(ctx, a.user, a.profile); err != nil {
			return fmt.Errorf("seed user %d: %w", a.user.ID, err)
		}
	}

	db.logger.Info().Int("users", len(demoAttendees)).Msg("Seeded demo attendees")
	return nil
}
