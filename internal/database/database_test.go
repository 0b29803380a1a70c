// Fairmatch - Attendee Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fairmatch

package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/fairmatch/internal/config"
	"github.com/tomtom215/fairmatch/internal/recommend"
)

// testDBSemaphore serializes DuckDB usage across tests. Concurrent CGO
// connections from many parallel tests can hang under CI resource pressure,
// so the slot is held for the whole test and released by t.Cleanup.
var testDBSemaphore = make(chan struct{}, 1)

// setupTestDB creates an in-memory database, failing the test if creation
// does not finish within two minutes.
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	testDBSemaphore <- struct{}{}
	t.Cleanup(func() { <-testDBSemaphore })

	cfg := &config.DatabaseConfig{
		Path:                   ":memory:",
		MaxMemory:              "1GB",
		PreserveInsertionOrder: true,
	}

	type result struct {
		db  *DB
		err error
	}
	resultCh := make(chan result, 1)
	go func() {
		db, err := New(cfg, zerolog.Nop())
		resultCh <- result{db: db, err: err}
	}()

	select {
	case res := <-resultCh:
		if res.err != nil {
			t.Fatalf("Failed to create test database: %v", res.err)
		}
		t.Cleanup(func() {
			if err := res.db.Close(); err != nil {
				t.Errorf("Close() error = %v", err)
			}
		})
		return res.db
	case <-time.After(120 * time.Second):
		t.Fatalf("Timeout: database creation took longer than 120s")
		return nil
	}
}

func putUser(t *testing.T, db *DB, id int64, first string, p recommend.Profile) {
	t.Helper()
	u := recommend.User{ID: id, Username: "user" + first, FirstName: first, LastName: "Test"}
	if err := db.UpsertUser(context.Background(), u, p); err != nil {
		t.Fatalf("UpsertUser(%d) error = %v", id, err)
	}
}

func TestNewAppliesMigrations(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	if err := db.Ping(ctx); err != nil {
		t.Fatalf("Ping() error = %v", err)
	}

	version, err := db.GetCurrentSchemaVersion(ctx)
	if err != nil {
		t.Fatalf("GetCurrentSchemaVersion() error = %v", err)
	}
	if want := len(db.getMigrations()); version != want {
		t.Errorf("GetCurrentSchemaVersion() = %d, want %d", version, want)
	}

	// A second run must not re-apply anything
	if err := db.runVersionedMigrations(); err != nil {
		t.Fatalf("runVersionedMigrations() second run error = %v", err)
	}
	history, err := db.GetMigrationHistory(ctx)
	if err != nil {
		t.Fatalf("GetMigrationHistory() error = %v", err)
	}
	if len(history) != len(db.getMigrations()) {
		t.Errorf("len(history) = %d, want %d", len(history), len(db.getMigrations()))
	}
}

func TestProfileRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	putUser(t, db, 2, "Bob", recommend.Profile{
		Skills:          []string{"Go", "SQL"},
		WorkExperiences: []recommend.WorkExperience{{Sector: "Finance", Position: "Engineer"}},
		Educations:      []recommend.Education{{FieldOfStudy: "Math", Degree: "BSc"}},
		Publications:    []recommend.Publication{{Topic: "Graphs"}},
	})
	putUser(t, db, 1, "Ann", recommend.Profile{Skills: []string{"Python"}})

	users, err := db.ListUsers(ctx)
	if err != nil {
		t.Fatalf("ListUsers() error = %v", err)
	}
	if len(users) != 2 || users[0].ID != 1 || users[1].ID != 2 {
		t.Fatalf("ListUsers() = %+v, want ids [1 2]", users)
	}

	p, err := db.Profile(ctx, 2)
	if err != nil {
		t.Fatalf("Profile() error = %v", err)
	}
	if len(p.Skills) != 2 || p.Skills[0] != "Go" {
		t.Errorf("Profile().Skills = %v, want [Go SQL]", p.Skills)
	}
	if len(p.WorkExperiences) != 1 || p.WorkExperiences[0].Sector != "Finance" {
		t.Errorf("Profile().WorkExperiences = %+v", p.WorkExperiences)
	}
	if len(p.Educations) != 1 || p.Educations[0].Degree != "BSc" {
		t.Errorf("Profile().Educations = %+v", p.Educations)
	}
	if len(p.Publications) != 1 || p.Publications[0].Topic != "Graphs" {
		t.Errorf("Profile().Publications = %+v", p.Publications)
	}

	// Upsert replaces the profile instead of appending
	putUser(t, db, 2, "Bob", recommend.Profile{Skills: []string{"Rust"}})
	p, err = db.Profile(ctx, 2)
	if err != nil {
		t.Fatalf("Profile() error = %v", err)
	}
	if len(p.Skills) != 1 || p.Skills[0] != "Rust" || len(p.WorkExperiences) != 0 {
		t.Errorf("Profile() after upsert = %+v, want only skill Rust", p)
	}

	if _, err := db.Profile(ctx, 99); !errors.Is(err, recommend.ErrUserNotFound) {
		t.Errorf("Profile(99) error = %v, want ErrUserNotFound", err)
	}
	if _, err := db.User(ctx, 99); !errors.Is(err, recommend.ErrUserNotFound) {
		t.Errorf("User(99) error = %v, want ErrUserNotFound", err)
	}
}

func TestFeatureVectorRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	if _, err := db.FeatureVector(ctx, 1); !errors.Is(err, recommend.ErrFeatureVectorNotFound) {
		t.Fatalf("FeatureVector() error = %v, want ErrFeatureVectorNotFound", err)
	}

	v := recommend.NewFeatureVector(1)
	v.Skills["go"] = 0.5
	v.Skills["sql"] = 0.5
	v.Sectors["finance"] = 1
	v.UpdatedAt = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	if err := db.SaveFeatureVector(ctx, v); err != nil {
		t.Fatalf("SaveFeatureVector() error = %v", err)
	}

	got, err := db.FeatureVector(ctx, 1)
	if err != nil {
		t.Fatalf("FeatureVector() error = %v", err)
	}
	if got.Skills["go"] != 0.5 || got.Sectors["finance"] != 1 {
		t.Errorf("FeatureVector() = %+v", got)
	}
	if got.Education == nil || len(got.Education) != 0 {
		t.Errorf("FeatureVector().Education = %v, want empty non-nil map", got.Education)
	}
	if !got.UpdatedAt.Equal(v.UpdatedAt) {
		t.Errorf("FeatureVector().UpdatedAt = %v, want %v", got.UpdatedAt, v.UpdatedAt)
	}

	// Saving again replaces every facet
	v2 := recommend.NewFeatureVector(1)
	v2.Skills["rust"] = 1
	v2.UpdatedAt = v.UpdatedAt.Add(time.Hour)
	if err := db.SaveFeatureVector(ctx, v2); err != nil {
		t.Fatalf("SaveFeatureVector() second error = %v", err)
	}
	got, err = db.FeatureVector(ctx, 1)
	if err != nil {
		t.Fatalf("FeatureVector() error = %v", err)
	}
	if len(got.Skills) != 1 || got.Skills["rust"] != 1 || len(got.Sectors) != 0 {
		t.Errorf("FeatureVector() after replace = %+v, want only skill rust", got)
	}
}

func similarity(src, tgt int64, score float64) recommend.SimilarityRecord {
	return recommend.SimilarityRecord{
		SourceUserID:  src,
		TargetUserID:  tgt,
		Score:         score,
		Facets:        recommend.FacetScores{Skills: score},
		PrimaryReason: recommend.ReasonCommonSkills,
		UpdatedAt:     time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestSimilarities(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	all := []recommend.SimilarityRecord{
		similarity(1, 2, 0.4), similarity(2, 1, 0.4),
		similarity(1, 3, 0.9), similarity(3, 1, 0.9),
		similarity(1, 4, 0.4), similarity(4, 1, 0.4),
	}
	if err := db.ReplaceAllSimilarities(ctx, all); err != nil {
		t.Fatalf("ReplaceAllSimilarities() error = %v", err)
	}

	got, err := db.MostSimilar(ctx, 1, 0)
	if err != nil {
		t.Fatalf("MostSimilar() error = %v", err)
	}
	wantTargets := []int64{3, 2, 4} // score desc, then target id asc
	if len(got) != len(wantTargets) {
		t.Fatalf("len(MostSimilar()) = %d, want %d", len(got), len(wantTargets))
	}
	for i, want := range wantTargets {
		if got[i].TargetUserID != want {
			t.Errorf("MostSimilar()[%d].TargetUserID = %d, want %d", i, got[i].TargetUserID, want)
		}
	}
	if got[0].PrimaryReason != recommend.ReasonCommonSkills || got[0].Facets.Skills != 0.9 {
		t.Errorf("MostSimilar()[0] = %+v, facets or reason lost", got[0])
	}

	limited, err := db.MostSimilar(ctx, 1, 2)
	if err != nil {
		t.Fatalf("MostSimilar(limit 2) error = %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("len(MostSimilar(limit 2)) = %d, want 2", len(limited))
	}

	// Replacing one source leaves the other directions alone
	if err := db.ReplaceSimilaritiesForSource(ctx, 1, []recommend.SimilarityRecord{similarity(1, 5, 0.2)}); err != nil {
		t.Fatalf("ReplaceSimilaritiesForSource() error = %v", err)
	}
	got, _ = db.MostSimilar(ctx, 1, 0)
	if len(got) != 1 || got[0].TargetUserID != 5 {
		t.Errorf("MostSimilar(1) after replace = %+v, want only target 5", got)
	}
	got, _ = db.MostSimilar(ctx, 3, 0)
	if len(got) != 1 || got[0].TargetUserID != 1 {
		t.Errorf("MostSimilar(3) after replace = %+v, want target 1 kept", got)
	}

	// Full replacement drops everything else
	if err := db.ReplaceAllSimilarities(ctx, nil); err != nil {
		t.Fatalf("ReplaceAllSimilarities(nil) error = %v", err)
	}
	counts, err := db.GetRecordCounts(ctx)
	if err != nil {
		t.Fatalf("GetRecordCounts() error = %v", err)
	}
	if counts.Similarities != 0 {
		t.Errorf("Similarities count = %d, want 0", counts.Similarities)
	}
}

func TestRecommendationsLifecycle(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	putUser(t, db, 1, "Ann", recommend.Profile{})
	putUser(t, db, 2, "Bob", recommend.Profile{})
	putUser(t, db, 3, "Cat", recommend.Profile{})

	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	batch := []recommend.RecommendationWithReasons{
		{
			Recommendation: recommend.Recommendation{RecommendedUserID: 2, Score: 0.5, Status: recommend.StatusNew, CreatedAt: now, UpdatedAt: now},
			Reasons: []recommend.Reason{
				{Code: recommend.ReasonCommonSkills, Description: "Common skills: go", Score: 0.3, Terms: []string{"go"}},
			},
		},
		{
			Recommendation: recommend.Recommendation{RecommendedUserID: 3, Score: 0.7, Status: recommend.StatusNew, CreatedAt: now, UpdatedAt: now},
		},
	}

	saved, err := db.ReplaceRecommendations(ctx, 1, batch)
	if err != nil {
		t.Fatalf("ReplaceRecommendations() error = %v", err)
	}
	if len(saved) != 2 || saved[0].Recommendation.ID == 0 || saved[0].Reasons[0].ID == 0 {
		t.Fatalf("ReplaceRecommendations() = %+v, want ids assigned", saved)
	}
	if saved[0].Recommendation.RecommendedUserName != "Bob Test" {
		t.Errorf("RecommendedUserName = %q, want Bob Test", saved[0].Recommendation.RecommendedUserName)
	}

	recs, err := db.Recommendations(ctx, 1, 10)
	if err != nil {
		t.Fatalf("Recommendations() error = %v", err)
	}
	if len(recs) != 2 || recs[0].RecommendedUserID != 3 || recs[1].RecommendedUserID != 2 {
		t.Fatalf("Recommendations() = %+v, want targets [3 2]", recs)
	}

	firstID := saved[0].Recommendation.ID
	reasons, err := db.Reasons(ctx, firstID)
	if err != nil {
		t.Fatalf("Reasons() error = %v", err)
	}
	if len(reasons) != 1 || reasons[0].Code != recommend.ReasonCommonSkills || len(reasons[0].Terms) != 1 {
		t.Errorf("Reasons() = %+v", reasons)
	}

	later := now.Add(time.Hour)
	rec, err := db.UpdateRecommendationStatus(ctx, firstID, recommend.StatusAccepted, later)
	if err != nil {
		t.Fatalf("UpdateRecommendationStatus() error = %v", err)
	}
	if rec.Status != recommend.StatusAccepted || !rec.UpdatedAt.Equal(later) || !rec.CreatedAt.Equal(now) {
		t.Errorf("UpdateRecommendationStatus() = %+v", rec)
	}
	if _, err := db.UpdateRecommendationStatus(ctx, 9999, recommend.StatusViewed, later); !errors.Is(err, recommend.ErrRecommendationNotFound) {
		t.Errorf("UpdateRecommendationStatus(9999) error = %v, want ErrRecommendationNotFound", err)
	}
	if _, err := db.Recommendation(ctx, 9999); !errors.Is(err, recommend.ErrRecommendationNotFound) {
		t.Errorf("Recommendation(9999) error = %v, want ErrRecommendationNotFound", err)
	}

	// Replacing deletes the old rows and their reasons
	if _, err := db.ReplaceRecommendations(ctx, 1, batch[1:]); err != nil {
		t.Fatalf("ReplaceRecommendations() second error = %v", err)
	}
	recs, _ = db.Recommendations(ctx, 1, 0)
	if len(recs) != 1 || recs[0].RecommendedUserID != 3 {
		t.Errorf("Recommendations() after replace = %+v, want only target 3", recs)
	}
	reasons, _ = db.Reasons(ctx, firstID)
	if len(reasons) != 0 {
		t.Errorf("Reasons(old id) = %+v, want empty", reasons)
	}
}

func TestSeedDemoData(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	if err := db.SeedDemoData(ctx); err != nil {
		t.Fatalf("SeedDemoData() error = %v", err)
	}
	// Second call is a no-op
	if err := db.SeedDemoData(ctx); err != nil {
		t.Fatalf("SeedDemoData() second error = %v", err)
	}

	counts, err := db.GetRecordCounts(ctx)
	if err != nil {
		t.Fatalf("GetRecordCounts() error = %v", err)
	}
	if counts.Users != int64(len(demoAttendees)) {
		t.Errorf("Users = %d, want %d", counts.Users, len(demoAttendees))
	}
}

// TestEngineOnDuckDB runs a full batch through the engine with DuckDB as
// both profile source and store.
func TestEngineOnDuckDB(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	if err := db.SeedDemoData(ctx); err != nil {
		t.Fatalf("SeedDemoData() error = %v", err)
	}

	engine, err := recommend.NewEngine(db, db, recommend.DefaultConfig(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}

	created, err := engine.GenerateForAll(ctx, 3)
	if err != nil {
		t.Fatalf("GenerateForAll() error = %v", err)
	}
	if created == 0 {
		t.Fatal("GenerateForAll() created 0 recommendations")
	}

	n := int64(len(demoAttendees))
	counts, err := db.GetRecordCounts(ctx)
	if err != nil {
		t.Fatalf("GetRecordCounts() error = %v", err)
	}
	if counts.Similarities != n*(n-1) {
		t.Errorf("Similarities = %d, want %d", counts.Similarities, n*(n-1))
	}
	if counts.FeatureVectors != n {
		t.Errorf("FeatureVectors = %d, want %d", counts.FeatureVectors, n)
	}

	// Alice (data science, healthcare) should be matched with Bruno or Giulia first
	recs, err := engine.RecommendationsWithReasons(ctx, 1, 3)
	if err != nil {
		t.Fatalf("RecommendationsWithReasons() error = %v", err)
	}
	if len(recs) == 0 {
		t.Fatal("RecommendationsWithReasons() returned nothing for user 1")
	}
	top := recs[0].Recommendation.RecommendedUserID
	if top != 2 && top != 7 {
		t.Errorf("top recommendation for user 1 = %d, want 2 or 7", top)
	}
	for _, r := range recs {
		if r.Recommendation.RecommendedUserID == 1 {
			t.Error("user 1 was recommended to themselves")
		}
		if r.Recommendation.Score < recommend.DefaultConfig().MinScore {
			t.Errorf("score %v below threshold", r.Recommendation.Score)
		}
		if len(r.Reasons) == 0 {
			t.Errorf("recommendation %d has no reasons", r.Recommendation.ID)
		}
	}
}
