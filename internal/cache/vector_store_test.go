// Fairmatch - Attendee Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fairmatch

package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"

	"github.com/tomtom215/fairmatch/internal/recommend"
)

// countingStore counts FeatureVector reads that reach the backing store.
type countingStore struct {
	*recommend.MemoryStore
	reads int
}

func (s *countingStore) FeatureVector(ctx context.Context, userID int64) (*recommend.FeatureVector, error) {
	s.reads++
	return s.MemoryStore.FeatureVector(ctx, userID)
}

func newTestCache(t *testing.T, ttl time.Duration) (*VectorStore, *countingStore) {
	t.Helper()
	backing := &countingStore{MemoryStore: recommend.NewMemoryStore()}
	vc, err := NewVectorStore(backing, Options{TTL: ttl}, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewVectorStore() error = %v", err)
	}
	t.Cleanup(func() {
		if err := vc.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	})
	return vc, backing
}

func vector(userID int64, skill string) *recommend.FeatureVector {
	v := recommend.NewFeatureVector(userID)
	v.Skills[skill] = 1
	v.UpdatedAt = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	return v
}

func TestNewVectorStoreRequiresStore(t *testing.T) {
	if _, err := NewVectorStore(nil, Options{}, zerolog.Nop()); err == nil {
		t.Error("NewVectorStore(nil) error = nil, want error")
	}
}

func TestVectorStoreWriteThrough(t *testing.T) {
	vc, backing := newTestCache(t, time.Hour)
	ctx := context.Background()

	if err := vc.SaveFeatureVector(ctx, vector(1, "go")); err != nil {
		t.Fatalf("SaveFeatureVector() error = %v", err)
	}

	got, err := vc.FeatureVector(ctx, 1)
	if err != nil {
		t.Fatalf("FeatureVector() error = %v", err)
	}
	if got.Skills["go"] != 1 {
		t.Errorf("FeatureVector().Skills = %v, want go:1", got.Skills)
	}
	if got.Sectors == nil {
		t.Error("FeatureVector().Sectors = nil, want empty map")
	}
	if backing.reads != 0 {
		t.Errorf("backing reads = %d, want 0 after write-through", backing.reads)
	}

	// The wrapped store holds the vector too
	stored, err := backing.MemoryStore.FeatureVector(ctx, 1)
	if err != nil || stored.Skills["go"] != 1 {
		t.Errorf("backing FeatureVector() = %v, %v", stored, err)
	}
}

func TestVectorStoreReadThrough(t *testing.T) {
	vc, backing := newTestCache(t, time.Hour)
	ctx := context.Background()

	if err := backing.SaveFeatureVector(ctx, vector(2, "sql")); err != nil {
		t.Fatalf("backing SaveFeatureVector() error = %v", err)
	}

	for i := 0; i < 3; i++ {
		got, err := vc.FeatureVector(ctx, 2)
		if err != nil {
			t.Fatalf("FeatureVector() call %d error = %v", i, err)
		}
		if got.Skills["sql"] != 1 {
			t.Errorf("FeatureVector().Skills = %v, want sql:1", got.Skills)
		}
	}
	if backing.reads != 1 {
		t.Errorf("backing reads = %d, want 1", backing.reads)
	}

	vc.Invalidate(2)
	if _, err := vc.FeatureVector(ctx, 2); err != nil {
		t.Fatalf("FeatureVector() after invalidate error = %v", err)
	}
	if backing.reads != 2 {
		t.Errorf("backing reads after invalidate = %d, want 2", backing.reads)
	}
}

func TestVectorStoreMissPassesError(t *testing.T) {
	vc, _ := newTestCache(t, time.Hour)

	_, err := vc.FeatureVector(context.Background(), 42)
	if !errors.Is(err, recommend.ErrFeatureVectorNotFound) {
		t.Errorf("FeatureVector(42) error = %v, want ErrFeatureVectorNotFound", err)
	}
}

func TestVectorStorePurge(t *testing.T) {
	vc, backing := newTestCache(t, time.Hour)
	ctx := context.Background()

	for _, id := range []int64{1, 2} {
		if err := vc.SaveFeatureVector(ctx, vector(id, "go")); err != nil {
			t.Fatalf("SaveFeatureVector(%d) error = %v", id, err)
		}
	}
	if err := vc.Purge(); err != nil {
		t.Fatalf("Purge() error = %v", err)
	}
	for _, id := range []int64{1, 2} {
		if _, err := vc.FeatureVector(ctx, id); err != nil {
			t.Fatalf("FeatureVector(%d) error = %v", id, err)
		}
	}
	if backing.reads != 2 {
		t.Errorf("backing reads after purge = %d, want 2", backing.reads)
	}
}

// The engine runs unchanged on top of the cache.
func TestVectorStoreWithEngine(t *testing.T) {
	vc, backing := newTestCache(t, time.Hour)
	ctx := context.Background()

	backing.PutUser(recommend.User{ID: 1, FirstName: "Ann"}, recommend.Profile{Skills: []string{"Go", "SQL"}})
	backing.PutUser(recommend.User{ID: 2, FirstName: "Bob"}, recommend.Profile{Skills: []string{"Go"}})

	engine, err := recommend.NewEngine(backing, vc, recommend.DefaultConfig(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	if _, err := engine.ExtractFeaturesForAll(ctx); err != nil {
		t.Fatalf("ExtractFeaturesForAll() error = %v", err)
	}
	if _, err := engine.ComputeSimilaritiesForUser(ctx, 1); err != nil {
		t.Fatalf("ComputeSimilaritiesForUser() error = %v", err)
	}
	if backing.reads != 0 {
		t.Errorf("backing reads = %d, want 0 once vectors are cached", backing.reads)
	}

	sims, err := engine.FindMostSimilar(ctx, 1, 5)
	if err != nil {
		t.Fatalf("FindMostSimilar() error = %v", err)
	}
	if len(sims) != 1 || sims[0].TargetUserID != 2 {
		t.Errorf("FindMostSimilar() = %+v, want target 2", sims)
	}
}

func TestVectorStoreNullFacets(t *testing.T) {
	vc, backing := newTestCache(t, time.Hour)

	raw := []byte(`{"user_id":4,"skills":{"go":1},"sectors":null,"expertise":null,"interests":null,"education":null}`)
	if err := vc.db.Update(func(txn *badger.Txn) error {
		return txn.Set(vectorKey(4), raw)
	}); err != nil {
		t.Fatalf("seed cache entry: %v", err)
	}

	got, err := vc.FeatureVector(context.Background(), 4)
	if err != nil {
		t.Fatalf("FeatureVector() error = %v", err)
	}
	for _, f := range recommend.Facets {
		if got.Facet(f) == nil {
			t.Errorf("FeatureVector().%s = nil, want empty map", f)
		}
	}
	if got.Skills["go"] != 1 {
		t.Errorf("FeatureVector().Skills = %v, want go:1", got.Skills)
	}
	if backing.reads != 0 {
		t.Errorf("backing reads = %d, want 0 for a cached entry", backing.reads)
	}
}
