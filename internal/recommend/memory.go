// Fairmatch - Attendee Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fairmatch

package recommend

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// MemoryStore is an in-process ProfileProvider and Store. It is used in
// tests and when the engine runs without DuckDB.
type MemoryStore struct {
	mu sync.RWMutex

	users         map[int64]User
	profiles      map[int64]Profile
	profileErrors map[int64]error

	vectors      map[int64]*FeatureVector
	similarities map[int64][]SimilarityRecord // by source user

	recommendations map[int64]*Recommendation
	reasons         map[int64][]Reason // by recommendation
	nextRecID       int64
	nextReasonID    int64
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:           make(map[int64]User),
		profiles:        make(map[int64]Profile),
		profileErrors:   make(map[int64]error),
		vectors:         make(map[int64]*FeatureVector),
		similarities:    make(map[int64][]SimilarityRecord),
		recommendations: make(map[int64]*Recommendation),
		reasons:         make(map[int64][]Reason),
	}
}

// PutUser adds or replaces a user and their profile.
//
//nolint:gocritic // value parameters keep fixtures short
func (m *MemoryStore) PutUser(u User, p Profile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.UserID = u.ID
	m.users[u.ID] = u
	m.profiles[u.ID] = p
}

// FailProfile makes Profile return err for userID. A nil err clears it.
func (m *MemoryStore) FailProfile(userID int64, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.profileErrors, userID)
		return
	}
	m.profileErrors[userID] = err
}

// User implements ProfileProvider.
func (m *MemoryStore) User(_ context.Context, userID int64) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[userID]
	if !ok {
		return nil, fmt.Errorf("user %d: %w", userID, ErrUserNotFound)
	}
	return &u, nil
}

// Profile implements ProfileProvider.
func (m *MemoryStore) Profile(_ context.Context, userID int64) (*Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.profileErrors[userID]; err != nil {
		return nil, err
	}
	p, ok := m.profiles[userID]
	if !ok {
		return nil, fmt.Errorf("user %d: %w", userID, ErrUserNotFound)
	}
	return &p, nil
}

// ListUsers implements ProfileProvider.
func (m *MemoryStore) ListUsers(_ context.Context) ([]User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	users := make([]User, 0, len(m.users))
	for _, u := range m.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

// SaveFeatureVector implements Store.
func (m *MemoryStore) SaveFeatureVector(_ context.Context, v *FeatureVector) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *v
	m.vectors[v.UserID] = &cp
	return nil
}

// FeatureVector implements Store.
func (m *MemoryStore) FeatureVector(_ context.Context, userID int64) (*FeatureVector, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.vectors[userID]
	if !ok {
		return nil, fmt.Errorf("user %d: %w", userID, ErrFeatureVectorNotFound)
	}
	cp := *v
	return &cp, nil
}

// ReplaceSimilaritiesForSource implements Store.
func (m *MemoryStore) ReplaceSimilaritiesForSource(_ context.Context, sourceUserID int64, records []SimilarityRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.similarities[sourceUserID] = append([]SimilarityRecord(nil), records...)
	return nil
}

// ReplaceAllSimilarities implements Store.
func (m *MemoryStore) ReplaceAllSimilarities(_ context.Context, records []SimilarityRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.similarities = make(map[int64][]SimilarityRecord)
	for _, r := range records {
		m.similarities[r.SourceUserID] = append(m.similarities[r.SourceUserID], r)
	}
	return nil
}

// DeleteSimilarity removes one directed record.
func (m *MemoryStore) DeleteSimilarity(sourceUserID, targetUserID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.similarities[sourceUserID][:0]
	for _, r := range m.similarities[sourceUserID] {
		if r.TargetUserID != targetUserID {
			kept = append(kept, r)
		}
	}
	m.similarities[sourceUserID] = kept
}

// MostSimilar implements Store.
func (m *MemoryStore) MostSimilar(_ context.Context, sourceUserID int64, limit int) ([]SimilarityRecord, error) {
	m.mu.RLock()
	records := append([]SimilarityRecord(nil), m.similarities[sourceUserID]...)
	m.mu.RUnlock()

	sort.Slice(records, func(i, j int) bool {
		if records[i].Score != records[j].Score {
			return records[i].Score > records[j].Score
		}
		return records[i].TargetUserID < records[j].TargetUserID
	})
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

// ReplaceRecommendations implements Store.
func (m *MemoryStore) ReplaceRecommendations(_ context.Context, userID int64, recs []RecommendationWithReasons) ([]RecommendationWithReasons, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, r := range m.recommendations {
		if r.UserID == userID {
			delete(m.recommendations, id)
			delete(m.reasons, id)
		}
	}

	saved := make([]RecommendationWithReasons, 0, len(recs))
	for _, rw := range recs {
		m.nextRecID++
		rec := rw.Recommendation
		rec.ID = m.nextRecID
		rec.UserID = userID
		rec.RecommendedUserName = m.users[rec.RecommendedUserID].DisplayName()
		m.recommendations[rec.ID] = &rec

		reasons := make([]Reason, 0, len(rw.Reasons))
		for _, reason := range rw.Reasons {
			m.nextReasonID++
			reason.ID = m.nextReasonID
			reason.RecommendationID = rec.ID
			reasons = append(reasons, reason)
		}
		m.reasons[rec.ID] = reasons
		saved = append(saved, RecommendationWithReasons{Recommendation: rec, Reasons: reasons})
	}
	return saved, nil
}

// Recommendations implements Store.
func (m *MemoryStore) Recommendations(_ context.Context, userID int64, limit int) ([]Recommendation, error) {
	m.mu.RLock()
	recs := make([]Recommendation, 0)
	for _, r := range m.recommendations {
		if r.UserID == userID {
			recs = append(recs, *r)
		}
	}
	m.mu.RUnlock()

	sort.Slice(recs, func(i, j int) bool {
		if recs[i].Score != recs[j].Score {
			return recs[i].Score > recs[j].Score
		}
		return recs[i].ID < recs[j].ID
	})
	if limit > 0 && len(recs) > limit {
		recs = recs[:limit]
	}
	return recs, nil
}

// Recommendation implements Store.
func (m *MemoryStore) Recommendation(_ context.Context, id int64) (*Recommendation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.recommendations[id]
	if !ok {
		return nil, fmt.Errorf("recommendation %d: %w", id, ErrRecommendationNotFound)
	}
	cp := *r
	return &cp, nil
}

// UpdateRecommendationStatus implements Store.
func (m *MemoryStore) UpdateRecommendationStatus(_ context.Context, id int64, status Status, at time.Time) (*Recommendation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.recommendations[id]
	if !ok {
		return nil, fmt.Errorf("recommendation %d: %w", id, ErrRecommendationNotFound)
	}
	r.Status = status
	r.UpdatedAt = at
	cp := *r
	return &cp, nil
}

// Reasons implements Store.
func (m *MemoryStore) Reasons(_ context.Context, recommendationID int64) ([]Reason, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]Reason{}, m.reasons[recommendationID]...), nil
}
