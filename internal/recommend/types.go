// Fairmatch - Attendee Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fairmatch

package recommend

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Facet identifies one of the five term distributions of a feature vector.
type Facet int

const (
	// FacetSkills is the uniform distribution over a user's skills.
	FacetSkills Facet = iota
	// FacetSectors is the frequency distribution over work experience sectors.
	FacetSectors
	// FacetExpertise is the uniform distribution over skills, positions and
	// publication topics.
	FacetExpertise
	// FacetInterests is the uniform distribution over skills and fields of study.
	FacetInterests
	// FacetEducation is the frequency distribution over fields of study and degrees.
	FacetEducation
)

// Facets lists every facet in canonical order.
var Facets = []Facet{FacetSkills, FacetSectors, FacetExpertise, FacetInterests, FacetEducation}

// String returns the facet name used in JSON and configuration.
func (f Facet) String() string {
	switch f {
	case FacetSkills:
		return "skills"
	case FacetSectors:
		return "sectors"
	case FacetExpertise:
		return "expertise"
	case FacetInterests:
		return "interests"
	case FacetEducation:
		return "education"
	default:
		return "unknown"
	}
}

// Terms maps a lowercase term to its weight within one facet.
type Terms map[string]float64

// FeatureVector is the five-facet projection of one user's profile.
// Facets are never nil; an absent facet is an empty map.
type FeatureVector struct {
	UserID    int64     `json:"user_id"`
	Skills    Terms     `json:"skills"`
	Sectors   Terms     `json:"sectors"`
	Expertise Terms     `json:"expertise"`
	Interests Terms     `json:"interests"`
	Education Terms     `json:"education"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewFeatureVector returns a vector with all facets empty.
func NewFeatureVector(userID int64) *FeatureVector {
	return &FeatureVector{
		UserID:    userID,
		Skills:    Terms{},
		Sectors:   Terms{},
		Expertise: Terms{},
		Interests: Terms{},
		Education: Terms{},
	}
}

// Facet returns the term map for f.
func (v *FeatureVector) Facet(f Facet) Terms {
	switch f {
	case FacetSkills:
		return v.Skills
	case FacetSectors:
		return v.Sectors
	case FacetExpertise:
		return v.Expertise
	case FacetInterests:
		return v.Interests
	case FacetEducation:
		return v.Education
	default:
		return nil
	}
}

// Normalize replaces nil facets with empty maps. Decoded vectors may carry
// JSON nulls.
func (v *FeatureVector) Normalize() {
	if v.Skills == nil {
		v.Skills = Terms{}
	}
	if v.Sectors == nil {
		v.Sectors = Terms{}
	}
	if v.Expertise == nil {
		v.Expertise = Terms{}
	}
	if v.Interests == nil {
		v.Interests = Terms{}
	}
	if v.Education == nil {
		v.Education = Terms{}
	}
}

// User is the identity part of a profile.
type User struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Email     string `json:"email,omitempty"`
}

// DisplayName returns "First Last", falling back to the username.
func (u User) DisplayName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Username
	}
	return name
}

// WorkExperience is one entry of a user's work history.
type WorkExperience struct {
	Sector   string `json:"sector"`
	Position string `json:"position"`
}

// Education is one degree held by a user.
type Education struct {
	FieldOfStudy string `json:"field_of_study"`
	Degree       string `json:"degree"`
}

// Publication is one published work of a user.
type Publication struct {
	Topic string `json:"topic"`
}

// Profile is a fully materialized snapshot of the data feature extraction
// reads. Providers load every collection up front.
type Profile struct {
	UserID          int64            `json:"user_id"`
	Skills          []string         `json:"skills"`
	WorkExperiences []WorkExperience `json:"work_experiences"`
	Educations      []Education      `json:"educations"`
	Publications    []Publication    `json:"publications"`
}

// FacetScores holds one value per facet.
type FacetScores struct {
	Skills    float64 `json:"skills"`
	Sectors   float64 `json:"sectors"`
	Expertise float64 `json:"expertise"`
	Interests float64 `json:"interests"`
	Education float64 `json:"education"`
}

// Get returns the value for f.
//
//nolint:gocritic // value receiver is intentional for immutable semantics
func (s FacetScores) Get(f Facet) float64 {
	switch f {
	case FacetSkills:
		return s.Skills
	case FacetSectors:
		return s.Sectors
	case FacetExpertise:
		return s.Expertise
	case FacetInterests:
		return s.Interests
	case FacetEducation:
		return s.Education
	default:
		return 0
	}
}

// Set assigns the value for f.
func (s *FacetScores) Set(f Facet, value float64) {
	switch f {
	case FacetSkills:
		s.Skills = value
	case FacetSectors:
		s.Sectors = value
	case FacetExpertise:
		s.Expertise = value
	case FacetInterests:
		s.Interests = value
	case FacetEducation:
		s.Education = value
	}
}

// Sum returns the total across all facets.
//
//nolint:gocritic // value receiver is intentional for immutable semantics
func (s FacetScores) Sum() float64 {
	return s.Skills + s.Sectors + s.Expertise + s.Interests + s.Education
}

// SimilarityRecord is a directed similarity from SourceUserID to TargetUserID.
// Both directions of a pair are stored with the same score.
type SimilarityRecord struct {
	SourceUserID  int64       `json:"source_user_id"`
	TargetUserID  int64       `json:"target_user_id"`
	Score         float64     `json:"score"`
	Facets        FacetScores `json:"facets"`
	PrimaryReason ReasonCode  `json:"primary_reason,omitempty"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// Status is the lifecycle state of a recommendation.
type Status string

const (
	StatusNew      Status = "NEW"
	StatusViewed   Status = "VIEWED"
	StatusAccepted Status = "ACCEPTED"
	StatusRejected Status = "REJECTED"
)

// Valid reports whether s is one of the four known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusViewed, StatusAccepted, StatusRejected:
		return true
	default:
		return false
	}
}

// ParseStatus converts a case-insensitive status name. Unknown names wrap
// ErrInvalidStatus.
func ParseStatus(s string) (Status, error) {
	status := Status(strings.ToUpper(strings.TrimSpace(s)))
	if !status.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
	return status, nil
}

// Recommendation suggests RecommendedUserID to UserID.
type Recommendation struct {
	ID                  int64     `json:"id"`
	UserID              int64     `json:"user_id"`
	RecommendedUserID   int64     `json:"recommended_user_id"`
	RecommendedUserName string    `json:"recommended_user_name,omitempty"`
	Score               float64   `json:"score"`
	Status              Status    `json:"status"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// ReasonCode categorizes a recommendation reason by facet.
type ReasonCode string

const (
	ReasonCommonSkills    ReasonCode = "COMMON_SKILLS"
	ReasonCommonSectors   ReasonCode = "COMMON_SECTORS"
	ReasonCommonExpertise ReasonCode = "COMMON_EXPERTISE"
	ReasonCommonInterests ReasonCode = "COMMON_INTERESTS"
	ReasonCommonEducation ReasonCode = "COMMON_EDUCATION"
)

// Reason explains one facet of a recommendation.
type Reason struct {
	ID               int64      `json:"id"`
	RecommendationID int64      `json:"recommendation_id"`
	Code             ReasonCode `json:"code"`
	Description      string     `json:"description"`
	Score            float64    `json:"score"`
	Terms            []string   `json:"terms"`
}

// RecommendationWithReasons pairs a recommendation with its reasons.
type RecommendationWithReasons struct {
	Recommendation Recommendation `json:"recommendation"`
	Reasons        []Reason       `json:"reasons"`
}

// ProfileProvider supplies profile data. It is typically implemented by the
// database layer.
type ProfileProvider interface {
	// User returns the user or an error wrapping ErrUserNotFound.
	User(ctx context.Context, userID int64) (*User, error)

	// Profile returns the materialized profile or an error wrapping ErrUserNotFound.
	Profile(ctx context.Context, userID int64) (*Profile, error)

	// ListUsers returns every known user ordered by id.
	ListUsers(ctx context.Context) ([]User, error)
}

// Store persists feature vectors, similarities, recommendations and reasons.
// Replace methods must be atomic: readers see either the previous set or the
// new one.
type Store interface {
	SaveFeatureVector(ctx context.Context, v *FeatureVector) error

	// FeatureVector returns an error wrapping ErrFeatureVectorNotFound when
	// the user has no stored vector.
	FeatureVector(ctx context.Context, userID int64) (*FeatureVector, error)

	ReplaceSimilaritiesForSource(ctx context.Context, sourceUserID int64, records []SimilarityRecord) error
	ReplaceAllSimilarities(ctx context.Context, records []SimilarityRecord) error

	// MostSimilar returns outgoing records by score descending, ties broken
	// by target user id ascending.
	MostSimilar(ctx context.Context, sourceUserID int64, limit int) ([]SimilarityRecord, error)

	// ReplaceRecommendations deletes the user's recommendations and their
	// reasons, then inserts recs. It returns recs with ids assigned.
	ReplaceRecommendations(ctx context.Context, userID int64, recs []RecommendationWithReasons) ([]RecommendationWithReasons, error)

	// Recommendations returns by score descending, ties broken by id ascending.
	Recommendations(ctx context.Context, userID int64, limit int) ([]Recommendation, error)

	// Recommendation returns an error wrapping ErrRecommendationNotFound for
	// an unknown id.
	Recommendation(ctx context.Context, id int64) (*Recommendation, error)

	// UpdateRecommendationStatus returns an error wrapping
	// ErrRecommendationNotFound for an unknown id.
	UpdateRecommendationStatus(ctx context.Context, id int64, status Status, at time.Time) (*Recommendation, error)

	// Reasons returns the reasons of a recommendation, empty for an unknown id.
	Reasons(ctx context.Context, recommendationID int64) ([]Reason, error)
}
