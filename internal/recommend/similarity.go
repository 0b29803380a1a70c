// Fairmatch - Attendee Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fairmatch

package recommend

import (
	"math"
	"time"
)

// CosineSimilarity returns the cosine of the angle between a and b. The dot
// product runs over shared terms while each norm covers the full map. Empty
// maps and zero norms score 0. Weights are non-negative so the result lies
// in [0, 1].
func CosineSimilarity(a, b Terms) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	small, large := a, b
	if len(small) > len(large) {
		small, large = large, small
	}

	var dot float64
	for term, w := range small {
		if other, ok := large[term]; ok {
			dot += w * other
		}
	}

	normA, normB := norm(a), norm(b)
	if normA == 0 || normB == 0 {
		return 0
	}
	return clamp01(dot / (normA * normB))
}

func norm(t Terms) float64 {
	var sum float64
	for _, w := range t {
		sum += w * w
	}
	return math.Sqrt(sum)
}

func clamp01(x float64) float64 {
	switch {
	case x < 0:
		return 0
	case x > 1:
		return 1
	default:
		return x
	}
}

// FacetSimilarities returns the cosine similarity of each facet.
func FacetSimilarities(a, b *FeatureVector) FacetScores {
	var scores FacetScores
	for _, f := range Facets {
		scores.Set(f, CosineSimilarity(a.Facet(f), b.Facet(f)))
	}
	return scores
}

// WeightedScore combines facet similarities with weights.
func WeightedScore(scores FacetScores, weights FacetWeights) float64 {
	var total float64
	for _, f := range Facets {
		total += weights.Get(f) * scores.Get(f)
	}
	return clamp01(total)
}

// Similarity scores source against target. The returned record is directed
// from source to target; the score is symmetric.
func Similarity(source, target *FeatureVector, weights FacetWeights, now time.Time) SimilarityRecord {
	scores := FacetSimilarities(source, target)
	return SimilarityRecord{
		SourceUserID:  source.UserID,
		TargetUserID:  target.UserID,
		Score:         WeightedScore(scores, weights),
		Facets:        scores,
		PrimaryReason: primaryReason(scores, weights),
		UpdatedAt:     now,
	}
}

// Reverse returns the same similarity seen from the target.
//
//nolint:gocritic // value receiver is intentional for immutable semantics
func (r SimilarityRecord) Reverse() SimilarityRecord {
	r.SourceUserID, r.TargetUserID = r.TargetUserID, r.SourceUserID
	return r
}

// primaryReason returns the reason code of the facet with the largest
// weighted contribution, or "" when nothing is shared. Ties keep the
// earlier facet.
func primaryReason(scores FacetScores, weights FacetWeights) ReasonCode {
	var (
		best     float64
		bestCode ReasonCode
	)
	for _, rule := range reasonRules {
		if c := weights.Get(rule.facet) * scores.Get(rule.facet); c > best {
			best, bestCode = c, rule.code
		}
	}
	return bestCode
}
