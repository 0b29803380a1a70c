// Fairmatch - Attendee Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fairmatch

package recommend

import (
	"strings"
	"time"
)

// ExtractFeatures projects a profile into a feature vector. Terms are
// lowercased and blank values are skipped. Missing collections produce
// empty facets.
func ExtractFeatures(p *Profile, now time.Time) *FeatureVector {
	v := NewFeatureVector(p.UserID)
	v.UpdatedAt = now

	skills := normalizeTerms(p.Skills)

	sectors := make([]string, 0, len(p.WorkExperiences))
	positions := make([]string, 0, len(p.WorkExperiences))
	for _, we := range p.WorkExperiences {
		sectors = append(sectors, we.Sector)
		positions = append(positions, we.Position)
	}

	fields := make([]string, 0, len(p.Educations))
	degrees := make([]string, 0, len(p.Educations))
	for _, ed := range p.Educations {
		fields = append(fields, ed.FieldOfStudy)
		degrees = append(degrees, ed.Degree)
	}

	topics := make([]string, 0, len(p.Publications))
	for _, pub := range p.Publications {
		topics = append(topics, pub.Topic)
	}

	fields = normalizeTerms(fields)

	v.Skills = uniform(skills)
	v.Sectors = frequency(normalizeTerms(sectors))
	v.Expertise = uniform(skills, normalizeTerms(positions), normalizeTerms(topics))
	v.Interests = uniform(skills, fields)
	v.Education = frequency(fields, normalizeTerms(degrees))

	return v
}

// normalizeTerms lowercases and trims values, dropping blanks. Duplicates
// are kept so frequency distributions can count them.
func normalizeTerms(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if term := strings.ToLower(strings.TrimSpace(v)); term != "" {
			out = append(out, term)
		}
	}
	return out
}

// uniform assigns 1/n to each of the n distinct terms across all groups.
func uniform(groups ...[]string) Terms {
	distinct := make(map[string]struct{})
	for _, g := range groups {
		for _, term := range g {
			distinct[term] = struct{}{}
		}
	}

	terms := make(Terms, len(distinct))
	if len(distinct) == 0 {
		return terms
	}
	weight := 1.0 / float64(len(distinct))
	for term := range distinct {
		terms[term] = weight
	}
	return terms
}

// frequency assigns count/total to each term of the combined multiset.
func frequency(groups ...[]string) Terms {
	counts := make(map[string]int)
	total := 0
	for _, g := range groups {
		for _, term := range g {
			counts[term]++
			total++
		}
	}

	terms := make(Terms, len(counts))
	for term, n := range counts {
		terms[term] = float64(n) / float64(total)
	}
	return terms
}
