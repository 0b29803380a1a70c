// Fairmatch - Attendee Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fairmatch

package recommend

import (
	"sort"
	"strings"
)

// reasonRule describes how one facet turns into a reason.
type reasonRule struct {
	facet Facet
	code  ReasonCode
	label string
	topN  int
}

// reasonRules is ordered by facet. Reason scores come from Config.
var reasonRules = []reasonRule{
	{facet: FacetSkills, code: ReasonCommonSkills, label: "Common skills", topN: 3},
	{facet: FacetSectors, code: ReasonCommonSectors, label: "Common sectors", topN: 2},
	{facet: FacetExpertise, code: ReasonCommonExpertise, label: "Common expertise", topN: 2},
	{facet: FacetInterests, code: ReasonCommonInterests, label: "Common interests", topN: 3},
	{facet: FacetEducation, code: ReasonCommonEducation, label: "Common education", topN: 2},
}

// BuildReasons explains why target is recommended to source. Each facet with
// at least one shared term yields exactly one reason naming its top terms.
func BuildReasons(source, target *FeatureVector, scores FacetWeights) []Reason {
	reasons := make([]Reason, 0, len(reasonRules))
	for _, rule := range reasonRules {
		terms := SharedTerms(source.Facet(rule.facet), target.Facet(rule.facet), rule.topN)
		if len(terms) == 0 {
			continue
		}
		reasons = append(reasons, Reason{
			Code:        rule.code,
			Description: rule.label + ": " + strings.Join(terms, ", "),
			Score:       scores.Get(rule.facet),
			Terms:       terms,
		})
	}
	return reasons
}

// SharedTerms returns up to limit terms present in both maps with a positive
// weight product, ranked by that product descending then by term.
func SharedTerms(a, b Terms, limit int) []string {
	type shared struct {
		term   string
		weight float64
	}

	common := make([]shared, 0)
	for term, wa := range a {
		if wb, ok := b[term]; ok && wa*wb > 0 {
			common = append(common, shared{term: term, weight: wa * wb})
		}
	}

	sort.Slice(common, func(i, j int) bool {
		if common[i].weight != common[j].weight {
			return common[i].weight > common[j].weight
		}
		return common[i].term < common[j].term
	})

	if limit > 0 && len(common) > limit {
		common = common[:limit]
	}
	terms := make([]string, len(common))
	for i, s := range common {
		terms[i] = s.term
	}
	return terms
}
