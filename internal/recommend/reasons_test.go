// Fairmatch - Attendee Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fairmatch

package recommend

import (
	"reflect"
	"testing"
)

func TestSharedTerms(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		a, b  Terms
		limit int
		want  []string
	}{
		{name: "no overlap", a: Terms{"go": 1}, b: Terms{"java": 1}, limit: 3, want: []string{}},
		{
			name:  "ranked by weight product",
			a:     Terms{"go": 0.5, "sql": 0.3, "rust": 0.2},
			b:     Terms{"go": 0.1, "sql": 0.6, "rust": 0.3},
			limit: 3,
			want:  []string{"sql", "rust", "go"},
		},
		{
			name:  "ties broken by term",
			a:     Terms{"b": 0.5, "a": 0.5},
			b:     Terms{"b": 0.5, "a": 0.5},
			limit: 3,
			want:  []string{"a", "b"},
		},
		{
			name:  "truncated to limit",
			a:     Terms{"a": 0.25, "b": 0.25, "c": 0.25, "d": 0.25},
			b:     Terms{"a": 0.25, "b": 0.25, "c": 0.25, "d": 0.25},
			limit: 2,
			want:  []string{"a", "b"},
		},
		{name: "zero weight excluded", a: Terms{"go": 0}, b: Terms{"go": 1}, limit: 3, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := SharedTerms(tt.a, tt.b, tt.limit); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SharedTerms() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBuildReasons_SkillsOnlyScenario(t *testing.T) {
	t.Parallel()

	a := skillsOnly(1, Terms{"python": 0.5, "sql": 0.5})
	b := skillsOnly(2, Terms{"python": 0.5, "java": 0.5})

	reasons := BuildReasons(a, b, DefaultConfig().ReasonScores)
	if len(reasons) != 1 {
		t.Fatalf("len(reasons) = %d, want 1: %+v", len(reasons), reasons)
	}
	r := reasons[0]
	if r.Code != ReasonCommonSkills {
		t.Errorf("Code = %q, want %q", r.Code, ReasonCommonSkills)
	}
	if r.Description != "Common skills: python" {
		t.Errorf("Description = %q, want %q", r.Description, "Common skills: python")
	}
	if !approxEqual(r.Score, 0.3) {
		t.Errorf("Score = %v, want 0.3", r.Score)
	}
}

func TestBuildReasons_OnePerFacet(t *testing.T) {
	t.Parallel()

	a := NewFeatureVector(1)
	a.Skills = Terms{"go": 0.25, "sql": 0.25, "k8s": 0.25, "rust": 0.25}
	a.Sectors = Terms{"finance": 0.5, "tech": 0.5}
	a.Expertise = Terms{"go": 0.5, "sre": 0.5}
	a.Education = Terms{"cs": 1}

	b := NewFeatureVector(2)
	b.Skills = Terms{"go": 0.25, "sql": 0.25, "k8s": 0.25, "rust": 0.25}
	b.Sectors = Terms{"tech": 1}
	b.Expertise = Terms{"java": 1}
	b.Education = Terms{"cs": 1}

	reasons := BuildReasons(a, b, DefaultConfig().ReasonScores)

	seen := make(map[ReasonCode]int)
	for _, r := range reasons {
		seen[r.Code]++
	}
	for code, n := range seen {
		if n != 1 {
			t.Errorf("reason %s appears %d times", code, n)
		}
	}

	want := map[ReasonCode]string{
		ReasonCommonSkills:    "Common skills: go, k8s, rust",
		ReasonCommonSectors:   "Common sectors: tech",
		ReasonCommonEducation: "Common education: cs",
	}
	if len(reasons) != len(want) {
		t.Fatalf("len(reasons) = %d, want %d: %+v", len(reasons), len(want), reasons)
	}
	for _, r := range reasons {
		if r.Description != want[r.Code] {
			t.Errorf("%s description = %q, want %q", r.Code, r.Description, want[r.Code])
		}
	}
}
