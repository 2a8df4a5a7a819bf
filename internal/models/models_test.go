package models

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestSeniorityOrdinal(t *testing.T) {
	tests := []struct {
		level Seniority
		want  int
	}{
		{SeniorityIntern, 0},
		{SeniorityJunior, 1},
		{SeniorityMid, 2},
		{SenioritySenior, 3},
		{SeniorityPrincipal, 4},
		{SeniorityDirector, 5},
		{Seniority(""), 2},
	}

	for _, tt := range tests {
		t.Run(string(tt.level), func(t *testing.T) {
			if got := tt.level.Ordinal(); got != tt.want {
				t.Errorf("Ordinal() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestWorkExperienceMonths(t *testing.T) {
	months := 18
	known := WorkExperience{DurationMonths: &months}
	unknown := WorkExperience{}

	if got := known.Months(); got != 18 {
		t.Errorf("Months() = %d, want 18", got)
	}
	if got := unknown.Months(); got != 0 {
		t.Errorf("Months() for unknown duration = %d, want 0", got)
	}
}

// TestUnknownDurationSerializesAsNull tests that an unknown duration is not confused with zero
func TestUnknownDurationSerializesAsNull(t *testing.T) {
	data, err := json.Marshal(WorkExperience{JobTitle: "Engineer"})
	if err != nil {
		t.Fatalf("Failed to marshal WorkExperience: %v", err)
	}

	if !strings.Contains(string(data), `"duration_months":null`) {
		t.Errorf("Expected null duration in %s", data)
	}
}

func TestSkillRecordKey(t *testing.T) {
	s := SkillRecord{Name: "  Node.js "}
	if got := s.Key(); got != "node.js" {
		t.Errorf("Key() = %q, want %q", got, "node.js")
	}
}

func TestReportTopScore(t *testing.T) {
	empty := Report{}
	if got := empty.TopScore(); got != 0 {
		t.Errorf("TopScore() on empty report = %v, want 0", got)
	}

	r := Report{Recommendations: []Recommendation{{MatchScore: 0.72}, {MatchScore: 0.4}}}
	if got := r.TopScore(); got != 0.72 {
		t.Errorf("TopScore() = %v, want 0.72", got)
	}
}
