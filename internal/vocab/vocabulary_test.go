package vocab

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Kele901/career-projector/internal/models"
)

func TestIndexTerm(t *testing.T) {
	tests := []struct {
		name string
		text string
		term string
		want int
	}{
		{"plain word", "built react apps", "react", 6},
		{"inside larger word", "reactive systems", "react", -1},
		{"symbol suffix", "c#, java", "c#", 0},
		{"leading dot", "moved to .net core", ".net", 9},
		{"leading dot glued to word", "asp.net mvc", ".net", -1},
		{"dotted name", "node.js and go", "node.js", 0},
		{"second occurrence is whole", "javascript and java", "java", 15},
		{"multi word", "used machine learning daily", "machine learning", 5},
		{"empty term", "anything", "", -1},
		{"term longer than text", "go", "golang", -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IndexTerm(tt.text, tt.term))
		})
	}
}

func TestRuleTableFirstMatchWins(t *testing.T) {
	table := RuleTable{
		{Label: "first", Terms: []string{"lead"}},
		{Label: "second", Terms: []string{"senior"}},
	}

	label, ok := table.Match("Senior Team Lead")
	assert.True(t, ok)
	assert.Equal(t, "first", label)

	_, ok = table.Match("Engineer")
	assert.False(t, ok)
}

func TestDefaultSkillsHaveOneCategory(t *testing.T) {
	v := Default()

	seen := make(map[string]bool)
	for _, s := range v.Skills {
		assert.False(t, seen[s.Name], "skill %q listed twice", s.Name)
		seen[s.Name] = true
	}

	category, ok := v.SkillCategory("python")
	assert.True(t, ok)
	assert.Equal(t, models.CategoryData, category)

	category, ok = v.SkillCategory("node.js")
	assert.True(t, ok)
	assert.Equal(t, models.CategoryBackend, category)
}

func TestDefaultRoleSets(t *testing.T) {
	v := Default()

	assert.True(t, v.IsTechRole("backend developer"))
	assert.False(t, v.IsTechRole("product manager"))
	assert.True(t, v.IsRelevanceBoostRole("mobile developer"))
	assert.False(t, v.IsRelevanceBoostRole("android developer"))
	assert.Equal(t, []string{"experience", "education", "skills", "certifications"}, v.SectionHeaders.Labels())
}
