package skills

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kele901/career-projector/internal/models"
	"github.com/Kele901/career-projector/internal/vocab"
)

func findSkill(records []models.SkillRecord, name string) (models.SkillRecord, bool) {
	for _, r := range records {
		if r.Key() == name {
			return r, true
		}
	}
	return models.SkillRecord{}, false
}

func TestExtractScenario(t *testing.T) {
	e := NewExtractor(vocab.Default())

	records := e.Extract("Senior React Developer at Acme Corp, Jan 2020 – Present. Built React and Node.js applications.")

	require.Len(t, records, 2)

	react, ok := findSkill(records, "react")
	require.True(t, ok)
	assert.Equal(t, models.CategoryFrontend, react.Category)
	assert.Equal(t, models.LevelExpert, react.Level)
	assert.Equal(t, 0.8, react.Confidence)

	node, ok := findSkill(records, "node.js")
	require.True(t, ok)
	assert.Equal(t, models.CategoryBackend, node.Category)
}

func TestExtractDeduplicates(t *testing.T) {
	e := NewExtractor(vocab.Default())

	records := e.Extract("Docker everywhere. docker compose, DOCKER swarm and more Docker.")

	count := 0
	for _, r := range records {
		if r.Key() == "docker" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestExtractWholeWordOnly(t *testing.T) {
	e := NewExtractor(vocab.Default())

	records := e.Extract("Wrote JavaScript for a reactive goldmine of scalable systems")

	_, hasJava := findSkill(records, "java")
	_, hasReact := findSkill(records, "react")
	_, hasGo := findSkill(records, "go")
	_, hasJS := findSkill(records, "javascript")

	assert.False(t, hasJava)
	assert.False(t, hasReact)
	assert.False(t, hasGo)
	assert.True(t, hasJS)
}

func TestExtractLevels(t *testing.T) {
	e := NewExtractor(vocab.Default())
	padding := strings.Repeat("x ", 80)

	tests := []struct {
		name string
		text string
		want models.SkillLevel
	}{
		{"expert keyword nearby", "Expert in Kubernetes", models.LevelExpert},
		{"beginner keyword nearby", "currently learning Rust", models.LevelBeginner},
		{"proficient is intermediate", "proficient with Terraform", models.LevelIntermediate},
		{"no indicator defaults to intermediate", "Used Redis", models.LevelIntermediate},
		{"indicator outside window is ignored", "expert " + padding + "Ansible", models.LevelIntermediate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := e.Extract(tt.text)
			require.Len(t, records, 1)
			assert.Equal(t, tt.want, records[0].Level)
		})
	}
}

func TestExtractEmptyText(t *testing.T) {
	e := NewExtractor(vocab.Default())

	records := e.Extract("")
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestCertifications(t *testing.T) {
	e := NewExtractor(vocab.Default())

	certs := e.Certifications("AWS Certified Solutions Architect, CKA, Certified Scrum Master (CSM)")

	assert.Equal(t, []string{"AWS Certified", "Scrum Master", "CSM", "CKA"}, certs)
}

func TestSummarize(t *testing.T) {
	records := []models.SkillRecord{
		{Name: "React", Category: models.CategoryFrontend, Level: models.LevelExpert},
		{Name: "Go", Category: models.CategoryBackend, Level: models.LevelIntermediate},
		{Name: "Docker", Category: models.CategoryDevOps, Level: models.LevelBeginner},
		{Name: "Redis", Category: models.CategoryBackend, Level: models.LevelIntermediate},
		{Name: "Git", Category: models.CategoryGeneral, Level: models.LevelIntermediate},
	}

	summary := Summarize(records)

	assert.Equal(t, 5, summary.Total)
	assert.Equal(t, 2, summary.ByCategory[models.CategoryBackend])
	assert.Equal(t, []models.SkillCategory{models.CategoryBackend, models.CategoryFrontend, models.CategoryDevOps}, summary.TopCategories)
	assert.Equal(t, 1, summary.ByLevel[models.LevelExpert])
	assert.Equal(t, 3, summary.ByLevel[models.LevelIntermediate])
	assert.Equal(t, 1, summary.ByLevel[models.LevelBeginner])
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"react", "React"},
		{"machine learning", "Machine Learning"},
		{"aws", "AWS"},
		{"rest api", "REST API"},
		{"node.js", "Node.js"},
		{"ios development", "iOS Development"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, DisplayName(tt.in))
		})
	}
}
