package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kele901/career-projector/internal/models"
)

func sampleReports() []models.Report {
	return []models.Report{
		{
			ID:     "r1",
			Name:   "Jane Smith",
			Skills: make([]models.SkillRecord, 3),
			Recommendations: []models.Recommendation{
				{Pathway: "Frontend Developer", MatchScore: 0.82, RecommendedSkills: []string{"TypeScript", "Jest"}},
			},
		},
		{ID: "r2", Name: "Sam Brown"},
	}
}

func TestWriteReportsTable(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, writeReports(&buf, sampleReports(), "table", ""))

	out := buf.String()
	assert.Contains(t, out, "Jane Smith")
	assert.Contains(t, out, "Frontend Developer")
	assert.Contains(t, out, "0.82")
	assert.Contains(t, out, "TypeScript, Jest")
	assert.Contains(t, out, "no pathway reached the minimum score")
}

func TestWriteReportsJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeReports(&buf, sampleReports()[:1], "json", ""))

	var single models.Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &single))
	assert.Equal(t, "r1", single.ID)

	path := filepath.Join(t.TempDir(), "out.json")
	buf.Reset()
	require.NoError(t, writeReports(&buf, sampleReports(), "JSON", path))
	assert.Empty(t, buf.String())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var many []models.Report
	require.NoError(t, json.Unmarshal(data, &many))
	assert.Len(t, many, 2)
}

func TestWriteReportsXLSX(t *testing.T) {
	dir := t.TempDir()
	var buf bytes.Buffer

	require.NoError(t, writeReports(&buf, sampleReports(), "xlsx", filepath.Join(dir, "batch")))

	assert.Contains(t, buf.String(), "batch.xlsx")
	_, err := os.Stat(filepath.Join(dir, "batch.xlsx"))
	assert.NoError(t, err)
}

func TestWriteReportsErrors(t *testing.T) {
	tests := []struct {
		name    string
		format  string
		out     string
		wantErr string
	}{
		{"xlsx without out", "xlsx", "", "--out is required"},
		{"unknown format", "yaml", "", "unknown format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := writeReports(&bytes.Buffer{}, sampleReports(), tt.format, tt.out)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
