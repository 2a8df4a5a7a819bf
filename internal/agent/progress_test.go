package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kele901/career-projector/internal/models"
)

func TestReportStoreEvictsOldestSingleReports(t *testing.T) {
	a := newTestAgent(t, Options{MaxReports: 2})
	ctx := context.Background()

	var ids []string
	for _, name := range []string{"First", "Second", "Third"} {
		r, err := a.AnalyzeText(ctx, name, baristaCV)
		require.NoError(t, err)
		ids = append(ids, r.ID)
	}

	_, err := a.GetReport(ids[0])
	assert.ErrorIs(t, err, ErrReportNotFound)
	for _, id := range ids[1:] {
		_, err := a.GetReport(id)
		assert.NoError(t, err)
	}
}

func TestReportStoreKeepsLastBatch(t *testing.T) {
	a := newTestAgent(t, Options{MaxReports: 1})
	ctx := context.Background()

	batch, err := a.AnalyzeDocuments(ctx, []models.Document{
		{Name: "Jane", Text: frontendCV},
		{Name: "Sam", Text: baristaCV},
	})
	require.NoError(t, err)
	require.Len(t, batch.Reports, 2)

	for _, name := range []string{"One", "Two"} {
		_, err := a.AnalyzeText(ctx, name, baristaCV)
		require.NoError(t, err)
	}

	for _, r := range batch.Reports {
		got, err := a.GetReport(r.ID)
		require.NoError(t, err)
		assert.Equal(t, r.Name, got.Name)
	}
	stored, err := a.GetReports()
	require.NoError(t, err)
	assert.Len(t, stored.Reports, 2)
}

func TestProgressTracking(t *testing.T) {
	a := newTestAgent(t, Options{})
	ctx := context.Background()

	before, err := a.AnalyzeText(ctx, "Sam Brown", baristaCV)
	require.NoError(t, err)
	first, err := a.CaptureProgress(before.ID)
	require.NoError(t, err)
	assert.Empty(t, first.NewSkills)

	after, err := a.AnalyzeText(ctx, "sam  brown", frontendCV)
	require.NoError(t, err)
	second, err := a.CaptureProgress(after.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, second.NewSkills)
	assert.Equal(t, len(after.Skills), second.SkillsCount)

	timeline, err := a.ProgressTimeline(before.ID)
	require.NoError(t, err)
	require.Len(t, timeline, 2)
	assert.Equal(t, before.ID, timeline[0].ReportID)
	assert.Equal(t, after.ID, timeline[1].ReportID)

	learned, err := a.TrackLearnedSkill(after.ID, models.LearnedSkill{SkillName: "Docker"})
	require.NoError(t, err)
	assert.Equal(t, "beginner", learned.ProficiencyLevel)

	skills, err := a.LearnedSkills(before.ID)
	require.NoError(t, err)
	require.Len(t, skills, 1)
	assert.Equal(t, "Docker", skills[0].SkillName)

	analytics, err := a.ProgressAnalytics(after.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, analytics.TotalSnapshots)
	assert.Equal(t, 1, analytics.LearnedSkills)
	assert.Equal(t, after.Recommendations[0].Pathway, analytics.BestMatchPathway)
	assert.Equal(t, len(after.Skills)-len(before.Skills), analytics.TotalSkillsGained)
}

func TestProgressOutlivesEvictedReports(t *testing.T) {
	a := newTestAgent(t, Options{MaxReports: 1})
	ctx := context.Background()

	old, err := a.AnalyzeText(ctx, "Jane", frontendCV)
	require.NoError(t, err)
	_, err = a.CaptureProgress(old.ID)
	require.NoError(t, err)

	_, err = a.AnalyzeText(ctx, "Sam", baristaCV)
	require.NoError(t, err)
	_, err = a.GetReport(old.ID)
	require.ErrorIs(t, err, ErrReportNotFound)

	timeline, err := a.ProgressTimeline(old.ID)
	require.NoError(t, err)
	assert.Len(t, timeline, 1)

	_, err = a.CaptureProgress(old.ID)
	assert.ErrorIs(t, err, ErrReportNotFound)
}

func TestProgressUnknownReport(t *testing.T) {
	a := newTestAgent(t, Options{})

	_, err := a.ProgressTimeline("missing")
	assert.ErrorIs(t, err, ErrReportNotFound)
	_, err = a.ProgressAnalytics("missing")
	assert.ErrorIs(t, err, ErrReportNotFound)
	_, err = a.TrackLearnedSkill("missing", models.LearnedSkill{SkillName: "Go"})
	assert.ErrorIs(t, err, ErrReportNotFound)
	_, err = a.LearnedSkills("missing")
	assert.ErrorIs(t, err, ErrReportNotFound)
}
