package progress

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kele901/career-projector/internal/models"
)

type clock struct {
	t time.Time
}

func (c *clock) now() time.Time { return c.t }

func newTestTracker() (*Tracker, *clock) {
	c := &clock{t: time.Date(2025, time.January, 1, 9, 0, 0, 0, time.UTC)}
	return NewTracker(WithClock(c.now)), c
}

func report(id, name string, skillCount int, score float64) models.Report {
	r := models.Report{
		ID:   id,
		Name: name,
		Recommendations: []models.Recommendation{
			{Pathway: "Frontend Developer", MatchScore: score},
			{Pathway: "Backend Developer", MatchScore: score - 0.1},
		},
	}
	for i := 1; i <= skillCount; i++ {
		r.Skills = append(r.Skills, models.SkillRecord{Name: fmt.Sprintf("Skill %d", i), Category: models.CategoryFrontend})
	}
	return r
}

func TestCaptureRecordsNewSkills(t *testing.T) {
	tr, c := newTestTracker()

	first := tr.Capture(report("r1", "Jane Smith", 2, 0.4))
	assert.Equal(t, 1, first.ID)
	assert.Equal(t, "r1", first.ReportID)
	assert.Equal(t, c.t, first.Date)
	assert.Equal(t, 2, first.SkillsCount)
	assert.Equal(t, 0.4, first.TopMatchScore)
	assert.Empty(t, first.NewSkills)
	assert.Equal(t, map[string]int{"frontend": 2}, first.Metrics.SkillCategories)
	assert.Equal(t, 2, first.Metrics.RecommendationsCount)
	require.Len(t, first.Metrics.TopPathways, 2)
	assert.Equal(t, "Frontend Developer", first.Metrics.TopPathways[0].Pathway)

	c.t = c.t.AddDate(0, 1, 0)
	second := tr.Capture(report("r2", "Jane Smith", 4, 0.5))
	assert.Equal(t, []string{"Skill 3", "Skill 4"}, second.NewSkills)

	timeline := tr.Timeline("jane smith")
	require.Len(t, timeline, 2)
	assert.Equal(t, "r1", timeline[0].ReportID)
	assert.Equal(t, "r2", timeline[1].ReportID)
}

func TestCaptureGroupsByCandidateName(t *testing.T) {
	tr, _ := newTestTracker()

	tr.Capture(report("r1", "Jane  Smith", 1, 0.3))
	tr.Capture(report("r2", " jane smith", 2, 0.3))
	tr.Capture(report("r3", "", 1, 0.3))

	assert.Len(t, tr.Timeline("jane smith"), 2)
	assert.Len(t, tr.Timeline("r3"), 1)
	assert.Empty(t, tr.Timeline("someone else"))

	key, ok := tr.Candidate("r2")
	assert.True(t, ok)
	assert.Equal(t, "jane smith", key)

	_, ok = tr.Candidate("missing")
	assert.False(t, ok)
}

func TestCaptureKeepsRecentSnapshots(t *testing.T) {
	tr, c := newTestTracker()

	for i := 0; i < maxSnapshots+5; i++ {
		c.t = c.t.Add(time.Hour)
		tr.Capture(report(fmt.Sprintf("r%d", i), "Jane", 1, 0.3))
	}

	timeline := tr.Timeline("jane")
	require.Len(t, timeline, maxSnapshots)
	assert.Equal(t, "r5", timeline[0].ReportID)
}

func TestAnalyticsWithoutSnapshots(t *testing.T) {
	tr, _ := newTestTracker()

	a := tr.Analytics("nobody")

	assert.Equal(t, 0, a.TotalSnapshots)
	assert.Equal(t, "N/A", a.BestMatchPathway)
	assert.Equal(t, "insufficient_data", a.GrowthTrend)
	assert.Equal(t, defaultEstimate, a.ProficiencyEstimates)
	assert.Empty(t, a.MatchScoreTrend)
	require.Len(t, a.Insights, 1)
	assert.Equal(t, "info", a.Insights[0].Type)
}

func TestAnalyticsSingleSnapshot(t *testing.T) {
	tr, _ := newTestTracker()
	tr.Capture(report("r1", "Jane", 3, 0.45))

	a := tr.Analytics("jane")

	assert.Equal(t, 1, a.TotalSnapshots)
	assert.Equal(t, "insufficient_data", a.GrowthTrend)
	assert.Equal(t, 0.45, a.AverageMatchScore)
	assert.Equal(t, "Frontend Developer", a.BestMatchPathway)
	assert.Equal(t, 0.0, a.SkillVelocity)
	assert.Equal(t, []models.CategoryCount{{Category: "frontend", Count: 3}}, a.CategoryGrowth)
	require.Len(t, a.MatchScoreTrend, 1)
	assert.Equal(t, 45.0, a.MatchScoreTrend[0].Score)
	require.Len(t, a.Insights, 1)
	assert.Equal(t, "suggestion", a.Insights[0].Type)
}

func TestAnalyticsGrowth(t *testing.T) {
	tr, c := newTestTracker()

	tr.Capture(report("r1", "Jane", 2, 0.4))
	c.t = time.Date(2025, time.March, 2, 9, 0, 0, 0, time.UTC)
	tr.Capture(report("r2", "Jane", 4, 0.5))
	c.t = time.Date(2025, time.May, 1, 9, 0, 0, 0, time.UTC)
	tr.Capture(report("r3", "Jane", 10, 0.62))

	a := tr.Analytics("jane")

	assert.Equal(t, 3, a.TotalSnapshots)
	assert.Equal(t, 8, a.TotalSkillsGained)
	assert.Equal(t, 2.0, a.SkillVelocity)
	assert.Equal(t, 0.11, a.MatchImprovementRate)
	assert.Equal(t, 0.5067, a.AverageMatchScore)
	assert.Equal(t, "accelerating", a.GrowthTrend)
	assert.Equal(t, []models.VelocityPoint{
		{Period: "Jan 2025 - Mar 2025", Velocity: 1},
		{Period: "Mar 2025 - May 2025", Velocity: 3},
	}, a.SkillVelocityTrend)
	assert.Equal(t, map[string]float64{"frontend": 2.5}, a.LearningVelocity)

	require.Len(t, a.RecommendationsEvolution, 3)
	assert.Equal(t, "May 01", a.RecommendationsEvolution[2].Date)
	assert.Equal(t, 62.0, a.RecommendationsEvolution[2].Scores["Frontend Developer"])

	assert.Equal(t, "5-6 months", a.ProficiencyEstimates.JuniorLevel)
	assert.Equal(t, 2.0, a.ProficiencyEstimates.LearningRate)

	types := make([]string, 0, len(a.Insights))
	for _, in := range a.Insights {
		types = append(types, in.Type)
	}
	assert.Equal(t, []string{"neutral", "positive", "positive"}, types)
	assert.Contains(t, a.Insights[1].Message, "22.0%")
}

func TestAnalyticsGrowthTrend(t *testing.T) {
	tests := []struct {
		name   string
		counts [3]int
		want   string
	}{
		{"faster recently", [3]int{2, 4, 10}, "accelerating"},
		{"slower recently", [3]int{2, 8, 10}, "declining"},
		{"even pace", [3]int{2, 4, 6}, "steady"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, c := newTestTracker()
			for i, n := range tt.counts {
				tr.Capture(report(fmt.Sprintf("r%d", i), "Jane", n, 0.5))
				c.t = c.t.AddDate(0, 0, 60)
			}

			assert.Equal(t, tt.want, tr.Analytics("jane").GrowthTrend)
		})
	}
}

func TestAnalyticsDefaultEstimateWithoutGrowth(t *testing.T) {
	tr, c := newTestTracker()
	tr.Capture(report("r1", "Jane", 5, 0.5))
	c.t = c.t.AddDate(0, 2, 0)
	tr.Capture(report("r2", "Jane", 4, 0.5))

	a := tr.Analytics("jane")

	assert.Equal(t, -1, a.TotalSkillsGained)
	assert.Equal(t, "steady", a.GrowthTrend)
	assert.Equal(t, defaultEstimate, a.ProficiencyEstimates)
}

func TestTrackLearnedSkill(t *testing.T) {
	tests := []struct {
		name      string
		candidate string
		skill     models.LearnedSkill
		wantErr   error
		wantLevel string
		wantState string
	}{
		{
			name:      "defaults",
			candidate: "jane",
			skill:     models.LearnedSkill{SkillName: " Docker "},
			wantLevel: "beginner",
			wantState: "learning",
		},
		{
			name:      "explicit values",
			candidate: "jane",
			skill:     models.LearnedSkill{SkillName: "Go", ProficiencyLevel: "Advanced", Status: "completed"},
			wantLevel: "advanced",
			wantState: "completed",
		},
		{
			name:      "unknown level",
			candidate: "jane",
			skill:     models.LearnedSkill{SkillName: "Go", ProficiencyLevel: "guru"},
			wantErr:   ErrInvalidSkill,
		},
		{
			name:      "missing name",
			candidate: "jane",
			skill:     models.LearnedSkill{SkillName: "  "},
			wantErr:   ErrInvalidSkill,
		},
		{
			name:    "missing candidate",
			skill:   models.LearnedSkill{SkillName: "Go"},
			wantErr: ErrNoCandidate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, c := newTestTracker()

			got, err := tr.TrackLearnedSkill(tt.candidate, tt.skill)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotZero(t, got.ID)
			assert.Equal(t, c.t, got.DateLearned)
			assert.Equal(t, tt.wantLevel, got.ProficiencyLevel)
			assert.Equal(t, tt.wantState, got.Status)
		})
	}
}

func TestLearnedSkillsNewestFirst(t *testing.T) {
	tr, c := newTestTracker()

	_, err := tr.TrackLearnedSkill("jane", models.LearnedSkill{SkillName: "Docker"})
	require.NoError(t, err)
	c.t = c.t.Add(24 * time.Hour)
	_, err = tr.TrackLearnedSkill("jane", models.LearnedSkill{SkillName: "Kubernetes"})
	require.NoError(t, err)

	learned := tr.LearnedSkills("jane")
	require.Len(t, learned, 2)
	assert.Equal(t, "Kubernetes", learned[0].SkillName)
	assert.Equal(t, "Docker", learned[1].SkillName)
	assert.Empty(t, tr.LearnedSkills("sam"))

	assert.Equal(t, 2, tr.Analytics("jane").LearnedSkills)
}
