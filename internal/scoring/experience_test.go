package scoring

import (
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kele901/career-projector/internal/models"
)

func TestRecencyWeight(t *testing.T) {
	r := newTestRecommender()

	tests := []struct {
		name string
		exp  models.WorkExperience
		want float64
	}{
		{"current role", models.WorkExperience{EndDate: "2010", IsCurrent: true}, 1.0},
		{"present end date", models.WorkExperience{EndDate: "Present"}, 1.0},
		{"missing end date", models.WorkExperience{}, 1.0},
		{"ended this year", models.WorkExperience{EndDate: "2025"}, 1.0},
		{"ended last year", models.WorkExperience{EndDate: "Dec 2024"}, math.Exp(-0.3)},
		{"ended long ago hits floor", models.WorkExperience{EndDate: "2001"}, 0.3},
		{"unparsable end date", models.WorkExperience{EndDate: "sometime"}, 0.6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, r.RecencyWeight(tt.exp), 1e-9)
		})
	}
}

func TestRecencyWeightIsMonotonic(t *testing.T) {
	r := newTestRecommender()

	prev := 0.0
	for year := 1995; year <= 2025; year++ {
		w := r.RecencyWeight(models.WorkExperience{EndDate: strconv.Itoa(year)})
		assert.GreaterOrEqual(t, w, prev, "year %d", year)
		prev = w
	}
}

func TestTrajectory(t *testing.T) {
	r := newTestRecommender()

	role := func(title, start, end string, current bool) models.WorkExperience {
		return models.WorkExperience{JobTitle: title, StartDate: start, EndDate: end, IsCurrent: current}
	}

	tests := []struct {
		name     string
		history  []models.WorkExperience
		wantType models.TrajectoryType
		score    float64
		desc     string
	}{
		{
			name:     "single role",
			history:  []models.WorkExperience{role("Developer", "2020", "Present", true)},
			wantType: models.TrajectoryInsufficientData,
			score:    0.0,
		},
		{
			name: "strong upward",
			history: []models.WorkExperience{
				role("Senior Developer", "2020", "Present", true),
				role("Junior Developer", "2015", "2017", false),
				role("Developer", "2017", "2020", false),
			},
			wantType: models.TrajectoryStrongUpward,
			score:    1.0,
			desc:     "Strong career growth from Junior Developer to Senior Developer",
		},
		{
			name: "upward",
			history: []models.WorkExperience{
				role("Developer", "2015", "2018", false),
				role("Senior Developer", "2018", "Present", true),
			},
			wantType: models.TrajectoryUpward,
			score:    0.8,
			desc:     "Steady progression in your career",
		},
		{
			name: "stable",
			history: []models.WorkExperience{
				role("Engineer", "2019", "Present", true),
				role("Software Engineer", "2015", "2019", false),
			},
			wantType: models.TrajectoryStable,
			score:    0.5,
			desc:     "Consistent experience at Engineer level",
		},
		{
			name: "pivot",
			history: []models.WorkExperience{
				role("Senior Engineer", "2015", "2019", false),
				role("Analyst", "2019", "Present", true),
			},
			wantType: models.TrajectoryPivot,
			score:    0.4,
			desc:     "Career transition detected",
		},
		{
			name: "mixed",
			history: []models.WorkExperience{
				role("Developer", "2012", "2015", false),
				role("Senior Developer", "2015", "2018", false),
				role("Developer", "2018", "Present", true),
			},
			wantType: models.TrajectoryMixed,
			score:    0.6,
			desc:     "Diverse career experiences",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Trajectory(tt.history)
			assert.Equal(t, tt.wantType, got.Type)
			assert.Equal(t, tt.score, got.ProgressionScore)
			assert.Equal(t, tt.desc, got.Description)
		})
	}
}

func TestTrajectoryLevelsAreChronological(t *testing.T) {
	r := newTestRecommender()
	history := []models.WorkExperience{
		{JobTitle: "Head of Engineering", StartDate: "2021", EndDate: "Present", IsCurrent: true},
		{JobTitle: "Software Engineering Intern", StartDate: "2014", EndDate: "2015"},
	}

	got := r.Trajectory(history)

	require.Len(t, got.Levels, 2)
	assert.Equal(t, models.TrajectoryLevel{Title: "Software Engineering Intern", Ordinal: 0}, got.Levels[0])
	assert.Equal(t, models.TrajectoryLevel{Title: "Head of Engineering", Ordinal: 5}, got.Levels[1])
}

func TestAnalyzeExperience(t *testing.T) {
	r := newTestRecommender()

	profile := r.AnalyzeExperience(frontendHistory())

	assert.Equal(t, 84, profile.TotalMonths)
	assert.Equal(t, 84, profile.TechMonths)
	assert.Equal(t, 1.0, profile.TechRatio)
	require.Len(t, profile.Contexts, 2)
	assert.Equal(t, models.SizeEnterprise, profile.Contexts[0].Size)
	assert.Equal(t, models.SizeStartup, profile.Contexts[1].Size)

	// title hit plus description hit, tech boost, one role decayed to the floor
	want := (1.3*1.2 + 1.3*math.Max(0.3, math.Exp(-1.2))*1.2) / 3
	assert.InDelta(t, want, profile.Relevance["frontend developer"], 1e-9)
	assert.Len(t, profile.RelevantRoles["frontend developer"], 2)

	_, ok := profile.Relevance["backend developer"]
	assert.False(t, ok, "unmatched pathways must be absent")
}

func TestAnalyzeExperienceUnknownDurations(t *testing.T) {
	r := newTestRecommender()
	history := []models.WorkExperience{
		{JobTitle: "Backend Developer", CompanyName: "Acme Software"},
	}

	profile := r.AnalyzeExperience(history)

	assert.Equal(t, 0, profile.TotalMonths)
	assert.Equal(t, 0.0, profile.TechRatio)
	_, ok := profile.Relevance["backend developer"]
	assert.False(t, ok, "a zero-length role adds no relevance")
}

func TestAnalyzeExperienceEmpty(t *testing.T) {
	r := newTestRecommender()

	profile := r.AnalyzeExperience(nil)

	assert.Equal(t, models.TrajectoryInsufficientData, profile.Trajectory.Type)
	assert.Empty(t, profile.Relevance)
	assert.NotNil(t, profile.Relevance)
	assert.Empty(t, profile.Contexts)
}
