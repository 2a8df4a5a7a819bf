package scoring

import (
	"fmt"
	"slices"
	"sort"

	"github.com/Kele901/career-projector/internal/models"
)

// Trajectory classifies the seniority progression of a work history. Entries are ordered
// most recent first (ongoing, end year, start year), then read oldest to newest.
func (r *Recommender) Trajectory(history []models.WorkExperience) models.Trajectory {
	if len(history) < 2 {
		return models.Trajectory{Type: models.TrajectoryInsufficientData, ProgressionScore: 0.0}
	}

	sorted := make([]models.WorkExperience, len(history))
	copy(sorted, history)
	sort.SliceStable(sorted, func(i, j int) bool {
		return recencyLess(sorted[j], sorted[i], true)
	})
	slices.Reverse(sorted)

	levels := make([]models.TrajectoryLevel, len(sorted))
	for i, exp := range sorted {
		levels[i] = models.TrajectoryLevel{
			Title:   exp.JobTitle,
			Ordinal: r.classifier.Seniority(exp.JobTitle).Ordinal(),
		}
	}

	increases, decreases := 0, 0
	for i := 1; i < len(levels); i++ {
		switch {
		case levels[i].Ordinal > levels[i-1].Ordinal:
			increases++
		case levels[i].Ordinal < levels[i-1].Ordinal:
			decreases++
		}
	}
	stable := len(levels) - 1 - increases - decreases

	oldest, newest := levels[0], levels[len(levels)-1]
	change := newest.Ordinal - oldest.Ordinal

	t := models.Trajectory{Levels: levels}
	switch {
	case change >= 2:
		t.Type, t.ProgressionScore = models.TrajectoryStrongUpward, 1.0
		t.Description = fmt.Sprintf("Strong career growth from %s to %s", oldest.Title, newest.Title)
	case change == 1 || increases > decreases:
		t.Type, t.ProgressionScore = models.TrajectoryUpward, 0.8
		t.Description = "Steady progression in your career"
	case change == 0 && stable >= len(levels)-1:
		t.Type, t.ProgressionScore = models.TrajectoryStable, 0.5
		t.Description = fmt.Sprintf("Consistent experience at %s level", newest.Title)
	case change < 0:
		t.Type, t.ProgressionScore = models.TrajectoryPivot, 0.4
		t.Description = "Career transition detected"
	default:
		t.Type, t.ProgressionScore = models.TrajectoryMixed, 0.6
		t.Description = "Diverse career experiences"
	}
	return t
}
