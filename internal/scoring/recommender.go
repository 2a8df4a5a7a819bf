// Package scoring ranks career pathways against extracted skills and work history.
//
// The Recommender is stateless: every method is a pure function of its arguments and the
// injected clock, so a single instance can serve concurrent requests.
package scoring

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/Kele901/career-projector/internal/classify"
	"github.com/Kele901/career-projector/internal/models"
	"github.com/Kele901/career-projector/internal/vocab"
)

// Recommender scores pathway definitions
type Recommender struct {
	vocab      *vocab.Vocabulary
	classifier *classify.Classifier
	now        func() time.Time
}

// Option configures a Recommender
type Option func(*Recommender)

// WithClock sets the clock used for recency decay
func WithClock(now func() time.Time) Option {
	return func(r *Recommender) {
		r.now = now
	}
}

// NewRecommender creates a recommender bound to a vocabulary and classifier
func NewRecommender(v *vocab.Vocabulary, c *classify.Classifier, opts ...Option) *Recommender {
	r := &Recommender{
		vocab:      v,
		classifier: c,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Recommend scores every pathway of the catalog and returns those scoring at least
// minScore, best first. Ties keep catalog order. topN <= 0 disables truncation.
// Empty skills yield an empty list whatever the work history.
func (r *Recommender) Recommend(skills []models.SkillRecord, history []models.WorkExperience, catalog []models.PathwayDefinition, topN int, minScore float64) []models.Recommendation {
	recs := make([]models.Recommendation, 0)
	if len(skills) == 0 {
		return recs
	}

	profile := r.AnalyzeExperience(history)
	for _, pathway := range catalog {
		b := r.ScorePathway(pathway, skills, profile)
		if b.Score < minScore {
			continue
		}
		recs = append(recs, r.recommendation(pathway, skills, profile, b))
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].MatchScore > recs[j].MatchScore
	})

	if topN > 0 && len(recs) > topN {
		recs = recs[:topN]
	}
	return recs
}

func (r *Recommender) recommendation(pathway models.PathwayDefinition, skills []models.SkillRecord, profile ExperienceProfile, b Breakdown) models.Recommendation {
	key := pathwayKey(pathway.Name)

	contextMatch := r.vocab.Weights.NeutralContextMatch
	if r.vocab.IsTechRole(key) {
		contextMatch = profile.TechRatio
	}

	recency := 0.0
	if roles := profile.RelevantRoles[key]; len(roles) > 0 {
		recency = r.RecencyWeight(r.mostRecent(roles))
	}

	return models.Recommendation{
		Pathway:                pathway.Name,
		Description:            pathway.Description,
		MatchScore:             round2(b.Score),
		Reasoning:              r.Reasoning(pathway, b, skills, profile),
		RecommendedSkills:      r.MissingSkills(pathway, skills),
		RoadmapURL:             pathway.RoadmapURL,
		ExperienceRelevance:    round2(profile.Relevance[key]),
		CareerProgressionScore: round2(profile.Trajectory.ProgressionScore),
		CompanyContextMatch:    round2(contextMatch),
		RecencyBoost:           round2(recency),
	}
}

func pathwayKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
