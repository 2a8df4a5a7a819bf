package scoring

import (
	"math"
	"sort"
	"strings"

	"github.com/Kele901/career-projector/internal/models"
	"github.com/Kele901/career-projector/internal/skills"
)

// Breakdown holds the components of one pathway score
type Breakdown struct {
	RequiredMatches int
	RequiredTotal   int
	OptionalMatches int
	OptionalTotal   int

	RequiredScore   float64
	OptionalScore   float64
	CategoryScore   float64
	ExperienceScore float64

	YearsBonus       float64
	ProgressionBonus float64
	ContextBonus     float64

	// Score is the unrounded total clamped to [0, 1]
	Score float64
}

// skillIndex is the lookup view of a skill list
type skillIndex struct {
	names  map[string]bool
	counts map[string]int
	// categories in order of first appearance
	order []string
}

func indexSkills(records []models.SkillRecord) skillIndex {
	idx := skillIndex{
		names:  make(map[string]bool, len(records)),
		counts: make(map[string]int),
	}
	for _, s := range records {
		idx.names[s.Key()] = true

		category := strings.ToLower(string(s.Category))
		if category == "" {
			category = string(models.CategoryGeneral)
		}
		if idx.counts[category] == 0 {
			idx.order = append(idx.order, category)
		}
		idx.counts[category]++
	}
	return idx
}

// normalizeSet lower-cases names and drops duplicates, keeping first-seen order
func normalizeSet(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		key := strings.ToLower(strings.TrimSpace(n))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, key)
	}
	return out
}

// ScorePathway computes the weighted match of one pathway. It does not short-circuit on
// empty skills: the skill components are then 0 and the experience components remain.
func (r *Recommender) ScorePathway(pathway models.PathwayDefinition, records []models.SkillRecord, profile ExperienceProfile) Breakdown {
	w := r.vocab.Weights
	idx := indexSkills(records)
	key := pathwayKey(pathway.Name)

	var b Breakdown

	required := normalizeSet(pathway.RequiredSkills)
	b.RequiredTotal = len(required)
	for _, s := range required {
		if idx.names[s] {
			b.RequiredMatches++
		}
	}
	if b.RequiredTotal > 0 {
		b.RequiredScore = float64(b.RequiredMatches) / float64(b.RequiredTotal)
	}

	optional := normalizeSet(pathway.OptionalSkills)
	b.OptionalTotal = len(optional)
	for _, s := range optional {
		if idx.names[s] {
			b.OptionalMatches++
		}
	}
	if b.OptionalTotal > 0 {
		b.OptionalScore = float64(b.OptionalMatches) / float64(b.OptionalTotal)
	}

	b.CategoryScore = r.categoryScore(pathway.WeightCategories, idx)
	b.ExperienceScore = profile.Relevance[key]

	b.YearsBonus = math.Min(float64(profile.TotalMonths)/w.YearsBonusMonths, w.YearsBonusCap)
	// a single entry still scores insufficient_data and is penalised; no history at all is not
	if profile.Entries > 0 {
		b.ProgressionBonus = (profile.Trajectory.ProgressionScore - 0.5) * w.ProgressionFactor
	}
	if r.vocab.IsTechRole(key) && profile.TechRatio > w.ContextBonusRatio {
		b.ContextBonus = w.ContextBonus
	}

	base := b.RequiredScore*w.Required + b.OptionalScore*w.Optional + b.CategoryScore*w.Category
	extra := b.ExperienceScore*w.Experience + b.YearsBonus + b.ProgressionBonus + b.ContextBonus
	b.Score = math.Min(math.Max(base+extra, 0.0), 1.0)

	return b
}

// categoryScore sums normalized category weights times capped skill counts. Keys are
// visited in sorted order so the floating point sum is reproducible.
func (r *Recommender) categoryScore(weights map[string]float64, idx skillIndex) float64 {
	if len(weights) == 0 {
		return 0
	}

	keys := make([]string, 0, len(weights))
	for k := range weights {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	total := 0.0
	for _, k := range keys {
		total += weights[k]
	}
	if total <= 0 {
		return 0
	}

	score := 0.0
	for _, k := range keys {
		count, ok := idx.counts[strings.ToLower(k)]
		if !ok {
			continue
		}
		score += (weights[k] / total) * math.Min(float64(count)/r.vocab.Weights.CategorySaturation, 1)
	}
	return score
}

// MissingSkills lists the required skills the candidate lacks, then the optional ones, in
// catalog order, capped and formatted for display
func (r *Recommender) MissingSkills(pathway models.PathwayDefinition, records []models.SkillRecord) []string {
	idx := indexSkills(records)
	limit := r.vocab.Weights.MissingSkillsCap

	missing := make([]string, 0)
	seen := make(map[string]bool)
	for _, list := range [][]string{pathway.RequiredSkills, pathway.OptionalSkills} {
		for _, s := range normalizeSet(list) {
			if idx.names[s] || seen[s] {
				continue
			}
			seen[s] = true
			if len(missing) == limit {
				return missing
			}
			missing = append(missing, skills.DisplayName(s))
		}
	}
	return missing
}
