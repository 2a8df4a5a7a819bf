package scoring

import (
	"math"
	"sort"
	"strings"

	"github.com/Kele901/career-projector/internal/models"
	"github.com/Kele901/career-projector/internal/parser"
	"github.com/Kele901/career-projector/internal/vocab"
)

// ExperienceProfile aggregates a work history once for all pathways
type ExperienceProfile struct {
	// Entries is the number of analysed work-history entries
	Entries     int
	TotalMonths int
	TechMonths  int
	// TechRatio is TechMonths / TotalMonths, 0 without any months
	TechRatio  float64
	Trajectory models.Trajectory
	// Relevance holds normalized relevance per lower-cased pathway name. Pathways without
	// any matching entry are absent.
	Relevance     map[string]float64
	RelevantRoles map[string][]models.WorkExperience
	// Contexts is parallel to the analysed history
	Contexts []models.CompanyContext
}

// AnalyzeExperience computes totals, tech ratio, trajectory and per-pathway relevance
func (r *Recommender) AnalyzeExperience(history []models.WorkExperience) ExperienceProfile {
	profile := ExperienceProfile{
		Entries:       len(history),
		Trajectory:    r.Trajectory(history),
		Relevance:     make(map[string]float64),
		RelevantRoles: make(map[string][]models.WorkExperience),
		Contexts:      make([]models.CompanyContext, 0, len(history)),
	}

	for _, w := range history {
		ctx := r.classifier.Company(w.CompanyName, w.Description)
		profile.Contexts = append(profile.Contexts, ctx)

		profile.TotalMonths += w.Months()
		if ctx.IsTech {
			profile.TechMonths += w.Months()
		}
	}
	if profile.TotalMonths > 0 {
		profile.TechRatio = float64(profile.TechMonths) / float64(profile.TotalMonths)
	}

	r.relevance(history, &profile)
	return profile
}

func (r *Recommender) relevance(history []models.WorkExperience, profile *ExperienceProfile) {
	w := r.vocab.Weights

	for _, pk := range r.vocab.PathwayKeywords {
		var roles []models.WorkExperience
		total := 0.0

		for i, exp := range history {
			match := keywordMatch(exp, pk.Terms, w)
			if match <= 0 {
				continue
			}

			duration := math.Min(float64(exp.Months())/12, 1.0)
			boost := 1.0
			if profile.Contexts[i].IsTech && r.vocab.IsRelevanceBoostRole(pk.Pathway) {
				boost = w.RelevanceTechBoost
			}

			total += match * duration * r.RecencyWeight(exp) * boost
			roles = append(roles, exp)
		}

		if total > 0 {
			profile.Relevance[pk.Pathway] = math.Min(total/w.RelevanceNormalizer, 1.0)
			profile.RelevantRoles[pk.Pathway] = roles
		}
	}
}

// keywordMatch adds up, per keyword, the weight of the most prominent field it occurs in
func keywordMatch(exp models.WorkExperience, terms []string, w vocab.Weights) float64 {
	title := strings.ToLower(exp.JobTitle)
	desc := strings.ToLower(exp.Description)
	company := strings.ToLower(exp.CompanyName)

	score := 0.0
	for _, term := range terms {
		switch {
		case vocab.ContainsTerm(title, term):
			score += w.RelevanceTitle
		case vocab.ContainsTerm(desc, term):
			score += w.RelevanceDescription
		case vocab.ContainsTerm(company, term):
			score += w.RelevanceCompany
		}
	}
	return score
}

// RecencyWeight discounts older roles: 1.0 for ongoing roles, exponential decay by years
// since the end year otherwise, clamped to the configured floor. Without an end year the
// weight is the configured unknown value.
func (r *Recommender) RecencyWeight(exp models.WorkExperience) float64 {
	w := r.vocab.Weights

	if exp.IsCurrent || isOngoing(exp.EndDate) {
		return 1.0
	}

	endYear, ok := parser.ExtractYear(exp.EndDate)
	if !ok {
		return w.RecencyUnknown
	}

	yearsAgo := float64(r.now().Year() - endYear)
	weight := math.Exp(-w.RecencyDecay * yearsAgo)
	return math.Max(w.RecencyFloor, math.Min(1.0, weight))
}

// isRecent reports whether a role is ongoing or ended within the recent-role window
func (r *Recommender) isRecent(exp models.WorkExperience) bool {
	if exp.IsCurrent || strings.Contains(strings.ToLower(exp.EndDate), "present") {
		return true
	}
	endYear, ok := parser.ExtractYear(exp.EndDate)
	return ok && endYear >= r.now().Year()-r.vocab.Weights.RecentRoleYears
}

// mostRecent picks the ongoing role, else the one with the latest end year.
// Earlier entries win ties.
func (r *Recommender) mostRecent(roles []models.WorkExperience) models.WorkExperience {
	sorted := make([]models.WorkExperience, len(roles))
	copy(sorted, roles)
	sort.SliceStable(sorted, func(i, j int) bool {
		return recencyLess(sorted[j], sorted[i], false)
	})
	return sorted[0]
}

// recencyLess orders a before b when a is older. withStart also compares start years.
func recencyLess(a, b models.WorkExperience, withStart bool) bool {
	if a.IsCurrent != b.IsCurrent {
		return !a.IsCurrent
	}
	ae, be := yearOrZero(a.EndDate), yearOrZero(b.EndDate)
	if ae != be {
		return ae < be
	}
	if withStart {
		return yearOrZero(a.StartDate) < yearOrZero(b.StartDate)
	}
	return false
}

func isOngoing(endDate string) bool {
	end := strings.TrimSpace(endDate)
	return end == "" || strings.Contains(strings.ToLower(end), "present")
}

func yearOrZero(s string) int {
	y, _ := parser.ExtractYear(s)
	return y
}
