package scoring

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Kele901/career-projector/internal/models"
)

// Reasoning explains a pathway score in plain sentences. The text depends only on its
// arguments and the clock year.
func (r *Recommender) Reasoning(pathway models.PathwayDefinition, b Breakdown, records []models.SkillRecord, profile ExperienceProfile) string {
	var reasons []string

	if b.RequiredTotal > 0 {
		pct := int(float64(b.RequiredMatches) / float64(b.RequiredTotal) * 100)
		reasons = append(reasons, fmt.Sprintf("You have %d%% of required skills (%d/%d)", pct, b.RequiredMatches, b.RequiredTotal))
	}

	if b.OptionalMatches > 0 {
		reasons = append(reasons, fmt.Sprintf("Plus %d optional/advanced skills", b.OptionalMatches))
	}

	switch profile.Trajectory.Type {
	case models.TrajectoryStrongUpward, models.TrajectoryUpward:
		if profile.Trajectory.Description != "" {
			reasons = append(reasons, profile.Trajectory.Description)
		}
	case models.TrajectoryPivot:
		reasons = append(reasons, "Your career transition shows adaptability and growth mindset")
	}

	if clause := r.rolesClause(pathwayKey(pathway.Name), profile); clause != "" {
		reasons = append(reasons, clause)
	}

	if clause := contextClause(profile); clause != "" {
		reasons = append(reasons, clause)
	}

	if top := topCategories(pathway.WeightCategories, indexSkills(records), 2); len(top) > 0 {
		reasons = append(reasons, "Strong background in "+strings.Join(top, ", "))
	}

	if len(reasons) == 0 {
		return fmt.Sprintf("Some foundational skills for %s.", pathway.Name)
	}
	return strings.Join(reasons, ". ") + "."
}

func (r *Recommender) rolesClause(key string, profile ExperienceProfile) string {
	roles := profile.RelevantRoles[key]
	if len(roles) == 0 {
		if profile.TotalMonths > 0 {
			return fmt.Sprintf("%.1f years of professional experience", float64(profile.TotalMonths)/12)
		}
		return ""
	}

	months := 0
	for _, role := range roles {
		months += role.Months()
	}
	years := float64(months) / 12

	latest := r.mostRecent(roles)
	title := latest.JobTitle
	if title == "" {
		title = "related role"
	}

	recent := r.isRecent(latest)
	switch {
	case recent && len(roles) > 1:
		return fmt.Sprintf("Currently building on %.1f years of relevant experience as %s", years, title)
	case recent:
		return fmt.Sprintf("Your recent work as %s aligns strongly with this path", title)
	case len(roles) > 1:
		return fmt.Sprintf("%.1f years of relevant experience in roles like %s", years, title)
	default:
		return fmt.Sprintf("%.1f years as %s", years, title)
	}
}

func contextClause(profile ExperienceProfile) string {
	if profile.TechRatio <= 0.7 || len(profile.Contexts) == 0 {
		return ""
	}

	hasEnterprise, hasStartup := false, false
	for _, ctx := range profile.Contexts {
		switch ctx.Size {
		case models.SizeEnterprise:
			hasEnterprise = true
		case models.SizeStartup:
			hasStartup = true
		}
	}

	switch {
	case hasEnterprise && hasStartup:
		return "Your diverse experience across enterprise and startup environments is valuable"
	case hasEnterprise:
		return "Your experience at established tech companies provides strong foundations"
	case hasStartup:
		return "Your startup experience demonstrates versatility and rapid learning"
	default:
		return "Your technology industry experience is highly relevant"
	}
}

// topCategories returns up to n weighted categories with the most skills. Ties keep the
// order in which the categories first appear among the skills.
func topCategories(weights map[string]float64, idx skillIndex, n int) []string {
	weighted := make(map[string]bool, len(weights))
	for k := range weights {
		weighted[strings.ToLower(k)] = true
	}

	var cats []string
	for _, c := range idx.order {
		if weighted[c] {
			cats = append(cats, c)
		}
	}
	sort.SliceStable(cats, func(i, j int) bool {
		return idx.counts[cats[i]] > idx.counts[cats[j]]
	})

	if len(cats) > n {
		cats = cats[:n]
	}
	return cats
}
