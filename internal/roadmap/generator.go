// Package roadmap turns the skill gap towards a pathway into a phased learning plan.
package roadmap

import (
	"fmt"
	"math"
	"strings"

	"github.com/Kele901/career-projector/internal/models"
	"github.com/Kele901/career-projector/internal/vocab"
)

const (
	fundamentalsWeeks   = 2
	coreWeeks           = 3
	advancedWeeks       = 4
	specializationWeeks = 2
	specializationCap   = 10
	weeksPerMonth       = 4.33
)

// Generator builds learning roadmaps
type Generator struct {
	vocab *vocab.Vocabulary
}

// NewGenerator creates a roadmap generator bound to a vocabulary
func NewGenerator(v *vocab.Vocabulary) *Generator {
	return &Generator{vocab: v}
}

// Generate plans the missing skills of a pathway. Missing required skills are split by
// difficulty into Fundamentals, Core Skills and Advanced Concepts; missing optional skills
// form a Specialization phase. Empty phases are left out. Experienced candidates get a
// shorter timeline.
func (g *Generator) Generate(pathway models.PathwayDefinition, owned []models.SkillRecord, yearsExperience float64) models.Roadmap {
	have := make(map[string]bool, len(owned))
	for _, s := range owned {
		have[s.Key()] = true
	}

	required := uniqueSkills(pathway.RequiredSkills)
	optional := uniqueSkills(pathway.OptionalSkills)

	var fundamentals, core, advanced, specialization []string
	ownedRequired := 0
	for _, s := range required {
		if have[strings.ToLower(s)] {
			ownedRequired++
			continue
		}
		switch g.difficulty(s) {
		case models.LevelBeginner:
			fundamentals = append(fundamentals, s)
		case models.LevelExpert:
			advanced = append(advanced, s)
		default:
			core = append(core, s)
		}
	}
	for _, s := range optional {
		if have[strings.ToLower(s)] || containsFold(required, s) {
			continue
		}
		if len(specialization) == specializationCap {
			break
		}
		specialization = append(specialization, s)
	}

	rm := models.Roadmap{
		Pathway:              pathway.Name,
		RoadmapURL:           pathway.RoadmapURL,
		CompletionPercentage: completion(ownedRequired, len(required)),
		Phases:               make([]models.RoadmapPhase, 0, 4),
	}

	week := 0
	addPhase := func(name string, skills []string, perSkill int) {
		if len(skills) == 0 {
			return
		}
		weeks := len(skills) * perSkill
		week += weeks
		rm.Phases = append(rm.Phases, models.RoadmapPhase{
			Name:          name,
			Skills:        skills,
			DurationWeeks: weeks,
			Milestone:     fmt.Sprintf("Week %d: complete %s (%d skills)", week, name, len(skills)),
		})
	}
	addPhase("Fundamentals", fundamentals, fundamentalsWeeks)
	addPhase("Core Skills", core, coreWeeks)
	addPhase("Advanced Concepts", advanced, advancedWeeks)
	addPhase("Specialization", specialization, specializationWeeks)

	rm.TotalWeeks = scaleWeeks(week, yearsExperience)
	rm.EstimatedMonths = math.Round(float64(rm.TotalWeeks)/weeksPerMonth*10) / 10
	return rm
}

func (g *Generator) difficulty(skill string) models.SkillLevel {
	if label, ok := g.vocab.Difficulty.Match(skill); ok {
		return models.SkillLevel(label)
	}
	return models.LevelIntermediate
}

// scaleWeeks shortens the plan by 30% beyond three years of experience and by 15%
// beyond one year
func scaleWeeks(weeks int, years float64) int {
	switch {
	case years > 3:
		return int(float64(weeks) * 0.7)
	case years > 1:
		return int(float64(weeks) * 0.85)
	default:
		return weeks
	}
}

func completion(owned, total int) float64 {
	if total == 0 {
		return 100.0
	}
	return math.Round(float64(owned)/float64(total)*1000) / 10
}

func uniqueSkills(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		key := strings.ToLower(n)
		if n == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, n)
	}
	return out
}

func containsFold(list []string, s string) bool {
	for _, item := range list {
		if strings.EqualFold(item, s) {
			return true
		}
	}
	return false
}
