// Package skills finds vocabulary skills and certifications in CV text.
package skills

import (
	"sort"
	"strings"

	"github.com/Kele901/career-projector/internal/models"
	"github.com/Kele901/career-projector/internal/vocab"
)

// Extractor scans text against the skill vocabulary
type Extractor struct {
	vocab *vocab.Vocabulary
}

// NewExtractor creates a skill extractor bound to a vocabulary
func NewExtractor(v *vocab.Vocabulary) *Extractor {
	return &Extractor{vocab: v}
}

// Extract returns one record per vocabulary skill found in text, in vocabulary order.
// The level is read from the words around the first occurrence.
func (e *Extractor) Extract(text string) []models.SkillRecord {
	lower := strings.ToLower(text)
	found := make([]models.SkillRecord, 0)
	seen := make(map[string]bool)

	for _, term := range e.vocab.Skills {
		if seen[term.Name] {
			continue
		}
		idx := vocab.IndexTerm(lower, term.Name)
		if idx < 0 {
			continue
		}
		seen[term.Name] = true

		found = append(found, models.SkillRecord{
			Name:       DisplayName(term.Name),
			Category:   term.Category,
			Level:      e.level(lower, idx, len(term.Name)),
			Confidence: e.vocab.SkillConfidence,
		})
	}

	return found
}

// Technologies lists the skills mentioned in text as a comma-separated string
func (e *Extractor) Technologies(text string) string {
	records := e.Extract(text)
	names := make([]string, len(records))
	for i, r := range records {
		names[i] = r.Name
	}
	return strings.Join(names, ", ")
}

// Certifications returns the known certifications mentioned in text
func (e *Extractor) Certifications(text string) []string {
	lower := strings.ToLower(text)
	var certs []string
	for _, cert := range e.vocab.Certifications {
		if vocab.ContainsTerm(lower, cert) {
			certs = append(certs, DisplayName(cert))
		}
	}
	return certs
}

func (e *Extractor) level(lower string, idx, length int) models.SkillLevel {
	start := max(0, idx-e.vocab.LevelWindow)
	end := min(len(lower), idx+length+e.vocab.LevelWindow)

	if label, ok := e.vocab.LevelRules.Match(lower[start:end]); ok {
		return models.SkillLevel(label)
	}
	return models.LevelIntermediate
}

// Categorize groups skills by category, keeping extraction order inside each group
func Categorize(skills []models.SkillRecord) map[models.SkillCategory][]models.SkillRecord {
	grouped := make(map[models.SkillCategory][]models.SkillRecord)
	for _, s := range skills {
		category := s.Category
		if category == "" {
			category = models.CategoryGeneral
		}
		grouped[category] = append(grouped[category], s)
	}
	return grouped
}

// Summarize counts skills per category and level. Top categories are the three largest,
// ties broken by first appearance.
func Summarize(skills []models.SkillRecord) models.SkillSummary {
	summary := models.SkillSummary{
		Total:      len(skills),
		ByCategory: make(map[models.SkillCategory]int),
		ByLevel: map[models.SkillLevel]int{
			models.LevelExpert:       0,
			models.LevelIntermediate: 0,
			models.LevelBeginner:     0,
		},
	}

	var order []models.SkillCategory
	for category, group := range Categorize(skills) {
		summary.ByCategory[category] = len(group)
	}
	for _, s := range skills {
		category := s.Category
		if category == "" {
			category = models.CategoryGeneral
		}
		if !containsCategory(order, category) {
			order = append(order, category)
		}
		if _, ok := summary.ByLevel[s.Level]; ok {
			summary.ByLevel[s.Level]++
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return summary.ByCategory[order[i]] > summary.ByCategory[order[j]]
	})
	if len(order) > 3 {
		order = order[:3]
	}
	summary.TopCategories = order

	return summary
}

func containsCategory(list []models.SkillCategory, c models.SkillCategory) bool {
	for _, item := range list {
		if item == c {
			return true
		}
	}
	return false
}
