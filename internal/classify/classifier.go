// Package classify labels employers and job titles with the shared heuristics used by
// both the work-history parser and the recommender.
package classify

import (
	"strings"

	"github.com/Kele901/career-projector/internal/models"
	"github.com/Kele901/career-projector/internal/vocab"
)

// Classifier applies the vocabulary rule tables
type Classifier struct {
	vocab *vocab.Vocabulary
}

// NewClassifier creates a classifier bound to a vocabulary
func NewClassifier(v *vocab.Vocabulary) *Classifier {
	return &Classifier{vocab: v}
}

// Company labels an employer by size, industry and tech flag.
// Both fields are unknown when name and description are empty.
func (c *Classifier) Company(name, description string) models.CompanyContext {
	if strings.TrimSpace(name) == "" && strings.TrimSpace(description) == "" {
		return models.CompanyContext{Size: models.SizeUnknown, Industry: models.IndustryUnknown}
	}

	combined := strings.ToLower(name + " " + description)
	ctx := models.CompanyContext{Size: models.SizeMedium, Industry: models.IndustryOther}

	switch {
	case vocab.ContainsAny(combined, c.vocab.WellKnownTech):
		ctx.Size = models.SizeEnterprise
		ctx.IsTech = true
	case vocab.ContainsAny(combined, c.vocab.EnterpriseKeywords):
		ctx.Size = models.SizeLarge
	case vocab.ContainsAny(combined, c.vocab.StartupKeywords):
		ctx.Size = models.SizeStartup
	}

	if label, ok := c.vocab.IndustryRules.Match(combined); ok {
		ctx.Industry = models.Industry(label)
		if ctx.Industry == models.IndustryTech {
			ctx.IsTech = true
		}
	}

	return ctx
}

// Seniority derives the seniority tier of a job title
func (c *Classifier) Seniority(title string) models.Seniority {
	if label, ok := c.vocab.SeniorityTiers.Match(title); ok {
		return models.Seniority(label)
	}
	return models.SeniorityMid
}
