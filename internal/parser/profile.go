package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/Kele901/career-projector/internal/models"
	"github.com/Kele901/career-projector/internal/vocab"
)

var (
	emailPattern = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	phonePattern = regexp.MustCompile(`[+(]?[1-9][0-9 .\-()]{8,}[0-9]`)
	yearsPattern = regexp.MustCompile(`(?i)\b(\d{1,2})\+?\s*years?\b`)
)

// educationLevels is checked in order, highest degree first
var educationLevels = vocab.RuleTable{
	{Label: "PhD", Terms: []string{"phd", "ph.d.", "doctorate"}},
	{Label: "Masters", Terms: []string{"master", "masters", "master's", "msc", "m.sc.", "mba"}},
	{Label: "Bachelors", Terms: []string{"bachelor", "bachelors", "bachelor's", "bsc", "b.sc.", "degree"}},
	{Label: "Diploma/Certificate", Terms: []string{"diploma", "certificate"}},
}

// ExtractProfile pulls contact details, stated years of experience and the highest
// education level from the text. Missing details are left empty.
func ExtractProfile(text string) models.Profile {
	var p models.Profile

	p.Email = emailPattern.FindString(text)
	p.Phone = findPhone(text)

	if m := yearsPattern.FindStringSubmatch(text); m != nil {
		if years, err := strconv.ParseFloat(m[1], 64); err == nil {
			p.YearsExperience = &years
		}
	}

	if level, ok := educationLevels.Match(text); ok {
		p.EducationLevel = level
	}

	return p
}

// findPhone returns the first phone-like run with at least nine digits, which skips
// year ranges such as "2019 - 2021".
func findPhone(text string) string {
	for _, candidate := range phonePattern.FindAllString(text, -1) {
		digits := 0
		for _, r := range candidate {
			if r >= '0' && r <= '9' {
				digits++
			}
		}
		if digits >= 9 {
			return strings.TrimSpace(candidate)
		}
	}
	return ""
}
