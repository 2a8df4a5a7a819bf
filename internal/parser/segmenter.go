// Package parser turns raw CV text into sections, work-history records and profile details.
// Parsing is heuristic and never fails: malformed input yields fewer or looser records.
package parser

import (
	"strings"

	"github.com/Kele901/career-projector/internal/vocab"
)

// Sections maps a section name to the lines collected under its heading
type Sections map[string]string

// Experience returns the experience section text
func (s Sections) Experience() string {
	return s[vocab.SectionExperience]
}

// Segmenter splits documents on section header keywords
type Segmenter struct {
	vocab *vocab.Vocabulary
}

// NewSegmenter creates a segmenter bound to a vocabulary
func NewSegmenter(v *vocab.Vocabulary) *Segmenter {
	return &Segmenter{vocab: v}
}

// Segment scans the text line by line. A line containing a header keyword opens that
// section; other non-blank lines go to the open section, or are dropped before the
// first header. Every known section is present in the result, possibly empty.
func (s *Segmenter) Segment(text string) Sections {
	collected := make(map[string][]string)
	current := ""

	for _, line := range splitLines(text) {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		if name, ok := s.header(trimmed); ok {
			current = name
			continue
		}

		if current != "" {
			collected[current] = append(collected[current], trimmed)
		}
	}

	sections := make(Sections, len(s.vocab.SectionHeaders))
	for _, name := range s.vocab.SectionHeaders.Labels() {
		sections[name] = strings.Join(collected[name], "\n")
	}
	return sections
}

func (s *Segmenter) header(line string) (string, bool) {
	lower := strings.ToLower(line)
	for _, rule := range s.vocab.SectionHeaders {
		if vocab.ContainsSubstring(lower, rule.Terms) {
			return rule.Label, true
		}
	}
	return "", false
}

func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.Split(text, "\n")
}
