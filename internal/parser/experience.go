package parser

import (
	"regexp"
	"strings"
	"time"

	"github.com/Kele901/career-projector/internal/classify"
	"github.com/Kele901/career-projector/internal/models"
	"github.com/Kele901/career-projector/internal/vocab"
)

const headerTrimChars = " \t-–—|,;:•*·"

var (
	titleCompanySeparator = regexp.MustCompile(`\s+[-–—|@]\s+|\s+at\s+`)
	sentenceBreak         = regexp.MustCompile(`^\s*[.;]\s+`)
	spaceRun              = regexp.MustCompile(`\s+`)
	// brackets left empty once the dates inside are removed, "( - )"
	emptyBrackets = regexp.MustCompile(`[(\[][\s\-–—,;:/|]*[)\]]`)
)

// Extractor parses work-history entries out of CV text
type Extractor struct {
	vocab      *vocab.Vocabulary
	classifier *classify.Classifier
	now        func() time.Time
}

// Option configures an Extractor
type Option func(*Extractor)

// WithClock sets the clock used for durations of ongoing roles
func WithClock(now func() time.Time) Option {
	return func(e *Extractor) {
		e.now = now
	}
}

// NewExtractor creates a work-history extractor
func NewExtractor(v *vocab.Vocabulary, c *classify.Classifier, opts ...Option) *Extractor {
	e := &Extractor{
		vocab:      v,
		classifier: c,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

type entryDraft struct {
	rec  models.WorkExperience
	desc []string
}

// Extract returns the work history of a document. The experience section is used when it
// has content, otherwise the full text is scanned for an experience heading.
func (e *Extractor) Extract(sections Sections, text string) []models.WorkExperience {
	body := sections.Experience()
	if strings.TrimSpace(body) == "" {
		body = e.fallbackScan(text)
	}
	return e.ParseEntries(body)
}

// fallbackScan collects the lines between an experience heading and the next stop heading.
// Without any experience heading the whole document is scanned.
func (e *Extractor) fallbackScan(text string) string {
	var lines []string
	inExperience := false
	found := false

	for _, line := range splitLines(text) {
		lower := strings.ToLower(strings.TrimSpace(line))
		switch {
		case vocab.ContainsSubstring(lower, e.vocab.ExperienceStart):
			inExperience = true
			found = true
		case inExperience && vocab.ContainsSubstring(lower, e.vocab.ExperienceStop):
			return strings.Join(lines, "\n")
		case inExperience:
			lines = append(lines, line)
		}
	}

	if !found {
		return text
	}
	return strings.Join(lines, "\n")
}

// ParseEntries splits experience text into entries. A line that names a job title, or
// carries a date and at least two words, starts an entry; following lines are its
// description. Lines before the first entry are dropped.
func (e *Extractor) ParseEntries(text string) []models.WorkExperience {
	var drafts []*entryDraft
	var current *entryDraft

	for _, line := range splitLines(text) {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if !e.isEntryStart(line) {
			if current != nil {
				current.desc = append(current.desc, line)
			}
			continue
		}

		rec, inline := e.parseHeader(line)
		if current != nil && e.merge(current, rec) {
			if inline != "" {
				current.desc = append(current.desc, inline)
			}
			continue
		}

		current = &entryDraft{rec: rec}
		if inline != "" {
			current.desc = append(current.desc, inline)
		}
		drafts = append(drafts, current)
	}

	now := e.now()
	entries := make([]models.WorkExperience, 0, len(drafts))
	for _, d := range drafts {
		rec := d.rec
		rec.Description = strings.Join(d.desc, "\n")
		rec.DurationMonths = DurationMonths(rec.StartDate, rec.EndDate, rec.IsCurrent, now)
		rec.SeniorityLevel = e.classifier.Seniority(rec.JobTitle)

		ctx := e.classifier.Company(rec.CompanyName, rec.Description)
		rec.CompanySize = ctx.Size
		rec.CompanyIndustry = ctx.Industry

		entries = append(entries, rec)
	}
	return entries
}

func (e *Extractor) isEntryStart(line string) bool {
	if vocab.ContainsAny(strings.ToLower(line), e.vocab.JobTitleKeywords) {
		return true
	}
	return len(ParseDates(line)) > 0 && len(strings.Fields(line)) >= 2
}

// merge completes an entry split over two lines: a date-only line after a title, or a
// title line after a date-only line. It reports whether rec was absorbed.
// A title-less date line directly under a title joins that entry on purpose instead of
// opening its own.
func (e *Extractor) merge(current *entryDraft, rec models.WorkExperience) bool {
	if len(current.desc) > 0 {
		return false
	}

	switch {
	case rec.JobTitle == "" && current.rec.StartDate == "" && rec.StartDate != "":
		current.rec.StartDate = rec.StartDate
		current.rec.EndDate = rec.EndDate
		current.rec.IsCurrent = rec.IsCurrent
		return true
	case current.rec.JobTitle == "" && rec.JobTitle != "":
		current.rec.JobTitle = rec.JobTitle
		current.rec.CompanyName = rec.CompanyName
		if current.rec.StartDate == "" {
			current.rec.StartDate = rec.StartDate
			current.rec.EndDate = rec.EndDate
			current.rec.IsCurrent = rec.IsCurrent
		}
		return true
	}
	return false
}

// parseHeader reads title, company and dates from an entry line. Narrative text that
// follows the dates after a full stop is returned separately as description.
func (e *Extractor) parseHeader(line string) (models.WorkExperience, string) {
	var rec models.WorkExperience

	dates := ParseDates(line)
	if len(dates) > 0 {
		rec.StartDate = dates[0]
	}
	if len(dates) > 1 {
		rec.EndDate = dates[1]
	}
	if HasPresent(line) {
		rec.IsCurrent = true
		rec.EndDate = "Present"
	}

	header, inline := line, ""
	if end := lastTokenEnd(line); end >= 0 {
		if loc := sentenceBreak.FindStringIndex(line[end:]); loc != nil {
			header = line[:end]
			inline = strings.TrimSpace(line[end+loc[1]:])
		}
	}

	rest := dateTokenPattern.ReplaceAllString(header, " ")
	rest = presentPattern.ReplaceAllString(rest, " ")
	rest = emptyBrackets.ReplaceAllString(rest, " ")
	rest = strings.Trim(spaceRun.ReplaceAllString(rest, " "), headerTrimChars)

	parts := titleCompanySeparator.Split(rest, 2)
	rec.JobTitle = strings.Trim(parts[0], headerTrimChars)
	if len(parts) > 1 {
		rec.CompanyName = strings.Trim(parts[1], headerTrimChars)
	}

	return rec, inline
}

func lastTokenEnd(line string) int {
	end := -1
	for _, loc := range dateTokenPattern.FindAllStringIndex(line, -1) {
		end = max(end, loc[1])
	}
	for _, loc := range presentPattern.FindAllStringIndex(line, -1) {
		end = max(end, loc[1])
	}
	return end
}
