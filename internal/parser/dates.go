package parser

import (
	"regexp"
	"strconv"
	"time"
)

var (
	dateTokenPattern = regexp.MustCompile(`(?i)\b(?:jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|june?|july?|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)\.?\s*(?:19|20)\d{2}\b|\b(?:0?[1-9]|1[0-2])/(?:19|20)\d{2}\b|\b(?:19|20)\d{2}\b`)
	presentPattern   = regexp.MustCompile(`(?i)\b(?:present|current)\b`)
	yearPattern      = regexp.MustCompile(`\b(?:19|20)\d{2}\b`)
)

// ParseDates returns the date tokens of a line in left-to-right order
func ParseDates(line string) []string {
	return dateTokenPattern.FindAllString(line, -1)
}

// HasPresent reports whether a line marks an ongoing role
func HasPresent(line string) bool {
	return presentPattern.MatchString(line)
}

// ExtractYear returns the first four-digit year in s
func ExtractYear(s string) (int, bool) {
	m := yearPattern.FindString(s)
	if m == "" {
		return 0, false
	}
	year, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return year, true
}

// DurationMonths computes the length of a role from years only. It returns nil when the
// start has no year. An end without a year, including "Present", counts as the current
// year. The result is at least one month.
func DurationMonths(start, end string, isCurrent bool, now time.Time) *int {
	startYear, ok := ExtractYear(start)
	if !ok {
		return nil
	}

	endYear := now.Year()
	if !isCurrent {
		if y, ok := ExtractYear(end); ok {
			endYear = y
		}
	}

	months := max((endYear-startYear)*12, 1)
	return &months
}
