package vocab

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Rule pairs a label with the terms that select it
type Rule struct {
	Label string
	Terms []string
}

// RuleTable is an ordered list of rules. The first rule with a matching term wins.
type RuleTable []Rule

// Match returns the label of the first rule whose terms occur in text as whole words
func (t RuleTable) Match(text string) (string, bool) {
	lower := strings.ToLower(text)
	for _, rule := range t {
		if ContainsAny(lower, rule.Terms) {
			return rule.Label, true
		}
	}
	return "", false
}

// Labels returns the rule labels in priority order
func (t RuleTable) Labels() []string {
	labels := make([]string, len(t))
	for i, rule := range t {
		labels[i] = rule.Label
	}
	return labels
}

// IndexTerm returns the byte offset of the first whole-word occurrence of term in text,
// or -1. Both arguments must already be lower-cased. A match is whole-word when the
// characters on either side of it are not letters, digits or underscores, which keeps
// terms such as "c#", ".net" or "node.js" matchable.
func IndexTerm(text, term string) int {
	if term == "" || len(term) > len(text) {
		return -1
	}

	from := 0
	for from <= len(text)-len(term) {
		i := strings.Index(text[from:], term)
		if i < 0 {
			return -1
		}
		start := from + i
		end := start + len(term)
		if boundaryBefore(text, start) && boundaryAfter(text, end) {
			return start
		}
		_, size := utf8.DecodeRuneInString(text[start:])
		from = start + size
	}
	return -1
}

// ContainsTerm reports whether term occurs in text as a whole word
func ContainsTerm(text, term string) bool {
	return IndexTerm(text, term) >= 0
}

// ContainsAny reports whether any of terms occurs in text as a whole word
func ContainsAny(text string, terms []string) bool {
	for _, term := range terms {
		if ContainsTerm(text, term) {
			return true
		}
	}
	return false
}

// ContainsSubstring reports whether any of keywords occurs anywhere in text.
// Used for header detection, where plain substring matching is wanted.
func ContainsSubstring(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

func boundaryBefore(text string, start int) bool {
	if start == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(text[:start])
	return !isWordRune(r)
}

func boundaryAfter(text string, end int) bool {
	if end >= len(text) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(text[end:])
	return !isWordRune(r)
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
