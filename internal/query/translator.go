package query

import (
	"regexp"
	"strconv"
	"strings"

	apperrors "github.com/lexel/strdb/internal/errors"
)

// Translation is the result of translating a natural-language query: the
// original query text echoed for response transparency, plus the structured
// filters derived from it.
type Translation struct {
	Query   string  `json:"query"`
	Filters Filters `json:"filters"`
}

// rule is one pattern check of the translator. Rules are evaluated in order
// against the lowercased query; every matching rule contributes to the
// filter set, and a later rule overwrites an earlier one for the same field
// (last-match-wins). Length-bound rules keep the tightest bound instead.
type rule struct {
	name  string
	apply func(lowered string, f *Filters) bool
}

var numberWords = map[string]int{
	"single": 1,
	"one":    1,
	"two":    2,
	"three":  3,
	"four":   4,
	"five":   5,
	"six":    6,
	"seven":  7,
	"eight":  8,
	"nine":   9,
	"ten":    10,
}

var (
	wordCountRe = regexp.MustCompile(`\b(\d+|single|one|two|three|four|five|six|seven|eight|nine|ten)[ -]words?\b`)

	// Exclusive phrasings translate to N+1 / N-1; inclusive ones use N
	// directly. This convention is deliberate: "longer than 10" admits 11.
	minExclusiveRe = regexp.MustCompile(`\b(?:longer|greater) than (\d+)\b`)
	atLeastRe      = regexp.MustCompile(`\bat least (\d+)\b`)
	minLengthRe    = regexp.MustCompile(`\bminimum length (?:of )?(\d+)\b`)
	maxExclusiveRe = regexp.MustCompile(`\b(?:shorter|less) than (\d+)\b`)
	atMostRe       = regexp.MustCompile(`\bat most (\d+)\b`)
	maxLengthRe    = regexp.MustCompile(`\bmaximum length (?:of )?(\d+)\b`)

	containsRe   = regexp.MustCompile(`\bcontain(?:s|ing)? (?:the letter )?([a-z])\b`)
	withCharRe   = regexp.MustCompile(`\bwith (?:the )?(?:character|letter) ([a-z])\b`)
	hasCharRe    = regexp.MustCompile(`\bhas (?:the letter )?([a-z])\b`)
	firstVowelRe = regexp.MustCompile(`\bfirst vowel\b`)
)

var rules = []rule{
	{name: "word_count", apply: func(q string, f *Filters) bool {
		matched := false
		for _, m := range wordCountRe.FindAllStringSubmatch(q, -1) {
			n, ok := numberWords[m[1]]
			if !ok {
				parsed, err := strconv.Atoi(m[1])
				if err != nil {
					continue
				}
				n = parsed
			}
			count := n
			f.WordCount = &count
			matched = true
		}
		return matched
	}},
	{name: "palindrome", apply: func(q string, f *Filters) bool {
		if !strings.Contains(q, "palindrom") {
			return false
		}
		yes := true
		f.IsPalindrome = &yes
		return true
	}},
	{name: "min_length_exclusive", apply: boundRule(minExclusiveRe, 1, tightenMin)},
	{name: "min_length_at_least", apply: boundRule(atLeastRe, 0, tightenMin)},
	{name: "min_length_minimum", apply: boundRule(minLengthRe, 0, tightenMin)},
	{name: "max_length_exclusive", apply: boundRule(maxExclusiveRe, -1, tightenMax)},
	{name: "max_length_at_most", apply: boundRule(atMostRe, 0, tightenMax)},
	{name: "max_length_maximum", apply: boundRule(maxLengthRe, 0, tightenMax)},
	{name: "contains_character", apply: charRule(containsRe)},
	{name: "with_character", apply: charRule(withCharRe)},
	{name: "has_character", apply: charRule(hasCharRe)},
	{name: "first_vowel", apply: func(q string, f *Filters) bool {
		// Fixed heuristic: "first vowel" always means 'a'. Not general
		// vowel detection.
		if !firstVowelRe.MatchString(q) {
			return false
		}
		ch := "a"
		f.ContainsCharacter = &ch
		return true
	}},
}

// boundRule builds a rule that extracts every numeric threshold matched by
// re, applies the exclusive-bound offset, and keeps the tightest bound when
// multiple phrases occur.
func boundRule(re *regexp.Regexp, offset int, tighten func(f *Filters, n int)) func(string, *Filters) bool {
	return func(q string, f *Filters) bool {
		matched := false
		for _, m := range re.FindAllStringSubmatch(q, -1) {
			n, err := strconv.Atoi(m[1])
			if err != nil {
				continue
			}
			tighten(f, n+offset)
			matched = true
		}
		return matched
	}
}

// tightenMin keeps the maximum lower bound.
func tightenMin(f *Filters, n int) {
	if f.MinLength == nil || n > *f.MinLength {
		bound := n
		f.MinLength = &bound
	}
}

// tightenMax keeps the minimum upper bound.
func tightenMax(f *Filters, n int) {
	if f.MaxLength == nil || n < *f.MaxLength {
		bound := n
		f.MaxLength = &bound
	}
}

// charRule builds a rule that sets the contains-character filter from the
// single letter captured by re.
func charRule(re *regexp.Regexp) func(string, *Filters) bool {
	return func(q string, f *Filters) bool {
		matched := false
		for _, m := range re.FindAllStringSubmatch(q, -1) {
			ch := m[1]
			f.ContainsCharacter = &ch
			matched = true
		}
		return matched
	}
}

// Translate derives a structured filter set from a free-text query. All
// rules are checked independently against the lowercased query and every
// match contributes. A query from which zero rules fire is a failure, never
// a silently empty filter set.
func Translate(q string) (*Translation, error) {
	lowered := strings.ToLower(q)

	var f Filters
	matched := false
	for _, r := range rules {
		if r.apply(lowered, &f) {
			matched = true
		}
	}

	if !matched || f.IsEmpty() {
		return nil, apperrors.UnparseableQuery(q)
	}

	return &Translation{Query: q, Filters: f}, nil
}
