// Package query implements the filter engine: the structured filter set
// applied to stored records, the predicate that matches property bundles
// against it, and the translator that derives a filter set from a
// natural-language query. Everything in this package is a stateless pure
// function and safe for concurrent use.
package query

import (
	"strings"

	"github.com/lexel/strdb/internal/analyzer"
	apperrors "github.com/lexel/strdb/internal/errors"
)

// Filters is the structured filter set for listing records. It is built
// either directly from request parameters or by the natural-language
// translator. Nil fields are absent constraints.
type Filters struct {
	IsPalindrome      *bool   `json:"is_palindrome,omitempty"`
	MinLength         *int    `json:"min_length,omitempty"`
	MaxLength         *int    `json:"max_length,omitempty"`
	WordCount         *int    `json:"word_count,omitempty"`
	ContainsCharacter *string `json:"contains_character,omitempty"`
}

// IsEmpty reports whether no constraint is set.
func (f Filters) IsEmpty() bool {
	return f.IsPalindrome == nil &&
		f.MinLength == nil &&
		f.MaxLength == nil &&
		f.WordCount == nil &&
		f.ContainsCharacter == nil
}

// Validate checks the filter set for internal contradictions. A lower bound
// exceeding the upper bound is a conflict, reported distinctly from an empty
// result set because the caller's intent is contradictory rather than merely
// unmatched.
func (f Filters) Validate() error {
	if f.MinLength != nil && f.MaxLength != nil && *f.MinLength > *f.MaxLength {
		return apperrors.FilterConflict(*f.MinLength, *f.MaxLength)
	}
	return nil
}

// Matches reports whether a property bundle satisfies every present filter.
// Length bounds are inclusive; palindrome flag and word count must match
// exactly; character containment is case-insensitive, folding both the
// filter character and the recorded characters.
func Matches(bundle analyzer.PropertyBundle, f Filters) bool {
	if f.IsPalindrome != nil && bundle.IsPalindrome != *f.IsPalindrome {
		return false
	}
	if f.MinLength != nil && bundle.Length < *f.MinLength {
		return false
	}
	if f.MaxLength != nil && bundle.Length > *f.MaxLength {
		return false
	}
	if f.WordCount != nil && bundle.WordCount != *f.WordCount {
		return false
	}
	if f.ContainsCharacter != nil && !containsFold(bundle.CharacterFrequency, *f.ContainsCharacter) {
		return false
	}
	return true
}

// containsFold checks case-insensitive character membership against the
// case-sensitive frequency map by folding its keys.
func containsFold(freq map[string]int, ch string) bool {
	want := strings.ToLower(ch)
	for k := range freq {
		if strings.ToLower(k) == want {
			return true
		}
	}
	return false
}
