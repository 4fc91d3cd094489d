// Package analyzer computes the derived properties of a submitted string.
// Every property is a pure function of the value; nothing here performs I/O,
// logs, or depends on wall-clock time, so Analyze is safe to call
// concurrently without coordination.
package analyzer

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// PropertyBundle is the fixed set of metrics derived from a string value.
// Length and UniqueCharacters count Unicode code points, not bytes, so a
// multi-byte character counts as one unit. CharacterFrequency keys are
// single-code-point strings; the map is case-sensitive, while the palindrome
// check folds case. That asymmetry is intentional and matches the published
// behavior of the service.
type PropertyBundle struct {
	Length             int            `json:"length"`
	IsPalindrome       bool           `json:"is_palindrome"`
	UniqueCharacters   int            `json:"unique_characters"`
	WordCount          int            `json:"word_count"`
	ContentHash        string         `json:"content_hash"`
	CharacterFrequency map[string]int `json:"character_frequency"`
}

// Analyze computes the property bundle for value. It is total: every string,
// including the empty string, yields a bundle.
func Analyze(value string) PropertyBundle {
	runes := []rune(value)

	freq := make(map[string]int, len(runes))
	for _, r := range runes {
		freq[string(r)]++
	}

	return PropertyBundle{
		Length:             len(runes),
		IsPalindrome:       isPalindrome(value),
		UniqueCharacters:   len(freq),
		WordCount:          len(strings.Fields(value)),
		ContentHash:        Hash(value),
		CharacterFrequency: freq,
	}
}

// Hash returns the lowercase hex SHA-256 digest of the UTF-8 bytes of value.
// The digest doubles as the record identity and dedup key, so it must be
// stable across platforms and releases.
func Hash(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}

// isPalindrome reports whether the lowercase-folded value reads identically
// forwards and backwards. Folding is the only normalization applied;
// whitespace and punctuation are significant.
func isPalindrome(value string) bool {
	folded := []rune(strings.ToLower(value))
	for i, j := 0, len(folded)-1; i < j; i, j = i+1, j-1 {
		if folded[i] != folded[j] {
			return false
		}
	}
	return true
}
