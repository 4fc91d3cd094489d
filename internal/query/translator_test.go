package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/lexel/strdb/internal/errors"
)

func intPtr(n int) *int       { return &n }
func boolPtr(b bool) *bool    { return &b }
func strPtr(s string) *string { return &s }

func TestTranslate_WordCountAndPalindrome(t *testing.T) {
	translation, err := Translate("all single word palindromic strings")
	require.NoError(t, err)

	assert.Equal(t, "all single word palindromic strings", translation.Query)
	assert.Equal(t, intPtr(1), translation.Filters.WordCount)
	assert.Equal(t, boolPtr(true), translation.Filters.IsPalindrome)
	assert.Nil(t, translation.Filters.MinLength)
	assert.Nil(t, translation.Filters.MaxLength)
	assert.Nil(t, translation.Filters.ContainsCharacter)
}

func TestTranslate_WordCountVariants(t *testing.T) {
	tests := []struct {
		query string
		count int
	}{
		{"one word strings", 1},
		{"single word entries", 1},
		{"two word strings", 2},
		{"strings with 3 words", 3},
		{"ten-word strings", 10},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			translation, err := Translate(tt.query)
			require.NoError(t, err)
			assert.Equal(t, intPtr(tt.count), translation.Filters.WordCount)
		})
	}
}

func TestTranslate_MinLength(t *testing.T) {
	tests := []struct {
		query string
		min   int
	}{
		// Exclusive phrasings translate to N+1.
		{"strings longer than 10 characters", 11},
		{"greater than 5 characters", 6},
		// Inclusive phrasings use N directly.
		{"at least 10 characters", 10},
		{"minimum length 7", 7},
		{"minimum length of 7", 7},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			translation, err := Translate(tt.query)
			require.NoError(t, err)
			assert.Equal(t, intPtr(tt.min), translation.Filters.MinLength)
		})
	}
}

func TestTranslate_MaxLength(t *testing.T) {
	tests := []struct {
		query string
		max   int
	}{
		{"strings shorter than 10 characters", 9},
		{"less than 5 characters", 4},
		{"at most 10 characters", 10},
		{"maximum length 7", 7},
		{"maximum length of 7", 7},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			translation, err := Translate(tt.query)
			require.NoError(t, err)
			assert.Equal(t, intPtr(tt.max), translation.Filters.MaxLength)
		})
	}
}

func TestTranslate_TightestBoundWins(t *testing.T) {
	t.Run("maximum lower bound kept", func(t *testing.T) {
		translation, err := Translate("longer than 5 and at least 20 characters")
		require.NoError(t, err)
		assert.Equal(t, intPtr(20), translation.Filters.MinLength)
	})

	t.Run("minimum upper bound kept", func(t *testing.T) {
		translation, err := Translate("shorter than 50 and at most 10 characters")
		require.NoError(t, err)
		assert.Equal(t, intPtr(10), translation.Filters.MaxLength)
	})
}

func TestTranslate_ContainsCharacter(t *testing.T) {
	tests := []struct {
		query string
		char  string
	}{
		{"strings containing the letter z", "z"},
		{"contains x", "x"},
		{"strings with the letter q", "q"},
		{"has the letter b", "b"},
		// Fixed heuristic, not vowel detection.
		{"strings containing the first vowel", "a"},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			translation, err := Translate(tt.query)
			require.NoError(t, err)
			assert.Equal(t, strPtr(tt.char), translation.Filters.ContainsCharacter)
		})
	}
}

func TestTranslate_CaseInsensitive(t *testing.T) {
	translation, err := Translate("ALL PALINDROMIC STRINGS LONGER THAN 10")
	require.NoError(t, err)
	assert.Equal(t, boolPtr(true), translation.Filters.IsPalindrome)
	assert.Equal(t, intPtr(11), translation.Filters.MinLength)
}

func TestTranslate_Unparseable(t *testing.T) {
	for _, q := range []string{"xyz", "show me everything", ""} {
		t.Run(q, func(t *testing.T) {
			translation, err := Translate(q)
			assert.Nil(t, translation)
			require.Error(t, err)
			assert.Equal(t, apperrors.CodeUnparseableQuery, apperrors.CodeOf(err))
		})
	}
}

func TestTranslate_EchoesOriginalQuery(t *testing.T) {
	original := "Palindromic Strings Longer Than 3"
	translation, err := Translate(original)
	require.NoError(t, err)
	assert.Equal(t, original, translation.Query)
}
