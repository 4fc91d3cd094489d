// Package validation enforces boundary constraints on request input before
// it reaches the analyzer or the filter engine.
package validation

import (
	"unicode/utf8"

	apperrors "github.com/lexel/strdb/internal/errors"
)

// DefaultMaxStringLength is the default cap on submitted value length,
// counted in Unicode code points.
const DefaultMaxStringLength = 10000

// Validator validates request input against configured limits.
type Validator struct {
	maxStringLength int
}

// NewValidator creates a validator with default limits.
func NewValidator() *Validator {
	return &Validator{maxStringLength: DefaultMaxStringLength}
}

// NewValidatorWithLimits creates a validator with a custom length cap.
func NewValidatorWithLimits(maxStringLength int) *Validator {
	return &Validator{maxStringLength: maxStringLength}
}

// ValidateValue checks a submitted string value. The empty string is valid;
// only oversized input is rejected, before it reaches the analyzer.
func (v *Validator) ValidateValue(value string) error {
	length := utf8.RuneCountInString(value)
	if length > v.maxStringLength {
		return apperrors.PayloadTooLarge(length, v.maxStringLength)
	}
	return nil
}

// ValidateContainsCharacter checks that a contains_character filter value is
// exactly one character. Multi-character values are an input validation
// failure at the boundary, not a matcher concern.
func (v *Validator) ValidateContainsCharacter(ch string) error {
	if utf8.RuneCountInString(ch) != 1 {
		return apperrors.InvalidInput("contains_character must be exactly one character")
	}
	return nil
}
