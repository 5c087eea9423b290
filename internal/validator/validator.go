package validator

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// ValidateString checks the length in characters of value once surrounding spaces are removed.
func ValidateString(value string, minLength int, maxLength int) error {
	n := utf8.RuneCountInString(strings.TrimSpace(value))
	if n < minLength || n > maxLength {
		return fmt.Errorf("must contain from %d to %d characters", minLength, maxLength)
	}

	return nil
}

func ValidateUserID(value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("user ID is required")
	}
	if err := ValidateString(value, 1, 128); err != nil {
		return fmt.Errorf("user ID %w", err)
	}

	return nil
}
