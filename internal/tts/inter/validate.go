package inter

import (
	"fmt"
	"unicode/utf8"
)

// ValidateText is the shared length check behind every provider's
// ValidateInput. maxChars is the provider's hard limit and warnThreshold
// the point past which a warning is attached. Pure; never calls the
// network. Duration is estimated at 50ms per character.
func ValidateText(input TextInput, providerName string, maxChars, warnThreshold uint32) ValidationResult {
	charCount := uint32(utf8.RuneCountInString(input.Content))
	isValid := charCount > 0 && charCount <= maxChars

	result := ValidationResult{
		IsValid:           isValid,
		CharacterCount:    charCount,
		EstimatedDuration: float32(charCount) * 0.05,
		Warnings:          []string{},
		Errors:            []string{},
	}

	if charCount > warnThreshold && charCount <= maxChars {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Text is approaching %s's limit", providerName))
	}
	if !isValid {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Text must be between 1 and %d characters", maxChars))
	}

	return result
}

// WordCount counts whitespace-separated words, matching the metadata the
// providers report.
func WordCount(s string) uint32 {
	count := uint32(0)
	inWord := false
	for _, r := range s {
		switch r {
		case ' ', '\t', '\n', '\r', '\f', '\v':
			inWord = false
		default:
			if !inWord {
				count++
			}
			inWord = true
		}
	}
	return count
}
