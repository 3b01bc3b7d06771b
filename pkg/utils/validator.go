package utils

import (
	"fmt"
	"regexp"
)

var currencyRegex = regexp.MustCompile(`^[A-Z]{3}$`)

// ValidateCurrency validates an ISO 4217 style currency code
func ValidateCurrency(code string) error {
	if !currencyRegex.MatchString(code) {
		return fmt.Errorf("invalid currency code: %s", code)
	}
	return nil
}

// ValidateActorID validates a user identifier carried in request headers
func ValidateActorID(actor string) error {
	if actor == "" {
		return fmt.Errorf("actor is required")
	}
	if len(actor) > 128 {
		return fmt.Errorf("actor exceeds maximum length: %d", len(actor))
	}
	return nil
}

// SanitizeString removes control characters from free-text input
func SanitizeString(s string) string {
	return regexp.MustCompile(`[\x00-\x1f\x7f]`).ReplaceAllString(s, "")
}
