package domain

import (
	"strings"
	"unicode"
)

const (
	MinPasswordLength = 6
	MaxPasswordLength = 128
)

// ValidateEmailFormat performs a permissive shape check: exactly one "@",
// a non-empty local part, and a dot somewhere after the "@" that is neither
// its first nor the last character of the domain.
func ValidateEmailFormat(email string) bool {
	if strings.ContainsAny(email, " \t\r\n") {
		return false
	}
	if strings.Count(email, "@") != 1 {
		return false
	}
	local, host, _ := strings.Cut(email, "@")
	if local == "" || host == "" {
		return false
	}
	dot := strings.LastIndex(host, ".")
	return dot > 0 && dot < len(host)-1
}

// PasswordCheck is the outcome of ValidatePasswordStrength.
type PasswordCheck struct {
	Valid  bool
	Reason string
}

// ValidatePasswordStrength enforces the length window and requires at
// least one letter and one digit.
func ValidatePasswordStrength(password string) PasswordCheck {
	n := len([]rune(password))
	if n < MinPasswordLength {
		return PasswordCheck{Reason: "password must be at least 6 characters long"}
	}
	if n > MaxPasswordLength {
		return PasswordCheck{Reason: "password must be at most 128 characters long"}
	}

	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return PasswordCheck{Reason: "password must contain at least one letter and one digit"}
	}
	return PasswordCheck{Valid: true}
}

// NormalizeEmail lowercases and trims email for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
