// utils/validator.go - Input validation
package utils

import (
	"regexp"
	"strings"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	// Roll numbers look like 22XX9999: two digits, a department code,
	// then digits.
	rollNoRegex = regexp.MustCompile(`^[0-9]{2}[A-Za-z]{2}[0-9]{1,6}$`)
)

// ValidateEmail checks if email is valid
func ValidateEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// ValidateRollNo checks the student roll number format.
func ValidateRollNo(rollNo string) bool {
	return rollNoRegex.MatchString(strings.TrimSpace(rollNo))
}

// ValidateDriveLink requires an http(s) URL.
func ValidateDriveLink(link string) bool {
	link = strings.TrimSpace(link)
	return strings.HasPrefix(link, "http://") || strings.HasPrefix(link, "https://")
}

// SanitizeInput removes potentially harmful characters
func SanitizeInput(input string) string {
	// Remove leading/trailing spaces
	input = strings.TrimSpace(input)

	// Remove null bytes
	input = strings.ReplaceAll(input, "\x00", "")

	return input
}
