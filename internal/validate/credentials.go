package validate

import (
	"regexp"
	"strings"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidateEmail checks the structural shape of an email address
func ValidateEmail(email string) FieldResult {
	if blank(email) {
		return invalid("Email is required")
	}
	if !emailPattern.MatchString(email) {
		return invalid("Please enter a valid email address")
	}
	return valid()
}

// ValidatePassword checks composition rules and reports the first failure
func ValidatePassword(password string) FieldResult {
	if password == "" {
		return invalid("Password is required")
	}
	if length(password) < MinPasswordLength {
		return invalid("Password must be at least %d characters long", MinPasswordLength)
	}
	if !strings.ContainsFunc(password, isASCIIUpper) {
		return invalid("Password must contain at least one uppercase letter")
	}
	if !strings.ContainsFunc(password, isASCIILower) {
		return invalid("Password must contain at least one lowercase letter")
	}
	if !strings.ContainsFunc(password, isASCIIDigit) {
		return invalid("Password must contain at least one number")
	}
	return valid()
}

// ValidateLoginCredentials checks both login fields
func ValidateLoginCredentials(email, password string) Result {
	var errs []string
	if r := ValidateEmail(email); !r.IsValid {
		errs = append(errs, r.Error)
	}
	if r := ValidatePassword(password); !r.IsValid {
		errs = append(errs, r.Error)
	}
	return newResult(errs)
}

func isASCIIUpper(r rune) bool { return r >= 'A' && r <= 'Z' }
func isASCIILower(r rune) bool { return r >= 'a' && r <= 'z' }
func isASCIIDigit(r rune) bool { return r >= '0' && r <= '9' }
