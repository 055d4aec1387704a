package identity

import (
	"strings"
	"unicode"

	"github.com/shoporders/backend/internal/domain/shared"
)

// DefaultPasswordMinLength is the minimum password length when none is configured
const DefaultPasswordMinLength = 8

// commonPasswords is a short deny-list of the most frequently leaked passwords
var commonPasswords = map[string]struct{}{
	"password": {}, "password1": {}, "password123": {}, "12345678": {}, "123456789": {},
	"1234567890": {}, "qwerty123": {}, "qwertyuiop": {}, "iloveyou": {}, "11111111": {},
	"00000000": {}, "abc12345": {}, "letmein1": {}, "welcome1": {}, "admin123": {},
	"sunshine": {}, "football": {}, "baseball": {}, "princess": {}, "trustno1": {},
	"superman": {}, "starwars": {}, "passw0rd": {}, "1q2w3e4r": {}, "zaq12wsx": {},
}

// PasswordPolicy validates new passwords against length, content and similarity rules
type PasswordPolicy struct {
	MinLength int
}

// NewPasswordPolicy creates a policy, falling back to the default minimum length
func NewPasswordPolicy(minLength int) PasswordPolicy {
	if minLength <= 0 {
		minLength = DefaultPasswordMinLength
	}
	return PasswordPolicy{MinLength: minLength}
}

// Validate returns an INVALID_PASSWORD error listing every violated rule.
// attrs are user attributes (e-mail, names) the password must not resemble.
func (p PasswordPolicy) Validate(password string, attrs ...string) error {
	var problems []string

	if len([]rune(password)) < p.MinLength {
		problems = append(problems, "This password is too short")
	}
	if password != "" && isAllDigits(password) {
		problems = append(problems, "This password is entirely numeric")
	}
	if _, ok := commonPasswords[strings.ToLower(password)]; ok {
		problems = append(problems, "This password is too common")
	}
	if similarToAttributes(password, attrs) {
		problems = append(problems, "The password is too similar to the personal information")
	}

	if len(problems) > 0 {
		return shared.NewDomainError("INVALID_PASSWORD", strings.Join(problems, "; "))
	}
	return nil
}

func isAllDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func similarToAttributes(password string, attrs []string) bool {
	pw := strings.ToLower(password)
	for _, attr := range attrs {
		attr = strings.ToLower(strings.TrimSpace(attr))
		if at := strings.IndexByte(attr, '@'); at > 0 {
			attr = attr[:at]
		}
		if len(attr) < 3 {
			continue
		}
		if pw == attr || strings.Contains(pw, attr) || strings.Contains(attr, pw) {
			return true
		}
	}
	return false
}
