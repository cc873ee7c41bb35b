package auth

import (
	"strings"
	"unicode"
)

const minPasswordLength = 8

// A short list of the passwords most often seen in credential dumps.
var commonPasswords = map[string]struct{}{
	"password": {}, "password1": {}, "password123": {}, "12345678": {},
	"123456789": {}, "1234567890": {}, "qwerty123": {}, "qwertyuiop": {},
	"iloveyou": {}, "sunshine": {}, "princess": {}, "football": {},
	"baseball": {}, "welcome1": {}, "letmein1": {}, "abc12345": {},
	"admin123": {}, "passw0rd": {}, "trustno1": {}, "11111111": {},
	"00000000": {}, "superman": {}, "starwars": {}, "whatever": {},
}

// passwordProblems returns every strength rule pw breaks. email,
// firstName and lastName are used to reject passwords that merely
// repeat the account's own attributes.
func passwordProblems(pw, email, firstName, lastName string) []string {
	var problems []string

	if len([]rune(pw)) < minPasswordLength {
		problems = append(problems, "This password is too short. It must contain at least 8 characters.")
	}

	lower := strings.ToLower(pw)
	if _, ok := commonPasswords[lower]; ok {
		problems = append(problems, "This password is too common.")
	}

	if pw != "" && strings.IndexFunc(pw, func(r rune) bool { return !unicode.IsDigit(r) }) < 0 {
		problems = append(problems, "This password is entirely numeric.")
	}

	local := email
	if at := strings.LastIndex(email, "@"); at >= 0 {
		local = email[:at]
	}
	for _, attr := range []string{local, email, firstName, lastName} {
		attr = strings.ToLower(strings.TrimSpace(attr))
		if len(attr) >= 3 && (lower == attr || strings.Contains(lower, attr) && len(lower)-len(attr) < 3) {
			problems = append(problems, "The password is too similar to your personal details.")
			break
		}
	}

	return problems
}
