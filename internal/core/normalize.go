package core

// normalize.go turns one raw CSV row into a canonical user.
//
// Every step is a hard gate and the first offending field wins:
//  1. Trim each field; an empty field fails with missing_field
//  2. Lowercase all fields
//  3. Capitalize the first letter of name and surname
//  4. Validate the email; failure is invalid_email
//
// The persistence layer stores the output verbatim, so this is the only
// place casing and email syntax are enforced.

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Length limits from RFC 5321 section 4.5.3.1.
const (
	maxEmailLength     = 254
	maxLocalPartLength = 64
)

// atext is the RFC 5322 atom character set.
const atext = "a-z0-9!#$%&'*+/=?^_`{|}~-"

// emailRegex matches a dot-atom local part and a domain of at least two
// LDH labels. Quoted local parts and address literals are not accepted.
var emailRegex = regexp.MustCompile(
	`(?i)^[` + atext + `]+(\.[` + atext + `]+)*` +
		`@[a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?(\.[a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?)+$`,
)

// Normalize validates and canonicalizes a raw record read from data row line.
// On failure the returned error is a ValidationError.
func Normalize(raw RawRecord, line int) (NormalizedUser, error) {
	fields := [...]struct {
		name  string
		value string
	}{
		{ColumnName, raw.Name},
		{ColumnSurname, raw.Surname},
		{ColumnEmail, raw.Email},
	}

	var clean [3]string
	for i, f := range fields {
		v := strings.TrimSpace(f.value)
		if v == "" {
			return NormalizedUser{}, missingField(line, f.name)
		}
		clean[i] = strings.ToLower(v)
	}

	user := NormalizedUser{
		Name:    capitalize(clean[0]),
		Surname: capitalize(clean[1]),
		Email:   clean[2],
		Line:    line,
	}

	if !ValidEmail(user.Email) {
		return NormalizedUser{}, ValidationError{
			Line:   line,
			Field:  ColumnEmail,
			Reason: ReasonInvalidEmail,
			Value:  user.Email,
		}
	}

	return user, nil
}

// ValidEmail reports whether s is a syntactically valid email address.
func ValidEmail(s string) bool {
	if len(s) > maxEmailLength {
		return false
	}
	at := strings.LastIndexByte(s, '@')
	if at < 1 || at > maxLocalPartLength {
		return false
	}
	return emailRegex.MatchString(s)
}

// capitalize upper-cases the first rune of an already lower-cased string.
// It is not locale aware: "o'neil" becomes "O'neil".
func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
