// Package email derives a display name from an email address for sign-up
// forms that leave the name blank.
package email

import (
	"strings"
	"unicode"
)

// DeriveDisplayName builds a human-readable name from the local part of an
// email address: "a.nair@gov.example" becomes "A Nair". Separators ('.', '_',
// '-', '+') split the local part into words.
func DeriveDisplayName(email string) string {
	localPart := email
	if at := strings.IndexByte(email, '@'); at > 0 {
		localPart = email[:at]
	}

	parts := strings.FieldsFunc(localPart, func(r rune) bool {
		return r == '.' || r == '_' || r == '-' || r == '+'
	})

	if len(parts) == 0 {
		return "User"
	}

	for i, p := range parts {
		parts[i] = capitalize(p)
	}
	return strings.Join(parts, " ")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}

	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
