// Package normalize holds small canonicalizers applied before anything is
// persisted, so equality checks and unique indexes see one spelling.
package normalize

import "strings"

// Email lowercases and trims an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims surrounding whitespace. Case is preserved; the CI shadow
// columns handle case-insensitive matching.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// Phone trims whitespace and strips the separators people paste in.
// A leading + is kept.
func Phone(s string) string {
	v := strings.TrimSpace(s)
	if v == "" {
		return ""
	}
	var b strings.Builder
	for i, r := range v {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && i == 0:
			b.WriteRune(r)
		}
	}
	return b.String()
}
