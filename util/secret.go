package util

import "strings"

// MaskToken hides all but the last four characters of a credential.
func MaskToken(token string) string {
	const visible = 4

	if len(token) <= visible {
		return strings.Repeat("*", len(token))
	}

	return strings.Repeat("*", visible) + token[len(token)-visible:]
}
