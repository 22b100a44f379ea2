package identity

import "strings"

// NormalizeUsername trims surrounding whitespace. Usernames stay case-sensitive.
func NormalizeUsername(s string) string {
	return strings.TrimSpace(s)
}
