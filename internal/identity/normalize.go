package identity

import "strings"

// NormalizeUsername lowercases and trims so lookups and the unique index
// treat "Alice" and " alice " as the same account.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// NormalizeEmail uppercases the trimmed address, mirroring the normalized
// column stored alongside the raw value.
func NormalizeEmail(email string) string {
	return strings.ToUpper(strings.TrimSpace(email))
}
