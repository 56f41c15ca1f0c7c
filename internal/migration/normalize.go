package migration

import "strings"

// Normalize returns the canonical identifier for a migration file name or a
// name field from remote metadata. Blank input normalizes to "" which callers
// treat as absent.
func Normalize(raw string) string {
	name := strings.TrimSpace(raw)
	name = strings.TrimSuffix(name, ".sql")
	return strings.TrimSpace(name)
}
