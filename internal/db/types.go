package db

// AppliedMigration is a row of a remote migrations table.
type AppliedMigration struct {
	Version string `json:"version"`
	Name    string `json:"name"`
}

// Identifier returns the canonical migration name, matching the local file
// name without its extension.
func (m AppliedMigration) Identifier() string {
	if m.Name == "" {
		return m.Version
	}
	return m.Version + "_" + m.Name
}
