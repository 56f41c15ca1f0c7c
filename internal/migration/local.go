package migration

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"sort"
)

// DefaultDir is where the Supabase CLI keeps migrations, relative to the repository root.
const DefaultDir = "supabase/migrations"

var filenamePattern = regexp.MustCompile(`^\d{14}_.+\.sql$`)

// ConfigurationError reports that the expected migrations directory is absent.
type ConfigurationError struct {
	Path string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("migrations directory not found: %s", e.Path)
}

// ListLocal returns the normalized names of timestamped migrations in dir,
// sorted ascending. Sorting the zero-padded timestamp prefix is chronological.
func ListLocal(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &ConfigurationError{Path: dir}
		}
		return nil, fmt.Errorf("list migrations: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !filenamePattern.MatchString(e.Name()) {
			continue
		}
		if name := Normalize(e.Name()); name != "" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}
