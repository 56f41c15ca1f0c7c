package migration

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

const holdDir = "_hold"

var legacyPattern = regexp.MustCompile(`^(?:0001|0002)_.+\.sql$`)

// Violation is a filename rule broken inside the migrations directory.
type Violation struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (v Violation) String() string {
	return v.Path + ": " + v.Message
}

// CheckPolicy walks dir and reports migration files the Supabase CLI would not
// have produced. Only 14-digit timestamp prefixes and the two legacy numeric
// migrations are accepted. A hold directory must carry a README.md.
// A missing dir yields no violations.
func CheckPolicy(dir string) ([]Violation, error) {
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}

	var out []Violation
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel := relative(dir, path)
		if d.IsDir() {
			if path != dir && d.Name() == holdDir {
				_, statErr := os.Stat(filepath.Join(path, "README.md"))
				if errors.Is(statErr, fs.ErrNotExist) {
					out = append(out, Violation{Path: rel, Message: "hold directory has no README.md explaining its limited use"})
				}
			}
			return nil
		}

		base := d.Name()
		if !strings.HasSuffix(base, ".sql") {
			return nil
		}
		switch {
		case strings.HasPrefix(base, "_"):
			out = append(out, Violation{Path: rel, Message: `file name cannot start with "_"; create it with "supabase migration new"`})
		case !filenamePattern.MatchString(base) && !legacyPattern.MatchString(base):
			out = append(out, Violation{Path: rel, Message: "expected a 14-digit timestamp prefix (YYYYMMDDHHMMSS_) or legacy 0001_/0002_"})
		}
		return nil
	})
	if err != nil {
		return out, fmt.Errorf("walk migrations: %w", err)
	}
	return out, nil
}

func relative(base, path string) string {
	rel, err := filepath.Rel(base, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
