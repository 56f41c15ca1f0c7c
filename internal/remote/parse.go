// Package remote extracts migration identifiers from the JSON printed by
// migration-listing tools. The shape of that JSON differs between tools and
// tool versions, so parsing dispatches on the kind of each JSON value.
package remote

import (
	"fmt"
	"os"
	"strings"

	"github.com/tidwall/gjson"

	"migration_drift_checker/internal/migration"
)

var (
	// wrapperKeys are tried in order when the payload is an object.
	wrapperKeys = []string{"migrations", "data", "result", "items"}
	// nameFields are tried in order on each object element.
	nameFields = []string{"name", "migration", "version", "file", "filename"}
)

// SchemaError reports a payload that is not a list of migrations after unwrapping.
type SchemaError struct {
	Got string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("unexpected remote migrations JSON shape: expected a list, got %s", e.Got)
}

// ReadFile parses the remote listing stored at path.
func ReadFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read remote migrations: %w", err)
	}
	return Parse(data)
}

// Parse returns the migration identifiers in data in source order, without
// duplicates or blanks. Source order stands in for the remote apply order.
func Parse(data []byte) ([]string, error) {
	if !gjson.ValidBytes(data) {
		return nil, &SchemaError{Got: "invalid JSON"}
	}

	payload := unwrap(gjson.ParseBytes(data))
	if !payload.IsArray() {
		return nil, &SchemaError{Got: kind(payload)}
	}

	names := []string{}
	seen := make(map[string]struct{})
	payload.ForEach(func(_, el gjson.Result) bool {
		name := identifier(el)
		if name == "" {
			return true
		}
		if _, dup := seen[name]; dup {
			return true
		}
		seen[name] = struct{}{}
		names = append(names, name)
		return true
	})
	return names, nil
}

func unwrap(root gjson.Result) gjson.Result {
	if !root.IsObject() {
		return root
	}
	for _, key := range wrapperKeys {
		if v := root.Get(key); v.IsArray() {
			return v
		}
	}
	return root
}

func identifier(el gjson.Result) string {
	switch {
	case el.Type == gjson.String:
		return migration.Normalize(el.Str)
	case el.IsObject():
		for _, field := range nameFields {
			v := el.Get(field)
			if v.Type == gjson.String && strings.TrimSpace(v.Str) != "" {
				return migration.Normalize(v.Str)
			}
		}
	}
	return ""
}

func kind(v gjson.Result) string {
	switch v.Type {
	case gjson.Null:
		return "null"
	case gjson.False, gjson.True:
		return "boolean"
	case gjson.Number:
		return "number"
	case gjson.String:
		return "string"
	}
	if v.IsArray() {
		return "array"
	}
	return "object"
}
