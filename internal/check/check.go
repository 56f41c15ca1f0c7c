// Package check runs one drift comparison between the migrations committed in
// a directory and an already parsed remote listing.
package check

import (
	"migration_drift_checker/internal/diff"
	"migration_drift_checker/internal/migration"
)

// Result bundles the drift report with the filename policy warnings found
// while reading the local migrations.
type Result struct {
	Report     diff.Report
	Violations []migration.Violation
}

// Run lists the local migrations in dir and compares them with remote.
// A missing dir fails with *migration.ConfigurationError before any
// comparison. Policy warnings never fail the run.
func Run(dir string, remote []string) (Result, error) {
	local, err := migration.ListLocal(dir)
	if err != nil {
		return Result{}, err
	}

	// A walk error only truncates the warnings.
	violations, _ := migration.CheckPolicy(dir)

	return Result{
		Report:     diff.Compare(local, remote),
		Violations: violations,
	}, nil
}
