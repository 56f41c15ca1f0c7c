// Package report turns a drift report into CI output: a Markdown step
// summary, one-line diagnostics and a process exit status.
package report

import (
	"fmt"
	"io"
	"strings"

	"migration_drift_checker/internal/diff"
)

// DefaultMaxListed caps how many migrations are listed per category.
const DefaultMaxListed = 20

const (
	ExitOK    = 0
	ExitDrift = 1
)

type section struct {
	title string
	items []string
}

// Renderer formats drift reports.
type Renderer struct {
	MaxListed int
}

// ExitCode returns 1 when the report has any discrepancy, else 0.
func ExitCode(r diff.Report) int {
	if r.HasDrift() {
		return ExitDrift
	}
	return ExitOK
}

// Summary renders the report as a Markdown document for the CI step summary.
func (rn Renderer) Summary(env string, r diff.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## Migration drift check: %s\n\n", env)
	fmt.Fprintf(&b, "- Local migrations: %d\n", r.LocalCount)
	fmt.Fprintf(&b, "- Remote migrations: %d\n\n", r.RemoteCount)

	if !r.HasDrift() {
		b.WriteString("No drift detected: remote migrations match the repository.\n")
		return b.String()
	}

	for _, s := range sections(r) {
		fmt.Fprintf(&b, "### %s (%d)\n\n", s.title, len(s.items))
		if len(s.items) == 0 {
			b.WriteString("_none_\n\n")
			continue
		}
		shown, more := rn.limit(s.items)
		for _, name := range shown {
			fmt.Fprintf(&b, "- `%s`\n", name)
		}
		if more > 0 {
			fmt.Fprintf(&b, "- … and %d more\n", more)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// Diagnostics renders the concise lines written to the error stream when
// drift exists. It returns nil for a clean report.
func (rn Renderer) Diagnostics(env string, r diff.Report) []string {
	if !r.HasDrift() {
		return nil
	}
	lines := []string{
		fmt.Sprintf("[FAIL] Migration drift detected for %s (local=%d, remote=%d)", env, r.LocalCount, r.RemoteCount),
	}
	for _, s := range sections(r) {
		if len(s.items) == 0 {
			continue
		}
		shown, more := rn.limit(s.items)
		line := fmt.Sprintf("  %s (%d): %s", strings.ToLower(s.title), len(s.items), strings.Join(shown, ", "))
		if more > 0 {
			line += fmt.Sprintf(", … (+%d more)", more)
		}
		lines = append(lines, line)
	}
	return lines
}

// OKLine is printed to standard output when there is no drift.
func OKLine(env string, r diff.Report) string {
	return fmt.Sprintf("[OK] No migration drift for %s (local=%d, remote=%d)", env, r.LocalCount, r.RemoteCount)
}

// Emit writes the outcome of a check and returns the process exit status.
// The summary goes to sink on a best-effort basis.
func (rn Renderer) Emit(stdout, stderr io.Writer, sink Sink, env string, r diff.Report) int {
	if r.HasDrift() {
		for _, line := range rn.Diagnostics(env, r) {
			fmt.Fprintln(stderr, line)
		}
	} else {
		fmt.Fprintln(stdout, OKLine(env, r))
	}
	Publish(sink, rn.Summary(env, r))
	return ExitCode(r)
}

func (rn Renderer) limit(items []string) ([]string, int) {
	n := rn.MaxListed
	if n <= 0 {
		n = DefaultMaxListed
	}
	if len(items) <= n {
		return items, 0
	}
	return items[:n], len(items) - n
}

func sections(r diff.Report) []section {
	return []section{
		{title: "Missing on remote", items: r.MissingOnRemote},
		{title: "Extra on remote", items: r.ExtraOnRemote},
		{title: "Order mismatch", items: r.OrderErrors},
	}
}
