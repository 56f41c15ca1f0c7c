package report

import (
	"fmt"
	"os"
	"strings"
)

// Sink receives the rendered Markdown summary.
type Sink interface {
	Append(summary string) error
}

// FileSink appends to a file, the way GitHub Actions expects the step summary
// file named by GITHUB_STEP_SUMMARY to be written.
type FileSink struct {
	Path string
}

func (s FileSink) Append(summary string) error {
	f, err := os.OpenFile(s.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open step summary: %w", err)
	}
	if _, err := f.WriteString(summary); err != nil {
		_ = f.Close()
		return fmt.Errorf("write step summary: %w", err)
	}
	return f.Close()
}

type nopSink struct{}

func (nopSink) Append(string) error { return nil }

// NewSink returns a FileSink for path, or a sink that discards everything
// when path is blank.
func NewSink(path string) Sink {
	if strings.TrimSpace(path) == "" {
		return nopSink{}
	}
	return FileSink{Path: path}
}

// Publish hands summary to sink and drops any error: the summary is a
// convenience artifact and must never change the check outcome.
func Publish(sink Sink, summary string) {
	if sink == nil {
		return
	}
	_ = sink.Append(summary)
}
