package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// Exit codes for CLI commands.
const (
	ExitSuccess = 0
	ExitFailure = 1 // drift, malformed invocation or fatal error
)

// ErrDriftDetected is returned by the check command when the report is not
// clean. The report itself has already been printed.
var ErrDriftDetected = errors.New("migration drift detected")

// ExitError represents an error with a specific exit code.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure if the error is not an ExitError.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// Execute runs cmd and maps its outcome to a process exit status, printing
// fatal errors to stderr.
func Execute(cmd *cobra.Command, stderr io.Writer) int {
	err := cmd.Execute()
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrDriftDetected):
		return ExitFailure
	default:
		fmt.Fprintf(stderr, "[FAIL] %v\n", err)
		return GetExitCode(err)
	}
}

func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return &ExitError{Code: ExitFailure, Message: "usage: " + cmd.UseLine(), Err: err}
		}
		return nil
	}
}
