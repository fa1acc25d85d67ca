package app

import (
	"errors"
	"fmt"

	"pa-cli/internal/config"
	"pa-cli/internal/fsutil"
)

// Exit codes for the failure classes the CLI distinguishes.
const (
	// ExitInvalidConfig signals collected validation errors.
	ExitInvalidConfig = 2
	// ExitStructural signals an I/O failure reading configuration.
	ExitStructural = 127
)

// ExitError requests a specific process exit code. The diagnostic text has
// already been written to stderr when this error is returned.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// loadErrorToExit prints a load failure to stderr and converts it into an
// exit-coded error: validation failures carry the full diagnostics bundle,
// structural failures abort with a single line.
func (a *App) loadErrorToExit(err error) error {
	var invalid *config.InvalidConfigError
	if errors.As(err, &invalid) {
		a.printDiagnostics(invalid.Diagnostics)
		return &ExitError{Code: ExitInvalidConfig}
	}

	var fileErr *fsutil.FileError
	if errors.As(err, &fileErr) {
		fmt.Fprintf(a.Stderr, "error: %v\n", fileErr)
		return &ExitError{Code: ExitStructural}
	}

	var dirErr *config.ReadDirError
	if errors.As(err, &dirErr) {
		fmt.Fprintf(a.Stderr, "error: %v\n", dirErr)
		return &ExitError{Code: ExitStructural}
	}

	return err
}

// printDiagnostics writes the bundle one line per issue, errors first.
func (a *App) printDiagnostics(d config.Diagnostics) {
	a.printIssues("error", d.Errors)
	a.printIssues("warning", d.Warnings)
}

func (a *App) printIssues(level string, issues []config.Issue) {
	for _, issue := range issues {
		fmt.Fprintf(a.Stderr, "%s: %s (%s)\n", level, issue, issue.Code)
	}
}
