package config

import (
	"fmt"
)

// Code is a stable classification for a configuration diagnostic.
type Code string

const (
	CodeParseError    Code = "parse_error"
	CodeInvalidPrompt Code = "invalid_prompt"
	CodeDuplicateVar  Code = "duplicate_var"
	CodeOverride      Code = "override"
)

// Issue is one diagnostic collected while loading configuration files.
type Issue struct {
	Path    string `json:"file"`
	Line    int    `json:"line,omitempty"` // 0 when the source line is unknown
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

// String renders the issue as a one-line human-readable diagnostic.
func (i Issue) String() string {
	if i.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", i.Path, i.Line, i.Message)
	}
	return fmt.Sprintf("%s: %s", i.Path, i.Message)
}

// Diagnostics is the full bundle of issues from one load pass. Errors make
// the load invalid; warnings are informational only.
type Diagnostics struct {
	Errors   []Issue `json:"errors"`
	Warnings []Issue `json:"warnings"`
}

// InvalidConfigError reports that a load completed its pass over every file
// but collected at least one validation error. It carries the complete
// diagnostics bundle, warnings included.
type InvalidConfigError struct {
	Diagnostics Diagnostics
}

func (e *InvalidConfigError) Error() string {
	n := len(e.Diagnostics.Errors)
	if n == 1 {
		return fmt.Sprintf("configuration is invalid: %s", e.Diagnostics.Errors[0])
	}
	return fmt.Sprintf("configuration is invalid: %d errors", n)
}

// ReadDirError reports a structural failure to enumerate the override
// directory. Unlike content issues it aborts the load outright.
type ReadDirError struct {
	Path string
	Err  error
}

func (e *ReadDirError) Error() string {
	return fmt.Sprintf("failed to enumerate %s: %v", e.Path, e.Err)
}

func (e *ReadDirError) Unwrap() error {
	return e.Err
}
