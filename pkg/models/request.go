package models

// Request carries everything the CLI layer gathered for one invocation.
type Request struct {
	// ConfigDir is the --config-dir flag value; empty means env/default.
	ConfigDir string
	// Target is the --target flag value; empty means env/default.
	Target string
	// JSON selects machine-readable output for list/show/validate.
	JSON bool
	// Prompt is the positional prompt name; empty triggers the interactive
	// picker on a terminal.
	Prompt string
	// Args are the remaining positional arguments.
	Args []string
	// Files are the raw part files for the parts command.
	Files []string
}
