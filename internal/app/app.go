// Package app implements the CLI-facing operations: render, list, show,
// validate, and parts. It glues settings resolution, the configuration load,
// and output handling together and maps failures onto process exit codes.
package app

import (
	"fmt"
	"io"
	"os"

	"pa-cli/internal/assembler"
	"pa-cli/internal/config"
	"pa-cli/internal/interactive"
	"pa-cli/internal/settings"
	"pa-cli/internal/template"
	"pa-cli/pkg/models"
)

// App bundles the I/O streams so handlers stay testable.
type App struct {
	Stdout io.Writer
	Stderr io.Writer
	// ReadStdin returns piped stdin content and whether any was present.
	ReadStdin func() (string, bool)
	// PickPrompt selects a prompt name interactively; overridden in tests.
	PickPrompt func(names []string) (string, error)
	// Interactive reports whether an interactive picker may run.
	Interactive func() bool
}

// New creates an App wired to the real process streams.
func New() *App {
	return &App{
		Stdout:     os.Stdout,
		Stderr:     os.Stderr,
		ReadStdin:  readPipedStdin,
		PickPrompt: interactive.PickPrompt,
		Interactive: func() bool {
			return interactive.StdinIsTerminal() && interactive.StdoutIsTerminal()
		},
	}
}

// load resolves settings, makes sure the config root exists, and performs
// the configuration load, mapping failures onto exit-coded errors.
func (a *App) load(req *models.Request) (*assembler.Assembler, *settings.Settings, error) {
	manager := settings.NewManager()
	manager.SetFlag("config_dir", req.ConfigDir)
	manager.SetFlag("target", req.Target)

	cfg, err := manager.Resolve()
	if err != nil {
		return nil, nil, err
	}

	if err := EnsureInitialized(cfg.ConfigDir); err != nil {
		return nil, nil, err
	}

	asm, err := assembler.Load(cfg.ConfigDir)
	if err != nil {
		return nil, nil, a.loadErrorToExit(err)
	}
	return asm, cfg, nil
}

// Run renders one prompt and writes it to the configured target.
func (a *App) Run(req *models.Request) error {
	asm, cfg, err := a.load(req)
	if err != nil {
		return err
	}

	name := req.Prompt
	if name == "" {
		if !a.Interactive() {
			return fmt.Errorf("prompt name is required")
		}
		name, err = a.PickPrompt(asm.Names())
		if err != nil {
			return err
		}
	}

	kind, err := asm.Kind(name)
	if err != nil {
		return err
	}

	stdinArg, hasStdin := a.ReadStdin()

	var output string
	switch kind {
	case config.KindSequence:
		args := req.Args
		if hasStdin {
			args = append([]string{stdinArg}, args...)
		}
		if len(args) > 0 && template.IsDataFile(args[0]) {
			return &assembler.DataNotAcceptedError{Name: name}
		}
		output, err = asm.Render(name, args, nil)
	case config.KindTemplate:
		if len(req.Args) == 0 {
			return &assembler.DataRequiredError{Name: name}
		}
		var ref template.DataRef
		ref, err = template.ParseDataRef(req.Args[0])
		if err != nil {
			return err
		}
		args := req.Args[1:]
		if hasStdin {
			args = append([]string{stdinArg}, args...)
		}
		output, err = asm.Render(name, args, &ref)
	}
	if err != nil {
		return err
	}

	return a.writeOutput(output, cfg.Target)
}

// Parts concatenates raw fragment files without placeholder substitution.
func (a *App) Parts(req *models.Request) error {
	asm, cfg, err := a.load(req)
	if err != nil {
		return err
	}

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to determine current directory: %w", err)
	}

	output, err := asm.AssembleParts(cwd, req.Files)
	if err != nil {
		return err
	}

	return a.writeOutput(output, cfg.Target)
}

// readPipedStdin reads stdin when it is not a terminal, trimming a single
// trailing line break so piped values substitute cleanly.
func readPipedStdin() (string, bool) {
	if interactive.StdinIsTerminal() {
		return "", false
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil || len(data) == 0 {
		return "", false
	}

	content := string(data)
	if n := len(content); n > 0 && content[n-1] == '\n' {
		content = content[:n-1]
		if n := len(content); n > 0 && content[n-1] == '\r' {
			content = content[:n-1]
		}
	}
	return content, true
}
