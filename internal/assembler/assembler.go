// Package assembler owns the merged prompt registry and exposes the render
// and query operations consumed by the CLI layer. The registry is built once
// by config.Load and never mutated afterwards, so an Assembler is safe for
// concurrent readers.
package assembler

import (
	"fmt"
	"path/filepath"
	"strings"

	"pa-cli/internal/config"
	"pa-cli/internal/fsutil"
	"pa-cli/internal/placeholder"
	"pa-cli/internal/template"
)

// UnknownPromptError reports a render or query against a name the registry
// does not contain.
type UnknownPromptError struct {
	Name string
}

func (e *UnknownPromptError) Error() string {
	return fmt.Sprintf("unknown prompt: %s", e.Name)
}

// DataNotAcceptedError reports structured data supplied to a sequence prompt.
type DataNotAcceptedError struct {
	Name string
}

func (e *DataNotAcceptedError) Error() string {
	return fmt.Sprintf("prompt %q does not accept structured data", e.Name)
}

// DataRequiredError reports a template prompt rendered without a data file.
type DataRequiredError struct {
	Name string
}

func (e *DataRequiredError) Error() string {
	return fmt.Sprintf("prompt %q requires a data file (JSON or TOML)", e.Name)
}

// Assembler is the facade over a completed configuration load.
type Assembler struct {
	cfg *config.Result
}

// Load builds an assembler from the configuration rooted at dir. Content
// validation failures return *config.InvalidConfigError with the full
// diagnostics bundle; structural failures return their typed errors directly.
func Load(dir string) (*Assembler, error) {
	result, err := config.Load(dir)
	if err != nil {
		return nil, err
	}
	return &Assembler{cfg: result}, nil
}

// Warnings returns the non-fatal issues collected during the load.
func (a *Assembler) Warnings() []config.Issue {
	return append([]config.Issue(nil), a.cfg.Warnings...)
}

// HasPrompts reports whether any prompt is defined.
func (a *Assembler) HasPrompts() bool {
	return a.cfg.Registry.Len() > 0
}

// Names returns the prompt names in registry order.
func (a *Assembler) Names() []string {
	return a.cfg.Registry.Names()
}

// Spec returns the resolved definition for name, or nil when unknown.
func (a *Assembler) Spec(name string) *config.PromptSpec {
	return a.cfg.Registry.Get(name)
}

// Kind returns the prompt's kind, used by callers to decide whether a data
// file is required before invoking Render.
func (a *Assembler) Kind(name string) (config.Kind, error) {
	spec := a.cfg.Registry.Get(name)
	if spec == nil {
		return "", &UnknownPromptError{Name: name}
	}
	return spec.Kind, nil
}

// Render assembles the named prompt into final text. Sequence prompts expand
// {N} placeholders against args and reject structured data; template prompts
// require a data file and may read args under the reserved context key.
func (a *Assembler) Render(name string, args []string, data *template.DataRef) (string, error) {
	spec := a.cfg.Registry.Get(name)
	if spec == nil {
		return "", &UnknownPromptError{Name: name}
	}

	switch spec.Kind {
	case config.KindSequence:
		if data != nil {
			return "", &DataNotAcceptedError{Name: name}
		}
		return a.renderSequence(name, spec, args)
	case config.KindTemplate:
		if data == nil {
			return "", &DataRequiredError{Name: name}
		}
		return a.renderTemplate(name, spec, args, *data)
	default:
		return "", fmt.Errorf("prompt %q has unknown kind %q", name, spec.Kind)
	}
}

func (a *Assembler) renderSequence(name string, spec *config.PromptSpec, args []string) (string, error) {
	base := a.basePath(spec)

	var out strings.Builder
	for _, file := range spec.Files {
		content, err := fsutil.ReadText(a.fragmentPath(base, file))
		if err != nil {
			return "", fmt.Errorf("failed to read fragment %q for prompt %q: %w", file, name, err)
		}

		expanded, err := placeholder.Expand(content, args)
		if err != nil {
			return "", fmt.Errorf("fragment %q of prompt %q: %w", file, name, err)
		}

		// Each fragment contributes exactly one trailing newline so
		// fragments never run together on one line.
		out.WriteString(strings.TrimRight(expanded, "\n"))
		out.WriteByte('\n')
	}

	return out.String(), nil
}

func (a *Assembler) renderTemplate(name string, spec *config.PromptSpec, args []string, data template.DataRef) (string, error) {
	processor := template.NewProcessor(a.basePath(spec))

	tmpl, err := processor.Load(name, spec.Template)
	if err != nil {
		return "", err
	}

	context, err := template.BuildContext(data, args)
	if err != nil {
		return "", fmt.Errorf("prompt %q: %w", name, err)
	}

	return processor.Execute(name, tmpl, context)
}

// basePath resolves the directory a prompt's files live under: its own
// override when present, the running default otherwise.
func (a *Assembler) basePath(spec *config.PromptSpec) string {
	if spec.PathOverride != "" {
		return spec.PathOverride
	}
	return a.cfg.DefaultPromptPath
}

func (a *Assembler) fragmentPath(base, file string) string {
	if filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(base, file)
}
