// Package template renders template-kind prompts: it loads a template from a
// resolved base directory, converts external structured data into a uniform
// map context, and executes the template with sprig helpers available.
//
// Undefined context keys are a hard render error (missingkey=error). This is
// the documented policy for templates referencing data the file does not
// provide.
package template

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"

	"pa-cli/internal/fsutil"
)

// NotFoundError reports a template path that does not exist under the base
// directory.
type NotFoundError struct {
	Prompt   string
	Template string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("prompt %q template %q not found", e.Prompt, e.Template)
}

// RenderError wraps a parse or execution failure with the prompt and
// template names attached for diagnosis.
type RenderError struct {
	Prompt   string
	Template string
	Err      error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("rendering template %q for prompt %q: %v", e.Template, e.Prompt, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// Processor loads and executes templates rooted at a base directory.
// Template text is used verbatim; trailing newlines are preserved.
type Processor struct {
	baseDir string
}

// NewProcessor creates a processor rooted at baseDir.
func NewProcessor(baseDir string) *Processor {
	return &Processor{baseDir: baseDir}
}

// Load reads and parses the named template. The name is resolved relative to
// the base directory unless it is already absolute.
func (p *Processor) Load(promptName, templateName string) (*template.Template, error) {
	path := templateName
	if !filepath.IsAbs(path) {
		path = filepath.Join(p.baseDir, templateName)
	}

	if _, err := os.Stat(path); err != nil {
		return nil, &NotFoundError{Prompt: promptName, Template: templateName}
	}

	content, err := fsutil.ReadText(path)
	if err != nil {
		return nil, err
	}

	tmpl, err := template.New(templateName).
		Funcs(sprig.TxtFuncMap()).
		Option("missingkey=error").
		Parse(content)
	if err != nil {
		return nil, &RenderError{Prompt: promptName, Template: templateName, Err: err}
	}

	return tmpl, nil
}

// Execute renders a loaded template against context.
func (p *Processor) Execute(promptName string, tmpl *template.Template, context map[string]any) (string, error) {
	var buf strings.Builder
	if err := tmpl.Execute(&buf, context); err != nil {
		return "", &RenderError{Prompt: promptName, Template: tmpl.Name(), Err: err}
	}
	return buf.String(), nil
}
