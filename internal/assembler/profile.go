package assembler

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"pa-cli/internal/config"
	"pa-cli/internal/fsutil"
)

// Part is one source file of a prompt together with its raw contents.
type Part struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// Profile is the fully resolved content view of one prompt, used by the
// inspection surface. No placeholder substitution or template rendering is
// applied.
type Profile struct {
	Kind config.Kind
	// Parts holds each fragment for sequence prompts.
	Parts []Part
	// Template holds the single template for template prompts.
	Template *Part
	// Combined is the concatenated raw content.
	Combined string
}

// Profile reads the named prompt's source files and returns their contents.
func (a *Assembler) Profile(name string) (*Profile, error) {
	spec := a.cfg.Registry.Get(name)
	if spec == nil {
		return nil, &UnknownPromptError{Name: name}
	}

	base := a.basePath(spec)

	if spec.Kind == config.KindTemplate {
		path := a.fragmentPath(base, spec.Template)
		content, err := fsutil.ReadText(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read template %q for prompt %q: %w", spec.Template, name, err)
		}
		part := Part{Path: path, Content: content}
		return &Profile{Kind: spec.Kind, Template: &part, Combined: content}, nil
	}

	profile := &Profile{Kind: spec.Kind}
	var combined strings.Builder
	for _, file := range spec.Files {
		path := a.fragmentPath(base, file)
		content, err := fsutil.ReadText(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read fragment %q for prompt %q: %w", file, name, err)
		}
		profile.Parts = append(profile.Parts, Part{Path: path, Content: content})
		combined.WriteString(content)
	}
	profile.Combined = combined.String()
	return profile, nil
}

// AssembleParts concatenates raw fragment files by name without placeholder
// substitution. Relative names resolve against the working directory first,
// then the default prompt path.
func (a *Assembler) AssembleParts(workingDir string, names []string) (string, error) {
	if len(names) == 0 {
		return "", errors.New("no parts provided")
	}

	var out strings.Builder
	for _, name := range names {
		path, err := a.resolvePart(workingDir, name)
		if err != nil {
			return "", err
		}
		content, err := fsutil.ReadText(path)
		if err != nil {
			return "", fmt.Errorf("failed to read part %q at %s: %w", name, path, err)
		}
		out.WriteString(content)
	}

	return out.String(), nil
}

func (a *Assembler) resolvePart(workingDir, name string) (string, error) {
	if filepath.IsAbs(name) {
		if fileExists(name) {
			return name, nil
		}
		return "", fmt.Errorf("missing part %q", name)
	}

	if candidate := filepath.Join(workingDir, name); fileExists(candidate) {
		return candidate, nil
	}

	if base := a.cfg.DefaultPromptPath; base != "" {
		if candidate := filepath.Join(base, name); fileExists(candidate) {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("missing part %q", name)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
