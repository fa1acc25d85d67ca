package config

import (
	"fmt"
	"time"

	"pa-cli/internal/fsutil"
)

// Kind identifies how a prompt assembles its output.
type Kind string

const (
	// KindSequence concatenates plain-text fragments with positional
	// placeholder substitution.
	KindSequence Kind = "sequence"
	// KindTemplate renders a single template against structured data.
	KindTemplate Kind = "template"
)

// VarKind is the declared type of a prompt variable. Variables are purely
// descriptive metadata; they never affect rendering.
type VarKind string

const (
	VarString  VarKind = "string"
	VarPath    VarKind = "path"
	VarNumber  VarKind = "number"
	VarBoolean VarKind = "boolean"
)

func parseVarKind(raw string) (VarKind, error) {
	switch VarKind(raw) {
	case VarString, VarPath, VarNumber, VarBoolean:
		return VarKind(raw), nil
	default:
		return "", fmt.Errorf("unknown variable type %q", raw)
	}
}

// Variable describes one declared input of a prompt.
type Variable struct {
	Name        string
	Required    bool
	Kind        VarKind
	Description string
}

// Source records where a prompt definition came from. ModTime is best-effort;
// the zero value means it could not be determined.
type Source struct {
	Path    string
	ModTime time.Time
}

// Metadata carries the descriptive attributes of a prompt.
type Metadata struct {
	Description string
	Tags        []string
	Vars        []Variable
	// Stdin is the explicit stdin-support flag; nil means unset, in which
	// case sequence prompts default to supported and template prompts do not.
	Stdin  *bool
	Source Source
}

// PromptSpec is one prompt's resolved definition.
type PromptSpec struct {
	// PathOverride is the prompt's own resolved base directory, empty when
	// the file-level default applies.
	PathOverride string
	Kind         Kind
	// Files holds the ordered fragment paths for sequence prompts.
	Files []string
	// Template holds the template path for template prompts.
	Template string
	Metadata Metadata
}

// StdinSupported resolves the effective stdin-support flag.
func (s *PromptSpec) StdinSupported() bool {
	if s.Metadata.Stdin != nil {
		return *s.Metadata.Stdin
	}
	return s.Kind == KindSequence
}

// rawFile mirrors the on-disk shape of one configuration file. Decoding is
// strict: unrecognized keys fail the file.
type rawFile struct {
	PromptPath *string              `toml:"prompt_path"`
	Prompt     map[string]rawPrompt `toml:"prompt"`
}

type rawPrompt struct {
	PromptPath  *string   `toml:"prompt_path"`
	Prompts     *[]string `toml:"prompts"`
	Template    *string   `toml:"template"`
	Description *string   `toml:"description"`
	Tags        []string  `toml:"tags"`
	Vars        []rawVar  `toml:"vars"`
	Stdin       *bool     `toml:"stdin"`
}

type rawVar struct {
	Name        string  `toml:"name"`
	Required    bool    `toml:"required"`
	Type        string  `toml:"type"`
	Description *string `toml:"description"`
}

// buildPromptSpec validates one raw prompt definition into a PromptSpec.
// On failure it returns the single most relevant issue for this prompt;
// the caller continues with the remaining prompts and files.
func buildPromptSpec(root, name string, raw rawPrompt, src Source) (*PromptSpec, *Issue) {
	var pathOverride string
	if raw.PromptPath != nil {
		resolved, err := fsutil.Resolve(root, *raw.PromptPath)
		if err != nil {
			return nil, &Issue{
				Path:    src.Path,
				Code:    CodeInvalidPrompt,
				Message: fmt.Sprintf("prompt %q: %v", name, err),
			}
		}
		pathOverride = resolved
	}

	spec := &PromptSpec{
		PathOverride: pathOverride,
		Metadata:     buildMetadata(raw, src),
	}

	switch {
	case raw.Prompts != nil && raw.Template != nil:
		return nil, &Issue{
			Path:    src.Path,
			Code:    CodeInvalidPrompt,
			Message: fmt.Sprintf("prompt %q: prompts and template are exclusive options", name),
		}
	case raw.Prompts == nil && raw.Template == nil:
		return nil, &Issue{
			Path:    src.Path,
			Code:    CodeInvalidPrompt,
			Message: fmt.Sprintf("prompt %q: prompt must define either 'prompts' or 'template'", name),
		}
	case raw.Prompts != nil:
		if len(*raw.Prompts) == 0 {
			return nil, &Issue{
				Path:    src.Path,
				Code:    CodeInvalidPrompt,
				Message: fmt.Sprintf("prompt %q: prompt sequence cannot be empty", name),
			}
		}
		spec.Kind = KindSequence
		spec.Files = append([]string(nil), *raw.Prompts...)
	default:
		spec.Kind = KindTemplate
		spec.Template = *raw.Template
	}

	if issue := validateVars(name, raw.Vars, src); issue != nil {
		return nil, issue
	}

	return spec, nil
}

func buildMetadata(raw rawPrompt, src Source) Metadata {
	meta := Metadata{
		Tags:   append([]string(nil), raw.Tags...),
		Stdin:  raw.Stdin,
		Source: src,
	}
	if raw.Description != nil {
		meta.Description = *raw.Description
	}
	for _, v := range raw.Vars {
		variable := Variable{
			Name:     v.Name,
			Required: v.Required,
			Kind:     VarString,
		}
		if v.Type != "" {
			// Invalid kinds were already rejected by validateVars.
			if kind, err := parseVarKind(v.Type); err == nil {
				variable.Kind = kind
			}
		}
		if v.Description != nil {
			variable.Description = *v.Description
		}
		meta.Vars = append(meta.Vars, variable)
	}
	return meta
}

// validateVars checks the variable list independently of the kind rules.
// Duplicate names are a distinct diagnostic class from other shape errors.
func validateVars(name string, vars []rawVar, src Source) *Issue {
	seen := make(map[string]bool, len(vars))
	for _, v := range vars {
		if v.Name == "" {
			return &Issue{
				Path:    src.Path,
				Code:    CodeInvalidPrompt,
				Message: fmt.Sprintf("prompt %q: variable declaration is missing a name", name),
			}
		}
		if seen[v.Name] {
			return &Issue{
				Path:    src.Path,
				Code:    CodeDuplicateVar,
				Message: fmt.Sprintf("prompt %q: duplicate variable %q", name, v.Name),
			}
		}
		seen[v.Name] = true
		if v.Type != "" {
			if _, err := parseVarKind(v.Type); err != nil {
				return &Issue{
					Path:    src.Path,
					Code:    CodeInvalidPrompt,
					Message: fmt.Sprintf("prompt %q: variable %q: %v", name, v.Name, err),
				}
			}
		}
	}
	return nil
}
