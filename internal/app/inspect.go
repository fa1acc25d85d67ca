package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"pa-cli/internal/assembler"
	"pa-cli/internal/config"
	"pa-cli/internal/settings"
	"pa-cli/pkg/models"
)

// schemaVersion tags the machine-readable envelopes so consumers can detect
// format changes.
const schemaVersion = 1

type promptJSON struct {
	Name           string       `json:"name"`
	Description    string       `json:"description,omitempty"`
	Tags           []string     `json:"tags,omitempty"`
	Vars           []varJSON    `json:"vars,omitempty"`
	StdinSupported bool         `json:"stdin_supported"`
	LastModified   string       `json:"last_modified,omitempty"`
	SourcePath     string       `json:"source_path"`
	Profile        *profileJSON `json:"profile,omitempty"`
}

type varJSON struct {
	Name        string `json:"name"`
	Required    bool   `json:"required"`
	Kind        string `json:"type"`
	Description string `json:"description,omitempty"`
}

type profileJSON struct {
	Kind     string           `json:"kind"`
	Parts    []assembler.Part `json:"parts,omitempty"`
	Template *assembler.Part  `json:"template,omitempty"`
	Content  string           `json:"content"`
}

type listEnvelope struct {
	SchemaVersion int          `json:"schema_version"`
	GeneratedAt   string       `json:"generated_at"`
	Prompts       []promptJSON `json:"prompts"`
}

type validateEnvelope struct {
	SchemaVersion int            `json:"schema_version"`
	GeneratedAt   string         `json:"generated_at"`
	Errors        []config.Issue `json:"errors"`
	Warnings      []config.Issue `json:"warnings"`
}

// List prints the registry, as names or as a JSON envelope.
func (a *App) List(req *models.Request) error {
	asm, _, err := a.load(req)
	if err != nil {
		return err
	}

	if req.JSON {
		envelope := listEnvelope{
			SchemaVersion: schemaVersion,
			GeneratedAt:   timestamp(),
			Prompts:       []promptJSON{},
		}
		for _, name := range asm.Names() {
			envelope.Prompts = append(envelope.Prompts, promptToJSON(name, asm.Spec(name), nil))
		}
		return a.printJSON(envelope)
	}

	if !asm.HasPrompts() {
		return fmt.Errorf("no prompts defined; ensure config.toml exists with prompt entries")
	}
	for _, name := range asm.Names() {
		fmt.Fprintln(a.Stdout, name)
	}
	return nil
}

// Show prints one prompt's metadata; the JSON form adds the content profile.
func (a *App) Show(req *models.Request) error {
	asm, _, err := a.load(req)
	if err != nil {
		return err
	}

	spec := asm.Spec(req.Prompt)
	if spec == nil {
		return &assembler.UnknownPromptError{Name: req.Prompt}
	}

	if req.JSON {
		profile, err := asm.Profile(req.Prompt)
		if err != nil {
			return err
		}
		return a.printJSON(promptToJSON(req.Prompt, spec, profile))
	}

	a.printPromptHuman(req.Prompt, spec)
	return nil
}

// Validate runs a load purely for its diagnostics. Unlike the other
// handlers it does not go through load, because the JSON form reports
// validation errors inside the envelope rather than on stderr.
func (a *App) Validate(req *models.Request) error {
	manager := settings.NewManager()
	manager.SetFlag("config_dir", req.ConfigDir)
	manager.SetFlag("target", req.Target)

	cfg, err := manager.Resolve()
	if err != nil {
		return err
	}
	if err := EnsureInitialized(cfg.ConfigDir); err != nil {
		return err
	}

	asm, err := assembler.Load(cfg.ConfigDir)
	if err != nil {
		var invalid *config.InvalidConfigError
		if !errors.As(err, &invalid) {
			return a.loadErrorToExit(err)
		}
		if req.JSON {
			if perr := a.printJSON(validateEnvelope{
				SchemaVersion: schemaVersion,
				GeneratedAt:   timestamp(),
				Errors:        issuesOrEmpty(invalid.Diagnostics.Errors),
				Warnings:      issuesOrEmpty(invalid.Diagnostics.Warnings),
			}); perr != nil {
				return perr
			}
		} else {
			a.printDiagnostics(invalid.Diagnostics)
		}
		return &ExitError{Code: ExitInvalidConfig}
	}

	warnings := asm.Warnings()
	if req.JSON {
		return a.printJSON(validateEnvelope{
			SchemaVersion: schemaVersion,
			GeneratedAt:   timestamp(),
			Errors:        []config.Issue{},
			Warnings:      issuesOrEmpty(warnings),
		})
	}

	a.printIssues("warning", warnings)
	fmt.Fprintln(a.Stdout, "configuration is valid")
	return nil
}

// issuesOrEmpty keeps envelope arrays as [] instead of null.
func issuesOrEmpty(issues []config.Issue) []config.Issue {
	if issues == nil {
		return []config.Issue{}
	}
	return issues
}

func (a *App) printPromptHuman(name string, spec *config.PromptSpec) {
	fmt.Fprintf(a.Stdout, "name: %s\n", name)
	fmt.Fprintf(a.Stdout, "kind: %s\n", spec.Kind)

	meta := spec.Metadata
	if meta.Description != "" {
		fmt.Fprintf(a.Stdout, "description: %s\n", meta.Description)
	}
	if len(meta.Tags) > 0 {
		fmt.Fprintf(a.Stdout, "tags: %s\n", strings.Join(meta.Tags, ", "))
	}

	supported := "no"
	if spec.StdinSupported() {
		supported = "yes"
	}
	fmt.Fprintf(a.Stdout, "stdin supported: %s\n", supported)

	if !meta.Source.ModTime.IsZero() {
		fmt.Fprintf(a.Stdout, "last modified: %s\n", meta.Source.ModTime.UTC().Format(time.RFC3339))
	}
	fmt.Fprintf(a.Stdout, "source: %s\n", meta.Source.Path)

	if len(meta.Vars) > 0 {
		fmt.Fprintln(a.Stdout, "vars:")
		for _, v := range meta.Vars {
			line := fmt.Sprintf("  - %s (%s)", v.Name, v.Kind)
			if v.Required {
				line += " [required]"
			}
			if v.Description != "" {
				line += " - " + v.Description
			}
			fmt.Fprintln(a.Stdout, line)
		}
	}
}

func promptToJSON(name string, spec *config.PromptSpec, profile *assembler.Profile) promptJSON {
	out := promptJSON{
		Name:           name,
		Description:    spec.Metadata.Description,
		Tags:           spec.Metadata.Tags,
		StdinSupported: spec.StdinSupported(),
		SourcePath:     spec.Metadata.Source.Path,
	}
	if !spec.Metadata.Source.ModTime.IsZero() {
		out.LastModified = spec.Metadata.Source.ModTime.UTC().Format(time.RFC3339)
	}
	for _, v := range spec.Metadata.Vars {
		out.Vars = append(out.Vars, varJSON{
			Name:        v.Name,
			Required:    v.Required,
			Kind:        string(v.Kind),
			Description: v.Description,
		})
	}
	if profile != nil {
		out.Profile = &profileJSON{
			Kind:     string(profile.Kind),
			Parts:    profile.Parts,
			Template: profile.Template,
			Content:  profile.Combined,
		}
	}
	return out
}

func (a *App) printJSON(payload any) error {
	encoded, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(a.Stdout, string(encoded))
	return nil
}

func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}
