package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"pa-cli/internal/fsutil"
)

const (
	baseConfigName  = "config.toml"
	overrideDirName = "conf.d"
	configExt       = ".toml"
)

// Result is the outcome of a successful load: the merged registry, the
// default base directory for prompts without their own override, and any
// non-fatal warnings collected along the way.
type Result struct {
	Root              string
	DefaultPromptPath string
	Registry          *Registry
	Warnings          []Issue
}

// Load resolves the layered configuration rooted at root into one registry.
//
// The base config file is merged first, then every *.toml file in conf.d/
// in lexical filename order; later files win name collisions. Content
// problems (parse errors, invalid prompts, duplicate variables) are collected
// across the whole file set and reported together as an *InvalidConfigError.
// Structural failures (an unreadable file, an unlistable conf.d) abort
// immediately with a *fsutil.FileError or *ReadDirError.
func Load(root string) (*Result, error) {
	reg := newRegistry()
	defaultPath := root
	var errs, warns []Issue

	basePath := filepath.Join(root, baseConfigName)
	if _, err := os.Stat(basePath); err == nil {
		if err := mergeFile(root, basePath, reg, &defaultPath, &errs, &warns); err != nil {
			return nil, err
		}
	}

	overrideDir := filepath.Join(root, overrideDirName)
	if _, err := os.Stat(overrideDir); err == nil {
		entries, err := os.ReadDir(overrideDir)
		if err != nil {
			return nil, &ReadDirError{Path: overrideDir, Err: err}
		}

		var files []string
		for _, entry := range entries {
			if entry.IsDir() || filepath.Ext(entry.Name()) != configExt {
				continue
			}
			files = append(files, entry.Name())
		}
		sort.Strings(files)

		for _, name := range files {
			path := filepath.Join(overrideDir, name)
			if err := mergeFile(root, path, reg, &defaultPath, &errs, &warns); err != nil {
				return nil, err
			}
		}
	}

	if len(errs) > 0 {
		return nil, &InvalidConfigError{Diagnostics: Diagnostics{Errors: errs, Warnings: warns}}
	}

	return &Result{
		Root:              root,
		DefaultPromptPath: defaultPath,
		Registry:          reg,
		Warnings:          warns,
	}, nil
}

// mergeFile folds one configuration file into the running registry. Content
// problems append to errs/warns and processing continues; only a failure to
// read the file itself is returned as a fatal error.
func mergeFile(root, path string, reg *Registry, defaultPath *string, errs, warns *[]Issue) error {
	content, err := fsutil.ReadText(path)
	if err != nil {
		return err
	}

	src := Source{Path: path}
	if info, err := os.Stat(path); err == nil {
		src.ModTime = info.ModTime()
	}

	var file rawFile
	if err := decodeStrict(content, &file); err != nil {
		*errs = append(*errs, Issue{
			Path:    path,
			Code:    CodeParseError,
			Message: err.Error(),
		})
		return nil
	}

	if file.PromptPath != nil {
		resolved, err := fsutil.Resolve(root, *file.PromptPath)
		if err != nil {
			*errs = append(*errs, Issue{
				Path:    path,
				Code:    CodeInvalidPrompt,
				Message: fmt.Sprintf("prompt_path: %v", err),
			})
		} else {
			*defaultPath = resolved
		}
	}

	// TOML decoding loses declaration order within a file, so prompts from
	// one file merge in lexical name order. Cross-file order is the load
	// order of the files themselves.
	names := make([]string, 0, len(file.Prompt))
	for name := range file.Prompt {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		spec, issue := buildPromptSpec(root, name, file.Prompt[name], src)
		if issue != nil {
			*errs = append(*errs, *issue)
			continue
		}

		if prev := reg.insert(name, spec); prev != nil {
			*warns = append(*warns, Issue{
				Path:    path,
				Code:    CodeOverride,
				Message: fmt.Sprintf("prompt %q overrides definition from %s", name, prev.Metadata.Source.Path),
			})
		}
	}

	return nil
}

// decodeStrict parses TOML with unknown keys rejected. The strict-mode error
// from go-toml hides the offending keys behind a generic message, so it is
// expanded to the detailed per-key description.
func decodeStrict(content string, out *rawFile) error {
	dec := toml.NewDecoder(strings.NewReader(content))
	dec.DisallowUnknownFields()

	err := dec.Decode(out)
	if err == nil {
		return nil
	}

	var strict *toml.StrictMissingError
	if errors.As(err, &strict) {
		return errors.New(strict.String())
	}
	return err
}
