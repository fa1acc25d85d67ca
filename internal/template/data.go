package template

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"pa-cli/internal/fsutil"
)

// Reserved context keys.
const (
	// valueKey wraps a data file whose root is not a mapping, so every
	// template context is guaranteed to be a map.
	valueKey = "value"
	// argsKey exposes positional arguments to templates as a string array.
	argsKey = "_args"
)

// Format tags the serialization of a structured data file.
type Format string

const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// DataRef is a format-tagged reference to an external data file. It is used
// only at render time and never persisted.
type DataRef struct {
	Format Format
	Path   string
}

// ParseDataRef classifies a data file path by extension, case-insensitively.
func ParseDataRef(path string) (DataRef, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return DataRef{Format: FormatJSON, Path: path}, nil
	case ".toml":
		return DataRef{Format: FormatTOML, Path: path}, nil
	default:
		return DataRef{}, fmt.Errorf("data file must use JSON or TOML format")
	}
}

// IsDataFile reports whether path has a recognized data extension.
func IsDataFile(path string) bool {
	_, err := ParseDataRef(path)
	return err == nil
}

// Load parses the referenced file into a map context. Both formats decode
// into the same shape (maps, slices, strings, numbers, booleans, nil), so
// templates never see format-specific values. A non-mapping root is wrapped
// under the reserved "value" key.
func (r DataRef) Load() (map[string]any, error) {
	content, err := fsutil.ReadText(r.Path)
	if err != nil {
		return nil, err
	}

	var value any
	switch r.Format {
	case FormatJSON:
		if err := json.Unmarshal([]byte(content), &value); err != nil {
			return nil, fmt.Errorf("failed to parse JSON data from %s: %w", r.Path, err)
		}
	case FormatTOML:
		if err := toml.Unmarshal([]byte(content), &value); err != nil {
			return nil, fmt.Errorf("failed to parse TOML data from %s: %w", r.Path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported data format %q", r.Format)
	}

	if m, ok := value.(map[string]any); ok {
		return m, nil
	}
	return map[string]any{valueKey: value}, nil
}

// BuildContext loads the data file and merges positional arguments under the
// reserved "_args" key when any were supplied.
func BuildContext(ref DataRef, args []string) (map[string]any, error) {
	context, err := ref.Load()
	if err != nil {
		return nil, err
	}
	if len(args) > 0 {
		context[argsKey] = append([]string(nil), args...)
	}
	return context, nil
}
