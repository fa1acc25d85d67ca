// Package settings resolves tool-level options that sit outside the prompt
// configuration itself: where the config root lives and where rendered
// output goes. Precedence is flags > environment (PA_*) > defaults.
package settings

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	// TargetStdout prints rendered output to standard output.
	TargetStdout = "stdout"
	// TargetClipboard copies rendered output to the system clipboard.
	TargetClipboard = "clipboard"
	// targetFilePrefix routes output to a file, as "file:/path".
	targetFilePrefix = "file:"
)

// Settings holds the resolved tool options.
type Settings struct {
	// ConfigDir is the configuration root holding config.toml and conf.d/.
	ConfigDir string
	// Target selects the output destination for rendered prompts.
	Target string
}

// Manager resolves settings with flag/env/default precedence.
type Manager struct {
	v     *viper.Viper
	flags map[string]string
}

// NewManager creates a manager with environment binding and defaults set.
func NewManager() *Manager {
	v := viper.New()
	v.SetEnvPrefix("PA")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("config_dir", defaultConfigDir())
	v.SetDefault("target", TargetStdout)

	return &Manager{
		v:     v,
		flags: make(map[string]string),
	}
}

// SetFlag records a flag value; empty values are ignored so unset flags do
// not mask environment variables.
func (m *Manager) SetFlag(key, value string) {
	if value != "" {
		m.flags[key] = value
	}
}

// Resolve applies precedence and validates the result.
func (m *Manager) Resolve() (*Settings, error) {
	s := &Settings{
		ConfigDir: expandPath(m.v.GetString("config_dir")),
		Target:    m.v.GetString("target"),
	}

	if dir, ok := m.flags["config_dir"]; ok {
		s.ConfigDir = expandPath(dir)
	}
	if target, ok := m.flags["target"]; ok {
		s.Target = target
	}

	if err := validate(s); err != nil {
		return nil, err
	}
	return s, nil
}

func validate(s *Settings) error {
	if s.ConfigDir == "" {
		return fmt.Errorf("config directory cannot be empty")
	}
	switch {
	case s.Target == TargetStdout, s.Target == TargetClipboard:
	case strings.HasPrefix(s.Target, targetFilePrefix):
		if strings.TrimPrefix(s.Target, targetFilePrefix) == "" {
			return fmt.Errorf("file target is missing a path, use file:/path")
		}
	default:
		return fmt.Errorf("invalid target: %s (must be 'stdout', 'clipboard', or 'file:/path')", s.Target)
	}
	return nil
}

// FileTargetPath extracts the path from a file: target, with ok reporting
// whether target is the file form.
func FileTargetPath(target string) (string, bool) {
	if !strings.HasPrefix(target, targetFilePrefix) {
		return "", false
	}
	return strings.TrimPrefix(target, targetFilePrefix), true
}

// defaultConfigDir follows the XDG convention: $XDG_CONFIG_HOME/pa, falling
// back to ~/.config/pa.
func defaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "pa")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config", "pa")
	}
	return filepath.Join(".config", "pa")
}

// expandPath expands a leading ~ to the user's home directory.
func expandPath(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
